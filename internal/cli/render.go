package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"threadcut/internal/sanitize"
	"threadcut/internal/session"
	"threadcut/internal/tree"

	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
	"github.com/muesli/termenv"
)

type outlineStyles struct {
	id       lipgloss.Style
	selected lipgloss.Style
	muted    lipgloss.Style
	flag     lipgloss.Style
}

func newOutlineStyles(w io.Writer, noColor bool) outlineStyles {
	r := lipgloss.NewRenderer(w)
	if noColor || strings.TrimSpace(os.Getenv("NO_COLOR")) != "" {
		r.SetColorProfile(termenv.Ascii)
	} else {
		r.SetColorProfile(termenv.NewOutput(w).EnvColorProfile())
	}
	return outlineStyles{
		id:       r.NewStyle().Bold(true),
		selected: r.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "27", Dark: "62"}).Bold(true),
		muted:    r.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "240", Dark: "243"}),
		flag:     r.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "130", Dark: "179"}),
	}
}

// renderOutline prints one line per row: indentation by depth, a selection
// mark, the id, flags and a plain-text preview cut to width.
func renderOutline(w io.Writer, rows []tree.Row, sum session.Summary, width int, noColor bool) error {
	st := newOutlineStyles(w, noColor)
	if width <= 0 {
		width = 100
	}

	head := fmt.Sprintf("%d posts, %d selected", sum.Total, sum.Selected)
	if sum.Canonical != "" {
		head = sum.Canonical + "  " + head
	}
	if _, err := fmt.Fprintln(w, st.muted.Render(head)); err != nil {
		return err
	}

	for _, r := range rows {
		mark := "○"
		if r.IsSelected {
			mark = st.selected.Render("●")
		}
		line := strings.Repeat("  ", r.Depth) + mark + " " + st.id.Render(r.ID)
		if fl := rowFlags(r); fl != "" {
			line += " " + st.flag.Render(fl)
		}
		if preview := sanitize.Text(r.ProcessedHTML); preview != "" {
			room := width - xansi.StringWidth(line) - 2
			if room > 0 {
				line += "  " + st.muted.Render(xansi.Truncate(preview, room, "…"))
			}
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

func rowFlags(r tree.Row) string {
	var out []string
	if r.IsNewTag {
		out = append(out, "new")
	}
	if r.IsManuallyMoved {
		out = append(out, "moved")
	}
	if r.AppliedTextColor != nil {
		out = append(out, "color="+*r.AppliedTextColor)
	}
	for _, f := range []struct {
		on   bool
		name string
	}{
		{r.IsBold, "bold"},
		{r.HasBorder, "border"},
		{r.IsAA, "aa"},
		{r.IsText, "text"},
		{r.HasBr, "br"},
	} {
		if f.on {
			out = append(out, f.name)
		}
	}
	if len(out) == 0 {
		return ""
	}
	return "[" + strings.Join(out, " ") + "]"
}
