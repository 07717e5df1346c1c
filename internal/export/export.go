// Package export builds the final HTML blob from the selected rows and writes
// it out.
package export

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"threadcut/internal/htmlproc"
	"threadcut/internal/model"
	"threadcut/internal/sanitize"
)

// ErrNothingSelected is returned by Render when no element is selected.
var ErrNothingSelected = errors.New("no elements selected")

type WriteOptions struct {
	Overwrite bool
}

type WriteResult struct {
	Path     string `json:"path"`
	Elements int    `json:"elements"`
	Bytes    int    `json:"bytes"`
}

// Render concatenates the processed markup of every selected element, in the
// order given. Each piece is sanitized again and reduced to its first root
// element; pieces that do not start with an element are kept as sanitized
// text.
func Render(rows []model.Element) (string, int, error) {
	var parts []string
	for _, e := range rows {
		if !e.IsSelected {
			continue
		}
		clean := sanitize.HTML(e.ProcessedHTML)
		if first, ok := htmlproc.FirstNode(clean); ok {
			clean = first
		}
		parts = append(parts, clean)
	}
	if len(parts) == 0 {
		return "", 0, ErrNothingSelected
	}
	return strings.Join(parts, "\n"), len(parts), nil
}

// FileName is the suggested download name for an export made at now.
func FileName(now time.Time) string {
	return fmt.Sprintf("exported_html_%d.html", now.UnixMilli())
}

// WriteFile renders rows and writes the blob into toDir.
func WriteFile(rows []model.Element, toDir string, now time.Time, opt WriteOptions) (WriteResult, error) {
	toDir = strings.TrimSpace(toDir)
	if toDir == "" {
		return WriteResult{}, errors.New("missing --to")
	}
	toDir = filepath.Clean(toDir)

	out, n, err := Render(rows)
	if err != nil {
		return WriteResult{}, err
	}
	if err := os.MkdirAll(toDir, 0o755); err != nil {
		return WriteResult{}, err
	}
	p := filepath.Join(toDir, FileName(now))
	if err := writeFile(p, []byte(out), opt.Overwrite); err != nil {
		return WriteResult{}, err
	}
	return WriteResult{Path: p, Elements: n, Bytes: len(out)}, nil
}

func writeFile(path string, b []byte, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return errors.New("file exists (use --overwrite): " + path)
		}
	}
	return os.WriteFile(path, b, 0o644)
}
