package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"threadcut/internal/format"
	"threadcut/internal/model"
	"threadcut/internal/session"
	"threadcut/internal/store"

	"github.com/spf13/cobra"
)

type App struct {
	PrettyJSON bool
	Format     string
	Verbose    bool
	NoColor    bool
	Width      int

	// Cleaning flags only apply when set explicitly.
	StripHeaderTags     bool
	StripUsernameParens bool
	AddContentBr        bool
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "threadcut",
		Short:        "Cut archived forum threads into curated HTML",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Show the reply tree of an archived thread
  threadcut extract thread.html --format text

  # Shortcut for: threadcut extract thread.html
  threadcut thread.html

  # Export two posts (and nothing else) into ./out
  threadcut export thread.html --select 100,200 --to ./out

  # Replay a batch of edits, then export
  threadcut apply thread.html --script ops.yaml --to ./out
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if !format.IsKnown(app.Format) {
			return writeErr(cmd, fmt.Errorf("unknown format: %s (want json|edn|text)", app.Format))
		}
		return nil
	}

	pf := cmd.PersistentFlags()
	pf.BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print JSON/EDN output")
	pf.StringVar(&app.Format, "format", envOr("THREADCUT_FORMAT", format.JSON), "Output format (json|edn|text)")
	pf.BoolVarP(&app.Verbose, "verbose", "v", false, "Log debug details to stderr")
	pf.BoolVar(&app.NoColor, "no-color", false, "Disable colors in text output")
	pf.IntVar(&app.Width, "width", 100, "Line width for text output")
	pf.BoolVar(&app.StripHeaderTags, flagStripHeader, true, "Reduce post headers to text")
	pf.BoolVar(&app.StripUsernameParens, flagStripParens, true, "Drop parenthesized suffixes from user names")
	pf.BoolVar(&app.AddContentBr, flagAddBr, false, "Wrap post content in line breaks")

	cmd.AddCommand(newExtractCmd(app))
	cmd.AddCommand(newExportCmd(app))
	cmd.AddCommand(newApplyCmd(app))
	cmd.AddCommand(newConfigCmd(app))

	return cmd
}

const (
	flagStripHeader = store.KeyStripHeaderTags
	flagStripParens = store.KeyStripUsernameParens
	flagAddBr       = store.KeyAddContentBr
)

// cleaningOptions resolves flags > env > config file > defaults.
func cleaningOptions(cmd *cobra.Command, app *App) (model.CleaningOptions, error) {
	cfg, err := store.LoadConfig()
	if err != nil {
		return model.CleaningOptions{}, err
	}
	out, err := cfg.Cleaning()
	if err != nil {
		return model.CleaningOptions{}, err
	}
	flags := map[string]bool{
		flagStripHeader: app.StripHeaderTags,
		flagStripParens: app.StripUsernameParens,
		flagAddBr:       app.AddContentBr,
	}
	for name, v := range flags {
		if cmd.Flags().Changed(name) {
			if err := store.SetCleaningOption(&out, name, v); err != nil {
				return model.CleaningOptions{}, err
			}
		}
	}
	return out, nil
}

func newLogger(cmd *cobra.Command, app *App) *slog.Logger {
	lvl := slog.LevelWarn
	if app.Verbose {
		lvl = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: lvl}))
}

// openSession reads the thread file and loads it into a fresh session.
func openSession(cmd *cobra.Command, app *App, path string) (*session.Session, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("missing thread file")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	clean, err := cleaningOptions(cmd, app)
	if err != nil {
		return nil, err
	}
	log := newLogger(cmd, app)
	s := session.New(clean, session.WithLogger(log))
	res, err := s.Load(string(b))
	if err != nil {
		return nil, err
	}
	log.Debug("loaded thread", "file", path, "elements", len(res.Elements), "canonical", res.Canonical)
	return s, nil
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func isText(app *App) bool {
	return strings.EqualFold(strings.TrimSpace(app.Format), format.Text)
}

// writeOut writes v as json or edn. Commands without a text view fall back to
// json under --format text.
func writeOut(cmd *cobra.Command, app *App, v any) error {
	f := app.Format
	if isText(app) {
		f = format.JSON
	}
	return format.Write(cmd.OutOrStdout(), v, f, app.PrettyJSON)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), describeErr(err))
	return err
}
