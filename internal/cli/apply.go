package cli

import (
	"os"
	"strings"

	"threadcut/internal/script"
	"threadcut/internal/store"

	"github.com/spf13/cobra"
)

func newApplyCmd(app *App) *cobra.Command {
	var scriptPath string
	var toDir string

	cmd := &cobra.Command{
		Use:   "apply <thread.html>",
		Short: "Replay a YAML script of edits against a thread",
		Long: strings.TrimSpace(`
Runs move, insert, delete, annotate, select, options and export steps in order
against one session. The first failing step stops the script; earlier steps
(including exports already written) stay done.
`),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(scriptPath) == "" {
				return writeErr(cmd, errMissingFlag("script"))
			}
			b, err := os.ReadFile(scriptPath)
			if err != nil {
				return writeErr(cmd, err)
			}
			sc, err := script.Parse(b)
			if err != nil {
				return writeErr(cmd, err)
			}
			s, err := openSession(cmd, app, args[0])
			if err != nil {
				return writeErr(cmd, err)
			}

			dir := strings.TrimSpace(toDir)
			if dir == "" {
				if cfg, err := store.LoadConfig(); err == nil {
					dir = cfg.ExportDir
				}
			}
			steps, err := script.Run(s, sc, script.RunOptions{ExportDir: dir})
			if err != nil {
				return writeErr(cmd, err)
			}

			if isText(app) {
				return renderOutline(cmd.OutOrStdout(), s.Rows(), s.Summary(), app.Width, app.NoColor)
			}
			return writeOut(cmd, app, map[string]any{
				"data": s.Rows(),
				"meta": map[string]any{
					"summary": s.Summary(),
					"steps":   steps,
				},
			})
		},
	}

	cmd.Flags().StringVar(&scriptPath, "script", "", "Path to the YAML script")
	cmd.Flags().StringVar(&toDir, "to", "", "Directory for export steps that name no directory")
	return cmd
}
