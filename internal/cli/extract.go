package cli

import (
	"github.com/spf13/cobra"
)

func newExtractCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "extract <thread.html>",
		Short: "Extract posts and print the reconciled reply tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, app, args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			if isText(app) {
				return renderOutline(cmd.OutOrStdout(), s.Rows(), s.Summary(), app.Width, app.NoColor)
			}
			return writeOut(cmd, app, map[string]any{
				"data": s.Rows(),
				"meta": s.Summary(),
				"_hints": []string{
					"threadcut export " + args[0] + " --select <id,id> --to <dir>",
					"threadcut apply " + args[0] + " --script <ops.yaml>",
				},
			})
		},
	}
}
