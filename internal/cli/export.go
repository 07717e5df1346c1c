package cli

import (
	"fmt"
	"strings"

	"threadcut/internal/export"
	"threadcut/internal/store"

	"github.com/spf13/cobra"
)

func newExportCmd(app *App) *cobra.Command {
	var selectIDs []string
	var all bool
	var toDir string
	var overwrite bool
	var toStdout bool

	cmd := &cobra.Command{
		Use:   "export <thread.html>",
		Short: "Export selected posts as one HTML file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(selectIDs) == 0 && !all {
				return writeErr(cmd, errMissingFlag("select"))
			}
			s, err := openSession(cmd, app, args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			if all {
				selectIDs = selectIDs[:0]
				for _, r := range s.Rows() {
					selectIDs = append(selectIDs, r.ID)
				}
			}
			for _, id := range selectIDs {
				if _, err := s.Select(strings.TrimSpace(id), true); err != nil {
					return writeErr(cmd, err)
				}
			}

			if toStdout {
				out, err := s.Export()
				if err != nil {
					return writeErr(cmd, err)
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), out)
				return err
			}

			dir := strings.TrimSpace(toDir)
			if dir == "" {
				if cfg, err := store.LoadConfig(); err == nil {
					dir = cfg.ExportDir
				}
			}
			if dir == "" {
				return writeErr(cmd, errMissingFlag("to"))
			}
			res, err := s.ExportFile(dir, export.WriteOptions{Overwrite: overwrite})
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{
				"data": res,
				"meta": s.Summary(),
			})
		},
	}

	cmd.Flags().StringSliceVar(&selectIDs, "select", nil, "Post ids to export (comma-separated)")
	cmd.Flags().BoolVar(&all, "all", false, "Export every post")
	cmd.Flags().StringVar(&toDir, "to", "", "Output directory (default: export-dir from config)")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Overwrite an existing file")
	cmd.Flags().BoolVar(&toStdout, "stdout", false, "Write the HTML to stdout instead of a file")
	return cmd
}
