package main

import (
	"os"
	"path/filepath"
	"strings"

	"threadcut/internal/cli"
)

func isThreadFile(s string) bool {
	switch strings.ToLower(filepath.Ext(strings.TrimSpace(s))) {
	case ".html", ".htm":
		return true
	}
	return false
}

// rewriteThreadFileArgs turns `threadcut <file.html>` into
// `threadcut extract <file.html>`.
//
// Cobra reads the first non-flag token as a subcommand, so argv is rewritten
// before parsing. Persistent flags may come first; value flags skip their value.
func rewriteThreadFileArgs(argv []string) []string {
	if len(argv) < 2 {
		return argv
	}

	valueFlags := map[string]bool{
		"--format": true,
		"--width":  true,
	}

	insert := func(i int) []string {
		out := make([]string, 0, len(argv)+1)
		out = append(out, argv[:i]...)
		out = append(out, "extract")
		return append(out, argv[i:]...)
	}

	for i := 1; i < len(argv); i++ {
		a := strings.TrimSpace(argv[i])
		if a == "" {
			continue
		}
		if a == "--" {
			// Everything after -- is positional, so the subcommand goes in front.
			if i+1 < len(argv) && isThreadFile(argv[i+1]) {
				return insert(i)
			}
			return argv
		}
		if strings.HasPrefix(a, "-") {
			if !strings.Contains(a, "=") && valueFlags[a] {
				i++
			}
			continue
		}
		if isThreadFile(a) {
			return insert(i)
		}
		return argv
	}
	return argv
}

func main() {
	os.Args = rewriteThreadFileArgs(os.Args)

	cmd := cli.NewRootCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
