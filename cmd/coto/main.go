package main

import (
	"os"
	"strings"

	"coto-cli/internal/cli"
)

func isCotonomaRef(s string) bool {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "@") {
		return false
	}
	return len(s) > 1
}

func rewriteCotonomaShortcutArgs(argv []string) []string {
	// Convenience: `coto @tea` works like `coto cotos list --cotonoma tea`.
	//
	// Cobra treats the first non-flag token as a subcommand, so we rewrite argv
	// before parsing.
	//
	// Users often pass persistent flags first (e.g. `coto --dir ... @tea`), so
	// we must find the first positional token, not just argv[1].
	if len(argv) < 2 {
		return argv
	}

	// Minimal persistent-flag awareness. Unknown flags are skipped without
	// consuming a value, to avoid accidentally eating the room token.
	valueFlags := map[string]bool{
		"--dir":      true,
		"--server":   true,
		"--token":    true,
		"--cotonoma": true,
		"--format":   true,
	}
	boolFlags := map[string]bool{
		"--pretty": true,
	}

	rewrite := func(i int) []string {
		key := strings.TrimPrefix(strings.TrimSpace(argv[i]), "@")
		out := make([]string, 0, len(argv)+3)
		out = append(out, argv[:i]...)
		out = append(out, "cotos", "list", "--cotonoma", key)
		out = append(out, argv[i+1:]...)
		return out
	}

	for i := 1; i < len(argv); i++ {
		a := strings.TrimSpace(argv[i])
		if a == "" {
			continue
		}
		if a == "--" {
			// Stop flag parsing; next token (if any) is the first positional.
			if i+1 < len(argv) && isCotonomaRef(argv[i+1]) {
				return rewrite(i + 1)
			}
			return argv
		}

		if strings.HasPrefix(a, "-") {
			// --flag=value form
			if strings.Contains(a, "=") {
				continue
			}
			if boolFlags[a] {
				continue
			}
			if valueFlags[a] {
				i++ // skip value if present
				continue
			}
			continue
		}

		// First positional token.
		if isCotonomaRef(a) {
			return rewrite(i)
		}
		return argv
	}

	return argv
}

func main() {
	os.Args = rewriteCotonomaShortcutArgs(os.Args)

	cmd := cli.NewRootCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
