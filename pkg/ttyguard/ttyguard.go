// Package ttyguard stops terminal capability probing for scripted runs.
// Import it for side effects before anything that pulls in lipgloss.
package ttyguard

import (
	"os"
	"strings"
)

// init runs before Bubble Tea or Lipgloss look at the terminal.
//
// Background color detection writes OSC/DSR queries to stdout. A real
// terminal swallows them, but they corrupt --list --json output that is
// piped into another program. Setting CI=1 makes termenv skip the probes.
func init() {
	if os.Getenv("CI") != "" {
		return
	}
	if !shouldSuppressTTYQueries(os.Args, os.Getenv("TUNEBOOK_TEST_MODE") != "") {
		return
	}
	_ = os.Setenv("CI", "1")
}

// scriptedFlags never start the TUI.
var scriptedFlags = []string{"list", "json", "export-sqlite", "export-json", "version", "help"}

func shouldSuppressTTYQueries(args []string, envTest bool) bool {
	if envTest {
		return true
	}
	for _, arg := range args {
		if !strings.HasPrefix(arg, "-") {
			continue
		}
		name := strings.TrimLeft(arg, "-")
		if i := strings.IndexByte(name, '='); i >= 0 {
			name = name[:i]
		}
		for _, f := range scriptedFlags {
			if name == f {
				return true
			}
		}
	}
	return false
}
