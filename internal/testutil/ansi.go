// Package testutil holds helpers shared by the tests of the CLI-facing
// packages.
package testutil

import (
	"regexp"
	"testing"

	"github.com/agbru/eigscan/internal/ui"
)

// ansiRegex matches CSI escape sequences such as "\x1b[38;5;82m".
var ansiRegex = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

// StripAnsiCodes removes ANSI escape codes from s.
func StripAnsiCodes(s string) string {
	return ansiRegex.ReplaceAllString(s, "")
}

// UseTheme switches the ui theme for the duration of the test. Tests that
// call it must not run in parallel with tests that read the theme.
func UseTheme(t testing.TB, theme ui.Theme) {
	t.Helper()
	orig := ui.GetCurrentTheme()
	ui.SetCurrentTheme(theme)
	t.Cleanup(func() { ui.SetCurrentTheme(orig) })
}
