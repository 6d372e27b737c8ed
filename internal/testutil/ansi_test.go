package testutil

import (
	"testing"

	"github.com/agbru/eigscan/internal/ui"
)

func TestStripAnsiCodes(t *testing.T) {
	t.Parallel()
	in := "\x1b[1mlambda = \x1b[38;5;51m2\x1b[0m"
	if got := StripAnsiCodes(in); got != "lambda = 2" {
		t.Errorf("StripAnsiCodes = %q", got)
	}
}

func TestUseTheme(t *testing.T) {
	orig := ui.GetCurrentTheme()
	t.Run("inner", func(t *testing.T) {
		UseTheme(t, ui.NoColorTheme)
		if ui.GetCurrentTheme().Name != "none" {
			t.Error("theme not applied")
		}
	})
	if ui.GetCurrentTheme().Name != orig.Name {
		t.Error("theme not restored after the subtest")
	}
}
