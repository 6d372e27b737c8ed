// Package ui holds the color themes shared by the CLI, the usage screen and
// the error handler. Everything is plain ANSI escape codes, selected once at
// startup from the flags, the NO_COLOR convention and whether stdout is a
// terminal.
package ui

import (
	"os"
	"sync"

	"github.com/mattn/go-isatty"
)

// Theme is a set of ANSI escape codes, one per semantic role.
type Theme struct {
	Name string
	// Primary highlights headings and flag names.
	Primary   string
	Secondary string
	Success   string
	Warning   string
	Error     string
	Info      string
	// Value highlights eigenvalues and determinants in reports.
	Value     string
	Bold      string
	Underline string
	Reset     string
}

var (
	// DarkTheme targets dark terminal backgrounds.
	DarkTheme = Theme{
		Name:      "dark",
		Primary:   "\033[38;5;39m",  // bright blue
		Secondary: "\033[38;5;245m", // grey
		Success:   "\033[38;5;82m",  // bright green
		Warning:   "\033[38;5;220m", // yellow
		Error:     "\033[38;5;196m", // red
		Info:      "\033[38;5;141m", // purple
		Value:     "\033[38;5;51m",  // cyan
		Bold:      "\033[1m",
		Underline: "\033[4m",
		Reset:     "\033[0m",
	}

	// LightTheme targets light terminal backgrounds.
	LightTheme = Theme{
		Name:      "light",
		Primary:   "\033[38;5;27m",
		Secondary: "\033[38;5;240m",
		Success:   "\033[38;5;28m",
		Warning:   "\033[38;5;130m",
		Error:     "\033[38;5;124m",
		Info:      "\033[38;5;54m",
		Value:     "\033[38;5;30m",
		Bold:      "\033[1m",
		Underline: "\033[4m",
		Reset:     "\033[0m",
	}

	// NoColorTheme disables all escape codes.
	NoColorTheme = Theme{Name: "none"}

	currentTheme = DarkTheme
	themeMutex   sync.RWMutex
)

// GetCurrentTheme returns the active theme.
func GetCurrentTheme() Theme {
	themeMutex.RLock()
	defer themeMutex.RUnlock()
	return currentTheme
}

// SetCurrentTheme replaces the active theme. Tests use it to restore state.
func SetCurrentTheme(t Theme) {
	themeMutex.Lock()
	defer themeMutex.Unlock()
	currentTheme = t
}

// SetTheme selects a theme by name: "dark", "light" or "none". Unknown names
// select the dark theme.
func SetTheme(name string) {
	t := DarkTheme
	switch name {
	case "light":
		t = LightTheme
	case "none":
		t = NoColorTheme
	}
	SetCurrentTheme(t)
}

// IsTerminal reports whether f is attached to a terminal, including Cygwin
// and MSYS pseudo-terminals on Windows.
func IsTerminal(f *os.File) bool {
	if f == nil {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// InitTheme selects the theme at startup. Colors are disabled when noColor is
// set or when the NO_COLOR environment variable exists (https://no-color.org).
//
// Parameters:
//   - noColor: Disables colors regardless of the environment.
func InitTheme(noColor bool) {
	if _, exists := os.LookupEnv("NO_COLOR"); noColor || exists {
		SetCurrentTheme(NoColorTheme)
		return
	}
	SetCurrentTheme(DarkTheme)
}

// InitThemeFor is InitTheme that also disables colors when out is not a
// terminal, so redirected reports carry no escape codes.
func InitThemeFor(noColor bool, out *os.File) {
	InitTheme(noColor || !IsTerminal(out))
}
