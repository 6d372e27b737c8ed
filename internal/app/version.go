// Package app wires the eigscan command: it parses the configuration, picks
// the run mode and maps outcomes to exit codes.
package app

import (
	"fmt"
	"io"
	"runtime"
)

// Build metadata, stamped by the release build:
//
//	go build -ldflags="-X github.com/agbru/eigscan/internal/app.Version=v0.3.0 -X github.com/agbru/eigscan/internal/app.Commit=$(git rev-parse --short HEAD) -X github.com/agbru/eigscan/internal/app.BuildDate=$(date -u +%Y-%m-%dT%H:%M:%SZ)" ./cmd/eigscan
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildDate = "unknown"
)

// HasVersionFlag reports whether args ask for the version. It is checked
// before flag parsing so "eigscan -server --version" prints the version
// instead of starting the server.
func HasVersionFlag(args []string) bool {
	for _, arg := range args {
		switch arg {
		case "--version", "-version", "-V":
			return true
		}
	}
	return false
}

// PrintVersion writes the build metadata and the runtime platform.
func PrintVersion(out io.Writer) {
	info := GetVersionInfo()
	fmt.Fprintf(out, "eigscan %s\n", info.Version)
	fmt.Fprintf(out, "  Commit:     %s\n", info.Commit)
	fmt.Fprintf(out, "  Built:      %s\n", info.BuildDate)
	fmt.Fprintf(out, "  Go version: %s\n", info.GoVersion)
	fmt.Fprintf(out, "  OS/Arch:    %s/%s\n", info.OS, info.Arch)
}

// VersionData is the build metadata in JSON-friendly form.
type VersionData struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildDate string `json:"build_date"`
	GoVersion string `json:"go_version"`
	OS        string `json:"os"`
	Arch      string `json:"arch"`
}

// GetVersionInfo returns the current build metadata.
func GetVersionInfo() VersionData {
	return VersionData{
		Version:   Version,
		Commit:    Commit,
		BuildDate: BuildDate,
		GoVersion: runtime.Version(),
		OS:        runtime.GOOS,
		Arch:      runtime.GOARCH,
	}
}
