// Package buildinfo holds the version stamped into the fontsmith binary.
//
// The variables are set with ldflags at release time:
//
//	go build -ldflags "-X github.com/matzehuels/fontsmith/pkg/buildinfo.Version=v0.3.0 \
//	    -X github.com/matzehuels/fontsmith/pkg/buildinfo.Commit=$(git rev-parse --short HEAD) \
//	    -X github.com/matzehuels/fontsmith/pkg/buildinfo.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)" \
//	    ./cmd/fontsmith
package buildinfo

import "fmt"

var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// String returns the build information on three lines.
func String() string {
	return fmt.Sprintf("version: %s\ncommit: %s\nbuilt: %s", Version, Commit, Date)
}

// Template returns the cobra version template, e.g.
// "fontsmith version v0.3.0 (abc1234, 2026-10-01T12:00:00Z)".
func Template() string {
	return fmt.Sprintf("{{.Name}} version %s (%s, %s)\n", Version, Commit, Date)
}
