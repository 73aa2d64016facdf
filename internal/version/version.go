// Package version provides build information for csfmt.
package version

import (
	"runtime"
	"runtime/debug"
)

// These variables can be overridden at build time using ldflags:
// go build -ldflags "-X csfmt/internal/version.Version=1.0.0 -X csfmt/internal/version.Commit=abc123"
var (
	// Version is the semantic version of csfmt
	Version = "0.3.0"

	// Commit is the git commit hash (set at build time)
	Commit = "unknown"

	// BuildDate is the build timestamp (set at build time)
	BuildDate = "unknown"
)

// readBuildInfo is replaced in tests.
var readBuildInfo = debug.ReadBuildInfo

// commit returns Commit, falling back to the VCS revision stamped by the Go
// toolchain when no ldflags were given.
func commit() string {
	if Commit != "unknown" {
		return Commit
	}
	if info, ok := readBuildInfo(); ok {
		for _, s := range info.Settings {
			if s.Key == "vcs.revision" && s.Value != "" {
				return s.Value
			}
		}
	}
	return Commit
}

// Info returns a formatted version string
func Info() string {
	if c := commit(); c != "unknown" && len(c) > 7 {
		return Version + " (" + c[:7] + ")"
	}
	return Version
}

// Full returns complete version information
func Full() string {
	return "csfmt version " + Version + "\n" +
		"Commit: " + commit() + "\n" +
		"Built: " + BuildDate + "\n" +
		"Go: " + runtime.Version()
}
