// Package version exposes the build metadata stamped into the binary.
package version

// Populated through -ldflags at build time; the defaults identify an
// unstamped development build.
var (
	// Version is the release version of the analyser.
	Version = "dev"

	// BuildTime is the UTC build timestamp.
	BuildTime = "unknown"

	// GitCommit is the commit the binary was built from.
	GitCommit = "unknown"
)
