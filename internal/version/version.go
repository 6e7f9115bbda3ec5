// Package version records build metadata for the annotator binary.
package version

// Set at release build time via
// -ldflags "-X image-annotator/internal/version.Version=...".
var (
	// Version is the annotator release version.
	Version = "0.1.0"

	// BuildTime is the UTC build timestamp.
	BuildTime = "unknown"

	// GitCommit is the git revision the binary was built from.
	GitCommit = "unknown"
)
