// Package version provides build-time version information.
package version

// These variables are set at build time using -ldflags
var (
	// Version is the semantic version of the editor
	Version = "0.1.0"

	// BuildTime is the UTC time when the binary was built
	BuildTime = "unknown"

	// GitCommit is the git commit hash
	GitCommit = "unknown"
)

// FormatVersion is the annotation file format version written on save.
const FormatVersion = "5.0.1"

// String returns a human readable version line for the About dialog.
func String() string {
	return Version + " (" + GitCommit + ", built " + BuildTime + ")"
}
