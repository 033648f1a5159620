// Package version provides build-time version information.
package version

// These variables are set at build time via ldflags.
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

// String returns the version line shown by l2t --version.
func String() string {
	return Version + " (commit: " + Commit + ", built: " + Date + ")"
}
