// Package version carries build metadata, settable via ldflags and exposed
// to scripts through the version namespace.
package version

var (
	// Version is the release version. "dev" for local builds.
	Version = "dev"

	// BuildDate is the build date (YYYY-MM-DD).
	BuildDate = "unknown"

	// BuildTime is the build time (HH:MM:SS).
	BuildTime = "unknown"
)
