// Package buildinfo holds build-time metadata injected via -ldflags.
// It is deliberately separate from user configuration: nothing here is
// settable through config files or environment variables.
package buildinfo

// Set at build time with:
//
//	go build -ldflags "-X .../internal/buildinfo.version=v1.2.3 -X .../internal/buildinfo.buildDate=2026-03-01T12:00:00Z"
var (
	version   string
	buildDate string
)

// Version returns the release version, or "unknown" for untagged builds.
func Version() string {
	if version == "" {
		return "unknown"
	}
	return version
}

// BuildDate returns the build timestamp, or "unknown" for local builds.
func BuildDate() string {
	if buildDate == "" {
		return "unknown"
	}
	return buildDate
}
