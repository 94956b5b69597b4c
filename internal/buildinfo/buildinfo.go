// Package buildinfo holds version information injected at build time via ldflags.
package buildinfo

var (
	Version    = "dev"
	CommitHash = "unknown"
	BuildDate  = "unknown"
)

// UserAgent identifies this build in log lines.
func UserAgent() string {
	return "liveicon/" + Version
}
