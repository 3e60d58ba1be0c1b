// Package version holds build metadata set through -ldflags.
package version

// Build metadata. Override at link time, e.g.
// -ldflags "-X github.com/doeshing/gng-assistant/internal/version.Version=v0.2.0".
var (
	Version   = "dev"
	Commit    = ""
	BuildDate = ""
)
