package version

// Version is the version of the advisor. Saved weight search results carry it so that
// weights tuned by an incompatible engine are rejected on load.
// Set at build time with:
// -ldflags "-X github.com/mkhv12/stk-advisor/internal/version.Version=0.2.0"
// "main" marks a development build.
var Version = "v0.1.0"

// GetVersion returns the current version.
func GetVersion() string {
	return Version
}
