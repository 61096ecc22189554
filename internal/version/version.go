package version

// Version is the version of the replay engine. Metrics produced by engines
// with different major or minor versions are not comparable.
// This value is set at build time using ldflags:
// -ldflags "-X github.com/rxtech-lab/horizon-replay/internal/version.Version=1.2.3"
// The value "main" indicates a development build.
var Version = "main"

// GetVersion returns the current engine version.
func GetVersion() string {
	return Version
}
