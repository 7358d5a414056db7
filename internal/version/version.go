package version

// Version is the current version of the argo-policy library.
// This value is set at build time using ldflags:
// -ldflags "-X github.com/rxtech-lab/argo-policy/internal/version.Version=1.2.3"
// The default value "main" indicates a development build.
var Version = "v1.0.0"

// SchemaVersion is the newest policy configuration schema this build understands.
const SchemaVersion = "1.1.0"

// GetVersion returns the current version of the library.
func GetVersion() string {
	return Version
}
