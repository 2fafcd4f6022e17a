package version

// Set at build time, e.g. -ldflags "-X github.com/MainbaseT/sol2uml/internal/version.Version=v1.0.0"
var (
	Version = ""
	Commit  = ""
)

func GetVersion() string {
	if Version == "" {
		return "unknown"
	}
	return Version
}

func GetCommit() string {
	if Commit == "" {
		return "unknown"
	}
	return Commit
}
