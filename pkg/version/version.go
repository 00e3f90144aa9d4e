package version

import "fmt"

// Name is the binary name reported by -version and the status server.
const Name = "playerbridge"

var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

func String() string {
	return fmt.Sprintf("%s %s (commit: %s, built: %s)", Name, Version, Commit, BuildTime)
}
