// Package version is set at build time with
// -ldflags "-X github.com/veesix-networks/setman/pkg/version.Version=...".
package version

var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

func Full() string {
	return Version + " (" + Commit + ") built on " + Date
}
