// Package buildinfo holds version information stamped in at link time:
//
//	go build -ldflags "\
//	    -X github.com/somnus/constellation/pkg/buildinfo.Version=v0.3.0 \
//	    -X github.com/somnus/constellation/pkg/buildinfo.Commit=$(git rev-parse --short HEAD) \
//	    -X github.com/somnus/constellation/pkg/buildinfo.Date=$(date -u +%Y-%m-%d)" \
//	    ./cmd/constellation
package buildinfo

import "fmt"

// Overridden by -ldflags; the defaults mark a local build.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// String returns the build information, one field per line.
func String() string {
	return fmt.Sprintf("version: %s\ncommit: %s\nbuilt: %s", Version, Commit, Date)
}

// Template returns the cobra version template.
func Template() string {
	return "{{.Name}} " + String() + "\n"
}
