// Package buildinfo holds version information stamped in at link time:
//
//	go build -ldflags "-X github.com/igloo/penguin/pkg/buildinfo.Version=v0.3.0 \
//	    -X github.com/igloo/penguin/pkg/buildinfo.Commit=$(git rev-parse --short HEAD) \
//	    -X github.com/igloo/penguin/pkg/buildinfo.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
package buildinfo

import "fmt"

var (
	Version = "dev"     // semantic version, e.g. "v0.3.0"
	Commit  = "none"    // git commit
	Date    = "unknown" // build timestamp, RFC 3339
)

// Info is the build information in serializable form.
type Info struct {
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
}

// Get returns the current build information.
func Get() Info {
	return Info{Version: Version, Commit: Commit, Date: Date}
}

// String returns the build information as one line.
func String() string {
	return fmt.Sprintf("penguin %s (%s, %s)", Version, Commit, Date)
}

// Template returns the cobra version template.
func Template() string {
	return fmt.Sprintf("{{.Name}} %s\ncommit: %s\nbuilt: %s\n", Version, Commit, Date)
}
