package version

import (
	"fmt"
	"runtime"
)

// Build information set by ldflags
var (
	Version = "dev"     // -X github.com/arthur-debert/webup/internal/version.Version={{.Version}}
	Commit  = "unknown" // -X github.com/arthur-debert/webup/internal/version.Commit={{.Commit}}
	Date    = "unknown" // -X github.com/arthur-debert/webup/internal/version.Date={{.Date}}
)

// Info is the build information in a form renderers can encode.
type Info struct {
	Version string `json:"version" yaml:"version"`
	Commit  string `json:"commit" yaml:"commit"`
	Date    string `json:"date" yaml:"date"`
	Go      string `json:"go" yaml:"go"`
}

// Get returns the current build information.
func Get() Info {
	return Info{
		Version: Version,
		Commit:  Commit,
		Date:    Date,
		Go:      runtime.Version(),
	}
}

// String renders the multi-line `webup version` output.
func (i Info) String() string {
	return fmt.Sprintf("webup version %s\n  commit: %s\n  built:  %s\n  go:     %s\n",
		i.Version, i.Commit, i.Date, i.Go)
}
