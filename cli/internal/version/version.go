// Package version records the build metadata of the running binary.
package version

import (
	"fmt"
	"runtime"
)

// Overridden at build time with -ldflags -X.
var (
	Version   = "0.2.0"
	GitCommit = "unknown"
)

// Info holds the resolved build information.
type Info struct {
	Version   string
	GitCommit string
	GoVersion string
	Platform  string
}

// Get returns the build information for the running binary.
func Get() Info {
	return Info{
		Version:   Version,
		GitCommit: GitCommit,
		GoVersion: runtime.Version(),
		Platform:  fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
	}
}

// String renders the line shown by --version.
func (i Info) String() string {
	return fmt.Sprintf("%s (commit %s, %s, %s)", i.Version, i.GitCommit, i.Platform, i.GoVersion)
}
