// Package version reports how the orgpage binary was built.
//
// Release builds stamp the variables below with ldflags, for example:
//
//	-X github.com/jmylchreest/orgpage/internal/version.Version=0.3.0
//	-X github.com/jmylchreest/orgpage/internal/version.Commit=$(git rev-parse --short HEAD)
package version

import (
	"fmt"
	"runtime"
	"strings"
)

var (
	Version   = "dev"
	Commit    = "unknown"
	Dirty     = "false" // "true" when built from a modified tree
	BuildDate = "unknown"
)

// Info is the build metadata printed by `orgpage version`.
type Info struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	Dirty     bool   `json:"dirty"`
	BuildDate string `json:"build_date"`
	GoVersion string `json:"go_version"`
	Platform  string `json:"platform"`
}

// Get collects the stamped variables and the runtime details.
func Get() Info {
	return Info{
		Version:   Version,
		Commit:    Commit,
		Dirty:     Dirty == "true",
		BuildDate: BuildDate,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
}

// String returns the version, suffixed with "-dirty" for modified trees.
func String() string {
	return Get().label()
}

func (i Info) label() string {
	if i.Dirty {
		return i.Version + "-dirty"
	}
	return i.Version
}

// Full returns the version line followed by one indented line per detail.
func Full() string {
	i := Get()
	lines := []string{
		"orgpage " + i.label(),
		detail("Commit", i.Commit),
		detail("Built", i.BuildDate),
		detail("Go version", i.GoVersion),
		detail("OS/Arch", i.Platform),
	}
	return strings.Join(lines, "\n")
}

func detail(name, value string) string {
	return fmt.Sprintf("  %-11s %s", name+":", value)
}
