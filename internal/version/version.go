// Package version exposes the build metadata stamped into ryijy via ldflags.
package version

import (
	"fmt"
	"runtime"
)

// Set at build time, e.g.
// -ldflags "-X github.com/jmylchreest/ryijy/internal/version.Version=x.y.z".
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

// Info is the version information reported by `ryijy version`.
type Info struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	Date      string `json:"date"`
	GoVersion string `json:"go_version"`
	Platform  string `json:"platform"`
}

// GetInfo returns the build metadata of the running binary.
func GetInfo() Info {
	return Info{
		Version:   Version,
		Commit:    Commit,
		Date:      Date,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
}

// String returns a one-line version banner.
func String() string {
	info := GetInfo()
	if len(Commit) >= 8 && Date != "unknown" {
		return fmt.Sprintf("ryijy %s (commit %s, built %s, %s, %s)",
			info.Version, info.Commit[:8], info.Date, info.GoVersion, info.Platform)
	}
	return fmt.Sprintf("ryijy %s (%s, %s)", info.Version, info.GoVersion, info.Platform)
}

// UserAgent returns the User-Agent sent with remote image fetches.
func UserAgent() string {
	return "ryijy/" + Version
}
