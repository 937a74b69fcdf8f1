package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

var (
	// Version is the semantic version of the build. It can be overridden via ldflags.
	Version = "0.1.0"
	// Commit is the short git SHA embedded at build time (or "none").
	Commit = "none"
	// BuildTime is the UTC build timestamp embedded at build time.
	BuildTime = "unknown"
)

// Info is the resolved build metadata.
type Info struct {
	Version   string
	Commit    string
	BuildTime string
	GoVersion string
	Modified  bool
}

// Get resolves build metadata, falling back to the VCS settings of the binary.
func Get() Info {
	info := Info{
		Version:   Version,
		Commit:    Commit,
		BuildTime: BuildTime,
		GoVersion: runtime.Version(),
	}

	build, ok := debug.ReadBuildInfo()
	if !ok {
		return info
	}

	for _, setting := range build.Settings {
		switch setting.Key {
		case "vcs.revision":
			if info.Commit == "none" && len(setting.Value) >= 7 {
				info.Commit = setting.Value[:7]
			}
		case "vcs.time":
			if info.BuildTime == "unknown" {
				info.BuildTime = setting.Value
			}
		case "vcs.modified":
			info.Modified = setting.Value == "true"
		}
	}

	return info
}

// Short returns only the semantic version string.
func Short() string {
	return Version
}

// Full returns a human-readable version string with commit, build time and Go version.
func Full() string {
	info := Get()

	commit := info.Commit
	if info.Modified {
		commit += "-dirty"
	}

	return fmt.Sprintf("ae-conditions version: %s, commit: %s, built at: %s, %s",
		info.Version, commit, info.BuildTime, info.GoVersion)
}
