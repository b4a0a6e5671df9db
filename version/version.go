// Package version reports what clwm binary is running and which world file
// formats it reads.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// Set with -ldflags "-X github.com/teranos/clwm/version.Version=..." at release.
var (
	Version    = "dev"
	CommitHash = ""
	BuildTime  = ""
)

// Info describes a build. WorldFormats is the semver range of world file
// formats the binary accepts.
type Info struct {
	Version      string `json:"version"`
	CommitHash   string `json:"commit_hash,omitempty"`
	BuildTime    string `json:"build_time,omitempty"`
	Modified     bool   `json:"modified,omitempty"`
	GoVersion    string `json:"go_version"`
	Platform     string `json:"platform"`
	WorldFormats string `json:"world_formats,omitempty"`
}

// Get collects the build information. Values not stamped by the linker fall
// back to the VCS settings the Go toolchain embeds.
func Get(worldFormats string) Info {
	info := Info{
		Version:      Version,
		CommitHash:   CommitHash,
		BuildTime:    BuildTime,
		GoVersion:    runtime.Version(),
		Platform:     runtime.GOOS + "/" + runtime.GOARCH,
		WorldFormats: worldFormats,
	}
	if bi, ok := debug.ReadBuildInfo(); ok {
		info.fillFromBuild(bi.Settings)
	}
	return info
}

func (i *Info) fillFromBuild(settings []debug.BuildSetting) {
	for _, s := range settings {
		switch s.Key {
		case "vcs.revision":
			if i.CommitHash == "" {
				i.CommitHash = s.Value
			}
		case "vcs.time":
			if i.BuildTime == "" {
				i.BuildTime = s.Value
			}
		case "vcs.modified":
			i.Modified = s.Value == "true"
		}
	}
}

// Short is the abbreviated commit, "unknown" when there is none.
func (i Info) Short() string {
	switch {
	case i.CommitHash == "":
		return "unknown"
	case len(i.CommitHash) > 7:
		return i.CommitHash[:7]
	default:
		return i.CommitHash
	}
}

func (i Info) String() string {
	s := fmt.Sprintf("clwm %s (%s", i.Version, i.Short())
	if i.Modified {
		s += "+dirty"
	}
	if i.BuildTime != "" {
		s += ", " + i.BuildTime
	}
	return s + ")"
}
