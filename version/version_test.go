package version

import (
	"runtime/debug"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInfoString(t *testing.T) {
	info := Info{Version: "v1.2.0", CommitHash: "0123456789abcdef", BuildTime: "2026-10-19"}
	assert.Equal(t, "clwm v1.2.0 (0123456, 2026-10-19)", info.String())

	info.Modified = true
	info.BuildTime = ""
	assert.Equal(t, "clwm v1.2.0 (0123456+dirty)", info.String())

	assert.Equal(t, "clwm dev (unknown)", Info{Version: "dev"}.String())
	assert.Equal(t, "abc", Info{CommitHash: "abc"}.Short())
}

func TestFillFromBuild(t *testing.T) {
	info := Info{BuildTime: "stamped"}
	info.fillFromBuild([]debug.BuildSetting{
		{Key: "vcs.revision", Value: "feedface"},
		{Key: "vcs.time", Value: "2026-01-01T00:00:00Z"},
		{Key: "vcs.modified", Value: "true"},
		{Key: "GOOS", Value: "linux"},
	})
	assert.Equal(t, "feedface", info.CommitHash)
	assert.Equal(t, "stamped", info.BuildTime)
	assert.True(t, info.Modified)
}

func TestGet(t *testing.T) {
	info := Get("^1.0")
	assert.Equal(t, Version, info.Version)
	assert.Equal(t, "^1.0", info.WorldFormats)
	assert.NotEmpty(t, info.GoVersion)
	assert.Contains(t, info.Platform, "/")
}
