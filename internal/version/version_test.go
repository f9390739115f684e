package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGet(t *testing.T) {
	info := Get()

	assert.NotEmpty(t, info.Version)
	assert.NotEmpty(t, info.GoVersion)
}

func TestInfoString(t *testing.T) {
	info := Info{Version: "v1.2.3", GitCommit: "abc1234", BuildTime: "2024-01-01", GoVersion: "go1.23.0"}

	assert.Equal(t, "AppScaffold v1.2.3", info.String())
	assert.Contains(t, info.Detailed(), "Git Commit: abc1234")
	assert.Contains(t, info.Detailed(), "Go Version: go1.23.0")
}
