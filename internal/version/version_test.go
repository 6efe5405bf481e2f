package version

import (
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestString(t *testing.T) {
	result := String()

	assert.True(t, strings.HasPrefix(result, ProductName), "String() should start with the product name, got: %s", result)
	assert.Contains(t, result, Version)
	assert.Contains(t, result, GitCommit)
	assert.Contains(t, result, BuildTime)
}

func TestShort(t *testing.T) {
	assert.Equal(t, Version, Short())
}

func TestFull(t *testing.T) {
	result := Full()

	assert.Contains(t, result, String())
	assert.Contains(t, result, runtime.Version())
	assert.Contains(t, result, runtime.GOOS+"/"+runtime.GOARCH)
}

func TestGetInfo_ReflectsInjectedValues(t *testing.T) {
	origVersion, origCommit := Version, GitCommit
	Version, GitCommit = "1.4.0", "abc1234"
	defer func() { Version, GitCommit = origVersion, origCommit }()

	info := GetInfo()
	assert.Equal(t, "1.4.0", info.Version)
	assert.Equal(t, "abc1234", info.GitCommit)
	assert.Equal(t, runtime.Version(), info.GoVersion)
	assert.Equal(t, runtime.GOOS+"/"+runtime.GOARCH, info.Platform)
}
