package platform

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromGOOS(t *testing.T) {
	tests := []struct {
		goos string
		want Platform
	}{
		{"darwin", MacOS},
		{"linux", Linux},
		{"windows", Windows},
		{"freebsd", Unknown},
	}

	for _, tt := range tests {
		t.Run(tt.goos, func(t *testing.T) {
			assert.Equal(t, tt.want, fromGOOS(tt.goos))
		})
	}
}

func TestIsWindows(t *testing.T) {
	assert.True(t, Windows.IsWindows())
	assert.False(t, Linux.IsWindows())
	assert.False(t, Unknown.IsWindows())
}

func TestInfoForUnknownUsesLinuxLayout(t *testing.T) {
	info := infoFor(Unknown, "/home/dev", "dev")

	assert.Equal(t, Unknown, info.OS)
	assert.Contains(t, info.ProtectedPaths, "/usr")
	assert.Contains(t, info.UserDirs, "/home/dev")
	assert.Contains(t, info.UserDirs, "/var")
}

func TestInfoForMacOS(t *testing.T) {
	info := infoFor(MacOS, "/Users/dev", "dev")

	assert.Equal(t, MacOS, info.OS)
	assert.Contains(t, info.ProtectedPaths, "/System")
	assert.Contains(t, info.UserDirs, "/Users/dev/Documents")
	assert.Contains(t, info.UserDirs, "/private")
}

func TestGetInfo(t *testing.T) {
	info, err := GetInfo()
	if err != nil {
		t.Skipf("current user unavailable: %v", err)
	}

	assert.Equal(t, Detect(), info.OS)
	assert.NotEmpty(t, info.ProtectedPaths)
}
