package platform

import (
	"os/user"
	"runtime"
)

// Platform represents the operating system platform
type Platform string

const (
	MacOS   Platform = "darwin"
	Linux   Platform = "linux"
	Windows Platform = "windows"
	Unknown Platform = "unknown"
)

// Info contains platform-specific information and paths
type Info struct {
	OS       Platform
	HomeDir  string
	Username string
	// ProtectedPaths are system roots; neither they nor their direct children
	// may be removed.
	ProtectedPaths []string
	// UserDirs may not be removed themselves, but anything below them may.
	UserDirs []string
}

// Detect returns the current platform
func Detect() Platform {
	return fromGOOS(runtime.GOOS)
}

func fromGOOS(goos string) Platform {
	switch goos {
	case "darwin":
		return MacOS
	case "linux":
		return Linux
	case "windows":
		return Windows
	default:
		return Unknown
	}
}

// IsWindows reports whether interpreters live under Scripts\ rather than bin/
func (p Platform) IsWindows() bool {
	return p == Windows
}

// GetInfo returns platform-specific information
func GetInfo() (*Info, error) {
	currentUser, err := user.Current()
	if err != nil {
		return nil, &PlatformError{Message: "failed to resolve current user: " + err.Error()}
	}

	return infoFor(Detect(), currentUser.HomeDir, currentUser.Username), nil
}

func infoFor(p Platform, homeDir, username string) *Info {
	var info *Info

	switch p {
	case MacOS:
		info = getMacOSInfo(homeDir, username)
	case Windows:
		info = getWindowsInfo(homeDir, username)
	default:
		// Unknown unix-likes share the Linux layout
		info = getLinuxInfo(homeDir, username)
		info.OS = p
	}

	return info
}

// PlatformError represents a platform-related error
type PlatformError struct {
	Message string
}

func (e *PlatformError) Error() string {
	return e.Message
}
