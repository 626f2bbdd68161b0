package platform

import "path/filepath"

// getMacOSInfo returns platform-specific information for macOS
func getMacOSInfo(homeDir, username string) *Info {
	return &Info{
		OS:       MacOS,
		HomeDir:  homeDir,
		Username: username,
		ProtectedPaths: []string{
			"/",
			"/System",
			"/Applications",
			"/Library",
			"/bin",
			"/sbin",
			"/usr",
			"/etc",
			"/dev",
			"/private/etc",
			"/private/var/db",
		},
		UserDirs: []string{
			homeDir,
			filepath.Join(homeDir, "Library"),
			filepath.Join(homeDir, "Library/Application Support"),
			filepath.Join(homeDir, "Documents"),
			filepath.Join(homeDir, "Desktop"),
			"/Users",
			"/opt",
			"/tmp",
			"/var",
			"/private",
			"/Volumes",
			"/cores",
		},
	}
}
