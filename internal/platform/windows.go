package platform

import "path/filepath"

// getWindowsInfo returns platform-specific information for Windows
func getWindowsInfo(homeDir, username string) *Info {
	return &Info{
		OS:       Windows,
		HomeDir:  homeDir,
		Username: username,
		ProtectedPaths: []string{
			`C:\`,
			`C:\Windows`,
			`C:\Program Files`,
			`C:\Program Files (x86)`,
			`C:\ProgramData`,
		},
		UserDirs: []string{
			homeDir,
			filepath.Join(homeDir, "AppData"),
			filepath.Join(homeDir, "Documents"),
			filepath.Join(homeDir, "Desktop"),
			`C:\Users`,
		},
	}
}
