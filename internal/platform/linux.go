package platform

import "path/filepath"

// getLinuxInfo returns platform-specific information for Linux
func getLinuxInfo(homeDir, username string) *Info {
	return &Info{
		OS:       Linux,
		HomeDir:  homeDir,
		Username: username,
		ProtectedPaths: []string{
			"/",
			"/bin",
			"/boot",
			"/dev",
			"/etc",
			"/lib",
			"/lib64",
			"/proc",
			"/run",
			"/sbin",
			"/sys",
			"/usr",
			"/var/lib",
		},
		UserDirs: []string{
			homeDir,
			filepath.Join(homeDir, ".config"),
			filepath.Join(homeDir, ".local"),
			filepath.Join(homeDir, ".local/share"),
			filepath.Join(homeDir, "Documents"),
			filepath.Join(homeDir, "Desktop"),
			"/home",
			"/opt",
			"/srv",
			"/root",
			"/tmp",
			"/var",
			"/mnt",
			"/media",
			"/snap",
			"/lib32",
			"/libx32",
		},
	}
}
