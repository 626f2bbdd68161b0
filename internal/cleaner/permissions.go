package cleaner

import (
	"fmt"
	"os"
	"os/user"
	"path/filepath"
)

// PermissionManager handles permission checking
type PermissionManager struct {
	isRoot bool
}

// NewPermissionManager creates a new PermissionManager
func NewPermissionManager() *PermissionManager {
	currentUser, _ := user.Current()
	isRoot := currentUser != nil && currentUser.Uid == "0"

	return &PermissionManager{
		isRoot: isRoot,
	}
}

// CanDelete reports whether the directory entry for path can be removed,
// which needs write and search access on its parent. The tree's contents are
// not inspected.
func (pm *PermissionManager) CanDelete(path string) (bool, error) {
	if pm.isRoot {
		return true, nil
	}

	if _, err := os.Lstat(path); err != nil {
		return false, err
	}

	return canModify(filepath.Dir(path))
}

// IsSpecialFile checks if a path is a special file (device, socket, pipe)
func IsSpecialFile(path string) (bool, error) {
	info, err := os.Lstat(path)
	if err != nil {
		return false, err
	}

	mode := info.Mode()

	switch {
	case mode&os.ModeDevice != 0:
		return true, fmt.Errorf("is a device file")
	case mode&os.ModeCharDevice != 0:
		return true, fmt.Errorf("is a character device")
	case mode&os.ModeSocket != 0:
		return true, fmt.Errorf("is a socket")
	case mode&os.ModeNamedPipe != 0:
		return true, fmt.Errorf("is a named pipe (FIFO)")
	}

	return false, nil
}

// IsSafeToDelete checks that path is a real directory: not a symlink, not a
// special file, not a regular file
func IsSafeToDelete(path string) error {
	if isSpecial, err := IsSpecialFile(path); isSpecial {
		return fmt.Errorf("refusing to delete special file: %w", err)
	}

	info, err := os.Lstat(path)
	if err != nil {
		return err
	}

	if info.Mode()&os.ModeSymlink != 0 {
		return errSymlink
	}
	if !info.IsDir() {
		return errNotDirectory
	}

	return nil
}
