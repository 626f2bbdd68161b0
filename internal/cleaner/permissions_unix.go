//go:build !windows

package cleaner

import "golang.org/x/sys/unix"

// canModify reports whether entries may be created and removed in dir
func canModify(dir string) (bool, error) {
	err := unix.Access(dir, unix.W_OK|unix.X_OK)
	switch err {
	case nil:
		return true, nil
	case unix.EACCES, unix.EROFS:
		return false, nil
	default:
		return false, err
	}
}
