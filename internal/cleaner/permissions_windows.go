//go:build windows

package cleaner

import "os"

// canModify reports whether dir exists; Windows ACLs are left to the removal itself
func canModify(dir string) (bool, error) {
	if _, err := os.Stat(dir); err != nil {
		return false, err
	}
	return true, nil
}
