package scanner

import (
	"io/fs"
	"os"
	"path/filepath"
	"time"
)

// Stats is the size and modification summary of a directory tree
type Stats struct {
	SizeBytes int64
	Files     int
	Newest    time.Time // zero when the tree holds no files
}

// AgeDays returns whole days between the newest file and now, or 0 for an
// empty tree. Files dated in the future count as age 0.
func (s Stats) AgeDays(now time.Time) int {
	if s.Files == 0 || s.Newest.After(now) {
		return 0
	}
	return int(now.Sub(s.Newest) / (24 * time.Hour))
}

// Measure totals the regular files under root. Symlinks that resolve to a
// regular file count with the target's size and mtime; symlinked directories
// are not followed. Any error reading the tree aborts the measurement.
func Measure(root string) (Stats, error) {
	var stats Stats

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		var info fs.FileInfo
		switch {
		case d.Type().IsRegular():
			info, err = d.Info()
			if err != nil {
				return err
			}
		case d.Type()&fs.ModeSymlink != 0:
			target, err := os.Stat(path)
			if err != nil || !target.Mode().IsRegular() {
				// dangling or pointing at a directory
				return nil
			}
			info = target
		default:
			return nil
		}

		stats.Files++
		stats.SizeBytes += info.Size()
		if info.ModTime().After(stats.Newest) {
			stats.Newest = info.ModTime()
		}
		return nil
	})

	return stats, err
}
