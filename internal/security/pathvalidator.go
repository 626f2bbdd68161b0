package security

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fenilsonani/venvsweep/internal/platform"
)

// ErrProtectedPath is wrapped by every refusal to touch a protected location
var ErrProtectedPath = errors.New("refusing to delete protected path")

// PathValidator decides whether a directory tree may be removed
type PathValidator struct {
	protectedPaths []string
	exactPaths     []string
}

// NewPathValidator creates a new PathValidator seeded from the platform's protected paths
func NewPathValidator(info *platform.Info) *PathValidator {
	pv := &PathValidator{}
	if info == nil {
		return pv
	}

	for _, p := range info.ProtectedPaths {
		pv.protectedPaths = append(pv.protectedPaths, filepath.Clean(p))
	}
	for _, p := range info.UserDirs {
		if p == "" {
			continue
		}
		pv.exactPaths = append(pv.exactPaths, filepath.Clean(p))
	}

	return pv
}

// ValidatePathForDeletion performs comprehensive validation on a path before deletion
func (pv *PathValidator) ValidatePathForDeletion(path string) error {
	if !filepath.IsAbs(path) {
		return fmt.Errorf("path must be absolute: %s", path)
	}

	if strings.ContainsAny(path, "\x00\n\r") {
		return fmt.Errorf("path contains dangerous characters: %q", path)
	}

	if filepath.Clean(path) != path {
		return fmt.Errorf("path contains suspicious elements: %s", path)
	}

	// Check both the literal path and where it points, so a symlinked
	// parent cannot smuggle a system directory past the check
	if err := pv.checkProtectedPaths(path); err != nil {
		return err
	}

	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to resolve symlinks: %w", err)
	}

	return pv.checkProtectedPaths(filepath.Clean(resolved))
}

// checkProtectedPaths validates that a path is not in a protected system directory
func (pv *PathValidator) checkProtectedPaths(cleanPath string) error {
	for _, list := range [][]string{pv.exactPaths, pv.protectedPaths} {
		for _, protected := range list {
			if cleanPath == protected {
				return fmt.Errorf("%w: %s", ErrProtectedPath, cleanPath)
			}
		}
	}

	for _, protected := range pv.protectedPaths {
		// The filesystem root is exact-only: its system children are listed
		// on their own, and /venv is an ordinary container location
		if isVolumeRoot(protected) {
			continue
		}
		// Direct children of a system root are refused, deeper paths are fine:
		// /usr/lib is protected, /usr/lib/app/.venv is not
		rel, err := filepath.Rel(protected, cleanPath)
		if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
			continue
		}
		if !strings.ContainsRune(rel, filepath.Separator) {
			return fmt.Errorf("%w: critical system path %s", ErrProtectedPath, cleanPath)
		}
	}

	return nil
}

func isVolumeRoot(p string) bool {
	return filepath.Dir(p) == p
}

// AddProtectedPath adds a custom path that may not itself be removed
func (pv *PathValidator) AddProtectedPath(path string) {
	pv.exactPaths = append(pv.exactPaths, filepath.Clean(path))
}
