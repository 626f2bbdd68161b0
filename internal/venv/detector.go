// Package venv recognizes Python virtual environments on disk.
package venv

import (
	"os"
	"path/filepath"
)

// Markers are paths, relative to a directory, whose presence marks it as a
// virtual environment. Any one of them is enough.
var Markers = []string{
	"pyvenv.cfg",
	"bin/python",
	"Scripts/python.exe",
	"Lib/site-packages",
}

// Detector classifies directories and locates their interpreters
type Detector struct {
	layout Layout
}

// NewDetector creates a Detector using the given interpreter layout
func NewDetector(layout Layout) *Detector {
	if layout == nil {
		layout = UnixLayout{}
	}
	return &Detector{layout: layout}
}

// IsEnvironment reports whether any marker exists beneath path. Nothing else
// about the environment is verified.
func (d *Detector) IsEnvironment(path string) bool {
	for _, marker := range Markers {
		if _, err := os.Stat(filepath.Join(path, filepath.FromSlash(marker))); err == nil {
			return true
		}
	}
	return false
}

// LocateInterpreter returns the interpreter path for the environment. A
// symlinked interpreter is resolved to its target so callers execute the real
// binary; a dangling link yields the missing target.
func (d *Detector) LocateInterpreter(envPath string) string {
	interp := d.layout.Interpreter(envPath)

	info, err := os.Lstat(interp)
	if err != nil || info.Mode()&os.ModeSymlink == 0 {
		return interp
	}

	if resolved, err := filepath.EvalSymlinks(interp); err == nil {
		return resolved
	}

	target, err := os.Readlink(interp)
	if err != nil {
		return interp
	}
	if !filepath.IsAbs(target) {
		target = filepath.Join(filepath.Dir(interp), target)
	}
	return target
}
