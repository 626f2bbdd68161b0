// Package testutil provides test helpers and fixtures for venvsweep tests.
// All file operations use t.TempDir() for safe, isolated testing.
package testutil

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"
)

// Day is the unit environment ages are reported in
const Day = 24 * time.Hour

// TestFixture holds paths to test directories and files
type TestFixture struct {
	T       *testing.T
	RootDir string // Root temp directory (auto-cleaned)
}

// NewFixture creates a new test fixture rooted in a fresh temp directory
func NewFixture(t *testing.T) *TestFixture {
	t.Helper()

	return &TestFixture{
		T:       t,
		RootDir: t.TempDir(),
	}
}

// =============================================================================
// File Creation Helpers
// =============================================================================

// CreateFile creates a file with specified content and returns its path
func (f *TestFixture) CreateFile(relPath string, content []byte) string {
	f.T.Helper()

	fullPath := f.Path(relPath)
	dir := filepath.Dir(fullPath)

	if err := os.MkdirAll(dir, 0755); err != nil {
		f.T.Fatalf("failed to create directory %s: %v", dir, err)
	}

	if err := os.WriteFile(fullPath, content, 0644); err != nil {
		f.T.Fatalf("failed to create file %s: %v", fullPath, err)
	}

	return fullPath
}

// CreateFileWithAge creates a file and sets its modification time to the past
func (f *TestFixture) CreateFileWithAge(relPath string, content []byte, age time.Duration) string {
	f.T.Helper()

	fullPath := f.CreateFile(relPath, content)
	f.SetAge(fullPath, age)

	return fullPath
}

// CreateSizedFile creates a zero-filled file of the given size
func (f *TestFixture) CreateSizedFile(relPath string, size int, age time.Duration) string {
	f.T.Helper()
	return f.CreateFileWithAge(relPath, make([]byte, size), age)
}

// SetAge moves a path's modification time into the past
func (f *TestFixture) SetAge(fullPath string, age time.Duration) {
	f.T.Helper()

	oldTime := time.Now().Add(-age)
	if err := os.Chtimes(fullPath, oldTime, oldTime); err != nil {
		f.T.Fatalf("failed to set file time for %s: %v", fullPath, err)
	}
}

// AgeTree sets the modification time of every regular file under relPath
func (f *TestFixture) AgeTree(relPath string, age time.Duration) {
	f.T.Helper()

	err := filepath.WalkDir(f.Path(relPath), func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.Type().IsRegular() {
			f.SetAge(path, age)
		}
		return nil
	})
	if err != nil {
		f.T.Fatalf("failed to age tree %s: %v", relPath, err)
	}
}

// =============================================================================
// Directory Helpers
// =============================================================================

// CreateDir creates a directory and returns its path
func (f *TestFixture) CreateDir(relPath string) string {
	f.T.Helper()

	fullPath := f.Path(relPath)
	if err := os.MkdirAll(fullPath, 0755); err != nil {
		f.T.Fatalf("failed to create directory %s: %v", fullPath, err)
	}

	return fullPath
}

// CreateUnreadableDir creates a directory whose contents cannot be listed
func (f *TestFixture) CreateUnreadableDir(relPath string) string {
	f.T.Helper()

	fullPath := f.CreateDir(relPath)
	if err := os.Chmod(fullPath, 0000); err != nil {
		f.T.Fatalf("failed to chmod directory %s: %v", fullPath, err)
	}
	// Restore permissions so t.TempDir cleanup can remove it
	f.T.Cleanup(func() { os.Chmod(fullPath, 0755) })

	return fullPath
}

// =============================================================================
// Symlink Helpers
// =============================================================================

// CreateSymlink creates a symbolic link at linkPath pointing to target
func (f *TestFixture) CreateSymlink(target, linkPath string) string {
	f.T.Helper()

	fullLinkPath := f.Path(linkPath)
	dir := filepath.Dir(fullLinkPath)

	if err := os.MkdirAll(dir, 0755); err != nil {
		f.T.Fatalf("failed to create directory %s: %v", dir, err)
	}

	if err := os.Symlink(target, fullLinkPath); err != nil {
		f.T.Fatalf("failed to create symlink %s -> %s: %v", fullLinkPath, target, err)
	}

	return fullLinkPath
}

// =============================================================================
// Virtual Environment Helpers
// =============================================================================

// Package is a name/version pair as printed by pip list --format json
type Package struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// CreateVenv creates a minimal environment: a pyvenv.cfg and a site-packages
// directory, but no interpreter. Such an environment probes as broken.
func (f *TestFixture) CreateVenv(relPath string) string {
	f.T.Helper()

	f.CreateFile(filepath.Join(relPath, "pyvenv.cfg"), []byte("home = /usr/bin\ninclude-system-site-packages = false\nversion = 3.12.1\n"))
	f.CreateDir(filepath.Join(relPath, "lib", "python3.12", "site-packages"))

	return f.Path(relPath)
}

// CreateInterpreter installs an executable POSIX shell script as the
// environment's bin/python
func (f *TestFixture) CreateInterpreter(venvRelPath, script string) string {
	f.T.Helper()
	SkipOnWindows(f.T)

	path := f.CreateFile(filepath.Join(venvRelPath, "bin", "python"), []byte(script))
	if err := os.Chmod(path, 0755); err != nil {
		f.T.Fatalf("failed to chmod interpreter %s: %v", path, err)
	}

	return path
}

// CreateHealthyVenv creates an environment whose interpreter reports packages
func (f *TestFixture) CreateHealthyVenv(relPath string, packages ...Package) string {
	f.T.Helper()

	path := f.CreateVenv(relPath)
	f.CreateInterpreter(relPath, PipListScript(packages...))

	return path
}

// PipListScript returns a shell script that prints packages as pip would
func PipListScript(packages ...Package) string {
	if packages == nil {
		packages = []Package{}
	}
	data, err := json.Marshal(packages)
	if err != nil {
		panic(err)
	}
	return fmt.Sprintf("#!/bin/sh\ncat <<'JSON'\n%s\nJSON\n", data)
}

// FailingScript returns a shell script that writes to stderr and exits non-zero
func FailingScript(stderr string, code int) string {
	return fmt.Sprintf("#!/bin/sh\necho %q >&2\nexit %d\n", stderr, code)
}

// RawOutputScript returns a shell script that prints output verbatim and exits 0
func RawOutputScript(output string) string {
	return fmt.Sprintf("#!/bin/sh\ncat <<'OUT'\n%s\nOUT\n", output)
}

// =============================================================================
// Path Helpers
// =============================================================================

// Path returns the full path for a relative path within the fixture
func (f *TestFixture) Path(relPath string) string {
	return filepath.Join(f.RootDir, filepath.FromSlash(relPath))
}

// =============================================================================
// Assertion Helpers
// =============================================================================

// FileExists checks if a path exists without following symlinks
func (f *TestFixture) FileExists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}

// AssertFileExists fails the test if the path doesn't exist
func (f *TestFixture) AssertFileExists(path string) {
	f.T.Helper()
	if !f.FileExists(path) {
		f.T.Errorf("expected %s to exist", path)
	}
}

// AssertFileNotExists fails the test if the path exists
func (f *TestFixture) AssertFileNotExists(path string) {
	f.T.Helper()
	if f.FileExists(path) {
		f.T.Errorf("expected %s to not exist", path)
	}
}

// =============================================================================
// Utility Functions
// =============================================================================

// IsRoot returns true if running as root/admin
func IsRoot() bool {
	return os.Geteuid() == 0
}

// SkipIfRoot skips the test if running as root
func SkipIfRoot(t *testing.T) {
	t.Helper()
	if IsRoot() {
		t.Skip("skipping test when running as root")
	}
}

// SkipOnWindows skips tests that depend on POSIX shells or permissions
func SkipOnWindows(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("skipping test on windows")
	}
}

