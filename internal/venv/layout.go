package venv

import (
	"path/filepath"

	"github.com/fenilsonani/venvsweep/internal/platform"
)

// Layout knows where an environment keeps its interpreter
type Layout interface {
	Interpreter(envPath string) string
}

// UnixLayout places the interpreter at bin/python
type UnixLayout struct{}

// Interpreter returns <env>/bin/python
func (UnixLayout) Interpreter(envPath string) string {
	return filepath.Join(envPath, "bin", "python")
}

// WindowsLayout places the interpreter at Scripts\python.exe
type WindowsLayout struct{}

// Interpreter returns <env>\Scripts\python.exe
func (WindowsLayout) Interpreter(envPath string) string {
	return filepath.Join(envPath, "Scripts", "python.exe")
}

// LayoutFor selects the interpreter layout for a host platform
func LayoutFor(p platform.Platform) Layout {
	if p.IsWindows() {
		return WindowsLayout{}
	}
	return UnixLayout{}
}
