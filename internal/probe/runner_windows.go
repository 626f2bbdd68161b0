//go:build windows

package probe

import "os/exec"

// killProcessGroup keeps the default cancellation, which kills the direct
// child; WaitDelay still bounds the wait for its descendants
func killProcessGroup(cmd *exec.Cmd) {}
