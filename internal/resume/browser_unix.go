//go:build !windows

package resume

import "syscall"

// killBrowserTree sends SIGKILL to the browser's process group so renderer
// and GPU helpers die with it. Errors mean the group is already gone.
func killBrowserTree(pid int) {
	_ = syscall.Kill(-pid, syscall.SIGKILL)
}
