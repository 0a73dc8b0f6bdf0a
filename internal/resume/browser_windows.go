//go:build windows

package resume

import (
	"os/exec"
	"strconv"
)

// killBrowserTree terminates Chrome and its child processes. Windows has no
// process groups reachable from syscall, so taskkill walks the tree.
func killBrowserTree(pid int) {
	cmd := exec.Command("taskkill", "/F", "/T", "/PID", strconv.Itoa(pid)) // #nosec G204 -- pid is an int
	_ = cmd.Run()
}
