//go:build !windows

package main

import (
	"os/exec"
	"syscall"
)

// setDaemonAttr starts the child in a new session, detached from the terminal
func setDaemonAttr(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}
}
