//go:build windows

package main

import (
	"os/exec"
	"syscall"
)

// setDaemonAttr starts the child in its own process group
func setDaemonAttr(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{
		CreationFlags: syscall.CREATE_NEW_PROCESS_GROUP,
	}
}
