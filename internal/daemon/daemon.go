// Package daemon moves the process into the background.
//
// Go cannot fork a running runtime, so detaching re-executes the binary with
// the same arguments in a new session. The child recognises itself through
// EnvDetached and carries on in the foreground of its own session.
package daemon

import (
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"syscall"

	"golang.org/x/sys/unix"
)

// EnvDetached is set to "1" in the environment of the detached child.
const EnvDetached = "SER2SYSLOG_DETACHED"

// IsDetached reports whether this process is the detached child.
func IsDetached() bool {
	return os.Getenv(EnvDetached) == "1"
}

// Detach starts a copy of the running executable with args in a new session,
// with standard streams on /dev/null. The child inherits the working directory
// so relative arguments resolve the same way; it should call Settle once its
// paths are absolute. Detach returns the child's pid and the caller is
// expected to exit.
func Detach(args []string) (int, error) {
	exe, err := os.Executable()
	if err != nil {
		return 0, fmt.Errorf("locate executable: %w", err)
	}

	devnull, err := os.OpenFile(os.DevNull, os.O_RDWR, 0)
	if err != nil {
		return 0, fmt.Errorf("open %s: %w", os.DevNull, err)
	}
	defer devnull.Close()

	cmd := exec.Command(exe, args...)
	cmd.Env = append(os.Environ(), EnvDetached+"=1")
	cmd.Stdin = devnull
	cmd.Stdout = devnull
	cmd.Stderr = devnull
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}

	if err := cmd.Start(); err != nil {
		return 0, fmt.Errorf("start detached process: %w", err)
	}
	pid := cmd.Process.Pid
	if err := cmd.Process.Release(); err != nil {
		return pid, fmt.Errorf("release detached process: %w", err)
	}
	return pid, nil
}

// Settle moves the detached process to / so it does not pin the directory
// it was started from.
func Settle() error {
	if err := os.Chdir("/"); err != nil {
		return fmt.Errorf("chdir /: %w", err)
	}
	return nil
}

// IgnoreSIGPIPE keeps a vanished log socket peer from killing the process.
func IgnoreSIGPIPE() {
	signal.Ignore(unix.SIGPIPE)
}
