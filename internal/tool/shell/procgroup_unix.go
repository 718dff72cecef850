//go:build unix

package shell

import (
	"errors"
	"os"
	"os/exec"
	"syscall"
)

func startProcessGroup(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
}

func interruptGroup(p *os.Process) error {
	return signalGroup(p, syscall.SIGINT)
}

func killGroup(p *os.Process) error {
	return signalGroup(p, syscall.SIGKILL)
}

// signalGroup signals every process in p's group. p leads the group, so
// the group id equals its pid.
func signalGroup(p *os.Process, sig syscall.Signal) error {
	if err := syscall.Kill(-p.Pid, sig); err != nil && !errors.Is(err, syscall.ESRCH) {
		return p.Signal(sig)
	}
	return nil
}
