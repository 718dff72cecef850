//go:build !unix

package shell

import (
	"os"
	"os/exec"
)

func startProcessGroup(cmd *exec.Cmd) {}

func interruptGroup(p *os.Process) error {
	return p.Signal(os.Interrupt)
}

func killGroup(p *os.Process) error {
	return p.Kill()
}
