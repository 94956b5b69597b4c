//go:build !windows

package cli

import (
	"os"
	"os/exec"
	"syscall"
)

// activationSignals trigger a command run in a running agent.
var activationSignals = []os.Signal{syscall.SIGUSR1}

func isActivationSignal(sig os.Signal) bool {
	return sig == syscall.SIGUSR1
}

// sendActivation asks the agent with the given PID to run its command.
func sendActivation(pid int) error {
	process, err := os.FindProcess(pid)
	if err != nil {
		return err
	}
	return process.Signal(syscall.SIGUSR1)
}

// detach starts cmd in its own session so it outlives the CLI.
func detach(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}
}

func terminate(process *os.Process) error {
	return process.Signal(syscall.SIGTERM)
}
