package cli

import (
	"errors"
	"os"
	"os/exec"
)

var activationSignals []os.Signal

func isActivationSignal(sig os.Signal) bool {
	return false
}

func sendActivation(pid int) error {
	return errors.New("activation from the command line is not supported on Windows; use the tray menu")
}

func detach(cmd *exec.Cmd) {}

func terminate(process *os.Process) error {
	return process.Kill()
}
