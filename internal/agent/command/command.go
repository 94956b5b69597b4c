// Package command runs the agent's configured shell command.
package command

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"runtime"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// DefaultWaitDelay bounds how long Run keeps reading stderr after the shell
// has exited, for commands that leave background children holding it open.
const DefaultWaitDelay = 2 * time.Second

// Outcome is the result of one command run.
type Outcome struct {
	RunID     string
	Succeeded bool
	// ErrorText is the command's stderr for a failed run, or the start
	// error when the shell could not be launched.
	ErrorText string
	ExitCode  int
	Duration  time.Duration
}

// Executor runs command strings through a shell. It imposes no concurrency
// limit; every Run is independent.
type Executor struct {
	shell     string
	shellFlag string
	waitDelay time.Duration
	log       zerolog.Logger
}

// NewExecutor creates an executor. An empty shell selects bash when it is on
// PATH and /bin/sh otherwise (cmd.exe on Windows).
func NewExecutor(shell string, log zerolog.Logger) *Executor {
	e := &Executor{
		shell:     shell,
		shellFlag: "-c",
		waitDelay: DefaultWaitDelay,
		log:       log.With().Str("component", "command").Logger(),
	}
	if runtime.GOOS == "windows" {
		if e.shell == "" {
			e.shell = "cmd.exe"
		}
		e.shellFlag = "/C"
		return e
	}
	if e.shell == "" {
		e.shell = defaultShell()
	}
	return e
}

func defaultShell() string {
	if path, err := exec.LookPath("bash"); err == nil {
		return path
	}
	return "/bin/sh"
}

// Shell returns the shell used to interpret commands.
func (e *Executor) Shell() string { return e.shell }

// SetWaitDelay changes how long Run waits for stderr to close once the shell
// has exited.
func (e *Executor) SetWaitDelay(d time.Duration) { e.waitDelay = d }

// Run executes command and waits for it to finish. Stdout is discarded.
func (e *Executor) Run(ctx context.Context, command string) Outcome {
	runID := uuid.NewString()
	log := e.log.With().Str("run_id", runID).Logger()

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, e.shell, e.shellFlag, command)
	cmd.Stderr = &stderr
	// The outcome follows the shell's exit, not the lifetime of children
	// that inherited stderr.
	cmd.WaitDelay = e.waitDelay

	log.Info().Str("shell", e.shell).Str("command", command).Msg("running command")
	start := time.Now()
	err := cmd.Run()
	if errors.Is(err, exec.ErrWaitDelay) {
		// Exited with status 0; only the stderr copy was cut short.
		err = nil
	}
	outcome := Outcome{
		RunID:    runID,
		Duration: time.Since(start),
	}

	if err == nil {
		outcome.Succeeded = true
		log.Info().Dur("duration", outcome.Duration).Msg("command succeeded")
		return outcome
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		outcome.ExitCode = exitErr.ExitCode()
		outcome.ErrorText = stderr.String()
	} else {
		outcome.ExitCode = -1
		outcome.ErrorText = err.Error()
	}
	log.Warn().
		Int("exit_code", outcome.ExitCode).
		Dur("duration", outcome.Duration).
		Str("stderr", outcome.ErrorText).
		Msg("command failed")
	return outcome
}
