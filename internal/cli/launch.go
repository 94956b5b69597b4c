package cli

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"time"

	"github.com/liveicon/liveicon/internal/bundle"
	"github.com/liveicon/liveicon/internal/config"
)

// launchAgent starts the agent of the bundle in dir in the background and
// waits for it to come up.
func launchAgent(dir string) error {
	manifest, err := bundle.LoadManifest(dir)
	if err != nil {
		return err
	}

	running, info, err := config.IsAgentRunning(manifest.ID)
	if err != nil {
		return fmt.Errorf("failed to check agent status: %w", err)
	}
	if running {
		// Restart so the new bundle contents take effect.
		if err := stopAgent(info.PID, manifest.ID); err != nil {
			return err
		}
	}

	exe, err := os.Executable()
	if err != nil {
		return err
	}

	cmd := exec.Command(exe, "run", "--bundle", dir)
	cmd.Stdout = nil
	cmd.Stderr = nil
	cmd.Stdin = nil
	detach(cmd)

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start agent: %w", err)
	}
	_ = cmd.Process.Release()

	// Wait for the agent to be ready (max 5 seconds)
	for i := 0; i < 50; i++ {
		time.Sleep(100 * time.Millisecond)
		running, _, err := config.IsAgentRunning(manifest.ID)
		if err == nil && running {
			return nil
		}
	}

	return fmt.Errorf("agent failed to start within timeout; see %s", logHint(manifest.ID))
}

// stopAgent terminates a running agent and waits for its runtime file to go.
func stopAgent(pid int, bundleID string) error {
	process, err := os.FindProcess(pid)
	if err != nil {
		return fmt.Errorf("failed to find agent process: %w", err)
	}
	if err := terminate(process); err != nil {
		return fmt.Errorf("failed to stop agent: %w", err)
	}

	for i := 0; i < 50; i++ {
		time.Sleep(100 * time.Millisecond)
		running, _, err := config.IsAgentRunning(bundleID)
		if err == nil && !running {
			return nil
		}
	}
	return fmt.Errorf("agent did not stop within timeout")
}

// openFolder opens dir in the platform file manager.
func openFolder(dir string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", dir)
	case "windows":
		cmd = exec.Command("explorer", dir)
	default:
		cmd = exec.Command("xdg-open", dir)
	}
	return cmd.Start()
}

func logHint(bundleID string) string {
	path, err := config.LogFile(bundleID)
	if err != nil {
		return "the agent log"
	}
	return path
}
