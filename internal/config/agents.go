package config

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"sort"
	"strings"
	"syscall"

	"github.com/liveicon/liveicon/internal/models"
)

// ErrNotRunning is returned when a bundle has no live agent.
var ErrNotRunning = errors.New("agent is not running")

// LoadAgentInfo loads the runtime info of a bundle's agent.
// Returns nil if the file doesn't exist.
func LoadAgentInfo(bundleID string) (*models.AgentInfo, error) {
	path, err := AgentFile(bundleID)
	if err != nil {
		return nil, err
	}

	if !FileExists(path) {
		return nil, nil
	}

	var info models.AgentInfo
	if err := LoadYAML(path, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// SaveAgentInfo saves the runtime info of a running agent.
func SaveAgentInfo(info *models.AgentInfo) error {
	path, err := AgentFile(info.BundleID)
	if err != nil {
		return err
	}
	return SaveYAML(path, info)
}

// RemoveAgentInfo removes the runtime file of a bundle's agent.
func RemoveAgentInfo(bundleID string) error {
	path, err := AgentFile(bundleID)
	if err != nil {
		return err
	}

	if !FileExists(path) {
		return nil
	}
	return os.Remove(path)
}

// IsAgentRunning checks if the agent process of a bundle is still running.
// Returns true if the runtime file exists and the PID is alive.
func IsAgentRunning(bundleID string) (bool, *models.AgentInfo, error) {
	info, err := LoadAgentInfo(bundleID)
	if err != nil {
		return false, nil, err
	}
	if info == nil {
		return false, nil, nil
	}

	if !processAlive(info.PID) {
		// Process doesn't exist, clean up stale file
		_ = RemoveAgentInfo(bundleID)
		return false, info, nil
	}

	return true, info, nil
}

// RunningAgent returns the info of the live agent of a bundle, or an error
// wrapping ErrNotRunning.
func RunningAgent(bundleID string) (*models.AgentInfo, error) {
	running, info, err := IsAgentRunning(bundleID)
	if err != nil {
		return nil, fmt.Errorf("failed to check agent status: %w", err)
	}
	if !running {
		return nil, fmt.Errorf("%s: %w", bundleID, ErrNotRunning)
	}
	return info, nil
}

// ListAgents returns the runtime info of every live agent, sorted by name.
// Stale runtime files are removed along the way.
func ListAgents() ([]*models.AgentInfo, error) {
	dir, err := GlobalRunDir()
	if err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var agents []*models.AgentInfo
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".yaml") {
			continue
		}
		running, info, err := IsAgentRunning(strings.TrimSuffix(e.Name(), ".yaml"))
		if err != nil || !running {
			continue
		}
		agents = append(agents, info)
	}

	sort.Slice(agents, func(i, j int) bool {
		return agents[i].Name < agents[j].Name
	})
	return agents, nil
}

func processAlive(pid int) bool {
	process, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	if runtime.GOOS == "windows" {
		// FindProcess opens a handle and fails for dead PIDs.
		process.Release()
		return true
	}
	// On Unix, FindProcess always succeeds; signal 0 probes for existence.
	return process.Signal(syscall.Signal(0)) == nil
}
