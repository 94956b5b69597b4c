package models

import "time"

// AgentInfo describes a running agent.
// This corresponds to ~/.liveicon/run/<bundle-id>.yaml.
type AgentInfo struct {
	Version   int       `yaml:"version"`
	BundleID  string    `yaml:"bundle_id"`
	Name      string    `yaml:"name"`
	BundleDir string    `yaml:"bundle_dir"`
	PID       int       `yaml:"pid"`
	StartedAt time.Time `yaml:"started_at"`
}

// NewAgentInfo creates agent info for the current process.
func NewAgentInfo(bundleID, name, bundleDir string, pid int) *AgentInfo {
	return &AgentInfo{
		Version:   1,
		BundleID:  bundleID,
		Name:      name,
		BundleDir: bundleDir,
		PID:       pid,
		StartedAt: time.Now().UTC(),
	}
}
