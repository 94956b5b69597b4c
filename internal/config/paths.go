// Package config handles configuration loading, saving, logging setup and path management.
package config

import (
	"os"
	"path/filepath"
)

const (
	// GlobalDirName is the name of the global liveicon directory.
	GlobalDirName = ".liveicon"

	// HomeEnv overrides the global directory location.
	HomeEnv = "LIVEICON_HOME"

	// AppsDirName is the default install location for generated bundles.
	AppsDirName = "apps"

	// RunDirName holds one runtime file per running agent.
	RunDirName = "run"

	// LogsDirName is the name of the logs directory.
	LogsDirName = "logs"
)

// File names
const (
	SettingsFileName = "settings.yaml"
)

// GlobalDir returns the path to the global liveicon directory (~/.liveicon/).
func GlobalDir() (string, error) {
	if dir := os.Getenv(HomeEnv); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, GlobalDirName), nil
}

// GlobalSettingsFile returns the path to the settings.yaml file.
func GlobalSettingsFile() (string, error) {
	dir, err := GlobalDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, SettingsFileName), nil
}

// GlobalAppsDir returns the default directory bundles are installed into.
func GlobalAppsDir() (string, error) {
	dir, err := GlobalDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, AppsDirName), nil
}

// GlobalRunDir returns the path to the directory of agent runtime files.
func GlobalRunDir() (string, error) {
	dir, err := GlobalDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, RunDirName), nil
}

// GlobalLogsDir returns the path to the logs directory.
func GlobalLogsDir() (string, error) {
	dir, err := GlobalDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, LogsDirName), nil
}

// AgentFile returns the runtime file path for the agent of a bundle.
func AgentFile(bundleID string) (string, error) {
	dir, err := GlobalRunDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, bundleID+".yaml"), nil
}

// LogFile returns the log file path for the agent of a bundle.
func LogFile(bundleID string) (string, error) {
	dir, err := GlobalLogsDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, bundleID+".log"), nil
}

// EnsureGlobalDir creates the global liveicon directory if it doesn't exist.
func EnsureGlobalDir() error {
	dir, err := GlobalDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0755)
}
