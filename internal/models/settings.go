package models

// Notification permission values stored in settings.yaml.
const (
	PermissionUndetermined = ""
	PermissionDenied       = "denied"
	PermissionAuthorized   = "authorized"
)

// NotificationsConfig holds the user's notification decision.
type NotificationsConfig struct {
	Permission string `yaml:"permission"` // "" | "denied" | "authorized"
}

// CommandConfig holds settings for command execution.
type CommandConfig struct {
	SingleInFlight bool   `yaml:"single_in_flight"`
	Shell          string `yaml:"shell,omitempty"` // empty = bash if found, else /bin/sh
}

// LoggingConfig holds settings for the agent log file.
type LoggingConfig struct {
	MaxSizeMB  int `yaml:"max_size_mb"`
	MaxBackups int `yaml:"max_backups"`
	MaxAgeDays int `yaml:"max_age_days"`
}

// Settings represents global application settings.
// This corresponds to ~/.liveicon/settings.yaml.
type Settings struct {
	Version       int                 `yaml:"version"`
	Notifications NotificationsConfig `yaml:"notifications"`
	Command       CommandConfig       `yaml:"command"`
	Logging       LoggingConfig       `yaml:"logging"`
}

// NewSettings creates settings with default values.
func NewSettings() *Settings {
	return &Settings{
		Version: 1,
		Notifications: NotificationsConfig{
			Permission: PermissionUndetermined,
		},
		Command: CommandConfig{
			SingleInFlight: false,
		},
		Logging: LoggingConfig{
			MaxSizeMB:  5,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
	}
}
