package config

import (
	"github.com/liveicon/liveicon/internal/models"
)

// LoadSettings loads the global settings from ~/.liveicon/settings.yaml.
// If the file doesn't exist, returns default settings.
func LoadSettings() (*models.Settings, error) {
	path, err := GlobalSettingsFile()
	if err != nil {
		return nil, err
	}
	return LoadYAMLOrDefault(path, models.NewSettings)
}

// SaveSettings saves the global settings to ~/.liveicon/settings.yaml.
func SaveSettings(settings *models.Settings) error {
	path, err := GlobalSettingsFile()
	if err != nil {
		return err
	}
	return SaveYAML(path, settings)
}

// UpdateSettings loads the settings, applies fn and saves the result.
func UpdateSettings(fn func(*models.Settings)) error {
	settings, err := LoadSettings()
	if err != nil {
		return err
	}
	fn(settings)
	return SaveSettings(settings)
}
