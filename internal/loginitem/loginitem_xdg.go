//go:build !darwin && !windows

package loginitem

import (
	"os"
	"path/filepath"
)

// platformEntry returns an XDG autostart entry.
func platformEntry(item Item) (string, string, error) {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", "", err
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "autostart", item.ID+".desktop"), desktopEntryTemplate, nil
}
