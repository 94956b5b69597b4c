package loginitem

import (
	"os"
	"path/filepath"
)

// platformEntry returns a LaunchAgent in ~/Library/LaunchAgents.
func platformEntry(item Item) (string, string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", "", err
	}
	path := filepath.Join(home, "Library", "LaunchAgents", item.ID+".plist")
	return path, launchAgentTemplate, nil
}
