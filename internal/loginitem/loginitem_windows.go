package loginitem

import (
	"errors"
	"os"
	"path/filepath"
)

// platformEntry returns a script in the user's Startup folder.
func platformEntry(item Item) (string, string, error) {
	appData := os.Getenv("APPDATA")
	if appData == "" {
		return "", "", errors.New("APPDATA is not set")
	}
	dir := filepath.Join(appData, "Microsoft", "Windows", "Start Menu", "Programs", "Startup")
	return filepath.Join(dir, item.ID+".cmd"), startupScriptTemplate, nil
}
