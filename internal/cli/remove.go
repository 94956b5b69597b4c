package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/liveicon/liveicon/internal/bundle"
	"github.com/liveicon/liveicon/internal/config"
	"github.com/liveicon/liveicon/internal/loginitem"
)

var removeDeleteFiles bool

var removeCmd = &cobra.Command{
	Use:   "remove <name|bundle-dir>",
	Short: "Stop an agent and stop it starting at login",
	Long: `Stop the running agent of a bundle and remove its launch-at-login entry.
With --delete-files the bundle directory is deleted as well.

Run this before moving or deleting a bundle by hand, otherwise the login
entry keeps pointing at the old location.`,
	Args: cobra.ExactArgs(1),
	RunE: runRemove,
}

func init() {
	removeCmd.Flags().BoolVar(&removeDeleteFiles, "delete-files", false, "Also delete the bundle directory")
}

func runRemove(cmd *cobra.Command, args []string) error {
	id := bundle.ResolveID(args[0])

	info, err := config.RunningAgent(id)
	switch {
	case errors.Is(err, config.ErrNotRunning):
	case err != nil:
		return err
	default:
		if err := stopAgent(info.PID, id); err != nil {
			return err
		}
		fmt.Printf("%s %s\n", styleSuccess.Render("Stopped"), styleValue.Render(info.Name))
	}

	if err := loginitem.Remove(id); err != nil {
		return fmt.Errorf("failed to remove login item: %w", err)
	}
	fmt.Printf("%s %s\n", styleSuccess.Render("Removed login item"), styleValue.Render(id))

	if !removeDeleteFiles {
		return nil
	}
	candidates := []string{args[0]}
	if info != nil {
		candidates = append(candidates, info.BundleDir)
	}
	if apps, err := config.GlobalAppsDir(); err == nil {
		candidates = append(candidates, filepath.Join(apps, args[0]))
	}
	dir, err := bundle.FindDir(id, candidates...)
	if err != nil {
		return fmt.Errorf("%w; delete it by hand", err)
	}
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("failed to delete %s: %w", dir, err)
	}
	fmt.Printf("%s %s\n", styleSuccess.Render("Deleted"), styleValue.Render(dir))
	return nil
}
