package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/liveicon/liveicon/internal/bundle"
	"github.com/liveicon/liveicon/internal/config"
)

var activateCmd = &cobra.Command{
	Use:   "activate <name|bundle-dir>",
	Short: "Run the command of a running agent",
	Long: `Ask a running agent to run its command, exactly as if its Run menu
item had been clicked. The agent is identified by the app name given to
"liveicon create" or by its bundle directory.`,
	Args: cobra.ExactArgs(1),
	RunE: runActivate,
}

func runActivate(cmd *cobra.Command, args []string) error {
	id := bundle.ResolveID(args[0])

	info, err := config.RunningAgent(id)
	if errors.Is(err, config.ErrNotRunning) {
		return fmt.Errorf("no running agent for %q", args[0])
	}
	if err != nil {
		return err
	}

	if err := sendActivation(info.PID); err != nil {
		return fmt.Errorf("failed to activate %s: %w", info.Name, err)
	}
	fmt.Printf("%s %s\n", styleSuccess.Render("Activated"), styleValue.Render(info.Name))
	return nil
}
