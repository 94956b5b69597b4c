package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/liveicon/liveicon/internal/config"
	"github.com/liveicon/liveicon/internal/models"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show running agents",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	agents, err := config.ListAgents()
	if err != nil {
		return fmt.Errorf("failed to list agents: %w", err)
	}

	settings, err := config.LoadSettings()
	if err != nil {
		return err
	}
	permission := styleValue.Render(settings.Notifications.Permission)
	switch settings.Notifications.Permission {
	case models.PermissionUndetermined:
		permission = styleHint.Render("undetermined")
	case models.PermissionDenied:
		permission = styleWarning.Render(models.PermissionDenied)
	}

	if len(agents) == 0 {
		fmt.Println("No running agents.")
	} else {
		fmt.Printf("Running agents (%d):\n", len(agents))
		for _, a := range agents {
			uptime := time.Since(a.StartedAt).Truncate(time.Second)
			fmt.Printf("  %s %s\n", styleValue.Render(a.Name), styleHint.Render("("+a.BundleID+")"))
			fmt.Printf("    %s %d  %s %s\n", styleLabel.Render("PID"), a.PID, styleLabel.Render("Uptime"), uptime)
			fmt.Printf("    %s\n", styleHint.Render(a.BundleDir))
		}
	}

	fmt.Printf("\n%s %s\n", styleLabel.Render("Notifications:"), permission)
	return nil
}
