package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/liveicon/liveicon/internal/config"
	"github.com/liveicon/liveicon/internal/models"
)

var notificationsCmd = &cobra.Command{
	Use:   "notifications <allow|deny|reset>",
	Short: "Allow or deny failure notifications",
	Long: `Change whether agents may show a notification when their command fails.
Running agents pick up the change before their next notification.

  allow  show notifications
  deny   never show notifications
  reset  forget the decision; agents ask again at their next launch`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"allow", "deny", "reset"},
	RunE:      runNotifications,
}

func runNotifications(cmd *cobra.Command, args []string) error {
	permission, err := permissionForAction(args[0])
	if err != nil {
		return err
	}

	if err := config.UpdateSettings(func(s *models.Settings) {
		s.Notifications.Permission = permission
	}); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	label := permission
	if label == models.PermissionUndetermined {
		label = "undetermined"
	}
	fmt.Printf("%s %s\n", styleLabel.Render("Notifications:"), styleSuccess.Render(label))
	return nil
}

func permissionForAction(action string) (string, error) {
	switch action {
	case "allow":
		return models.PermissionAuthorized, nil
	case "deny":
		return models.PermissionDenied, nil
	case "reset":
		return models.PermissionUndetermined, nil
	default:
		return "", fmt.Errorf("unknown action %q (want allow, deny or reset)", action)
	}
}
