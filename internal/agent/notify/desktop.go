package notify

import (
	"context"
	"fmt"

	"github.com/gen2brain/beeep"

	"github.com/liveicon/liveicon/internal/models"
)

// SettingsStore is the persisted permission decision.
type SettingsStore interface {
	Get() models.Settings
	Update(fn func(*models.Settings)) error
}

// DesktopCenter delivers notifications through the desktop notification
// service. The user's decision lives in settings.yaml so it can be revoked
// from outside the agent.
type DesktopCenter struct {
	store SettingsStore
	icon  string
	probe func(ctx context.Context) (bool, error)
}

// NewDesktopCenter creates a center that shows notifications as appName,
// with icon as the image path (may be empty).
func NewDesktopCenter(store SettingsStore, appName, icon string) *DesktopCenter {
	if appName != "" {
		beeep.AppName = appName
	}
	return &DesktopCenter{
		store: store,
		icon:  icon,
		probe: serviceAvailable,
	}
}

// Settings implements Center.
func (c *DesktopCenter) Settings(ctx context.Context) (State, error) {
	if err := ctx.Err(); err != nil {
		return StateUndetermined, err
	}
	return ParsePermission(c.store.Get().Notifications.Permission)
}

// RequestAuthorization implements Center. There is no permission prompt on
// most desktops, so permission is granted when a notification service is
// reachable. A decision the user already made is never overwritten.
func (c *DesktopCenter) RequestAuthorization(ctx context.Context) (bool, error) {
	available, err := c.probe(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to probe notification service: %w", err)
	}

	decided := models.PermissionDenied
	if available {
		decided = models.PermissionAuthorized
	}

	var granted bool
	err = c.store.Update(func(s *models.Settings) {
		if s.Notifications.Permission == models.PermissionUndetermined {
			s.Notifications.Permission = decided
		}
		granted = s.Notifications.Permission == models.PermissionAuthorized
	})
	if err != nil {
		return false, fmt.Errorf("failed to save notification permission: %w", err)
	}
	return granted, nil
}

// Deliver implements Center.
func (c *DesktopCenter) Deliver(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return beeep.Alert(msg.Title, msg.Body, c.icon)
}

// ParsePermission maps a settings.yaml permission value to a State.
func ParsePermission(s string) (State, error) {
	switch s {
	case models.PermissionUndetermined:
		return StateUndetermined, nil
	case models.PermissionDenied:
		return StateDenied, nil
	case models.PermissionAuthorized:
		return StateAuthorized, nil
	default:
		return StateDenied, fmt.Errorf("unknown notification permission %q", s)
	}
}
