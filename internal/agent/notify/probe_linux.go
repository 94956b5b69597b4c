package notify

import (
	"context"

	"github.com/godbus/dbus/v5"
)

const notificationsBusName = "org.freedesktop.Notifications"

// serviceAvailable reports whether a notification daemon owns the
// freedesktop notifications name on the session bus.
func serviceAvailable(ctx context.Context) (bool, error) {
	conn, err := dbus.SessionBus()
	if err != nil {
		return false, err
	}

	var owned bool
	call := conn.BusObject().CallWithContext(ctx, "org.freedesktop.DBus.NameHasOwner", 0, notificationsBusName)
	if err := call.Store(&owned); err != nil {
		return false, err
	}
	if owned {
		return true, nil
	}

	// Most daemons are D-Bus activated and not yet running.
	var activatable []string
	call = conn.BusObject().CallWithContext(ctx, "org.freedesktop.DBus.ListActivatableNames", 0)
	if err := call.Store(&activatable); err != nil {
		return false, err
	}
	for _, name := range activatable {
		if name == notificationsBusName {
			return true, nil
		}
	}
	return false, nil
}
