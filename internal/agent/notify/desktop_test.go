package notify

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/liveicon/liveicon/internal/config"
	"github.com/liveicon/liveicon/internal/models"
)

func newTestCenter(t *testing.T, permission string, available bool, probeErr error) (*DesktopCenter, *config.SettingsStore) {
	t.Helper()
	t.Setenv(config.HomeEnv, t.TempDir())

	settings := models.NewSettings()
	settings.Notifications.Permission = permission
	store := config.NewSettingsStoreWith(settings)

	c := &DesktopCenter{
		store: store,
		probe: func(ctx context.Context) (bool, error) { return available, probeErr },
	}
	return c, store
}

func TestParsePermission(t *testing.T) {
	tests := []struct {
		value   string
		want    State
		wantErr bool
	}{
		{"", StateUndetermined, false},
		{"denied", StateDenied, false},
		{"authorized", StateAuthorized, false},
		{"maybe", StateDenied, true},
	}

	for _, tt := range tests {
		got, err := ParsePermission(tt.value)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParsePermission(%q) error = %v, wantErr %v", tt.value, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParsePermission(%q) = %v, want %v", tt.value, got, tt.want)
		}
	}
}

func TestDesktopCenter_Settings(t *testing.T) {
	c, _ := newTestCenter(t, models.PermissionAuthorized, true, nil)

	state, err := c.Settings(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StateAuthorized, state)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = c.Settings(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDesktopCenter_RequestAuthorization(t *testing.T) {
	tests := []struct {
		name       string
		permission string
		available  bool
		wantGrant  bool
		wantSaved  string
	}{
		{"service available", models.PermissionUndetermined, true, true, models.PermissionAuthorized},
		{"no service", models.PermissionUndetermined, false, false, models.PermissionDenied},
		{"user already denied", models.PermissionDenied, true, false, models.PermissionDenied},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, store := newTestCenter(t, tt.permission, tt.available, nil)

			granted, err := c.RequestAuthorization(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tt.wantGrant, granted)
			assert.Equal(t, tt.wantSaved, store.Get().Notifications.Permission)

			onDisk, err := config.LoadSettings()
			require.NoError(t, err)
			assert.Equal(t, tt.wantSaved, onDisk.Notifications.Permission)
		})
	}
}

func TestDesktopCenter_RequestAuthorizationProbeError(t *testing.T) {
	c, store := newTestCenter(t, models.PermissionUndetermined, false, errors.New("no session bus"))

	granted, err := c.RequestAuthorization(context.Background())
	assert.Error(t, err)
	assert.False(t, granted)
	assert.Equal(t, models.PermissionUndetermined, store.Get().Notifications.Permission)
}
