// Package loginitem registers an agent to start when the user logs in.
package loginitem

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
)

// Status is the registration state of a login item.
type Status int

const (
	StatusNotRegistered Status = iota
	StatusEnabled
	// StatusStale means an entry exists but points at another executable
	// or bundle.
	StatusStale
)

// String returns a human-readable representation of the status.
func (s Status) String() string {
	switch s {
	case StatusNotRegistered:
		return "not registered"
	case StatusEnabled:
		return "enabled"
	case StatusStale:
		return "stale"
	default:
		return "unknown"
	}
}

// Service is the launch-at-login registration for one bundle.
type Service interface {
	Status() (Status, error)
	Register() error
	Unregister() error
}

// Item describes what to launch at login.
type Item struct {
	ID         string // bundle identifier
	Name       string
	Executable string
	BundleDir  string
}

// Args returns the command line that starts the agent.
func (it Item) Args() []string {
	return []string{it.Executable, "run", "--bundle", it.BundleDir}
}

// fileService implements Service by writing a single file whose content
// fully determines the registration.
type fileService struct {
	path    string
	content []byte
}

// New returns the login item service of the current platform.
func New(item Item) (Service, error) {
	path, tmpl, err := platformEntry(item)
	if err != nil {
		return nil, err
	}
	content, err := render(tmpl, item)
	if err != nil {
		return nil, fmt.Errorf("failed to render login item: %w", err)
	}
	return &fileService{path: path, content: content}, nil
}

// Remove deletes the login item of a bundle, if any.
func Remove(bundleID string) error {
	svc, err := New(Item{ID: bundleID})
	if err != nil {
		return err
	}
	return svc.Unregister()
}

// Path returns the file the registration lives in.
func (s *fileService) Path() string { return s.path }

func (s *fileService) Status() (Status, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return StatusNotRegistered, nil
	}
	if err != nil {
		return StatusNotRegistered, err
	}
	if !bytes.Equal(data, s.content) {
		return StatusStale, nil
	}
	return StatusEnabled, nil
}

func (s *fileService) Register() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("failed to create %s: %w", filepath.Dir(s.path), err)
	}
	if err := os.WriteFile(s.path, s.content, 0644); err != nil {
		return fmt.Errorf("failed to write login item: %w", err)
	}
	return nil
}

func (s *fileService) Unregister() error {
	err := os.Remove(s.path)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
