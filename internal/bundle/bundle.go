// Package bundle reads and writes agent bundles: a directory holding the
// animated icon, the command to run and a small manifest.
package bundle

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/liveicon/liveicon/internal/agent/animation"
	"github.com/liveicon/liveicon/internal/config"
)

// File names inside a bundle directory.
const (
	ManifestFileName = "bundle.yaml"
	FramesFileName   = "frames.gif"
	CommandFileName  = "command.txt"
	IconFileName     = "icon.png"
)

// IDPrefix prefixes every bundle identifier.
const IDPrefix = "io.liveicon."

// TrayIconSize is the edge length, in pixels, of animation frames.
const TrayIconSize = 64

// ErrEmptyCommand is returned when command.txt holds only whitespace.
var ErrEmptyCommand = errors.New("command is empty")

// Manifest describes a bundle. This corresponds to <bundle>/bundle.yaml.
type Manifest struct {
	Version    int       `yaml:"version"`
	ID         string    `yaml:"id"`
	Name       string    `yaml:"name"`
	IntervalMS int       `yaml:"interval_ms"`
	CreatedAt  time.Time `yaml:"created_at"`
}

// Interval returns the animation frame interval.
func (m Manifest) Interval() time.Duration {
	if m.IntervalMS <= 0 {
		return animation.DefaultInterval
	}
	return time.Duration(m.IntervalMS) * time.Millisecond
}

// Bundle is a loaded bundle.
type Bundle struct {
	Dir      string
	Manifest Manifest
	Command  string
	Frames   animation.FrameSequence
}

// IconPath returns the path of the static icon, used for notifications.
func (b *Bundle) IconPath() string {
	return filepath.Join(b.Dir, IconFileName)
}

// Load reads the manifest, command and frames of the bundle in dir.
// Any failure is fatal for the agent.
func Load(dir string) (*Bundle, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}

	manifest, err := LoadManifest(dir)
	if err != nil {
		return nil, err
	}

	command, err := LoadCommand(filepath.Join(dir, CommandFileName))
	if err != nil {
		return nil, err
	}

	frames, err := LoadFrames(filepath.Join(dir, FramesFileName), TrayIconSize)
	if err != nil {
		return nil, err
	}

	return &Bundle{
		Dir:      dir,
		Manifest: *manifest,
		Command:  command,
		Frames:   frames,
	}, nil
}

// LoadManifest reads bundle.yaml from dir.
func LoadManifest(dir string) (*Manifest, error) {
	var m Manifest
	if err := config.LoadYAML(filepath.Join(dir, ManifestFileName), &m); err != nil {
		return nil, err
	}
	if m.ID == "" {
		return nil, fmt.Errorf("bundle %s has no id", dir)
	}
	return &m, nil
}

// LoadCommand reads a command file and trims surrounding whitespace.
func LoadCommand(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read command: %w", err)
	}
	command := strings.TrimSpace(string(data))
	if command == "" {
		return "", fmt.Errorf("%s: %w", path, ErrEmptyCommand)
	}
	return command, nil
}

// Slug turns a display name into an identifier fragment.
func Slug(name string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

// IDForName returns the bundle identifier for a display name.
func IDForName(name string) string {
	return IDPrefix + Slug(name)
}

// ResolveID accepts either a bundle directory or an app name and returns
// the bundle identifier.
func ResolveID(arg string) string {
	if config.FileExists(filepath.Join(arg, ManifestFileName)) {
		if m, err := LoadManifest(arg); err == nil {
			return m.ID
		}
	}
	return IDForName(arg)
}

// FindDir returns the first of dirs that holds the manifest of bundle id.
func FindDir(id string, dirs ...string) (string, error) {
	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		m, err := LoadManifest(dir)
		if err == nil && m.ID == id {
			return filepath.Abs(dir)
		}
	}
	return "", fmt.Errorf("no bundle directory found for %s", id)
}
