package bundle

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color/palette"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/liveicon/liveicon/internal/config"
)

// StaticIconSize is the edge length of icon.png.
const StaticIconSize = 256

// CreateOptions describes a bundle to generate.
type CreateOptions struct {
	Name         string
	GIFPath      string
	Command      string
	ResizeMethod ResizeMethod
	// Location is the parent directory; the bundle goes to Location/Name.
	Location string
}

// Validate checks the options the way the CLI reports them.
func (o CreateOptions) Validate() error {
	if strings.TrimSpace(o.Name) == "" {
		return errors.New("app name must not be empty")
	}
	if Slug(o.Name) == "" {
		return fmt.Errorf("app name %q has no letters or digits", o.Name)
	}
	if strings.TrimSpace(o.Command) == "" {
		return ErrEmptyCommand
	}
	info, err := os.Stat(o.GIFPath)
	switch {
	case os.IsNotExist(err):
		return fmt.Errorf("%s: no such file", o.GIFPath)
	case err != nil:
		return err
	case info.IsDir():
		return fmt.Errorf("%s: specify a GIF, not a directory", o.GIFPath)
	}
	if _, err := ParseResizeMethod(string(o.ResizeMethod)); err != nil {
		return err
	}
	return nil
}

// Create generates a bundle directory and returns its path. An existing
// bundle of the same name is replaced.
func Create(ctx context.Context, opts CreateOptions, log zerolog.Logger) (string, error) {
	if err := opts.Validate(); err != nil {
		return "", err
	}

	decoded, err := DecodeGIFFile(opts.GIFPath)
	if err != nil {
		return "", err
	}
	log.Debug().Int("frames", len(decoded.Frames)).Str("gif", opts.GIFPath).Msg("decoded GIF")

	squared, err := squareFrames(ctx, decoded.Frames, opts.ResizeMethod, log)
	if err != nil {
		return "", err
	}

	dir := filepath.Join(opts.Location, opts.Name)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create bundle directory: %w", err)
	}

	log.Debug().Str("dir", dir).Msg("writing command file")
	if err := os.WriteFile(filepath.Join(dir, CommandFileName), []byte(opts.Command), 0644); err != nil {
		return "", fmt.Errorf("failed to write command file: %w", err)
	}

	if err := writeFrames(filepath.Join(dir, FramesFileName), opts.GIFPath, decoded, squared); err != nil {
		return "", err
	}

	if err := writeStaticIcon(filepath.Join(dir, IconFileName), squared[0]); err != nil {
		return "", err
	}

	manifest := &Manifest{
		Version:    1,
		ID:         IDForName(opts.Name),
		Name:       opts.Name,
		IntervalMS: int(decoded.Interval() / time.Millisecond),
		CreatedAt:  time.Now().UTC(),
	}
	if err := config.SaveYAML(filepath.Join(dir, ManifestFileName), manifest); err != nil {
		return "", err
	}
	return dir, nil
}

// squareFrames squares every frame in parallel, preserving order.
func squareFrames(ctx context.Context, frames []*image.RGBA, method ResizeMethod, log zerolog.Logger) ([]image.Image, error) {
	out := make([]image.Image, len(frames))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(8)
	for i, frame := range frames {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			log.Trace().Int("frame", i+1).Msg("resizing frame")
			out[i] = Square(frame, method)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// writeFrames copies square GIFs verbatim and re-encodes the others.
func writeFrames(path, src string, decoded *DecodedGIF, squared []image.Image) error {
	b := decoded.Frames[0].Bounds()
	if b.Dx() == b.Dy() {
		data, err := os.ReadFile(src)
		if err != nil {
			return fmt.Errorf("failed to read GIF: %w", err)
		}
		return os.WriteFile(path, data, 0644)
	}

	data, err := encodeGIF(squared, decoded.Delays, palette.Plan9)
	if err != nil {
		return fmt.Errorf("failed to encode animated icon: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

func writeStaticIcon(path string, first image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create icon: %w", err)
	}
	defer f.Close()

	if err := png.Encode(f, Scale(first, StaticIconSize)); err != nil {
		return fmt.Errorf("failed to save icon to %s: %w", path, err)
	}
	return f.Close()
}
