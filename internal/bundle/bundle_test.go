package bundle

import (
	"context"
	"image"
	"image/color"
	"image/gif"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/liveicon/liveicon/internal/agent/animation"
)

// writeTestGIF writes an animated GIF of n solid frames.
func writeTestGIF(t *testing.T, w, h, n, delay int) string {
	t.Helper()
	pal := color.Palette{color.Black, color.White, color.RGBA{R: 255, A: 255}}
	g := &gif.GIF{Config: image.Config{Width: w, Height: h, ColorModel: pal}}
	for i := 0; i < n; i++ {
		frame := image.NewPaletted(image.Rect(0, 0, w, h), pal)
		for p := range frame.Pix {
			frame.Pix[p] = uint8(i % len(pal))
		}
		g.Image = append(g.Image, frame)
		g.Delay = append(g.Delay, delay)
	}

	path := filepath.Join(t.TempDir(), "icon.gif")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, gif.EncodeAll(f, g))
	return path
}

func TestSlug(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"Backup", "backup"},
		{"  My Backup App ", "my-backup-app"},
		{"rsync -> nas!!", "rsync-nas"},
		{"---", ""},
		{"日本語 app", "日本語-app"},
	}

	for _, tt := range tests {
		if got := Slug(tt.name); got != tt.want {
			t.Errorf("Slug(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
	assert.Equal(t, "io.liveicon.my-app", IDForName("My App"))
}

func TestLoadCommand(t *testing.T) {
	dir := t.TempDir()

	path := filepath.Join(dir, "command.txt")
	require.NoError(t, os.WriteFile(path, []byte("\n  ./backup.sh --full \t\n"), 0644))
	got, err := LoadCommand(path)
	require.NoError(t, err)
	assert.Equal(t, "./backup.sh --full", got)

	blank := filepath.Join(dir, "blank.txt")
	require.NoError(t, os.WriteFile(blank, []byte(" \n\t"), 0644))
	_, err = LoadCommand(blank)
	assert.ErrorIs(t, err, ErrEmptyCommand)

	_, err = LoadCommand(filepath.Join(dir, "missing.txt"))
	assert.Error(t, err)
}

func TestSquare(t *testing.T) {
	wide := image.NewRGBA(image.Rect(0, 0, 40, 20))

	crop := Square(wide, CenterCrop)
	assert.Equal(t, image.Rect(0, 0, 20, 20), crop.Bounds())

	fit := Square(wide, CenterFit)
	assert.Equal(t, image.Rect(0, 0, 40, 40), fit.Bounds())
	_, _, _, a := fit.At(0, 0).RGBA()
	assert.Zero(t, a, "padding must be transparent")

	square := image.NewRGBA(image.Rect(0, 0, 8, 8))
	assert.Same(t, square, Square(square, CenterCrop))
}

func TestParseResizeMethod(t *testing.T) {
	m, err := ParseResizeMethod("center-crop")
	require.NoError(t, err)
	assert.Equal(t, CenterCrop, m)

	_, err = ParseResizeMethod("stretch")
	assert.Error(t, err)
}

func TestDecodedGIF_Interval(t *testing.T) {
	tests := []struct {
		name   string
		delays []int
		want   time.Duration
	}{
		{"no delays", []int{0, 0}, animation.DefaultInterval},
		{"average", []int{5, 15}, 100 * time.Millisecond},
		{"too fast", []int{1}, 20 * time.Millisecond},
		{"too slow", []int{500}, time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := &DecodedGIF{Delays: tt.delays}
			assert.Equal(t, tt.want, d.Interval())
		})
	}
}

func TestCreateOptions_Validate(t *testing.T) {
	gifPath := writeTestGIF(t, 4, 4, 1, 0)
	valid := CreateOptions{Name: "App", GIFPath: gifPath, Command: "true", ResizeMethod: CenterFit}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(*CreateOptions)
	}{
		{"empty name", func(o *CreateOptions) { o.Name = " " }},
		{"symbol name", func(o *CreateOptions) { o.Name = "!!" }},
		{"empty command", func(o *CreateOptions) { o.Command = "\n" }},
		{"missing gif", func(o *CreateOptions) { o.GIFPath = filepath.Join(t.TempDir(), "nope.gif") }},
		{"gif is dir", func(o *CreateOptions) { o.GIFPath = t.TempDir() }},
		{"bad resize", func(o *CreateOptions) { o.ResizeMethod = "stretch" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := valid
			tt.mutate(&opts)
			assert.Error(t, opts.Validate())
		})
	}
}

func TestCreateAndLoad(t *testing.T) {
	gifPath := writeTestGIF(t, 40, 20, 3, 5)
	location := t.TempDir()

	dir, err := Create(context.Background(), CreateOptions{
		Name:         "Backup Now",
		GIFPath:      gifPath,
		Command:      "  ./backup.sh\n",
		ResizeMethod: CenterCrop,
		Location:     location,
	}, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(location, "Backup Now"), dir)

	for _, name := range []string{ManifestFileName, FramesFileName, CommandFileName, IconFileName} {
		assert.FileExists(t, filepath.Join(dir, name))
	}

	decoded, err := DecodeGIFFile(filepath.Join(dir, FramesFileName))
	require.NoError(t, err)
	require.Len(t, decoded.Frames, 3)
	assert.Equal(t, image.Rect(0, 0, 20, 20), decoded.Frames[0].Bounds())

	b, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "io.liveicon.backup-now", b.Manifest.ID)
	assert.Equal(t, "Backup Now", b.Manifest.Name)
	assert.Equal(t, "./backup.sh", b.Command)
	assert.Equal(t, 3, b.Frames.Len())
	assert.Equal(t, 50*time.Millisecond, b.Manifest.Interval())
	assert.Equal(t, filepath.Join(dir, IconFileName), b.IconPath())
}

func TestCreate_SquareGIFCopiedVerbatim(t *testing.T) {
	gifPath := writeTestGIF(t, 16, 16, 2, 10)

	dir, err := Create(context.Background(), CreateOptions{
		Name: "sq", GIFPath: gifPath, Command: "true", ResizeMethod: CenterFit, Location: t.TempDir(),
	}, zerolog.Nop())
	require.NoError(t, err)

	want, err := os.ReadFile(gifPath)
	require.NoError(t, err)
	got, err := os.ReadFile(filepath.Join(dir, FramesFileName))
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestLoad_Failures(t *testing.T) {
	t.Run("missing dir", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "absent"))
		assert.Error(t, err)
	})

	t.Run("missing frames", func(t *testing.T) {
		dir, err := Create(context.Background(), CreateOptions{
			Name: "x", GIFPath: writeTestGIF(t, 4, 4, 1, 0), Command: "true", ResizeMethod: CenterFit, Location: t.TempDir(),
		}, zerolog.Nop())
		require.NoError(t, err)
		require.NoError(t, os.Remove(filepath.Join(dir, FramesFileName)))

		_, err = Load(dir)
		assert.Error(t, err)
	})

	t.Run("undecodable frames", func(t *testing.T) {
		dir, err := Create(context.Background(), CreateOptions{
			Name: "y", GIFPath: writeTestGIF(t, 4, 4, 1, 0), Command: "true", ResizeMethod: CenterFit, Location: t.TempDir(),
		}, zerolog.Nop())
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(filepath.Join(dir, FramesFileName), []byte("not a gif"), 0644))

		_, err = Load(dir)
		assert.Error(t, err)
	})
}

func TestResolveID(t *testing.T) {
	assert.Equal(t, "io.liveicon.backup-now", ResolveID("Backup Now"))

	dir, err := Create(context.Background(), CreateOptions{
		Name: "Renamed Later", GIFPath: writeTestGIF(t, 4, 4, 1, 0), Command: "true", ResizeMethod: CenterFit, Location: t.TempDir(),
	}, zerolog.Nop())
	require.NoError(t, err)

	// The manifest wins over the directory name.
	require.NoError(t, os.Rename(dir, filepath.Join(filepath.Dir(dir), "moved")))
	assert.Equal(t, "io.liveicon.renamed-later", ResolveID(filepath.Join(filepath.Dir(dir), "moved")))
}

func TestFindDir(t *testing.T) {
	location := t.TempDir()
	dir, err := Create(context.Background(), CreateOptions{
		Name: "Nightly", GIFPath: writeTestGIF(t, 4, 4, 1, 0), Command: "true", ResizeMethod: CenterFit, Location: location,
	}, zerolog.Nop())
	require.NoError(t, err)

	got, err := FindDir("io.liveicon.nightly", "", filepath.Join(location, "missing"), dir)
	require.NoError(t, err)
	assert.Equal(t, dir, got)

	// A bundle with another id does not qualify.
	_, err = FindDir("io.liveicon.other", dir)
	assert.Error(t, err)
}
