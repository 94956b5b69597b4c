package bundle

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/gif"
	"os"
	"time"

	"github.com/nfnt/resize"

	"github.com/liveicon/liveicon/internal/agent/animation"
)

// ResizeMethod selects how a non-square image is made square.
type ResizeMethod string

const (
	// CenterCrop keeps the centered square whose side is the shorter edge.
	CenterCrop ResizeMethod = "center-crop"
	// CenterFit centers the image on a transparent square whose side is
	// the longer edge.
	CenterFit ResizeMethod = "center-fit"
)

// ParseResizeMethod validates a --resize-method value.
func ParseResizeMethod(s string) (ResizeMethod, error) {
	switch ResizeMethod(s) {
	case CenterCrop, CenterFit:
		return ResizeMethod(s), nil
	default:
		return "", fmt.Errorf("invalid resize method %q (want %s or %s)", s, CenterCrop, CenterFit)
	}
}

// DecodedGIF is a GIF with every frame composited to a full canvas.
type DecodedGIF struct {
	Frames []*image.RGBA
	// Delays are per-frame delays in 100ths of a second.
	Delays []int
}

// DecodeGIFFile decodes and composites the GIF at path.
func DecodeGIFFile(path string) (*DecodedGIF, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open GIF: %w", err)
	}
	defer f.Close()

	g, err := gif.DecodeAll(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode GIF %s: %w", path, err)
	}
	if len(g.Image) == 0 {
		return nil, fmt.Errorf("%s: %w", path, animation.ErrNoFrames)
	}
	return composite(g), nil
}

// composite renders each GIF frame onto the logical screen, honouring the
// frame disposal methods.
func composite(g *gif.GIF) *DecodedGIF {
	bounds := image.Rect(0, 0, g.Config.Width, g.Config.Height)
	if bounds.Empty() {
		bounds = g.Image[0].Bounds()
	}

	canvas := image.NewRGBA(bounds)
	out := &DecodedGIF{
		Frames: make([]*image.RGBA, 0, len(g.Image)),
		Delays: make([]int, 0, len(g.Image)),
	}

	for i, frame := range g.Image {
		var previous *image.RGBA
		disposal := byte(gif.DisposalNone)
		if i < len(g.Disposal) {
			disposal = g.Disposal[i]
		}
		if disposal == gif.DisposalPrevious {
			previous = cloneRGBA(canvas)
		}

		draw.Draw(canvas, frame.Bounds(), frame, frame.Bounds().Min, draw.Over)
		out.Frames = append(out.Frames, cloneRGBA(canvas))

		delay := 0
		if i < len(g.Delay) {
			delay = g.Delay[i]
		}
		out.Delays = append(out.Delays, delay)

		switch disposal {
		case gif.DisposalBackground:
			draw.Draw(canvas, frame.Bounds(), image.Transparent, image.Point{}, draw.Src)
		case gif.DisposalPrevious:
			canvas = previous
		}
	}
	return out
}

func cloneRGBA(src *image.RGBA) *image.RGBA {
	dst := image.NewRGBA(src.Bounds())
	copy(dst.Pix, src.Pix)
	return dst
}

// Interval returns the average frame delay, clamped to a sane range.
func (d *DecodedGIF) Interval() time.Duration {
	total := 0
	for _, delay := range d.Delays {
		total += delay
	}
	if total == 0 {
		return animation.DefaultInterval
	}
	interval := time.Duration(total) * 10 * time.Millisecond / time.Duration(len(d.Delays))
	return clampInterval(interval)
}

func clampInterval(d time.Duration) time.Duration {
	const (
		minInterval = 20 * time.Millisecond
		maxInterval = time.Second
	)
	if d < minInterval {
		return minInterval
	}
	if d > maxInterval {
		return maxInterval
	}
	return d
}

// Square makes img square using method. Square images are returned as is.
func Square(img image.Image, method ResizeMethod) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == h {
		return img
	}

	if method == CenterCrop {
		side := min(w, h)
		rect := image.Rect(0, 0, side, side)
		dst := image.NewRGBA(rect)
		offset := image.Pt(b.Min.X+(w-side)/2, b.Min.Y+(h-side)/2)
		draw.Draw(dst, rect, img, offset, draw.Src)
		return dst
	}

	side := max(w, h)
	dst := image.NewRGBA(image.Rect(0, 0, side, side))
	draw.Draw(dst, dst.Bounds(), image.Transparent, image.Point{}, draw.Src)
	target := image.Rect((side-w)/2, (side-h)/2, (side-w)/2+w, (side-h)/2+h)
	draw.Draw(dst, target, img, b.Min, draw.Over)
	return dst
}

// Scale resizes img to size x size pixels.
func Scale(img image.Image, size int) image.Image {
	b := img.Bounds()
	if b.Dx() == size && b.Dy() == size {
		return img
	}
	return resize.Resize(uint(size), uint(size), img, resize.Lanczos3)
}

// LoadFrames decodes the GIF at path into tray-sized, encoded icon frames.
func LoadFrames(path string, size int) (animation.FrameSequence, error) {
	decoded, err := DecodeGIFFile(path)
	if err != nil {
		return animation.FrameSequence{}, err
	}

	frames := make([]animation.Frame, 0, len(decoded.Frames))
	for i, img := range decoded.Frames {
		data, err := encodeIcon(Scale(Square(img, CenterFit), size))
		if err != nil {
			return animation.FrameSequence{}, fmt.Errorf("failed to encode frame %d: %w", i, err)
		}
		frames = append(frames, data)
	}
	return animation.NewFrameSequence(frames)
}

// paletted converts img to a paletted image whose first entry is
// transparent, for re-encoding as GIF.
func paletted(img image.Image, base color.Palette) *image.Paletted {
	pal := make(color.Palette, 0, 256)
	pal = append(pal, color.Transparent)
	for _, c := range base {
		if len(pal) == 256 {
			break
		}
		pal = append(pal, c)
	}
	dst := image.NewPaletted(img.Bounds(), pal)
	draw.Draw(dst, dst.Bounds(), img, img.Bounds().Min, draw.Src)
	return dst
}

func encodeGIF(frames []image.Image, delays []int, base color.Palette) ([]byte, error) {
	out := &gif.GIF{LoopCount: 0}
	for i, img := range frames {
		out.Image = append(out.Image, paletted(img, base))
		out.Delay = append(out.Delay, delays[i])
		out.Disposal = append(out.Disposal, gif.DisposalBackground)
	}
	var buf bytes.Buffer
	if err := gif.EncodeAll(&buf, out); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
