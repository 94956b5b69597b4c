// Package animation drives the looping status icon animation.
package animation

import (
	"context"
	"errors"
	"sync"
	"time"
)

// DefaultInterval is used when a controller is created with a zero interval.
const DefaultInterval = 100 * time.Millisecond

// ErrNoFrames is returned when a frame sequence would be empty.
var ErrNoFrames = errors.New("frame sequence is empty")

// Frame is one encoded icon image, ready to hand to the display.
type Frame []byte

// FrameSequence is an immutable, non-empty ordered list of frames.
type FrameSequence struct {
	frames []Frame
}

// NewFrameSequence copies frames into a new sequence.
func NewFrameSequence(frames []Frame) (FrameSequence, error) {
	if len(frames) == 0 {
		return FrameSequence{}, ErrNoFrames
	}
	cp := make([]Frame, len(frames))
	copy(cp, frames)
	return FrameSequence{frames: cp}, nil
}

// Len returns the number of frames.
func (s FrameSequence) Len() int { return len(s.frames) }

// At returns frame i.
func (s FrameSequence) At(i int) Frame { return s.frames[i] }

// Display shows animation frames. ShowFrame is only ever called from the
// animation goroutine, one frame at a time.
type Display interface {
	ShowFrame(index int, frame Frame)
}

// Controller loops a FrameSequence on a Display at a fixed interval.
type Controller struct {
	frames   FrameSequence
	display  Display
	interval time.Duration

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
	next   int
}

// New creates an idle controller. It fails if the sequence is empty.
func New(frames FrameSequence, display Display, interval time.Duration) (*Controller, error) {
	if frames.Len() == 0 {
		return nil, ErrNoFrames
	}
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Controller{
		frames:   frames,
		display:  display,
		interval: interval,
	}, nil
}

// Interval returns the time between frame advances.
func (c *Controller) Interval() time.Duration { return c.interval }

// Running reports whether the animation loop is active.
func (c *Controller) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cancel != nil
}

// Start begins the animation. Calling Start while running does nothing.
// A restarted animation continues from the frame after the last one shown.
func (c *Controller) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cancel != nil {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	c.done = make(chan struct{})
	go c.loop(ctx, c.next, c.done)
}

// Stop halts the animation and waits for the loop to exit. The display keeps
// the last frame shown. Calling Stop while idle does nothing.
func (c *Controller) Stop() {
	c.mu.Lock()
	cancel, done := c.cancel, c.done
	c.cancel, c.done = nil, nil
	c.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

func (c *Controller) loop(ctx context.Context, index int, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		c.display.ShowFrame(index, c.frames.At(index))
		index = (index + 1) % c.frames.Len()

		c.mu.Lock()
		c.next = index
		c.mu.Unlock()

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
		// Both may be ready at once; cancellation wins.
		if ctx.Err() != nil {
			return
		}
	}
}
