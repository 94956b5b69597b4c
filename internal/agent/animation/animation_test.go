package animation

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

// recordingDisplay records every frame index it is asked to show.
type recordingDisplay struct {
	mu      sync.Mutex
	indices []int
}

func (d *recordingDisplay) ShowFrame(index int, frame Frame) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.indices = append(d.indices, index)
}

func (d *recordingDisplay) Indices() []int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]int(nil), d.indices...)
}

func testFrames(t *testing.T, n int) FrameSequence {
	t.Helper()
	frames := make([]Frame, n)
	for i := range frames {
		frames[i] = Frame{byte(i)}
	}
	seq, err := NewFrameSequence(frames)
	require.NoError(t, err)
	return seq
}

func waitForFrames(t *testing.T, d *recordingDisplay, n int) []int {
	t.Helper()
	require.Eventually(t, func() bool {
		return len(d.Indices()) >= n
	}, 2*time.Second, time.Millisecond)
	return d.Indices()
}

func TestNewFrameSequence_Empty(t *testing.T) {
	_, err := NewFrameSequence(nil)
	assert.ErrorIs(t, err, ErrNoFrames)

	_, err = New(FrameSequence{}, &recordingDisplay{}, time.Millisecond)
	assert.ErrorIs(t, err, ErrNoFrames)
}

func TestNewFrameSequence_CopiesInput(t *testing.T) {
	frames := []Frame{{1}, {2}}
	seq, err := NewFrameSequence(frames)
	require.NoError(t, err)

	frames[0] = Frame{9}
	assert.Equal(t, Frame{1}, seq.At(0))
	assert.Equal(t, 2, seq.Len())
}

func TestNew_DefaultInterval(t *testing.T) {
	c, err := New(testFrames(t, 1), &recordingDisplay{}, 0)
	require.NoError(t, err)
	assert.Equal(t, DefaultInterval, c.Interval())
}

func TestController_CyclesInOrderAndWraps(t *testing.T) {
	defer goleak.VerifyNone(t)

	d := &recordingDisplay{}
	c, err := New(testFrames(t, 3), d, time.Millisecond)
	require.NoError(t, err)

	c.Start()
	got := waitForFrames(t, d, 7)
	c.Stop()

	assert.Equal(t, []int{0, 1, 2, 0, 1, 2, 0}, got[:7])
	for i := 1; i < len(got); i++ {
		assert.Equal(t, (got[i-1]+1)%3, got[i], "frame %d out of order", i)
	}
}

func TestController_StopHaltsAdvances(t *testing.T) {
	defer goleak.VerifyNone(t)

	d := &recordingDisplay{}
	c, err := New(testFrames(t, 4), d, time.Millisecond)
	require.NoError(t, err)

	c.Start()
	waitForFrames(t, d, 3)
	c.Stop()
	assert.False(t, c.Running())

	shown := len(d.Indices())
	time.Sleep(20 * time.Millisecond)
	assert.Len(t, d.Indices(), shown)
}

func TestController_StartIsIdempotent(t *testing.T) {
	defer goleak.VerifyNone(t)

	d := &recordingDisplay{}
	c, err := New(testFrames(t, 2), d, time.Millisecond)
	require.NoError(t, err)

	c.Start()
	c.Start()
	assert.True(t, c.Running())
	got := waitForFrames(t, d, 10)
	c.Stop()

	// A second loop would interleave and break strict alternation.
	for i := 1; i < len(got); i++ {
		assert.NotEqual(t, got[i-1], got[i], "duplicate frame at %d", i)
	}
}

func TestController_StopIsIdempotent(t *testing.T) {
	defer goleak.VerifyNone(t)

	c, err := New(testFrames(t, 2), &recordingDisplay{}, time.Millisecond)
	require.NoError(t, err)

	c.Stop()
	c.Start()
	c.Stop()
	c.Stop()
	assert.False(t, c.Running())
}

func TestController_RestartContinuesSequence(t *testing.T) {
	defer goleak.VerifyNone(t)

	d := &recordingDisplay{}
	c, err := New(testFrames(t, 5), d, time.Hour)
	require.NoError(t, err)

	// With a long interval each Start shows exactly one frame before blocking.
	c.Start()
	waitForFrames(t, d, 1)
	c.Stop()
	c.Start()
	waitForFrames(t, d, 2)
	c.Stop()

	assert.Equal(t, []int{0, 1}, d.Indices())
}
