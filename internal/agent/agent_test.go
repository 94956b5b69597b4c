package agent

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/liveicon/liveicon/internal/agent/animation"
	"github.com/liveicon/liveicon/internal/agent/command"
	"github.com/liveicon/liveicon/internal/agent/notify"
	"github.com/liveicon/liveicon/internal/loginitem"
)

type fakeDisplay struct {
	mu    sync.Mutex
	shown int
}

func (d *fakeDisplay) ShowFrame(index int, frame animation.Frame) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.shown++
}

func (d *fakeDisplay) Shown() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.shown
}

// fakeNotifier records calls synchronously.
type fakeNotifier struct {
	mu          sync.Mutex
	initialized int
	messages    []notify.Message
}

func (n *fakeNotifier) Initialize(ctx context.Context) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.initialized++
}

func (n *fakeNotifier) Notify(ctx context.Context, msg notify.Message) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.messages = append(n.messages, msg)
}

func (n *fakeNotifier) Messages() []notify.Message {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]notify.Message(nil), n.messages...)
}

// fakeRunner returns a fixed outcome, optionally blocking until released.
type fakeRunner struct {
	mu       sync.Mutex
	outcome  command.Outcome
	commands []string
	release  chan struct{}
}

func (r *fakeRunner) Run(ctx context.Context, cmd string) command.Outcome {
	r.mu.Lock()
	r.commands = append(r.commands, cmd)
	release := r.release
	r.mu.Unlock()

	if release != nil {
		<-release
	}
	return r.outcome
}

func (r *fakeRunner) Commands() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.commands...)
}

type fakeLoginItem struct {
	status      loginitem.Status
	statusErr   error
	registerErr error
	registered  int
}

func (l *fakeLoginItem) Status() (loginitem.Status, error) { return l.status, l.statusErr }
func (l *fakeLoginItem) Register() error {
	l.registered++
	return l.registerErr
}
func (l *fakeLoginItem) Unregister() error { return nil }

func testAssets(t *testing.T, command string) Loader {
	t.Helper()
	frames, err := animation.NewFrameSequence([]animation.Frame{{0}, {1}})
	require.NoError(t, err)
	return func() (*Assets, error) {
		return &Assets{Frames: frames, Command: command, Interval: time.Millisecond}, nil
	}
}

type harness struct {
	ctrl     *Controller
	display  *fakeDisplay
	notifier *fakeNotifier
	runner   *fakeRunner
	login    *fakeLoginItem
}

func newHarness(t *testing.T, load Loader, outcome command.Outcome, single bool) *harness {
	t.Helper()
	h := &harness{
		display:  &fakeDisplay{},
		notifier: &fakeNotifier{},
		runner:   &fakeRunner{outcome: outcome},
		login:    &fakeLoginItem{},
	}
	h.ctrl = New(Options{
		Load:           load,
		Display:        h.display,
		Notifier:       h.notifier,
		Runner:         h.runner,
		LoginItem:      h.login,
		SingleInFlight: single,
		Log:            zerolog.Nop(),
	})
	return h
}

func TestController_LaunchAndTerminate(t *testing.T) {
	defer goleak.VerifyNone(t)

	h := newHarness(t, testAssets(t, "backup.sh"), command.Outcome{Succeeded: true}, false)
	require.NoError(t, h.ctrl.OnLaunch(context.Background()))

	assert.Equal(t, "backup.sh", h.ctrl.Command())
	assert.Equal(t, 1, h.notifier.initialized)
	assert.Equal(t, 1, h.login.registered)
	require.Eventually(t, func() bool { return h.display.Shown() >= 3 }, time.Second, time.Millisecond)

	h.ctrl.OnTerminate()
	shown := h.display.Shown()
	time.Sleep(10 * time.Millisecond)
	assert.Equal(t, shown, h.display.Shown())
}

func TestController_LaunchFailsOnLoadError(t *testing.T) {
	defer goleak.VerifyNone(t)

	loadErr := errors.New("frames.gif: not found")
	h := newHarness(t, func() (*Assets, error) { return nil, loadErr }, command.Outcome{}, false)

	err := h.ctrl.OnLaunch(context.Background())
	require.ErrorIs(t, err, loadErr)

	assert.False(t, h.ctrl.OnActivate())
	assert.True(t, h.ctrl.Wait(time.Second))
	assert.Empty(t, h.runner.Commands())
	assert.Zero(t, h.display.Shown())
	assert.Zero(t, h.notifier.initialized)
	assert.Zero(t, h.login.registered)
	assert.Empty(t, h.ctrl.Command())

	h.ctrl.OnTerminate()
}

func TestController_LaunchFailsOnEmptyFrames(t *testing.T) {
	h := newHarness(t, func() (*Assets, error) { return &Assets{Command: "x"}, nil }, command.Outcome{}, false)

	err := h.ctrl.OnLaunch(context.Background())
	assert.ErrorIs(t, err, animation.ErrNoFrames)
	assert.False(t, h.ctrl.OnActivate())
}

func TestController_LoginItem(t *testing.T) {
	tests := []struct {
		name           string
		login          *fakeLoginItem
		wantRegistered int
	}{
		{"not registered", &fakeLoginItem{status: loginitem.StatusNotRegistered}, 1},
		{"stale", &fakeLoginItem{status: loginitem.StatusStale}, 1},
		{"already enabled", &fakeLoginItem{status: loginitem.StatusEnabled}, 0},
		{"register fails", &fakeLoginItem{registerErr: errors.New("read-only")}, 1},
		{"status fails", &fakeLoginItem{statusErr: errors.New("no home")}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, testAssets(t, "x"), command.Outcome{Succeeded: true}, false)
			h.ctrl.opts.LoginItem = tt.login

			require.NoError(t, h.ctrl.OnLaunch(context.Background()))
			defer h.ctrl.OnTerminate()
			assert.Equal(t, tt.wantRegistered, tt.login.registered)
		})
	}
}

func TestController_ActivateSuccessSendsNothing(t *testing.T) {
	defer goleak.VerifyNone(t)

	h := newHarness(t, testAssets(t, "true"), command.Outcome{Succeeded: true}, false)
	require.NoError(t, h.ctrl.OnLaunch(context.Background()))
	defer h.ctrl.OnTerminate()

	assert.False(t, h.ctrl.OnActivate())
	require.True(t, h.ctrl.Wait(time.Second))

	assert.Equal(t, []string{"true"}, h.runner.Commands())
	assert.Empty(t, h.notifier.Messages())
}

func TestController_ActivateFailureNotifies(t *testing.T) {
	defer goleak.VerifyNone(t)

	var observed []command.Outcome
	h := newHarness(t, testAssets(t, "rsync -av --delete /src /dst"), command.Outcome{ErrorText: "E", ExitCode: 1}, false)
	h.ctrl.opts.OnOutcome = func(o command.Outcome) { observed = append(observed, o) }
	require.NoError(t, h.ctrl.OnLaunch(context.Background()))
	defer h.ctrl.OnTerminate()

	h.ctrl.OnActivate()
	require.True(t, h.ctrl.Wait(time.Second))

	assert.Equal(t, []notify.Message{{Title: "Running 'rsync -av --del...' failed", Body: "E"}}, h.notifier.Messages())
	assert.Len(t, observed, 1)
}

func TestController_ActivationsOverlap(t *testing.T) {
	defer goleak.VerifyNone(t)

	h := newHarness(t, testAssets(t, "sleep 1"), command.Outcome{ErrorText: "E"}, false)
	h.runner.release = make(chan struct{})
	require.NoError(t, h.ctrl.OnLaunch(context.Background()))
	defer h.ctrl.OnTerminate()

	for i := 0; i < 3; i++ {
		h.ctrl.OnActivate()
	}
	require.Eventually(t, func() bool { return len(h.runner.Commands()) == 3 }, time.Second, time.Millisecond)
	assert.False(t, h.ctrl.Wait(10*time.Millisecond))

	close(h.runner.release)
	require.True(t, h.ctrl.Wait(time.Second))
	assert.Len(t, h.notifier.Messages(), 3)
}

func TestController_SingleInFlight(t *testing.T) {
	defer goleak.VerifyNone(t)

	h := newHarness(t, testAssets(t, "sleep 1"), command.Outcome{Succeeded: true}, true)
	h.runner.release = make(chan struct{})
	require.NoError(t, h.ctrl.OnLaunch(context.Background()))
	defer h.ctrl.OnTerminate()

	h.ctrl.OnActivate()
	require.Eventually(t, func() bool { return len(h.runner.Commands()) == 1 }, time.Second, time.Millisecond)
	h.ctrl.OnActivate()
	h.ctrl.OnActivate()

	close(h.runner.release)
	require.True(t, h.ctrl.Wait(time.Second))
	assert.Len(t, h.runner.Commands(), 1)

	// The slot frees up once the run completes.
	h.runner.release = nil
	h.ctrl.OnActivate()
	require.True(t, h.ctrl.Wait(time.Second))
	assert.Len(t, h.runner.Commands(), 2)
}

func TestController_LaunchIsIdempotent(t *testing.T) {
	defer goleak.VerifyNone(t)

	h := newHarness(t, testAssets(t, "x"), command.Outcome{Succeeded: true}, false)
	require.NoError(t, h.ctrl.OnLaunch(context.Background()))
	require.NoError(t, h.ctrl.OnLaunch(context.Background()))
	defer h.ctrl.OnTerminate()

	assert.Equal(t, 1, h.notifier.initialized)
}
