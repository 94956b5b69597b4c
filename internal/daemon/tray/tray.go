// Package tray implements the animated system tray icon and its menu.
package tray

import (
	"sync"

	"github.com/getlantern/systray"
	"github.com/rs/zerolog"

	"github.com/liveicon/liveicon/internal/agent/animation"
)

// Options configures the tray.
type Options struct {
	Title    string
	Tooltip  string
	RunLabel string
	// Icon is shown until the first animation frame arrives.
	Icon []byte

	// OnReady is called on the tray goroutine once the tray exists.
	OnReady func()
	// OnActivate is called for every click on the run item.
	OnActivate func()
	// OnExit is called when the tray shuts down.
	OnExit func()

	Log zerolog.Logger
}

// Tray wraps the process-wide systray. Only one Tray may run per process.
type Tray struct {
	opts Options
	log  zerolog.Logger

	mu         sync.Mutex
	statusItem *systray.MenuItem
	runItem    *systray.MenuItem
	done       chan struct{}
	quitOnce   sync.Once
}

// New creates a tray. Nothing is shown until Run.
func New(opts Options) *Tray {
	return &Tray{
		opts: opts,
		log:  opts.Log.With().Str("component", "tray").Logger(),
		done: make(chan struct{}),
	}
}

// Run starts the system tray. This blocks the calling goroutine (must be main).
func (t *Tray) Run() {
	systray.Run(t.onReady, t.onQuit)
}

// Quit signals the tray to exit.
func (t *Tray) Quit() {
	systray.Quit()
}

// ShowFrame implements animation.Display.
func (t *Tray) ShowFrame(index int, frame animation.Frame) {
	systray.SetIcon(frame)
}

// SetStatus updates the informational menu line.
func (t *Tray) SetStatus(text string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.statusItem != nil {
		t.statusItem.SetTitle(text)
	}
}

// EnableActivation starts dispatching run item clicks to OnActivate.
func (t *Tray) EnableActivation() {
	t.mu.Lock()
	runItem := t.runItem
	t.mu.Unlock()
	if runItem == nil {
		return
	}
	runItem.Enable()
	go t.handleClicks(runItem)
}

func (t *Tray) onReady() {
	if len(t.opts.Icon) > 0 {
		systray.SetIcon(t.opts.Icon)
	}
	systray.SetTitle("")
	systray.SetTooltip(t.opts.Tooltip)

	header := systray.AddMenuItem(t.opts.Title, "")
	header.Disable()

	status := systray.AddMenuItem("Starting...", "")
	status.Disable()

	systray.AddSeparator()

	// Disabled until EnableActivation.
	run := systray.AddMenuItem(t.opts.RunLabel, "Run the configured command")
	run.Disable()

	systray.AddSeparator()
	quit := systray.AddMenuItem("Quit", "Stop the agent")

	t.mu.Lock()
	t.statusItem = status
	t.runItem = run
	t.mu.Unlock()

	go func() {
		select {
		case <-quit.ClickedCh:
			t.log.Info().Msg("quit requested from menu")
			t.Quit()
		case <-t.done:
		}
	}()

	if t.opts.OnReady != nil {
		t.opts.OnReady()
	}
}

func (t *Tray) handleClicks(run *systray.MenuItem) {
	for {
		select {
		case <-t.done:
			return
		case <-run.ClickedCh:
			if t.opts.OnActivate != nil {
				t.opts.OnActivate()
			}
		}
	}
}

func (t *Tray) onQuit() {
	t.quitOnce.Do(func() { close(t.done) })
	if t.opts.OnExit != nil {
		t.opts.OnExit()
	}
}
