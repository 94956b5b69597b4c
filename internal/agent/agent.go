// Package agent ties the icon animation, command runs and failure
// notifications to the host's launch, activate and terminate events.
package agent

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/liveicon/liveicon/internal/agent/animation"
	"github.com/liveicon/liveicon/internal/agent/command"
	"github.com/liveicon/liveicon/internal/agent/notify"
	"github.com/liveicon/liveicon/internal/loginitem"
)

// Assets are the startup inputs of an agent.
type Assets struct {
	Frames   animation.FrameSequence
	Command  string
	Interval time.Duration
}

// Loader supplies the assets at launch. An error is fatal.
type Loader func() (*Assets, error)

// Notifier is the permission-gated notification channel.
type Notifier interface {
	Initialize(ctx context.Context)
	Notify(ctx context.Context, msg notify.Message)
}

// Runner runs a command to completion.
type Runner interface {
	Run(ctx context.Context, command string) command.Outcome
}

// Options configures a Controller.
type Options struct {
	Load     Loader
	Display  animation.Display
	Notifier Notifier
	Runner   Runner
	// LoginItem is registered at launch when set. Failures are ignored.
	LoginItem loginitem.Service
	// SingleInFlight drops activations while a run is in progress.
	SingleInFlight bool
	// OnOutcome, when set, observes every finished run.
	OnOutcome func(command.Outcome)
	Log       zerolog.Logger
}

// Controller is the agent's top-level state machine.
type Controller struct {
	opts Options
	log  zerolog.Logger

	// Set once by OnLaunch.
	ctx       context.Context
	command   string
	animation *animation.Controller
	launched  atomic.Bool

	busy     atomic.Bool
	inFlight sync.WaitGroup
}

// New creates a controller. Nothing runs until OnLaunch.
func New(opts Options) *Controller {
	return &Controller{
		opts: opts,
		log:  opts.Log.With().Str("component", "agent").Logger(),
	}
}

// OnLaunch loads the assets, starts the permission flow, registers the login
// item and starts the animation. A load failure aborts the launch: the
// animation never starts and activations are ignored.
func (c *Controller) OnLaunch(ctx context.Context) error {
	if c.launched.Load() {
		return nil
	}

	assets, err := c.opts.Load()
	if err != nil {
		return fmt.Errorf("failed to load agent assets: %w", err)
	}
	anim, err := animation.New(assets.Frames, c.opts.Display, assets.Interval)
	if err != nil {
		return fmt.Errorf("failed to set up animation: %w", err)
	}

	c.ctx = context.WithoutCancel(ctx)
	c.command = assets.Command
	c.animation = anim

	c.opts.Notifier.Initialize(c.ctx)
	c.registerLoginItem()

	anim.Start()
	c.launched.Store(true)
	c.log.Info().
		Int("frames", assets.Frames.Len()).
		Dur("interval", anim.Interval()).
		Str("command", c.command).
		Msg("agent launched")
	return nil
}

func (c *Controller) registerLoginItem() {
	if c.opts.LoginItem == nil {
		return
	}
	status, err := c.opts.LoginItem.Status()
	if err != nil {
		c.log.Warn().Err(err).Msg("failed to query login item")
	}
	if status == loginitem.StatusEnabled {
		return
	}
	if err := c.opts.LoginItem.Register(); err != nil {
		c.log.Warn().Err(err).Msg("failed to register login item")
		return
	}
	c.log.Info().Stringer("previous", status).Msg("registered login item")
}

// OnTerminate stops the animation. Running commands are left alone.
func (c *Controller) OnTerminate() {
	if c.animation != nil {
		c.animation.Stop()
	}
	c.log.Info().Msg("agent terminated")
}

// OnActivate starts one run of the command in the background and returns
// immediately. The result is always false: the host should not perform its
// default action (such as opening a window).
func (c *Controller) OnActivate() bool {
	if !c.launched.Load() {
		c.log.Warn().Msg("activation before launch ignored")
		return false
	}
	if c.opts.SingleInFlight && !c.busy.CompareAndSwap(false, true) {
		c.log.Info().Msg("command already running, activation ignored")
		return false
	}

	c.inFlight.Add(1)
	go func() {
		defer c.inFlight.Done()
		if c.opts.SingleInFlight {
			defer c.busy.Store(false)
		}
		c.onCommandOutcome(c.opts.Runner.Run(c.ctx, c.command))
	}()
	return false
}

func (c *Controller) onCommandOutcome(outcome command.Outcome) {
	if c.opts.OnOutcome != nil {
		c.opts.OnOutcome(outcome)
	}
	if outcome.Succeeded {
		return
	}
	c.opts.Notifier.Notify(c.ctx, FailureMessage(c.command, outcome.ErrorText))
}

// Command returns the loaded command, or "" before launch.
func (c *Controller) Command() string {
	if !c.launched.Load() {
		return ""
	}
	return c.command
}

// Wait blocks until in-flight runs finish or timeout elapses. It reports
// whether all runs finished.
func (c *Controller) Wait(timeout time.Duration) bool {
	done := make(chan struct{})
	go func() {
		c.inFlight.Wait()
		close(done)
	}()

	select {
	case <-done:
		return true
	case <-time.After(timeout):
		return false
	}
}
