package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/liveicon/liveicon/internal/agent"
	"github.com/liveicon/liveicon/internal/agent/animation"
	"github.com/liveicon/liveicon/internal/agent/command"
	"github.com/liveicon/liveicon/internal/agent/notify"
	"github.com/liveicon/liveicon/internal/buildinfo"
	"github.com/liveicon/liveicon/internal/bundle"
	"github.com/liveicon/liveicon/internal/config"
	"github.com/liveicon/liveicon/internal/daemon/tray"
	"github.com/liveicon/liveicon/internal/daemon/watcher"
	"github.com/liveicon/liveicon/internal/loginitem"
	"github.com/liveicon/liveicon/internal/models"
)

// shutdownGrace bounds how long the agent waits for running commands on exit.
const shutdownGrace = 30 * time.Second

var (
	runBundleDir  string
	runForeground bool
	runNoLogin    bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the agent of a bundle",
	Long: `Run the agent of a bundle: show the animated tray icon and run the
bundle's command whenever the icon's Run item is clicked or the agent
receives an activation (see "liveicon activate").`,
	Args: cobra.NoArgs,
	RunE: runAgent,
}

func init() {
	runCmd.Flags().StringVarP(&runBundleDir, "bundle", "b", "", "Path to the bundle directory")
	runCmd.Flags().BoolVar(&runForeground, "foreground", false, "Run without a tray icon (for development)")
	runCmd.Flags().BoolVar(&runNoLogin, "no-login-item", false, "Do not register the agent to start at login")
	_ = runCmd.MarkFlagRequired("bundle")
}

// agentRuntime is everything a running agent is made of.
type agentRuntime struct {
	bundle  *bundle.Bundle
	store   *config.SettingsStore
	gate    *notify.Gate
	ctrl    *agent.Controller
	watcher *watcher.Watcher
	log     zerolog.Logger
}

func runAgent(cmd *cobra.Command, args []string) error {
	// Missing or broken assets abort before any tray or handler exists.
	b, err := bundle.Load(runBundleDir)
	if err != nil {
		return fmt.Errorf("failed to load bundle: %w", err)
	}

	if err := config.EnsureGlobalDir(); err != nil {
		return fmt.Errorf("failed to create global directory: %w", err)
	}
	running, info, err := config.IsAgentRunning(b.Manifest.ID)
	if err != nil {
		return fmt.Errorf("failed to check agent status: %w", err)
	}
	if running {
		return fmt.Errorf("%s is already running (PID %d)", b.Manifest.Name, info.PID)
	}

	store, err := config.NewSettingsStore()
	if err != nil {
		return err
	}
	settings := store.Get()

	logFile, err := config.LogFile(b.Manifest.ID)
	if err != nil {
		return err
	}
	log, closer := config.NewLogger(config.LogOptions{
		Verbose: verbose,
		File:    logFile,
		Logging: settings.Logging,
	})
	defer closer.Close()
	log = log.With().Str("bundle", b.Manifest.ID).Logger()
	log.Info().Str("build", buildinfo.UserAgent()).Str("dir", b.Dir).Msg("starting agent")

	rt := &agentRuntime{bundle: b, store: store, log: log}
	rt.gate = notify.NewGate(notify.NewDesktopCenter(store, b.Manifest.Name, b.IconPath()), log)

	if w, err := watcher.New(log); err != nil {
		log.Warn().Err(err).Msg("settings changes will not be picked up")
	} else {
		rt.watcher = w
	}

	opts := agent.Options{
		Load:           rt.assets,
		Notifier:       rt.gate,
		Runner:         command.NewExecutor(settings.Command.Shell, log),
		LoginItem:      rt.loginItem(),
		SingleInFlight: settings.Command.SingleInFlight,
		Log:            log,
	}

	if runForeground {
		log.Info().Msg("running in foreground mode (no system tray)")
		return rt.runForeground(opts)
	}
	log.Info().Msg("running with system tray")
	return rt.runWithTray(opts)
}

func (rt *agentRuntime) assets() (*agent.Assets, error) {
	return &agent.Assets{
		Frames:   rt.bundle.Frames,
		Command:  rt.bundle.Command,
		Interval: rt.bundle.Manifest.Interval(),
	}, nil
}

func (rt *agentRuntime) loginItem() loginitem.Service {
	if runNoLogin {
		return nil
	}
	exe, err := os.Executable()
	if err != nil {
		rt.log.Warn().Err(err).Msg("cannot resolve executable, skipping login item")
		return nil
	}
	svc, err := loginitem.New(loginitem.Item{
		ID:         rt.bundle.Manifest.ID,
		Name:       rt.bundle.Manifest.Name,
		Executable: exe,
		BundleDir:  rt.bundle.Dir,
	})
	if err != nil {
		rt.log.Warn().Err(err).Msg("login item unavailable")
		return nil
	}
	return svc
}

// started runs once the controller has launched.
func (rt *agentRuntime) started() {
	info := models.NewAgentInfo(rt.bundle.Manifest.ID, rt.bundle.Manifest.Name, rt.bundle.Dir, os.Getpid())
	if err := config.SaveAgentInfo(info); err != nil {
		rt.log.Warn().Err(err).Msg("failed to write agent info")
	}

	if rt.watcher != nil {
		if err := rt.watcher.Start(); err != nil {
			rt.log.Warn().Err(err).Msg("failed to watch settings")
			return
		}
		go rt.reloadSettings()
	}
}

func (rt *agentRuntime) reloadSettings() {
	for ev := range rt.watcher.Events() {
		if ev.Type != watcher.EventSettingsChanged {
			continue
		}
		if err := rt.store.Reload(); err != nil {
			rt.log.Warn().Err(err).Msg("failed to reload settings")
			continue
		}
		rt.log.Debug().Str("permission", rt.store.Get().Notifications.Permission).Msg("settings reloaded")
	}
}

// stopped runs after the controller has terminated.
func (rt *agentRuntime) stopped() {
	if rt.watcher != nil {
		rt.watcher.Stop()
	}

	done := make(chan struct{})
	go func() {
		if !rt.ctrl.Wait(shutdownGrace) {
			rt.log.Warn().Dur("grace", shutdownGrace).Msg("exiting with commands still running")
		}
		rt.gate.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(shutdownGrace + time.Second):
	}

	if err := config.RemoveAgentInfo(rt.bundle.Manifest.ID); err != nil {
		rt.log.Warn().Err(err).Msg("failed to remove agent info")
	}
	rt.log.Info().Msg("agent stopped")
}

// listenSignals dispatches activation signals until a termination signal
// arrives, then calls quit.
func (rt *agentRuntime) listenSignals(quit func()) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, append([]os.Signal{syscall.SIGINT, syscall.SIGTERM}, activationSignals...)...)
	for sig := range sigCh {
		if isActivationSignal(sig) {
			rt.log.Debug().Stringer("signal", sig).Msg("activation signal")
			rt.ctrl.OnActivate()
			continue
		}
		rt.log.Info().Stringer("signal", sig).Msg("received signal, shutting down")
		signal.Stop(sigCh)
		quit()
		return
	}
}

// runWithTray runs the agent with a system tray icon on the main goroutine.
// systray.Run must occupy the main goroutine on macOS (Cocoa requirement).
func (rt *agentRuntime) runWithTray(opts agent.Options) error {
	var launchErr error

	var t *tray.Tray
	t = tray.New(tray.Options{
		Title:    rt.bundle.Manifest.Name,
		Tooltip:  rt.bundle.Manifest.Name + " (liveicon)",
		RunLabel: agent.RunLabel(rt.bundle.Command),
		Icon:     rt.bundle.Frames.At(0),
		OnReady: func() {
			if err := rt.ctrl.OnLaunch(context.Background()); err != nil {
				launchErr = err
				t.Quit()
				return
			}
			rt.started()
			t.SetStatus("Ready")
			t.EnableActivation()
			go rt.listenSignals(t.Quit)
		},
		OnActivate: func() { rt.ctrl.OnActivate() },
		OnExit: func() {
			if launchErr != nil {
				return
			}
			rt.ctrl.OnTerminate()
			rt.stopped()
		},
		Log: rt.log,
	})

	opts.Display = t
	opts.OnOutcome = func(o command.Outcome) {
		t.SetStatus(agent.FormatStatus(o, time.Now()))
	}
	rt.ctrl = agent.New(opts)

	// This blocks the main goroutine until the tray exits.
	t.Run()
	return launchErr
}

// runForeground runs the agent without a tray, blocking on signals.
func (rt *agentRuntime) runForeground(opts agent.Options) error {
	opts.Display = logDisplay{log: rt.log}
	rt.ctrl = agent.New(opts)

	if err := rt.ctrl.OnLaunch(context.Background()); err != nil {
		return err
	}
	rt.started()

	done := make(chan struct{})
	rt.listenSignals(func() { close(done) })
	<-done

	rt.ctrl.OnTerminate()
	rt.stopped()
	return nil
}

// logDisplay stands in for the tray in foreground mode.
type logDisplay struct {
	log zerolog.Logger
}

func (d logDisplay) ShowFrame(index int, frame animation.Frame) {
	d.log.Trace().Int("frame", index).Int("bytes", len(frame)).Msg("frame")
}
