// Package notify gates desktop notifications on the user's permission.
package notify

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"
)

// State is the user's notification permission.
type State int32

const (
	StateUndetermined State = iota
	StateDenied
	StateAuthorized
)

// String returns a human-readable representation of the state.
func (s State) String() string {
	switch s {
	case StateUndetermined:
		return "undetermined"
	case StateDenied:
		return "denied"
	case StateAuthorized:
		return "authorized"
	default:
		return "unknown"
	}
}

// Message is a notification ready for delivery.
type Message struct {
	Title string
	Body  string
}

// Center is the platform notification service.
type Center interface {
	// Settings reports the current permission.
	Settings(ctx context.Context) (State, error)
	// RequestAuthorization asks the user for permission.
	RequestAuthorization(ctx context.Context) (bool, error)
	// Deliver shows a notification.
	Deliver(ctx context.Context, msg Message) error
}

// Gate delivers notifications only while the user permits them.
// Every call runs on its own goroutine and never blocks the caller.
type Gate struct {
	center Center
	log    zerolog.Logger
	state  atomic.Int32
	wg     sync.WaitGroup
}

// NewGate creates a gate in the undetermined state.
func NewGate(center Center, log zerolog.Logger) *Gate {
	return &Gate{
		center: center,
		log:    log.With().Str("component", "notify").Logger(),
	}
}

// State returns the last observed permission.
func (g *Gate) State() State {
	return State(g.state.Load())
}

func (g *Gate) setState(s State) {
	g.state.Store(int32(s))
}

// Initialize queries the permission and, if the user has not decided yet,
// asks once. Failures leave the gate denied.
func (g *Gate) Initialize(ctx context.Context) {
	g.wg.Add(1)
	go func() {
		defer g.wg.Done()
		g.setState(g.initialize(ctx))
		g.log.Debug().Stringer("state", g.State()).Msg("notification permission initialized")
	}()
}

func (g *Gate) initialize(ctx context.Context) State {
	state, err := g.center.Settings(ctx)
	if err != nil {
		g.log.Warn().Err(err).Msg("failed to query notification settings")
		return StateDenied
	}
	if state != StateUndetermined {
		return state
	}

	granted, err := g.center.RequestAuthorization(ctx)
	if err != nil {
		g.log.Warn().Err(err).Msg("notification permission request failed")
		return StateDenied
	}
	if !granted {
		return StateDenied
	}
	return StateAuthorized
}

// Notify re-checks the permission and delivers msg if authorized. Otherwise
// the message is dropped. There is no queue and no retry.
func (g *Gate) Notify(ctx context.Context, msg Message) {
	g.wg.Add(1)
	go func() {
		defer g.wg.Done()

		state, err := g.center.Settings(ctx)
		if err != nil {
			g.log.Debug().Err(err).Msg("notification settings unavailable, dropping")
			return
		}
		g.setState(state)
		if state != StateAuthorized {
			g.log.Debug().Stringer("state", state).Str("title", msg.Title).Msg("notification dropped")
			return
		}

		if err := g.center.Deliver(ctx, msg); err != nil {
			g.log.Warn().Err(err).Str("title", msg.Title).Msg("notification delivery failed")
			return
		}
		g.log.Debug().Str("title", msg.Title).Msg("notification delivered")
	}()
}

// Wait blocks until every pending Initialize and Notify call has finished.
func (g *Gate) Wait() {
	g.wg.Wait()
}
