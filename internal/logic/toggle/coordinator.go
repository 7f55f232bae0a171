// Package toggle contains the debounce coordinator that turns bursty
// camera signals into settled device power changes, and the session driver
// that wires a signal source to it for the process lifetime.
package toggle

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// DefaultDelay is the settle delay applied when none is configured.
// Webcam transitions produce several events in quick succession; waiting
// absorbs the flicker before committing a device action.
const DefaultDelay = 1500 * time.Millisecond

// ApplyFunc commits a settled power intent to the devices. An error return
// is treated as fatal to the session. Implementations must be safe to call
// from overlapping scheduled tasks (the Toggler serializes internally).
type ApplyFunc func(on bool) error

// Coordinator collapses a stream of intent edges into at most one pending
// delayed apply. Every new edge replaces the previous pending task, so a
// burst of edges results in a single apply reflecting the last edge.
type Coordinator struct {
	apply ApplyFunc
	delay time.Duration
	log   zerolog.Logger

	mu     sync.Mutex
	intent *bool              // last requested power state; nil once consumed
	cancel context.CancelFunc // cancels the pending task; nil when idle

	fatal chan error
}

// NewCoordinator creates a coordinator with the given settle delay.
// A non-positive delay selects DefaultDelay.
func NewCoordinator(apply ApplyFunc, delay time.Duration, log zerolog.Logger) *Coordinator {
	if delay <= 0 {
		delay = DefaultDelay
	}
	return &Coordinator{
		apply: apply,
		delay: delay,
		log:   log,
		fatal: make(chan error, 1),
	}
}

// Fatal delivers the first unrecoverable apply error.
func (c *Coordinator) Fatal() <-chan error {
	return c.fatal
}

// Signal records a new intent and reschedules the delayed apply. Any
// pending task is canceled first; cancellation is cooperative, so a task
// that already passed its intent read completes its apply (the race is
// bounded by the settle delay and superseded by the next edge).
func (c *Coordinator) Signal(ctx context.Context, on bool) {
	c.mu.Lock()
	v := on
	c.intent = &v
	if c.cancel != nil {
		c.cancel()
	}
	taskCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.mu.Unlock()

	c.log.Debug().Bool("on", on).Dur("delay", c.delay).Msg("intent recorded; rescheduling apply")
	go c.settle(taskCtx)
}

// settle waits out the delay, then takes the current intent and applies
// it. Taking reads and clears atomically: when two tasks race, only one
// sees a non-nil intent, and it is the latest one recorded.
func (c *Coordinator) settle(ctx context.Context) {
	timer := time.NewTimer(c.delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return
	case <-timer.C:
	}

	c.mu.Lock()
	intent := c.intent
	c.intent = nil
	c.mu.Unlock()
	if intent == nil {
		// Superseded by a newer edge whose task won the take.
		c.log.Debug().Msg("scheduled apply found no intent; skipping")
		return
	}

	if err := c.apply(*intent); err != nil {
		select {
		case c.fatal <- err:
		default:
		}
	}
}
