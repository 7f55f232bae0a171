// Package webcam watches the host for webcam activity and reports it as a
// stream of boolean edges: true when at least one camera becomes active,
// false when the last one stops.
//
// Each supported platform contributes one Source implementation (macOS log
// stream, Linux inotify, Windows registry poll); consumers depend only on
// the Source interface.
package webcam

import (
	"context"
	"time"
)

// Source is a platform-specific feed of camera-in-use transitions.
type Source interface {
	// Watch blocks, forwarding net transitions on edges until ctx is
	// canceled (returning ctx.Err()) or the underlying feed fails.
	// Repeated open events on an already-active camera are suppressed:
	// only changes of the "any camera active" state are forwarded.
	Watch(ctx context.Context, edges chan<- bool) error
}

// Config selects the platform source's target.
type Config struct {
	// VideoDevice restricts watching to a single device node, e.g.
	// /dev/video0. Only meaningful on Linux; empty means all devices.
	VideoDevice string
	// PollInterval is the sampling period for polling sources. Zero
	// selects a sensible default. Only meaningful on Windows.
	PollInterval time.Duration
}

// counter tracks how many camera devices are currently open, collapsing
// bursty per-device events into a single busy state.
type counter struct {
	open int
}

func (c *counter) add(delta int) {
	c.open += delta
	if c.open < 0 {
		c.open = 0
	}
}

func (c *counter) busy() bool {
	return c.open > 0
}

// send delivers an edge unless the watch is being torn down.
func send(ctx context.Context, edges chan<- bool, on bool) error {
	select {
	case edges <- on:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
