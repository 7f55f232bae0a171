package toggle

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/timrogers/litra-autotoggle/internal/hw/webcam"
)

// Session drives one camera signal source into the coordinator until the
// process ends.
type Session struct {
	source  webcam.Source
	toggler *Toggler
	coord   *Coordinator
	log     zerolog.Logger
}

func NewSession(source webcam.Source, toggler *Toggler, delay time.Duration, log zerolog.Logger) *Session {
	return &Session{
		source:  source,
		toggler: toggler,
		coord:   NewCoordinator(toggler.Apply, delay, log),
		log:     log,
	}
}

// Run logs the devices connected at startup, then forwards every edge from
// the source to the coordinator. It returns on cancellation, when the
// source dies, or when an apply ends in a fatal condition.
func (s *Session) Run(ctx context.Context) error {
	s.toggler.LogConnected()

	edges := make(chan bool)
	watchErr := make(chan error, 1)
	go func() {
		watchErr <- s.source.Watch(ctx, edges)
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-watchErr:
			if err == nil {
				return errors.New("camera signal source stopped unexpectedly")
			}
			if errors.Is(err, context.Canceled) {
				return err
			}
			return fmt.Errorf("camera signal source failed: %w", err)
		case err := <-s.coord.Fatal():
			return err
		case on := <-edges:
			s.coord.Signal(ctx, on)
		}
	}
}
