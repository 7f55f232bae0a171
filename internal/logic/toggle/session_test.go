package toggle

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/timrogers/litra-autotoggle/internal/hw/litra"
	"github.com/timrogers/litra-autotoggle/internal/logic/match"
)

// scriptedSource plays back a fixed sequence of edges, then blocks until
// canceled (or returns failErr immediately after the script).
type scriptedSource struct {
	script  []bool
	failErr error
}

func (s *scriptedSource) Watch(ctx context.Context, edges chan<- bool) error {
	for _, on := range s.script {
		select {
		case edges <- on:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	if s.failErr != nil {
		return s.failErr
	}
	<-ctx.Done()
	return ctx.Err()
}

func TestSession_EdgeFlowsThroughToDevices(t *testing.T) {
	devCtx := &litra.MockContext{Connected: []litra.DeviceInfo{glowInfo("/dev/hidraw0")}}
	tog := NewToggler(devCtx, match.Filter{}, false, false, zerolog.Nop())
	sess := NewSession(&scriptedSource{script: []bool{true}}, tog, testDelay, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- sess.Run(ctx) }()

	time.Sleep(settleWait)
	cancel()
	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Fatalf("Run() = %v, want context.Canceled", err)
	}

	var powered *litra.MockHandle
	for _, h := range devCtx.Opened {
		if len(h.PowerCalls) > 0 {
			powered = h
		}
	}
	if powered == nil {
		t.Fatal("no device received a power command")
	}
	if len(powered.PowerCalls) != 1 || !powered.PowerCalls[0] {
		t.Fatalf("power calls %v, want [true]", powered.PowerCalls)
	}
}

func TestSession_SourceFailureIsFatal(t *testing.T) {
	tog := NewToggler(&litra.MockContext{}, match.Filter{}, false, false, zerolog.Nop())
	boom := errors.New("log stream died")
	sess := NewSession(&scriptedSource{failErr: boom}, tog, testDelay, zerolog.Nop())

	err := sess.Run(context.Background())
	if !errors.Is(err, boom) {
		t.Fatalf("Run() = %v, want the source failure", err)
	}
}

func TestSession_RequireDeviceFatalPropagates(t *testing.T) {
	tog := NewToggler(&litra.MockContext{}, match.Filter{}, true, false, zerolog.Nop())
	sess := NewSession(&scriptedSource{script: []bool{true}}, tog, testDelay, zerolog.Nop())

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	err := sess.Run(ctx)
	if !errors.Is(err, match.ErrNoDevicesFound) {
		t.Fatalf("Run() = %v, want ErrNoDevicesFound", err)
	}
}

func TestSession_NilSourceReturnIsAdapterFailure(t *testing.T) {
	tog := NewToggler(&litra.MockContext{}, match.Filter{}, false, false, zerolog.Nop())
	sess := NewSession(&nilSource{}, tog, testDelay, zerolog.Nop())

	if err := sess.Run(context.Background()); err == nil {
		t.Fatal("a source that stops without error must still end the session with one")
	}
}

type nilSource struct{}

func (*nilSource) Watch(context.Context, chan<- bool) error { return nil }
