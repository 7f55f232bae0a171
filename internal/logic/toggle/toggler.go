package toggle

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/timrogers/litra-autotoggle/internal/hw/litra"
	"github.com/timrogers/litra-autotoggle/internal/logic/match"
)

// Toggler owns the shared device context and performs one full
// match-and-apply cycle per settled intent. The mutex serializes access to
// the context between the startup scan and concurrently firing applies.
//
// Devices are re-enumerated and re-opened on every apply rather than
// cached, which makes hot-plugging just work.
type Toggler struct {
	mu            sync.Mutex
	ctx           litra.Context
	filter        match.Filter
	requireDevice bool
	auxiliary     bool
	log           zerolog.Logger
}

func NewToggler(ctx litra.Context, filter match.Filter, requireDevice, auxiliary bool, log zerolog.Logger) *Toggler {
	return &Toggler{
		ctx:           ctx,
		filter:        filter,
		requireDevice: requireDevice,
		auxiliary:     auxiliary,
		log:           log,
	}
}

// Apply matches the configured devices and sets their power state.
// Enumeration failures are always fatal. An empty match is fatal only when
// require-device is set; otherwise it is logged and the apply is a no-op.
func (t *Toggler) Apply(on bool) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	handles, err := match.Devices(t.log, t.ctx, t.filter)
	if err != nil {
		return err
	}
	defer match.CloseAll(handles)

	if len(handles) == 0 {
		err := t.notFound()
		if t.requireDevice {
			return err
		}
		t.log.Warn().Msg(err.Error())
		return nil
	}

	match.Apply(t.log, handles, on, t.auxiliary)
	return nil
}

// LogConnected reports the currently matching devices. It is informational
// only: failures are logged, never returned, and do not gate the session.
func (t *Toggler) LogConnected() {
	t.mu.Lock()
	defer t.mu.Unlock()

	handles, err := match.Devices(t.log, t.ctx, t.filter)
	if err != nil {
		t.log.Warn().Err(err).Msg("startup device scan failed")
		return
	}
	defer match.CloseAll(handles)

	if len(handles) == 0 {
		t.log.Warn().Msg(t.notFound().Error())
		return
	}
	for _, h := range handles {
		t.log.Info().
			Stringer("type", h.Type()).
			Str("serial", h.SerialNumber()).
			Msg("found device")
	}
}

func (t *Toggler) notFound() error {
	if len(t.filter.SerialNumbers) > 0 {
		return &match.NotFoundError{Serials: t.filter.SerialNumbers}
	}
	return match.ErrNoDevicesFound
}
