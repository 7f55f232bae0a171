package match

import (
	"github.com/rs/zerolog"

	"github.com/timrogers/litra-autotoggle/internal/hw/litra"
)

// Apply sets the primary power of every handle, and the auxiliary channel
// where requested and supported. Per-device failures are logged and never
// abort the remaining devices: applying is best-effort by contract.
func Apply(log zerolog.Logger, handles []litra.Handle, on bool, auxiliary bool) {
	verb := "off"
	if on {
		verb = "on"
	}

	for _, h := range handles {
		log.Info().
			Stringer("type", h.Type()).
			Str("serial", h.SerialNumber()).
			Msgf("turning %s device", verb)

		if err := h.SetPower(on); err != nil {
			log.Warn().Err(err).
				Stringer("type", h.Type()).
				Str("serial", h.SerialNumber()).
				Msgf("failed to turn %s device", verb)
		}

		if !auxiliary || !h.SupportsAuxiliary() {
			continue
		}
		if err := h.SetAuxiliary(on); err != nil {
			log.Warn().Err(err).
				Stringer("type", h.Type()).
				Str("serial", h.SerialNumber()).
				Msgf("failed to turn %s auxiliary light", verb)
		}
	}
}
