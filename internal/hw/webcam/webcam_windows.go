//go:build windows

package webcam

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sys/windows/registry"
)

// Windows records camera usage per application under the capability
// consent store; a LastUsedTimeStop of zero means the app is using the
// camera right now. There is no event feed, so the tree is polled.
const consentStorePath = `SOFTWARE\Microsoft\Windows\CurrentVersion\CapabilityAccessManager\ConsentStore\webcam`

const (
	defaultPollInterval = time.Second
	maxPollFailures     = 10
)

type registryPollSource struct {
	interval time.Duration
	log      zerolog.Logger
}

// New returns the Windows camera signal source.
func New(cfg Config, log zerolog.Logger) Source {
	interval := cfg.PollInterval
	if interval <= 0 {
		interval = defaultPollInterval
	}
	return &registryPollSource{interval: interval, log: log}
}

func (s *registryPollSource) Watch(ctx context.Context, edges chan<- bool) error {
	s.log.Info().Dur("interval", s.interval).Msg("polling registry for camera usage")

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	busy := false
	failures := 0
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}

		now, err := webcamInUse()
		if err != nil {
			failures++
			s.log.Debug().Err(err).Msg("reading camera consent store failed")
			if failures >= maxPollFailures {
				return fmt.Errorf("camera consent store unreadable: %w", err)
			}
			continue
		}
		failures = 0

		if now == busy {
			continue
		}
		busy = now
		if busy {
			s.log.Info().Msg("detected that a video device has been turned on")
		} else {
			s.log.Info().Msg("detected that a video device has been turned off")
		}
		if err := send(ctx, edges, busy); err != nil {
			return err
		}
	}
}

func webcamInUse() (bool, error) {
	root, err := registry.OpenKey(registry.CURRENT_USER, consentStorePath, registry.READ)
	if err != nil {
		return false, fmt.Errorf("open consent store: %w", err)
	}
	defer root.Close()

	names, err := root.ReadSubKeyNames(-1)
	if err != nil {
		return false, fmt.Errorf("list consent store entries: %w", err)
	}

	for _, name := range names {
		sub, err := registry.OpenKey(root, name, registry.READ)
		if err != nil {
			continue
		}
		if name == "NonPackaged" {
			// Win32 apps live one level deeper, keyed by executable path.
			nested, err := sub.ReadSubKeyNames(-1)
			if err == nil {
				for _, inner := range nested {
					app, err := registry.OpenKey(sub, inner, registry.READ)
					if err != nil {
						continue
					}
					inUse := keyInUse(app)
					app.Close()
					if inUse {
						sub.Close()
						return true, nil
					}
				}
			}
			sub.Close()
			continue
		}
		inUse := keyInUse(sub)
		sub.Close()
		if inUse {
			return true, nil
		}
	}
	return false, nil
}

func keyInUse(k registry.Key) bool {
	stop, _, err := k.GetIntegerValue("LastUsedTimeStop")
	return err == nil && stop == 0
}
