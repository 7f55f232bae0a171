//go:build linux

package webcam

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"unsafe"

	"github.com/rs/zerolog"
	"golang.org/x/sys/unix"
)

// inotifySource watches /dev (or one specific video device node) for
// OPEN/CLOSE events on video devices.
type inotifySource struct {
	videoDevice string
	log         zerolog.Logger
}

// New returns the Linux camera signal source.
func New(cfg Config, log zerolog.Logger) Source {
	return &inotifySource{videoDevice: cfg.VideoDevice, log: log}
}

func (s *inotifySource) Watch(ctx context.Context, edges chan<- bool) error {
	watchPath := "/dev"
	prefix := "video"
	if s.videoDevice != "" {
		watchPath = filepath.Dir(s.videoDevice)
		prefix = filepath.Base(s.videoDevice)
	}

	fd, err := unix.InotifyInit1(unix.IN_CLOEXEC)
	if err != nil {
		return fmt.Errorf("initialize inotify: %w", err)
	}
	if _, err := unix.InotifyAddWatch(fd, watchPath, unix.IN_OPEN|unix.IN_CLOSE_WRITE|unix.IN_CLOSE_NOWRITE); err != nil {
		unix.Close(fd)
		return fmt.Errorf("watch %s: %w", watchPath, err)
	}
	s.log.Info().Str("path", watchPath).Str("prefix", prefix).Msg("watching for video device events")

	// Closing the descriptor is the only way to unblock the read below.
	go func() {
		<-ctx.Done()
		unix.Close(fd)
	}()

	var devices counter
	buf := make([]byte, 4096)
	for {
		n, err := unix.Read(fd, buf)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if errors.Is(err, unix.EINTR) {
				continue
			}
			return fmt.Errorf("read inotify events: %w", err)
		}

		// Edges are evaluated per batch so that an open immediately
		// followed by a close produces no transition at all.
		before := devices.busy()
		for offset := 0; offset+unix.SizeofInotifyEvent <= n; {
			event := (*unix.InotifyEvent)(unsafe.Pointer(&buf[offset]))
			nameLen := int(event.Len)
			name := ""
			if nameLen > 0 {
				name = strings.TrimRight(string(buf[offset+unix.SizeofInotifyEvent:offset+unix.SizeofInotifyEvent+nameLen]), "\x00")
			}
			offset += unix.SizeofInotifyEvent + nameLen

			if !strings.HasPrefix(name, prefix) {
				continue
			}
			switch {
			case event.Mask&unix.IN_OPEN != 0:
				s.log.Debug().Str("device", name).Msg("video device opened")
				devices.add(1)
			case event.Mask&(unix.IN_CLOSE_WRITE|unix.IN_CLOSE_NOWRITE) != 0:
				s.log.Debug().Str("device", name).Msg("video device closed")
				devices.add(-1)
			}
		}

		if devices.busy() == before {
			continue
		}
		if devices.busy() {
			s.log.Info().Msg("detected that a video device has been turned on")
		} else {
			s.log.Info().Msg("detected that a video device has been turned off")
		}
		if err := send(ctx, edges, devices.busy()); err != nil {
			return err
		}
	}
}
