//go:build darwin

package webcam

import (
	"bufio"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/rs/zerolog"
)

// The CoreMediaIO subsystem logs these markers whenever any capture
// session starts or stops.
const (
	logStreamPredicate = `subsystem == "com.apple.cmio" AND (eventMessage CONTAINS "AVCaptureSession_Tundra startRunning" || eventMessage CONTAINS "AVCaptureSession_Tundra stopRunning")`

	startMarker = "AVCaptureSession_Tundra startRunning"
	stopMarker  = "AVCaptureSession_Tundra stopRunning"
)

// logStreamSource tails the unified log for capture session events.
type logStreamSource struct {
	log zerolog.Logger
}

// New returns the macOS camera signal source.
func New(_ Config, log zerolog.Logger) Source {
	return &logStreamSource{log: log}
}

func (s *logStreamSource) Watch(ctx context.Context, edges chan<- bool) error {
	cmd := exec.CommandContext(ctx, "log", "stream", "--predicate", logStreamPredicate)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("pipe log stream output: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start log stream process: %w", err)
	}
	s.log.Info().Msg("listening for video device events")

	var sessions counter
	scanner := bufio.NewScanner(stdout)
	for scanner.Scan() {
		line := scanner.Text()
		// The first line of `log stream` output is a banner.
		if strings.HasPrefix(line, "Filtering the log data") {
			continue
		}
		s.log.Debug().Str("line", line).Msg("log stream line")

		before := sessions.busy()
		switch {
		case strings.Contains(line, startMarker):
			sessions.add(1)
		case strings.Contains(line, stopMarker):
			sessions.add(-1)
		default:
			continue
		}
		if sessions.busy() == before {
			continue
		}

		if sessions.busy() {
			s.log.Info().Msg("detected that a video device has been turned on")
		} else {
			s.log.Info().Msg("detected that a video device has been turned off")
		}
		if err := send(ctx, edges, sessions.busy()); err != nil {
			_ = cmd.Wait()
			return err
		}
	}

	err = cmd.Wait()
	if ctx.Err() != nil {
		return ctx.Err()
	}
	return fmt.Errorf("log stream process exited unexpectedly: %w", err)
}
