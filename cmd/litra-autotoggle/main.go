// Command litra-autotoggle turns Logitech Litra lights on when the webcam
// turns on, and off when it turns off.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/timrogers/litra-autotoggle/internal/config"
	"github.com/timrogers/litra-autotoggle/internal/hw/litra"
	"github.com/timrogers/litra-autotoggle/internal/hw/webcam"
	"github.com/timrogers/litra-autotoggle/internal/logging"
	"github.com/timrogers/litra-autotoggle/internal/logic/toggle"
	"github.com/timrogers/litra-autotoggle/internal/updates"
)

// version is stamped at build time via -ldflags.
var version = "dev"

func main() {
	os.Exit(run())
}

func run() int {
	var serials serialListFlag
	flag.Var(&serials, "serial-number", "target devices by serial number; repeatable, all devices by default")
	configPath := flag.String("config", "", "path to a YAML configuration file; command line arguments take precedence")
	devicePath := flag.String("device-path", "", "target a device by its path (useful for devices without a serial number)")
	deviceType := flag.String("device-type", "", "target devices by type: glow, beam or beam_lx")
	requireDevice := flag.Bool("require-device", false, "exit with an error whenever no matching device is found")
	videoDevice := flag.String("video-device", "", "the video device to monitor, e.g. /dev/video0 (Linux only); all devices by default")
	delayMs := flag.Int("delay", config.DefaultDelayMs, "delay in milliseconds between a webcam event and toggling the lights, absorbing event bursts")
	auxiliary := flag.Bool("auxiliary", false, "also toggle the auxiliary light channel on devices that have one (Beam LX)")
	skipUpdateCheck := flag.Bool("skip-update-check", false, "do not check GitHub for a newer release")
	verbose := flag.Bool("verbose", false, "output detailed log messages")
	showVersion := flag.Bool("version", false, "print the version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(version)
		return 0
	}

	cfg := &config.Config{}
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		cfg = loaded
	}
	cfg.Merge(config.Options{
		SerialNumbers:   serials,
		DevicePath:      *devicePath,
		DeviceType:      *deviceType,
		RequireDevice:   *requireDevice,
		VideoDevice:     *videoDevice,
		DelayMs:         *delayMs,
		Auxiliary:       *auxiliary,
		SkipUpdateCheck: *skipUpdateCheck,
		Verbose:         *verbose,
	})
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	filter, err := cfg.Filter()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	log := logging.New(cfg.Verbose)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	deviceCtx, err := litra.NewHIDContext()
	if err != nil {
		log.Error().Err(err).Msg("failed to initialize device subsystem")
		return 1
	}
	defer func() {
		if err := deviceCtx.Close(); err != nil {
			log.Warn().Err(err).Msg("closing device subsystem failed")
		}
	}()

	if !cfg.SkipUpdateCheck {
		go updates.Notify(ctx, updates.NewChecker(), version, log)
	}

	source := webcam.New(webcam.Config{VideoDevice: cfg.VideoDevice}, log)
	toggler := toggle.NewToggler(deviceCtx, filter, cfg.RequireDevice, cfg.Auxiliary, log)
	session := toggle.NewSession(source, toggler, cfg.Delay(), log)

	if err := session.Run(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			log.Info().Msg("shutting down")
			return 0
		}
		log.Error().Err(err).Msg("session ended with a fatal error")
		return 1
	}
	return 0
}

// serialListFlag collects repeated -serial-number values.
type serialListFlag []string

func (s *serialListFlag) String() string {
	return strings.Join(*s, ",")
}

func (s *serialListFlag) Set(v string) error {
	if v == "" {
		return errors.New("serial number must not be empty")
	}
	*s = append(*s, v)
	return nil
}
