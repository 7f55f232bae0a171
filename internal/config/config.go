// Package config loads the optional YAML configuration file and merges it
// with command line options. Command line values take precedence.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/timrogers/litra-autotoggle/internal/hw/litra"
	"github.com/timrogers/litra-autotoggle/internal/logic/match"
)

// DefaultDelayMs is the settle delay between a webcam event and toggling
// the lights. Webcam transitions can emit several events in quick
// succession; the delay absorbs them before acting.
const DefaultDelayMs = 1500

// Config aggregates all application configuration. YAML field names use
// underscores (e.g. serial_numbers).
type Config struct {
	SerialNumbers   []string `yaml:"serial_numbers"`
	DevicePath      string   `yaml:"device_path"`
	DeviceType      string   `yaml:"device_type"`
	RequireDevice   bool     `yaml:"require_device"`
	VideoDevice     string   `yaml:"video_device"` // Linux only
	DelayMs         int      `yaml:"delay"`
	Auxiliary       bool     `yaml:"auxiliary"`
	SkipUpdateCheck bool     `yaml:"skip_update_check"`
	Verbose         bool     `yaml:"verbose"`
}

// Options carries the command line values overlaid onto the file.
type Options struct {
	SerialNumbers   []string
	DevicePath      string
	DeviceType      string
	RequireDevice   bool
	VideoDevice     string
	DelayMs         int
	Auxiliary       bool
	SkipUpdateCheck bool
	Verbose         bool
}

// Load reads and validates a YAML configuration file. Unknown fields are
// rejected to catch typos; an empty file is a valid empty configuration.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		if errors.Is(err, io.EOF) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Merge overlays command line options. Booleans only override when set;
// the delay only overrides when it differs from the flag default, so a
// file value survives an untouched flag.
func (c *Config) Merge(o Options) {
	if len(o.SerialNumbers) > 0 {
		c.SerialNumbers = o.SerialNumbers
	}
	if o.DevicePath != "" {
		c.DevicePath = o.DevicePath
	}
	if o.DeviceType != "" {
		c.DeviceType = o.DeviceType
	}
	if o.RequireDevice {
		c.RequireDevice = true
	}
	if o.VideoDevice != "" {
		c.VideoDevice = o.VideoDevice
	}
	if o.DelayMs > 0 && o.DelayMs != DefaultDelayMs {
		c.DelayMs = o.DelayMs
	}
	if c.DelayMs <= 0 {
		c.DelayMs = DefaultDelayMs
	}
	if o.Auxiliary {
		c.Auxiliary = true
	}
	if o.SkipUpdateCheck {
		c.SkipUpdateCheck = true
	}
	if o.Verbose {
		c.Verbose = true
	}
}

// Validate checks the device type spelling and the filter exclusivity
// policy. Called on the file alone and again after merging.
func (c *Config) Validate() error {
	if _, err := c.Filter(); err != nil {
		return err
	}
	if c.DelayMs < 0 {
		return fmt.Errorf("delay must be positive, got %d", c.DelayMs)
	}
	return nil
}

// Filter builds the device selection criteria.
func (c *Config) Filter() (match.Filter, error) {
	f := match.Filter{
		SerialNumbers: c.SerialNumbers,
		DevicePath:    c.DevicePath,
	}
	if c.DeviceType != "" {
		t, err := litra.ParseDeviceType(c.DeviceType)
		if err != nil {
			return match.Filter{}, err
		}
		f.DeviceType = t
	}
	if err := f.Validate(); err != nil {
		return match.Filter{}, err
	}
	return f, nil
}

// Delay returns the settle delay as a duration.
func (c *Config) Delay() time.Duration {
	if c.DelayMs <= 0 {
		return DefaultDelayMs * time.Millisecond
	}
	return time.Duration(c.DelayMs) * time.Millisecond
}
