// Package litra talks to Logitech Litra lamps over USB HID.
//
// The rest of the application only sees the Context and Handle interfaces,
// which allows plugging in the real go-hid backed driver or a mock for
// development and tests.
package litra

import (
	"fmt"
	"hash/fnv"
)

// DeviceType identifies a Litra product family.
type DeviceType int

const (
	TypeUnspecified DeviceType = iota
	TypeGlow
	TypeBeam
	TypeBeamLX
)

// String returns the CLI/config spelling of the device type.
func (t DeviceType) String() string {
	switch t {
	case TypeGlow:
		return "glow"
	case TypeBeam:
		return "beam"
	case TypeBeamLX:
		return "beam_lx"
	default:
		return "unspecified"
	}
}

// ParseDeviceType converts the CLI/config spelling into a DeviceType.
func ParseDeviceType(s string) (DeviceType, error) {
	switch s {
	case "glow":
		return TypeGlow, nil
	case "beam":
		return TypeBeam, nil
	case "beam_lx":
		return TypeBeamLX, nil
	default:
		return TypeUnspecified, fmt.Errorf("invalid device type %q: must be one of: glow, beam, beam_lx", s)
	}
}

// SupportsAuxiliary reports whether the family has a secondary illumination
// channel (the Beam LX rear glow).
func (t DeviceType) SupportsAuxiliary() bool {
	return t == TypeBeamLX
}

// DeviceInfo describes a connected device as reported by enumeration.
// The serial number at this stage may be empty; the authoritative serial
// is read from the opened handle.
type DeviceInfo struct {
	Type      DeviceType
	Path      string
	ProductID uint16
	Serial    string
}

// Context provides access to the set of connected Litra devices.
//
// Implementations are not safe for concurrent use: the caller is expected
// to serialize Refresh/Devices/Open sequences behind its own lock.
type Context interface {
	// Refresh re-scans the bus. Must be called before Devices to avoid
	// acting on a stale view.
	Refresh() error
	// Devices returns the devices seen by the last Refresh.
	Devices() []DeviceInfo
	// Open opens a device for control. The returned handle owns the
	// underlying OS handle until Close.
	Open(info DeviceInfo) (Handle, error)
	// Close releases the context itself.
	Close() error
}

// Handle is an opened device.
type Handle interface {
	Type() DeviceType
	Path() string
	// SerialNumber returns the device serial, or a stable synthesized
	// identifier when the device does not expose one.
	SerialNumber() string
	SetPower(on bool) error
	SupportsAuxiliary() bool
	// SetAuxiliary drives the secondary illumination channel. It is an
	// error on families without one.
	SetAuxiliary(on bool) error
	Close() error
}

// fallbackSerial synthesizes a stable identifier for devices whose serial
// number cannot be read, derived from type, product ID and path.
func fallbackSerial(t DeviceType, productID uint16, path string) string {
	h := fnv.New32a()
	h.Write([]byte(path))
	return fmt.Sprintf("%s-%04x-%08x", t, productID, h.Sum32())
}
