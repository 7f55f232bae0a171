package litra

import (
	"fmt"

	"github.com/sstallion/go-hid"
)

const (
	vendorID = 0x046D

	productIDGlow   = 0xC900
	productIDBeam   = 0xC901
	productIDBeamLX = 0xC903

	// Litra lamps expose their control interface on a vendor usage page;
	// the same product IDs also enumerate keyboard/consumer interfaces
	// that must be ignored.
	controlUsagePage = 0xFF43

	reportLength = 20

	commandPower     = 0x1C
	commandAuxiliary = 0x1E
)

func typeForProduct(productID uint16) (DeviceType, bool) {
	switch productID {
	case productIDGlow:
		return TypeGlow, true
	case productIDBeam:
		return TypeBeam, true
	case productIDBeamLX:
		return TypeBeamLX, true
	default:
		return TypeUnspecified, false
	}
}

// protocolByte selects the HID++ feature index used by the family.
func protocolByte(t DeviceType) byte {
	if t == TypeBeamLX {
		return 0x06
	}
	return 0x04
}

// HIDContext is the real Context implementation backed by go-hid.
type HIDContext struct {
	devices []DeviceInfo
}

// NewHIDContext initializes the HID subsystem. The returned context must be
// closed when no longer needed.
func NewHIDContext() (*HIDContext, error) {
	if err := hid.Init(); err != nil {
		return nil, fmt.Errorf("initialize HID subsystem: %w", err)
	}
	return &HIDContext{}, nil
}

func (c *HIDContext) Refresh() error {
	c.devices = c.devices[:0]
	err := hid.Enumerate(vendorID, hid.ProductIDAny, func(info *hid.DeviceInfo) error {
		t, ok := typeForProduct(info.ProductID)
		if !ok || info.UsagePage != controlUsagePage {
			return nil
		}
		c.devices = append(c.devices, DeviceInfo{
			Type:      t,
			Path:      info.Path,
			ProductID: info.ProductID,
			Serial:    info.SerialNbr,
		})
		return nil
	})
	if err != nil {
		return fmt.Errorf("enumerate HID devices: %w", err)
	}
	return nil
}

func (c *HIDContext) Devices() []DeviceInfo {
	out := make([]DeviceInfo, len(c.devices))
	copy(out, c.devices)
	return out
}

func (c *HIDContext) Open(info DeviceInfo) (Handle, error) {
	dev, err := hid.OpenPath(info.Path)
	if err != nil {
		return nil, fmt.Errorf("open %s device at %s: %w", info.Type, info.Path, err)
	}
	return &hidHandle{dev: dev, info: info}, nil
}

func (c *HIDContext) Close() error {
	return hid.Exit()
}

type hidHandle struct {
	dev  *hid.Device
	info DeviceInfo
}

func (h *hidHandle) Type() DeviceType { return h.info.Type }

func (h *hidHandle) Path() string { return h.info.Path }

func (h *hidHandle) SerialNumber() string {
	if serial, err := h.dev.GetSerialNbr(); err == nil && serial != "" {
		return serial
	}
	if h.info.Serial != "" {
		return h.info.Serial
	}
	return fallbackSerial(h.info.Type, h.info.ProductID, h.info.Path)
}

func (h *hidHandle) SetPower(on bool) error {
	return h.write(commandPower, on)
}

func (h *hidHandle) SupportsAuxiliary() bool {
	return h.info.Type.SupportsAuxiliary()
}

func (h *hidHandle) SetAuxiliary(on bool) error {
	if !h.SupportsAuxiliary() {
		return fmt.Errorf("%s device has no auxiliary light channel", h.info.Type)
	}
	return h.write(commandAuxiliary, on)
}

func (h *hidHandle) write(command byte, on bool) error {
	buf := make([]byte, reportLength)
	buf[0] = 0x11
	buf[1] = 0xFF
	buf[2] = protocolByte(h.info.Type)
	buf[3] = command
	if on {
		buf[4] = 0x01
	}
	if _, err := h.dev.Write(buf); err != nil {
		return fmt.Errorf("write to %s device at %s: %w", h.info.Type, h.info.Path, err)
	}
	return nil
}

func (h *hidHandle) Close() error {
	return h.dev.Close()
}
