// Package match selects the Litra devices an action targets and applies
// power changes to them.
package match

import (
	"errors"
	"fmt"
	"slices"

	"github.com/rs/zerolog"

	"github.com/timrogers/litra-autotoggle/internal/hw/litra"
)

// ErrMultipleFilters is returned when more than one filter kind is set.
var ErrMultipleFilters = errors.New("only one filter (serial number, device path or device type) can be used at a time")

// ErrNoDevicesFound reports that no Litra device matched an unrestricted
// filter. Whether it is fatal is the caller's decision.
var ErrNoDevicesFound = errors.New("no Litra devices found")

// NotFoundError reports that no device matched the given serial numbers.
type NotFoundError struct {
	Serials []string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no Litra device found with serial number(s): %v", e.Serials)
}

// Filter is the device selection criteria. Constructed once from merged
// configuration and immutable afterwards.
//
// Policy: filter kinds are mutually exclusive. A list of serial numbers
// counts as a single kind; an empty list means no serial restriction.
type Filter struct {
	SerialNumbers []string
	DevicePath    string
	DeviceType    litra.DeviceType
}

// Validate enforces the exclusivity policy.
func (f Filter) Validate() error {
	kinds := 0
	if len(f.SerialNumbers) > 0 {
		kinds++
	}
	if f.DevicePath != "" {
		kinds++
	}
	if f.DeviceType != litra.TypeUnspecified {
		kinds++
	}
	if kinds > 1 {
		return ErrMultipleFilters
	}
	return nil
}

// matches applies the pre-open criteria. Path takes precedence over type;
// serial numbers are only checkable after opening.
func (f Filter) matches(info litra.DeviceInfo) bool {
	if f.DevicePath != "" {
		return info.Path == f.DevicePath
	}
	if f.DeviceType != litra.TypeUnspecified {
		return info.Type == f.DeviceType
	}
	return true
}

// Devices refreshes the context and returns open handles for every device
// matching the filter. The result is never nil; it is empty when nothing
// matched. A refresh failure is fatal and propagates. A device that fails
// to open is skipped: opening is best-effort at matching time.
//
// The caller owns the returned handles and must close them.
func Devices(log zerolog.Logger, ctx litra.Context, f Filter) ([]litra.Handle, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	if err := ctx.Refresh(); err != nil {
		return nil, fmt.Errorf("refresh connected devices: %w", err)
	}

	handles := make([]litra.Handle, 0)
	for _, info := range ctx.Devices() {
		if !f.matches(info) {
			continue
		}
		handle, err := ctx.Open(info)
		if err != nil {
			log.Debug().Err(err).Str("path", info.Path).Msg("skipping device that failed to open")
			continue
		}
		// Serial filtering happens after open because the serial is only
		// reliably readable from an opened device.
		if len(f.SerialNumbers) > 0 && !slices.Contains(f.SerialNumbers, handle.SerialNumber()) {
			_ = handle.Close()
			continue
		}
		handles = append(handles, handle)
	}

	return handles, nil
}

// CloseAll closes every handle, ignoring individual errors.
func CloseAll(handles []litra.Handle) {
	for _, h := range handles {
		_ = h.Close()
	}
}
