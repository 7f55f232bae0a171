package litra

import "fmt"

// MockContext is a Context implementation for development and tests.
// Failures can be injected per call site; every handle hands out a record
// of the commands it received.
type MockContext struct {
	Connected  []DeviceInfo
	RefreshErr error
	// OpenErrs maps device paths to errors returned by Open.
	OpenErrs map[string]error
	// Serials maps device paths to the serial reported once opened.
	Serials map[string]string

	Refreshed int
	Opened    []*MockHandle
	Closed    bool
}

func (m *MockContext) Refresh() error {
	m.Refreshed++
	return m.RefreshErr
}

func (m *MockContext) Devices() []DeviceInfo {
	out := make([]DeviceInfo, len(m.Connected))
	copy(out, m.Connected)
	return out
}

func (m *MockContext) Open(info DeviceInfo) (Handle, error) {
	if err, ok := m.OpenErrs[info.Path]; ok {
		return nil, err
	}
	h := &MockHandle{Info: info}
	if serial, ok := m.Serials[info.Path]; ok {
		h.Serial = serial
	}
	m.Opened = append(m.Opened, h)
	return h, nil
}

func (m *MockContext) Close() error {
	m.Closed = true
	return nil
}

// MockHandle records power and auxiliary commands.
type MockHandle struct {
	Info   DeviceInfo
	Serial string

	PowerErr error
	AuxErr   error

	PowerCalls []bool
	AuxCalls   []bool
	Closed     bool
}

func (h *MockHandle) Type() DeviceType { return h.Info.Type }

func (h *MockHandle) Path() string { return h.Info.Path }

func (h *MockHandle) SerialNumber() string {
	if h.Serial != "" {
		return h.Serial
	}
	if h.Info.Serial != "" {
		return h.Info.Serial
	}
	return fallbackSerial(h.Info.Type, h.Info.ProductID, h.Info.Path)
}

func (h *MockHandle) SetPower(on bool) error {
	h.PowerCalls = append(h.PowerCalls, on)
	return h.PowerErr
}

func (h *MockHandle) SupportsAuxiliary() bool {
	return h.Info.Type.SupportsAuxiliary()
}

func (h *MockHandle) SetAuxiliary(on bool) error {
	if !h.SupportsAuxiliary() {
		return fmt.Errorf("%s device has no auxiliary light channel", h.Info.Type)
	}
	h.AuxCalls = append(h.AuxCalls, on)
	return h.AuxErr
}

func (h *MockHandle) Close() error {
	h.Closed = true
	return nil
}
