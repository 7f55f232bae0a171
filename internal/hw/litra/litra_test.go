package litra

import (
	"strings"
	"testing"
)

func TestParseDeviceType_Valid(t *testing.T) {
	cases := []struct {
		in   string
		want DeviceType
	}{
		{"glow", TypeGlow},
		{"beam", TypeBeam},
		{"beam_lx", TypeBeamLX},
	}
	for _, tc := range cases {
		got, err := ParseDeviceType(tc.in)
		if err != nil {
			t.Errorf("ParseDeviceType(%q): %v", tc.in, err)
		}
		if got != tc.want {
			t.Errorf("ParseDeviceType(%q) = %v, want %v", tc.in, got, tc.want)
		}
		if got.String() != tc.in {
			t.Errorf("DeviceType(%v).String() = %q, want %q", got, got.String(), tc.in)
		}
	}
}

func TestParseDeviceType_Invalid(t *testing.T) {
	for _, in := range []string{"invalid", "", "GLOW", "beam-lx"} {
		if _, err := ParseDeviceType(in); err == nil {
			t.Errorf("ParseDeviceType(%q): expected error, got nil", in)
		}
	}
}

func TestSupportsAuxiliary(t *testing.T) {
	if TypeGlow.SupportsAuxiliary() || TypeBeam.SupportsAuxiliary() {
		t.Error("glow/beam must not report an auxiliary channel")
	}
	if !TypeBeamLX.SupportsAuxiliary() {
		t.Error("beam_lx must report an auxiliary channel")
	}
}

func TestFallbackSerial_Stable(t *testing.T) {
	a := fallbackSerial(TypeGlow, productIDGlow, "/dev/hidraw3")
	b := fallbackSerial(TypeGlow, productIDGlow, "/dev/hidraw3")
	if a != b {
		t.Errorf("fallback serial not stable: %q vs %q", a, b)
	}
	if !strings.HasPrefix(a, "glow-c900-") {
		t.Errorf("fallback serial %q missing type/product prefix", a)
	}

	other := fallbackSerial(TypeGlow, productIDGlow, "/dev/hidraw4")
	if a == other {
		t.Error("fallback serial must differ per path")
	}
}

func TestMockHandle_SerialFallbackOrder(t *testing.T) {
	info := DeviceInfo{Type: TypeBeam, Path: "/dev/hidraw1", ProductID: productIDBeam}

	h := &MockHandle{Info: info, Serial: "ABC123"}
	if got := h.SerialNumber(); got != "ABC123" {
		t.Errorf("SerialNumber() = %q, want opened serial", got)
	}

	info.Serial = "ENUM456"
	h = &MockHandle{Info: info}
	if got := h.SerialNumber(); got != "ENUM456" {
		t.Errorf("SerialNumber() = %q, want enumerated serial", got)
	}

	info.Serial = ""
	h = &MockHandle{Info: info}
	if got := h.SerialNumber(); !strings.HasPrefix(got, "beam-") {
		t.Errorf("SerialNumber() = %q, want synthesized fallback", got)
	}
}
