package status

import (
	"testing"

	"github.com/rs/zerolog"
)

func newCodec() *Codec {
	return NewCodec(zerolog.Nop())
}

func TestToInternal_Kit(t *testing.T) {
	c := newCodec()

	cases := []struct {
		raw  string
		want State
	}{
		{"Received", KitAvailable},
		{"Processing", KitInUse},
		// The backend's "Pending" on a kit means processed and awaiting
		// pickup, not waiting-to-start.
		{"Pending", KitCompleted},
		{"Expired", KitExpired},
		{"received", KitAvailable},
		{"  Expired  ", KitExpired},
		{"in-use", KitInUse},
	}
	for _, tc := range cases {
		if got := c.ToInternal(KindKit, tc.raw); got != tc.want {
			t.Errorf("ToInternal(kit, %q) = %s, want %s", tc.raw, got, tc.want)
		}
	}
}

func TestToInternal_Booking(t *testing.T) {
	c := newCodec()

	cases := []struct {
		raw  string
		want State
	}{
		{"Đã xác nhận", BookingPending},
		{"Đang thực hiện", BookingInProgress},
		{"Hoàn thành", BookingCompleted},
		{"Hủy", BookingCancelled},
		{"Pending", BookingPending},
		{"Confirmed", BookingPending},
		{"Completed", BookingCompleted},
		{"Cancelled", BookingCancelled},
	}
	for _, tc := range cases {
		if got := c.ToInternal(KindBooking, tc.raw); got != tc.want {
			t.Errorf("ToInternal(booking, %q) = %s, want %s", tc.raw, got, tc.want)
		}
	}
}

func TestToInternal_UnknownFallsBack(t *testing.T) {
	c := newCodec()

	if got := c.ToInternal(KindKit, "garbage"); got != KitAvailable {
		t.Errorf("unknown kit raw = %s, want default %s", got, KitAvailable)
	}
	if got := c.ToInternal(KindBooking, ""); got != BookingPending {
		t.Errorf("empty booking raw = %s, want default %s", got, BookingPending)
	}
}

func TestToBackend_RoundTrip(t *testing.T) {
	c := newCodec()

	for _, kind := range []Kind{KindKit, KindBooking} {
		for _, s := range States(kind) {
			raw, err := c.ToBackend(kind, s)
			if err != nil {
				t.Fatalf("ToBackend(%s, %s): %v", kind, s, err)
			}
			if got := c.ToInternal(kind, raw); got != s {
				t.Errorf("round trip %s/%s via %q = %s", kind, s, raw, got)
			}
		}
	}
}

func TestToBackend_MissingEntry(t *testing.T) {
	c := newCodec()

	_, err := c.ToBackend(KindKit, State("made-up"))
	cfg, ok := err.(*ConfigurationError)
	if !ok {
		t.Fatalf("err = %v, want *ConfigurationError", err)
	}
	if cfg.Kind != KindKit || cfg.State != "made-up" {
		t.Errorf("error fields = %+v", cfg)
	}
}

func TestToDisplay(t *testing.T) {
	c := newCodec()

	label, err := c.ToDisplay(KindKit, KitExpired)
	if err != nil {
		t.Fatalf("ToDisplay: %v", err)
	}
	if label != "Arrived at Warehouse" {
		t.Errorf("label = %q", label)
	}

	if _, err := c.ToDisplay(KindBooking, State("nope")); err == nil {
		t.Error("expected ConfigurationError for unknown state")
	}
}

func TestValidate(t *testing.T) {
	if err := newCodec().Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}
