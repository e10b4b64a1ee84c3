package booking

import (
	"errors"
	"testing"

	"github.com/genelab/genelab/internal/platform/status"
)

func TestCheckEdge(t *testing.T) {
	cases := []struct {
		from, target status.State
		ok           bool
	}{
		{status.BookingPending, status.BookingInProgress, true},
		{status.BookingPending, status.BookingCancelled, true},
		{status.BookingPending, status.BookingCompleted, false},
		{status.BookingInProgress, status.BookingCompleted, true},
		{status.BookingInProgress, status.BookingCancelled, true},
		{status.BookingInProgress, status.BookingPending, false},
		{status.BookingCompleted, status.BookingCancelled, false},
		{status.BookingCancelled, status.BookingPending, false},
		{status.BookingPending, status.BookingPending, false},
		{status.BookingCompleted, status.BookingCompleted, false},
	}

	for _, tc := range cases {
		err := checkEdge(tc.from, tc.target)
		if tc.ok && err != nil {
			t.Errorf("checkEdge(%s, %s) = %v, want nil", tc.from, tc.target, err)
		}
		if !tc.ok {
			var gv *GuardViolation
			if !errors.As(err, &gv) {
				t.Errorf("checkEdge(%s, %s) = %v, want *GuardViolation", tc.from, tc.target, err)
				continue
			}
			if gv.Reason != ReasonIllegalEdge {
				t.Errorf("reason = %q, want %q", gv.Reason, ReasonIllegalEdge)
			}
		}
	}
}

func TestIsTerminal(t *testing.T) {
	for _, s := range []status.State{status.BookingCompleted, status.BookingCancelled} {
		if !IsTerminal(s) {
			t.Errorf("%s should be terminal", s)
		}
	}
	for _, s := range []status.State{status.BookingPending, status.BookingInProgress} {
		if IsTerminal(s) {
			t.Errorf("%s should not be terminal", s)
		}
	}
}
