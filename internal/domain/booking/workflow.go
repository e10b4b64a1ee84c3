package booking

import (
	"fmt"

	"github.com/genelab/genelab/internal/platform/status"
)

// edges is the booking lifecycle. Completed and cancelled are terminal.
var edges = map[status.State][]status.State{
	status.BookingPending:    {status.BookingInProgress, status.BookingCancelled},
	status.BookingInProgress: {status.BookingCompleted, status.BookingCancelled},
	status.BookingCompleted:  {},
	status.BookingCancelled:  {},
}

// Guard rejection reasons. Each names the single unmet condition so callers
// can present a precise message.
const (
	ReasonIllegalEdge    = "illegal transition"
	ReasonNoKit          = "no kit registered for booking"
	ReasonKitNotArrived  = "kit has not arrived at the warehouse"
	ReasonResultRequired = "test result required to complete"
)

// GuardViolation is returned for any rejected transition. A rejected
// transition never mutates state.
type GuardViolation struct {
	From   status.State
	Target status.State
	Reason string
}

func (e *GuardViolation) Error() string {
	return fmt.Sprintf("booking: %s -> %s rejected: %s", e.From, e.Target, e.Reason)
}

// hasEdge reports whether the lifecycle contains from -> target.
func hasEdge(from, target status.State) bool {
	for _, next := range edges[from] {
		if next == target {
			return true
		}
	}
	return false
}

// checkEdge rejects anything outside the lifecycle, including self edges.
func checkEdge(from, target status.State) error {
	if !hasEdge(from, target) {
		return &GuardViolation{From: from, Target: target, Reason: ReasonIllegalEdge}
	}
	return nil
}

// IsTerminal reports whether no edge leaves the state.
func IsTerminal(s status.State) bool {
	return len(edges[s]) == 0
}
