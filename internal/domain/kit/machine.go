package kit

import (
	"fmt"

	"github.com/genelab/genelab/internal/platform/status"
)

// transitions is the kit lifecycle. Expiry doubles as the
// arrived-at-warehouse signal the booking workflow waits on, so an expired
// kit may re-enter processing. Completed is terminal.
var transitions = map[status.State][]status.State{
	status.KitAvailable: {status.KitInUse, status.KitExpired},
	status.KitInUse:     {status.KitCompleted, status.KitExpired},
	status.KitExpired:   {status.KitInUse},
	status.KitCompleted: {},
}

// InvalidTransitionError reports a rejected kit edge.
type InvalidTransitionError struct {
	From   status.State
	Target status.State
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("kit: cannot transition from %s to %s", e.From, e.Target)
}

// CanTransition reports whether the edge from -> target is in the machine.
func CanTransition(from, target status.State) bool {
	for _, next := range transitions[from] {
		if next == target {
			return true
		}
	}
	return false
}

// CheckTransition returns a typed error for a rejected edge.
func CheckTransition(from, target status.State) error {
	if !CanTransition(from, target) {
		return &InvalidTransitionError{From: from, Target: target}
	}
	return nil
}

// IsTerminal reports whether no edge leaves the state.
func IsTerminal(s status.State) bool {
	return s == status.KitCompleted
}
