package staff

import (
	"errors"
	"math/rand"
	"sync"
	"time"
)

// ErrNoStaffAvailable is returned when the active pool is empty.
var ErrNoStaffAvailable = errors.New("no staff available")

// Allocator picks the least-loaded staff member, breaking ties at random
// so assignments spread evenly across members with equal load.
type Allocator struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func NewAllocator() *Allocator {
	return &Allocator{rng: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

// NewAllocatorWithSeed fixes the random source, for tests.
func NewAllocatorWithSeed(seed int64) *Allocator {
	return &Allocator{rng: rand.New(rand.NewSource(seed))}
}

// Choose returns the staff id of one member drawn uniformly from the
// minimum-load subset of the snapshot. With a fresh roster every load is
// zero and the draw covers the whole pool.
func (a *Allocator) Choose(loads []Load) (string, error) {
	if len(loads) == 0 {
		return "", ErrNoStaffAvailable
	}

	min := loads[0].Open
	for _, l := range loads[1:] {
		if l.Open < min {
			min = l.Open
		}
	}

	candidates := make([]string, 0, len(loads))
	for _, l := range loads {
		if l.Open == min {
			candidates = append(candidates, l.StaffID)
		}
	}

	a.mu.Lock()
	idx := a.rng.Intn(len(candidates))
	a.mu.Unlock()
	return candidates[idx], nil
}
