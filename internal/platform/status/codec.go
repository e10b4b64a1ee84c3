// Package status translates between the three status alphabets each entity
// kind carries: the raw string the legacy backend speaks, the internal state
// token the workflow logic runs on, and the label shown to users. The inbound
// direction is tolerant because the backend has shipped both English technical
// values and Vietnamese business values for the same concept; the outbound
// directions are strict lookups whose gaps are deployment defects.
package status

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"
)

// Kind selects a status alphabet.
type Kind string

const (
	KindKit     Kind = "kit"
	KindBooking Kind = "booking"
)

// State is an internal lifecycle state token.
type State string

// Kit lifecycle states.
const (
	KitAvailable State = "available"
	KitInUse     State = "in-use"
	KitCompleted State = "completed"
	KitExpired   State = "expired"
)

// Booking lifecycle states.
const (
	BookingPending    State = "pending"
	BookingInProgress State = "in-progress"
	BookingCompleted  State = "completed"
	BookingCancelled  State = "cancelled"
)

// KitStates is the full kit alphabet.
var KitStates = []State{KitAvailable, KitInUse, KitCompleted, KitExpired}

// BookingStates is the full booking alphabet.
var BookingStates = []State{BookingPending, BookingInProgress, BookingCompleted, BookingCancelled}

// ConfigurationError reports a gap in a strict lookup table. It is a
// programming defect, not a data error, and should abort startup validation
// rather than surface per request.
type ConfigurationError struct {
	Kind  Kind
	State State
	Table string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("status: no %s mapping for %s state %q", e.Table, e.Kind, e.State)
}

// toInternal maps lowercased raw backend values to internal states. Internal
// tokens are included so an already-translated value round-trips.
var kitToInternal = map[string]State{
	"received":   KitAvailable,
	"processing": KitInUse,
	"pending":    KitCompleted,
	"expired":    KitExpired,
	"available":  KitAvailable,
	"in-use":     KitInUse,
	"completed":  KitCompleted,
}

var bookingToInternal = map[string]State{
	"đã xác nhận":    BookingPending,
	"đang thực hiện": BookingInProgress,
	"hoàn thành":     BookingCompleted,
	"hủy":            BookingCancelled,
	// English legacy synonyms, accepted on input only.
	"pending":     BookingPending,
	"confirmed":   BookingPending,
	"completed":   BookingCompleted,
	"cancelled":   BookingCancelled,
	"in-progress": BookingInProgress,
}

// toBackend is strict: exactly one raw value per internal state per kind.
var kitToBackend = map[State]string{
	KitAvailable: "Received",
	KitInUse:     "Processing",
	KitCompleted: "Pending",
	KitExpired:   "Expired",
}

var bookingToBackend = map[State]string{
	BookingPending:    "Đã xác nhận",
	BookingInProgress: "Đang thực hiện",
	BookingCompleted:  "Hoàn thành",
	BookingCancelled:  "Hủy",
}

var kitToDisplay = map[State]string{
	KitAvailable: "Available",
	KitInUse:     "In Use",
	KitCompleted: "Completed",
	KitExpired:   "Arrived at Warehouse",
}

var bookingToDisplay = map[State]string{
	BookingPending:    "Pending",
	BookingInProgress: "In Progress",
	BookingCompleted:  "Completed",
	BookingCancelled:  "Cancelled",
}

// Unknown raw values fall back per kind rather than failing: legacy values
// keep appearing as the backend evolves.
var defaults = map[Kind]State{
	KindKit:     KitAvailable,
	KindBooking: BookingPending,
}

// Codec performs the three translations. The zero value is not usable; build
// one with NewCodec so unknown-status warnings have somewhere to go.
type Codec struct {
	logger zerolog.Logger
}

func NewCodec(logger zerolog.Logger) *Codec {
	return &Codec{logger: logger}
}

// ToInternal maps a raw backend status to an internal state. Matching is
// case-insensitive; an unknown value yields the kind's default state and a
// logged warning, never an error.
func (c *Codec) ToInternal(kind Kind, raw string) State {
	table := kitToInternal
	if kind == KindBooking {
		table = bookingToInternal
	}
	if s, ok := table[strings.ToLower(strings.TrimSpace(raw))]; ok {
		return s
	}
	c.logger.Warn().
		Str("kind", string(kind)).
		Str("raw_status", raw).
		Str("default", string(defaults[kind])).
		Msg("unknown raw status, using default state")
	return defaults[kind]
}

// ToBackend maps an internal state to the single raw value the backend
// accepts. A missing entry is a ConfigurationError.
func (c *Codec) ToBackend(kind Kind, s State) (string, error) {
	table := kitToBackend
	if kind == KindBooking {
		table = bookingToBackend
	}
	raw, ok := table[s]
	if !ok {
		return "", &ConfigurationError{Kind: kind, State: s, Table: "backend"}
	}
	return raw, nil
}

// ToDisplay maps an internal state to its user-facing label. A missing entry
// is a ConfigurationError.
func (c *Codec) ToDisplay(kind Kind, s State) (string, error) {
	table := kitToDisplay
	if kind == KindBooking {
		table = bookingToDisplay
	}
	label, ok := table[s]
	if !ok {
		return "", &ConfigurationError{Kind: kind, State: s, Table: "display"}
	}
	return label, nil
}

// States returns the alphabet for a kind.
func States(kind Kind) []State {
	if kind == KindBooking {
		return BookingStates
	}
	return KitStates
}

// Validate runs every state of both alphabets through the strict tables. Run
// at startup; a failure here means the deployment is broken.
func (c *Codec) Validate() error {
	for _, kind := range []Kind{KindKit, KindBooking} {
		for _, s := range States(kind) {
			if _, err := c.ToBackend(kind, s); err != nil {
				return err
			}
			if _, err := c.ToDisplay(kind, s); err != nil {
				return err
			}
		}
	}
	return nil
}
