package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/genelab/genelab/internal/domain/kit"
	"github.com/genelab/genelab/internal/domain/testresult"
	"github.com/genelab/genelab/internal/platform/metrics"
	"github.com/genelab/genelab/internal/platform/status"
)

// KitQuery is the one question the workflow asks the kit lifecycle.
type KitQuery interface {
	CurrentKitState(ctx context.Context, bookingID string) (status.State, error)
}

// StaffPicker hands out a staff id for a new booking.
type StaffPicker interface {
	PickForBooking(ctx context.Context) (string, error)
}

// ResultRecorder persists a test result, joining any transaction on the
// context.
type ResultRecorder interface {
	Record(ctx context.Context, r *testresult.TestResult) error
}

// StatusPusher mirrors a status change to the legacy backend.
type StatusPusher interface {
	PushBookingStatus(ctx context.Context, bookingID, rawStatus string) error
}

// ResultInput carries the test result submitted with an
// in-progress -> completed transition.
type ResultInput struct {
	Conclusion  string     `json:"conclusion"`
	Description *string    `json:"description,omitempty"`
	StaffID     *string    `json:"staff_id,omitempty"`
	ResultDate  *time.Time `json:"result_date,omitempty"`
}

// TransitionInput is the body of a transition request.
type TransitionInput struct {
	Target string       `json:"target"`
	Result *ResultInput `json:"result,omitempty"`
}

type Service struct {
	bookings Repository
	kits     KitQuery
	results  ResultRecorder
	staff    StaffPicker
	legacy   StatusPusher
	codec    *status.Codec
	metrics  *metrics.Registry
	logger   zerolog.Logger
}

func NewService(
	bookings Repository,
	kits KitQuery,
	results ResultRecorder,
	staff StaffPicker,
	legacy StatusPusher,
	codec *status.Codec,
	m *metrics.Registry,
	logger zerolog.Logger,
) *Service {
	return &Service{
		bookings: bookings,
		kits:     kits,
		results:  results,
		staff:    staff,
		legacy:   legacy,
		codec:    codec,
		metrics:  m,
		logger:   logger,
	}
}

// CreateBooking registers a booking in the pending state. When no staff
// member is named, the least-loaded active member is assigned.
func (s *Service) CreateBooking(ctx context.Context, b *Booking) error {
	if b.CustomerID == "" {
		return fmt.Errorf("customer_id is required")
	}
	b.Status = status.BookingPending
	if b.StaffID == nil {
		staffID, err := s.staff.PickForBooking(ctx)
		if err != nil {
			return fmt.Errorf("assign staff: %w", err)
		}
		b.StaffID = &staffID
	}
	if err := s.bookings.Create(ctx, b); err != nil {
		return err
	}
	s.logger.Info().
		Str("booking_id", b.BookingID).
		Str("staff_id", *b.StaffID).
		Msg("booking created")
	return nil
}

func (s *Service) GetBooking(ctx context.Context, id uuid.UUID) (*Booking, error) {
	return s.bookings.GetByID(ctx, id)
}

func (s *Service) GetBookingByCode(ctx context.Context, bookingID string) (*Booking, error) {
	return s.bookings.GetByCode(ctx, bookingID)
}

func (s *Service) UpdateBooking(ctx context.Context, b *Booking) error {
	return s.bookings.Update(ctx, b)
}

func (s *Service) DeleteBooking(ctx context.Context, id uuid.UUID) error {
	return s.bookings.Delete(ctx, id)
}

func (s *Service) ListBookings(ctx context.Context, limit, offset int) ([]*Booking, int, error) {
	return s.bookings.List(ctx, limit, offset)
}

func (s *Service) ListBookingsByStaff(ctx context.Context, staffID string, limit, offset int) ([]*Booking, int, error) {
	return s.bookings.ListByStaff(ctx, staffID, limit, offset)
}

// KitState reports the current kit state for a booking.
func (s *Service) KitState(ctx context.Context, bookingID string) (status.State, error) {
	return s.kits.CurrentKitState(ctx, bookingID)
}

// RequestTransition is the sole mutating entry point of the workflow. The
// target may be spelled in any alphabet the codec accepts. Guards run before
// anything is written; the write, the result insert and the legacy mirror
// all happen inside one transaction, so a failure at any point leaves no
// observable intermediate state.
func (s *Service) RequestTransition(ctx context.Context, bookingID string, input TransitionInput) (*Booking, error) {
	b, err := s.bookings.GetByCode(ctx, bookingID)
	if err != nil {
		return nil, fmt.Errorf("load booking %s: %w", bookingID, err)
	}

	target := s.codec.ToInternal(status.KindBooking, input.Target)
	if err := s.checkGuards(ctx, b, target, input); err != nil {
		var gv *GuardViolation
		if errors.As(err, &gv) {
			s.metrics.ObserveGuardRejection(gv.Reason)
			s.metrics.ObserveTransition(string(target), "rejected")
		}
		return nil, err
	}

	raw, err := s.codec.ToBackend(status.KindBooking, target)
	if err != nil {
		return nil, err
	}

	err = s.bookings.InTx(ctx, func(ctx context.Context) error {
		if target == status.BookingCompleted {
			r := &testresult.TestResult{
				BookingID:   b.BookingID,
				StaffID:     input.Result.StaffID,
				Conclusion:  input.Result.Conclusion,
				Description: input.Result.Description,
				ResultDate:  input.Result.ResultDate,
			}
			if r.StaffID == nil {
				r.StaffID = b.StaffID
			}
			if err := s.results.Record(ctx, r); err != nil {
				return fmt.Errorf("record result: %w", err)
			}
		}
		if err := s.bookings.UpdateStatus(ctx, b.ID, target); err != nil {
			return fmt.Errorf("update status: %w", err)
		}
		// Mirror to the legacy backend while the transaction is still
		// open: a terminal push failure rolls everything back.
		if err := s.legacy.PushBookingStatus(ctx, b.BookingID, raw); err != nil {
			return fmt.Errorf("push status to backend: %w", err)
		}
		return nil
	})
	if err != nil {
		s.metrics.ObserveTransition(string(target), "failed")
		return nil, err
	}

	s.metrics.ObserveTransition(string(target), "applied")
	s.logger.Info().
		Str("booking_id", b.BookingID).
		Str("from", string(b.Status)).
		Str("to", string(target)).
		Msg("booking transition applied")
	b.Status = target
	return b, nil
}

// checkGuards validates the edge and its preconditions without mutating
// anything.
func (s *Service) checkGuards(ctx context.Context, b *Booking, target status.State, input TransitionInput) error {
	if err := checkEdge(b.Status, target); err != nil {
		return err
	}

	switch {
	case b.Status == status.BookingPending && target == status.BookingInProgress:
		kitState, err := s.kits.CurrentKitState(ctx, b.BookingID)
		if err != nil {
			if errors.Is(err, kit.ErrNoKit) {
				return &GuardViolation{From: b.Status, Target: target, Reason: ReasonNoKit}
			}
			return err
		}
		if kitState != status.KitExpired {
			return &GuardViolation{From: b.Status, Target: target, Reason: ReasonKitNotArrived}
		}
	case target == status.BookingCompleted:
		if input.Result == nil || input.Result.Conclusion == "" {
			return &GuardViolation{From: b.Status, Target: target, Reason: ReasonResultRequired}
		}
	}
	return nil
}
