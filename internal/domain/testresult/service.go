package testresult

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

type Service struct {
	results Repository
}

func NewService(results Repository) *Service {
	return &Service{results: results}
}

// Record persists a result. Called by the booking workflow inside its
// completion transaction; never exposed as a write endpoint.
func (s *Service) Record(ctx context.Context, r *TestResult) error {
	if r.BookingID == "" {
		return fmt.Errorf("booking_id is required")
	}
	if r.Conclusion == "" {
		return fmt.Errorf("conclusion is required")
	}
	return s.results.Create(ctx, r)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*TestResult, error) {
	return s.results.GetByID(ctx, id)
}

func (s *Service) GetByBooking(ctx context.Context, bookingID string) (*TestResult, error) {
	return s.results.GetByBookingID(ctx, bookingID)
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]*TestResult, int, error) {
	return s.results.List(ctx, limit, offset)
}
