package testresult

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, r *TestResult) error
	GetByID(ctx context.Context, id uuid.UUID) (*TestResult, error)
	GetByBookingID(ctx context.Context, bookingID string) (*TestResult, error)
	List(ctx context.Context, limit, offset int) ([]*TestResult, int, error)
}
