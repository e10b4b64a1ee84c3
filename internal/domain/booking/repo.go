package booking

import (
	"context"

	"github.com/google/uuid"

	"github.com/genelab/genelab/internal/platform/status"
)

type Repository interface {
	Create(ctx context.Context, b *Booking) error
	GetByID(ctx context.Context, id uuid.UUID) (*Booking, error)
	GetByCode(ctx context.Context, bookingID string) (*Booking, error)
	Update(ctx context.Context, b *Booking) error
	UpdateStatus(ctx context.Context, id uuid.UUID, next status.State) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*Booking, int, error)
	ListByStaff(ctx context.Context, staffID string, limit, offset int) ([]*Booking, int, error)

	// InTx runs fn inside one transaction. Repository calls made with the
	// context fn receives join that transaction.
	InTx(ctx context.Context, fn func(ctx context.Context) error) error
}
