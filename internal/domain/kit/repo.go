package kit

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/genelab/genelab/internal/platform/status"
)

type Repository interface {
	Create(ctx context.Context, k *Kit) error
	GetByID(ctx context.Context, id uuid.UUID) (*Kit, error)
	GetByCode(ctx context.Context, kitID string) (*Kit, error)
	GetByBookingID(ctx context.Context, bookingID string) (*Kit, error)
	Update(ctx context.Context, k *Kit) error
	UpdateStatus(ctx context.Context, id uuid.UUID, next status.State, receivedAt *time.Time) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*Kit, int, error)
}
