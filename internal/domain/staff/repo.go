package staff

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, m *Member) error
	GetByID(ctx context.Context, id uuid.UUID) (*Member, error)
	GetByCode(ctx context.Context, staffID string) (*Member, error)
	Update(ctx context.Context, m *Member) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*Member, int, error)

	// ActiveLoads returns one entry per active member with the count of
	// that member's open bookings.
	ActiveLoads(ctx context.Context) ([]Load, error)
}
