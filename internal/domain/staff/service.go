package staff

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

type Service struct {
	staff Repository
	alloc *Allocator
}

func NewService(staff Repository, alloc *Allocator) *Service {
	return &Service{staff: staff, alloc: alloc}
}

func (s *Service) CreateMember(ctx context.Context, m *Member) error {
	if m.FullName == "" {
		return fmt.Errorf("full_name is required")
	}
	return s.staff.Create(ctx, m)
}

func (s *Service) GetMember(ctx context.Context, id uuid.UUID) (*Member, error) {
	return s.staff.GetByID(ctx, id)
}

func (s *Service) GetMemberByCode(ctx context.Context, staffID string) (*Member, error) {
	return s.staff.GetByCode(ctx, staffID)
}

func (s *Service) UpdateMember(ctx context.Context, m *Member) error {
	if m.FullName == "" {
		return fmt.Errorf("full_name is required")
	}
	return s.staff.Update(ctx, m)
}

func (s *Service) DeleteMember(ctx context.Context, id uuid.UUID) error {
	return s.staff.Delete(ctx, id)
}

func (s *Service) ListMembers(ctx context.Context, limit, offset int) ([]*Member, int, error) {
	return s.staff.List(ctx, limit, offset)
}

// MemberLoad returns the open-booking count for one member.
func (s *Service) MemberLoad(ctx context.Context, staffID string) (Load, error) {
	loads, err := s.staff.ActiveLoads(ctx)
	if err != nil {
		return Load{}, err
	}
	for _, l := range loads {
		if l.StaffID == staffID {
			return l, nil
		}
	}
	return Load{}, fmt.Errorf("staff member %s not found or inactive", staffID)
}

// PickForBooking snapshots current loads and picks the least-loaded active
// member. Called once at booking creation; nothing is reserved, so the
// assignment must be persisted in the same transaction as the booking.
func (s *Service) PickForBooking(ctx context.Context) (string, error) {
	loads, err := s.staff.ActiveLoads(ctx)
	if err != nil {
		return "", fmt.Errorf("snapshot staff loads: %w", err)
	}
	return s.alloc.Choose(loads)
}
