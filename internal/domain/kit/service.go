package kit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/genelab/genelab/internal/platform/status"
)

// ErrNoKit is returned when no kit is registered for a booking.
var ErrNoKit = errors.New("no kit registered for booking")

type Service struct {
	kits  Repository
	codec *status.Codec
}

func NewService(kits Repository, codec *status.Codec) *Service {
	return &Service{kits: kits, codec: codec}
}

// RegisterKit records a sample kit, normalizing whatever status string the
// caller supplied into an internal state.
func (s *Service) RegisterKit(ctx context.Context, k *Kit) error {
	k.Status = s.codec.ToInternal(status.KindKit, string(k.Status))
	return s.kits.Create(ctx, k)
}

func (s *Service) GetKit(ctx context.Context, id uuid.UUID) (*Kit, error) {
	return s.kits.GetByID(ctx, id)
}

func (s *Service) GetKitByCode(ctx context.Context, kitID string) (*Kit, error) {
	return s.kits.GetByCode(ctx, kitID)
}

func (s *Service) UpdateKit(ctx context.Context, k *Kit) error {
	return s.kits.Update(ctx, k)
}

func (s *Service) DeleteKit(ctx context.Context, id uuid.UUID) error {
	return s.kits.Delete(ctx, id)
}

func (s *Service) ListKits(ctx context.Context, limit, offset int) ([]*Kit, int, error) {
	return s.kits.List(ctx, limit, offset)
}

// CurrentKitState answers the one question the booking workflow asks.
func (s *Service) CurrentKitState(ctx context.Context, bookingID string) (status.State, error) {
	k, err := s.kits.GetByBookingID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrNoKit
		}
		return "", fmt.Errorf("look up kit for booking %s: %w", bookingID, err)
	}
	return k.Status, nil
}

// UpdateKitState applies a staff-driven transition after validating it
// against the lifecycle. Moving into expired stamps the received time.
func (s *Service) UpdateKitState(ctx context.Context, id uuid.UUID, raw string) (*Kit, error) {
	k, err := s.kits.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	target := s.codec.ToInternal(status.KindKit, raw)
	if err := CheckTransition(k.Status, target); err != nil {
		return nil, err
	}
	var receivedAt *time.Time
	if target == status.KitExpired && k.ReceivedAt == nil {
		now := time.Now().UTC()
		receivedAt = &now
	}
	if err := s.kits.UpdateStatus(ctx, id, target, receivedAt); err != nil {
		return nil, err
	}
	k.Status = target
	if receivedAt != nil {
		k.ReceivedAt = receivedAt
	}
	return k, nil
}
