package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/hijibiji-app/opencrm/internal/core/domain"
	apperrors "github.com/hijibiji-app/opencrm/internal/core/errors"
	"github.com/hijibiji-app/opencrm/internal/core/ports"
)

// ReelService implements the internal reel feed.
type ReelService struct {
	reels ports.ReelRepository
	users ports.UserRepository
}

var _ ports.ReelService = (*ReelService)(nil)

// NewReelService creates a new reel service.
func NewReelService(reels ports.ReelRepository, users ports.UserRepository) *ReelService {
	return &ReelService{reels: reels, users: users}
}

// CreateReel posts a new reel.
func (s *ReelService) CreateReel(ctx context.Context, params ports.CreateReelParams) (*domain.Reel, error) {
	reel, err := domain.NewReel(params.ActorID, params.Type, params.Caption, params.Content, params.FilePath)
	if err != nil {
		return nil, err
	}
	return s.reels.Create(ctx, reel)
}

// ListReels returns the feed, newest first.
func (s *ReelService) ListReels(ctx context.Context, limit, offset int) ([]*domain.Reel, error) {
	return s.reels.ListPaginated(ctx, int32(limit), int32(offset))
}

// DeleteReel removes a reel if the actor is its author or an admin.
func (s *ReelService) DeleteReel(ctx context.Context, reelID int64, actorID uuid.UUID) error {
	reel, err := s.reels.GetByID(ctx, reelID)
	if err != nil {
		return err
	}

	actor, err := s.users.GetByID(ctx, actorID)
	if err != nil {
		return err
	}

	if !reel.CanBeDeletedBy(actor) {
		return apperrors.ErrForbidden
	}
	return s.reels.Delete(ctx, reelID)
}
