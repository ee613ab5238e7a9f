package domain

import (
	"time"

	"github.com/google/uuid"

	apperrors "github.com/hijibiji-app/opencrm/internal/core/errors"
)

// ReelType classifies a reel post.
type ReelType string

const (
	ReelVideo ReelType = "video"
	ReelImage ReelType = "image"
	ReelText  ReelType = "text"
)

const MaxCaptionLength = 255

// Reel is a short media or text post shared inside the company.
type Reel struct {
	ID        int64
	AuthorID  uuid.UUID
	Type      ReelType
	Caption   string
	Content   string
	FilePath  string
	CreatedAt time.Time
}

// NewReel validates and builds a new reel post.
func NewReel(authorID uuid.UUID, reelType ReelType, caption, content, filePath string) (*Reel, error) {
	switch reelType {
	case ReelVideo, ReelImage, ReelText:
	default:
		return nil, apperrors.ErrInvalidReelType
	}
	if len(caption) > MaxCaptionLength {
		return nil, apperrors.ErrBadRequest
	}

	return &Reel{
		AuthorID:  authorID,
		Type:      reelType,
		Caption:   caption,
		Content:   content,
		FilePath:  filePath,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// CanBeDeletedBy reports whether the user may delete the reel: its author or
// an application admin.
func (r *Reel) CanBeDeletedBy(user *User) bool {
	return r.AuthorID == user.ID || user.IsAdmin()
}
