package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hijibiji-app/opencrm/internal/core/domain"
	apperrors "github.com/hijibiji-app/opencrm/internal/core/errors"
	"github.com/hijibiji-app/opencrm/internal/core/ports"
	"github.com/hijibiji-app/opencrm/internal/core/utils"
)

type ReelRepository struct {
	pool *pgxpool.Pool
}

var _ ports.ReelRepository = (*ReelRepository)(nil)

func NewReelRepository(pool *pgxpool.Pool) ports.ReelRepository {
	return &ReelRepository{pool: pool}
}

const reelColumns = `id, author_id, type, caption, content, file_path, created_at`

func scanReel(row pgx.Row) (*domain.Reel, error) {
	var (
		reel     domain.Reel
		authorID pgtype.UUID
		caption  pgtype.Text
		content  pgtype.Text
		filePath pgtype.Text
	)
	if err := row.Scan(&reel.ID, &authorID, &reel.Type, &caption, &content, &filePath, &reel.CreatedAt); err != nil {
		return nil, err
	}
	reel.AuthorID = authorID.Bytes
	reel.Caption = utils.FromText(caption)
	reel.Content = utils.FromText(content)
	reel.FilePath = utils.FromText(filePath)
	return &reel, nil
}

func (r *ReelRepository) Create(ctx context.Context, reel *domain.Reel) (*domain.Reel, error) {
	const query = `
INSERT INTO reels (author_id, type, caption, content, file_path, created_at)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING ` + reelColumns

	row := r.pool.QueryRow(ctx, query,
		pgtype.UUID{Bytes: reel.AuthorID, Valid: true},
		string(reel.Type),
		utils.ToText(reel.Caption),
		utils.ToText(reel.Content),
		utils.ToText(reel.FilePath),
		reel.CreatedAt,
	)
	return scanReel(row)
}

func (r *ReelRepository) GetByID(ctx context.Context, id int64) (*domain.Reel, error) {
	const query = `SELECT ` + reelColumns + ` FROM reels WHERE id = $1`

	reel, err := scanReel(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrReelNotFound
		}
		return nil, err
	}
	return reel, nil
}

func (r *ReelRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM reels WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrReelNotFound
	}
	return nil
}

func (r *ReelRepository) ListPaginated(ctx context.Context, limit, offset int32) ([]*domain.Reel, error) {
	const query = `SELECT ` + reelColumns + ` FROM reels ORDER BY created_at DESC, id DESC LIMIT $1 OFFSET $2`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reels := make([]*domain.Reel, 0)
	for rows.Next() {
		reel, err := scanReel(rows)
		if err != nil {
			return nil, err
		}
		reels = append(reels, reel)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return reels, nil
}
