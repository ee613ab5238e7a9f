package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hijibiji-app/opencrm/internal/core/domain"
	apperrors "github.com/hijibiji-app/opencrm/internal/core/errors"
	"github.com/hijibiji-app/opencrm/internal/core/ports"
	"github.com/hijibiji-app/opencrm/internal/core/utils"
)

type TeamRepository struct {
	pool *pgxpool.Pool
}

var _ ports.TeamRepository = (*TeamRepository)(nil)

func NewTeamRepository(pool *pgxpool.Pool) ports.TeamRepository {
	return &TeamRepository{pool: pool}
}

const teamColumns = `id, name, slug, description, logo_path, owner_id, created_at, updated_at`

func scanTeam(row pgx.Row) (*domain.Team, error) {
	var (
		team        domain.Team
		description pgtype.Text
		logoPath    pgtype.Text
		ownerID     pgtype.UUID
		updatedAt   pgtype.Timestamptz
	)
	if err := row.Scan(&team.ID, &team.Name, &team.Slug, &description, &logoPath, &ownerID, &team.CreatedAt, &updatedAt); err != nil {
		return nil, err
	}
	team.Description = utils.FromText(description)
	team.LogoPath = utils.FromText(logoPath)
	team.OwnerID = ownerID.Bytes
	team.UpdatedAt = utils.FromNullTimestamp(updatedAt)
	return &team, nil
}

func (r *TeamRepository) Create(ctx context.Context, team *domain.Team) (*domain.Team, error) {
	const query = `
INSERT INTO teams (name, slug, description, logo_path, owner_id, created_at)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING ` + teamColumns

	row := r.pool.QueryRow(ctx, query,
		team.Name,
		team.Slug,
		utils.ToText(team.Description),
		utils.ToText(team.LogoPath),
		pgtype.UUID{Bytes: team.OwnerID, Valid: true},
		team.CreatedAt,
	)

	created, err := scanTeam(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return nil, apperrors.ErrSlugTaken
		}
		return nil, err
	}
	return created, nil
}

func (r *TeamRepository) GetByID(ctx context.Context, id int64) (*domain.Team, error) {
	const query = `SELECT ` + teamColumns + ` FROM teams WHERE id = $1`

	team, err := scanTeam(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrTeamNotFound
		}
		return nil, err
	}
	return team, nil
}

func (r *TeamRepository) GetBySlug(ctx context.Context, slug string) (*domain.Team, error) {
	const query = `SELECT ` + teamColumns + ` FROM teams WHERE slug = $1`

	team, err := scanTeam(r.pool.QueryRow(ctx, query, slug))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrTeamNotFound
		}
		return nil, err
	}
	return team, nil
}

func (r *TeamRepository) Update(ctx context.Context, team *domain.Team) (*domain.Team, error) {
	const query = `
UPDATE teams
SET name = $2, slug = $3, description = $4, logo_path = $5, updated_at = NOW()
WHERE id = $1
RETURNING ` + teamColumns

	row := r.pool.QueryRow(ctx, query,
		team.ID,
		team.Name,
		team.Slug,
		utils.ToText(team.Description),
		utils.ToText(team.LogoPath),
	)

	updated, err := scanTeam(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrTeamNotFound
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return nil, apperrors.ErrSlugTaken
		}
		return nil, err
	}
	return updated, nil
}

func (r *TeamRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM teams WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrTeamNotFound
	}
	return nil
}

func (r *TeamRepository) ListPaginated(ctx context.Context, limit, offset int32) ([]*domain.Team, error) {
	const query = `SELECT ` + teamColumns + ` FROM teams ORDER BY name LIMIT $1 OFFSET $2`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	teams := make([]*domain.Team, 0)
	for rows.Next() {
		team, err := scanTeam(rows)
		if err != nil {
			return nil, err
		}
		teams = append(teams, team)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return teams, nil
}

func (r *TeamRepository) AddMember(ctx context.Context, teamID int64, userID uuid.UUID, role domain.TeamMemberRole) error {
	const query = `
INSERT INTO team_members (team_id, user_id, role, joined_at)
VALUES ($1, $2, $3, NOW())`

	_, err := r.pool.Exec(ctx, query, teamID, pgtype.UUID{Bytes: userID, Valid: true}, string(role))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return apperrors.ErrAlreadyMember
		}
		return err
	}
	return nil
}

func (r *TeamRepository) UpdateMemberRole(ctx context.Context, teamID int64, userID uuid.UUID, role domain.TeamMemberRole) error {
	const query = `UPDATE team_members SET role = $3 WHERE team_id = $1 AND user_id = $2`

	tag, err := r.pool.Exec(ctx, query, teamID, pgtype.UUID{Bytes: userID, Valid: true}, string(role))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotMember
	}
	return nil
}

func (r *TeamRepository) RemoveMember(ctx context.Context, teamID int64, userID uuid.UUID) error {
	const query = `DELETE FROM team_members WHERE team_id = $1 AND user_id = $2`

	tag, err := r.pool.Exec(ctx, query, teamID, pgtype.UUID{Bytes: userID, Valid: true})
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotMember
	}
	return nil
}

func (r *TeamRepository) GetMember(ctx context.Context, teamID int64, userID uuid.UUID) (*domain.TeamMember, error) {
	const query = `
SELECT tm.team_id, tm.user_id, u.full_name, u.email, tm.role, tm.joined_at
FROM team_members tm
JOIN users u ON tm.user_id = u.id
WHERE tm.team_id = $1 AND tm.user_id = $2`

	member, err := scanMember(r.pool.QueryRow(ctx, query, teamID, pgtype.UUID{Bytes: userID, Valid: true}))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotMember
		}
		return nil, err
	}
	return member, nil
}

func (r *TeamRepository) ListMembers(ctx context.Context, teamID int64) ([]*domain.TeamMember, error) {
	const query = `
SELECT tm.team_id, tm.user_id, u.full_name, u.email, tm.role, tm.joined_at
FROM team_members tm
JOIN users u ON tm.user_id = u.id
WHERE tm.team_id = $1
ORDER BY tm.joined_at, u.full_name`

	rows, err := r.pool.Query(ctx, query, teamID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	members := make([]*domain.TeamMember, 0)
	for rows.Next() {
		member, err := scanMember(rows)
		if err != nil {
			return nil, err
		}
		members = append(members, member)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return members, nil
}

func scanMember(row pgx.Row) (*domain.TeamMember, error) {
	var (
		member domain.TeamMember
		userID pgtype.UUID
	)
	if err := row.Scan(&member.TeamID, &userID, &member.FullName, &member.Email, &member.Role, &member.JoinedAt); err != nil {
		return nil, err
	}
	member.UserID = userID.Bytes
	return &member, nil
}
