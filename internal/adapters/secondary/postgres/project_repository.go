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

type ProjectRepository struct {
	pool *pgxpool.Pool
}

var _ ports.ProjectRepository = (*ProjectRepository)(nil)

func NewProjectRepository(pool *pgxpool.Pool) ports.ProjectRepository {
	return &ProjectRepository{pool: pool}
}

const projectColumns = `id, name, platform, category, domain, status, description, creator_id, created_at, updated_at`

func scanProject(row pgx.Row) (*domain.Project, error) {
	var (
		project     domain.Project
		platform    pgtype.Text
		category    pgtype.Text
		domainName  pgtype.Text
		description pgtype.Text
		creatorID   pgtype.UUID
		updatedAt   pgtype.Timestamptz
	)
	if err := row.Scan(&project.ID, &project.Name, &platform, &category, &domainName, &project.Status, &description, &creatorID, &project.CreatedAt, &updatedAt); err != nil {
		return nil, err
	}
	project.Platform = utils.FromText(platform)
	project.Category = utils.FromText(category)
	project.Domain = utils.FromText(domainName)
	project.Description = utils.FromText(description)
	project.CreatorID = creatorID.Bytes
	project.UpdatedAt = utils.FromNullTimestamp(updatedAt)
	return &project, nil
}

func (r *ProjectRepository) Create(ctx context.Context, project *domain.Project) (*domain.Project, error) {
	const query = `
INSERT INTO projects (name, platform, category, domain, status, description, creator_id, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING ` + projectColumns

	row := r.pool.QueryRow(ctx, query,
		project.Name,
		utils.ToText(project.Platform),
		utils.ToText(project.Category),
		utils.ToText(project.Domain),
		string(project.Status),
		utils.ToText(project.Description),
		pgtype.UUID{Bytes: project.CreatorID, Valid: true},
		project.CreatedAt,
	)
	return scanProject(row)
}

func (r *ProjectRepository) GetByID(ctx context.Context, id int64) (*domain.Project, error) {
	const query = `SELECT ` + projectColumns + ` FROM projects WHERE id = $1`

	project, err := scanProject(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrProjectNotFound
		}
		return nil, err
	}
	return project, nil
}

func (r *ProjectRepository) Update(ctx context.Context, project *domain.Project) (*domain.Project, error) {
	const query = `
UPDATE projects
SET name = $2, platform = $3, category = $4, domain = $5, status = $6, description = $7, updated_at = NOW()
WHERE id = $1
RETURNING ` + projectColumns

	row := r.pool.QueryRow(ctx, query,
		project.ID,
		project.Name,
		utils.ToText(project.Platform),
		utils.ToText(project.Category),
		utils.ToText(project.Domain),
		string(project.Status),
		utils.ToText(project.Description),
	)

	updated, err := scanProject(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrProjectNotFound
		}
		return nil, err
	}
	return updated, nil
}

func (r *ProjectRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrProjectNotFound
	}
	return nil
}

func (r *ProjectRepository) ListPaginated(ctx context.Context, params ports.ListProjectsRepoParams) ([]*domain.Project, error) {
	// NULL filter params match everything; search covers name and domain.
	const query = `
SELECT ` + projectColumns + `
FROM projects
WHERE ($3::text IS NULL OR name ILIKE '%' || $3 || '%' OR domain ILIKE '%' || $3 || '%')
  AND ($4::text IS NULL OR platform = $4)
  AND ($5::text IS NULL OR category = $5)
  AND ($6::text IS NULL OR status = $6)
ORDER BY name
LIMIT $1 OFFSET $2`

	rows, err := r.pool.Query(ctx, query,
		params.Limit,
		params.Offset,
		params.Search,
		params.Platform,
		params.Category,
		params.Status,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	projects := make([]*domain.Project, 0)
	for rows.Next() {
		project, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, project)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return projects, nil
}

func (r *ProjectRepository) DistinctPlatforms(ctx context.Context) ([]string, error) {
	return r.distinctValues(ctx, `SELECT DISTINCT platform FROM projects WHERE platform IS NOT NULL ORDER BY platform`)
}

func (r *ProjectRepository) DistinctCategories(ctx context.Context) ([]string, error) {
	return r.distinctValues(ctx, `SELECT DISTINCT category FROM projects WHERE category IS NOT NULL ORDER BY category`)
}

func (r *ProjectRepository) distinctValues(ctx context.Context, query string) ([]string, error) {
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	values := make([]string, 0)
	for rows.Next() {
		var value string
		if err := rows.Scan(&value); err != nil {
			return nil, err
		}
		values = append(values, value)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return values, nil
}
