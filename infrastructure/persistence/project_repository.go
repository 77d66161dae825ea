package persistence

import (
	"context"
	"database/sql"

	"clipflow/domain/model"
)

// ProjectRepository implements read access to projects on PostgreSQL
type ProjectRepository struct {
	db *sql.DB
}

func NewProjectRepository(db *sql.DB) *ProjectRepository { return &ProjectRepository{db: db} }

func (r *ProjectRepository) GetByID(ctx context.Context, projectID string) (*model.Project, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, user_id, title, theme, description, platform, duration, created_at, updated_at FROM projects WHERE id=$1`, projectID)
	p := &model.Project{}
	var desc sql.NullString
	var duration sql.NullInt64
	if err := row.Scan(&p.ID, &p.UserID, &p.Title, &p.Theme, &desc, &p.Platform, &duration, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	if desc.Valid {
		p.Description = desc.String
	}
	if duration.Valid {
		p.Duration = int(duration.Int64)
	}
	return p, nil
}
