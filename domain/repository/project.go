package repository

import (
	"context"

	"clipflow/domain/model"
)

// IProject reads project definitions for the generation flow
type IProject interface {
	GetByID(ctx context.Context, projectID string) (*model.Project, error)
}
