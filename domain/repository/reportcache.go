package repository

import (
	"context"

	"clipflow/domain/dto"
)

// IReportCache keeps the most recent publish run report for quick inspection.
type IReportCache interface {
	SetLastRun(ctx context.Context, report *dto.PublishRunReport) error
	GetLastRun(ctx context.Context) (*dto.PublishRunReport, error)
}
