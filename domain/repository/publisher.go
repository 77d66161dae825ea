package repository

import (
	"context"

	"clipflow/domain/dto"
	"clipflow/domain/model"
)

// IPlatformPublisher encapsulates one platform's upload protocol. Publish
// never lets an error escape; every failure comes back inside the outcome so
// the orchestrator can aggregate partial results.
type IPlatformPublisher interface {
	Platform() string
	Publish(ctx context.Context, req *dto.PublishRequest) model.PublishOutcome
}
