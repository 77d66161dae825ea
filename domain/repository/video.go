package repository

import (
	"context"
	"time"

	"clipflow/domain/model"
)

// IVideo defines the durable store operations the orchestrator and the
// generation flow consume.
type IVideo interface {
	// ClaimDue atomically moves up to limit due videos from scheduled to
	// publishing and returns them with their owning project joined in.
	// Overlapping runs never receive the same video twice.
	ClaimDue(ctx context.Context, now time.Time, limit int) ([]*model.Video, error)

	// MarkPublished finishes a claimed video: status published, publishedAt,
	// and a metadata merge that keeps keys the orchestrator does not own.
	MarkPublished(ctx context.Context, videoID string, publishedAt time.Time, meta *model.VideoMetadata) error

	// MarkFailed finishes a claimed video with a failure reason.
	MarkFailed(ctx context.Context, videoID string, errorMessage string) error

	// ReclaimStale returns videos stuck in publishing since before the cutoff
	// to scheduled, so a crashed or cancelled run cannot strand them.
	ReclaimStale(ctx context.Context, before time.Time) (int64, error)

	GetByID(ctx context.Context, videoID string) (*model.Video, error)
	Create(ctx context.Context, video *model.Video) error
	UpdateScript(ctx context.Context, videoID, script string) error
}
