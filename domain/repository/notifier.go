package repository

import "context"

// IPublishNotifier announces terminal video states to interested consumers.
// Delivery is best-effort; the orchestrator never fails a video on a
// notification error.
type IPublishNotifier interface {
	NotifyPublished(ctx context.Context, payload []byte) error
}
