package pubsub

import (
	"context"

	"clipflow/domain/repository"
	"clipflow/infrastructure/logger"

	"cloud.google.com/go/pubsub"
)

// NewPubSub instantiates the Pub/Sub client for the configured project
func NewPubSub(ctx context.Context, projectID string) (*pubsub.Client, error) {
	return pubsub.NewClient(ctx, projectID)
}

// PublishNotifier emits a message per terminally-processed video so
// downstream consumers (analytics, notifications) can react.
type PublishNotifier struct {
	client *pubsub.Client
	topic  string
}

func NewPublishNotifier(client *pubsub.Client, topic string) repository.IPublishNotifier {
	return &PublishNotifier{client: client, topic: topic}
}

func (n *PublishNotifier) NotifyPublished(ctx context.Context, payload []byte) error {
	topic := n.client.Topic(n.topic)

	exists, err := topic.Exists(ctx)
	if err != nil {
		return err
	}
	if !exists {
		if _, err = n.client.CreateTopic(ctx, n.topic); err != nil {
			return err
		}
	}

	serverID, err := topic.Publish(ctx, &pubsub.Message{Data: payload}).Get(ctx)
	if err != nil {
		return err
	}
	logger.GetLogger().WithField("server ID", serverID).Debug("Publish event emitted")
	return nil
}
