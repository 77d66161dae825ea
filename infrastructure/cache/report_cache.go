package cache

import (
	"context"
	"encoding/json"
	"time"

	"clipflow/domain/dto"
	"clipflow/domain/repository"

	"github.com/redis/go-redis/v9"
)

const lastRunKey = "publish:last_run"

// NewCache connects a redis client; callers treat a nil client as "cache off".
func NewCache(ctx context.Context, addr, username, password string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Username: username,
		Password: password,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	return client, nil
}

// ReportCache stores the most recent publish run report in redis
type ReportCache struct {
	client *redis.Client
}

func NewReportCache(client *redis.Client) repository.IReportCache {
	return &ReportCache{client: client}
}

func (c *ReportCache) SetLastRun(ctx context.Context, report *dto.PublishRunReport) error {
	payload, err := json.Marshal(report)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, lastRunKey, payload, 24*time.Hour).Err()
}

func (c *ReportCache) GetLastRun(ctx context.Context) (*dto.PublishRunReport, error) {
	payload, err := c.client.Get(ctx, lastRunKey).Bytes()
	if err != nil {
		return nil, err
	}
	report := &dto.PublishRunReport{}
	if err := json.Unmarshal(payload, report); err != nil {
		return nil, err
	}
	return report, nil
}
