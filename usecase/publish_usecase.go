package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"clipflow/domain/dto"
	"clipflow/domain/model"
	"clipflow/domain/repository"
	"clipflow/infrastructure/logger"
)

// noConnectionsMessage is the terminal failure recorded when a due video's
// owner has no active platform connections at all.
const noConnectionsMessage = "no platform connections configured"

// staleClaimAge is how long a video may sit in publishing before a later run
// treats the claim as abandoned and returns it to scheduled.
const staleClaimAge = 15 * time.Minute

// terminalWriteTimeout bounds the detached status writes below.
const terminalWriteTimeout = 15 * time.Second

// terminalContext detaches a status write from the run context. A cancelled
// run must still be able to move its claimed videos out of publishing.
func terminalContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), terminalWriteTimeout)
}

type IPublishUsecase interface {
	// RunOnce executes one publish pass: claim due videos, fan out to the
	// connected platforms, and persist terminal states. The returned error
	// covers only the claim step; per-video failures land in the report.
	RunOnce(ctx context.Context) (*dto.PublishRunReport, error)
}

type PublishUsecase struct {
	videoRepository      repository.IVideo
	connectionRepository repository.IConnection
	credentials          ICredentialUsecase
	publishers           map[string]repository.IPlatformPublisher
	reportCache          repository.IReportCache
	notifier             repository.IPublishNotifier
	batchSize            int
	workers              int
	now                  func() time.Time
}

func NewPublishUsecase(
	videoRepository repository.IVideo,
	connectionRepository repository.IConnection,
	credentials ICredentialUsecase,
	publishers []repository.IPlatformPublisher,
	batchSize int,
	workers int,
) *PublishUsecase {
	registry := make(map[string]repository.IPlatformPublisher, len(publishers))
	for _, p := range publishers {
		registry[p.Platform()] = p
	}
	if batchSize <= 0 {
		batchSize = 50
	}
	if workers <= 0 {
		workers = 1
	}
	return &PublishUsecase{
		videoRepository:      videoRepository,
		connectionRepository: connectionRepository,
		credentials:          credentials,
		publishers:           registry,
		batchSize:            batchSize,
		workers:              workers,
		now:                  time.Now,
	}
}

// WithReportCache stores each run report for the last-run endpoint. Optional.
func (u *PublishUsecase) WithReportCache(cache repository.IReportCache) *PublishUsecase {
	u.reportCache = cache
	return u
}

// WithNotifier publishes an event per finished video. Optional.
func (u *PublishUsecase) WithNotifier(notifier repository.IPublishNotifier) *PublishUsecase {
	u.notifier = notifier
	return u
}

func (u *PublishUsecase) WithClock(now func() time.Time) *PublishUsecase {
	u.now = now
	return u
}

func (u *PublishUsecase) RunOnce(ctx context.Context) (*dto.PublishRunReport, error) {
	startedAt := u.now()
	if n, err := u.videoRepository.ReclaimStale(ctx, startedAt.Add(-staleClaimAge)); err != nil {
		logger.GetLogger().WithField("error", err).Warn("Failed to reclaim stale publishing claims")
	} else if n > 0 {
		logger.GetLogger().WithField("count", n).Warn("Reclaimed videos stuck in publishing")
	}

	videos, err := u.videoRepository.ClaimDue(ctx, startedAt, u.batchSize)
	if err != nil {
		return nil, fmt.Errorf("failed to claim due videos: %w", err)
	}
	logger.GetLogger().WithField("count", len(videos)).Info("Claimed due videos")

	results := make([]dto.PublishVideoResult, len(videos))
	g := &errgroup.Group{}
	g.SetLimit(u.workers)
	for i, video := range videos {
		i, video := i, video
		g.Go(func() error {
			defer func() {
				if r := recover(); r != nil {
					logger.GetLogger().WithField("video_id", video.ID).WithField("panic", r).Error("Publish worker panicked")
					message := fmt.Sprintf("internal error: %v", r)
					writeCtx, cancelWrite := terminalContext(ctx)
					defer cancelWrite()
					if err := u.videoRepository.MarkFailed(writeCtx, video.ID, message); err != nil {
						logger.GetLogger().WithField("video_id", video.ID).WithField("error", err).Error("Failed to mark panicked video failed")
					}
					results[i] = dto.PublishVideoResult{VideoID: video.ID, Status: model.VideoStatusFailed, Error: message}
				}
			}()
			results[i] = u.processVideo(ctx, video)
			return nil
		})
	}
	_ = g.Wait()

	report := &dto.PublishRunReport{
		Processed:  len(videos),
		Results:    results,
		StartedAt:  startedAt,
		FinishedAt: u.now(),
	}
	if u.reportCache != nil {
		if err := u.reportCache.SetLastRun(ctx, report); err != nil {
			logger.GetLogger().WithField("error", err).Warn("Failed to cache run report")
		}
	}
	return report, nil
}

// processVideo owns one claimed video from connections lookup to terminal
// state. Every exit path moves the video out of publishing.
func (u *PublishUsecase) processVideo(ctx context.Context, video *model.Video) dto.PublishVideoResult {
	connections, err := u.connectionRepository.GetActiveByUser(ctx, video.Project.UserID)
	if err != nil {
		return u.failVideo(ctx, video, fmt.Sprintf("failed to load platform connections: %v", err))
	}
	if len(connections) == 0 {
		return u.failVideo(ctx, video, noConnectionsMessage)
	}
	byPlatform := make(map[string]*model.PlatformConnection, len(connections))
	for _, conn := range connections {
		byPlatform[conn.Platform] = conn
	}

	captionSource := video.Script
	if captionSource == "" {
		captionSource = video.Project.Title
	}
	hashtags := DeriveHashtags(captionSource, video.Project.Theme)

	// Platform attempts run concurrently; outcome order follows the video's
	// platform list so reports stay stable.
	outcomes := make([]model.PublishOutcome, len(video.Platforms))
	var wg sync.WaitGroup
	for i, platform := range video.Platforms {
		i, platform := i, platform
		wg.Add(1)
		go func() {
			defer wg.Done()
			outcomes[i] = u.publishToPlatform(ctx, video, platform, byPlatform[platform], hashtags)
		}()
	}
	wg.Wait()

	revenue := make(map[string]float64, len(outcomes))
	for _, outcome := range outcomes {
		revenue[outcome.Platform] = EstimateRevenue(outcome)
	}

	meta := video.Metadata
	if meta == nil {
		meta = &model.VideoMetadata{}
	}
	meta.Merge(outcomes, revenue, hashtags)

	publishedAt := u.now()
	writeCtx, cancelWrite := terminalContext(ctx)
	defer cancelWrite()
	if err := u.videoRepository.MarkPublished(writeCtx, video.ID, publishedAt, meta); err != nil {
		return u.failVideo(ctx, video, fmt.Sprintf("failed to persist publish results: %v", err))
	}
	u.notify(ctx, video.ID, model.VideoStatusPublished, outcomes)

	return dto.PublishVideoResult{
		VideoID:   video.ID,
		Status:    model.VideoStatusPublished,
		Platforms: outcomes,
	}
}

func (u *PublishUsecase) publishToPlatform(ctx context.Context, video *model.Video, platform string, conn *model.PlatformConnection, hashtags []string) model.PublishOutcome {
	if conn == nil {
		return model.PublishOutcome{Platform: platform, Status: model.OutcomeSkipped, Reason: "not connected"}
	}
	publisher, ok := u.publishers[platform]
	if !ok {
		return model.PublishOutcome{Platform: platform, Status: model.OutcomeFailed, Error: "unsupported platform"}
	}
	if video.VideoURL == "" {
		return model.PublishOutcome{Platform: platform, Status: model.OutcomeFailed, Error: "video has no media URL"}
	}

	req := &dto.PublishRequest{
		VideoURL:    video.VideoURL,
		Title:       video.Project.Title,
		Caption:     video.Script,
		Hashtags:    hashtags,
		AccessToken: u.credentials.EnsureValidAccessToken(ctx, conn),
	}
	if req.Caption == "" {
		req.Caption = video.Project.Theme
	}
	if conn.AccountID != nil {
		req.AccountID = *conn.AccountID
	}

	outcome := publisher.Publish(ctx, req)
	if outcome.Success() {
		logger.GetLogger().WithField("video_id", video.ID).WithField("platform", platform).Info("Published video")
	} else {
		logger.GetLogger().WithField("video_id", video.ID).WithField("platform", platform).WithField("error", outcome.Error).Warn("Platform publish did not succeed")
	}
	return outcome
}

func (u *PublishUsecase) failVideo(ctx context.Context, video *model.Video, message string) dto.PublishVideoResult {
	writeCtx, cancelWrite := terminalContext(ctx)
	defer cancelWrite()
	if err := u.videoRepository.MarkFailed(writeCtx, video.ID, message); err != nil {
		logger.GetLogger().WithField("video_id", video.ID).WithField("error", err).Error("Failed to mark video failed")
	}
	u.notify(ctx, video.ID, model.VideoStatusFailed, nil)
	return dto.PublishVideoResult{VideoID: video.ID, Status: model.VideoStatusFailed, Error: message}
}

func (u *PublishUsecase) notify(ctx context.Context, videoID, status string, outcomes []model.PublishOutcome) {
	if u.notifier == nil {
		return
	}
	payload, err := json.Marshal(map[string]interface{}{
		"video_id":  videoID,
		"status":    status,
		"platforms": outcomes,
		"at":        u.now(),
	})
	if err != nil {
		return
	}
	if err := u.notifier.NotifyPublished(ctx, payload); err != nil {
		logger.GetLogger().WithField("video_id", videoID).WithField("error", err).Warn("Failed to publish video event")
	}
}
