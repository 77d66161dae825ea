package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"clipflow/domain/dto"
	"clipflow/domain/model"
	"clipflow/domain/repository"
	"clipflow/infrastructure/logger"
)

const defaultGenerateCount = 10

// scheduleSpreadHours spaces generated videos across the day so the
// orchestrator does not publish a whole batch at once.
const scheduleSpreadHours = 2.4

type IGenerateUsecase interface {
	// GenerateVideos creates count scheduled videos for a project, each with a
	// generated script and a staggered publish time.
	GenerateVideos(ctx context.Context, projectID string, count int) (*dto.GenerateVideosResponse, error)

	// AdjustScript rewrites one video's script following the user's request.
	AdjustScript(ctx context.Context, videoID, userRequest string) (*dto.AdjustScriptResponse, error)
}

type GenerateUsecase struct {
	videoRepository   repository.IVideo
	projectRepository repository.IProject
	scriptGenerator   repository.IScriptGenerator
	now               func() time.Time
}

func NewGenerateUsecase(videoRepository repository.IVideo, projectRepository repository.IProject, scriptGenerator repository.IScriptGenerator) IGenerateUsecase {
	return &GenerateUsecase{
		videoRepository:   videoRepository,
		projectRepository: projectRepository,
		scriptGenerator:   scriptGenerator,
		now:               time.Now,
	}
}

func (u *GenerateUsecase) WithClock(now func() time.Time) *GenerateUsecase {
	u.now = now
	return u
}

// platformTargets maps a project's configured platform choice to the concrete
// platforms each of its videos is scheduled for. YouTube rides along on every
// choice since Shorts accept any vertical video.
func platformTargets(projectPlatform string) []string {
	switch projectPlatform {
	case model.PlatformTikTok:
		return []string{model.PlatformTikTok, model.PlatformYouTube}
	case model.PlatformInstagram:
		return []string{model.PlatformInstagram, model.PlatformYouTube}
	default:
		return []string{model.PlatformTikTok, model.PlatformInstagram, model.PlatformYouTube}
	}
}

func (u *GenerateUsecase) GenerateVideos(ctx context.Context, projectID string, count int) (*dto.GenerateVideosResponse, error) {
	project, err := u.projectRepository.GetByID(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to load project: %w", err)
	}
	if count <= 0 {
		count = defaultGenerateCount
	}

	targets := platformTargets(project.Platform)
	now := u.now()
	created := 0
	for i := 0; i < count; i++ {
		script, err := u.scriptGenerator.Complete(ctx, scriptPrompt(project, i+1, count))
		if err != nil {
			logger.GetLogger().WithField("project_id", projectID).WithField("video_number", i+1).WithField("error", err).Error("Script generation failed; skipping video")
			continue
		}
		script = strings.TrimSpace(script)

		scheduledFor := now.Add(time.Duration(int(float64(i)*scheduleSpreadHours)) * time.Hour)
		generatedAt := now
		video := &model.Video{
			ProjectID:    project.ID,
			Script:       script,
			Platforms:    targets,
			Status:       model.VideoStatusScheduled,
			ScheduledFor: &scheduledFor,
			Metadata: &model.VideoMetadata{
				VideoNumber: i + 1,
				TotalVideos: count,
				GeneratedAt: &generatedAt,
			},
		}
		if err := u.videoRepository.Create(ctx, video); err != nil {
			logger.GetLogger().WithField("project_id", projectID).WithField("video_number", i+1).WithField("error", err).Error("Failed to store generated video")
			continue
		}
		created++
	}

	logger.GetLogger().WithField("project_id", projectID).WithField("created", created).Info("Generated videos")
	return &dto.GenerateVideosResponse{ProjectID: projectID, Created: created}, nil
}

func scriptPrompt(project *model.Project, number, total int) dto.ScriptPrompt {
	return dto.ScriptPrompt{
		System: "You are a short-form video scriptwriter. Write punchy, spoken-word scripts " +
			"that hook the viewer in the first sentence. Return only the script text, no stage directions.",
		User: fmt.Sprintf(
			"Write script %d of %d for a vertical video series.\nTheme: %s\nTitle: %s\nDescription: %s\nTarget length: about %d seconds of speech. Make each script distinct from the others in the series.",
			number, total, project.Theme, project.Title, project.Description, project.Duration,
		),
	}
}

func (u *GenerateUsecase) AdjustScript(ctx context.Context, videoID, userRequest string) (*dto.AdjustScriptResponse, error) {
	video, err := u.videoRepository.GetByID(ctx, videoID)
	if err != nil {
		return nil, fmt.Errorf("failed to load video: %w", err)
	}
	project, err := u.projectRepository.GetByID(ctx, video.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("failed to load project: %w", err)
	}

	prompt := dto.ScriptPrompt{
		System: "You are a short-form video scriptwriter. Rewrite the given script following the " +
			"user's request while keeping the theme and approximate length. Return only the rewritten script.",
		User: fmt.Sprintf("Theme: %s\n\nCurrent script:\n%s\n\nRequested change: %s", project.Theme, video.Script, userRequest),
	}
	script, err := u.scriptGenerator.Complete(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("script adjustment failed: %w", err)
	}
	script = strings.TrimSpace(script)

	if err := u.videoRepository.UpdateScript(ctx, videoID, script); err != nil {
		return nil, fmt.Errorf("failed to store adjusted script: %w", err)
	}
	return &dto.AdjustScriptResponse{VideoID: videoID, Script: script}, nil
}
