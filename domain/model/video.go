package model

import "time"

// Video lifecycle states. A video is created as generating/scheduled by the
// generation flow and only the publish orchestrator moves it to a terminal
// state. publishing is the transient claim state held while a run owns the video.
const (
	VideoStatusGenerating = "generating"
	VideoStatusScheduled  = "scheduled"
	VideoStatusPublishing = "publishing"
	VideoStatusPublished  = "published"
	VideoStatusFailed     = "failed"
)

// Outcome states for a single platform publish attempt
const (
	OutcomeSuccess = "success"
	OutcomeFailed  = "failed"
	OutcomeSkipped = "skipped"
)

// Video represents one unit of publishable content
type Video struct {
	ID           string         `json:"id"`
	ProjectID    string         `json:"project_id"`
	Script       string         `json:"script"`
	VideoURL     string         `json:"video_url"`
	Platforms    []string       `json:"platforms"`
	Status       string         `json:"status"`
	ScheduledFor *time.Time     `json:"scheduled_for,omitempty"`
	PublishedAt  *time.Time     `json:"published_at,omitempty"`
	Metadata     *VideoMetadata `json:"metadata,omitempty"`
	ErrorMessage *string        `json:"error_message,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`

	// Owning project fields joined in by the due-video query
	Project Project `json:"project"`
}

// PublishOutcome is the structured result of one platform publish attempt
type PublishOutcome struct {
	Platform string `json:"platform"`
	Status   string `json:"status"`
	Reason   string `json:"reason,omitempty"`
	Error    string `json:"error,omitempty"`
}

// Success reports whether the attempt uploaded and published the video
func (o PublishOutcome) Success() bool { return o.Status == OutcomeSuccess }

// VideoMetadata is the typed form of the videos.metadata jsonb column.
// Unknown keys round-trip through Extra so writes merge rather than overwrite.
type VideoMetadata struct {
	PublishResults []PublishOutcome       `json:"publish_results,omitempty"`
	Revenue        map[string]float64     `json:"revenue,omitempty"`
	Hashtags       []string               `json:"hashtags,omitempty"`
	VideoNumber    int                    `json:"video_number,omitempty"`
	TotalVideos    int                    `json:"total_videos,omitempty"`
	GeneratedAt    *time.Time             `json:"generated_at,omitempty"`
	Extra          map[string]interface{} `json:"-"`
}
