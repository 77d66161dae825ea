package dto

import (
	"time"

	"clipflow/domain/model"
)

// Res is the generic response envelope
type Res struct {
	ResponseCode    string      `json:"response_code"`
	ResponseMessage string      `json:"response_message"`
	Data            interface{} `json:"data,omitempty"`
}

// PublishVideoResult is the per-video entry of a run report
type PublishVideoResult struct {
	VideoID   string                 `json:"video_id"`
	Status    string                 `json:"status"`
	Platforms []model.PublishOutcome `json:"platforms,omitempty"`
	Error     string                 `json:"error,omitempty"`
}

// PublishRunReport aggregates one publish pass
type PublishRunReport struct {
	Processed  int                  `json:"processed"`
	Results    []PublishVideoResult `json:"results"`
	StartedAt  time.Time            `json:"started_at"`
	FinishedAt time.Time            `json:"finished_at"`
}

// PublishRequest carries everything a platform publisher needs for one upload
type PublishRequest struct {
	VideoURL    string
	Title       string
	Caption     string
	Hashtags    []string
	AccessToken string
	AccountID   string
}

// FullCaption joins the caption and hashtags; used where a platform takes a
// long-form description (YouTube).
func (r *PublishRequest) FullCaption() string {
	return joinCaption(r.Caption, r.Hashtags)
}

// TitleCaption joins the title and hashtags; used where a platform's caption
// is the post headline rather than a description (Instagram).
func (r *PublishRequest) TitleCaption() string {
	return joinCaption(r.Title, r.Hashtags)
}

func joinCaption(base string, hashtags []string) string {
	caption := base
	if len(hashtags) > 0 {
		caption += "\n\n"
		for i, h := range hashtags {
			if i > 0 {
				caption += " "
			}
			caption += h
		}
	}
	return caption
}
