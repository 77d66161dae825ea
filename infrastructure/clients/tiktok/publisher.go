package tiktok

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"clipflow/domain/dto"
	"clipflow/domain/model"
	"clipflow/domain/repository"
)

const defaultBaseURL = "https://open.tiktokapis.com"

// Publisher drives TikTok's two-step direct-post protocol: init to obtain an
// upload URL, then PUT the raw video bytes to it.
type Publisher struct {
	baseURL    string
	httpClient *http.Client
}

func NewPublisher(httpClient *http.Client) repository.IPlatformPublisher {
	return NewPublisherWithBaseURL(httpClient, defaultBaseURL)
}

func NewPublisherWithBaseURL(httpClient *http.Client, baseURL string) repository.IPlatformPublisher {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 5 * time.Minute}
	}
	return &Publisher{baseURL: baseURL, httpClient: httpClient}
}

func (p *Publisher) Platform() string { return model.PlatformTikTok }

type initRequest struct {
	PostInfo   postInfo   `json:"post_info"`
	SourceInfo sourceInfo `json:"source_info"`
}

type postInfo struct {
	Title                 string `json:"title"`
	PrivacyLevel          string `json:"privacy_level"`
	DisableDuet           bool   `json:"disable_duet"`
	DisableComment        bool   `json:"disable_comment"`
	DisableStitch         bool   `json:"disable_stitch"`
	VideoCoverTimestampMs int    `json:"video_cover_timestamp_ms"`
}

type sourceInfo struct {
	Source    string `json:"source"`
	VideoSize int64  `json:"video_size"`
}

type initResponse struct {
	Data struct {
		PublishID string `json:"publish_id"`
		UploadURL string `json:"upload_url"`
	} `json:"data"`
}

func (p *Publisher) Publish(ctx context.Context, req *dto.PublishRequest) model.PublishOutcome {
	outcome := model.PublishOutcome{Platform: model.PlatformTikTok, Status: model.OutcomeFailed}

	init := initRequest{
		PostInfo: postInfo{
			Title:                 req.Title,
			PrivacyLevel:          "PUBLIC_TO_EVERYONE",
			VideoCoverTimestampMs: 1000,
		},
		SourceInfo: sourceInfo{Source: "FILE_UPLOAD"},
	}
	body, err := json.Marshal(init)
	if err != nil {
		outcome.Error = fmt.Sprintf("failed to encode init request: %v", err)
		return outcome
	}

	initReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/v2/post/publish/video/init/", bytes.NewReader(body))
	if err != nil {
		outcome.Error = fmt.Sprintf("failed to build init request: %v", err)
		return outcome
	}
	initReq.Header.Set("Authorization", "Bearer "+req.AccessToken)
	initReq.Header.Set("Content-Type", "application/json")

	initResp, err := p.httpClient.Do(initReq)
	if err != nil {
		outcome.Error = fmt.Sprintf("TikTok init failed: %v", err)
		return outcome
	}
	initBody, _ := io.ReadAll(initResp.Body)
	initResp.Body.Close()
	if initResp.StatusCode < 200 || initResp.StatusCode >= 300 {
		outcome.Error = fmt.Sprintf("TikTok init failed: %s", string(initBody))
		return outcome
	}
	var parsed initResponse
	if err := json.Unmarshal(initBody, &parsed); err != nil || parsed.Data.UploadURL == "" {
		outcome.Error = "TikTok init failed: missing upload_url in response"
		return outcome
	}

	videoReq, err := http.NewRequestWithContext(ctx, http.MethodGet, req.VideoURL, nil)
	if err != nil {
		outcome.Error = fmt.Sprintf("invalid video URL: %v", err)
		return outcome
	}
	videoResp, err := p.httpClient.Do(videoReq)
	if err != nil {
		outcome.Error = fmt.Sprintf("failed to fetch video: %v", err)
		return outcome
	}
	defer videoResp.Body.Close()
	if videoResp.StatusCode < 200 || videoResp.StatusCode >= 300 {
		outcome.Error = fmt.Sprintf("failed to fetch video: status %d", videoResp.StatusCode)
		return outcome
	}

	uploadReq, err := http.NewRequestWithContext(ctx, http.MethodPut, parsed.Data.UploadURL, videoResp.Body)
	if err != nil {
		outcome.Error = fmt.Sprintf("failed to build upload request: %v", err)
		return outcome
	}
	uploadReq.Header.Set("Content-Type", "video/mp4")
	if videoResp.ContentLength > 0 {
		uploadReq.ContentLength = videoResp.ContentLength
	}

	uploadResp, err := p.httpClient.Do(uploadReq)
	if err != nil {
		outcome.Error = fmt.Sprintf("TikTok upload failed: %v", err)
		return outcome
	}
	uploadBody, _ := io.ReadAll(uploadResp.Body)
	uploadResp.Body.Close()
	if uploadResp.StatusCode < 200 || uploadResp.StatusCode >= 300 {
		outcome.Error = fmt.Sprintf("TikTok upload failed: %s", string(uploadBody))
		return outcome
	}

	outcome.Status = model.OutcomeSuccess
	return outcome
}
