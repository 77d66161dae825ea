package instagram

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

	"github.com/google/go-querystring/query"
)

const (
	defaultBaseURL = "https://graph.facebook.com/v18.0"

	pollInterval = 2 * time.Second
	maxPolls     = 30
)

// Publisher drives Instagram's container protocol: create a REELS container
// referencing the video URL, poll until processing finishes, then publish it.
type Publisher struct {
	baseURL    string
	httpClient *http.Client
	sleep      func(ctx context.Context, d time.Duration) error
}

func NewPublisher(httpClient *http.Client) repository.IPlatformPublisher {
	return NewPublisherWithBaseURL(httpClient, defaultBaseURL)
}

func NewPublisherWithBaseURL(httpClient *http.Client, baseURL string) repository.IPlatformPublisher {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Publisher{baseURL: baseURL, httpClient: httpClient, sleep: sleepContext}
}

// WithSleep swaps the inter-poll wait, letting tests run the 30-attempt
// exhaustion without wall-clock delay.
func (p *Publisher) WithSleep(sleep func(ctx context.Context, d time.Duration) error) *Publisher {
	p.sleep = sleep
	return p
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (p *Publisher) Platform() string { return model.PlatformInstagram }

type createContainerRequest struct {
	MediaType   string `json:"media_type"`
	VideoURL    string `json:"video_url"`
	Caption     string `json:"caption"`
	AccessToken string `json:"access_token"`
}

type publishContainerRequest struct {
	CreationID  string `json:"creation_id"`
	AccessToken string `json:"access_token"`
}

type statusQuery struct {
	Fields      string `url:"fields"`
	AccessToken string `url:"access_token"`
}

func (p *Publisher) Publish(ctx context.Context, req *dto.PublishRequest) model.PublishOutcome {
	outcome := model.PublishOutcome{Platform: model.PlatformInstagram, Status: model.OutcomeFailed}

	if req.AccountID == "" {
		outcome.Error = "Instagram account id missing on connection"
		return outcome
	}

	creationID, err := p.createContainer(ctx, req)
	if err != nil {
		outcome.Error = err.Error()
		return outcome
	}

	status, err := p.awaitProcessing(ctx, creationID, req.AccessToken)
	if err != nil {
		outcome.Error = err.Error()
		return outcome
	}
	if status != "FINISHED" {
		outcome.Error = fmt.Sprintf("Instagram video processing failed with status: %s", status)
		return outcome
	}

	if err := p.publishContainer(ctx, req.AccountID, creationID, req.AccessToken); err != nil {
		outcome.Error = err.Error()
		return outcome
	}

	outcome.Status = model.OutcomeSuccess
	return outcome
}

func (p *Publisher) createContainer(ctx context.Context, req *dto.PublishRequest) (string, error) {
	payload, err := json.Marshal(createContainerRequest{
		MediaType:   "REELS",
		VideoURL:    req.VideoURL,
		Caption:     req.TitleCaption(),
		AccessToken: req.AccessToken,
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode container request: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, fmt.Sprintf("%s/%s/media", p.baseURL, req.AccountID), bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to build container request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("Instagram container creation failed: %w", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("Instagram container creation failed: %s", string(body))
	}
	var parsed struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil || parsed.ID == "" {
		return "", fmt.Errorf("Instagram container creation failed: missing id in response")
	}
	return parsed.ID, nil
}

// awaitProcessing polls the container status every 2s, up to 30 attempts,
// until it leaves IN_PROGRESS. Exhausting the attempts reports the last
// observed status.
func (p *Publisher) awaitProcessing(ctx context.Context, creationID, accessToken string) (string, error) {
	qs, err := query.Values(statusQuery{Fields: "status_code", AccessToken: accessToken})
	if err != nil {
		return "", fmt.Errorf("failed to encode status query: %w", err)
	}
	statusURL := fmt.Sprintf("%s/%s?%s", p.baseURL, creationID, qs.Encode())

	status := "IN_PROGRESS"
	for attempts := 0; status == "IN_PROGRESS" && attempts < maxPolls; attempts++ {
		if err := p.sleep(ctx, pollInterval); err != nil {
			return "", fmt.Errorf("Instagram status poll aborted: %w", err)
		}
		httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, statusURL, nil)
		if err != nil {
			return "", fmt.Errorf("failed to build status request: %w", err)
		}
		resp, err := p.httpClient.Do(httpReq)
		if err != nil {
			return "", fmt.Errorf("Instagram status poll failed: %w", err)
		}
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		var parsed struct {
			StatusCode string `json:"status_code"`
		}
		if err := json.Unmarshal(body, &parsed); err != nil {
			return "", fmt.Errorf("Instagram status poll failed: %s", string(body))
		}
		status = parsed.StatusCode
	}
	if status == "IN_PROGRESS" {
		return "", fmt.Errorf("Instagram video processing timed out after %d status checks", maxPolls)
	}
	return status, nil
}

func (p *Publisher) publishContainer(ctx context.Context, accountID, creationID, accessToken string) error {
	payload, err := json.Marshal(publishContainerRequest{CreationID: creationID, AccessToken: accessToken})
	if err != nil {
		return fmt.Errorf("failed to encode publish request: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, fmt.Sprintf("%s/%s/media_publish", p.baseURL, accountID), bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build publish request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("Instagram publish failed: %w", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("Instagram publish failed: %s", string(body))
	}
	return nil
}
