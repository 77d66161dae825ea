package youtube

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"clipflow/domain/dto"
	"clipflow/domain/model"
	"clipflow/domain/repository"

	"golang.org/x/oauth2"
	"google.golang.org/api/option"
	youtubeapi "google.golang.org/api/youtube/v3"
)

// People & Blogs
const defaultCategoryID = "22"

// Publisher uploads a rendered video to YouTube in a single insert call with
// the media streamed from the video URL.
type Publisher struct {
	httpClient *http.Client
	// extra service options, used by tests to point at a fake endpoint
	serviceOpts []option.ClientOption
}

func NewPublisher(httpClient *http.Client, opts ...option.ClientOption) repository.IPlatformPublisher {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 5 * time.Minute}
	}
	return &Publisher{httpClient: httpClient, serviceOpts: opts}
}

func (p *Publisher) Platform() string { return model.PlatformYouTube }

func (p *Publisher) Publish(ctx context.Context, req *dto.PublishRequest) model.PublishOutcome {
	outcome := model.PublishOutcome{Platform: model.PlatformYouTube, Status: model.OutcomeFailed}

	opts := []option.ClientOption{
		option.WithTokenSource(oauth2.StaticTokenSource(&oauth2.Token{AccessToken: req.AccessToken})),
	}
	opts = append(opts, p.serviceOpts...)
	service, err := youtubeapi.NewService(ctx, opts...)
	if err != nil {
		outcome.Error = fmt.Sprintf("failed to create YouTube service: %v", err)
		return outcome
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, req.VideoURL, nil)
	if err != nil {
		outcome.Error = fmt.Sprintf("invalid video URL: %v", err)
		return outcome
	}
	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		outcome.Error = fmt.Sprintf("failed to fetch video: %v", err)
		return outcome
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		outcome.Error = fmt.Sprintf("failed to fetch video: status %d", resp.StatusCode)
		return outcome
	}

	tags := make([]string, 0, len(req.Hashtags))
	for _, h := range req.Hashtags {
		tags = append(tags, strings.TrimPrefix(h, "#"))
	}
	video := &youtubeapi.Video{
		Snippet: &youtubeapi.VideoSnippet{
			Title:       req.Title,
			Description: req.FullCaption(),
			CategoryId:  defaultCategoryID,
			Tags:        tags,
		},
		Status: &youtubeapi.VideoStatus{
			PrivacyStatus:           "public",
			SelfDeclaredMadeForKids: false,
		},
	}

	call := service.Videos.Insert([]string{"snippet", "status"}, video).Media(resp.Body)
	if _, err := call.Do(); err != nil {
		outcome.Error = fmt.Sprintf("YouTube upload failed: %v", err)
		return outcome
	}

	outcome.Status = model.OutcomeSuccess
	return outcome
}
