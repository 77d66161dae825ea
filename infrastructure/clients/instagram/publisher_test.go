package instagram

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"clipflow/domain/dto"
	"clipflow/domain/model"

	"github.com/stretchr/testify/require"
)

func noSleep(counter *int32) func(ctx context.Context, d time.Duration) error {
	return func(ctx context.Context, d time.Duration) error {
		if counter != nil {
			atomic.AddInt32(counter, 1)
		}
		return nil
	}
}

func publishRequest() *dto.PublishRequest {
	return &dto.PublishRequest{
		VideoURL:    "https://cdn.example.com/v.mp4",
		Title:       "Cooking Hacks",
		Caption:     "a script",
		Hashtags:    []string{"#viral", "#shorts"},
		AccessToken: "ig-token",
		AccountID:   "ig-account",
	}
}

func TestPublishHappyPath(t *testing.T) {
	var published int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && strings.HasSuffix(r.URL.Path, "/ig-account/media"):
			var body map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			require.Equal(t, "REELS", body["media_type"])
			// Caption is the post title plus hashtags, not the script
			require.Equal(t, "Cooking Hacks\n\n#viral #shorts", body["caption"])
			_, _ = w.Write([]byte(`{"id":"container-1"}`))
		case r.Method == http.MethodGet && strings.HasSuffix(r.URL.Path, "/container-1"):
			require.Equal(t, "status_code", r.URL.Query().Get("fields"))
			require.Equal(t, "ig-token", r.URL.Query().Get("access_token"))
			_, _ = w.Write([]byte(`{"status_code":"FINISHED"}`))
		case r.Method == http.MethodPost && strings.HasSuffix(r.URL.Path, "/ig-account/media_publish"):
			atomic.AddInt32(&published, 1)
			_, _ = w.Write([]byte(`{"id":"media-1"}`))
		default:
			t.Fatalf("unexpected request: %s %s", r.Method, r.URL)
		}
	}))
	defer server.Close()

	pub := NewPublisherWithBaseURL(server.Client(), server.URL).(*Publisher).WithSleep(noSleep(nil))
	outcome := pub.Publish(context.Background(), publishRequest())
	require.Equal(t, model.OutcomeSuccess, outcome.Status)
	require.Equal(t, int32(1), atomic.LoadInt32(&published))
}

func TestPublishProcessingFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			_, _ = w.Write([]byte(`{"id":"container-1"}`))
			return
		}
		_, _ = w.Write([]byte(`{"status_code":"ERROR"}`))
	}))
	defer server.Close()

	pub := NewPublisherWithBaseURL(server.Client(), server.URL).(*Publisher).WithSleep(noSleep(nil))
	outcome := pub.Publish(context.Background(), publishRequest())
	require.Equal(t, model.OutcomeFailed, outcome.Status)
	require.Equal(t, "Instagram video processing failed with status: ERROR", outcome.Error)
}

func TestPublishPollExhaustion(t *testing.T) {
	var polls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			_, _ = w.Write([]byte(`{"id":"container-1"}`))
			return
		}
		atomic.AddInt32(&polls, 1)
		_, _ = w.Write([]byte(`{"status_code":"IN_PROGRESS"}`))
	}))
	defer server.Close()

	var sleeps int32
	pub := NewPublisherWithBaseURL(server.Client(), server.URL).(*Publisher).WithSleep(noSleep(&sleeps))
	outcome := pub.Publish(context.Background(), publishRequest())
	require.Equal(t, model.OutcomeFailed, outcome.Status)
	require.Equal(t, "Instagram video processing timed out after 30 status checks", outcome.Error)
	require.Equal(t, int32(30), atomic.LoadInt32(&polls))
	require.Equal(t, int32(30), atomic.LoadInt32(&sleeps))
}

func TestPublishMissingAccountID(t *testing.T) {
	pub := NewPublisher(nil)
	req := publishRequest()
	req.AccountID = ""
	outcome := pub.Publish(context.Background(), req)
	require.Equal(t, model.OutcomeFailed, outcome.Status)
	require.Contains(t, outcome.Error, "account id missing")
}

func TestPublishContainerCreationFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"bad video url"}}`, http.StatusBadRequest)
	}))
	defer server.Close()

	pub := NewPublisherWithBaseURL(server.Client(), server.URL).(*Publisher).WithSleep(noSleep(nil))
	outcome := pub.Publish(context.Background(), publishRequest())
	require.Equal(t, model.OutcomeFailed, outcome.Status)
	require.Contains(t, outcome.Error, "Instagram container creation failed")
}
