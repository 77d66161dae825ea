package youtube

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"clipflow/domain/dto"
	"clipflow/domain/model"

	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
)

func publishRequest(videoURL string) *dto.PublishRequest {
	return &dto.PublishRequest{
		VideoURL:    videoURL,
		Title:       "Cooking Hacks",
		Caption:     "a script",
		Hashtags:    []string{"#viral", "#shorts"},
		AccessToken: "yt-token",
	}
}

func TestPublishHappyPath(t *testing.T) {
	var insertBody []byte

	mux := http.NewServeMux()
	server := httptest.NewServer(mux)
	defer server.Close()

	mux.HandleFunc("/video.mp4", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("raw video bytes"))
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || !strings.Contains(r.URL.Path, "videos") {
			t.Fatalf("unexpected request: %s %s", r.Method, r.URL)
		}
		insertBody, _ = io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"yt-1"}`))
	})

	pub := NewPublisher(server.Client(), option.WithEndpoint(server.URL))
	outcome := pub.Publish(context.Background(), publishRequest(server.URL+"/video.mp4"))
	require.Equal(t, model.OutcomeSuccess, outcome.Status)

	// The insert carries the snippet metadata and the streamed media bytes
	body := string(insertBody)
	require.Contains(t, body, `"Cooking Hacks"`)
	require.Contains(t, body, "a script\\n\\n#viral #shorts")
	require.Contains(t, body, `"categoryId":"22"`)
	require.Contains(t, body, `"privacyStatus":"public"`)
	require.Contains(t, body, `"viral"`)
	require.NotContains(t, body, `"#viral"`)
	require.Contains(t, body, "raw video bytes")
}

func TestPublishVideoFetchFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	pub := NewPublisher(server.Client(), option.WithEndpoint(server.URL))
	outcome := pub.Publish(context.Background(), publishRequest(server.URL+"/missing.mp4"))
	require.Equal(t, model.OutcomeFailed, outcome.Status)
	require.Contains(t, outcome.Error, "failed to fetch video")
}

func TestPublishInsertFailure(t *testing.T) {
	mux := http.NewServeMux()
	server := httptest.NewServer(mux)
	defer server.Close()

	mux.HandleFunc("/video.mp4", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("raw video bytes"))
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		http.Error(w, `{"error":{"code":400,"message":"invalid metadata"}}`, http.StatusBadRequest)
	})

	pub := NewPublisher(server.Client(), option.WithEndpoint(server.URL))
	outcome := pub.Publish(context.Background(), publishRequest(server.URL+"/video.mp4"))
	require.Equal(t, model.OutcomeFailed, outcome.Status)
	require.Contains(t, outcome.Error, "YouTube upload failed")
}
