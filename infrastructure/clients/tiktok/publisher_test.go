package tiktok

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"clipflow/domain/dto"
	"clipflow/domain/model"

	"github.com/stretchr/testify/require"
)

func TestPublishHappyPath(t *testing.T) {
	var uploaded []byte

	mux := http.NewServeMux()
	server := httptest.NewServer(mux)
	defer server.Close()

	mux.HandleFunc("/v2/post/publish/video/init/", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer tt-token", r.Header.Get("Authorization"))
		var body map[string]map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "PUBLIC_TO_EVERYONE", body["post_info"]["privacy_level"])
		require.Equal(t, float64(1000), body["post_info"]["video_cover_timestamp_ms"])
		require.Equal(t, "FILE_UPLOAD", body["source_info"]["source"])
		_, _ = w.Write([]byte(`{"data":{"publish_id":"p-1","upload_url":"` + server.URL + `/upload"}}`))
	})
	mux.HandleFunc("/video.mp4", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("raw video bytes"))
	})
	mux.HandleFunc("/upload", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPut, r.Method)
		require.Equal(t, "video/mp4", r.Header.Get("Content-Type"))
		uploaded, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusCreated)
	})

	pub := NewPublisherWithBaseURL(server.Client(), server.URL)
	outcome := pub.Publish(context.Background(), &dto.PublishRequest{
		VideoURL:    server.URL + "/video.mp4",
		Title:       "Cooking Hacks",
		AccessToken: "tt-token",
	})
	require.Equal(t, model.OutcomeSuccess, outcome.Status)
	require.Equal(t, "raw video bytes", string(uploaded))
}

func TestPublishInitFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"code":"access_token_invalid"}}`, http.StatusUnauthorized)
	}))
	defer server.Close()

	pub := NewPublisherWithBaseURL(server.Client(), server.URL)
	outcome := pub.Publish(context.Background(), &dto.PublishRequest{
		VideoURL:    "https://cdn.example.com/v.mp4",
		AccessToken: "bad-token",
	})
	require.Equal(t, model.OutcomeFailed, outcome.Status)
	require.Contains(t, outcome.Error, "TikTok init failed")
}

func TestPublishMissingUploadURL(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":{}}`))
	}))
	defer server.Close()

	pub := NewPublisherWithBaseURL(server.Client(), server.URL)
	outcome := pub.Publish(context.Background(), &dto.PublishRequest{
		VideoURL:    "https://cdn.example.com/v.mp4",
		AccessToken: "tt-token",
	})
	require.Equal(t, model.OutcomeFailed, outcome.Status)
	require.Contains(t, outcome.Error, "missing upload_url")
}

func TestPublishVideoFetchFailure(t *testing.T) {
	mux := http.NewServeMux()
	server := httptest.NewServer(mux)
	defer server.Close()

	mux.HandleFunc("/v2/post/publish/video/init/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":{"publish_id":"p-1","upload_url":"` + server.URL + `/upload"}}`))
	})
	mux.HandleFunc("/missing.mp4", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})

	pub := NewPublisherWithBaseURL(server.Client(), server.URL)
	outcome := pub.Publish(context.Background(), &dto.PublishRequest{
		VideoURL:    server.URL + "/missing.mp4",
		AccessToken: "tt-token",
	})
	require.Equal(t, model.OutcomeFailed, outcome.Status)
	require.Contains(t, outcome.Error, "failed to fetch video")
}
