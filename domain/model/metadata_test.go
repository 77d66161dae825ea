package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestVideoMetadataKeepsUnknownKeys(t *testing.T) {
	raw := []byte(`{"video_number":2,"total_videos":10,"source_clip":"clip-9","render_profile":{"fps":30}}`)

	var meta VideoMetadata
	require.NoError(t, json.Unmarshal(raw, &meta))
	require.Equal(t, 2, meta.VideoNumber)
	require.Equal(t, "clip-9", meta.Extra["source_clip"])

	meta.Merge(
		[]PublishOutcome{{Platform: PlatformYouTube, Status: OutcomeSuccess}},
		map[string]float64{PlatformYouTube: 12.5},
		[]string{"#viral", "#shorts"},
	)

	out, err := json.Marshal(meta)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(out, &decoded))
	require.Equal(t, "clip-9", decoded["source_clip"])
	require.NotNil(t, decoded["render_profile"])
	require.NotNil(t, decoded["publish_results"])
	require.Equal(t, float64(2), decoded["video_number"])
}

func TestVideoMetadataTypedFieldsWinOverExtra(t *testing.T) {
	meta := VideoMetadata{
		Hashtags: []string{"#viral"},
		Extra:    map[string]interface{}{"hashtags": []string{"#stale"}, "note": "keep"},
	}
	out, err := json.Marshal(meta)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(out, &decoded))
	require.Equal(t, []interface{}{"#viral"}, decoded["hashtags"])
	require.Equal(t, "keep", decoded["note"])
}
