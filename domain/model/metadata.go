package model

import "encoding/json"

// knownMetadataKeys are the fields the orchestrator owns; everything else is
// carried through Extra untouched.
var knownMetadataKeys = map[string]struct{}{
	"publish_results": {},
	"revenue":         {},
	"hashtags":        {},
	"video_number":    {},
	"total_videos":    {},
	"generated_at":    {},
}

type videoMetadataAlias VideoMetadata

// MarshalJSON serializes the typed fields and re-attaches passthrough keys.
// Typed fields win over stale duplicates in Extra.
func (m VideoMetadata) MarshalJSON() ([]byte, error) {
	raw, err := json.Marshal(videoMetadataAlias(m))
	if err != nil {
		return nil, err
	}
	if len(m.Extra) == 0 {
		return raw, nil
	}
	out := make(map[string]json.RawMessage)
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	for k, v := range m.Extra {
		if _, ok := knownMetadataKeys[k]; ok {
			continue
		}
		b, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		out[k] = b
	}
	return json.Marshal(out)
}

// UnmarshalJSON fills the typed fields and keeps every unknown key in Extra.
func (m *VideoMetadata) UnmarshalJSON(data []byte) error {
	var alias videoMetadataAlias
	if err := json.Unmarshal(data, &alias); err != nil {
		return err
	}
	var all map[string]interface{}
	if err := json.Unmarshal(data, &all); err != nil {
		return err
	}
	*m = VideoMetadata(alias)
	for k := range all {
		if _, ok := knownMetadataKeys[k]; ok {
			delete(all, k)
		}
	}
	if len(all) > 0 {
		m.Extra = all
	}
	return nil
}

// Merge folds orchestrator results into existing metadata without discarding
// prior keys.
func (m *VideoMetadata) Merge(results []PublishOutcome, revenue map[string]float64, hashtags []string) {
	m.PublishResults = results
	m.Revenue = revenue
	m.Hashtags = hashtags
}
