package dto

// GenerateVideosRequest asks for a batch of scheduled videos for a project
type GenerateVideosRequest struct {
	ProjectID string `json:"project_id"`
	Count     int    `json:"count,omitempty"`
}

// GenerateVideosResponse reports how many videos were created
type GenerateVideosResponse struct {
	ProjectID string `json:"project_id"`
	Created   int    `json:"created"`
}

// AdjustScriptRequest rewrites a stored script following the user's request
type AdjustScriptRequest struct {
	UserRequest string `json:"user_request" binding:"required"`
}

// AdjustScriptResponse returns the rewritten script
type AdjustScriptResponse struct {
	VideoID string `json:"video_id"`
	Script  string `json:"script"`
}

// ScriptPrompt is the input contract of the script generation gateway
type ScriptPrompt struct {
	System string
	User   string
}
