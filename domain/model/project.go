package model

import "time"

// Project groups videos under one owner. The publish orchestrator treats
// projects as read-only.
type Project struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Title       string    `json:"title"`
	Theme       string    `json:"theme"`
	Description string    `json:"description"`
	Platform    string    `json:"platform"`
	Duration    int       `json:"duration"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
