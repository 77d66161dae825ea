package model

import "time"

// Supported publishing platforms
const (
	PlatformYouTube   = "youtube"
	PlatformTikTok    = "tiktok"
	PlatformInstagram = "instagram"
)

// PlatformConnection stores one user's OAuth credential for one platform.
// At most one active connection exists per (user, platform). Tokens are
// encrypted at rest; the fields here only ever hold decrypted values coming
// out of the dedicated read path.
type PlatformConnection struct {
	ID           string     `json:"id"`
	UserID       string     `json:"user_id"`
	Platform     string     `json:"platform"`
	AccessToken  string     `json:"-"`
	RefreshToken string     `json:"-"`
	ExpiresAt    *time.Time `json:"expires_at,omitempty"`
	AccountID    *string    `json:"account_id,omitempty"`
	AccountName  *string    `json:"account_name,omitempty"`
	IsActive     bool       `json:"is_active"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// NeedsRefresh reports whether the access token is within the safety window
// of its expiry. A nil expiry means the token never expires and is never
// preemptively refreshed.
func (c *PlatformConnection) NeedsRefresh(now time.Time, window time.Duration) bool {
	if c.ExpiresAt == nil {
		return false
	}
	return c.ExpiresAt.Sub(now) < window
}
