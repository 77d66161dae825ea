package repository

import (
	"context"
	"time"

	"clipflow/domain/model"
)

// IConnection is the credential store. GetActiveByUser is the only path that
// yields decrypted tokens; UpdateAccessToken re-encrypts before writing.
type IConnection interface {
	GetActiveByUser(ctx context.Context, userID string) ([]*model.PlatformConnection, error)
	UpdateAccessToken(ctx context.Context, connectionID, accessToken string, expiresAt *time.Time) error
}
