package usecase

import (
	"context"
	"time"

	"golang.org/x/oauth2"

	"clipflow/domain/model"
	"clipflow/domain/repository"
	"clipflow/infrastructure/logger"
)

// refreshWindow is how close to expiry a token may get before we
// proactively exchange the refresh token for a new one.
const refreshWindow = 5 * time.Minute

// OAuthClientCredentials identifies this application to a platform's token
// endpoint when exchanging refresh tokens.
type OAuthClientCredentials struct {
	ClientID     string
	ClientSecret string
	TokenURL     string
}

type ICredentialUsecase interface {
	// EnsureValidAccessToken returns an access token usable right now for the
	// connection's platform, refreshing and persisting it when the stored one
	// is near expiry. Refresh failures fall back to the stored token so a
	// flaky token endpoint degrades to "try the upload anyway" instead of
	// hard-failing the platform.
	EnsureValidAccessToken(ctx context.Context, conn *model.PlatformConnection) string
}

type CredentialUsecase struct {
	connectionRepository repository.IConnection
	oauthClients         map[string]OAuthClientCredentials
	now                  func() time.Time
}

func NewCredentialUsecase(connectionRepository repository.IConnection, oauthClients map[string]OAuthClientCredentials) ICredentialUsecase {
	return &CredentialUsecase{
		connectionRepository: connectionRepository,
		oauthClients:         oauthClients,
		now:                  time.Now,
	}
}

func (u *CredentialUsecase) WithClock(now func() time.Time) *CredentialUsecase {
	u.now = now
	return u
}

func (u *CredentialUsecase) EnsureValidAccessToken(ctx context.Context, conn *model.PlatformConnection) string {
	if !conn.NeedsRefresh(u.now(), refreshWindow) {
		return conn.AccessToken
	}
	if conn.RefreshToken == "" {
		logger.GetLogger().WithField("platform", conn.Platform).Warn("Token near expiry but no refresh token stored; using stored token")
		return conn.AccessToken
	}
	client, ok := u.oauthClients[conn.Platform]
	if !ok || client.TokenURL == "" {
		logger.GetLogger().WithField("platform", conn.Platform).Warn("No OAuth client configured for platform; using stored token")
		return conn.AccessToken
	}

	conf := &oauth2.Config{
		ClientID:     client.ClientID,
		ClientSecret: client.ClientSecret,
		Endpoint: oauth2.Endpoint{
			TokenURL:  client.TokenURL,
			AuthStyle: oauth2.AuthStyleInParams,
		},
	}
	// An already-expired seed token forces TokenSource to hit the endpoint
	// with a refresh_token grant immediately.
	seed := &oauth2.Token{
		RefreshToken: conn.RefreshToken,
		Expiry:       u.now().Add(-time.Minute),
	}
	token, err := conf.TokenSource(ctx, seed).Token()
	if err != nil {
		logger.GetLogger().WithField("platform", conn.Platform).WithField("error", err).Warn("Token refresh failed; falling back to stored token")
		return conn.AccessToken
	}

	var expiresAt *time.Time
	if !token.Expiry.IsZero() {
		expiry := token.Expiry
		expiresAt = &expiry
	}
	if err := u.connectionRepository.UpdateAccessToken(ctx, conn.ID, token.AccessToken, expiresAt); err != nil {
		logger.GetLogger().WithField("platform", conn.Platform).WithField("error", err).Error("Failed to persist refreshed token")
	}
	// Keep the in-memory connection current so repeated calls within one run
	// do not refresh again.
	conn.AccessToken = token.AccessToken
	conn.ExpiresAt = expiresAt
	if token.RefreshToken != "" {
		conn.RefreshToken = token.RefreshToken
	}
	return token.AccessToken
}
