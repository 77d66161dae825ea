package persistence

import (
	"context"
	"database/sql"
	"time"

	"clipflow/domain/model"
)

// ConnectionRepository implements the credential store on PostgreSQL. Tokens
// are pgcrypto-encrypted at rest; decryption happens inside the SELECT so
// plaintext never touches any other query path.
type ConnectionRepository struct {
	db       *sql.DB
	tokenKey string
}

func NewConnectionRepository(db *sql.DB, tokenKey string) *ConnectionRepository {
	return &ConnectionRepository{db: db, tokenKey: tokenKey}
}

func (r *ConnectionRepository) GetActiveByUser(ctx context.Context, userID string) ([]*model.PlatformConnection, error) {
	q := `SELECT id, user_id, platform,
	        pgp_sym_decrypt(access_token_encrypted, $2),
	        CASE WHEN refresh_token_encrypted IS NULL THEN '' ELSE pgp_sym_decrypt(refresh_token_encrypted, $2) END,
	        expires_at, account_id, account_name, is_active, created_at, updated_at
	      FROM platform_connections
	      WHERE user_id=$1 AND is_active=true
	      ORDER BY platform ASC`
	rows, err := r.db.QueryContext(ctx, q, userID, r.tokenKey)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []*model.PlatformConnection
	for rows.Next() {
		conn := &model.PlatformConnection{}
		var expiresAt sql.NullTime
		var accountID, accountName sql.NullString
		if err := rows.Scan(&conn.ID, &conn.UserID, &conn.Platform, &conn.AccessToken, &conn.RefreshToken,
			&expiresAt, &accountID, &accountName, &conn.IsActive, &conn.CreatedAt, &conn.UpdatedAt); err != nil {
			return nil, err
		}
		if expiresAt.Valid {
			t := expiresAt.Time
			conn.ExpiresAt = &t
		}
		if accountID.Valid {
			v := accountID.String
			conn.AccountID = &v
		}
		if accountName.Valid {
			v := accountName.String
			conn.AccountName = &v
		}
		list = append(list, conn)
	}
	return list, rows.Err()
}

func (r *ConnectionRepository) UpdateAccessToken(ctx context.Context, connectionID, accessToken string, expiresAt *time.Time) error {
	q := `UPDATE platform_connections
	      SET access_token_encrypted = pgp_sym_encrypt($2, $3), expires_at=$4, updated_at=$5
	      WHERE id=$1`
	_, err := r.db.ExecContext(ctx, q, connectionID, accessToken, r.tokenKey, expiresAt, time.Now().UTC())
	return err
}
