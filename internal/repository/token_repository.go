package repository

import (
	"context"
	"database/sql"
	"time"
)

// TokenRepo persists host refresh tokens. Only the SHA-256 hash of a
// token is stored; a revoked or expired row never validates.
type TokenRepo struct{ db *sql.DB }

// NewTokenRepo returns a TokenRepo bound to the given database.
func NewTokenRepo(db *sql.DB) *TokenRepo { return &TokenRepo{db: db} }

// StoreRefresh inserts a refresh token hash for a host.
func (r *TokenRepo) StoreRefresh(ctx context.Context, hostID uint64, tokenHash string, exp time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO refresh_tokens (host_id, token_hash, expires_at) VALUES (?, ?, ?)`,
		hostID, tokenHash, exp.UTC())
	return err
}

// ValidateRefresh returns the owning host ID when a live token with
// this hash exists; otherwise sql.ErrNoRows.
func (r *TokenRepo) ValidateRefresh(ctx context.Context, tokenHash string) (uint64, error) {
	var (
		hostID    uint64
		expiresAt time.Time
		revokedAt sql.NullTime
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT host_id, expires_at, revoked_at FROM refresh_tokens WHERE token_hash = ? LIMIT 1`,
		tokenHash).Scan(&hostID, &expiresAt, &revokedAt)
	if err != nil {
		return 0, err
	}
	if revokedAt.Valid || time.Now().UTC().After(expiresAt) {
		return 0, sql.ErrNoRows
	}
	return hostID, nil
}

// Revoke marks a token as revoked by its hash.
func (r *TokenRepo) Revoke(ctx context.Context, tokenHash string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE refresh_tokens SET revoked_at = NOW() WHERE token_hash = ? AND revoked_at IS NULL`,
		tokenHash)
	return err
}
