package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/iliyamo/event-reservation/internal/model"
	"github.com/iliyamo/event-reservation/internal/utils"
)

// HostRepo persists host accounts.
type HostRepo struct{ db *sql.DB }

// NewHostRepo returns a HostRepo bound to the given database.
func NewHostRepo(db *sql.DB) *HostRepo { return &HostRepo{db: db} }

// Create inserts a host with a bcrypt-hashed password and returns its ID.
func (r *HostRepo) Create(ctx context.Context, email, password, name string, cost int) (uint64, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO hosts (email, password_hash, name) VALUES (?, ?, ?)`,
		email, hash, name)
	if err != nil {
		// MySQL duplicate-key error for the unique email index.
		if strings.Contains(err.Error(), "1062") {
			return 0, ErrEmailExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByEmail fetches a host by normalized email.
func (r *HostRepo) GetByEmail(ctx context.Context, email string) (*model.Host, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	var h model.Host
	err := r.db.QueryRowContext(ctx,
		`SELECT id, email, password_hash, name, created_at, updated_at FROM hosts WHERE email = ?`,
		email).Scan(&h.ID, &h.Email, &h.PasswordHash, &h.Name, &h.CreatedAt, &h.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &h, nil
}

// GetByID fetches a host by primary key.
func (r *HostRepo) GetByID(ctx context.Context, id uint64) (*model.Host, error) {
	var h model.Host
	err := r.db.QueryRowContext(ctx,
		`SELECT id, email, password_hash, name, created_at, updated_at FROM hosts WHERE id = ?`,
		id).Scan(&h.ID, &h.Email, &h.PasswordHash, &h.Name, &h.CreatedAt, &h.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &h, nil
}
