package repository

import (
	"context"
	"crypto/rand"
	"database/sql"
	"errors"
	"math/big"
	"strings"

	"github.com/iliyamo/event-reservation/internal/model"
)

// EventRepo provides persistence for the event catalog. Guests reach
// events through their public code; hosts through ownership.
type EventRepo struct {
	db *sql.DB
}

// NewEventRepo returns an EventRepo bound to the given database.
func NewEventRepo(db *sql.DB) *EventRepo { return &EventRepo{db: db} }

// DB exposes the underlying sql.DB for multi-repository transactions.
func (r *EventRepo) DB() *sql.DB { return r.db }

const eventCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
const eventCodeLength = 10

// NewEventCode generates a random 10-character alphanumeric code used
// in guest-facing URLs. Uniqueness is enforced by the DB constraint;
// callers retry on collision.
func NewEventCode() (string, error) {
	var b strings.Builder
	b.Grow(eventCodeLength)
	for i := 0; i < eventCodeLength; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(eventCodeAlphabet))))
		if err != nil {
			return "", err
		}
		b.WriteByte(eventCodeAlphabet[n.Int64()])
	}
	return b.String(), nil
}

const eventColumns = `id, host_id, title, location, description, event_code, is_public, created_at, updated_at`

func scanEvent(row rowScanner) (*model.Event, error) {
	var (
		e    model.Event
		desc sql.NullString
	)
	err := row.Scan(&e.ID, &e.HostID, &e.Title, &e.Location, &desc,
		&e.EventCode, &e.IsPublic, &e.CreatedAt, &e.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrEventNotFound
	}
	if err != nil {
		return nil, err
	}
	e.Description = desc.String
	return &e, nil
}

// CreateTx inserts an event within the provided transaction and
// populates its generated ID.
func (r *EventRepo) CreateTx(ctx context.Context, tx *sql.Tx, e *model.Event) error {
	const q = `INSERT INTO events (host_id, title, location, description, event_code, is_public)
	           VALUES (?, ?, ?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, q, e.HostID, e.Title, e.Location,
		nullable(e.Description), e.EventCode, e.IsPublic)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	e.ID = uint64(id)
	return nil
}

// GetByID loads an event by primary key.
func (r *EventRepo) GetByID(ctx context.Context, id uint64) (*model.Event, error) {
	const q = `SELECT ` + eventColumns + ` FROM events WHERE id = ?`
	return scanEvent(r.db.QueryRowContext(ctx, q, id))
}

// GetByCode loads an event by its public code.
func (r *EventRepo) GetByCode(ctx context.Context, code string) (*model.Event, error) {
	const q = `SELECT ` + eventColumns + ` FROM events WHERE event_code = ?`
	return scanEvent(r.db.QueryRowContext(ctx, q, code))
}

// GetOwned loads an event and verifies it belongs to hostID, returning
// ErrForbidden when it does not. Every host-side operation goes
// through this check.
func (r *EventRepo) GetOwned(ctx context.Context, id, hostID uint64) (*model.Event, error) {
	e, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if e.HostID != hostID {
		return nil, ErrForbidden
	}
	return e, nil
}

// ListByHost returns a host's events, newest first.
func (r *EventRepo) ListByHost(ctx context.Context, hostID uint64) ([]*model.Event, error) {
	const q = `SELECT ` + eventColumns + ` FROM events WHERE host_id = ? ORDER BY created_at DESC`
	return r.queryList(ctx, q, hostID)
}

// ListPublic returns all publicly visible events, newest first.
func (r *EventRepo) ListPublic(ctx context.Context) ([]*model.Event, error) {
	const q = `SELECT ` + eventColumns + ` FROM events WHERE is_public = TRUE ORDER BY created_at DESC`
	return r.queryList(ctx, q)
}

func (r *EventRepo) queryList(ctx context.Context, q string, args ...any) ([]*model.Event, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	events := make([]*model.Event, 0)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// UpdateBasicInfo rewrites title, location and description.
func (r *EventRepo) UpdateBasicInfo(ctx context.Context, e *model.Event) error {
	const q = `UPDATE events SET title = ?, location = ?, description = ? WHERE id = ?`
	_, err := r.db.ExecContext(ctx, q, e.Title, e.Location, nullable(e.Description), e.ID)
	return err
}

// UpdateVisibility toggles the public flag.
func (r *EventRepo) UpdateVisibility(ctx context.Context, id uint64, isPublic bool) error {
	const q = `UPDATE events SET is_public = ? WHERE id = ?`
	_, err := r.db.ExecContext(ctx, q, isPublic, id)
	return err
}

// HostIDForSchedule resolves the owning host of a schedule. Host-side
// reservation operations use it for authorization.
func (r *EventRepo) HostIDForSchedule(ctx context.Context, scheduleID uint64) (uint64, error) {
	const q = `SELECT e.host_id FROM events e
	           JOIN event_schedules s ON s.event_id = e.id
	           WHERE s.id = ?`
	var hostID uint64
	err := r.db.QueryRowContext(ctx, q, scheduleID).Scan(&hostID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, model.ErrScheduleNotFound
	}
	return hostID, err
}
