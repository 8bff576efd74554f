package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/event-reservation/internal/model"
)

// ScheduleRepo provides persistence for event schedules. The
// reserved_count column is only ever written through UpdateCountTx
// while the row lock from GetForUpdateTx is held; every other method
// is a snapshot read.
type ScheduleRepo struct {
	db *sql.DB
}

// NewScheduleRepo returns a ScheduleRepo bound to the given database.
func NewScheduleRepo(db *sql.DB) *ScheduleRepo { return &ScheduleRepo{db: db} }

// DB exposes the underlying sql.DB so callers can begin transactions
// spanning multiple repositories.
func (r *ScheduleRepo) DB() *sql.DB { return r.db }

const scheduleColumns = `id, event_id, start_time, end_time, max_capacity, reserved_count, created_at, updated_at`

func scanSchedule(row *sql.Row) (*model.EventSchedule, error) {
	var s model.EventSchedule
	err := row.Scan(&s.ID, &s.EventID, &s.StartTime, &s.EndTime,
		&s.MaxCapacity, &s.ReservedCount, &s.CreatedAt, &s.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrScheduleNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// GetForUpdateTx loads a schedule with an exclusive row lock. The
// lock blocks any concurrent GetForUpdateTx on the same id until the
// surrounding transaction commits or rolls back; it is the
// serialization point for all capacity mutations on the schedule.
func (r *ScheduleRepo) GetForUpdateTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.EventSchedule, error) {
	const q = `SELECT ` + scheduleColumns + ` FROM event_schedules WHERE id = ? FOR UPDATE`
	return scanSchedule(tx.QueryRowContext(ctx, q, id))
}

// UpdateCountTx persists the schedule's reserved_count. Callers must
// hold the row lock from GetForUpdateTx.
func (r *ScheduleRepo) UpdateCountTx(ctx context.Context, tx *sql.Tx, s *model.EventSchedule) error {
	const q = `UPDATE event_schedules SET reserved_count = ? WHERE id = ?`
	_, err := tx.ExecContext(ctx, q, s.ReservedCount, s.ID)
	return err
}

// GetByID loads a schedule without locking. Dashboards and browse
// endpoints use this; the counter may be slightly stale relative to
// in-flight bookings.
func (r *ScheduleRepo) GetByID(ctx context.Context, id uint64) (*model.EventSchedule, error) {
	const q = `SELECT ` + scheduleColumns + ` FROM event_schedules WHERE id = ?`
	return scanSchedule(r.db.QueryRowContext(ctx, q, id))
}

// CreateTx inserts a schedule within the provided transaction and
// populates its generated ID.
func (r *ScheduleRepo) CreateTx(ctx context.Context, tx *sql.Tx, s *model.EventSchedule) error {
	const q = `INSERT INTO event_schedules (event_id, start_time, end_time, max_capacity, reserved_count)
	           VALUES (?, ?, ?, ?, 0)`
	res, err := tx.ExecContext(ctx, q, s.EventID, s.StartTime.UTC(), s.EndTime.UTC(), s.MaxCapacity)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	s.ID = uint64(id)
	return nil
}

// ListByEvent returns all schedules of an event ordered by start time.
func (r *ScheduleRepo) ListByEvent(ctx context.Context, eventID uint64) ([]model.EventSchedule, error) {
	const q = `SELECT ` + scheduleColumns + ` FROM event_schedules WHERE event_id = ? ORDER BY start_time`
	rows, err := r.db.QueryContext(ctx, q, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	schedules := make([]model.EventSchedule, 0)
	for rows.Next() {
		var s model.EventSchedule
		if err := rows.Scan(&s.ID, &s.EventID, &s.StartTime, &s.EndTime,
			&s.MaxCapacity, &s.ReservedCount, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		schedules = append(schedules, s)
	}
	return schedules, rows.Err()
}
