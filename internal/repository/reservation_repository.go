package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/event-reservation/internal/model"
)

// ReservationRepo provides persistence for reservations and their
// form answers. Reservations are created only inside the booking
// transaction and never deleted: cancellation flips the status column.
type ReservationRepo struct {
	db *sql.DB
}

// NewReservationRepo returns a ReservationRepo bound to the given database.
func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{db: db} }

const reservationColumns = `id, schedule_id, guest_name, guest_contact, ticket_count,
	checkin_token, status, checked_in, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanReservation(row rowScanner) (*model.Reservation, error) {
	var (
		res     model.Reservation
		name    sql.NullString
		contact sql.NullString
	)
	err := row.Scan(&res.ID, &res.ScheduleID, &name, &contact, &res.TicketCount,
		&res.CheckinToken, &res.Status, &res.CheckedIn, &res.CreatedAt, &res.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrReservationNotFound
	}
	if err != nil {
		return nil, err
	}
	res.GuestName = name.String
	res.GuestContact = contact.String
	return &res, nil
}

// CreateTx inserts a reservation and its answers within the provided
// transaction, populating the generated IDs. The caller must commit
// or roll back.
func (r *ReservationRepo) CreateTx(ctx context.Context, tx *sql.Tx, res *model.Reservation) error {
	const q = `INSERT INTO reservations
	           (schedule_id, guest_name, guest_contact, ticket_count, checkin_token, status, checked_in)
	           VALUES (?, ?, ?, ?, ?, ?, ?)`
	result, err := tx.ExecContext(ctx, q, res.ScheduleID,
		nullable(res.GuestName), nullable(res.GuestContact),
		res.TicketCount, res.CheckinToken, res.Status, res.CheckedIn)
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	res.ID = uint64(id)

	if len(res.Answers) == 0 {
		return nil
	}
	insert := `INSERT INTO form_answers (reservation_id, question_id, answer_text) VALUES `
	args := make([]any, 0, len(res.Answers)*3)
	for i := range res.Answers {
		if i > 0 {
			insert += ","
		}
		insert += "(?, ?, ?)"
		res.Answers[i].ReservationID = res.ID
		args = append(args, res.ID, res.Answers[i].QuestionID, res.Answers[i].AnswerText)
	}
	_, err = tx.ExecContext(ctx, insert, args...)
	return err
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// GetForUpdateTx loads a reservation with an exclusive row lock.
func (r *ReservationRepo) GetForUpdateTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.Reservation, error) {
	const q = `SELECT ` + reservationColumns + ` FROM reservations WHERE id = ? FOR UPDATE`
	return scanReservation(tx.QueryRowContext(ctx, q, id))
}

// GetByTokenForUpdateTx loads a reservation by check-in token with an
// exclusive row lock.
func (r *ReservationRepo) GetByTokenForUpdateTx(ctx context.Context, tx *sql.Tx, token string) (*model.Reservation, error) {
	const q = `SELECT ` + reservationColumns + ` FROM reservations WHERE checkin_token = ? FOR UPDATE`
	return scanReservation(tx.QueryRowContext(ctx, q, token))
}

// UpdateTx persists the status and checked_in columns within the
// provided transaction.
func (r *ReservationRepo) UpdateTx(ctx context.Context, tx *sql.Tx, res *model.Reservation) error {
	const q = `UPDATE reservations SET status = ?, checked_in = ? WHERE id = ?`
	_, err := tx.ExecContext(ctx, q, res.Status, res.CheckedIn, res.ID)
	return err
}

// ExistsActiveTx reports whether a CONFIRMED reservation with the
// given contact exists on the schedule. It must run while the
// schedule's row lock is held so a concurrent duplicate cannot slip in
// between this check and the insert.
func (r *ReservationRepo) ExistsActiveTx(ctx context.Context, tx *sql.Tx, scheduleID uint64, contact string) (bool, error) {
	const q = `SELECT EXISTS(
	             SELECT 1 FROM reservations
	             WHERE schedule_id = ? AND guest_contact = ? AND status = ?)`
	var exists bool
	err := tx.QueryRowContext(ctx, q, scheduleID, contact, model.StatusConfirmed).Scan(&exists)
	return exists, err
}

// GetByID loads a reservation and its answers without locking.
func (r *ReservationRepo) GetByID(ctx context.Context, id uint64) (*model.Reservation, error) {
	const q = `SELECT ` + reservationColumns + ` FROM reservations WHERE id = ?`
	res, err := scanReservation(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		return nil, err
	}
	if err := r.loadAnswers(ctx, res); err != nil {
		return nil, err
	}
	return res, nil
}

// GetByToken loads a reservation and its answers by check-in token.
func (r *ReservationRepo) GetByToken(ctx context.Context, token string) (*model.Reservation, error) {
	const q = `SELECT ` + reservationColumns + ` FROM reservations WHERE checkin_token = ?`
	res, err := scanReservation(r.db.QueryRowContext(ctx, q, token))
	if err != nil {
		return nil, err
	}
	if err := r.loadAnswers(ctx, res); err != nil {
		return nil, err
	}
	return res, nil
}

func (r *ReservationRepo) loadAnswers(ctx context.Context, res *model.Reservation) error {
	const q = `SELECT id, reservation_id, question_id, answer_text
	           FROM form_answers WHERE reservation_id = ? ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q, res.ID)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var a model.FormAnswer
		if err := rows.Scan(&a.ID, &a.ReservationID, &a.QuestionID, &a.AnswerText); err != nil {
			return err
		}
		res.Answers = append(res.Answers, a)
	}
	return rows.Err()
}

// Lookup returns the CONFIRMED reservations for a guest name and
// contact pair, newest first.
func (r *ReservationRepo) Lookup(ctx context.Context, guestName, guestContact string) ([]*model.Reservation, error) {
	const q = `SELECT ` + reservationColumns + ` FROM reservations
	           WHERE guest_name = ? AND guest_contact = ? AND status = ?
	           ORDER BY created_at DESC`
	return r.queryList(ctx, q, guestName, guestContact, model.StatusConfirmed)
}

// ListConfirmedBySchedule returns the CONFIRMED reservations of a
// schedule, oldest first. Used by the host schedule-status view.
func (r *ReservationRepo) ListConfirmedBySchedule(ctx context.Context, scheduleID uint64) ([]*model.Reservation, error) {
	const q = `SELECT ` + reservationColumns + ` FROM reservations
	           WHERE schedule_id = ? AND status = ?
	           ORDER BY created_at`
	return r.queryList(ctx, q, scheduleID, model.StatusConfirmed)
}

func (r *ReservationRepo) queryList(ctx context.Context, q string, args ...any) ([]*model.Reservation, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	list := make([]*model.Reservation, 0)
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, res)
	}
	return list, rows.Err()
}

// CheckedInTickets sums ticket_count over the checked-in CONFIRMED
// reservations of an event. Feeds the host dashboard.
func (r *ReservationRepo) CheckedInTickets(ctx context.Context, eventID uint64) (int, error) {
	const q = `SELECT COALESCE(SUM(r.ticket_count), 0)
	           FROM reservations r
	           JOIN event_schedules s ON s.id = r.schedule_id
	           WHERE s.event_id = ? AND r.status = ? AND r.checked_in = TRUE`
	var total int
	err := r.db.QueryRowContext(ctx, q, eventID, model.StatusConfirmed).Scan(&total)
	return total, err
}
