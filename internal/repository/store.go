package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/iliyamo/event-reservation/internal/booking"
	"github.com/iliyamo/event-reservation/internal/model"
)

// Store adapts the SQL repositories to the booking core's Store
// interface. RunInTx is the unit-of-work boundary: the FOR UPDATE row
// locks taken inside it are released when the transaction commits or
// rolls back, which is what makes the per-schedule hold exclusive.
type Store struct {
	db           *sql.DB
	schedules    *ScheduleRepo
	reservations *ReservationRepo
	questions    *FormQuestionRepo
}

// NewStore builds a Store over one shared database handle.
func NewStore(db *sql.DB) *Store {
	return &Store{
		db:           db,
		schedules:    NewScheduleRepo(db),
		reservations: NewReservationRepo(db),
		questions:    NewFormQuestionRepo(db),
	}
}

var _ booking.Store = (*Store)(nil)

// RunInTx executes fn inside a single transaction. A nil return
// commits; any error rolls back every change fn made, including
// capacity updates.
func (s *Store) RunInTx(ctx context.Context, fn func(tx booking.Tx) error) error {
	sqltx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = sqltx.Rollback()
		}
	}()
	if err := fn(&storeTx{store: s, tx: sqltx}); err != nil {
		return err
	}
	if err := sqltx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	committed = true
	return nil
}

// ReservationByID implements booking.Store.
func (s *Store) ReservationByID(ctx context.Context, id uint64) (*model.Reservation, error) {
	return s.reservations.GetByID(ctx, id)
}

// ReservationByToken implements booking.Store.
func (s *Store) ReservationByToken(ctx context.Context, token string) (*model.Reservation, error) {
	return s.reservations.GetByToken(ctx, token)
}

// LookupReservations implements booking.Store.
func (s *Store) LookupReservations(ctx context.Context, guestName, guestContact string) ([]*model.Reservation, error) {
	return s.reservations.Lookup(ctx, guestName, guestContact)
}

// storeTx carries one open *sql.Tx through the booking.Tx methods.
type storeTx struct {
	store *Store
	tx    *sql.Tx
}

var _ booking.Tx = (*storeTx)(nil)

func (t *storeTx) ScheduleForUpdate(ctx context.Context, scheduleID uint64) (*model.EventSchedule, error) {
	return t.store.schedules.GetForUpdateTx(ctx, t.tx, scheduleID)
}

func (t *storeTx) SaveScheduleCount(ctx context.Context, schedule *model.EventSchedule) error {
	return t.store.schedules.UpdateCountTx(ctx, t.tx, schedule)
}

func (t *storeTx) HasActiveReservation(ctx context.Context, scheduleID uint64, guestContact string) (bool, error) {
	return t.store.reservations.ExistsActiveTx(ctx, t.tx, scheduleID, guestContact)
}

func (t *storeTx) CreateReservation(ctx context.Context, r *model.Reservation) error {
	return t.store.reservations.CreateTx(ctx, t.tx, r)
}

func (t *storeTx) ReservationForUpdate(ctx context.Context, id uint64) (*model.Reservation, error) {
	return t.store.reservations.GetForUpdateTx(ctx, t.tx, id)
}

func (t *storeTx) ReservationByTokenForUpdate(ctx context.Context, token string) (*model.Reservation, error) {
	return t.store.reservations.GetByTokenForUpdateTx(ctx, t.tx, token)
}

func (t *storeTx) UpdateReservation(ctx context.Context, r *model.Reservation) error {
	return t.store.reservations.UpdateTx(ctx, t.tx, r)
}

func (t *storeTx) EventQuestions(ctx context.Context, eventID uint64) ([]model.FormQuestion, error) {
	return t.store.questions.ListByEventTx(ctx, t.tx, eventID)
}
