// Package booking implements the admission-control core: the single
// code path allowed to mutate a schedule's seat counter, plus the
// cancel and check-in transitions of the reservation state machine.
// It runs against the Store/Tx pair below so the same coordinator
// drives the MySQL store in production and an in-memory store in
// tests.
package booking

import (
	"context"

	"github.com/iliyamo/event-reservation/internal/model"
)

// Store provides transactional access to reservation state. RunInTx
// executes fn inside one unit of work: every mutation fn performs
// through the Tx becomes durable together on a nil return, and none of
// them survive a non-nil return. Locks acquired through the Tx are
// held until the unit of work ends.
//
// The read methods outside RunInTx are eventually-consistent
// snapshots; they never take the exclusive hold.
type Store interface {
	RunInTx(ctx context.Context, fn func(tx Tx) error) error

	ReservationByID(ctx context.Context, id uint64) (*model.Reservation, error)
	ReservationByToken(ctx context.Context, token string) (*model.Reservation, error)
	LookupReservations(ctx context.Context, guestName, guestContact string) ([]*model.Reservation, error)
}

// Tx is the view of the store inside one unit of work.
//
// ScheduleForUpdate is the exclusive hold of the capacity ledger: it
// blocks any concurrent ScheduleForUpdate on the same id until this
// unit of work commits or rolls back, and fails with
// model.ErrScheduleNotFound for an unknown id. Every unit of work
// touches at most one schedule's hold, so no lock-ordering cycle is
// possible.
type Tx interface {
	ScheduleForUpdate(ctx context.Context, scheduleID uint64) (*model.EventSchedule, error)

	// SaveScheduleCount persists the (already mutated) ReservedCount
	// of a schedule previously returned by ScheduleForUpdate.
	SaveScheduleCount(ctx context.Context, schedule *model.EventSchedule) error

	// HasActiveReservation reports whether a CONFIRMED reservation
	// with the given contact already exists on the schedule. Only
	// meaningful while the schedule's hold is taken.
	HasActiveReservation(ctx context.Context, scheduleID uint64, guestContact string) (bool, error)

	// CreateReservation persists a new reservation and its answers,
	// assigning its ID.
	CreateReservation(ctx context.Context, r *model.Reservation) error

	// ReservationForUpdate loads a reservation with an exclusive row
	// hold, failing with model.ErrReservationNotFound if absent.
	ReservationForUpdate(ctx context.Context, id uint64) (*model.Reservation, error)

	// ReservationByTokenForUpdate is ReservationForUpdate keyed by
	// check-in token.
	ReservationByTokenForUpdate(ctx context.Context, token string) (*model.Reservation, error)

	// UpdateReservation persists status and checked-in changes.
	UpdateReservation(ctx context.Context, r *model.Reservation) error

	// EventQuestions returns all form questions of an event.
	EventQuestions(ctx context.Context, eventID uint64) ([]model.FormQuestion, error)
}

// Publisher receives a notification after a reservation has been
// durably confirmed. Implementations must not fail the booking:
// errors are logged and dropped by the caller.
type Publisher interface {
	ReservationConfirmed(ctx context.Context, r *model.Reservation, s *model.EventSchedule)
}
