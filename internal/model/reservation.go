package model

import (
	"time"

	"github.com/google/uuid"
)

// ReservationStatus is the lifecycle state of a reservation. A
// reservation is never deleted; cancellation is a status transition.
type ReservationStatus string

const (
	StatusConfirmed ReservationStatus = "CONFIRMED"
	StatusCancelled ReservationStatus = "CANCELLED"
)

// Reservation is one booking transaction against a schedule, possibly
// covering several seats. The check-in token is an opaque unique value
// issued at creation and used for QR lookup and front-desk scanning.
//
// Fields:
//
//	ID           – primary key of the reservations row.
//	ScheduleID   – schedule the seats are booked on.
//	GuestName    – display name; optional.
//	GuestContact – contact value used as the dedup key; optional.
//	TicketCount  – seats covered by this booking (>= 1).
//	CheckinToken – opaque token for lookup and check-in.
//	Status       – CONFIRMED or CANCELLED.
//	CheckedIn    – whether the guest has entered; may only become
//	               true while Status is CONFIRMED.
//	Answers      – intake-form answers captured at booking time.
type Reservation struct {
	ID           uint64            `json:"id"`
	ScheduleID   uint64            `json:"schedule_id"`
	GuestName    string            `json:"guest_name,omitempty"`
	GuestContact string            `json:"guest_contact,omitempty"`
	TicketCount  int               `json:"ticket_count"`
	CheckinToken string            `json:"checkin_token"`
	Status       ReservationStatus `json:"status"`
	CheckedIn    bool              `json:"checked_in"`
	Answers      []FormAnswer      `json:"answers,omitempty"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"-"`
}

// NewReservation builds a CONFIRMED reservation with a fresh check-in
// token. A ticketCount of zero or less defaults to one seat.
func NewReservation(scheduleID uint64, guestName, guestContact string, ticketCount int) *Reservation {
	if ticketCount <= 0 {
		ticketCount = 1
	}
	return &Reservation{
		ScheduleID:   scheduleID,
		GuestName:    guestName,
		GuestContact: guestContact,
		TicketCount:  ticketCount,
		CheckinToken: uuid.NewString(),
		Status:       StatusConfirmed,
		CheckedIn:    false,
	}
}

// Active reports whether the reservation still occupies seats.
func (r *Reservation) Active() bool {
	return r.Status == StatusConfirmed
}

// Cancel transitions the reservation to CANCELLED. Guard order is
// fixed: an already-cancelled reservation fails ErrAlreadyCancelled
// before the checked-in guard, and cancelling a checked-in ticket is a
// hard ErrAlreadyCheckedIn conflict, never a silent no-op. The caller
// is responsible for releasing TicketCount seats back to the schedule
// in the same unit of work.
func (r *Reservation) Cancel() error {
	if r.Status == StatusCancelled {
		return ErrAlreadyCancelled
	}
	if r.CheckedIn {
		return ErrAlreadyCheckedIn
	}
	r.Status = StatusCancelled
	return nil
}

// CheckIn marks the guest as entered. A cancelled reservation fails
// ErrReservationCancelled; a second scan fails ErrAlreadyCheckedIn so
// front-desk double-scans surface as conflicts.
func (r *Reservation) CheckIn() error {
	if r.Status == StatusCancelled {
		return ErrReservationCancelled
	}
	if r.CheckedIn {
		return ErrAlreadyCheckedIn
	}
	r.CheckedIn = true
	return nil
}
