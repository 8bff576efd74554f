// Package model defines the domain types shared by the repository,
// booking and handler layers, together with the sentinel errors that
// describe every business-level rejection. Handlers translate these
// errors into HTTP status codes; nothing in this package knows about
// transport.
package model

import (
	"errors"
	"fmt"
)

// Not-found errors. Surfaced directly to the caller; never retried.
var (
	ErrEventNotFound       = errors.New("event not found")
	ErrScheduleNotFound    = errors.New("schedule not found")
	ErrReservationNotFound = errors.New("reservation not found")
)

// Admission rejections. Expected outcomes of contention, not bugs.
// ErrSoldOut means the schedule was already at capacity before the
// request; ErrInsufficientSeats means the schedule has seats left but
// fewer than requested. Callers render the two differently.
var (
	ErrSoldOut           = errors.New("schedule is sold out")
	ErrInsufficientSeats = errors.New("not enough seats remaining")
	ErrDuplicateBooking  = errors.New("guest already has an active reservation for this schedule")
)

// State-machine violations on an existing reservation.
var (
	ErrAlreadyCancelled     = errors.New("reservation is already cancelled")
	ErrAlreadyCheckedIn     = errors.New("reservation is already checked in")
	ErrReservationCancelled = errors.New("reservation is cancelled")
)

// ErrUnknownQuestion rejects a submitted answer that references a
// question id that does not exist or belongs to a different event.
var ErrUnknownQuestion = errors.New("unknown form question")

// ErrNegativeSeatCount signals that a release would drive a schedule's
// reserved count below zero. This is an internal invariant violation,
// not a user error: callers must log it loudly and answer with a
// generic internal error.
var ErrNegativeSeatCount = errors.New("reserved count would become negative")

// MissingAnswerError reports a required question that has no non-blank
// answer. The question text is carried so the guest sees which field
// was left empty.
type MissingAnswerError struct {
	QuestionText string
}

func (e *MissingAnswerError) Error() string {
	return fmt.Sprintf("required question has no answer: %s", e.QuestionText)
}
