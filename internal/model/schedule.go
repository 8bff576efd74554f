package model

import "time"

// EventSchedule is one bookable time slot of an event with a finite
// number of seats. ReservedCount is the single source of truth for
// occupancy and is mutated only while the caller holds the schedule's
// exclusive row lock; the invariant 0 <= ReservedCount <= MaxCapacity
// must hold at every commit.
//
// Fields:
//
//	ID            – primary key of the event_schedules row.
//	EventID       – owning event.
//	StartTime     – when the session begins (UTC).
//	EndTime       – when the session ends (UTC).
//	MaxCapacity   – total seats; immutable after creation.
//	ReservedCount – seats currently held by CONFIRMED reservations.
//	CreatedAt     – row creation timestamp.
//	UpdatedAt     – last modification timestamp.
type EventSchedule struct {
	ID            uint64    `json:"id"`
	EventID       uint64    `json:"event_id"`
	StartTime     time.Time `json:"start_time"`
	EndTime       time.Time `json:"end_time"`
	MaxCapacity   int       `json:"max_capacity"`
	ReservedCount int       `json:"reserved_count"`
	CreatedAt     time.Time `json:"-"`
	UpdatedAt     time.Time `json:"-"`
}

// AvailableSeats returns the number of seats still open.
func (s *EventSchedule) AvailableSeats() int {
	return s.MaxCapacity - s.ReservedCount
}

// IsFull reports whether no seats remain.
func (s *EventSchedule) IsFull() bool {
	return s.ReservedCount >= s.MaxCapacity
}

// Reserve takes count seats. It returns ErrSoldOut when the schedule
// was already full before this request and ErrInsufficientSeats when
// fewer than count seats remain. The caller must hold the schedule's
// exclusive lock for the whole unit of work.
func (s *EventSchedule) Reserve(count int) error {
	if s.ReservedCount+count > s.MaxCapacity {
		if s.IsFull() {
			return ErrSoldOut
		}
		return ErrInsufficientSeats
	}
	s.ReservedCount += count
	return nil
}

// Release returns count seats to the schedule, e.g. on cancellation.
// A release that would make the counter negative returns
// ErrNegativeSeatCount: that never corresponds to a valid user action
// and indicates a bookkeeping bug.
func (s *EventSchedule) Release(count int) error {
	if count > s.ReservedCount {
		return ErrNegativeSeatCount
	}
	s.ReservedCount -= count
	return nil
}
