// Package queue publishes and consumes reservation events over
// RabbitMQ. The queue is durable so confirmations survive a broker
// restart.
package queue

import "time"

// QueueReservationConfirmed is the durable queue reservation
// confirmations are published to.
const QueueReservationConfirmed = "reservation.confirmed"

// ReservationConfirmedEvent is the message emitted after a booking
// commits.
type ReservationConfirmedEvent struct {
	ReservationID uint64    `json:"reservation_id"`
	ScheduleID    uint64    `json:"schedule_id"`
	EventID       uint64    `json:"event_id"`
	GuestName     string    `json:"guest_name"`
	TicketCount   int       `json:"ticket_count"`
	CheckinToken  string    `json:"checkin_token"`
	ConfirmedAt   time.Time `json:"confirmed_at"`
}
