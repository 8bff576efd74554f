package queue

import (
	"context"
	"encoding/json"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/iliyamo/event-reservation/internal/booking"
	"github.com/iliyamo/event-reservation/internal/model"
)

// Publisher emits reservation events to RabbitMQ. Publish failures
// are logged and swallowed; a booking that already committed is never
// rolled back because the broker hiccuped.
type Publisher struct {
	conn *amqp.Connection
	ch   *amqp.Channel
}

var _ booking.Publisher = (*Publisher)(nil)

// NewPublisher connects to the broker and declares the durable
// confirmation queue.
func NewPublisher(url string) (*Publisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	if _, err := ch.QueueDeclare(QueueReservationConfirmed, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, err
	}
	return &Publisher{conn: conn, ch: ch}, nil
}

// ReservationConfirmed publishes a confirmation event for a committed
// booking.
func (p *Publisher) ReservationConfirmed(ctx context.Context, r *model.Reservation, s *model.EventSchedule) {
	evt := ReservationConfirmedEvent{
		ReservationID: r.ID,
		ScheduleID:    s.ID,
		EventID:       s.EventID,
		GuestName:     r.GuestName,
		TicketCount:   r.TicketCount,
		CheckinToken:  r.CheckinToken,
		ConfirmedAt:   time.Now().UTC(),
	}
	body, err := json.Marshal(evt)
	if err != nil {
		log.Printf("[queue] marshal confirmation for reservation %d: %v", r.ID, err)
		return
	}

	pubCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	err = p.ch.PublishWithContext(pubCtx, "", QueueReservationConfirmed, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Body:         body,
	})
	if err != nil {
		log.Printf("[queue] publish confirmation for reservation %d: %v", r.ID, err)
	}
}

// Close releases the channel and connection.
func (p *Publisher) Close() {
	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.conn != nil {
		_ = p.conn.Close()
	}
}
