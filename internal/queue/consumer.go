package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// consumerLogFile is where consumed confirmations are appended, one
// line per event.
const consumerLogFile = "logs/reservations.log"

// StartConsumer runs a reconnecting consumer for the confirmation
// queue until ctx is cancelled. Each event is appended to the
// reservation log file. Intended to run in its own goroutine.
func StartConsumer(ctx context.Context, url string) {
	backoff := time.Second
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		if err := consumeOnce(ctx, url); err != nil {
			log.Printf("[consumer] %v, retrying in %s", err, backoff)
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(backoff):
		}
		if backoff < 30*time.Second {
			backoff *= 2
		}
	}
}

func consumeOnce(ctx context.Context, url string) error {
	conn, err := amqp.Dial(url)
	if err != nil {
		return fmt.Errorf("dial broker: %w", err)
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("open channel: %w", err)
	}
	defer ch.Close()

	if _, err := ch.QueueDeclare(QueueReservationConfirmed, true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare queue: %w", err)
	}

	deliveries, err := ch.Consume(QueueReservationConfirmed, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("consume: %w", err)
	}
	log.Printf("[consumer] listening on %s", QueueReservationConfirmed)

	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-deliveries:
			if !ok {
				return fmt.Errorf("delivery channel closed")
			}
			if err := recordConfirmation(d.Body); err != nil {
				log.Printf("[consumer] record confirmation: %v", err)
				_ = d.Nack(false, true)
				continue
			}
			_ = d.Ack(false)
		}
	}
}

// recordConfirmation appends one confirmation line to the log file.
func recordConfirmation(body []byte) error {
	var evt ReservationConfirmedEvent
	if err := json.Unmarshal(body, &evt); err != nil {
		return fmt.Errorf("decode event: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(consumerLogFile), 0o755); err != nil {
		return fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(consumerLogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer f.Close()

	line := fmt.Sprintf("%s reservation=%d schedule=%d event=%d guest=%q tickets=%d\n",
		evt.ConfirmedAt.Format(time.RFC3339), evt.ReservationID, evt.ScheduleID,
		evt.EventID, evt.GuestName, evt.TicketCount)
	if _, err := f.WriteString(line); err != nil {
		return fmt.Errorf("write log line: %w", err)
	}
	return nil
}
