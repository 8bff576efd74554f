package booking

import (
	"context"
	"errors"
	"log"
	"strings"

	"github.com/iliyamo/event-reservation/internal/model"
)

// Service is the booking coordinator. All seat-count mutations go
// through its methods; dashboards and listings read around it.
type Service struct {
	store     Store
	publisher Publisher // optional; nil disables notifications
}

// NewService builds a Service. publisher may be nil.
func NewService(store Store, publisher Publisher) *Service {
	if store == nil {
		panic("nil store passed to booking.NewService")
	}
	return &Service{store: store, publisher: publisher}
}

// AnswerInput is one submitted intake-form answer.
type AnswerInput struct {
	QuestionID uint64 `json:"question_id"`
	AnswerText string `json:"answer_text"`
}

// CreateReservationInput carries one booking attempt. TicketCount of
// zero or less means one seat.
type CreateReservationInput struct {
	ScheduleID   uint64
	GuestName    string
	GuestContact string
	TicketCount  int
	Answers      []AnswerInput
}

// CreateReservation runs one booking attempt as a single atomic unit:
// it takes the schedule's exclusive hold, rejects duplicate active
// bookings for the same contact, reserves the seats, builds the
// reservation with its answers, validates the intake form and
// persists everything. Any failure after the capacity reservation
// rolls the counter change back too; no partial state is ever
// observable.
//
// Expected failures: model.ErrScheduleNotFound, model.ErrSoldOut,
// model.ErrInsufficientSeats, model.ErrDuplicateBooking,
// model.ErrUnknownQuestion and *model.MissingAnswerError.
func (s *Service) CreateReservation(ctx context.Context, in CreateReservationInput) (*model.Reservation, error) {
	contact := strings.TrimSpace(in.GuestContact)

	var (
		created  *model.Reservation
		schedule *model.EventSchedule
	)
	err := s.store.RunInTx(ctx, func(tx Tx) error {
		sched, err := tx.ScheduleForUpdate(ctx, in.ScheduleID)
		if err != nil {
			return err
		}

		// Anonymous bookings (blank contact) are not deduplicated.
		if contact != "" {
			dup, err := tx.HasActiveReservation(ctx, sched.ID, contact)
			if err != nil {
				return err
			}
			if dup {
				return model.ErrDuplicateBooking
			}
		}

		res := model.NewReservation(sched.ID, strings.TrimSpace(in.GuestName), contact, in.TicketCount)
		if err := sched.Reserve(res.TicketCount); err != nil {
			return err
		}
		if err := tx.SaveScheduleCount(ctx, sched); err != nil {
			return err
		}

		for _, a := range in.Answers {
			res.Answers = append(res.Answers, model.FormAnswer{
				QuestionID: a.QuestionID,
				AnswerText: a.AnswerText,
			})
		}

		// Form validation runs after the seats were provisionally
		// reserved; returning an error here discards the counter
		// change with the rest of the unit of work.
		questions, err := tx.EventQuestions(ctx, sched.EventID)
		if err != nil {
			return err
		}
		if err := validateAnswers(questions, res.Answers); err != nil {
			return err
		}

		if err := tx.CreateReservation(ctx, res); err != nil {
			return err
		}
		created = res
		schedule = sched
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.publisher != nil {
		s.publisher.ReservationConfirmed(ctx, created, schedule)
	}
	return created, nil
}

// validateAnswers enforces that every required question has exactly
// one non-blank answer and that no answer references a question
// outside the event. The first violation found is reported.
func validateAnswers(questions []model.FormQuestion, answers []model.FormAnswer) error {
	byID := make(map[uint64]*model.FormQuestion, len(questions))
	for i := range questions {
		byID[questions[i].ID] = &questions[i]
	}

	answered := make(map[uint64]bool, len(answers))
	for _, a := range answers {
		q, ok := byID[a.QuestionID]
		if !ok {
			return model.ErrUnknownQuestion
		}
		if strings.TrimSpace(a.AnswerText) != "" {
			answered[q.ID] = true
		}
	}

	for _, q := range questions {
		if q.IsRequired && !answered[q.ID] {
			return &model.MissingAnswerError{QuestionText: q.QuestionText}
		}
	}
	return nil
}

// CancelReservation transitions a reservation to CANCELLED and gives
// its seats back to the schedule, both inside one unit of work under
// the schedule's exclusive hold. Fails model.ErrReservationNotFound,
// model.ErrAlreadyCancelled or model.ErrAlreadyCheckedIn.
func (s *Service) CancelReservation(ctx context.Context, reservationID uint64) error {
	return s.store.RunInTx(ctx, func(tx Tx) error {
		// Resolve the schedule id first, then take the schedule hold
		// before the reservation row so every writer serializes on
		// the same lock.
		peek, err := s.store.ReservationByID(ctx, reservationID)
		if err != nil {
			return err
		}
		sched, err := tx.ScheduleForUpdate(ctx, peek.ScheduleID)
		if err != nil {
			return err
		}
		res, err := tx.ReservationForUpdate(ctx, reservationID)
		if err != nil {
			return err
		}
		if err := res.Cancel(); err != nil {
			return err
		}
		if err := sched.Release(res.TicketCount); err != nil {
			// Reserved count out of sync with confirmed tickets:
			// a bug, not a user error. Log loudly, answer opaquely.
			log.Printf("booking: invariant violation releasing %d seats on schedule %d: %v",
				res.TicketCount, sched.ID, err)
			return err
		}
		if err := tx.SaveScheduleCount(ctx, sched); err != nil {
			return err
		}
		return tx.UpdateReservation(ctx, res)
	})
}

// CheckInByToken marks the reservation behind a scanned token as
// entered. Fails model.ErrReservationNotFound,
// model.ErrReservationCancelled or model.ErrAlreadyCheckedIn.
func (s *Service) CheckInByToken(ctx context.Context, token string) (*model.Reservation, error) {
	return s.checkIn(ctx, func(tx Tx) (*model.Reservation, error) {
		return tx.ReservationByTokenForUpdate(ctx, token)
	})
}

// CheckInByID is the manual (non-QR) check-in path.
func (s *Service) CheckInByID(ctx context.Context, reservationID uint64) (*model.Reservation, error) {
	return s.checkIn(ctx, func(tx Tx) (*model.Reservation, error) {
		return tx.ReservationForUpdate(ctx, reservationID)
	})
}

func (s *Service) checkIn(ctx context.Context, load func(tx Tx) (*model.Reservation, error)) (*model.Reservation, error) {
	var checked *model.Reservation
	err := s.store.RunInTx(ctx, func(tx Tx) error {
		res, err := load(tx)
		if err != nil {
			return err
		}
		if err := res.CheckIn(); err != nil {
			return err
		}
		if err := tx.UpdateReservation(ctx, res); err != nil {
			return err
		}
		checked = res
		return nil
	})
	if err != nil {
		return nil, err
	}
	return checked, nil
}

// GetReservation returns a reservation by id. Pure read.
func (s *Service) GetReservation(ctx context.Context, id uint64) (*model.Reservation, error) {
	return s.store.ReservationByID(ctx, id)
}

// GetReservationByToken returns a reservation by check-in token.
func (s *Service) GetReservationByToken(ctx context.Context, token string) (*model.Reservation, error) {
	return s.store.ReservationByToken(ctx, token)
}

// LookupReservations returns the CONFIRMED reservations matching a
// guest name and contact pair.
func (s *Service) LookupReservations(ctx context.Context, guestName, guestContact string) ([]*model.Reservation, error) {
	return s.store.LookupReservations(ctx, strings.TrimSpace(guestName), strings.TrimSpace(guestContact))
}

// IsExpected reports whether err is one of the business rejections a
// handler should map to a 4xx answer, as opposed to an internal
// failure.
func IsExpected(err error) bool {
	var missing *model.MissingAnswerError
	switch {
	case errors.Is(err, model.ErrScheduleNotFound),
		errors.Is(err, model.ErrReservationNotFound),
		errors.Is(err, model.ErrSoldOut),
		errors.Is(err, model.ErrInsufficientSeats),
		errors.Is(err, model.ErrDuplicateBooking),
		errors.Is(err, model.ErrUnknownQuestion),
		errors.Is(err, model.ErrAlreadyCancelled),
		errors.Is(err, model.ErrAlreadyCheckedIn),
		errors.Is(err, model.ErrReservationCancelled),
		errors.As(err, &missing):
		return true
	}
	return false
}
