package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/event-reservation/internal/repository"
)

// GuestEventHandler serves the public, unauthenticated event views.
type GuestEventHandler struct {
	events    *repository.EventRepo
	schedules *repository.ScheduleRepo
	questions *repository.FormQuestionRepo
}

// NewGuestEventHandler wires the guest browse endpoints.
func NewGuestEventHandler(events *repository.EventRepo, schedules *repository.ScheduleRepo, questions *repository.FormQuestionRepo) *GuestEventHandler {
	return &GuestEventHandler{events: events, schedules: schedules, questions: questions}
}

// ListPublic returns every publicly visible event.
func (h *GuestEventHandler) ListPublic(c echo.Context) error {
	events, err := h.events.ListPublic(c.Request().Context())
	if err != nil {
		return internalError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"events": events})
}

// GetByCode returns one event with its schedules, per-schedule seat
// availability and the intake-form questions a booking must answer.
// Private events stay reachable to anyone holding the code link.
func (h *GuestEventHandler) GetByCode(c echo.Context) error {
	ctx := c.Request().Context()

	event, err := h.events.GetByCode(ctx, c.Param("code"))
	if err != nil {
		return bookingError(c, err)
	}
	schedules, err := h.schedules.ListByEvent(ctx, event.ID)
	if err != nil {
		return internalError(c, err)
	}
	questions, err := h.questions.ListByEvent(ctx, event.ID)
	if err != nil {
		return internalError(c, err)
	}

	slots := make([]echo.Map, 0, len(schedules))
	for i := range schedules {
		s := &schedules[i]
		slots = append(slots, echo.Map{
			"id":              s.ID,
			"start_time":      s.StartTime,
			"end_time":        s.EndTime,
			"max_capacity":    s.MaxCapacity,
			"available_seats": s.AvailableSeats(),
			"sold_out":        s.IsFull(),
		})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"event":     event,
		"schedules": slots,
		"questions": questions,
	})
}
