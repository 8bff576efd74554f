package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/event-reservation/internal/model"
	"github.com/iliyamo/event-reservation/internal/repository"
)

// internalError logs the real cause and answers with an opaque 500.
func internalError(c echo.Context, err error) error {
	log.Printf("[http] %s %s: %v", c.Request().Method, c.Request().URL.Path, err)
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal server error"})
}

// bookingError maps booking-core failures onto HTTP answers. Missing
// or unknown resources are 404, capacity and lifecycle conflicts 409,
// form violations 400; everything else is an internal failure.
func bookingError(c echo.Context, err error) error {
	var missing *model.MissingAnswerError
	switch {
	case errors.Is(err, model.ErrEventNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "event not found"})
	case errors.Is(err, model.ErrScheduleNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "schedule not found"})
	case errors.Is(err, model.ErrReservationNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
	case errors.Is(err, model.ErrSoldOut):
		return c.JSON(http.StatusConflict, echo.Map{"error": "schedule is sold out"})
	case errors.Is(err, model.ErrInsufficientSeats):
		return c.JSON(http.StatusConflict, echo.Map{"error": "not enough seats remaining"})
	case errors.Is(err, model.ErrDuplicateBooking):
		return c.JSON(http.StatusConflict, echo.Map{"error": "an active reservation already exists for this contact"})
	case errors.Is(err, model.ErrAlreadyCancelled):
		return c.JSON(http.StatusConflict, echo.Map{"error": "reservation is already cancelled"})
	case errors.Is(err, model.ErrAlreadyCheckedIn):
		return c.JSON(http.StatusConflict, echo.Map{"error": "reservation is already checked in"})
	case errors.Is(err, model.ErrReservationCancelled):
		return c.JSON(http.StatusConflict, echo.Map{"error": "reservation is cancelled"})
	case errors.Is(err, model.ErrUnknownQuestion):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "answer references an unknown question"})
	case errors.As(err, &missing):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": missing.Error()})
	case errors.Is(err, repository.ErrForbidden):
		return c.JSON(http.StatusForbidden, echo.Map{"error": "not your event"})
	}
	return internalError(c, err)
}
