package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/event-reservation/internal/booking"
	"github.com/iliyamo/event-reservation/internal/middleware"
	"github.com/iliyamo/event-reservation/internal/repository"
)

// HostReservationHandler serves the host-side attendance surface:
// dashboards, per-schedule status, front-desk check-in and host
// cancellation.
type HostReservationHandler struct {
	svc          *booking.Service
	events       *repository.EventRepo
	schedules    *repository.ScheduleRepo
	reservations *repository.ReservationRepo
}

// NewHostReservationHandler wires the host reservation endpoints.
func NewHostReservationHandler(svc *booking.Service, events *repository.EventRepo, schedules *repository.ScheduleRepo, reservations *repository.ReservationRepo) *HostReservationHandler {
	return &HostReservationHandler{svc: svc, events: events, schedules: schedules, reservations: reservations}
}

// Dashboard aggregates occupancy over all schedules of an owned
// event: total and reserved seats, the reservation rate and how many
// tickets already checked in.
func (h *HostReservationHandler) Dashboard(c echo.Context) error {
	eventID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event id"})
	}
	ctx := c.Request().Context()

	event, err := h.events.GetOwned(ctx, eventID, middleware.HostID(c))
	if err != nil {
		return bookingError(c, err)
	}
	schedules, err := h.schedules.ListByEvent(ctx, event.ID)
	if err != nil {
		return internalError(c, err)
	}
	checkedIn, err := h.reservations.CheckedInTickets(ctx, event.ID)
	if err != nil {
		return internalError(c, err)
	}

	totalSeats, reserved := 0, 0
	slots := make([]echo.Map, 0, len(schedules))
	for i := range schedules {
		s := &schedules[i]
		totalSeats += s.MaxCapacity
		reserved += s.ReservedCount
		slots = append(slots, echo.Map{
			"id":              s.ID,
			"start_time":      s.StartTime,
			"end_time":        s.EndTime,
			"max_capacity":    s.MaxCapacity,
			"reserved_count":  s.ReservedCount,
			"available_seats": s.AvailableSeats(),
		})
	}
	rate := 0.0
	if totalSeats > 0 {
		rate = float64(reserved) / float64(totalSeats)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"event":            event,
		"total_seats":      totalSeats,
		"reserved_count":   reserved,
		"available_seats":  totalSeats - reserved,
		"reservation_rate": rate,
		"checked_in_count": checkedIn,
		"schedules":        slots,
	})
}

// ScheduleStatus returns one schedule's occupancy and its confirmed
// reservations, oldest first.
func (h *HostReservationHandler) ScheduleStatus(c echo.Context) error {
	scheduleID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid schedule id"})
	}
	ctx := c.Request().Context()

	if err := h.authorizeSchedule(c, scheduleID); err != nil {
		return bookingError(c, err)
	}
	schedule, err := h.schedules.GetByID(ctx, scheduleID)
	if err != nil {
		return bookingError(c, err)
	}
	reservations, err := h.reservations.ListConfirmedBySchedule(ctx, scheduleID)
	if err != nil {
		return internalError(c, err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"schedule":        schedule,
		"available_seats": schedule.AvailableSeats(),
		"sold_out":        schedule.IsFull(),
		"reservations":    reservations,
	})
}

// Reservation returns one reservation with its answers, after
// checking the authenticated host owns its event.
func (h *HostReservationHandler) Reservation(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	res, err := h.svc.GetReservation(c.Request().Context(), id)
	if err != nil {
		return bookingError(c, err)
	}
	if err := h.authorizeSchedule(c, res.ScheduleID); err != nil {
		return bookingError(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

// Cancel is the host-side cancellation path. Same rules as the guest
// path: a checked-in reservation cannot be cancelled.
func (h *HostReservationHandler) Cancel(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	res, err := h.svc.GetReservation(c.Request().Context(), id)
	if err != nil {
		return bookingError(c, err)
	}
	if err := h.authorizeSchedule(c, res.ScheduleID); err != nil {
		return bookingError(c, err)
	}
	if err := h.svc.CancelReservation(c.Request().Context(), id); err != nil {
		return bookingError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"status": "cancelled"})
}

type checkinTokenRequest struct {
	Token string `json:"token"`
}

// CheckInByToken marks the reservation behind a scanned QR token as
// entered.
func (h *HostReservationHandler) CheckInByToken(c echo.Context) error {
	var req checkinTokenRequest
	if err := c.Bind(&req); err != nil || req.Token == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "token is required"})
	}
	res, err := h.svc.GetReservationByToken(c.Request().Context(), req.Token)
	if err != nil {
		return bookingError(c, err)
	}
	if err := h.authorizeSchedule(c, res.ScheduleID); err != nil {
		return bookingError(c, err)
	}
	checked, err := h.svc.CheckInByToken(c.Request().Context(), req.Token)
	if err != nil {
		return bookingError(c, err)
	}
	return c.JSON(http.StatusOK, checked)
}

// CheckInByID is the manual fallback when a code will not scan.
func (h *HostReservationHandler) CheckInByID(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	res, err := h.svc.GetReservation(c.Request().Context(), id)
	if err != nil {
		return bookingError(c, err)
	}
	if err := h.authorizeSchedule(c, res.ScheduleID); err != nil {
		return bookingError(c, err)
	}
	checked, err := h.svc.CheckInByID(c.Request().Context(), id)
	if err != nil {
		return bookingError(c, err)
	}
	return c.JSON(http.StatusOK, checked)
}

// authorizeSchedule verifies the schedule's event belongs to the
// authenticated host.
func (h *HostReservationHandler) authorizeSchedule(c echo.Context, scheduleID uint64) error {
	hostID, err := h.events.HostIDForSchedule(c.Request().Context(), scheduleID)
	if err != nil {
		return err
	}
	if hostID != middleware.HostID(c) {
		return repository.ErrForbidden
	}
	return nil
}
