package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/event-reservation/internal/booking"
)

// GuestReservationHandler serves the guest-facing booking surface:
// creating, viewing, looking up and cancelling reservations.
type GuestReservationHandler struct {
	svc *booking.Service
}

// NewGuestReservationHandler wires the guest reservation endpoints.
func NewGuestReservationHandler(svc *booking.Service) *GuestReservationHandler {
	return &GuestReservationHandler{svc: svc}
}

type createReservationRequest struct {
	ScheduleID   uint64                `json:"schedule_id"`
	GuestName    string                `json:"guest_name"`
	GuestContact string                `json:"guest_contact"`
	TicketCount  int                   `json:"ticket_count"`
	Answers      []booking.AnswerInput `json:"answers"`
}

// Create books seats on a schedule. The whole attempt is atomic; on
// any rejection nothing was reserved.
func (h *GuestReservationHandler) Create(c echo.Context) error {
	var req createReservationRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if req.ScheduleID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "schedule_id is required"})
	}

	res, err := h.svc.CreateReservation(c.Request().Context(), booking.CreateReservationInput{
		ScheduleID:   req.ScheduleID,
		GuestName:    req.GuestName,
		GuestContact: req.GuestContact,
		TicketCount:  req.TicketCount,
		Answers:      req.Answers,
	})
	if err != nil {
		return bookingError(c, err)
	}
	return c.JSON(http.StatusCreated, res)
}

// Get returns a reservation by numeric id.
func (h *GuestReservationHandler) Get(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	res, err := h.svc.GetReservation(c.Request().Context(), id)
	if err != nil {
		return bookingError(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

// GetByToken returns a reservation by its check-in token. This backs
// the confirmation page a guest reaches from their QR link.
func (h *GuestReservationHandler) GetByToken(c echo.Context) error {
	token := c.Param("token")
	if token == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "token is required"})
	}
	res, err := h.svc.GetReservationByToken(c.Request().Context(), token)
	if err != nil {
		return bookingError(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

// Lookup finds a guest's confirmed reservations by name and contact.
func (h *GuestReservationHandler) Lookup(c echo.Context) error {
	name := strings.TrimSpace(c.QueryParam("guest_name"))
	contact := strings.TrimSpace(c.QueryParam("guest_contact"))
	if name == "" || contact == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "guest_name and guest_contact are required"})
	}
	list, err := h.svc.LookupReservations(c.Request().Context(), name, contact)
	if err != nil {
		return internalError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"reservations": list})
}

// Cancel releases a reservation's seats and marks it CANCELLED.
func (h *GuestReservationHandler) Cancel(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	if err := h.svc.CancelReservation(c.Request().Context(), id); err != nil {
		return bookingError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"status": "cancelled"})
}
