package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/event-reservation/internal/middleware"
	"github.com/iliyamo/event-reservation/internal/model"
	"github.com/iliyamo/event-reservation/internal/repository"
)

// HostEventHandler serves the authenticated event-management surface.
type HostEventHandler struct {
	events    *repository.EventRepo
	schedules *repository.ScheduleRepo
	questions *repository.FormQuestionRepo
}

// NewHostEventHandler wires the host event endpoints.
func NewHostEventHandler(events *repository.EventRepo, schedules *repository.ScheduleRepo, questions *repository.FormQuestionRepo) *HostEventHandler {
	return &HostEventHandler{events: events, schedules: schedules, questions: questions}
}

type scheduleInput struct {
	StartTime   time.Time `json:"start_time"`
	EndTime     time.Time `json:"end_time"`
	MaxCapacity int       `json:"max_capacity"`
}

type questionInput struct {
	QuestionText string             `json:"question_text"`
	QuestionType model.QuestionType `json:"question_type"`
	IsRequired   bool               `json:"is_required"`
}

type createEventRequest struct {
	Title       string          `json:"title"`
	Location    string          `json:"location"`
	Description string          `json:"description"`
	IsPublic    bool            `json:"is_public"`
	Schedules   []scheduleInput `json:"schedules"`
	Questions   []questionInput `json:"questions"`
}

func (r *createEventRequest) validate() string {
	if strings.TrimSpace(r.Title) == "" {
		return "title is required"
	}
	if strings.TrimSpace(r.Location) == "" {
		return "location is required"
	}
	if len(r.Schedules) == 0 {
		return "at least one schedule is required"
	}
	for _, s := range r.Schedules {
		if s.MaxCapacity <= 0 {
			return "schedule max_capacity must be positive"
		}
		if !s.EndTime.After(s.StartTime) {
			return "schedule end_time must be after start_time"
		}
	}
	for _, q := range r.Questions {
		if strings.TrimSpace(q.QuestionText) == "" {
			return "question_text is required"
		}
		switch q.QuestionType {
		case model.QuestionText, model.QuestionCheckbox, model.QuestionRadio,
			model.QuestionName, model.QuestionPhone:
		default:
			return "unknown question_type"
		}
	}
	return ""
}

// Create inserts an event with its schedules and intake questions in
// one transaction. The public code is regenerated on the rare
// collision with an existing event.
func (h *HostEventHandler) Create(c echo.Context) error {
	var req createEventRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if msg := req.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}

	ctx := c.Request().Context()
	hostID := middleware.HostID(c)

	var event *model.Event
	var created []model.EventSchedule
	for attempt := 0; attempt < 5; attempt++ {
		code, err := repository.NewEventCode()
		if err != nil {
			return internalError(c, err)
		}
		event = &model.Event{
			HostID:      hostID,
			Title:       strings.TrimSpace(req.Title),
			Location:    strings.TrimSpace(req.Location),
			Description: strings.TrimSpace(req.Description),
			EventCode:   code,
			IsPublic:    req.IsPublic,
		}
		created, err = h.createOnce(ctx, event, req)
		if err == nil {
			break
		}
		if strings.Contains(err.Error(), "1062") {
			event = nil
			continue
		}
		return internalError(c, err)
	}
	if event == nil {
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "could not allocate an event code"})
	}

	questions, err := h.questions.ListByEvent(ctx, event.ID)
	if err != nil {
		return internalError(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"event":     event,
		"schedules": created,
		"questions": questions,
	})
}

func (h *HostEventHandler) createOnce(ctx context.Context, event *model.Event, req createEventRequest) ([]model.EventSchedule, error) {
	tx, err := h.events.DB().BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if err := h.events.CreateTx(ctx, tx, event); err != nil {
		return nil, err
	}

	schedules := make([]model.EventSchedule, 0, len(req.Schedules))
	for _, in := range req.Schedules {
		s := model.EventSchedule{
			EventID:     event.ID,
			StartTime:   in.StartTime,
			EndTime:     in.EndTime,
			MaxCapacity: in.MaxCapacity,
		}
		if err := h.schedules.CreateTx(ctx, tx, &s); err != nil {
			return nil, err
		}
		schedules = append(schedules, s)
	}

	questions := make([]model.FormQuestion, 0, len(req.Questions))
	for _, in := range req.Questions {
		questions = append(questions, model.FormQuestion{
			EventID:      event.ID,
			QuestionText: strings.TrimSpace(in.QuestionText),
			QuestionType: in.QuestionType,
			IsRequired:   in.IsRequired,
		})
	}
	if err := h.questions.CreateBulkTx(ctx, tx, questions); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true
	return schedules, nil
}

type updateEventRequest struct {
	Title       string `json:"title"`
	Location    string `json:"location"`
	Description string `json:"description"`
}

// Update rewrites an event's title, location and description.
func (h *HostEventHandler) Update(c echo.Context) error {
	event, err := h.ownedEvent(c)
	if err != nil {
		return bookingError(c, err)
	}

	var req updateEventRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if strings.TrimSpace(req.Title) == "" || strings.TrimSpace(req.Location) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title and location are required"})
	}

	event.Title = strings.TrimSpace(req.Title)
	event.Location = strings.TrimSpace(req.Location)
	event.Description = strings.TrimSpace(req.Description)
	if err := h.events.UpdateBasicInfo(c.Request().Context(), event); err != nil {
		return internalError(c, err)
	}
	return c.JSON(http.StatusOK, event)
}

type visibilityRequest struct {
	IsPublic bool `json:"is_public"`
}

// UpdateVisibility toggles whether the event appears in the public
// listing. The code link keeps working either way.
func (h *HostEventHandler) UpdateVisibility(c echo.Context) error {
	event, err := h.ownedEvent(c)
	if err != nil {
		return bookingError(c, err)
	}

	var req visibilityRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if err := h.events.UpdateVisibility(c.Request().Context(), event.ID, req.IsPublic); err != nil {
		return internalError(c, err)
	}
	event.IsPublic = req.IsPublic
	return c.JSON(http.StatusOK, event)
}

// ListMine returns the authenticated host's events.
func (h *HostEventHandler) ListMine(c echo.Context) error {
	events, err := h.events.ListByHost(c.Request().Context(), middleware.HostID(c))
	if err != nil {
		return internalError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"events": events})
}

// Get returns one owned event with its schedules and questions.
func (h *HostEventHandler) Get(c echo.Context) error {
	event, err := h.ownedEvent(c)
	if err != nil {
		return bookingError(c, err)
	}
	ctx := c.Request().Context()
	schedules, err := h.schedules.ListByEvent(ctx, event.ID)
	if err != nil {
		return internalError(c, err)
	}
	questions, err := h.questions.ListByEvent(ctx, event.ID)
	if err != nil {
		return internalError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"event":     event,
		"schedules": schedules,
		"questions": questions,
	})
}

// ownedEvent resolves the :id path param to an event owned by the
// authenticated host.
func (h *HostEventHandler) ownedEvent(c echo.Context) (*model.Event, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return nil, model.ErrEventNotFound
	}
	return h.events.GetOwned(c.Request().Context(), id, middleware.HostID(c))
}
