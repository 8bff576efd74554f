package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/event-reservation/internal/booking"
	"github.com/iliyamo/event-reservation/internal/model"
)

// fakeStore is a single-threaded booking.Store for handler tests.
// Writes are buffered per unit of work and applied only on a nil
// return, mirroring the transactional rollback the handlers rely on.
type fakeStore struct {
	schedule     model.EventSchedule
	questions    []model.FormQuestion
	reservations map[uint64]*model.Reservation
	nextID       uint64
}

func newFakeStore(capacity int) *fakeStore {
	return &fakeStore{
		schedule:     model.EventSchedule{ID: 1, EventID: 1, MaxCapacity: capacity},
		reservations: make(map[uint64]*model.Reservation),
	}
}

func (f *fakeStore) RunInTx(_ context.Context, fn func(tx booking.Tx) error) error {
	tx := &fakeTx{store: f, schedule: f.schedule}
	if err := fn(tx); err != nil {
		return err
	}
	f.schedule = tx.schedule
	for _, r := range tx.created {
		f.reservations[r.ID] = r
	}
	for _, r := range tx.updated {
		f.reservations[r.ID] = r
	}
	return nil
}

func (f *fakeStore) ReservationByID(_ context.Context, id uint64) (*model.Reservation, error) {
	r, ok := f.reservations[id]
	if !ok {
		return nil, model.ErrReservationNotFound
	}
	cp := *r
	return &cp, nil
}

func (f *fakeStore) ReservationByToken(_ context.Context, token string) (*model.Reservation, error) {
	for _, r := range f.reservations {
		if r.CheckinToken == token {
			cp := *r
			return &cp, nil
		}
	}
	return nil, model.ErrReservationNotFound
}

func (f *fakeStore) LookupReservations(_ context.Context, name, contact string) ([]*model.Reservation, error) {
	var out []*model.Reservation
	for _, r := range f.reservations {
		if r.GuestName == name && r.GuestContact == contact && r.Status == model.StatusConfirmed {
			cp := *r
			out = append(out, &cp)
		}
	}
	return out, nil
}

type fakeTx struct {
	store    *fakeStore
	schedule model.EventSchedule
	created  []*model.Reservation
	updated  []*model.Reservation
}

func (t *fakeTx) ScheduleForUpdate(_ context.Context, id uint64) (*model.EventSchedule, error) {
	if id != t.store.schedule.ID {
		return nil, model.ErrScheduleNotFound
	}
	return &t.schedule, nil
}

func (t *fakeTx) SaveScheduleCount(_ context.Context, s *model.EventSchedule) error {
	t.schedule = *s
	return nil
}

func (t *fakeTx) HasActiveReservation(_ context.Context, scheduleID uint64, contact string) (bool, error) {
	for _, r := range t.store.reservations {
		if r.ScheduleID == scheduleID && r.GuestContact == contact && r.Status == model.StatusConfirmed {
			return true, nil
		}
	}
	return false, nil
}

func (t *fakeTx) CreateReservation(_ context.Context, r *model.Reservation) error {
	t.store.nextID++
	r.ID = t.store.nextID
	for i := range r.Answers {
		r.Answers[i].ReservationID = r.ID
	}
	cp := *r
	t.created = append(t.created, &cp)
	return nil
}

func (t *fakeTx) ReservationForUpdate(_ context.Context, id uint64) (*model.Reservation, error) {
	r, ok := t.store.reservations[id]
	if !ok {
		return nil, model.ErrReservationNotFound
	}
	cp := *r
	return &cp, nil
}

func (t *fakeTx) ReservationByTokenForUpdate(_ context.Context, token string) (*model.Reservation, error) {
	for _, r := range t.store.reservations {
		if r.CheckinToken == token {
			cp := *r
			return &cp, nil
		}
	}
	return nil, model.ErrReservationNotFound
}

func (t *fakeTx) UpdateReservation(_ context.Context, r *model.Reservation) error {
	cp := *r
	t.updated = append(t.updated, &cp)
	return nil
}

func (t *fakeTx) EventQuestions(_ context.Context, eventID uint64) ([]model.FormQuestion, error) {
	return t.store.questions, nil
}

func setupReservationAPI(store *fakeStore) *echo.Echo {
	h := NewGuestReservationHandler(booking.NewService(store, nil))
	e := echo.New()
	e.POST("/reservations", h.Create)
	e.GET("/reservations/lookup", h.Lookup)
	e.GET("/reservations/token/:token", h.GetByToken)
	e.GET("/reservations/:id", h.Get)
	e.POST("/reservations/:id/cancel", h.Cancel)
	return e
}

func postJSON(e *echo.Echo, path string, body any) *httptest.ResponseRecorder {
	raw, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	w := httptest.NewRecorder()
	e.ServeHTTP(w, req)
	return w
}

func TestGuestReservation_Create_Success(t *testing.T) {
	store := newFakeStore(10)
	e := setupReservationAPI(store)

	w := postJSON(e, "/reservations", echo.Map{
		"schedule_id":   1,
		"guest_name":    "Alice",
		"guest_contact": "alice@example.com",
		"ticket_count":  2,
	})

	assert.Equal(t, http.StatusCreated, w.Code)
	var res model.Reservation
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, model.StatusConfirmed, res.Status)
	assert.NotEmpty(t, res.CheckinToken)
	assert.Equal(t, 2, store.schedule.ReservedCount)
}

func TestGuestReservation_Create_MissingScheduleID(t *testing.T) {
	e := setupReservationAPI(newFakeStore(10))

	w := postJSON(e, "/reservations", echo.Map{"guest_name": "Alice"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGuestReservation_Create_UnknownSchedule(t *testing.T) {
	e := setupReservationAPI(newFakeStore(10))

	w := postJSON(e, "/reservations", echo.Map{"schedule_id": 99})

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGuestReservation_Create_SoldOut(t *testing.T) {
	store := newFakeStore(1)
	e := setupReservationAPI(store)

	require.Equal(t, http.StatusCreated, postJSON(e, "/reservations", echo.Map{"schedule_id": 1}).Code)

	w := postJSON(e, "/reservations", echo.Map{"schedule_id": 1})

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, 1, store.schedule.ReservedCount)
}

func TestGuestReservation_Create_DuplicateContact(t *testing.T) {
	store := newFakeStore(10)
	e := setupReservationAPI(store)

	body := echo.Map{"schedule_id": 1, "guest_contact": "dup@example.com"}
	require.Equal(t, http.StatusCreated, postJSON(e, "/reservations", body).Code)

	w := postJSON(e, "/reservations", body)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestGuestReservation_Create_MissingRequiredAnswer(t *testing.T) {
	store := newFakeStore(10)
	store.questions = []model.FormQuestion{
		{ID: 1, EventID: 1, QuestionText: "Full name", QuestionType: model.QuestionName, IsRequired: true},
	}
	e := setupReservationAPI(store)

	w := postJSON(e, "/reservations", echo.Map{"schedule_id": 1, "ticket_count": 3})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Full name")
	// Nothing may remain reserved after the rejected attempt.
	assert.Equal(t, 0, store.schedule.ReservedCount)
}

func TestGuestReservation_CancelFlow(t *testing.T) {
	store := newFakeStore(10)
	e := setupReservationAPI(store)

	created := postJSON(e, "/reservations", echo.Map{"schedule_id": 1, "ticket_count": 3})
	require.Equal(t, http.StatusCreated, created.Code)
	var res model.Reservation
	require.NoError(t, json.Unmarshal(created.Body.Bytes(), &res))

	w := postJSON(e, fmt.Sprintf("/reservations/%d/cancel", res.ID), nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0, store.schedule.ReservedCount)

	// A second cancel is a conflict, not a repeat release.
	w = postJSON(e, fmt.Sprintf("/reservations/%d/cancel", res.ID), nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, 0, store.schedule.ReservedCount)
}

func TestGuestReservation_GetByToken(t *testing.T) {
	store := newFakeStore(10)
	e := setupReservationAPI(store)

	created := postJSON(e, "/reservations", echo.Map{"schedule_id": 1})
	var res model.Reservation
	require.NoError(t, json.Unmarshal(created.Body.Bytes(), &res))

	req := httptest.NewRequest(http.MethodGet, "/reservations/token/"+res.CheckinToken, nil)
	w := httptest.NewRecorder()
	e.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/reservations/token/nope", nil)
	w = httptest.NewRecorder()
	e.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGuestReservation_Lookup_RequiresParams(t *testing.T) {
	e := setupReservationAPI(newFakeStore(10))

	req := httptest.NewRequest(http.MethodGet, "/reservations/lookup?guest_name=Bob", nil)
	w := httptest.NewRecorder()
	e.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
