package booking

import (
	"context"
	"sync"

	"github.com/iliyamo/event-reservation/internal/model"
)

// memStore is an in-memory Store used by the service tests. It keeps
// the same locking discipline as the SQL store: ScheduleForUpdate
// takes a per-schedule mutex held until the unit of work ends, and
// writes become visible only on commit. That lets the concurrency
// tests drive real goroutine contention without a database.
type memStore struct {
	mu           sync.Mutex
	schedules    map[uint64]*model.EventSchedule
	reservations map[uint64]*model.Reservation
	questions    map[uint64][]model.FormQuestion
	nextID       uint64

	lockMu    sync.Mutex
	schedLock map[uint64]*sync.Mutex
	resLock   map[uint64]*sync.Mutex
}

func newMemStore() *memStore {
	return &memStore{
		schedules:    make(map[uint64]*model.EventSchedule),
		reservations: make(map[uint64]*model.Reservation),
		questions:    make(map[uint64][]model.FormQuestion),
		schedLock:    make(map[uint64]*sync.Mutex),
		resLock:      make(map[uint64]*sync.Mutex),
	}
}

func (m *memStore) id() uint64 {
	m.nextID++
	return m.nextID
}

// addSchedule seeds a schedule and returns its id.
func (m *memStore) addSchedule(eventID uint64, capacity int) uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := m.id()
	m.schedules[id] = &model.EventSchedule{
		ID:          id,
		EventID:     eventID,
		MaxCapacity: capacity,
	}
	return id
}

// addQuestion seeds one intake question for an event and returns its id.
func (m *memStore) addQuestion(eventID uint64, text string, required bool) uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := m.id()
	m.questions[eventID] = append(m.questions[eventID], model.FormQuestion{
		ID:           id,
		EventID:      eventID,
		QuestionText: text,
		QuestionType: model.QuestionText,
		IsRequired:   required,
	})
	return id
}

// schedule returns a snapshot copy of a seeded schedule.
func (m *memStore) schedule(id uint64) model.EventSchedule {
	m.mu.Lock()
	defer m.mu.Unlock()
	return *m.schedules[id]
}

// confirmedTickets sums the ticket counts of CONFIRMED reservations on
// a schedule. The invariant checks compare it against ReservedCount.
func (m *memStore) confirmedTickets(scheduleID uint64) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	total := 0
	for _, r := range m.reservations {
		if r.ScheduleID == scheduleID && r.Status == model.StatusConfirmed {
			total += r.TicketCount
		}
	}
	return total
}

func (m *memStore) lockFor(locks map[uint64]*sync.Mutex, id uint64) *sync.Mutex {
	m.lockMu.Lock()
	defer m.lockMu.Unlock()
	l, ok := locks[id]
	if !ok {
		l = &sync.Mutex{}
		locks[id] = l
	}
	return l
}

func (m *memStore) RunInTx(_ context.Context, fn func(tx Tx) error) error {
	t := &memTx{store: m}
	err := fn(t)
	if err == nil {
		t.commit()
	}
	t.unlock()
	return err
}

func (m *memStore) ReservationByID(_ context.Context, id uint64) (*model.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.reservations[id]
	if !ok {
		return nil, model.ErrReservationNotFound
	}
	cp := *r
	return &cp, nil
}

func (m *memStore) ReservationByToken(_ context.Context, token string) (*model.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.reservations {
		if r.CheckinToken == token {
			cp := *r
			return &cp, nil
		}
	}
	return nil, model.ErrReservationNotFound
}

func (m *memStore) LookupReservations(_ context.Context, guestName, guestContact string) ([]*model.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.Reservation
	for _, r := range m.reservations {
		if r.GuestName == guestName && r.GuestContact == guestContact && r.Status == model.StatusConfirmed {
			cp := *r
			out = append(out, &cp)
		}
	}
	return out, nil
}

// memTx buffers every write of one unit of work; commit publishes the
// buffer while the per-id locks are still held, so the next lock
// holder observes the committed state.
type memTx struct {
	store *memStore

	heldSched []uint64
	heldRes   []uint64

	dirtySchedules map[uint64]*model.EventSchedule
	dirtyRes       map[uint64]*model.Reservation
	created        []*model.Reservation
}

func (t *memTx) ScheduleForUpdate(_ context.Context, scheduleID uint64) (*model.EventSchedule, error) {
	t.store.lockFor(t.store.schedLock, scheduleID).Lock()
	t.heldSched = append(t.heldSched, scheduleID)

	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	s, ok := t.store.schedules[scheduleID]
	if !ok {
		return nil, model.ErrScheduleNotFound
	}
	cp := *s
	if t.dirtySchedules == nil {
		t.dirtySchedules = make(map[uint64]*model.EventSchedule)
	}
	t.dirtySchedules[scheduleID] = &cp
	return &cp, nil
}

func (t *memTx) SaveScheduleCount(_ context.Context, schedule *model.EventSchedule) error {
	t.dirtySchedules[schedule.ID] = schedule
	return nil
}

func (t *memTx) HasActiveReservation(_ context.Context, scheduleID uint64, guestContact string) (bool, error) {
	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	for _, r := range t.store.reservations {
		if r.ScheduleID == scheduleID && r.GuestContact == guestContact && r.Status == model.StatusConfirmed {
			return true, nil
		}
	}
	return false, nil
}

func (t *memTx) CreateReservation(_ context.Context, r *model.Reservation) error {
	t.store.mu.Lock()
	r.ID = t.store.id()
	t.store.mu.Unlock()
	for i := range r.Answers {
		r.Answers[i].ReservationID = r.ID
	}
	t.created = append(t.created, r)
	return nil
}

func (t *memTx) ReservationForUpdate(_ context.Context, id uint64) (*model.Reservation, error) {
	t.store.lockFor(t.store.resLock, id).Lock()
	t.heldRes = append(t.heldRes, id)

	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	r, ok := t.store.reservations[id]
	if !ok {
		return nil, model.ErrReservationNotFound
	}
	cp := *r
	return &cp, nil
}

func (t *memTx) ReservationByTokenForUpdate(ctx context.Context, token string) (*model.Reservation, error) {
	t.store.mu.Lock()
	var id uint64
	found := false
	for _, r := range t.store.reservations {
		if r.CheckinToken == token {
			id, found = r.ID, true
			break
		}
	}
	t.store.mu.Unlock()
	if !found {
		return nil, model.ErrReservationNotFound
	}
	return t.ReservationForUpdate(ctx, id)
}

func (t *memTx) UpdateReservation(_ context.Context, r *model.Reservation) error {
	if t.dirtyRes == nil {
		t.dirtyRes = make(map[uint64]*model.Reservation)
	}
	t.dirtyRes[r.ID] = r
	return nil
}

func (t *memTx) EventQuestions(_ context.Context, eventID uint64) ([]model.FormQuestion, error) {
	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	return append([]model.FormQuestion(nil), t.store.questions[eventID]...), nil
}

func (t *memTx) commit() {
	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	for id, s := range t.dirtySchedules {
		cp := *s
		t.store.schedules[id] = &cp
	}
	for id, r := range t.dirtyRes {
		cp := *r
		t.store.reservations[id] = &cp
	}
	for _, r := range t.created {
		cp := *r
		t.store.reservations[r.ID] = &cp
	}
}

func (t *memTx) unlock() {
	for _, id := range t.heldRes {
		t.store.lockFor(t.store.resLock, id).Unlock()
	}
	for _, id := range t.heldSched {
		t.store.lockFor(t.store.schedLock, id).Unlock()
	}
}

// stubPublisher records confirmation notifications.
type stubPublisher struct {
	mu     sync.Mutex
	events []uint64
}

func (p *stubPublisher) ReservationConfirmed(_ context.Context, r *model.Reservation, _ *model.EventSchedule) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, r.ID)
}

func (p *stubPublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.events)
}
