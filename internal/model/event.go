package model

import "time"

// Event is a host's published happening. Guests reach it through its
// unique EventCode; schedules and form questions hang off it. Event
// metadata is owned by the catalog layer, not the booking core.
type Event struct {
	ID          uint64    `json:"id"`
	HostID      uint64    `json:"-"`
	Title       string    `json:"title"`
	Location    string    `json:"location"`
	Description string    `json:"description,omitempty"`
	EventCode   string    `json:"event_code"`
	IsPublic    bool      `json:"is_public"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"-"`
}

// Host is an authenticated event organizer. Hosts authorize the
// check-in and host-side cancel operations; the booking core itself is
// agnostic to who triggers them.
type Host struct {
	ID           uint64    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Name         string    `json:"name"`
	CreatedAt    time.Time `json:"-"`
	UpdatedAt    time.Time `json:"-"`
}
