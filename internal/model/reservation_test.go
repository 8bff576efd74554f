package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewReservation(t *testing.T) {
	r := NewReservation(7, "Alice", "alice@example.com", 3)

	assert.Equal(t, uint64(7), r.ScheduleID)
	assert.Equal(t, StatusConfirmed, r.Status)
	assert.Equal(t, 3, r.TicketCount)
	assert.NotEmpty(t, r.CheckinToken)
	assert.False(t, r.CheckedIn)
	assert.True(t, r.Active())
}

func TestNewReservation_TicketCountDefaultsToOne(t *testing.T) {
	assert.Equal(t, 1, NewReservation(1, "", "", 0).TicketCount)
	assert.Equal(t, 1, NewReservation(1, "", "", -2).TicketCount)
}

func TestNewReservation_UniqueTokens(t *testing.T) {
	a := NewReservation(1, "", "", 1)
	b := NewReservation(1, "", "", 1)
	assert.NotEqual(t, a.CheckinToken, b.CheckinToken)
}

func TestReservation_Cancel(t *testing.T) {
	r := NewReservation(1, "", "", 1)

	require.NoError(t, r.Cancel())
	assert.Equal(t, StatusCancelled, r.Status)
	assert.False(t, r.Active())
}

func TestReservation_Cancel_Twice(t *testing.T) {
	r := NewReservation(1, "", "", 1)
	require.NoError(t, r.Cancel())

	assert.ErrorIs(t, r.Cancel(), ErrAlreadyCancelled)
}

func TestReservation_Cancel_CheckedIn(t *testing.T) {
	r := NewReservation(1, "", "", 1)
	require.NoError(t, r.CheckIn())

	err := r.Cancel()

	assert.ErrorIs(t, err, ErrAlreadyCheckedIn)
	assert.Equal(t, StatusConfirmed, r.Status)
}

func TestReservation_Cancel_CancelledAndCheckedInReportsCancelledFirst(t *testing.T) {
	// A row in this state should be impossible, but the guard order is
	// still fixed: cancelled wins.
	r := &Reservation{Status: StatusCancelled, CheckedIn: true}

	assert.ErrorIs(t, r.Cancel(), ErrAlreadyCancelled)
}

func TestReservation_CheckIn(t *testing.T) {
	r := NewReservation(1, "", "", 1)

	require.NoError(t, r.CheckIn())
	assert.True(t, r.CheckedIn)
	assert.Equal(t, StatusConfirmed, r.Status)
}

func TestReservation_CheckIn_Twice(t *testing.T) {
	r := NewReservation(1, "", "", 1)
	require.NoError(t, r.CheckIn())

	assert.ErrorIs(t, r.CheckIn(), ErrAlreadyCheckedIn)
}

func TestReservation_CheckIn_Cancelled(t *testing.T) {
	r := NewReservation(1, "", "", 1)
	require.NoError(t, r.Cancel())

	err := r.CheckIn()

	assert.ErrorIs(t, err, ErrReservationCancelled)
	assert.False(t, r.CheckedIn)
}
