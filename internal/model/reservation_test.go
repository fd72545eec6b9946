package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransitionGrid(t *testing.T) {
	all := []string{StatusPending, StatusConfirmed, StatusCheckedIn, StatusCheckedOut, StatusCancelled}
	legal := map[[2]string]bool{
		{StatusPending, StatusConfirmed}:    true,
		{StatusPending, StatusCancelled}:    true,
		{StatusConfirmed, StatusCheckedIn}:  true,
		{StatusConfirmed, StatusCancelled}:  true,
		{StatusCheckedIn, StatusCheckedOut}: true,
	}
	// Every pair not listed above must be rejected, including self-loops
	// and anything leaving a terminal status.
	for _, from := range all {
		for _, to := range all {
			want := legal[[2]string{from, to}]
			assert.Equal(t, want, CanTransition(from, to), "%s -> %s", from, to)
		}
	}
}

func TestCanTransitionUnknownStatus(t *testing.T) {
	assert.False(t, CanTransition("NO_SUCH_STATUS", StatusConfirmed))
	assert.False(t, CanTransition(StatusPending, "NO_SUCH_STATUS"))
}

func TestTerminalStatus(t *testing.T) {
	assert.True(t, TerminalStatus(StatusCheckedOut))
	assert.True(t, TerminalStatus(StatusCancelled))
	assert.False(t, TerminalStatus(StatusPending))
	assert.False(t, TerminalStatus(StatusConfirmed))
	assert.False(t, TerminalStatus(StatusCheckedIn))
}

func TestActiveStatusesHoldRoomNights(t *testing.T) {
	for _, s := range ActiveStatuses() {
		r := Reservation{Status: s}
		assert.True(t, r.Active(), s)
	}
	for _, s := range []string{StatusCheckedOut, StatusCancelled} {
		r := Reservation{Status: s}
		assert.False(t, r.Active(), s)
	}
}
