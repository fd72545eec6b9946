package booking

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/hotel-room-reservation/internal/model"
)

func TestQuerySingleType(t *testing.T) {
	store := NewMemStore()
	seedRooms(store, 1, "DELUXE", 5, 2, 25000)
	idx := NewAvailabilityIndex(store)
	a := NewAllocator(store, nil)
	ctx := context.Background()

	// Three stays overlapping night day(2): the peak night binds the
	// whole range.
	_, err := a.Allocate(ctx, walkIn("DELUXE", day(1), day(4)))
	require.NoError(t, err)
	_, err = a.Allocate(ctx, walkIn("DELUXE", day(2), day(3)))
	require.NoError(t, err)
	_, err = a.Allocate(ctx, walkIn("DELUXE", day(2), day(5)))
	require.NoError(t, err)

	snaps, err := idx.Query(ctx, testHotel, "DELUXE", day(1), day(5))
	require.NoError(t, err)
	require.Len(t, snaps, 1)
	assert.Equal(t, 5, snaps[0].TotalRooms)
	assert.Equal(t, 3, snaps[0].MaxOccupied)
	assert.Equal(t, 2, snaps[0].AvailableRooms)

	// A range missing the peak night sees more slack.
	snaps, err = idx.Query(ctx, testHotel, "DELUXE", day(4), day(5))
	require.NoError(t, err)
	assert.Equal(t, 4, snaps[0].AvailableRooms)
}

func TestQueryAllTypes(t *testing.T) {
	store := NewMemStore()
	seedRooms(store, 1, "DELUXE", 2, 2, 25000)
	seedRooms(store, 10, "STANDARD", 3, 2, 10000)
	idx := NewAvailabilityIndex(store)

	snaps, err := idx.Query(context.Background(), testHotel, "", day(1), day(3))
	require.NoError(t, err)
	require.Len(t, snaps, 2)
	// Types come back sorted.
	assert.Equal(t, "DELUXE", snaps[0].RoomType)
	assert.Equal(t, "STANDARD", snaps[1].RoomType)
	assert.Equal(t, 2, snaps[0].AvailableRooms)
	assert.Equal(t, 3, snaps[1].AvailableRooms)
}

func TestQuerySoldOutIsReported(t *testing.T) {
	store := NewMemStore()
	seedRooms(store, 1, "DELUXE", 1, 2, 25000)
	idx := NewAvailabilityIndex(store)
	a := NewAllocator(store, nil)
	ctx := context.Background()

	_, err := a.Allocate(ctx, walkIn("DELUXE", day(1), day(3)))
	require.NoError(t, err)

	snaps, err := idx.Query(ctx, testHotel, "DELUXE", day(1), day(3))
	require.NoError(t, err)
	require.Len(t, snaps, 1)
	assert.Equal(t, 0, snaps[0].AvailableRooms)
}

func TestQueryIgnoresUnbookableRoomsAndTerminalStays(t *testing.T) {
	store := NewMemStore()
	seedRooms(store, 1, "DELUXE", 2, 2, 25000)
	store.PutRoom(model.Room{ID: 3, HotelID: testHotel, Type: "DELUXE", Capacity: 2, PriceCents: 25000, BaseStatus: model.RoomMaintenance})
	idx := NewAvailabilityIndex(store)
	ctx := context.Background()

	seedReservation(t, store, 1, model.StatusCancelled, day(1), day(3))

	snaps, err := idx.Query(ctx, testHotel, "DELUXE", day(1), day(3))
	require.NoError(t, err)
	require.Len(t, snaps, 1)
	// The maintenance room is not counted; the cancelled stay holds nothing.
	assert.Equal(t, 2, snaps[0].TotalRooms)
	assert.Equal(t, 2, snaps[0].AvailableRooms)
}

func TestQueryRejectsEmptyRange(t *testing.T) {
	idx := NewAvailabilityIndex(NewMemStore())
	_, err := idx.Query(context.Background(), testHotel, "DELUXE", day(3), day(3))
	var vErr *ValidationError
	assert.ErrorAs(t, err, &vErr)
}

func TestDisabledCheckInDates(t *testing.T) {
	store := NewMemStore()
	seedRooms(store, 1, "DELUXE", 2, 2, 25000)
	idx := NewAvailabilityIndex(store)
	a := NewAllocator(store, nil)
	ctx := context.Background()

	// Fill both rooms on nights day(2) and day(3).
	for i := 0; i < 2; i++ {
		_, err := a.Allocate(ctx, walkIn("DELUXE", day(2), day(4)))
		require.NoError(t, err)
	}

	const window = 7
	disabled, err := idx.DisabledCheckInDates(ctx, testHotel, "DELUXE", day(0), window)
	require.NoError(t, err)
	assert.Equal(t, []string{model.FormatDate(day(2)), model.FormatDate(day(3))}, disabled)

	// Parity check against the naive per-date probe.
	brute := make([]string, 0)
	for i := 0; i < window; i++ {
		snaps, err := idx.Query(ctx, testHotel, "DELUXE", day(i), day(i+1))
		require.NoError(t, err)
		if snaps[0].AvailableRooms <= 0 {
			brute = append(brute, model.FormatDate(day(i)))
		}
	}
	assert.Equal(t, brute, disabled)
}

func TestDisabledCheckOutDates(t *testing.T) {
	store := NewMemStore()
	seedRooms(store, 1, "DELUXE", 1, 2, 25000)
	idx := NewAvailabilityIndex(store)
	a := NewAllocator(store, nil)
	ctx := context.Background()

	// The single room is taken for nights day(3) and day(4).
	_, err := a.Allocate(ctx, walkIn("DELUXE", day(3), day(5)))
	require.NoError(t, err)

	// Checking in on day(1): day(2) and day(3) close the stay before the
	// full night; everything after day(3) is poisoned by it.
	disabled, err := idx.DisabledCheckOutDates(ctx, testHotel, "DELUXE", day(1), 6)
	require.NoError(t, err)
	assert.Equal(t, []string{
		model.FormatDate(day(4)),
		model.FormatDate(day(5)),
		model.FormatDate(day(6)),
		model.FormatDate(day(7)),
	}, disabled)
}

func TestDisabledCheckOutAllOpen(t *testing.T) {
	store := NewMemStore()
	seedRooms(store, 1, "DELUXE", 1, 2, 25000)
	idx := NewAvailabilityIndex(store)

	disabled, err := idx.DisabledCheckOutDates(context.Background(), testHotel, "DELUXE", day(1), 5)
	require.NoError(t, err)
	assert.Empty(t, disabled)
}

func TestDisabledDatesValidation(t *testing.T) {
	idx := NewAvailabilityIndex(NewMemStore())
	ctx := context.Background()
	var vErr *ValidationError

	_, err := idx.DisabledCheckInDates(ctx, testHotel, "", day(0), 7)
	assert.ErrorAs(t, err, &vErr)
	_, err = idx.DisabledCheckInDates(ctx, testHotel, "DELUXE", day(0), 0)
	assert.ErrorAs(t, err, &vErr)
	_, err = idx.DisabledCheckOutDates(ctx, testHotel, "", day(0), 7)
	assert.ErrorAs(t, err, &vErr)
}
