package booking

import (
	"context"
	"time"

	"github.com/iliyamo/hotel-room-reservation/internal/model"
)

// AvailabilityIndex answers "how many rooms of this type are free for this
// range" and derives the disabled check-in/check-out date sets the booking
// UI needs.  Every answer is a pure function of current store state: reads
// take no locks, results are stale by construction and are re-validated at
// allocation time.
type AvailabilityIndex struct {
	store Store
}

// NewAvailabilityIndex constructs an AvailabilityIndex over the store.
func NewAvailabilityIndex(store Store) *AvailabilityIndex {
	if store == nil {
		panic("nil store passed to NewAvailabilityIndex")
	}
	return &AvailabilityIndex{store: store}
}

// Query computes availability snapshots for [checkIn, checkOut).  When
// roomType is empty, one snapshot per room type of the hotel is returned;
// otherwise a single-element slice for that type.  Sold-out (zero or
// negative) snapshots are included so callers can render them.
func (a *AvailabilityIndex) Query(ctx context.Context, hotelID uint64, roomType string, checkIn, checkOut time.Time) ([]model.AvailabilitySnapshot, error) {
	if !checkOut.After(checkIn) {
		return nil, invalidf("check_out must be after check_in")
	}
	types := []string{roomType}
	if roomType == "" {
		var err error
		types, err = a.store.RoomTypes(ctx, hotelID)
		if err != nil {
			return nil, err
		}
	}
	snaps := make([]model.AvailabilitySnapshot, 0, len(types))
	for _, t := range types {
		snap, err := a.snapshot(ctx, hotelID, t, checkIn, checkOut)
		if err != nil {
			return nil, err
		}
		snaps = append(snaps, snap)
	}
	return snaps, nil
}

// snapshot computes one type's availability.  The binding constraint is
// the worst single night: a range is only as free as its fullest night.
func (a *AvailabilityIndex) snapshot(ctx context.Context, hotelID uint64, roomType string, checkIn, checkOut time.Time) (model.AvailabilitySnapshot, error) {
	total, err := a.countBookableRooms(ctx, hotelID, roomType)
	if err != nil {
		return model.AvailabilitySnapshot{}, err
	}
	occupancy, err := a.nightlyOccupancy(ctx, hotelID, roomType, checkIn, checkOut)
	if err != nil {
		return model.AvailabilitySnapshot{}, err
	}
	peak := 0
	for _, n := range occupancy {
		if n > peak {
			peak = n
		}
	}
	return model.AvailabilitySnapshot{
		HotelID:        hotelID,
		RoomType:       roomType,
		CheckIn:        checkIn,
		CheckOut:       checkOut,
		TotalRooms:     total,
		MaxOccupied:    peak,
		AvailableRooms: total - peak,
	}, nil
}

// DisabledCheckInDates returns, sorted ascending, every date D in
// [from, from+days) for which a one-night stay [D, D+1) has no room of the
// given type left.  A single occupancy scan covers the whole window; no
// per-candidate re-query happens.
func (a *AvailabilityIndex) DisabledCheckInDates(ctx context.Context, hotelID uint64, roomType string, from time.Time, days int) ([]string, error) {
	if roomType == "" {
		return nil, invalidf("room_type is required")
	}
	if days <= 0 {
		return nil, invalidf("days must be positive")
	}
	from = model.TruncateToDate(from)
	until := from.AddDate(0, 0, days)
	total, err := a.countBookableRooms(ctx, hotelID, roomType)
	if err != nil {
		return nil, err
	}
	occupancy, err := a.nightlyOccupancy(ctx, hotelID, roomType, from, until)
	if err != nil {
		return nil, err
	}
	disabled := make([]string, 0)
	for i := 0; i < days; i++ {
		d := from.AddDate(0, 0, i)
		if total-occupancy[i] <= 0 {
			disabled = append(disabled, model.FormatDate(d))
		}
	}
	return disabled, nil
}

// DisabledCheckOutDates returns the checkout dates that cannot complete a
// stay starting at checkIn.  A candidate D2 is disabled when D2 <= checkIn
// or when any night in [checkIn, D2) is already full.  One occupancy scan
// plus a prefix pass keeps this linear in the probe window: the first full
// night poisons every later checkout date.
func (a *AvailabilityIndex) DisabledCheckOutDates(ctx context.Context, hotelID uint64, roomType string, checkIn time.Time, days int) ([]string, error) {
	if roomType == "" {
		return nil, invalidf("room_type is required")
	}
	if days <= 0 {
		return nil, invalidf("days must be positive")
	}
	checkIn = model.TruncateToDate(checkIn)
	until := checkIn.AddDate(0, 0, days)
	total, err := a.countBookableRooms(ctx, hotelID, roomType)
	if err != nil {
		return nil, err
	}
	occupancy, err := a.nightlyOccupancy(ctx, hotelID, roomType, checkIn, until)
	if err != nil {
		return nil, err
	}
	disabled := make([]string, 0)
	blocked := false
	// Candidate checkouts run (checkIn, checkIn+days].  Candidate checkIn+i
	// requires nights 0..i-1, so it inherits any earlier full night.
	for i := 1; i <= days; i++ {
		if !blocked && total-occupancy[i-1] <= 0 {
			blocked = true
		}
		if blocked {
			disabled = append(disabled, model.FormatDate(checkIn.AddDate(0, 0, i)))
		}
	}
	return disabled, nil
}

// countBookableRooms counts rooms of the type whose base status allows
// booking at all.
func (a *AvailabilityIndex) countBookableRooms(ctx context.Context, hotelID uint64, roomType string) (int, error) {
	rooms, err := a.store.RoomsByType(ctx, hotelID, roomType)
	if err != nil {
		return 0, err
	}
	n := 0
	for i := range rooms {
		if rooms[i].Bookable() {
			n++
		}
	}
	return n, nil
}

// nightlyOccupancy builds the per-night reserved-room count for
// [from, until).  Index i corresponds to the night starting from+i days.
func (a *AvailabilityIndex) nightlyOccupancy(ctx context.Context, hotelID uint64, roomType string, from, until time.Time) ([]int, error) {
	nights := model.Nights(from, until)
	occupancy := make([]int, nights)
	active, err := a.store.ActiveByType(ctx, hotelID, roomType, from, until)
	if err != nil {
		return nil, err
	}
	for i := range active {
		r := &active[i]
		for n := 0; n < nights; n++ {
			night := from.AddDate(0, 0, n)
			if !night.Before(r.CheckIn) && night.Before(r.CheckOut) {
				occupancy[n]++
			}
		}
	}
	return occupancy, nil
}
