package booking

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/iliyamo/hotel-room-reservation/internal/model"
	"github.com/iliyamo/hotel-room-reservation/internal/queue"
)

// Allocator selects a concrete room for a requested type and date range
// and materialises the reservation.  Both the staff walk-in path and the
// payment-confirmed web path land here, so the non-overlap invariant is
// enforced in exactly one place: inside the candidate room's critical
// section, regardless of what any earlier advisory availability read said.
type Allocator struct {
	store Store
	pub   Publisher
}

// NewAllocator constructs an Allocator.  pub may be nil.
func NewAllocator(store Store, pub Publisher) *Allocator {
	if store == nil {
		panic("nil store passed to NewAllocator")
	}
	return &Allocator{store: store, pub: pub}
}

// bound returns a copy of the allocator running on s.  A caller already
// inside a critical section passes its callback store here so the
// reservation insert commits together with the caller's own writes; the
// nested room lock then anchors onto the same open transaction.
func (a *Allocator) bound(s Store) *Allocator {
	return &Allocator{store: s, pub: a.pub}
}

// AllocateParams describes one allocation request.
//
// RoomID is optional: when staff pick a concrete room for a walk-in it is
// the only candidate considered; otherwise every bookable room of RoomType
// is tried.  Status must be PENDING or CONFIRMED; Paid marks the stay as
// fully paid up front (web bookings from a settled payment intent).
type AllocateParams struct {
	HotelID         uint64
	RoomID          uint64
	RoomType        string
	CheckIn         time.Time
	CheckOut        time.Time
	Guests          int
	GuestRef        string
	SpecialRequests string
	Source          string
	Status          string
	Currency        string
	Paid            bool
}

// Allocate validates the request, picks the best free room and inserts the
// reservation inside that room's critical section, so two racing attempts
// for the last room yield exactly one success and one ErrCapacity.
func (a *Allocator) Allocate(ctx context.Context, p AllocateParams) (*model.Reservation, error) {
	if err := a.validate(&p); err != nil {
		return nil, err
	}
	candidates, err := a.candidates(ctx, p)
	if err != nil {
		return nil, err
	}
	for _, room := range candidates {
		res, err := a.tryRoom(ctx, room, p)
		if err == ErrCapacity {
			continue
		}
		if err != nil {
			return nil, err
		}
		a.publishCreated(res)
		return res, nil
	}
	return nil, ErrCapacity
}

// validate rejects malformed requests before any side effect.  Dates are
// floored to "today" at creation time only; existing reservations are not
// retroactively invalidated as time passes.
func (a *Allocator) validate(p *AllocateParams) error {
	p.CheckIn = model.TruncateToDate(p.CheckIn)
	p.CheckOut = model.TruncateToDate(p.CheckOut)
	if strings.TrimSpace(p.GuestRef) == "" {
		return invalidf("guest_ref is required")
	}
	if p.RoomType == "" && p.RoomID == 0 {
		return invalidf("room_type or room_id is required")
	}
	if !p.CheckOut.After(p.CheckIn) {
		return invalidf("check_out must be after check_in")
	}
	if p.CheckIn.Before(model.Today()) {
		return invalidf("check_in must not be in the past")
	}
	if p.Guests < 1 {
		return invalidf("guests must be at least 1")
	}
	switch p.Status {
	case "":
		p.Status = model.StatusConfirmed
	case model.StatusPending, model.StatusConfirmed:
	default:
		return invalidf("new reservations start PENDING or CONFIRMED, not %s", p.Status)
	}
	switch p.Source {
	case model.SourceWeb, model.SourceWalkIn:
	default:
		return invalidf("unknown reservation source %q", p.Source)
	}
	return nil
}

// candidates returns the rooms worth trying, deterministically ordered:
// fewest future live reservations first, lowest ID as the tie-break, so
// allocations spread across the inventory instead of piling onto one room.
func (a *Allocator) candidates(ctx context.Context, p AllocateParams) ([]model.Room, error) {
	if p.RoomID != 0 {
		room, err := a.store.RoomByID(ctx, p.RoomID)
		if err != nil {
			return nil, err
		}
		if room.HotelID != p.HotelID {
			return nil, invalidf("room %d does not belong to hotel %d", p.RoomID, p.HotelID)
		}
		return []model.Room{*room}, nil
	}
	rooms, err := a.store.RoomsByType(ctx, p.HotelID, p.RoomType)
	if err != nil {
		return nil, err
	}
	bookable := rooms[:0]
	for _, r := range rooms {
		if r.Bookable() && r.Capacity >= p.Guests {
			bookable = append(bookable, r)
		}
	}
	load := make(map[uint64]int, len(bookable))
	today := model.Today()
	for _, r := range bookable {
		n, err := a.store.CountActiveFromDate(ctx, r.ID, today)
		if err != nil {
			return nil, err
		}
		load[r.ID] = n
	}
	sort.Slice(bookable, func(i, j int) bool {
		if load[bookable[i].ID] != load[bookable[j].ID] {
			return load[bookable[i].ID] < load[bookable[j].ID]
		}
		return bookable[i].ID < bookable[j].ID
	})
	return bookable, nil
}

// tryRoom attempts the insert-with-overlap-check as a single atomic unit
// scoped to one room.  The overlap re-read happens inside the lock because
// the caller's earlier availability read is advisory only and time has
// elapsed since.
func (a *Allocator) tryRoom(ctx context.Context, room model.Room, p AllocateParams) (*model.Reservation, error) {
	var created *model.Reservation
	err := a.store.WithRoomLock(ctx, room.ID, func(s Store) error {
		current, err := s.RoomByID(ctx, room.ID)
		if err != nil {
			return err
		}
		if !current.Bookable() {
			return ErrCapacity
		}
		if p.Guests > current.Capacity {
			return invalidf("room %s sleeps %d, requested %d guests", current.Number, current.Capacity, p.Guests)
		}
		live, err := s.ActiveByRoom(ctx, current.ID, 0)
		if err != nil {
			return err
		}
		for i := range live {
			o := &live[i]
			if model.DatesOverlap(p.CheckIn, p.CheckOut, o.CheckIn, o.CheckOut) {
				return ErrCapacity
			}
		}
		total := current.PriceCents * uint32(model.Nights(p.CheckIn, p.CheckOut))
		paid := uint32(0)
		if p.Paid {
			paid = total
		}
		now := time.Now().UTC()
		r := &model.Reservation{
			RoomID:           current.ID,
			HotelID:          current.HotelID,
			RoomType:         current.Type,
			GuestRef:         p.GuestRef,
			CheckIn:          p.CheckIn,
			CheckOut:         p.CheckOut,
			Guests:           p.Guests,
			Status:           p.Status,
			SpecialRequests:  p.SpecialRequests,
			AmountTotalCents: total,
			AmountPaidCents:  paid,
			Currency:         p.Currency,
			Source:           p.Source,
			CreatedAt:        now,
			UpdatedAt:        now,
		}
		if err := s.CreateReservation(ctx, r); err != nil {
			return err
		}
		created = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (a *Allocator) publishCreated(r *model.Reservation) {
	if a.pub == nil || r == nil {
		return
	}
	a.pub.ReservationEvent(context.Background(), queue.ReservationEvent{
		Type:             queue.ReservationCreated,
		ReservationID:    r.ID,
		HotelID:          r.HotelID,
		RoomID:           r.RoomID,
		RoomType:         r.RoomType,
		GuestRef:         r.GuestRef,
		CheckIn:          model.FormatDate(r.CheckIn),
		CheckOut:         model.FormatDate(r.CheckOut),
		Status:           r.Status,
		Source:           r.Source,
		AmountTotalCents: r.AmountTotalCents,
		AmountPaidCents:  r.AmountPaidCents,
		Currency:         r.Currency,
		OccurredAt:       time.Now().UTC().Format(time.RFC3339),
	})
}
