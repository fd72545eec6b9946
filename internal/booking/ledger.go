package booking

import (
	"context"
	"time"

	"github.com/iliyamo/hotel-room-reservation/internal/model"
	"github.com/iliyamo/hotel-room-reservation/internal/queue"
)

// Ledger is the authoritative reservation set and the state machine
// governing its transitions.  Every mutation runs inside a per-reservation
// critical section so a simultaneous check-in and cancel on one
// reservation cannot both succeed.  Illegal transitions are always
// rejected, never coerced to the nearest legal state.
type Ledger struct {
	store Store
	pub   Publisher
}

// NewLedger constructs a Ledger.  pub may be nil, in which case lifecycle
// events are dropped.
func NewLedger(store Store, pub Publisher) *Ledger {
	if store == nil {
		panic("nil store passed to NewLedger")
	}
	return &Ledger{store: store, pub: pub}
}

// Get returns a single reservation by ID.
func (l *Ledger) Get(ctx context.Context, id uint64) (*model.Reservation, error) {
	return l.store.ReservationByID(ctx, id)
}

// List returns a filtered, paginated page of reservations together with
// the total match count.
func (l *Ledger) List(ctx context.Context, f model.ReservationFilter) ([]model.Reservation, int, error) {
	return l.store.ListReservations(ctx, f)
}

// Confirm moves a PENDING reservation to CONFIRMED.  Used by staff for
// walk-ins with deferred desk payment, and by the reconciler path for
// reservations it materialises in PENDING.
func (l *Ledger) Confirm(ctx context.Context, id uint64) (*model.Reservation, error) {
	return l.transition(ctx, id, model.StatusConfirmed, queue.ReservationConfirmed)
}

// CheckIn moves a CONFIRMED reservation to CHECKED_IN.  Checking in before
// the reservation's check-in date is permitted but flagged on the emitted
// event so the audit trail records the override.
func (l *Ledger) CheckIn(ctx context.Context, id uint64) (*model.Reservation, error) {
	return l.transition(ctx, id, model.StatusCheckedIn, queue.ReservationCheckedIn)
}

// CheckOut moves a CHECKED_IN reservation to CHECKED_OUT.  Full payment is
// not required: whatever amount_paid currently stands at is what the
// terminal record keeps.
func (l *Ledger) CheckOut(ctx context.Context, id uint64) (*model.Reservation, error) {
	return l.transition(ctx, id, model.StatusCheckedOut, queue.ReservationCheckedOut)
}

// Cancel moves a PENDING or CONFIRMED reservation to CANCELLED.  The
// room-nights are freed immediately: cancelled reservations never count in
// the availability overlap computation.
func (l *Ledger) Cancel(ctx context.Context, id uint64) (*model.Reservation, error) {
	return l.transition(ctx, id, model.StatusCancelled, queue.ReservationCancelled)
}

// transition applies one status change under the reservation's lock.
func (l *Ledger) transition(ctx context.Context, id uint64, to, eventType string) (*model.Reservation, error) {
	var updated *model.Reservation
	early := false
	err := l.store.WithReservationLock(ctx, id, func(s Store) error {
		r, err := s.ReservationByID(ctx, id)
		if err != nil {
			return err
		}
		if !model.CanTransition(r.Status, to) {
			return &StateTransitionError{From: r.Status, To: to}
		}
		if to == model.StatusCheckedIn {
			early = model.Today().Before(r.CheckIn)
		}
		r.Status = to
		r.UpdatedAt = time.Now().UTC()
		if err := s.UpdateReservation(ctx, r); err != nil {
			return err
		}
		updated = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	l.publish(updated, eventType, early)
	return updated, nil
}

// EditParams carries the mutable fields of a live reservation.  Nil
// pointers mean "leave unchanged".  Dates must be changed as a pair.
type EditParams struct {
	RoomID          *uint64
	CheckIn         *time.Time
	CheckOut        *time.Time
	SpecialRequests *string
}

// Edit mutates a PENDING or CONFIRMED reservation's room, dates or
// requests.  It holds the reservation's lock for the whole edit so a
// simultaneous transition cannot slip between the status check and the
// write-back, and nests the target room's lock inside it to re-check the
// non-overlap invariant against every other live reservation on that room,
// with this reservation excluded.  Lock order is always reservation then
// room, matching the reconciler's intent-then-room order, so the nested
// sections never deadlock.  The stay is re-priced off the target room when
// room or dates change.
func (l *Ledger) Edit(ctx context.Context, id uint64, p EditParams) (*model.Reservation, error) {
	if (p.CheckIn == nil) != (p.CheckOut == nil) {
		return nil, invalidf("check_in and check_out must be changed together")
	}

	var updated *model.Reservation
	err := l.store.WithReservationLock(ctx, id, func(s Store) error {
		r, err := s.ReservationByID(ctx, id)
		if err != nil {
			return err
		}
		if r.Status != model.StatusPending && r.Status != model.StatusConfirmed {
			return &StateTransitionError{From: r.Status, To: r.Status}
		}

		targetRoom := r.RoomID
		if p.RoomID != nil {
			targetRoom = *p.RoomID
		}
		checkIn, checkOut := r.CheckIn, r.CheckOut
		if p.CheckIn != nil {
			checkIn = model.TruncateToDate(*p.CheckIn)
			checkOut = model.TruncateToDate(*p.CheckOut)
		}
		if !checkOut.After(checkIn) {
			return invalidf("check_out must be after check_in")
		}

		return s.WithRoomLock(ctx, targetRoom, func(s Store) error {
			room, err := s.RoomByID(ctx, targetRoom)
			if err != nil {
				return err
			}
			if !room.Bookable() {
				return ErrCapacity
			}
			if r.Guests > room.Capacity {
				return invalidf("room %s sleeps %d, reservation has %d guests", room.Number, room.Capacity, r.Guests)
			}
			others, err := s.ActiveByRoom(ctx, targetRoom, r.ID)
			if err != nil {
				return err
			}
			for i := range others {
				o := &others[i]
				if model.DatesOverlap(checkIn, checkOut, o.CheckIn, o.CheckOut) {
					return ErrCapacity
				}
			}
			repriced := targetRoom != r.RoomID || !checkIn.Equal(r.CheckIn) || !checkOut.Equal(r.CheckOut)
			r.RoomID = targetRoom
			r.RoomType = room.Type
			r.CheckIn = checkIn
			r.CheckOut = checkOut
			if p.SpecialRequests != nil {
				r.SpecialRequests = *p.SpecialRequests
			}
			if repriced {
				r.AmountTotalCents = room.PriceCents * uint32(model.Nights(checkIn, checkOut))
				if r.AmountPaidCents > r.AmountTotalCents {
					// Paid amount never exceeds the total; the surplus is the
					// refund workflow's concern, not the ledger's.
					r.AmountTotalCents = r.AmountPaidCents
				}
			}
			r.UpdatedAt = time.Now().UTC()
			if err := s.UpdateReservation(ctx, r); err != nil {
				return err
			}
			updated = r
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// publish emits a lifecycle event.  Fire-and-forget: a nil publisher or a
// broker outage never affects the transition that already committed.
func (l *Ledger) publish(r *model.Reservation, eventType string, early bool) {
	if l.pub == nil || r == nil {
		return
	}
	l.pub.ReservationEvent(context.Background(), queue.ReservationEvent{
		Type:             eventType,
		ReservationID:    r.ID,
		HotelID:          r.HotelID,
		RoomID:           r.RoomID,
		RoomType:         r.RoomType,
		GuestRef:         r.GuestRef,
		CheckIn:          model.FormatDate(r.CheckIn),
		CheckOut:         model.FormatDate(r.CheckOut),
		Status:           r.Status,
		Source:           r.Source,
		EarlyCheckIn:     early,
		AmountTotalCents: r.AmountTotalCents,
		AmountPaidCents:  r.AmountPaidCents,
		Currency:         r.Currency,
		OccurredAt:       time.Now().UTC().Format(time.RFC3339),
	})
}
