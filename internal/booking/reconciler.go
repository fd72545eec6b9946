package booking

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"strings"
	"time"

	"github.com/iliyamo/hotel-room-reservation/internal/model"
	"github.com/iliyamo/hotel-room-reservation/internal/queue"
)

// Reconciler creates payment intents for prospective web bookings and
// reconciles the gateway's asynchronous outcome back onto a reservation.
// No room is allocated at intent time: allocation is deferred to payment
// success so abandoned checkouts never hold inventory hostage.  The
// gateway callback path is authoritative; caller polling is a cooperative
// pull against the state it writes.
type Reconciler struct {
	store     Store
	allocator *Allocator
	index     *AvailabilityIndex
	gateway   Gateway
	pub       Publisher
	currency  string
}

// NewReconciler wires the reconciler to its collaborators.  currency is
// the ISO code intents are quoted in.  pub may be nil.
func NewReconciler(store Store, allocator *Allocator, index *AvailabilityIndex, gateway Gateway, pub Publisher, currency string) *Reconciler {
	if store == nil || allocator == nil || index == nil || gateway == nil {
		panic("nil dependency passed to NewReconciler")
	}
	return &Reconciler{
		store:     store,
		allocator: allocator,
		index:     index,
		gateway:   gateway,
		pub:       pub,
		currency:  currency,
	}
}

// IntentParams describes a prospective booking to quote and send to the
// gateway.
type IntentParams struct {
	HotelID   uint64
	RoomType  string
	CheckIn   time.Time
	CheckOut  time.Time
	Guests    int
	GuestRef  string
	ReturnURL string
}

// CreateIntent validates the prospective booking, re-checks availability so
// customers are never sent to the gateway for an already-full room type,
// quotes the cheapest bookable room of the type, and persists the intent
// with a fresh correlation reference.  The returned intent carries the
// hosted checkout URL.
func (rc *Reconciler) CreateIntent(ctx context.Context, p IntentParams) (*model.PaymentIntent, error) {
	p.CheckIn = model.TruncateToDate(p.CheckIn)
	p.CheckOut = model.TruncateToDate(p.CheckOut)
	if strings.TrimSpace(p.GuestRef) == "" {
		return nil, invalidf("guest_ref is required")
	}
	if p.RoomType == "" {
		return nil, invalidf("room_type is required")
	}
	if !p.CheckOut.After(p.CheckIn) {
		return nil, invalidf("check_out must be after check_in")
	}
	if p.CheckIn.Before(model.Today()) {
		return nil, invalidf("check_in must not be in the past")
	}
	if p.Guests < 1 {
		return nil, invalidf("guests must be at least 1")
	}

	snaps, err := rc.index.Query(ctx, p.HotelID, p.RoomType, p.CheckIn, p.CheckOut)
	if err != nil {
		return nil, err
	}
	if len(snaps) == 0 || snaps[0].AvailableRooms <= 0 {
		return nil, ErrCapacity
	}

	nightly, err := rc.cheapestNightlyRate(ctx, p.HotelID, p.RoomType, p.Guests)
	if err != nil {
		return nil, err
	}
	txRef, err := randomToken(16)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	in := &model.PaymentIntent{
		HotelID:     p.HotelID,
		RoomType:    p.RoomType,
		CheckIn:     p.CheckIn,
		CheckOut:    p.CheckOut,
		Guests:      p.Guests,
		GuestRef:    p.GuestRef,
		TxRef:       txRef,
		AmountCents: nightly * uint32(model.Nights(p.CheckIn, p.CheckOut)),
		Currency:    rc.currency,
		Status:      model.PaymentInitiated,
		Outcome:     model.IntentProcessing,
		ReturnURL:   p.ReturnURL,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	checkoutURL, err := rc.gateway.CreateCheckout(ctx, txRef, in.AmountCents, in.Currency, p.ReturnURL)
	if err != nil {
		return nil, err
	}
	in.CheckoutURL = checkoutURL
	if err := rc.store.CreateIntent(ctx, in); err != nil {
		return nil, err
	}
	return in, nil
}

// PollResult is what a status probe returns.  IntentStatus reaching
// CONFIRMED, FAILED or OVERSOLD ends the caller's polling loop;
// PROCESSING means keep polling; server-side reconciliation continues
// whether or not the caller keeps watching.
type PollResult struct {
	TxRef         string  `json:"tx_ref"`
	PaymentStatus string  `json:"payment_status"`
	IntentStatus  string  `json:"intent_status"`
	ReservationID *uint64 `json:"reservation_id,omitempty"`
}

// PollStatus is a read-only, idempotent probe by correlation reference.
// It never mutates the intent; retry and backoff policy belong to the
// caller.
func (rc *Reconciler) PollStatus(ctx context.Context, txRef string) (*PollResult, error) {
	in, err := rc.store.IntentByTxRef(ctx, txRef)
	if err != nil {
		return nil, err
	}
	return &PollResult{
		TxRef:         in.TxRef,
		PaymentStatus: in.Status,
		IntentStatus:  in.Outcome,
		ReservationID: in.ReservationID,
	}, nil
}

// Resolve applies the gateway's asynchronous outcome for txRef.  It runs
// under the intent's critical section and is idempotent: once the intent
// is terminal, later deliveries of the same callback return the recorded
// result without re-allocating.
//
// On PAID it re-validates availability by allocating. If the hotel sold
// out between intent creation and payment completion, the intent is
// recorded OVERSOLD and ErrOversold is returned: a paid-but-unallocated
// intent must never exist silently. On FAILED or EXPIRED the terminal
// failure is recorded with no allocation.
func (rc *Reconciler) Resolve(ctx context.Context, txRef, gatewayStatus string) (*model.PaymentIntent, error) {
	switch gatewayStatus {
	case model.PaymentPaid, model.PaymentFailed, model.PaymentExpired:
	case model.PaymentPending:
		// Progress report, not an outcome: remember it and keep waiting.
		return rc.markPending(ctx, txRef)
	default:
		return nil, invalidf("unknown gateway status %q", gatewayStatus)
	}

	var resolved *model.PaymentIntent
	var outcomeErr error
	err := rc.store.WithIntentLock(ctx, txRef, func(s Store) error {
		in, err := s.IntentByTxRef(ctx, txRef)
		if err != nil {
			return err
		}
		if in.Resolved() {
			resolved = in
			return nil
		}
		if in.Status == model.PaymentExpired {
			// An expired intent must never allocate, whatever arrives later.
			gatewayStatus = model.PaymentExpired
		}

		now := time.Now().UTC()
		in.Status = gatewayStatus
		in.UpdatedAt = now

		if gatewayStatus != model.PaymentPaid {
			in.Outcome = model.IntentFailed
			if err := s.UpdateIntent(ctx, in); err != nil {
				return err
			}
			resolved = in
			rc.publishOutcome(in, queue.PaymentFailed)
			return nil
		}

		// Allocate on the callback's store: the reservation insert and the
		// intent update below commit atomically, so a crash between them
		// cannot leave a committed room behind an unresolved intent for the
		// gateway's redelivery to allocate again.
		res, err := rc.allocator.bound(s).Allocate(ctx, AllocateParams{
			HotelID:  in.HotelID,
			RoomType: in.RoomType,
			CheckIn:  in.CheckIn,
			CheckOut: in.CheckOut,
			Guests:   in.Guests,
			GuestRef: in.GuestRef,
			Source:   model.SourceWeb,
			Status:   model.StatusConfirmed,
			Currency: in.Currency,
			Paid:     true,
		})
		if err == ErrCapacity {
			in.Outcome = model.IntentOversold
			if uerr := s.UpdateIntent(ctx, in); uerr != nil {
				return uerr
			}
			resolved = in
			rc.publishOutcome(in, queue.PaymentOversold)
			outcomeErr = ErrOversold
			return nil
		}
		if err != nil {
			return err
		}
		in.Outcome = model.IntentConfirmed
		in.ReservationID = &res.ID
		if err := s.UpdateIntent(ctx, in); err != nil {
			return err
		}
		resolved = in
		rc.publishOutcome(in, queue.PaymentConfirmed)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resolved, outcomeErr
}

// Expire marks a still-unresolved intent EXPIRED.  It is the hook for the
// external expiry policy that sweeps abandoned checkouts; resolved intents
// are left untouched.
func (rc *Reconciler) Expire(ctx context.Context, txRef string) (*model.PaymentIntent, error) {
	var expired *model.PaymentIntent
	err := rc.store.WithIntentLock(ctx, txRef, func(s Store) error {
		in, err := s.IntentByTxRef(ctx, txRef)
		if err != nil {
			return err
		}
		if in.Resolved() {
			expired = in
			return nil
		}
		in.Status = model.PaymentExpired
		in.Outcome = model.IntentFailed
		in.UpdatedAt = time.Now().UTC()
		if err := s.UpdateIntent(ctx, in); err != nil {
			return err
		}
		expired = in
		rc.publishOutcome(in, queue.PaymentFailed)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return expired, nil
}

// markPending records the gateway's in-progress signal on a live intent.
func (rc *Reconciler) markPending(ctx context.Context, txRef string) (*model.PaymentIntent, error) {
	var in *model.PaymentIntent
	err := rc.store.WithIntentLock(ctx, txRef, func(s Store) error {
		cur, err := s.IntentByTxRef(ctx, txRef)
		if err != nil {
			return err
		}
		if !cur.Resolved() && cur.Status == model.PaymentInitiated {
			cur.Status = model.PaymentPending
			cur.UpdatedAt = time.Now().UTC()
			if err := s.UpdateIntent(ctx, cur); err != nil {
				return err
			}
		}
		in = cur
		return nil
	})
	if err != nil {
		return nil, err
	}
	return in, nil
}

func (rc *Reconciler) publishOutcome(in *model.PaymentIntent, eventType string) {
	if rc.pub == nil || in == nil {
		return
	}
	rc.pub.PaymentEvent(context.Background(), queue.PaymentEvent{
		Type:          eventType,
		IntentID:      in.ID,
		TxRef:         in.TxRef,
		HotelID:       in.HotelID,
		RoomType:      in.RoomType,
		GuestRef:      in.GuestRef,
		AmountCents:   in.AmountCents,
		Currency:      in.Currency,
		ReservationID: in.ReservationID,
		OccurredAt:    time.Now().UTC().Format(time.RFC3339),
	})
}

// cheapestNightlyRate quotes the intent off the cheapest bookable room of
// the type that fits the party.  The final reservation is re-priced off
// the room actually allocated.
func (rc *Reconciler) cheapestNightlyRate(ctx context.Context, hotelID uint64, roomType string, guests int) (uint32, error) {
	rooms, err := rc.store.RoomsByType(ctx, hotelID, roomType)
	if err != nil {
		return 0, err
	}
	var best uint32
	found := false
	for i := range rooms {
		r := &rooms[i]
		if !r.Bookable() || r.Capacity < guests {
			continue
		}
		if !found || r.PriceCents < best {
			best = r.PriceCents
			found = true
		}
	}
	if !found {
		return 0, ErrCapacity
	}
	return best, nil
}

// randomToken returns n cryptographically random bytes hex-encoded, used
// for gateway correlation references.
func randomToken(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
