package booking

import (
	"context"
	"time"

	"github.com/iliyamo/hotel-room-reservation/internal/model"
	"github.com/iliyamo/hotel-room-reservation/internal/queue"
)

// Store is the persistence surface the core depends on.  The SQL
// implementation lives in internal/repository; an in-memory implementation
// (MemStore) backs the tests.
//
// The With*Lock methods open the transactional critical sections the
// concurrency model requires: the callback receives a Store view bound to
// the same transaction, and every read inside it observes a consistent,
// exclusively-locked anchor row.  Reads outside a lock are advisory by
// construction and never constitute a hold.
type Store interface {
	// Rooms.  The catalog is external configuration; only reads exist.
	RoomByID(ctx context.Context, id uint64) (*model.Room, error)
	RoomsByType(ctx context.Context, hotelID uint64, roomType string) ([]model.Room, error)
	RoomTypes(ctx context.Context, hotelID uint64) ([]string, error)

	// Reservations.
	ReservationByID(ctx context.Context, id uint64) (*model.Reservation, error)
	// ActiveByRoom returns every non-terminal reservation on the room,
	// excluding excludeID when non-zero (used when editing a reservation
	// against its own room).
	ActiveByRoom(ctx context.Context, roomID, excludeID uint64) ([]model.Reservation, error)
	// ActiveByType returns non-terminal reservations of the given hotel and
	// room type whose stay overlaps [from, until).
	ActiveByType(ctx context.Context, hotelID uint64, roomType string, from, until time.Time) ([]model.Reservation, error)
	// CountActiveFromDate counts non-terminal reservations on the room whose
	// checkout falls after the given date; the allocator uses it to spread
	// new bookings across the least-loaded rooms.
	CountActiveFromDate(ctx context.Context, roomID uint64, from time.Time) (int, error)
	ListReservations(ctx context.Context, f model.ReservationFilter) ([]model.Reservation, int, error)
	CreateReservation(ctx context.Context, r *model.Reservation) error
	UpdateReservation(ctx context.Context, r *model.Reservation) error

	// Payment intents.
	CreateIntent(ctx context.Context, in *model.PaymentIntent) error
	IntentByTxRef(ctx context.Context, txRef string) (*model.PaymentIntent, error)
	UpdateIntent(ctx context.Context, in *model.PaymentIntent) error

	// Critical sections, scoped to a single anchor row.
	WithRoomLock(ctx context.Context, roomID uint64, fn func(Store) error) error
	WithReservationLock(ctx context.Context, id uint64, fn func(Store) error) error
	WithIntentLock(ctx context.Context, txRef string, fn func(Store) error) error
}

// Publisher delivers lifecycle events to the audit/notification sinks.
// Publishing is fire-and-forget: implementations log failures and never
// block or fail the calling operation.  A nil Publisher is valid and
// silently drops events.
type Publisher interface {
	ReservationEvent(ctx context.Context, ev queue.ReservationEvent)
	PaymentEvent(ctx context.Context, ev queue.PaymentEvent)
}

// Gateway abstracts the external payment provider.  Its internal
// processing is opaque to this core: the only interaction is obtaining a
// hosted checkout URL for a correlation reference.  The asynchronous
// outcome arrives later through the reconciler's Resolve path.
type Gateway interface {
	CreateCheckout(ctx context.Context, txRef string, amountCents uint32, currency, returnURL string) (string, error)
}
