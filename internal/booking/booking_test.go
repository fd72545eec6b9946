package booking

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/iliyamo/hotel-room-reservation/internal/model"
	"github.com/iliyamo/hotel-room-reservation/internal/queue"
)

// Shared fixtures for the booking test suites.  Everything runs against
// MemStore, whose per-key critical sections mirror the SQL store's row
// locks, so the concurrency behaviour under test matches production.

const testHotel = uint64(1)

// day returns a UTC midnight date n days from today.  Allocation floors
// check-in to today, so fixtures always book into the future.
func day(n int) time.Time {
	return model.Today().AddDate(0, 0, n)
}

// seedRooms inserts count rooms of one type and returns their IDs.
func seedRooms(store *MemStore, startID uint64, roomType string, count, capacity int, priceCents uint32) []uint64 {
	ids := make([]uint64, 0, count)
	for i := 0; i < count; i++ {
		id := startID + uint64(i)
		store.PutRoom(model.Room{
			ID:         id,
			HotelID:    testHotel,
			Number:     fmt.Sprintf("%d", 100+id),
			Type:       roomType,
			Capacity:   capacity,
			PriceCents: priceCents,
			BaseStatus: model.RoomAvailable,
		})
		ids = append(ids, id)
	}
	return ids
}

// recordingPublisher collects published events for assertions.
type recordingPublisher struct {
	mu          sync.Mutex
	reservation []queue.ReservationEvent
	payment     []queue.PaymentEvent
}

func (p *recordingPublisher) ReservationEvent(_ context.Context, ev queue.ReservationEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.reservation = append(p.reservation, ev)
}

func (p *recordingPublisher) PaymentEvent(_ context.Context, ev queue.PaymentEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.payment = append(p.payment, ev)
}

func (p *recordingPublisher) reservationEvents() []queue.ReservationEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]queue.ReservationEvent, len(p.reservation))
	copy(out, p.reservation)
	return out
}

func (p *recordingPublisher) paymentEvents() []queue.PaymentEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]queue.PaymentEvent, len(p.payment))
	copy(out, p.payment)
	return out
}

// stubGateway fabricates checkout URLs without any network call.
type stubGateway struct{}

func (stubGateway) CreateCheckout(_ context.Context, txRef string, amountCents uint32, currency, _ string) (string, error) {
	return fmt.Sprintf("https://gateway.test/checkout?tx_ref=%s&amount=%d&currency=%s", txRef, amountCents, currency), nil
}

// walkIn is the shorthand allocation request used across the suites.
func walkIn(roomType string, checkIn, checkOut time.Time) AllocateParams {
	return AllocateParams{
		HotelID:  testHotel,
		RoomType: roomType,
		CheckIn:  checkIn,
		CheckOut: checkOut,
		Guests:   1,
		GuestRef: "guest-1",
		Source:   model.SourceWalkIn,
		Currency: "USD",
	}
}
