package booking

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/iliyamo/hotel-room-reservation/internal/model"
)

// MemStore is an in-memory Store used by the test suites and for local
// development without MySQL.  Critical sections are per-key mutexes, the
// in-process analogue of the SQL store's SELECT ... FOR UPDATE rows, so
// the concurrency properties under test match production semantics.
type MemStore struct {
	mu           sync.RWMutex
	rooms        map[uint64]model.Room
	reservations map[uint64]model.Reservation
	intents      map[string]model.PaymentIntent
	nextResID    uint64
	nextIntentID uint64

	locksMu     sync.Mutex
	roomLocks   map[uint64]*sync.Mutex
	resLocks    map[uint64]*sync.Mutex
	intentLocks map[string]*sync.Mutex
}

// NewMemStore returns an empty MemStore.
func NewMemStore() *MemStore {
	return &MemStore{
		rooms:        make(map[uint64]model.Room),
		reservations: make(map[uint64]model.Reservation),
		intents:      make(map[string]model.PaymentIntent),
		roomLocks:    make(map[uint64]*sync.Mutex),
		resLocks:     make(map[uint64]*sync.Mutex),
		intentLocks:  make(map[string]*sync.Mutex),
	}
}

// PutRoom inserts or replaces a catalog room.  The room catalog is
// external configuration, so this is seeding, not a core operation.
func (m *MemStore) PutRoom(r model.Room) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rooms[r.ID] = r
}

func (m *MemStore) RoomByID(_ context.Context, id uint64) (*model.Room, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.rooms[id]
	if !ok {
		return nil, ErrRoomNotFound
	}
	return &r, nil
}

func (m *MemStore) RoomsByType(_ context.Context, hotelID uint64, roomType string) ([]model.Room, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]model.Room, 0)
	for _, r := range m.rooms {
		if r.HotelID == hotelID && (roomType == "" || r.Type == roomType) {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MemStore) RoomTypes(_ context.Context, hotelID uint64) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	seen := make(map[string]struct{})
	for _, r := range m.rooms {
		if r.HotelID == hotelID {
			seen[r.Type] = struct{}{}
		}
	}
	types := make([]string, 0, len(seen))
	for t := range seen {
		types = append(types, t)
	}
	sort.Strings(types)
	return types, nil
}

func (m *MemStore) ReservationByID(_ context.Context, id uint64) (*model.Reservation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.reservations[id]
	if !ok {
		return nil, ErrReservationNotFound
	}
	return &r, nil
}

func (m *MemStore) ActiveByRoom(_ context.Context, roomID, excludeID uint64) ([]model.Reservation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]model.Reservation, 0)
	for _, r := range m.reservations {
		if r.RoomID == roomID && r.ID != excludeID && r.Active() {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MemStore) ActiveByType(_ context.Context, hotelID uint64, roomType string, from, until time.Time) ([]model.Reservation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]model.Reservation, 0)
	for _, r := range m.reservations {
		if r.HotelID == hotelID && r.RoomType == roomType && r.Active() &&
			model.DatesOverlap(r.CheckIn, r.CheckOut, from, until) {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MemStore) CountActiveFromDate(_ context.Context, roomID uint64, from time.Time) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n := 0
	for _, r := range m.reservations {
		if r.RoomID == roomID && r.Active() && r.CheckOut.After(from) {
			n++
		}
	}
	return n, nil
}

func (m *MemStore) ListReservations(_ context.Context, f model.ReservationFilter) ([]model.Reservation, int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	matched := make([]model.Reservation, 0)
	for _, r := range m.reservations {
		if f.HotelID != 0 && r.HotelID != f.HotelID {
			continue
		}
		if f.RoomID != 0 && r.RoomID != f.RoomID {
			continue
		}
		if f.Status != "" && r.Status != f.Status {
			continue
		}
		if f.GuestRef != "" && r.GuestRef != f.GuestRef {
			continue
		}
		matched = append(matched, r)
	}
	// Newest first, ID as a stable tie-break.
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].ID > matched[j].ID
	})
	total := len(matched)
	page, per := normalizePage(f.Page, f.PerPage)
	start := (page - 1) * per
	if start >= total {
		return []model.Reservation{}, total, nil
	}
	end := start + per
	if end > total {
		end = total
	}
	return matched[start:end], total, nil
}

func (m *MemStore) CreateReservation(_ context.Context, r *model.Reservation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextResID++
	r.ID = m.nextResID
	m.reservations[r.ID] = *r
	return nil
}

func (m *MemStore) UpdateReservation(_ context.Context, r *model.Reservation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.reservations[r.ID]; !ok {
		return ErrReservationNotFound
	}
	m.reservations[r.ID] = *r
	return nil
}

func (m *MemStore) CreateIntent(_ context.Context, in *model.PaymentIntent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextIntentID++
	in.ID = m.nextIntentID
	m.intents[in.TxRef] = *in
	return nil
}

func (m *MemStore) IntentByTxRef(_ context.Context, txRef string) (*model.PaymentIntent, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	in, ok := m.intents[txRef]
	if !ok {
		return nil, ErrIntentNotFound
	}
	return &in, nil
}

func (m *MemStore) UpdateIntent(_ context.Context, in *model.PaymentIntent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.intents[in.TxRef]; !ok {
		return ErrIntentNotFound
	}
	m.intents[in.TxRef] = *in
	return nil
}

func (m *MemStore) WithRoomLock(_ context.Context, roomID uint64, fn func(Store) error) error {
	mu := m.keyedLock(&m.roomLocks, roomID)
	mu.Lock()
	defer mu.Unlock()
	return fn(m)
}

func (m *MemStore) WithReservationLock(_ context.Context, id uint64, fn func(Store) error) error {
	mu := m.keyedLock(&m.resLocks, id)
	mu.Lock()
	defer mu.Unlock()
	return fn(m)
}

func (m *MemStore) WithIntentLock(_ context.Context, txRef string, fn func(Store) error) error {
	m.locksMu.Lock()
	mu, ok := m.intentLocks[txRef]
	if !ok {
		mu = &sync.Mutex{}
		m.intentLocks[txRef] = mu
	}
	m.locksMu.Unlock()
	mu.Lock()
	defer mu.Unlock()
	return fn(m)
}

func (m *MemStore) keyedLock(locks *map[uint64]*sync.Mutex, key uint64) *sync.Mutex {
	m.locksMu.Lock()
	defer m.locksMu.Unlock()
	mu, ok := (*locks)[key]
	if !ok {
		mu = &sync.Mutex{}
		(*locks)[key] = mu
	}
	return mu
}

// normalizePage applies the listing defaults shared with the SQL store.
func normalizePage(page, per int) (int, int) {
	if page < 1 {
		page = 1
	}
	if per < 1 {
		per = 20
	}
	if per > 100 {
		per = 100
	}
	return page, per
}
