// Package repository implements the booking.Store interface on MySQL.
// Queries are written against database/sql with sqlx scanning; every
// critical section is a transaction anchored by a SELECT ... FOR UPDATE on
// the row that scopes the operation (room, reservation or intent).
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/iliyamo/hotel-room-reservation/internal/booking"
)

// Store is the MySQL-backed booking.Store.  Outside a critical section its
// queries run directly on the pool; inside one, the same methods run on
// the open transaction, so callback code cannot accidentally escape the
// lock scope.
type Store struct {
	db *sqlx.DB
	q  sqlx.ExtContext
}

// NewStore binds a Store to the given database pool.
func NewStore(db *sqlx.DB) *Store {
	if db == nil {
		panic("nil db passed to NewStore")
	}
	return &Store{db: db, q: db}
}

// WithRoomLock runs fn inside a transaction holding an exclusive lock on
// the room row.  Two racing allocations for the same room serialize here:
// the second sees the first's committed reservation when it re-reads.
func (s *Store) WithRoomLock(ctx context.Context, roomID uint64, fn func(booking.Store) error) error {
	return s.withRowLock(ctx, `SELECT id FROM rooms WHERE id = ? FOR UPDATE`, roomID, booking.ErrRoomNotFound, fn)
}

// WithReservationLock runs fn holding an exclusive lock on the reservation
// row, serializing simultaneous staff transitions on one reservation.
func (s *Store) WithReservationLock(ctx context.Context, id uint64, fn func(booking.Store) error) error {
	return s.withRowLock(ctx, `SELECT id FROM reservations WHERE id = ? FOR UPDATE`, id, booking.ErrReservationNotFound, fn)
}

// WithIntentLock runs fn holding an exclusive lock on the payment intent
// row, making gateway callback handling idempotent under redelivery.
func (s *Store) WithIntentLock(ctx context.Context, txRef string, fn func(booking.Store) error) error {
	return s.withRowLock(ctx, `SELECT id FROM payment_intents WHERE tx_ref = ? FOR UPDATE`, txRef, booking.ErrIntentNotFound, fn)
}

// withRowLock opens the critical section.  When the store is already
// transaction-bound (nested lock, e.g. an edit taking the room lock inside
// a reservation lock) the anchor row is locked on the same transaction
// instead of opening a second one.
func (s *Store) withRowLock(ctx context.Context, lockQuery string, arg any, notFound error, fn func(booking.Store) error) error {
	if _, inTx := s.q.(*sqlx.Tx); inTx {
		if err := s.lockRow(ctx, s.q, lockQuery, arg, notFound); err != nil {
			return err
		}
		return fn(s)
	}
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	if err := s.lockRow(ctx, tx, lockQuery, arg, notFound); err != nil {
		return err
	}
	if err := fn(&Store{db: s.db, q: tx}); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

func (s *Store) lockRow(ctx context.Context, q sqlx.ExtContext, lockQuery string, arg any, notFound error) error {
	var id uint64
	if err := sqlx.GetContext(ctx, q, &id, lockQuery, arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return notFound
		}
		return err
	}
	return nil
}

// normalizePage applies the listing defaults shared with the in-memory store.
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
