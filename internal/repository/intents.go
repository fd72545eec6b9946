package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/iliyamo/hotel-room-reservation/internal/booking"
	"github.com/iliyamo/hotel-room-reservation/internal/model"
)

const intentColumns = `id, hotel_id, room_type, check_in, check_out, guests, guest_ref,
	tx_ref, amount_cents, currency, status, outcome, reservation_id,
	return_url, checkout_url, created_at, updated_at`

// CreateIntent inserts the intent and populates the generated ID.  TxRef
// carries a unique index, so a correlation-key collision surfaces as a
// database error instead of two intents sharing one gateway transaction.
func (s *Store) CreateIntent(ctx context.Context, in *model.PaymentIntent) error {
	res, err := s.q.ExecContext(ctx,
		`INSERT INTO payment_intents
		 (hotel_id, room_type, check_in, check_out, guests, guest_ref, tx_ref,
		  amount_cents, currency, status, outcome, reservation_id,
		  return_url, checkout_url, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		in.HotelID, in.RoomType, in.CheckIn, in.CheckOut, in.Guests, in.GuestRef, in.TxRef,
		in.AmountCents, in.Currency, in.Status, in.Outcome, in.ReservationID,
		in.ReturnURL, in.CheckoutURL, in.CreatedAt, in.UpdatedAt)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	in.ID = uint64(id)
	return nil
}

// IntentByTxRef loads one intent by its external correlation key.
func (s *Store) IntentByTxRef(ctx context.Context, txRef string) (*model.PaymentIntent, error) {
	var in model.PaymentIntent
	err := sqlx.GetContext(ctx, s.q, &in,
		`SELECT `+intentColumns+` FROM payment_intents WHERE tx_ref = ?`, txRef)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, booking.ErrIntentNotFound
		}
		return nil, err
	}
	return &in, nil
}

// UpdateIntent writes back the reconciliation-mutable columns.
func (s *Store) UpdateIntent(ctx context.Context, in *model.PaymentIntent) error {
	_, err := s.q.ExecContext(ctx,
		`UPDATE payment_intents SET
		   status = ?, outcome = ?, reservation_id = ?, updated_at = ?
		 WHERE tx_ref = ?`,
		in.Status, in.Outcome, in.ReservationID, in.UpdatedAt, in.TxRef)
	return err
}
