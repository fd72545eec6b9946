package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/iliyamo/hotel-room-reservation/internal/booking"
	"github.com/iliyamo/hotel-room-reservation/internal/model"
)

const reservationColumns = `id, room_id, hotel_id, room_type, guest_ref, check_in, check_out,
	guests, status, special_requests, amount_total_cents, amount_paid_cents,
	currency, source, created_at, updated_at`

// ReservationByID loads one reservation.
func (s *Store) ReservationByID(ctx context.Context, id uint64) (*model.Reservation, error) {
	var r model.Reservation
	err := sqlx.GetContext(ctx, s.q, &r,
		`SELECT `+reservationColumns+` FROM reservations WHERE id = ?`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, booking.ErrReservationNotFound
		}
		return nil, err
	}
	return &r, nil
}

// ActiveByRoom returns every non-terminal reservation on the room.  When
// excludeID is non-zero that reservation is left out, which is how an edit
// checks overlap against everyone but itself.
func (s *Store) ActiveByRoom(ctx context.Context, roomID, excludeID uint64) ([]model.Reservation, error) {
	query, args, err := sqlx.In(
		`SELECT `+reservationColumns+` FROM reservations
		 WHERE room_id = ? AND id <> ? AND status IN (?) ORDER BY id`,
		roomID, excludeID, model.ActiveStatuses())
	if err != nil {
		return nil, err
	}
	out := make([]model.Reservation, 0)
	err = sqlx.SelectContext(ctx, s.q, &out, s.db.Rebind(query), args...)
	return out, err
}

// ActiveByType returns non-terminal reservations of the hotel and room
// type whose [check_in, check_out) overlaps [from, until).
func (s *Store) ActiveByType(ctx context.Context, hotelID uint64, roomType string, from, until time.Time) ([]model.Reservation, error) {
	query, args, err := sqlx.In(
		`SELECT `+reservationColumns+` FROM reservations
		 WHERE hotel_id = ? AND room_type = ? AND status IN (?)
		   AND check_in < ? AND check_out > ?
		 ORDER BY id`,
		hotelID, roomType, model.ActiveStatuses(), until, from)
	if err != nil {
		return nil, err
	}
	out := make([]model.Reservation, 0)
	err = sqlx.SelectContext(ctx, s.q, &out, s.db.Rebind(query), args...)
	return out, err
}

// CountActiveFromDate counts the room's live reservations still holding
// nights on or after the given date.
func (s *Store) CountActiveFromDate(ctx context.Context, roomID uint64, from time.Time) (int, error) {
	query, args, err := sqlx.In(
		`SELECT COUNT(*) FROM reservations
		 WHERE room_id = ? AND status IN (?) AND check_out > ?`,
		roomID, model.ActiveStatuses(), from)
	if err != nil {
		return 0, err
	}
	var n int
	err = sqlx.GetContext(ctx, s.q, &n, s.db.Rebind(query), args...)
	return n, err
}

// ListReservations returns one page of matches plus the total count.
// Filters compose with AND; zero values are skipped.
func (s *Store) ListReservations(ctx context.Context, f model.ReservationFilter) ([]model.Reservation, int, error) {
	where := ` WHERE 1 = 1`
	args := make([]any, 0, 4)
	if f.HotelID != 0 {
		where += ` AND hotel_id = ?`
		args = append(args, f.HotelID)
	}
	if f.RoomID != 0 {
		where += ` AND room_id = ?`
		args = append(args, f.RoomID)
	}
	if f.Status != "" {
		where += ` AND status = ?`
		args = append(args, f.Status)
	}
	if f.GuestRef != "" {
		where += ` AND guest_ref = ?`
		args = append(args, f.GuestRef)
	}

	var total int
	if err := sqlx.GetContext(ctx, s.q, &total,
		`SELECT COUNT(*) FROM reservations`+where, args...); err != nil {
		return nil, 0, err
	}

	page, per := normalizePage(f.Page, f.PerPage)
	out := make([]model.Reservation, 0, per)
	pageArgs := append(args, per, (page-1)*per)
	err := sqlx.SelectContext(ctx, s.q, &out,
		`SELECT `+reservationColumns+` FROM reservations`+where+
			` ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`, pageArgs...)
	if err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// CreateReservation inserts the row and populates the generated ID.
func (s *Store) CreateReservation(ctx context.Context, r *model.Reservation) error {
	res, err := s.q.ExecContext(ctx,
		`INSERT INTO reservations
		 (room_id, hotel_id, room_type, guest_ref, check_in, check_out, guests,
		  status, special_requests, amount_total_cents, amount_paid_cents,
		  currency, source, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.RoomID, r.HotelID, r.RoomType, r.GuestRef, r.CheckIn, r.CheckOut, r.Guests,
		r.Status, r.SpecialRequests, r.AmountTotalCents, r.AmountPaidCents,
		r.Currency, r.Source, r.CreatedAt, r.UpdatedAt)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	r.ID = uint64(id)
	return nil
}

// UpdateReservation writes back every mutable column.
func (s *Store) UpdateReservation(ctx context.Context, r *model.Reservation) error {
	res, err := s.q.ExecContext(ctx,
		`UPDATE reservations SET
		   room_id = ?, room_type = ?, check_in = ?, check_out = ?, guests = ?,
		   status = ?, special_requests = ?, amount_total_cents = ?,
		   amount_paid_cents = ?, updated_at = ?
		 WHERE id = ?`,
		r.RoomID, r.RoomType, r.CheckIn, r.CheckOut, r.Guests,
		r.Status, r.SpecialRequests, r.AmountTotalCents,
		r.AmountPaidCents, r.UpdatedAt, r.ID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		// RowsAffected is 0 both for a missing row and for a no-op write;
		// only the former is an error.
		if _, err := s.ReservationByID(ctx, r.ID); err != nil {
			return err
		}
	}
	return nil
}
