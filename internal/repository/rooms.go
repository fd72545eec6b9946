package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/iliyamo/hotel-room-reservation/internal/booking"
	"github.com/iliyamo/hotel-room-reservation/internal/model"
)

const roomColumns = `id, hotel_id, number, room_type, capacity, price_cents, base_status, created_at, updated_at`

// RoomByID loads one catalog room.
func (s *Store) RoomByID(ctx context.Context, id uint64) (*model.Room, error) {
	var r model.Room
	err := sqlx.GetContext(ctx, s.q, &r,
		`SELECT `+roomColumns+` FROM rooms WHERE id = ?`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, booking.ErrRoomNotFound
		}
		return nil, err
	}
	return &r, nil
}

// RoomsByType lists a hotel's rooms, optionally restricted to one type.
// All base statuses are returned; callers filter on bookability.
func (s *Store) RoomsByType(ctx context.Context, hotelID uint64, roomType string) ([]model.Room, error) {
	rooms := make([]model.Room, 0)
	if roomType == "" {
		err := sqlx.SelectContext(ctx, s.q, &rooms,
			`SELECT `+roomColumns+` FROM rooms WHERE hotel_id = ? ORDER BY id`, hotelID)
		return rooms, err
	}
	err := sqlx.SelectContext(ctx, s.q, &rooms,
		`SELECT `+roomColumns+` FROM rooms WHERE hotel_id = ? AND room_type = ? ORDER BY id`,
		hotelID, roomType)
	return rooms, err
}

// RoomTypes lists the distinct room types configured for a hotel.
func (s *Store) RoomTypes(ctx context.Context, hotelID uint64) ([]string, error) {
	types := make([]string, 0)
	err := sqlx.SelectContext(ctx, s.q, &types,
		`SELECT DISTINCT room_type FROM rooms WHERE hotel_id = ? ORDER BY room_type`, hotelID)
	return types, err
}
