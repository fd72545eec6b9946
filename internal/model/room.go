package model

import "time"

// Room base statuses.  Only RoomAvailable rooms participate in availability
// and allocation; maintenance and unavailable rooms are invisible to both.
const (
	RoomAvailable   = "AVAILABLE"
	RoomMaintenance = "MAINTENANCE"
	RoomUnavailable = "UNAVAILABLE"
)

// Room is one physical, bookable room in a hotel.  The room catalog is
// external configuration: this service reads rooms but never creates or
// deletes them.
//
// Fields:
//  ID         – primary key identifier.
//  HotelID    – hotel the room belongs to.
//  Number     – human-facing room number ("204", "PH-1").
//  Type       – room type key ("DELUXE", "STANDARD", ...).
//  Capacity   – maximum number of guests the room sleeps.
//  PriceCents – nightly rate in minor currency units.
//  BaseStatus – AVAILABLE, MAINTENANCE or UNAVAILABLE.
type Room struct {
	ID         uint64    `db:"id" json:"id"`
	HotelID    uint64    `db:"hotel_id" json:"hotel_id"`
	Number     string    `db:"number" json:"number"`
	Type       string    `db:"room_type" json:"room_type"`
	Capacity   int       `db:"capacity" json:"capacity"`
	PriceCents uint32    `db:"price_cents" json:"price_cents"`
	BaseStatus string    `db:"base_status" json:"base_status"`
	CreatedAt  time.Time `db:"created_at" json:"-"`
	UpdatedAt  time.Time `db:"updated_at" json:"-"`
}

// Bookable reports whether the room may ever be allocated.  It does not
// consult reservations, only the static base status.
func (r *Room) Bookable() bool {
	return r.BaseStatus == RoomAvailable
}
