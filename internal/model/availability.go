package model

import "time"

// AvailabilitySnapshot is the derived answer to "how many rooms of this
// type are free for this range".  It is recomputed on demand from rooms
// and reservations and never persisted or cached across requests, so it is
// always advisory: allocation re-validates under a lock.
//
// AvailableRooms is TotalRooms minus the worst single night's occupancy in
// the range.  Zero and negative values are reported as-is so callers can
// render "sold out"; they are simply never selectable downstream.
type AvailabilitySnapshot struct {
	HotelID        uint64    `json:"hotel_id"`
	RoomType       string    `json:"room_type"`
	CheckIn        time.Time `json:"check_in"`
	CheckOut       time.Time `json:"check_out"`
	TotalRooms     int       `json:"total_rooms"`
	MaxOccupied    int       `json:"max_occupied"`
	AvailableRooms int       `json:"available_rooms"`
}
