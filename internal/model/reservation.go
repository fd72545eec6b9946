package model

import "time"

// Reservation statuses.  CHECKED_OUT and CANCELLED are terminal: no
// transition leaves them.  A reservation in any non-terminal status owns
// its room-nights and blocks overlapping allocations.
const (
	StatusPending    = "PENDING"
	StatusConfirmed  = "CONFIRMED"
	StatusCheckedIn  = "CHECKED_IN"
	StatusCheckedOut = "CHECKED_OUT"
	StatusCancelled  = "CANCELLED"
)

// Reservation sources.
const (
	SourceWeb    = "WEB"
	SourceWalkIn = "WALK_IN"
)

// legalTransitions enumerates every permitted status change.  Anything not
// listed here is rejected by the ledger, never coerced.
var legalTransitions = map[string][]string{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusCheckedIn, StatusCancelled},
	StatusCheckedIn: {StatusCheckedOut},
}

// CanTransition reports whether a reservation may move from one status to
// another under the lifecycle rules.
func CanTransition(from, to string) bool {
	for _, t := range legalTransitions[from] {
		if t == to {
			return true
		}
	}
	return false
}

// TerminalStatus reports whether the status ends the reservation lifecycle.
func TerminalStatus(s string) bool {
	return s == StatusCheckedOut || s == StatusCancelled
}

// ActiveStatuses lists the statuses that hold room-nights and therefore
// participate in overlap checks and availability computation.
func ActiveStatuses() []string {
	return []string{StatusPending, StatusConfirmed, StatusCheckedIn}
}

// Reservation records one guest's stay in one concrete room.  It is owned
// exclusively by the ledger: created by the allocator and mutated only
// through the defined transitions.
//
// Fields:
//  ID               – primary key identifier.
//  RoomID           – concrete room; always set once the reservation exists.
//  HotelID          – hotel the stay belongs to.
//  RoomType         – requested room type, denormalised for listing.
//  GuestRef         – opaque, already-authenticated guest identity.
//  CheckIn/CheckOut – stay dates, half-open [checkIn, checkOut).
//  Guests           – number of occupants.
//  Status           – lifecycle status (see constants above).
//  SpecialRequests  – free-form notes captured at booking time.
//  AmountTotalCents – full price of the stay in minor units.
//  AmountPaidCents  – amount actually received; may trail the total.
//  Currency         – ISO currency code for both amounts.
//  Source           – WEB (paid online) or WALK_IN (staff created).
type Reservation struct {
	ID               uint64    `db:"id" json:"id"`
	RoomID           uint64    `db:"room_id" json:"room_id"`
	HotelID          uint64    `db:"hotel_id" json:"hotel_id"`
	RoomType         string    `db:"room_type" json:"room_type"`
	GuestRef         string    `db:"guest_ref" json:"guest_ref"`
	CheckIn          time.Time `db:"check_in" json:"check_in"`
	CheckOut         time.Time `db:"check_out" json:"check_out"`
	Guests           int       `db:"guests" json:"guests"`
	Status           string    `db:"status" json:"status"`
	SpecialRequests  string    `db:"special_requests" json:"special_requests,omitempty"`
	AmountTotalCents uint32    `db:"amount_total_cents" json:"amount_total_cents"`
	AmountPaidCents  uint32    `db:"amount_paid_cents" json:"amount_paid_cents"`
	Currency         string    `db:"currency" json:"currency"`
	Source           string    `db:"source" json:"source"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time `db:"updated_at" json:"updated_at"`
}

// Active reports whether the reservation currently holds its room-nights.
func (r *Reservation) Active() bool {
	return !TerminalStatus(r.Status)
}

// ReservationFilter narrows and pages a reservation listing.  Zero values
// mean "not filtered".  Page is 1-based; PerPage is capped by the store.
type ReservationFilter struct {
	HotelID  uint64
	RoomID   uint64
	Status   string
	GuestRef string
	Page     int
	PerPage  int
}
