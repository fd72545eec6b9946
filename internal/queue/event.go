// Package queue defines message payloads exchanged over the message broker
// and the background consumer feeding the audit log.
package queue

// Reservation lifecycle event types.
const (
	ReservationCreated    = "reservation.created"
	ReservationConfirmed  = "reservation.confirmed"
	ReservationCheckedIn  = "reservation.checked_in"
	ReservationCheckedOut = "reservation.checked_out"
	ReservationCancelled  = "reservation.cancelled"
)

// Payment intent resolution event types.
const (
	PaymentConfirmed = "payment.confirmed"
	PaymentFailed    = "payment.failed"
	PaymentOversold  = "payment.oversold"
)

// ReservationEvent is published on every applied reservation transition and
// on creation.  It carries enough for downstream consumers to audit,
// notify or run analytics without querying the primary database.
type ReservationEvent struct {
	Type             string `json:"type"`
	ReservationID    uint64 `json:"reservation_id"`
	HotelID          uint64 `json:"hotel_id"`
	RoomID           uint64 `json:"room_id"`
	RoomType         string `json:"room_type"`
	GuestRef         string `json:"guest_ref"`
	CheckIn          string `json:"check_in"`
	CheckOut         string `json:"check_out"`
	Status           string `json:"status"`
	Source           string `json:"source"`
	EarlyCheckIn     bool   `json:"early_check_in,omitempty"`
	AmountTotalCents uint32 `json:"amount_total_cents"`
	AmountPaidCents  uint32 `json:"amount_paid_cents"`
	Currency         string `json:"currency"`
	OccurredAt       string `json:"occurred_at"`
}

// PaymentEvent is published when a payment intent reaches a terminal
// reconciliation outcome: confirmed, failed/expired, or oversold (paid but
// no room remained).  The oversold case is what the out-of-scope refund
// workflow listens for.
type PaymentEvent struct {
	Type          string  `json:"type"`
	IntentID      uint64  `json:"intent_id"`
	TxRef         string  `json:"tx_ref"`
	HotelID       uint64  `json:"hotel_id"`
	RoomType      string  `json:"room_type"`
	GuestRef      string  `json:"guest_ref"`
	AmountCents   uint32  `json:"amount_cents"`
	Currency      string  `json:"currency"`
	ReservationID *uint64 `json:"reservation_id,omitempty"`
	OccurredAt    string  `json:"occurred_at"`
}
