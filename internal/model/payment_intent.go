package model

import "time"

// Gateway-side payment statuses for an intent.  INITIATED and PENDING are
// live; PAID, FAILED and EXPIRED are what the gateway ultimately reports.
const (
	PaymentInitiated = "INITIATED"
	PaymentPending   = "PENDING"
	PaymentPaid      = "PAID"
	PaymentFailed    = "FAILED"
	PaymentExpired   = "EXPIRED"
)

// Reconciliation outcomes for an intent.  PROCESSING means the gateway has
// not resolved yet (or callers are still waiting on reconciliation).
// OVERSOLD is the distinct paid-but-unallocated outcome: payment completed
// but no room remained, and remediation happens outside this core.
const (
	IntentProcessing = "PROCESSING"
	IntentConfirmed  = "CONFIRMED"
	IntentFailed     = "FAILED"
	IntentOversold   = "OVERSOLD"
)

// PaymentIntent correlates a prospective web booking with an external
// gateway transaction.  It exists before any reservation: the room is not
// allocated until payment succeeds, so abandoned checkouts never hold
// inventory.  Success materialises a reservation and binds ReservationID;
// failure or expiry leaves ReservationID nil forever.
//
// Fields:
//  ID            – primary key identifier.
//  HotelID       – hotel the prospective stay targets.
//  RoomType      – requested room type; no concrete room yet.
//  CheckIn/Out   – requested stay dates, half-open.
//  Guests        – requested occupancy.
//  GuestRef      – opaque guest identity that initiated checkout.
//  TxRef         – external correlation key shared with the gateway.
//  AmountCents   – quoted price at intent-creation time, minor units.
//  Currency      – ISO currency code.
//  Status        – gateway-side payment status.
//  Outcome       – reconciliation outcome (see constants above).
//  ReservationID – bound on successful reconciliation, nil otherwise.
//  ReturnURL     – where the gateway sends the customer afterwards.
//  CheckoutURL   – hosted checkout page handed back to the caller.
type PaymentIntent struct {
	ID            uint64    `db:"id" json:"id"`
	HotelID       uint64    `db:"hotel_id" json:"hotel_id"`
	RoomType      string    `db:"room_type" json:"room_type"`
	CheckIn       time.Time `db:"check_in" json:"check_in"`
	CheckOut      time.Time `db:"check_out" json:"check_out"`
	Guests        int       `db:"guests" json:"guests"`
	GuestRef      string    `db:"guest_ref" json:"guest_ref"`
	TxRef         string    `db:"tx_ref" json:"tx_ref"`
	AmountCents   uint32    `db:"amount_cents" json:"amount_cents"`
	Currency      string    `db:"currency" json:"currency"`
	Status        string    `db:"status" json:"status"`
	Outcome       string    `db:"outcome" json:"outcome"`
	ReservationID *uint64   `db:"reservation_id" json:"reservation_id,omitempty"`
	ReturnURL     string    `db:"return_url" json:"return_url"`
	CheckoutURL   string    `db:"checkout_url" json:"checkout_url"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}

// Resolved reports whether reconciliation has reached a terminal outcome.
func (p *PaymentIntent) Resolved() bool {
	return p.Outcome != IntentProcessing
}
