package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-room-reservation/internal/booking"
	"github.com/iliyamo/hotel-room-reservation/internal/model"
)

// PaymentHandler exposes the payment intent flow: customers create an
// intent and poll its status; the gateway posts outcomes to the public
// callback; staff may expire abandoned intents.
type PaymentHandler struct {
	Reconciler *booking.Reconciler
}

// NewPaymentHandler constructs a PaymentHandler.
func NewPaymentHandler(rc *booking.Reconciler) *PaymentHandler {
	if rc == nil {
		panic("nil reconciler passed to NewPaymentHandler")
	}
	return &PaymentHandler{Reconciler: rc}
}

// createIntentRequest is the body for POST /v1/payments/intent.
type createIntentRequest struct {
	HotelID   uint64 `json:"hotel_id"`
	RoomType  string `json:"room_type"`
	CheckIn   string `json:"check_in"`
	CheckOut  string `json:"check_out"`
	Guests    int    `json:"guests"`
	ReturnURL string `json:"return_url"`
}

// CreateIntent handles POST /v1/payments/intent.  The guest identity comes
// from the bearer token, never from the body.  The response carries the
// hosted checkout URL the caller redirects to; no room is held yet.
func (h *PaymentHandler) CreateIntent(c echo.Context) error {
	guestRef, err := actorRef(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var body createIntentRequest
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	checkIn, checkOut, err := parseStay(body.CheckIn, body.CheckOut)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	in, err := h.Reconciler.CreateIntent(c.Request().Context(), booking.IntentParams{
		HotelID:   body.HotelID,
		RoomType:  body.RoomType,
		CheckIn:   checkIn,
		CheckOut:  checkOut,
		Guests:    body.Guests,
		GuestRef:  guestRef,
		ReturnURL: body.ReturnURL,
	})
	if err != nil {
		return bookingError(c, err)
	}
	return c.JSON(http.StatusCreated, in)
}

// Poll handles GET /v1/payments/:tx_ref/status.  Read-only and idempotent;
// a PROCESSING intent_status means keep polling.
func (h *PaymentHandler) Poll(c echo.Context) error {
	txRef := c.Param("tx_ref")
	if txRef == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid tx_ref"})
	}
	result, err := h.Reconciler.PollStatus(c.Request().Context(), txRef)
	if err != nil {
		return bookingError(c, err)
	}
	return c.JSON(http.StatusOK, result)
}

// callbackRequest is the body the gateway posts to the public callback.
type callbackRequest struct {
	TxRef  string `json:"tx_ref"`
	Status string `json:"status"`
}

// Callback handles POST /v1/payments/callback, the gateway's webhook.  The
// route is public: the gateway does not authenticate, it correlates via
// tx_ref.  Duplicate deliveries are acknowledged with the recorded result.
// An oversold outcome is still a 200: the callback was processed, the
// remediation happens elsewhere, and the gateway must not retry.
func (h *PaymentHandler) Callback(c echo.Context) error {
	var body callbackRequest
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.TxRef == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "tx_ref is required"})
	}
	in, err := h.Reconciler.Resolve(c.Request().Context(), body.TxRef, body.Status)
	if err != nil && !errors.Is(err, booking.ErrOversold) {
		return bookingError(c, err)
	}
	return c.JSON(http.StatusOK, intentStatusBody(in))
}

// Expire handles POST /v1/payments/:tx_ref/expire.  Staff-only hook for
// sweeping abandoned checkouts; already-resolved intents are untouched.
func (h *PaymentHandler) Expire(c echo.Context) error {
	txRef := c.Param("tx_ref")
	if txRef == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid tx_ref"})
	}
	in, err := h.Reconciler.Expire(c.Request().Context(), txRef)
	if err != nil {
		return bookingError(c, err)
	}
	return c.JSON(http.StatusOK, intentStatusBody(in))
}

func intentStatusBody(in *model.PaymentIntent) echo.Map {
	body := echo.Map{
		"tx_ref":         in.TxRef,
		"payment_status": in.Status,
		"intent_status":  in.Outcome,
	}
	if in.ReservationID != nil {
		body["reservation_id"] = *in.ReservationID
	}
	return body
}
