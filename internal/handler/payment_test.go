package handler

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/hotel-room-reservation/internal/model"
)

func createIntent(t *testing.T, env *testEnv, h *PaymentHandler) string {
	t.Helper()
	body := fmt.Sprintf(
		`{"hotel_id":1,"room_type":"DELUXE","check_in":%q,"check_out":%q,"guests":2,"return_url":"https://example.com/done"}`,
		futureDate(t, 1), futureDate(t, 3))
	c, rec := env.request(http.MethodPost, "/v1/payments/intent", body, "guest-7")
	require.NoError(t, h.CreateIntent(c))
	require.Equal(t, http.StatusCreated, rec.Code)
	return decodeBody(t, rec)["tx_ref"].(string)
}

func TestCreateIntentHandler(t *testing.T) {
	env := newTestEnv(t)
	env.seedRooms(1, "DELUXE", 2, 2, 25000)
	h := NewPaymentHandler(env.reconciler)

	body := fmt.Sprintf(
		`{"hotel_id":1,"room_type":"DELUXE","check_in":%q,"check_out":%q,"guests":2,"return_url":"https://example.com/done"}`,
		futureDate(t, 1), futureDate(t, 3))
	c, rec := env.request(http.MethodPost, "/v1/payments/intent", body, "guest-7")
	require.NoError(t, h.CreateIntent(c))
	assert.Equal(t, http.StatusCreated, rec.Code)

	res := decodeBody(t, rec)
	assert.Equal(t, model.PaymentInitiated, res["status"])
	assert.Equal(t, model.IntentProcessing, res["outcome"])
	assert.Equal(t, float64(2*25000), res["amount_cents"])
	assert.NotEmpty(t, res["checkout_url"])
	// The guest identity comes from the token, never the body.
	assert.Equal(t, "guest-7", res["guest_ref"])
}

func TestCreateIntentHandlerUnauthorized(t *testing.T) {
	env := newTestEnv(t)
	env.seedRooms(1, "DELUXE", 1, 2, 25000)
	h := NewPaymentHandler(env.reconciler)

	c, rec := env.request(http.MethodPost, "/v1/payments/intent", `{"hotel_id":1}`, "")
	require.NoError(t, h.CreateIntent(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCreateIntentHandlerSoldOut(t *testing.T) {
	env := newTestEnv(t)
	env.seedRooms(1, "DELUXE", 1, 2, 25000)
	rh := NewReservationHandler(env.ledger, env.allocator, "USD")
	h := NewPaymentHandler(env.reconciler)

	// A walk-in already holds the only room.
	c0, rec0 := env.request(http.MethodPost, "/v1/reservations", fmt.Sprintf(
		`{"hotel_id":1,"room_type":"DELUXE","check_in":%q,"check_out":%q,"guests":1,"guest_ref":"g1"}`,
		futureDate(t, 1), futureDate(t, 3)), "staff-1")
	require.NoError(t, rh.Create(c0))
	require.Equal(t, http.StatusCreated, rec0.Code)

	body := fmt.Sprintf(
		`{"hotel_id":1,"room_type":"DELUXE","check_in":%q,"check_out":%q,"guests":1}`,
		futureDate(t, 1), futureDate(t, 3))
	c, rec := env.request(http.MethodPost, "/v1/payments/intent", body, "guest-7")
	require.NoError(t, h.CreateIntent(c))
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestPollHandler(t *testing.T) {
	env := newTestEnv(t)
	env.seedRooms(1, "DELUXE", 1, 2, 25000)
	h := NewPaymentHandler(env.reconciler)
	txRef := createIntent(t, env, h)

	c, rec := env.request(http.MethodGet, "/v1/payments/x/status", "", "guest-7")
	c.SetParamNames("tx_ref")
	c.SetParamValues(txRef)
	require.NoError(t, h.Poll(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, model.IntentProcessing, body["intent_status"])

	c, rec = env.request(http.MethodGet, "/v1/payments/x/status", "", "guest-7")
	c.SetParamNames("tx_ref")
	c.SetParamValues("missing")
	require.NoError(t, h.Poll(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCallbackHandlerPaid(t *testing.T) {
	env := newTestEnv(t)
	env.seedRooms(1, "DELUXE", 1, 2, 25000)
	h := NewPaymentHandler(env.reconciler)
	txRef := createIntent(t, env, h)

	body := fmt.Sprintf(`{"tx_ref":%q,"status":"PAID"}`, txRef)
	c, rec := env.request(http.MethodPost, "/v1/payments/callback", body, "")
	require.NoError(t, h.Callback(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	res := decodeBody(t, rec)
	assert.Equal(t, model.PaymentPaid, res["payment_status"])
	assert.Equal(t, model.IntentConfirmed, res["intent_status"])
	assert.NotNil(t, res["reservation_id"])

	// Duplicate delivery is acknowledged with the recorded result.
	c, rec = env.request(http.MethodPost, "/v1/payments/callback", body, "")
	require.NoError(t, h.Callback(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, res["reservation_id"], decodeBody(t, rec)["reservation_id"])
}

func TestCallbackHandlerOversoldReturns200(t *testing.T) {
	env := newTestEnv(t)
	env.seedRooms(1, "DELUXE", 1, 2, 25000)
	h := NewPaymentHandler(env.reconciler)
	rh := NewReservationHandler(env.ledger, env.allocator, "USD")
	txRef := createIntent(t, env, h)

	// The last room disappears while the customer pays.
	c0, rec0 := env.request(http.MethodPost, "/v1/reservations", fmt.Sprintf(
		`{"hotel_id":1,"room_type":"DELUXE","check_in":%q,"check_out":%q,"guests":1,"guest_ref":"g1"}`,
		futureDate(t, 1), futureDate(t, 3)), "staff-1")
	require.NoError(t, rh.Create(c0))
	require.Equal(t, http.StatusCreated, rec0.Code)

	body := fmt.Sprintf(`{"tx_ref":%q,"status":"PAID"}`, txRef)
	c, rec := env.request(http.MethodPost, "/v1/payments/callback", body, "")
	require.NoError(t, h.Callback(c))
	// Processed, not retryable: the gateway gets a 200 and the oversold
	// outcome is recorded for the refund workflow.
	assert.Equal(t, http.StatusOK, rec.Code)
	res := decodeBody(t, rec)
	assert.Equal(t, model.IntentOversold, res["intent_status"])
	assert.Nil(t, res["reservation_id"])
}

func TestCallbackHandlerBadRequests(t *testing.T) {
	env := newTestEnv(t)
	h := NewPaymentHandler(env.reconciler)

	c, rec := env.request(http.MethodPost, "/v1/payments/callback", `{"status":"PAID"}`, "")
	require.NoError(t, h.Callback(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	c, rec = env.request(http.MethodPost, "/v1/payments/callback", `{"tx_ref":"abc","status":"SETTLED"}`, "")
	require.NoError(t, h.Callback(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	c, rec = env.request(http.MethodPost, "/v1/payments/callback", `{"tx_ref":"missing","status":"PAID"}`, "")
	require.NoError(t, h.Callback(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestExpireHandler(t *testing.T) {
	env := newTestEnv(t)
	env.seedRooms(1, "DELUXE", 1, 2, 25000)
	h := NewPaymentHandler(env.reconciler)
	txRef := createIntent(t, env, h)

	c, rec := env.request(http.MethodPost, "/v1/payments/x/expire", "", "staff-1")
	c.SetParamNames("tx_ref")
	c.SetParamValues(txRef)
	require.NoError(t, h.Expire(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, model.PaymentExpired, body["payment_status"])
	assert.Equal(t, model.IntentFailed, body["intent_status"])
}
