package handler

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/hotel-room-reservation/internal/model"
)

func createWalkIn(t *testing.T, env *testEnv, h *ReservationHandler, checkInDay, checkOutDay int) uint64 {
	t.Helper()
	body := fmt.Sprintf(
		`{"hotel_id":1,"room_type":"STANDARD","check_in":%q,"check_out":%q,"guests":1,"guest_ref":"g1"}`,
		futureDate(t, checkInDay), futureDate(t, checkOutDay))
	c, rec := env.request(http.MethodPost, "/v1/reservations", body, "staff-1")
	require.NoError(t, h.Create(c))
	require.Equal(t, http.StatusCreated, rec.Code)
	res := decodeBody(t, rec)
	return uint64(res["id"].(float64))
}

func TestReservationCreateWalkIn(t *testing.T) {
	env := newTestEnv(t)
	env.seedRooms(1, "STANDARD", 2, 2, 10000)
	h := NewReservationHandler(env.ledger, env.allocator, "USD")

	body := fmt.Sprintf(
		`{"hotel_id":1,"room_type":"STANDARD","check_in":%q,"check_out":%q,"guests":2,"guest_ref":"g1","special_requests":"quiet floor","paid":true}`,
		futureDate(t, 1), futureDate(t, 3))
	c, rec := env.request(http.MethodPost, "/v1/reservations", body, "staff-1")
	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusCreated, rec.Code)

	res := decodeBody(t, rec)
	assert.Equal(t, model.StatusConfirmed, res["status"])
	assert.Equal(t, model.SourceWalkIn, res["source"])
	assert.Equal(t, float64(20000), res["amount_total_cents"])
	assert.Equal(t, float64(20000), res["amount_paid_cents"])
	assert.Equal(t, "quiet floor", res["special_requests"])
}

func TestReservationCreateUnauthorized(t *testing.T) {
	env := newTestEnv(t)
	env.seedRooms(1, "STANDARD", 1, 2, 10000)
	h := NewReservationHandler(env.ledger, env.allocator, "USD")

	c, rec := env.request(http.MethodPost, "/v1/reservations", `{"hotel_id":1}`, "")
	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestReservationCreateErrors(t *testing.T) {
	env := newTestEnv(t)
	env.seedRooms(1, "STANDARD", 1, 2, 10000)
	h := NewReservationHandler(env.ledger, env.allocator, "USD")

	// Malformed date.
	c, rec := env.request(http.MethodPost, "/v1/reservations",
		`{"hotel_id":1,"room_type":"STANDARD","check_in":"soon","check_out":"later","guests":1,"guest_ref":"g1"}`, "staff-1")
	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Missing guest_ref -> core validation -> 400.
	c, rec = env.request(http.MethodPost, "/v1/reservations", fmt.Sprintf(
		`{"hotel_id":1,"room_type":"STANDARD","check_in":%q,"check_out":%q,"guests":1}`,
		futureDate(t, 1), futureDate(t, 3)), "staff-1")
	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Room full -> 409.
	createWalkIn(t, env, h, 1, 3)
	c, rec = env.request(http.MethodPost, "/v1/reservations", fmt.Sprintf(
		`{"hotel_id":1,"room_type":"STANDARD","check_in":%q,"check_out":%q,"guests":1,"guest_ref":"g2"}`,
		futureDate(t, 1), futureDate(t, 3)), "staff-1")
	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestReservationGet(t *testing.T) {
	env := newTestEnv(t)
	env.seedRooms(1, "STANDARD", 1, 2, 10000)
	h := NewReservationHandler(env.ledger, env.allocator, "USD")
	id := createWalkIn(t, env, h, 1, 3)

	c, rec := env.request(http.MethodGet, "/v1/reservations/1", "", "staff-1")
	c.SetParamNames("id")
	c.SetParamValues(fmt.Sprintf("%d", id))
	require.NoError(t, h.Get(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	c, rec = env.request(http.MethodGet, "/v1/reservations/999", "", "staff-1")
	c.SetParamNames("id")
	c.SetParamValues("999")
	require.NoError(t, h.Get(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestReservationList(t *testing.T) {
	env := newTestEnv(t)
	env.seedRooms(1, "STANDARD", 2, 2, 10000)
	h := NewReservationHandler(env.ledger, env.allocator, "USD")
	createWalkIn(t, env, h, 1, 3)
	createWalkIn(t, env, h, 5, 7)

	c, rec := env.request(http.MethodGet, "/v1/reservations?hotel_id=1&status=CONFIRMED", "", "staff-1")
	require.NoError(t, h.List(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, float64(2), body["total"])

	c, rec = env.request(http.MethodGet, "/v1/reservations?hotel_id=nope", "", "staff-1")
	require.NoError(t, h.List(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestReservationTransitions(t *testing.T) {
	env := newTestEnv(t)
	env.seedRooms(1, "STANDARD", 1, 2, 10000)
	h := NewReservationHandler(env.ledger, env.allocator, "USD")
	id := createWalkIn(t, env, h, 1, 3) // created CONFIRMED

	// CONFIRMED -> CHECKED_IN
	c, rec := env.request(http.MethodPost, "/v1/reservations/1/check-in", "", "staff-1")
	c.SetParamNames("id")
	c.SetParamValues(fmt.Sprintf("%d", id))
	require.NoError(t, h.CheckIn(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, model.StatusCheckedIn, decodeBody(t, rec)["status"])

	// Confirm on a CHECKED_IN reservation is an illegal edge -> 409.
	c, rec = env.request(http.MethodPost, "/v1/reservations/1/confirm", "", "staff-1")
	c.SetParamNames("id")
	c.SetParamValues(fmt.Sprintf("%d", id))
	require.NoError(t, h.Confirm(c))
	assert.Equal(t, http.StatusConflict, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, model.StatusCheckedIn, body["from"])
	assert.Equal(t, model.StatusConfirmed, body["to"])

	// CHECKED_IN -> CHECKED_OUT
	c, rec = env.request(http.MethodPost, "/v1/reservations/1/check-out", "", "staff-1")
	c.SetParamNames("id")
	c.SetParamValues(fmt.Sprintf("%d", id))
	require.NoError(t, h.CheckOut(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	// Terminal: cancel now fails.
	c, rec = env.request(http.MethodPost, "/v1/reservations/1/cancel", "", "staff-1")
	c.SetParamNames("id")
	c.SetParamValues(fmt.Sprintf("%d", id))
	require.NoError(t, h.Cancel(c))
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestReservationEdit(t *testing.T) {
	env := newTestEnv(t)
	env.seedRooms(1, "STANDARD", 1, 2, 10000)
	h := NewReservationHandler(env.ledger, env.allocator, "USD")
	id := createWalkIn(t, env, h, 1, 3)

	// Move the stay and extend it; the total is re-priced.
	body := fmt.Sprintf(`{"check_in":%q,"check_out":%q,"special_requests":"crib"}`,
		futureDate(t, 2), futureDate(t, 6))
	c, rec := env.request(http.MethodPatch, "/v1/reservations/1", body, "staff-1")
	c.SetParamNames("id")
	c.SetParamValues(fmt.Sprintf("%d", id))
	require.NoError(t, h.Edit(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	res := decodeBody(t, rec)
	assert.Equal(t, float64(4*10000), res["amount_total_cents"])
	assert.Equal(t, "crib", res["special_requests"])

	// Dates must change as a pair.
	c, rec = env.request(http.MethodPatch, "/v1/reservations/1",
		fmt.Sprintf(`{"check_in":%q}`, futureDate(t, 2)), "staff-1")
	c.SetParamNames("id")
	c.SetParamValues(fmt.Sprintf("%d", id))
	require.NoError(t, h.Edit(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
