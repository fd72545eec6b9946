package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-room-reservation/internal/booking"
	"github.com/iliyamo/hotel-room-reservation/internal/model"
)

// ReservationHandler groups the staff-facing reservation operations:
// walk-in creation, listing, edits and lifecycle transitions.  All methods
// assume JWT authentication and the STAFF role check have already been
// performed by middleware.
type ReservationHandler struct {
	Ledger    *booking.Ledger
	Allocator *booking.Allocator
	Currency  string // ISO code walk-in reservations are priced in
}

// NewReservationHandler constructs a ReservationHandler.  All dependencies
// must be non-nil.
func NewReservationHandler(ledger *booking.Ledger, allocator *booking.Allocator, currency string) *ReservationHandler {
	if ledger == nil || allocator == nil {
		panic("nil dependency passed to NewReservationHandler")
	}
	return &ReservationHandler{Ledger: ledger, Allocator: allocator, Currency: currency}
}

// createReservationRequest is the body for POST /v1/reservations.  Exactly
// one of room_id and room_type must be set: a concrete room pins the
// allocation, a type lets the allocator pick.
type createReservationRequest struct {
	HotelID         uint64 `json:"hotel_id"`
	RoomID          uint64 `json:"room_id"`
	RoomType        string `json:"room_type"`
	CheckIn         string `json:"check_in"`
	CheckOut        string `json:"check_out"`
	Guests          int    `json:"guests"`
	GuestRef        string `json:"guest_ref"`
	SpecialRequests string `json:"special_requests"`
	Status          string `json:"status"` // PENDING or CONFIRMED; defaults to CONFIRMED
	Paid            bool   `json:"paid"`   // true when the desk collected payment up front
}

// Create handles POST /v1/reservations.  Staff record walk-in bookings
// here; the reservation is priced off the allocated room and created in
// the requested status.
func (h *ReservationHandler) Create(c echo.Context) error {
	if _, err := actorRef(c); err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var body createReservationRequest
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	checkIn, checkOut, err := parseStay(body.CheckIn, body.CheckOut)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	res, err := h.Allocator.Allocate(c.Request().Context(), booking.AllocateParams{
		HotelID:         body.HotelID,
		RoomID:          body.RoomID,
		RoomType:        body.RoomType,
		CheckIn:         checkIn,
		CheckOut:        checkOut,
		Guests:          body.Guests,
		GuestRef:        body.GuestRef,
		SpecialRequests: body.SpecialRequests,
		Source:          model.SourceWalkIn,
		Status:          body.Status,
		Currency:        h.Currency,
		Paid:            body.Paid,
	})
	if err != nil {
		return bookingError(c, err)
	}
	return c.JSON(http.StatusCreated, res)
}

// List handles GET /v1/reservations with optional hotel_id, room_id,
// status, guest_ref, page and per_page query parameters.
func (h *ReservationHandler) List(c echo.Context) error {
	var f model.ReservationFilter
	if raw := c.QueryParam("hotel_id"); raw != "" {
		n, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid hotel_id"})
		}
		f.HotelID = n
	}
	if raw := c.QueryParam("room_id"); raw != "" {
		n, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid room_id"})
		}
		f.RoomID = n
	}
	f.Status = c.QueryParam("status")
	f.GuestRef = c.QueryParam("guest_ref")
	f.Page, _ = strconv.Atoi(c.QueryParam("page"))
	f.PerPage, _ = strconv.Atoi(c.QueryParam("per_page"))

	items, total, err := h.Ledger.List(c.Request().Context(), f)
	if err != nil {
		return bookingError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"reservations": items,
		"total":        total,
	})
}

// Get handles GET /v1/reservations/:id.
func (h *ReservationHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	res, err := h.Ledger.Get(c.Request().Context(), id)
	if err != nil {
		return bookingError(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

// editReservationRequest is the body for PATCH /v1/reservations/:id.
// Omitted fields are left unchanged; dates must be supplied as a pair.
type editReservationRequest struct {
	RoomID          *uint64 `json:"room_id"`
	CheckIn         *string `json:"check_in"`
	CheckOut        *string `json:"check_out"`
	SpecialRequests *string `json:"special_requests"`
}

// Edit handles PATCH /v1/reservations/:id.  Only PENDING and CONFIRMED
// reservations are editable; room or date changes re-check the non-overlap
// invariant and re-price the stay.
func (h *ReservationHandler) Edit(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	var body editReservationRequest
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	p := booking.EditParams{RoomID: body.RoomID, SpecialRequests: body.SpecialRequests}
	if body.CheckIn != nil {
		d, err := model.ParseDate(*body.CheckIn)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "check_in must be YYYY-MM-DD"})
		}
		p.CheckIn = &d
	}
	if body.CheckOut != nil {
		d, err := model.ParseDate(*body.CheckOut)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "check_out must be YYYY-MM-DD"})
		}
		p.CheckOut = &d
	}
	res, err := h.Ledger.Edit(c.Request().Context(), id, p)
	if err != nil {
		return bookingError(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

// Confirm handles POST /v1/reservations/:id/confirm.
func (h *ReservationHandler) Confirm(c echo.Context) error {
	return h.transition(c, h.Ledger.Confirm)
}

// CheckIn handles POST /v1/reservations/:id/check-in.
func (h *ReservationHandler) CheckIn(c echo.Context) error {
	return h.transition(c, h.Ledger.CheckIn)
}

// CheckOut handles POST /v1/reservations/:id/check-out.
func (h *ReservationHandler) CheckOut(c echo.Context) error {
	return h.transition(c, h.Ledger.CheckOut)
}

// Cancel handles POST /v1/reservations/:id/cancel.
func (h *ReservationHandler) Cancel(c echo.Context) error {
	return h.transition(c, h.Ledger.Cancel)
}

func (h *ReservationHandler) transition(c echo.Context, fn func(ctx context.Context, id uint64) (*model.Reservation, error)) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	res, err := fn(c.Request().Context(), id)
	if err != nil {
		return bookingError(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

// parseStay parses a check_in/check_out pair of YYYY-MM-DD strings.
func parseStay(in, out string) (time.Time, time.Time, error) {
	checkIn, err := model.ParseDate(in)
	if err != nil {
		return time.Time{}, time.Time{}, &booking.ValidationError{Reason: "check_in must be YYYY-MM-DD"}
	}
	checkOut, err := model.ParseDate(out)
	if err != nil {
		return time.Time{}, time.Time{}, &booking.ValidationError{Reason: "check_out must be YYYY-MM-DD"}
	}
	return checkIn, checkOut, nil
}
