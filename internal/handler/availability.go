package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-room-reservation/internal/booking"
)

// AvailabilityHandler exposes the read-only availability queries guests use
// while browsing.  No authentication is required; the answers are advisory
// snapshots and every booking path re-validates under a lock.
type AvailabilityHandler struct {
	Index *booking.AvailabilityIndex
}

// NewAvailabilityHandler constructs an AvailabilityHandler.
func NewAvailabilityHandler(index *booking.AvailabilityIndex) *AvailabilityHandler {
	if index == nil {
		panic("nil index passed to NewAvailabilityHandler")
	}
	return &AvailabilityHandler{Index: index}
}

// Query handles GET /v1/hotels/:id/availability.  Required query params
// check_in and check_out are YYYY-MM-DD; room_type is optional and when
// absent one snapshot per room type of the hotel is returned.
func (h *AvailabilityHandler) Query(c echo.Context) error {
	hotelID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	checkIn, err := queryDate(c, "check_in")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	checkOut, err := queryDate(c, "check_out")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	snaps, err := h.Index.Query(c.Request().Context(), hotelID, c.QueryParam("room_type"), checkIn, checkOut)
	if err != nil {
		return bookingError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"availability": snaps})
}

// DisabledCheckIn handles GET /v1/hotels/:id/availability/disabled-check-in.
// It returns the dates in [from, from+days) on which no one-night stay of
// the given room type could start, for greying out a date picker.
func (h *AvailabilityHandler) DisabledCheckIn(c echo.Context) error {
	hotelID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	from, err := queryDate(c, "from")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	days, err := queryDays(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	dates, err := h.Index.DisabledCheckInDates(c.Request().Context(), hotelID, c.QueryParam("room_type"), from, days)
	if err != nil {
		return bookingError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"disabled_dates": dates})
}

// DisabledCheckOut handles GET /v1/hotels/:id/availability/disabled-check-out.
// Given a chosen check_in it returns the checkout dates that cannot
// complete the stay because some intermediate night is already full.
func (h *AvailabilityHandler) DisabledCheckOut(c echo.Context) error {
	hotelID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	checkIn, err := queryDate(c, "check_in")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	days, err := queryDays(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	dates, err := h.Index.DisabledCheckOutDates(c.Request().Context(), hotelID, c.QueryParam("room_type"), checkIn, days)
	if err != nil {
		return bookingError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"disabled_dates": dates})
}

// queryDays parses the optional probe-window size, defaulting to 60 days
// and capping at 366 to bound the occupancy scan.
func queryDays(c echo.Context) (int, error) {
	raw := c.QueryParam("days")
	if raw == "" {
		return 60, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, &booking.ValidationError{Reason: "days must be a positive integer"}
	}
	if n > 366 {
		n = 366
	}
	return n, nil
}
