package handler // handler defines http handlers

import (
	"errors"   // errors provides Is/As comparisons against booking sentinels
	"net/http" // HTTP status codes
	"strconv"  // parsing path and query parameters
	"time"     // date parsing for stay ranges

	"github.com/labstack/echo/v4" // echo defines request context types

	"github.com/iliyamo/hotel-room-reservation/internal/booking"
	"github.com/iliyamo/hotel-room-reservation/internal/model"
)

// actorRef extracts the authenticated caller's opaque identity from the
// context populated by the JWT middleware.  The value is the token's
// subject claim; this service never resolves it against a profile store.
func actorRef(c echo.Context) (string, error) {
	v := c.Get("user_id")
	switch t := v.(type) {
	case string:
		if t != "" {
			return t, nil
		}
	case float64:
		return strconv.FormatUint(uint64(t), 10), nil
	case uint64:
		return strconv.FormatUint(t, 10), nil
	case int64:
		return strconv.FormatUint(uint64(t), 10), nil
	}
	return "", errors.New("invalid user_id in context")
}

// pathID parses the named path parameter as a positive uint64.
func pathID(c echo.Context, name string) (uint64, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, errors.New("invalid " + name)
	}
	return id, nil
}

// queryDate parses a required YYYY-MM-DD query parameter.
func queryDate(c echo.Context, name string) (time.Time, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return time.Time{}, errors.New(name + " is required")
	}
	d, err := model.ParseDate(raw)
	if err != nil {
		return time.Time{}, errors.New(name + " must be YYYY-MM-DD")
	}
	return d, nil
}

// bookingError translates core errors into the JSON error responses the
// API exposes.  Validation problems map to 400; capacity conflicts and
// illegal lifecycle transitions to 409; unknown entities to 404.  Anything
// else is an internal error whose detail stays in the server log.
func bookingError(c echo.Context, err error) error {
	var vErr *booking.ValidationError
	if errors.As(err, &vErr) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": vErr.Reason})
	}
	var tErr *booking.StateTransitionError
	if errors.As(err, &tErr) {
		return c.JSON(http.StatusConflict, echo.Map{
			"error": "illegal transition",
			"from":  tErr.From,
			"to":    tErr.To,
		})
	}
	switch {
	case errors.Is(err, booking.ErrCapacity):
		return c.JSON(http.StatusConflict, echo.Map{"error": "no room available for the requested dates"})
	case errors.Is(err, booking.ErrRoomNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "room not found"})
	case errors.Is(err, booking.ErrReservationNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
	case errors.Is(err, booking.ErrIntentNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "payment intent not found"})
	}
	c.Logger().Errorf("internal error: %v", err)
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
}
