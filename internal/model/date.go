package model

import (
	"fmt"
	"time"
)

// DateLayout is the wire and storage format for stay dates.  Reservations
// operate at date granularity only; times of day never participate in the
// overlap rules.
const DateLayout = "2006-01-02"

// ParseDate parses a YYYY-MM-DD string into a UTC midnight time.Time.
// It rejects anything that does not round-trip exactly, so "2026-1-3"
// or a full timestamp are both errors.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
	}
	return t.UTC(), nil
}

// Today returns the current calendar date as a UTC midnight time.Time.
func Today() time.Time {
	return TruncateToDate(time.Now().UTC())
}

// TruncateToDate drops the time-of-day component, keeping the UTC calendar day.
func TruncateToDate(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Nights returns the number of nights in the half-open range [checkIn, checkOut).
// The checkout day is exclusive: the room frees on the checkout date.
func Nights(checkIn, checkOut time.Time) int {
	return int(checkOut.Sub(checkIn).Hours() / 24)
}

// DatesOverlap reports whether the half-open date ranges [aIn, aOut) and
// [bIn, bOut) share at least one night.
func DatesOverlap(aIn, aOut, bIn, bOut time.Time) bool {
	return aIn.Before(bOut) && bIn.Before(aOut)
}

// FormatDate renders a stay date in the canonical YYYY-MM-DD form.
func FormatDate(t time.Time) string {
	return t.UTC().Format(DateLayout)
}
