package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2026-09-15")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC), d)

	for _, bad := range []string{"", "2026-9-15", "15-09-2026", "2026-09-15T10:00:00Z", "not-a-date"} {
		_, err := ParseDate(bad)
		assert.Error(t, err, "input %q", bad)
	}
}

func TestTruncateToDate(t *testing.T) {
	in := time.Date(2026, 9, 15, 23, 45, 12, 999, time.FixedZone("X", 3*3600))
	// 23:45 at UTC+3 is 20:45 UTC, still September 15th.
	got := TruncateToDate(in)
	assert.Equal(t, time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC), got)
}

func TestNights(t *testing.T) {
	d := func(s string) time.Time {
		v, err := ParseDate(s)
		require.NoError(t, err)
		return v
	}
	assert.Equal(t, 1, Nights(d("2026-09-15"), d("2026-09-16")))
	assert.Equal(t, 3, Nights(d("2026-09-15"), d("2026-09-18")))
	assert.Equal(t, 0, Nights(d("2026-09-15"), d("2026-09-15")))
}

func TestDatesOverlap(t *testing.T) {
	d := func(s string) time.Time {
		v, err := ParseDate(s)
		require.NoError(t, err)
		return v
	}
	cases := []struct {
		name                 string
		aIn, aOut, bIn, bOut string
		want                 bool
	}{
		{"identical", "2026-09-10", "2026-09-12", "2026-09-10", "2026-09-12", true},
		{"b inside a", "2026-09-10", "2026-09-20", "2026-09-12", "2026-09-14", true},
		{"partial overlap", "2026-09-10", "2026-09-15", "2026-09-14", "2026-09-18", true},
		{"single shared night", "2026-09-10", "2026-09-12", "2026-09-11", "2026-09-13", true},
		{"back to back", "2026-09-10", "2026-09-12", "2026-09-12", "2026-09-14", false},
		{"reverse back to back", "2026-09-12", "2026-09-14", "2026-09-10", "2026-09-12", false},
		{"disjoint", "2026-09-01", "2026-09-03", "2026-09-10", "2026-09-12", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := DatesOverlap(d(tc.aIn), d(tc.aOut), d(tc.bIn), d(tc.bOut))
			assert.Equal(t, tc.want, got)
			// Overlap is symmetric.
			assert.Equal(t, tc.want, DatesOverlap(d(tc.bIn), d(tc.bOut), d(tc.aIn), d(tc.aOut)))
		})
	}
}

func TestFormatDateRoundTrip(t *testing.T) {
	d, err := ParseDate("2026-12-31")
	require.NoError(t, err)
	assert.Equal(t, "2026-12-31", FormatDate(d))
}
