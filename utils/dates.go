package utils

import (
	"errors"
	"time"
)

// DateOnly truncates t to midnight in its own location. All business
// dates (check-in, check-out, audit date) are stored normalized this
// way so equality and range comparisons behave like calendar dates.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// Today returns the current calendar date at midnight local time.
func Today() time.Time {
	return DateOnly(time.Now())
}

// ParseDate accepts "2006-01-02" or a full RFC3339 timestamp and
// returns the normalized calendar date. Dates are anchored to local
// time so they compare cleanly against Today().
func ParseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, errors.New("empty date")
	}
	if t, err := time.ParseInLocation("2006-01-02", s, time.Local); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, err
	}
	return DateOnly(t.In(time.Local)), nil
}

// Nights counts the nights between check-in and check-out. Same-day
// stays are billed as one night.
func Nights(checkIn, checkOut time.Time) int {
	n := int(DateOnly(checkOut).Sub(DateOnly(checkIn)).Hours() / 24)
	if n < 1 {
		return 1
	}
	return n
}

// SameDate reports whether a and b fall on the same calendar date.
func SameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// PtrTime returns pointer to time.Time
func PtrTime(t time.Time) *time.Time { return &t }
