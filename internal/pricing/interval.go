package pricing

import (
	"errors"
	"time"
)

// DateLayout is the wire format for calendar dates.
const DateLayout = "2006-01-02"

var ErrInvalidRange = errors.New("check-out must be after check-in")

// NormalizeDate pins a timestamp to midday UTC on its calendar date.
// Comparing normalized dates cannot drift across midnight when inputs carry
// a timezone or DST offset.
func NormalizeDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 12, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD string into a normalized date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, err
	}
	return NormalizeDate(t), nil
}

// StayRange is the half-open range [CheckIn, CheckOut): the guest occupies
// the nights from check-in up to, but not including, check-out.
type StayRange struct {
	CheckIn  time.Time
	CheckOut time.Time
}

// NewStayRange normalizes both dates and rejects zero- or negative-night
// ranges.
func NewStayRange(checkIn, checkOut time.Time) (StayRange, error) {
	in := NormalizeDate(checkIn)
	out := NormalizeDate(checkOut)
	if !out.After(in) {
		return StayRange{}, ErrInvalidRange
	}
	return StayRange{CheckIn: in, CheckOut: out}, nil
}

// Nights is the number of occupied nights, always >= 1 for a valid range.
func (r StayRange) Nights() int {
	return int(r.CheckOut.Sub(r.CheckIn).Hours() / 24)
}

// Overlaps applies the half-open conflict rule: two stays compete for a
// unit-night iff a.start < b.end && b.start < a.end. A checkout on day X
// and a check-in on day X do not conflict.
func (r StayRange) Overlaps(other StayRange) bool {
	return r.CheckIn.Before(other.CheckOut) && other.CheckIn.Before(r.CheckOut)
}

// EachNight visits every occupied night in ascending order.
func (r StayRange) EachNight(fn func(d time.Time)) {
	for d := r.CheckIn; d.Before(r.CheckOut); d = d.AddDate(0, 0, 1) {
		fn(d)
	}
}

// WindowCovers reports whether night d falls inside the closed rate window
// [start, end]. Rate windows are inclusive on both ends, unlike stays.
func WindowCovers(start, end, d time.Time) bool {
	start = NormalizeDate(start)
	end = NormalizeDate(end)
	d = NormalizeDate(d)
	return !d.Before(start) && !d.After(end)
}
