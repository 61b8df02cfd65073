package pricing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestNewStayRange_RejectsZeroAndNegativeNights(t *testing.T) {
	_, err := NewStayRange(date(2024, 12, 23), date(2024, 12, 23))
	assert.ErrorIs(t, err, ErrInvalidRange)

	_, err = NewStayRange(date(2024, 12, 23), date(2024, 12, 22))
	assert.ErrorIs(t, err, ErrInvalidRange)
}

func TestStayRange_Nights(t *testing.T) {
	r, err := NewStayRange(date(2024, 12, 23), date(2024, 12, 27))
	assert.NoError(t, err)
	assert.Equal(t, 4, r.Nights())
}

func TestNormalizeDate_IgnoresTimeAndZone(t *testing.T) {
	loc := time.FixedZone("SAST", 2*60*60)
	late := time.Date(2024, 12, 23, 23, 45, 0, 0, loc)
	assert.Equal(t, NormalizeDate(date(2024, 12, 23)), NormalizeDate(late))
}

func TestStayRange_Overlaps_HalfOpen(t *testing.T) {
	a, _ := NewStayRange(date(2024, 3, 1), date(2024, 3, 5))

	// Back-to-back: checkout day X, new check-in day X. Never a conflict.
	b, _ := NewStayRange(date(2024, 3, 5), date(2024, 3, 8))
	assert.False(t, a.Overlaps(b))
	assert.False(t, b.Overlaps(a))

	// [X, X+2) vs [X+1, X+3) always conflict.
	c, _ := NewStayRange(date(2024, 3, 1), date(2024, 3, 3))
	d, _ := NewStayRange(date(2024, 3, 2), date(2024, 3, 4))
	assert.True(t, c.Overlaps(d))
	assert.True(t, d.Overlaps(c))

	// Containment conflicts.
	e, _ := NewStayRange(date(2024, 3, 2), date(2024, 3, 3))
	assert.True(t, a.Overlaps(e))
}

func TestWindowCovers_InclusiveBothEnds(t *testing.T) {
	start := date(2024, 12, 20)
	end := date(2024, 12, 31)

	assert.True(t, WindowCovers(start, end, date(2024, 12, 20)))
	assert.True(t, WindowCovers(start, end, date(2024, 12, 31)))
	assert.True(t, WindowCovers(start, end, date(2024, 12, 25)))
	assert.False(t, WindowCovers(start, end, date(2024, 12, 19)))
	assert.False(t, WindowCovers(start, end, date(2025, 1, 1)))
}

func TestStayRange_EachNight_Ascending(t *testing.T) {
	r, _ := NewStayRange(date(2024, 12, 23), date(2024, 12, 27))

	var got []string
	r.EachNight(func(d time.Time) { got = append(got, d.Format(DateLayout)) })

	assert.Equal(t, []string{"2024-12-23", "2024-12-24", "2024-12-25", "2024-12-26"}, got)
}
