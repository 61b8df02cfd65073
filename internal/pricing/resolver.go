package pricing

import (
	"time"

	"lodging/internal/domain"
)

// NightLine is the resolved price for a single night of a stay. RateName is
// nil when the base price applied.
type NightLine struct {
	Date     string  `json:"date"`
	Price    float64 `json:"price"`
	RateName *string `json:"rate_name"`
}

// ResolveNights prices every night of the stay against the given seasonal
// rates. Containment is re-checked per night, so passing rates that never
// intersect the stay is harmless. For each night the covering rate with the
// numerically highest priority wins; with no covering rate the base price
// applies. Output is date-ascending, one line per night.
func ResolveNights(basePrice float64, rates []domain.SeasonalRate, stay StayRange) []NightLine {
	lines := make([]NightLine, 0, stay.Nights())
	stay.EachNight(func(d time.Time) {
		line := NightLine{Date: d.Format(DateLayout), Price: round2(basePrice)}
		if best := bestRateFor(rates, d); best != nil {
			name := best.Name
			line.Price = round2(best.PricePerNight)
			line.RateName = &name
		}
		lines = append(lines, line)
	})
	return lines
}

func bestRateFor(rates []domain.SeasonalRate, d time.Time) *domain.SeasonalRate {
	var best *domain.SeasonalRate
	for i := range rates {
		r := &rates[i]
		if !WindowCovers(r.StartDate, r.EndDate, d) {
			continue
		}
		if best == nil || wins(r, best) {
			best = r
		}
	}
	return best
}

// wins orders two rates that both cover a night. Priority decides; equal
// priorities fall to the narrower window (the more specific override), then
// to the higher ID, so resolution never depends on query order.
func wins(a, b *domain.SeasonalRate) bool {
	if a.Priority != b.Priority {
		return a.Priority > b.Priority
	}
	if as, bs := windowSpanDays(a), windowSpanDays(b); as != bs {
		return as < bs
	}
	return a.ID > b.ID
}

func windowSpanDays(r *domain.SeasonalRate) int {
	start := NormalizeDate(r.StartDate)
	end := NormalizeDate(r.EndDate)
	return int(end.Sub(start).Hours()/24) + 1
}
