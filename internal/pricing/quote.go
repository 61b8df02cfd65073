package pricing

import (
	"math"

	"lodging/internal/domain"
)

// AddOnSelection is one chosen add-on with its unit price already resolved
// from the tenant's catalog.
type AddOnSelection struct {
	ID       int64
	Name     string
	Price    float64
	Quantity int
}

// AddOnLine is one add-on entry of a quote breakdown.
type AddOnLine struct {
	ID       int64   `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
	Total    float64 `json:"total"`
}

// Quote field names are a wire contract shared with the portal frontend and
// booking persistence. Do not rename.
type Quote struct {
	Nights      []NightLine `json:"nights"`
	Subtotal    float64     `json:"subtotal"`
	BaseTotal   float64     `json:"base_total"`
	AddOns      []AddOnLine `json:"addons"`
	AddOnsTotal float64     `json:"addons_total"`
	TotalAmount float64     `json:"total_amount"`
	Currency    string      `json:"currency"`
	NightCount  int         `json:"night_count"`
}

// BuildQuote resolves the nightly breakdown and folds in add-on selections.
// Currency comes from the room, never from the request.
func BuildQuote(room *domain.Room, rates []domain.SeasonalRate, addOns []AddOnSelection, stay StayRange) *Quote {
	nights := ResolveNights(room.BasePricePerNight, rates, stay)

	var base float64
	for _, n := range nights {
		base += n.Price
	}
	base = round2(base)

	q := assembleAddOns(base, room.Currency, stay.Nights(), addOns)
	q.Nights = nights
	return q
}

// ReviseAddOns recomputes the add-on portion of a booked quote against its
// frozen base total. Already-booked nights are never repriced by an add-on
// edit, even if seasonal rates changed since booking.
func ReviseAddOns(baseTotal float64, currency string, nightCount int, addOns []AddOnSelection) *Quote {
	return assembleAddOns(baseTotal, currency, nightCount, addOns)
}

func assembleAddOns(baseTotal float64, currency string, nightCount int, addOns []AddOnSelection) *Quote {
	lines := make([]AddOnLine, 0, len(addOns))
	var addOnsTotal float64
	for _, a := range addOns {
		total := round2(a.Price * float64(a.Quantity))
		addOnsTotal += total
		lines = append(lines, AddOnLine{
			ID:       a.ID,
			Name:     a.Name,
			Price:    a.Price,
			Quantity: a.Quantity,
			Total:    total,
		})
	}
	addOnsTotal = round2(addOnsTotal)

	return &Quote{
		Subtotal:    baseTotal,
		BaseTotal:   baseTotal,
		AddOns:      lines,
		AddOnsTotal: addOnsTotal,
		TotalAmount: round2(baseTotal + addOnsTotal),
		Currency:    currency,
		NightCount:  nightCount,
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
