package pricing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"lodging/internal/domain"
)

func zarRoom() *domain.Room {
	return &domain.Room{
		ID:                1,
		TenantID:          1,
		Name:              "Garden Suite",
		BasePricePerNight: 1000,
		Currency:          "ZAR",
		TotalUnits:        1,
		IsActive:          true,
	}
}

func decemberRates() []domain.SeasonalRate {
	return []domain.SeasonalRate{
		rate(1, "December", time.Date(2024, 12, 20, 0, 0, 0, 0, time.UTC), time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC), 1500, 1),
		rate(2, "Christmas", time.Date(2024, 12, 24, 0, 0, 0, 0, time.UTC), time.Date(2024, 12, 26, 0, 0, 0, 0, time.UTC), 2500, 5),
	}
}

func TestBuildQuote_DecemberScenario(t *testing.T) {
	stay, _ := NewStayRange(date(2024, 12, 23), date(2024, 12, 27))

	q := BuildQuote(zarRoom(), decemberRates(), nil, stay)

	assert.Equal(t, 4, q.NightCount)
	assert.Equal(t, "ZAR", q.Currency)
	assert.Equal(t, 8500.0, q.Subtotal) // 1000 + 2500*3
	assert.Equal(t, 8500.0, q.BaseTotal)
	assert.Equal(t, 0.0, q.AddOnsTotal)
	assert.Equal(t, 8500.0, q.TotalAmount)

	assert.Equal(t, "2024-12-23", q.Nights[0].Date)
	assert.Equal(t, 1000.0, q.Nights[0].Price)
	assert.Nil(t, q.Nights[0].RateName)
	for _, n := range q.Nights[1:] {
		assert.Equal(t, 2500.0, n.Price)
	}
}

func TestBuildQuote_WithAddOns(t *testing.T) {
	stay, _ := NewStayRange(date(2024, 12, 23), date(2024, 12, 27))
	addOns := []AddOnSelection{
		{ID: 7, Name: "Breakfast", Price: 150, Quantity: 2},
	}

	q := BuildQuote(zarRoom(), decemberRates(), addOns, stay)

	assert.Equal(t, 300.0, q.AddOnsTotal)
	assert.Equal(t, 8800.0, q.TotalAmount)
	if assert.Len(t, q.AddOns, 1) {
		assert.Equal(t, "Breakfast", q.AddOns[0].Name)
		assert.Equal(t, 300.0, q.AddOns[0].Total)
	}
}

func TestBuildQuote_Rounding(t *testing.T) {
	room := zarRoom()
	room.BasePricePerNight = 333.335
	stay, _ := NewStayRange(date(2024, 7, 1), date(2024, 7, 4))

	q := BuildQuote(room, nil, nil, stay)

	assert.Equal(t, 333.34, q.Nights[0].Price)
	assert.Equal(t, 1000.02, q.TotalAmount)
}

func TestReviseAddOns_FrozenBaseTotal(t *testing.T) {
	// An add-on edit after booking keeps the booked nightly total even if
	// seasonal rates changed in the meantime.
	q := ReviseAddOns(8500, "ZAR", 4, []AddOnSelection{
		{ID: 7, Name: "Breakfast", Price: 150, Quantity: 4},
	})

	assert.Equal(t, 8500.0, q.BaseTotal)
	assert.Equal(t, 600.0, q.AddOnsTotal)
	assert.Equal(t, 9100.0, q.TotalAmount)
	assert.Equal(t, 4, q.NightCount)
}
