package catalog

// ---------- ROOMS ----------

type CreateRoomRequest struct {
	Name              string  `json:"name" binding:"required"`
	Description       string  `json:"description"`
	BasePricePerNight float64 `json:"base_price_per_night" binding:"gte=0"`
	Currency          string  `json:"currency"`
	TotalUnits        int     `json:"total_units" binding:"required,gt=0"`
	MaxGuests         int     `json:"max_guests"`
}

type UpdateRoomRequest struct {
	Name              *string  `json:"name,omitempty"`
	Description       *string  `json:"description,omitempty"`
	BasePricePerNight *float64 `json:"base_price_per_night,omitempty"`
	TotalUnits        *int     `json:"total_units,omitempty"`
	MaxGuests         *int     `json:"max_guests,omitempty"`
	IsActive          *bool    `json:"is_active,omitempty"`
}

// ---------- SEASONAL RATES ----------

type CreateRateRequest struct {
	RoomID        int64   `json:"room_id" binding:"required"`
	Name          string  `json:"name" binding:"required"`
	StartDate     string  `json:"start_date" binding:"required"`
	EndDate       string  `json:"end_date" binding:"required"`
	PricePerNight float64 `json:"price_per_night" binding:"gte=0"`
	Priority      int     `json:"priority"`
}

type UpdateRateRequest struct {
	Name          *string  `json:"name,omitempty"`
	StartDate     *string  `json:"start_date,omitempty"`
	EndDate       *string  `json:"end_date,omitempty"`
	PricePerNight *float64 `json:"price_per_night,omitempty"`
	Priority      *int     `json:"priority,omitempty"`
}

// ---------- ADD-ONS ----------

type CreateAddOnRequest struct {
	Name  string  `json:"name" binding:"required"`
	Price float64 `json:"price" binding:"gte=0"`
}

type UpdateAddOnRequest struct {
	Name     *string  `json:"name,omitempty"`
	Price    *float64 `json:"price,omitempty"`
	IsActive *bool    `json:"is_active,omitempty"`
}
