package booking

type AddOnInput struct {
	ID       int64 `json:"id" binding:"required"`
	Quantity int   `json:"quantity" binding:"required,gt=0"`
}

type QuoteRequest struct {
	RoomID   int64        `json:"room_id" binding:"required"`
	CheckIn  string       `json:"check_in" binding:"required"`
	CheckOut string       `json:"check_out" binding:"required"`
	AddOns   []AddOnInput `json:"addons"`
}

type CreateBookingRequest struct {
	RoomID     int64        `json:"room_id" binding:"required"`
	GuestName  string       `json:"guest_name" binding:"required"`
	GuestEmail string       `json:"guest_email" binding:"required,email"`
	CheckIn    string       `json:"check_in" binding:"required"`
	CheckOut   string       `json:"check_out" binding:"required"`
	AddOns     []AddOnInput `json:"addons"`
	Notes      string       `json:"notes"`
}

type UpdateAddOnsRequest struct {
	AddOns []AddOnInput `json:"addons"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type CancelRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// AvailabilityResponse reports capacity-aware availability: a multi-unit
// room stays available until every unit is taken for some night.
type AvailabilityResponse struct {
	RoomID      int64  `json:"room_id"`
	CheckIn     string `json:"check_in"`
	CheckOut    string `json:"check_out"`
	TotalUnits  int    `json:"total_units"`
	BookedUnits int    `json:"booked_units"`
	Available   bool   `json:"available"`
}
