package request

// CreateBookingRequest reserves quantity tickets of one category at one
// excursion date and time. Quantity <= 0 books a single ticket; the cap
// keeps quantities far inside the int4 range of ticket_slots.
type CreateBookingRequest struct {
	UserID         int64    `json:"userId" validate:"required,gt=0"`
	ExcursionID    int64    `json:"excursionId" validate:"required,gt=0"`
	TicketCategory string   `json:"ticketCategory" validate:"required"`
	DateTime       string   `json:"dateTime" validate:"required"`
	Quantity       int      `json:"quantity" validate:"max=1000"`
	Status         string   `json:"status,omitempty" validate:"omitempty,oneof=Pending Completed"`
	PaymentMethod  string   `json:"paymentMethod,omitempty" validate:"max=64"`
	Total          *float64 `json:"total,omitempty" validate:"omitempty,min=0"`
}

// UpdateBookingRequest moves a pending booking to another slot or quantity.
// An empty TicketCategory keeps the current one.
type UpdateBookingRequest struct {
	TicketCategory string   `json:"ticketCategory"`
	DateTime       string   `json:"dateTime" validate:"required"`
	Quantity       int      `json:"quantity" validate:"max=1000"`
	PaymentMethod  string   `json:"paymentMethod,omitempty" validate:"max=64"`
	Total          *float64 `json:"total,omitempty" validate:"omitempty,min=0"`
}
