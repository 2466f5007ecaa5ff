package response

import "tour-booking/internal/data/entity"

type SlotResponse struct {
	ID          string  `json:"id"`
	ExcursionID int64   `json:"excursionId"`
	Date        string  `json:"date"`
	Time        string  `json:"time"`
	Category    string  `json:"category"`
	Total       int     `json:"total"`
	Sold        int     `json:"sold"`
	Remaining   int     `json:"remaining"`
	Price       float64 `json:"price"`
	Currency    string  `json:"currency"`
}

// TicketAvailability is one category cell of the availability view.
type TicketAvailability struct {
	Count    int     `json:"count"`
	Price    float64 `json:"price"`
	Currency string  `json:"currency"`
}

// AvailabilityView maps "yyyy-MM-dd HH:mm" to category to availability.
type AvailabilityView map[string]map[string]TicketAvailability

// SlotToResponse renders s; remaining is supplied by the caller already clamped.
func SlotToResponse(s *entity.TicketSlot, remaining int) SlotResponse {
	return SlotResponse{
		ID:          s.ID.String(),
		ExcursionID: s.ExcursionID,
		Date:        s.Date(),
		Time:        s.Time(),
		Category:    s.Category,
		Total:       s.Total,
		Sold:        s.Sold,
		Remaining:   remaining,
		Price:       s.Price,
		Currency:    s.Currency,
	}
}
