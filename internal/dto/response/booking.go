package response

import (
	"time"

	"tour-booking/internal/data/entity"
	"tour-booking/pkg/utils"
)

type BookingResponse struct {
	ID             int64                `json:"id"`
	UserID         int64                `json:"userId"`
	ExcursionID    int64                `json:"excursionId"`
	SlotID         string               `json:"slotId"`
	TicketCategory string               `json:"ticketCategory"`
	DateTime       string               `json:"dateTime"`
	Quantity       int                  `json:"quantity"`
	Status         entity.BookingStatus `json:"status"`
	Total          float64              `json:"total"`
	PaymentMethod  string               `json:"paymentMethod"`
	Timestamp      time.Time            `json:"timestamp"`
}

// BookingToResponse renders b with its status as of now.
func BookingToResponse(b *entity.Booking, now time.Time) BookingResponse {
	return BookingResponse{
		ID:             b.ID,
		UserID:         b.UserID,
		ExcursionID:    b.ExcursionID,
		SlotID:         b.SlotID.String(),
		TicketCategory: b.TicketCategory,
		DateTime:       b.DateTime.Format(utils.DateTimeLayout),
		Quantity:       b.Quantity,
		Status:         b.EffectiveStatus(now),
		Total:          b.Total,
		PaymentMethod:  b.PaymentMethod,
		Timestamp:      b.Timestamp,
	}
}

func BookingsToResponse(bookings []*entity.Booking, now time.Time) []BookingResponse {
	out := make([]BookingResponse, len(bookings))
	for i, b := range bookings {
		out[i] = BookingToResponse(b, now)
	}
	return out
}
