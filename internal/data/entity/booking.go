package entity

import (
	"time"

	"github.com/google/uuid"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "Pending"
	BookingStatusCompleted BookingStatus = "Completed"
	BookingStatusCancelled BookingStatus = "Cancelled"
)

const DefaultPaymentMethod = "NotSpecified"

type Booking struct {
	ID             int64         `db:"id"`
	UserID         int64         `db:"user_id"`
	ExcursionID    int64         `db:"excursion_id"`
	SlotID         uuid.UUID     `db:"slot_id"`
	TicketCategory string        `db:"ticket_category"`
	DateTime       time.Time     `db:"date_time"`
	Quantity       int           `db:"quantity"`
	Status         BookingStatus `db:"status"`
	Total          float64       `db:"total"`
	PaymentMethod  string        `db:"payment_method"`
	Timestamp      time.Time     `db:"timestamp"`
	UpdatedAt      time.Time     `db:"updated_at"`
}

// EffectiveStatus is the status as of now: a Pending booking whose time
// has passed reads as Completed even before the sweeper persists it.
func (b *Booking) EffectiveStatus(now time.Time) BookingStatus {
	if b.Status == BookingStatusPending && b.DateTime.Before(now) {
		return BookingStatusCompleted
	}
	return b.Status
}
