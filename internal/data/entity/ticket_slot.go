package entity

import (
	"time"

	"tour-booking/pkg/utils"

	"github.com/google/uuid"
)

// TicketSlot is the bookable capacity of one excursion at one date, time
// and ticket category. Sold is kept within [0, Total] by the storage layer.
type TicketSlot struct {
	Timestamps
	ID          uuid.UUID `db:"id"`
	ExcursionID int64     `db:"excursion_id"`
	StartsAt    time.Time `db:"starts_at"`
	Category    string    `db:"category"`
	Total       int       `db:"total"`
	Sold        int       `db:"sold"`
	Price       float64   `db:"price"`
	Currency    string    `db:"currency"`
}

func (s *TicketSlot) Date() string { return s.StartsAt.Format(utils.DateLayout) }

func (s *TicketSlot) Time() string { return s.StartsAt.Format(utils.TimeLayout) }

func (s *TicketSlot) DateTime() string { return s.StartsAt.Format(utils.DateTimeLayout) }

// Remaining is total - sold as stored; callers clamp and report negatives.
func (s *TicketSlot) Remaining() int { return s.Total - s.Sold }

// Reserve is the in-memory form of the slot repository's conditional
// update: sold grows by q only if q fits in what is left. It backs the
// in-memory store used by the service tests.
func (s *TicketSlot) Reserve(q int) bool {
	if q < 1 || q > s.Total-s.Sold {
		return false
	}
	s.Sold += q
	return true
}

// Release lowers sold by q, floored at zero, and reports whether the floor
// was hit. A q below 1 changes nothing.
func (s *TicketSlot) Release(q int) (clamped bool) {
	if q < 1 {
		return false
	}
	if q > s.Sold {
		s.Sold = 0
		return true
	}
	s.Sold -= q
	return false
}
