package entity

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBooking_EffectiveStatus(t *testing.T) {
	at := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		status BookingStatus
		now    time.Time
		want   BookingStatus
	}{
		{"pending in future", BookingStatusPending, at.Add(-time.Hour), BookingStatusPending},
		{"pending in past", BookingStatusPending, at.Add(time.Minute), BookingStatusCompleted},
		{"pending right now", BookingStatusPending, at, BookingStatusPending},
		{"cancelled in past", BookingStatusCancelled, at.Add(time.Hour), BookingStatusCancelled},
		{"completed stays", BookingStatusCompleted, at.Add(-time.Hour), BookingStatusCompleted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := &Booking{Status: tt.status, DateTime: at}
			assert.Equal(t, tt.want, b.EffectiveStatus(tt.now))
		})
	}
}

func TestTicketSlot_Formatting(t *testing.T) {
	s := &TicketSlot{StartsAt: time.Date(2025, 6, 1, 9, 5, 0, 0, time.UTC), Total: 10, Sold: 12}

	assert.Equal(t, "2025-06-01", s.Date())
	assert.Equal(t, "09:05", s.Time())
	assert.Equal(t, "2025-06-01 09:05", s.DateTime())
	assert.Equal(t, -2, s.Remaining())
}

func TestExcursion_Roles(t *testing.T) {
	guide, manager := int64(7), int64(8)
	e := &Excursion{GuideID: &guide, ManagerID: &manager}

	assert.True(t, e.IsGuidedBy(7))
	assert.False(t, e.IsGuidedBy(8))
	assert.True(t, e.IsManagedBy(8))
	assert.False(t, (&Excursion{}).IsGuidedBy(7))
	assert.Equal(t, "Excursion", e.DisplayTitle())
}

func TestTicketSlot_ReserveRelease(t *testing.T) {
	s := &TicketSlot{Total: 10, Sold: 9}

	assert.False(t, s.Reserve(2))
	assert.Equal(t, 9, s.Sold)
	assert.True(t, s.Reserve(1))
	assert.Equal(t, 10, s.Sold)
	assert.False(t, s.Reserve(0))

	assert.False(t, s.Release(4))
	assert.Equal(t, 6, s.Sold)
	assert.True(t, s.Release(7))
	assert.Equal(t, 0, s.Sold)
}

func TestTicketSlot_ReserveHugeQuantityDoesNotWrap(t *testing.T) {
	s := &TicketSlot{Total: 10, Sold: 5}

	assert.False(t, s.Reserve(math.MaxInt))
	assert.Equal(t, 5, s.Sold)

	assert.False(t, s.Release(-3))
	assert.Equal(t, 5, s.Sold)
}
