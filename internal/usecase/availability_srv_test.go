package usecase

import (
	"context"
	"testing"

	"tour-booking/internal/data/entity"
	"tour-booking/internal/dto/response"
	"tour-booking/pkg/apperror"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestProjectAvailability(t *testing.T) {
	at := func(s string) *entity.TicketSlot {
		return &entity.TicketSlot{ID: uuid.New(), StartsAt: mustTime(t, s), Currency: "USD"}
	}
	slot := func(dateTime, category string, total, sold int, price float64) *entity.TicketSlot {
		s := at(dateTime)
		s.Category, s.Total, s.Sold, s.Price = category, total, sold, price
		return s
	}

	tests := []struct {
		name  string
		slots []*entity.TicketSlot
		want  response.AvailabilityView
	}{
		{
			name:  "empty",
			slots: nil,
			want:  response.AvailabilityView{},
		},
		{
			name: "groups by date time and category",
			slots: []*entity.TicketSlot{
				slot("2025-06-01 10:00", "Standard", 10, 10, 20),
				slot("2025-06-01 10:00", "VIP", 5, 1, 50),
				slot("2025-06-02 10:00", "Standard", 10, 3, 20),
			},
			want: response.AvailabilityView{
				"2025-06-01 10:00": {
					"Standard": {Count: 0, Price: 20, Currency: "USD"},
					"VIP":      {Count: 4, Price: 50, Currency: "USD"},
				},
				"2025-06-02 10:00": {
					"Standard": {Count: 7, Price: 20, Currency: "USD"},
				},
			},
		},
		{
			name: "blank categories are labelled by position",
			slots: []*entity.TicketSlot{
				slot("2025-06-01 10:00", "Standard", 10, 0, 20),
				slot("2025-06-01 10:00", "", 4, 0, 15),
				slot("2025-06-01 10:00", "  ", 3, 1, 10),
			},
			want: response.AvailabilityView{
				"2025-06-01 10:00": {
					"Standard":  {Count: 10, Price: 20, Currency: "USD"},
					"default_1": {Count: 4, Price: 15, Currency: "USD"},
					"default_2": {Count: 2, Price: 10, Currency: "USD"},
				},
			},
		},
		{
			name: "case-insensitive duplicates keep the first",
			slots: []*entity.TicketSlot{
				slot("2025-06-01 10:00", "Standard", 10, 2, 20),
				slot("2025-06-01 10:00", "standard", 99, 0, 1),
			},
			want: response.AvailabilityView{
				"2025-06-01 10:00": {"Standard": {Count: 8, Price: 20, Currency: "USD"}},
			},
		},
		{
			name: "negative remaining is clamped",
			slots: []*entity.TicketSlot{
				slot("2025-06-01 10:00", "Standard", 3, 5, 20),
			},
			want: response.AvailabilityView{
				"2025-06-01 10:00": {"Standard": {Count: 0, Price: 20, Currency: "USD"}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ProjectAvailability(tt.slots, zap.NewNop()))
		})
	}
}

func TestGetAvailability_CacheInvalidatedOnChange(t *testing.T) {
	env := newTestEnv(t)
	env.store.addExcursion(1, ptr[int64](7), nil)
	slot := env.store.addSlot(1, mustTime(t, "2025-06-01 10:00"), "Standard", 5, 0, 20)
	ctx := context.Background()

	view, err := env.availability.GetAvailability(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 5, view["2025-06-01 10:00"]["Standard"].Count)

	// a write behind the service's back is not seen until the next change
	env.store.mu.Lock()
	env.store.slots[slot.ID].Sold = 1
	env.store.mu.Unlock()

	view, err = env.availability.GetAvailability(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 5, view["2025-06-01 10:00"]["Standard"].Count)

	require.NoError(t, env.inventory.Reserve(ctx, slot.ID, 2))

	view, err = env.availability.GetAvailability(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, view["2025-06-01 10:00"]["Standard"].Count)
}

func TestGetAvailability_UnknownExcursion(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.availability.GetAvailability(context.Background(), 5)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}
