package adaptor

import (
	"context"

	"tour-booking/internal/data/entity"
	"tour-booking/internal/dto/request"
	"tour-booking/internal/dto/response"
	"tour-booking/pkg/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type mockBookingService struct {
	mock.Mock
}

func (m *mockBookingService) CreateBooking(ctx context.Context, actor utils.Actor, req *request.CreateBookingRequest) (*response.BookingResponse, error) {
	args := m.Called(ctx, actor, req)
	resp, _ := args.Get(0).(*response.BookingResponse)
	return resp, args.Error(1)
}

func (m *mockBookingService) UpdateBooking(ctx context.Context, actor utils.Actor, bookingID int64, req *request.UpdateBookingRequest) (*response.BookingResponse, error) {
	args := m.Called(ctx, actor, bookingID, req)
	resp, _ := args.Get(0).(*response.BookingResponse)
	return resp, args.Error(1)
}

func (m *mockBookingService) CancelBooking(ctx context.Context, actor utils.Actor, bookingID int64) error {
	return m.Called(ctx, actor, bookingID).Error(0)
}

func (m *mockBookingService) GetBooking(ctx context.Context, actor utils.Actor, bookingID int64) (*response.BookingResponse, error) {
	args := m.Called(ctx, actor, bookingID)
	resp, _ := args.Get(0).(*response.BookingResponse)
	return resp, args.Error(1)
}

func (m *mockBookingService) ListBookings(ctx context.Context, actor utils.Actor) ([]response.BookingResponse, error) {
	args := m.Called(ctx, actor)
	resp, _ := args.Get(0).([]response.BookingResponse)
	return resp, args.Error(1)
}

func (m *mockBookingService) ListBookingsForUser(ctx context.Context, actor utils.Actor, userID int64) ([]response.BookingResponse, error) {
	args := m.Called(ctx, actor, userID)
	resp, _ := args.Get(0).([]response.BookingResponse)
	return resp, args.Error(1)
}

func (m *mockBookingService) ListGuideBookings(ctx context.Context, actor utils.Actor, guideID int64) ([]response.BookingResponse, error) {
	args := m.Called(ctx, actor, guideID)
	resp, _ := args.Get(0).([]response.BookingResponse)
	return resp, args.Error(1)
}

func (m *mockBookingService) CompletePastBookings(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

type mockAvailabilityService struct {
	mock.Mock
}

func (m *mockAvailabilityService) SlotsChanged(excursionID int64) {
	m.Called(excursionID)
}

func (m *mockAvailabilityService) GetAvailability(ctx context.Context, excursionID int64) (response.AvailabilityView, error) {
	args := m.Called(ctx, excursionID)
	view, _ := args.Get(0).(response.AvailabilityView)
	return view, args.Error(1)
}

type mockInventoryService struct {
	mock.Mock
}

func (m *mockInventoryService) FindSlot(ctx context.Context, excursionID int64, date, clock, category string) (*entity.TicketSlot, error) {
	args := m.Called(ctx, excursionID, date, clock, category)
	slot, _ := args.Get(0).(*entity.TicketSlot)
	return slot, args.Error(1)
}

func (m *mockInventoryService) Remaining(slot *entity.TicketSlot) int {
	return m.Called(slot).Int(0)
}

func (m *mockInventoryService) Reserve(ctx context.Context, slotID uuid.UUID, quantity int) error {
	return m.Called(ctx, slotID, quantity).Error(0)
}

func (m *mockInventoryService) Release(ctx context.Context, slotID uuid.UUID, quantity int) error {
	return m.Called(ctx, slotID, quantity).Error(0)
}

func (m *mockInventoryService) CreateSlots(ctx context.Context, actor utils.Actor, excursionID int64, req *request.CreateSlotsRequest) ([]response.SlotResponse, error) {
	args := m.Called(ctx, actor, excursionID, req)
	resp, _ := args.Get(0).([]response.SlotResponse)
	return resp, args.Error(1)
}

func (m *mockInventoryService) ListSlots(ctx context.Context, excursionID int64) ([]response.SlotResponse, error) {
	args := m.Called(ctx, excursionID)
	resp, _ := args.Get(0).([]response.SlotResponse)
	return resp, args.Error(1)
}
