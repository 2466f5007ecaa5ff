package usecase

import (
	"tour-booking/internal/data/repository"
	"tour-booking/pkg/utils"

	"go.uber.org/zap"
)

type Service struct {
	Inventory    InventoryService
	Availability AvailabilityService
	Booking      BookingService
	Notification NotificationService
}

func NewService(repo *repository.Repository, config *utils.Config, log *zap.Logger) *Service {
	availability := NewAvailabilityService(repo, log)
	notification := NewNotificationService(repo, log)

	return &Service{
		Inventory:    NewInventoryService(repo, availability, log),
		Availability: availability,
		Booking:      NewBookingService(repo, availability, notification, config.Booking, log),
		Notification: notification,
	}
}
