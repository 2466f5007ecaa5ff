package usecase

import (
	"context"
	"fmt"
	"time"

	"tour-booking/internal/data/entity"
	"tour-booking/internal/data/repository"
	"tour-booking/internal/dto/response"
	"tour-booking/pkg/apperror"
	"tour-booking/pkg/utils"

	"go.uber.org/zap"
)

// NotificationSink receives booking notifications. Delivery is best-effort:
// failures are logged by the sink and never reach the caller.
type NotificationSink interface {
	Append(ctx context.Context, userID int64, message string, at time.Time)
}

type NotificationService interface {
	NotificationSink
	ListForUser(ctx context.Context, actor utils.Actor, userID int64) ([]response.NotificationResponse, error)
}

type notificationService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewNotificationService(repo *repository.Repository, log *zap.Logger) NotificationService {
	return &notificationService{
		repo: repo,
		log:  log.With(zap.String("service", "notification")),
	}
}

func (s *notificationService) Append(ctx context.Context, userID int64, message string, at time.Time) {
	// the booking is already committed, a cancelled request must not drop its notice
	ctx = context.WithoutCancel(ctx)

	notification := &entity.Notification{
		UserID:    userID,
		Message:   message,
		Timestamp: at,
	}
	if err := s.repo.Notification.Create(ctx, notification); err != nil {
		s.log.Warn("Failed to append notification",
			zap.Int64("user_id", userID),
			zap.String("message", message),
			zap.Error(err),
		)
	}
}

func (s *notificationService) ListForUser(ctx context.Context, actor utils.Actor, userID int64) ([]response.NotificationResponse, error) {
	if actor.UserID != userID {
		return nil, apperror.Unauthorized("you can only view your own notifications")
	}

	notifications, err := s.repo.Notification.FindByUserID(ctx, userID)
	if err != nil {
		s.log.Error("Failed to list notifications", zap.Int64("user_id", userID), zap.Error(err))
		return nil, fmt.Errorf("list notifications: %w", err)
	}

	out := make([]response.NotificationResponse, len(notifications))
	for i, n := range notifications {
		out[i] = response.NotificationToResponse(n)
	}
	return out, nil
}
