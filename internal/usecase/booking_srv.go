package usecase

import (
	"context"
	"fmt"
	"time"

	"tour-booking/internal/data/entity"
	"tour-booking/internal/data/repository"
	"tour-booking/internal/dto/request"
	"tour-booking/internal/dto/response"
	"tour-booking/pkg/apperror"
	"tour-booking/pkg/utils"

	"go.uber.org/zap"
)

type BookingService interface {
	CreateBooking(ctx context.Context, actor utils.Actor, req *request.CreateBookingRequest) (*response.BookingResponse, error)
	UpdateBooking(ctx context.Context, actor utils.Actor, bookingID int64, req *request.UpdateBookingRequest) (*response.BookingResponse, error)
	CancelBooking(ctx context.Context, actor utils.Actor, bookingID int64) error
	GetBooking(ctx context.Context, actor utils.Actor, bookingID int64) (*response.BookingResponse, error)
	ListBookings(ctx context.Context, actor utils.Actor) ([]response.BookingResponse, error)
	ListBookingsForUser(ctx context.Context, actor utils.Actor, userID int64) ([]response.BookingResponse, error)
	ListGuideBookings(ctx context.Context, actor utils.Actor, guideID int64) ([]response.BookingResponse, error)
	CompletePastBookings(ctx context.Context) (int64, error)
}

type bookingService struct {
	repo       *repository.Repository
	inventory  *slotInventory
	notifier   NotificationSink
	maxRetries uint64
	now        func() time.Time
	log        *zap.Logger
}

func NewBookingService(
	repo *repository.Repository,
	observer InventoryObserver,
	notifier NotificationSink,
	config utils.BookingConfig,
	log *zap.Logger,
) BookingService {
	return &bookingService{
		repo:       repo,
		inventory:  newSlotInventory(observer, log),
		notifier:   notifier,
		maxRetries: config.MaxRetries,
		now:        func() time.Time { return time.Now().UTC() },
		log:        log.With(zap.String("service", "booking")),
	}
}

// CreateBooking reserves tickets and records the booking in one transaction,
// then notifies the guide and the booker.
func (s *bookingService) CreateBooking(ctx context.Context, actor utils.Actor, req *request.CreateBookingRequest) (*response.BookingResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, apperror.InvalidArgument("validation failed: %s", utils.FormatValidationErrors(errs))
	}
	if actor.UserID != req.UserID {
		return nil, apperror.Unauthorized("you can only book on your own behalf")
	}
	if entity.UserRole(actor.Role) != entity.RoleUser {
		return nil, apperror.Unauthorized("only users can book excursions")
	}

	excursion, err := s.repo.Excursion.FindByID(ctx, req.ExcursionID)
	if err != nil {
		s.log.Error("Failed to load excursion", zap.Int64("excursion_id", req.ExcursionID), zap.Error(err))
		return nil, fmt.Errorf("load excursion: %w", err)
	}
	if excursion == nil {
		return nil, apperror.NotFound("excursion %d not found", req.ExcursionID)
	}
	if excursion.GuideID == nil {
		return nil, apperror.PreconditionFailed("excursion has no assigned guide")
	}

	startsAt, err := utils.ParseDateTime(req.DateTime)
	if err != nil {
		return nil, apperror.InvalidArgument("invalid date format, expected %s", utils.DateTimeFormat)
	}
	quantity := normalizeQuantity(req.Quantity)

	slot, err := s.inventory.find(ctx, s.repo, excursion.ID, startsAt, req.TicketCategory)
	if err != nil {
		s.log.Error("Failed to resolve slot", zap.Int64("excursion_id", excursion.ID), zap.Error(err))
		return nil, err
	}
	if slot == nil {
		return nil, apperror.InsufficientInventory("no %s tickets on %s", req.TicketCategory, req.DateTime)
	}

	status := entity.BookingStatusPending
	if req.Status != "" {
		status = entity.BookingStatus(req.Status)
	}
	total := slot.Price * float64(quantity)
	if req.Total != nil {
		total = *req.Total
	}
	paymentMethod := req.PaymentMethod
	if paymentMethod == "" {
		paymentMethod = entity.DefaultPaymentMethod
	}

	now := s.now()
	booking := &entity.Booking{
		UserID:         req.UserID,
		ExcursionID:    excursion.ID,
		SlotID:         slot.ID,
		TicketCategory: slot.Category,
		DateTime:       slot.StartsAt,
		Quantity:       quantity,
		Status:         status,
		Total:          total,
		PaymentMethod:  paymentMethod,
		Timestamp:      now,
		UpdatedAt:      now,
	}

	err = atomically(ctx, s.repo, s.maxRetries, func(tx *repository.Repository) error {
		booking.ID = 0
		if err := s.inventory.reserve(ctx, tx, slot, quantity); err != nil {
			return err
		}
		return tx.Booking.Create(ctx, booking)
	})
	if err != nil {
		s.logFailure("create booking", err, zap.Int64("user_id", actor.UserID), zap.String("slot_id", slot.ID.String()))
		return nil, err
	}
	s.inventory.changed(excursion.ID)

	s.log.Info("Booking created",
		zap.Int64("booking_id", booking.ID),
		zap.Int64("user_id", booking.UserID),
		zap.String("slot_id", slot.ID.String()),
		zap.Int("quantity", quantity),
	)

	s.notify(ctx, excursion, booking.UserID,
		fmt.Sprintf("New booking for %s on %s: %d x %s", excursion.DisplayTitle(), slot.DateTime(), quantity, booking.TicketCategory),
		fmt.Sprintf("You booked %s on %s", excursion.DisplayTitle(), slot.DateTime()),
	)

	resp := response.BookingToResponse(booking, now)
	return &resp, nil
}

// UpdateBooking moves a pending future booking. The new reservation is taken
// before the old one is released, so a failed move leaves everything as it was.
func (s *bookingService) UpdateBooking(ctx context.Context, actor utils.Actor, bookingID int64, req *request.UpdateBookingRequest) (*response.BookingResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, apperror.InvalidArgument("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	startsAt, err := utils.ParseDateTime(req.DateTime)
	if err != nil {
		return nil, apperror.InvalidArgument("invalid date format, expected %s", utils.DateTimeFormat)
	}
	quantity := normalizeQuantity(req.Quantity)

	var updated *entity.Booking
	var oldSlotID string

	err = atomically(ctx, s.repo, s.maxRetries, func(tx *repository.Repository) error {
		updated = nil

		booking, err := tx.Booking.LockByID(ctx, bookingID)
		if err != nil {
			return err
		}
		if booking == nil || booking.UserID != actor.UserID {
			return apperror.NotFound("booking %d not found", bookingID)
		}

		now := s.now()
		if booking.Status != entity.BookingStatusPending || !booking.DateTime.After(now) {
			return apperror.InvalidArgument("cannot edit completed, cancelled or past bookings")
		}

		category := req.TicketCategory
		if category == "" {
			category = booking.TicketCategory
		}

		slot, err := s.inventory.find(ctx, tx, booking.ExcursionID, startsAt, category)
		if err != nil {
			return err
		}
		if slot == nil {
			return apperror.InsufficientInventory("no %s tickets on %s", category, req.DateTime)
		}

		if slot.ID == booking.SlotID {
			switch delta := quantity - booking.Quantity; {
			case delta > 0:
				if err := s.inventory.reserve(ctx, tx, slot, delta); err != nil {
					return err
				}
			case delta < 0:
				if err := s.inventory.release(ctx, tx, slot.ID, -delta); err != nil {
					return err
				}
			}
		} else {
			if err := s.inventory.reserve(ctx, tx, slot, quantity); err != nil {
				return err
			}
			if err := s.inventory.release(ctx, tx, booking.SlotID, booking.Quantity); err != nil {
				return err
			}
		}

		next := *booking
		next.SlotID = slot.ID
		next.TicketCategory = slot.Category
		next.DateTime = slot.StartsAt
		next.Quantity = quantity
		next.Total = slot.Price * float64(quantity)
		if req.Total != nil {
			next.Total = *req.Total
		}
		if req.PaymentMethod != "" {
			next.PaymentMethod = req.PaymentMethod
		}
		next.UpdatedAt = now

		if err := tx.Booking.Update(ctx, &next); err != nil {
			return err
		}

		oldSlotID = booking.SlotID.String()
		updated = &next
		return nil
	})
	if err != nil {
		s.logFailure("update booking", err, zap.Int64("booking_id", bookingID), zap.Int64("user_id", actor.UserID))
		return nil, err
	}
	s.inventory.changed(updated.ExcursionID)

	s.log.Info("Booking updated",
		zap.Int64("booking_id", updated.ID),
		zap.String("old_slot_id", oldSlotID),
		zap.String("new_slot_id", updated.SlotID.String()),
		zap.Int("quantity", updated.Quantity),
	)

	if excursion := s.excursionFor(ctx, updated); excursion != nil {
		dateTime := updated.DateTime.Format(utils.DateTimeLayout)
		s.notify(ctx, excursion, updated.UserID,
			fmt.Sprintf("Booking %d for %s changed to %s: %d x %s", updated.ID, excursion.DisplayTitle(), dateTime, updated.Quantity, updated.TicketCategory),
			fmt.Sprintf("Your booking for %s now is on %s", excursion.DisplayTitle(), dateTime),
		)
	}

	resp := response.BookingToResponse(updated, s.now())
	return &resp, nil
}

// CancelBooking returns the booking's tickets to its slot. Cancelling an
// already cancelled booking succeeds without releasing anything.
func (s *bookingService) CancelBooking(ctx context.Context, actor utils.Actor, bookingID int64) error {
	var cancelled *entity.Booking

	err := atomically(ctx, s.repo, s.maxRetries, func(tx *repository.Repository) error {
		cancelled = nil

		booking, err := tx.Booking.LockByID(ctx, bookingID)
		if err != nil {
			return err
		}
		if booking == nil || booking.UserID != actor.UserID {
			return apperror.NotFound("booking %d not found", bookingID)
		}
		if booking.Status == entity.BookingStatusCancelled {
			return nil
		}

		if err := tx.Booking.UpdateStatus(ctx, booking.ID, entity.BookingStatusCancelled); err != nil {
			return err
		}
		if err := s.inventory.release(ctx, tx, booking.SlotID, booking.Quantity); err != nil {
			return err
		}

		cancelled = booking
		return nil
	})
	if err != nil {
		s.logFailure("cancel booking", err, zap.Int64("booking_id", bookingID), zap.Int64("user_id", actor.UserID))
		return err
	}
	if cancelled == nil {
		s.log.Debug("Booking already cancelled", zap.Int64("booking_id", bookingID))
		return nil
	}
	s.inventory.changed(cancelled.ExcursionID)

	s.log.Info("Booking cancelled",
		zap.Int64("booking_id", cancelled.ID),
		zap.String("slot_id", cancelled.SlotID.String()),
		zap.Int("released", cancelled.Quantity),
	)

	if excursion := s.excursionFor(ctx, cancelled); excursion != nil {
		dateTime := cancelled.DateTime.Format(utils.DateTimeLayout)
		s.notify(ctx, excursion, cancelled.UserID,
			fmt.Sprintf("Booking %d for %s on %s was cancelled", cancelled.ID, excursion.DisplayTitle(), dateTime),
			fmt.Sprintf("Your booking for %s on %s is cancelled", excursion.DisplayTitle(), dateTime),
		)
	}
	return nil
}

// GetBooking is visible to its owner, the excursion's guide and staff above.
func (s *bookingService) GetBooking(ctx context.Context, actor utils.Actor, bookingID int64) (*response.BookingResponse, error) {
	booking, err := s.repo.Booking.FindByID(ctx, bookingID)
	if err != nil {
		s.log.Error("Failed to get booking", zap.Int64("booking_id", bookingID), zap.Error(err))
		return nil, fmt.Errorf("get booking: %w", err)
	}
	if booking == nil {
		return nil, apperror.NotFound("booking %d not found", bookingID)
	}

	switch entity.UserRole(actor.Role) {
	case entity.RoleManager, entity.RoleAdmin:
	case entity.RoleGuide:
		excursion, err := s.repo.Excursion.FindByID(ctx, booking.ExcursionID)
		if err != nil {
			return nil, fmt.Errorf("load excursion: %w", err)
		}
		if excursion == nil || !excursion.IsGuidedBy(actor.UserID) {
			return nil, apperror.NotFound("booking %d not found", bookingID)
		}
	default:
		if booking.UserID != actor.UserID {
			return nil, apperror.NotFound("booking %d not found", bookingID)
		}
	}

	resp := response.BookingToResponse(booking, s.now())
	return &resp, nil
}

// ListBookings scopes the listing by role: users see their own bookings,
// guides the bookings of excursions they guide, managers and admins all.
func (s *bookingService) ListBookings(ctx context.Context, actor utils.Actor) ([]response.BookingResponse, error) {
	var (
		bookings []*entity.Booking
		err      error
	)

	switch entity.UserRole(actor.Role) {
	case entity.RoleUser:
		bookings, err = s.repo.Booking.FindByUserID(ctx, actor.UserID)
	case entity.RoleGuide:
		bookings, err = s.repo.Booking.FindByGuideID(ctx, actor.UserID)
	case entity.RoleManager, entity.RoleAdmin:
		bookings, err = s.repo.Booking.FindAll(ctx)
	default:
		return nil, apperror.Forbidden("unknown role %q", actor.Role)
	}
	if err != nil {
		s.log.Error("Failed to list bookings", zap.Int64("actor_id", actor.UserID), zap.String("role", actor.Role), zap.Error(err))
		return nil, fmt.Errorf("list bookings: %w", err)
	}

	return response.BookingsToResponse(bookings, s.now()), nil
}

func (s *bookingService) ListBookingsForUser(ctx context.Context, actor utils.Actor, userID int64) ([]response.BookingResponse, error) {
	if actor.UserID != userID {
		return nil, apperror.Unauthorized("you can only view your own bookings")
	}

	bookings, err := s.repo.Booking.FindByUserID(ctx, userID)
	if err != nil {
		s.log.Error("Failed to list user bookings", zap.Int64("user_id", userID), zap.Error(err))
		return nil, fmt.Errorf("list user bookings: %w", err)
	}
	return response.BookingsToResponse(bookings, s.now()), nil
}

func (s *bookingService) ListGuideBookings(ctx context.Context, actor utils.Actor, guideID int64) ([]response.BookingResponse, error) {
	if entity.UserRole(actor.Role) != entity.RoleGuide || actor.UserID != guideID {
		return nil, apperror.Unauthorized("you can only view bookings of your own excursions")
	}

	bookings, err := s.repo.Booking.FindByGuideID(ctx, guideID)
	if err != nil {
		s.log.Error("Failed to list guide bookings", zap.Int64("guide_id", guideID), zap.Error(err))
		return nil, fmt.Errorf("list guide bookings: %w", err)
	}
	return response.BookingsToResponse(bookings, s.now()), nil
}

// CompletePastBookings persists Completed for pending bookings whose time
// has passed. Reads already report them as Completed.
func (s *bookingService) CompletePastBookings(ctx context.Context) (int64, error) {
	count, err := s.repo.Booking.CompletePast(ctx, s.now())
	if err != nil {
		s.log.Error("Failed to complete past bookings", zap.Error(err))
		return 0, fmt.Errorf("complete past bookings: %w", err)
	}
	if count > 0 {
		s.log.Info("Past bookings completed", zap.Int64("count", count))
	}
	return count, nil
}

func (s *bookingService) excursionFor(ctx context.Context, booking *entity.Booking) *entity.Excursion {
	excursion, err := s.repo.Excursion.FindByID(ctx, booking.ExcursionID)
	if err != nil || excursion == nil {
		s.log.Warn("Skipping notifications, excursion unavailable",
			zap.Int64("booking_id", booking.ID),
			zap.Int64("excursion_id", booking.ExcursionID),
			zap.Error(err),
		)
		return nil
	}
	return excursion
}

func (s *bookingService) notify(ctx context.Context, excursion *entity.Excursion, bookerID int64, guideMessage, bookerMessage string) {
	at := s.now()
	if excursion.GuideID != nil {
		s.notifier.Append(ctx, *excursion.GuideID, guideMessage, at)
	}
	s.notifier.Append(ctx, bookerID, bookerMessage, at)
}

// logFailure keeps expected domain outcomes at warn level.
func (s *bookingService) logFailure(operation string, err error, fields ...zap.Field) {
	fields = append(fields, zap.Error(err), zap.String("kind", string(apperror.KindOf(err))))
	switch apperror.KindOf(err) {
	case apperror.KindInternal, apperror.KindIntegrityFault:
		s.log.Error("Failed to "+operation, fields...)
	default:
		s.log.Warn(operation+" rejected", fields...)
	}
}
