package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"tour-booking/internal/data/entity"
	"tour-booking/internal/data/repository"
	"tour-booking/internal/dto/request"
	"tour-booking/internal/dto/response"
	"tour-booking/pkg/apperror"
	"tour-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const defaultCurrency = "USD"

type InventoryService interface {
	FindSlot(ctx context.Context, excursionID int64, date, clock, category string) (*entity.TicketSlot, error)
	Remaining(slot *entity.TicketSlot) int
	Reserve(ctx context.Context, slotID uuid.UUID, quantity int) error
	Release(ctx context.Context, slotID uuid.UUID, quantity int) error
	CreateSlots(ctx context.Context, actor utils.Actor, excursionID int64, req *request.CreateSlotsRequest) ([]response.SlotResponse, error)
	ListSlots(ctx context.Context, excursionID int64) ([]response.SlotResponse, error)
}

type inventoryService struct {
	repo      *repository.Repository
	inventory *slotInventory
	log       *zap.Logger
}

func NewInventoryService(repo *repository.Repository, observer InventoryObserver, log *zap.Logger) InventoryService {
	return &inventoryService{
		repo:      repo,
		inventory: newSlotInventory(observer, log),
		log:       log.With(zap.String("service", "inventory")),
	}
}

// FindSlot matches date, time and category exactly against the slot's
// own formatting of starts_at.
func (s *inventoryService) FindSlot(ctx context.Context, excursionID int64, date, clock, category string) (*entity.TicketSlot, error) {
	startsAt, err := utils.ParseDateTime(date + " " + clock)
	if err != nil {
		return nil, apperror.InvalidArgument("invalid date or time, expected %s", utils.DateTimeFormat)
	}

	slot, err := s.inventory.find(ctx, s.repo, excursionID, startsAt, category)
	if err != nil {
		s.log.Error("Failed to find slot", zap.Int64("excursion_id", excursionID), zap.Error(err))
		return nil, err
	}
	if slot == nil {
		return nil, apperror.NotFound("no %s tickets on %s %s", category, date, clock)
	}
	return slot, nil
}

func (s *inventoryService) Remaining(slot *entity.TicketSlot) int {
	return s.inventory.remaining(slot)
}

func (s *inventoryService) Reserve(ctx context.Context, slotID uuid.UUID, quantity int) error {
	quantity = normalizeQuantity(quantity)

	slot, err := s.repo.Slot.FindByID(ctx, slotID)
	if err != nil {
		return fmt.Errorf("load slot: %w", err)
	}
	if slot == nil {
		return apperror.NotFound("ticket slot %s not found", slotID)
	}

	if err := s.inventory.reserve(ctx, s.repo, slot, quantity); err != nil {
		return err
	}
	s.inventory.changed(slot.ExcursionID)
	return nil
}

func (s *inventoryService) Release(ctx context.Context, slotID uuid.UUID, quantity int) error {
	quantity = normalizeQuantity(quantity)

	slot, err := s.repo.Slot.FindByID(ctx, slotID)
	if err != nil {
		return fmt.Errorf("load slot: %w", err)
	}
	if slot == nil {
		return apperror.NotFound("ticket slot %s not found", slotID)
	}

	if err := s.inventory.release(ctx, s.repo, slotID, quantity); err != nil {
		return err
	}
	s.inventory.changed(slot.ExcursionID)
	return nil
}

// CreateSlots publishes bookable capacity. Guides may only author slots for
// excursions they guide, managers for excursions they manage.
func (s *inventoryService) CreateSlots(ctx context.Context, actor utils.Actor, excursionID int64, req *request.CreateSlotsRequest) ([]response.SlotResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, apperror.InvalidArgument("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	excursion, err := s.repo.Excursion.FindByID(ctx, excursionID)
	if err != nil {
		s.log.Error("Failed to load excursion", zap.Int64("excursion_id", excursionID), zap.Error(err))
		return nil, fmt.Errorf("load excursion: %w", err)
	}
	if excursion == nil {
		return nil, apperror.NotFound("excursion %d not found", excursionID)
	}
	if !canAuthorSlots(actor, excursion) {
		return nil, apperror.Forbidden("you cannot manage tickets of excursion %d", excursionID)
	}

	now := time.Now().UTC()
	slots := make([]*entity.TicketSlot, 0, len(req.Slots))
	seen := make(map[string]struct{}, len(req.Slots))

	for _, item := range req.Slots {
		startsAt, err := utils.ParseDateTime(item.DateTime)
		if err != nil {
			return nil, apperror.InvalidArgument("invalid date format %q, expected %s", item.DateTime, utils.DateTimeFormat)
		}

		category := strings.TrimSpace(item.Category)
		if category != "" {
			key := startsAt.Format(utils.DateTimeLayout) + "|" + strings.ToLower(category)
			if _, dup := seen[key]; dup {
				return nil, apperror.Conflict("duplicate %s tickets on %s", category, item.DateTime)
			}
			seen[key] = struct{}{}
		}

		currency := strings.ToUpper(item.Currency)
		if currency == "" {
			currency = defaultCurrency
		}

		slots = append(slots, &entity.TicketSlot{
			Timestamps:  entity.Timestamps{CreatedAt: now, UpdatedAt: now},
			ID:          uuid.New(),
			ExcursionID: excursionID,
			StartsAt:    startsAt,
			Category:    category,
			Total:       item.Total,
			Price:       item.Price,
			Currency:    currency,
		})
	}

	if err := s.repo.Slot.CreateBatch(ctx, slots); err != nil {
		if errors.Is(err, repository.ErrDuplicateSlot) {
			return nil, apperror.Conflict("tickets for one of these dates and categories already exist")
		}
		s.log.Error("Failed to create slots", zap.Int64("excursion_id", excursionID), zap.Error(err))
		return nil, fmt.Errorf("create slots: %w", err)
	}
	s.inventory.changed(excursionID)

	s.log.Info("Ticket slots created",
		zap.Int64("excursion_id", excursionID),
		zap.Int64("actor_id", actor.UserID),
		zap.Int("count", len(slots)),
	)

	return s.toResponses(slots), nil
}

func (s *inventoryService) ListSlots(ctx context.Context, excursionID int64) ([]response.SlotResponse, error) {
	excursion, err := s.repo.Excursion.FindByID(ctx, excursionID)
	if err != nil {
		return nil, fmt.Errorf("load excursion: %w", err)
	}
	if excursion == nil {
		return nil, apperror.NotFound("excursion %d not found", excursionID)
	}

	slots, err := s.repo.Slot.FindByExcursionID(ctx, excursionID)
	if err != nil {
		s.log.Error("Failed to list slots", zap.Int64("excursion_id", excursionID), zap.Error(err))
		return nil, fmt.Errorf("list slots: %w", err)
	}
	return s.toResponses(slots), nil
}

func (s *inventoryService) toResponses(slots []*entity.TicketSlot) []response.SlotResponse {
	out := make([]response.SlotResponse, len(slots))
	for i, slot := range slots {
		out[i] = response.SlotToResponse(slot, s.inventory.remaining(slot))
	}
	return out
}

func canAuthorSlots(actor utils.Actor, excursion *entity.Excursion) bool {
	switch entity.UserRole(actor.Role) {
	case entity.RoleAdmin:
		return true
	case entity.RoleManager:
		return excursion.IsManagedBy(actor.UserID)
	case entity.RoleGuide:
		return excursion.IsGuidedBy(actor.UserID)
	default:
		return false
	}
}
