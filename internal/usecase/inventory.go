package usecase

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"tour-booking/internal/data/entity"
	"tour-booking/internal/data/repository"
	"tour-booking/pkg/apperror"
	"tour-booking/pkg/database"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// InventoryObserver is told after a committed change to an excursion's slots.
type InventoryObserver interface {
	SlotsChanged(excursionID int64)
}

// slotInventory holds the reservation rules. It works on whichever
// repository it is given, so the same checks run inside a transaction.
type slotInventory struct {
	observer InventoryObserver
	log      *zap.Logger
}

func newSlotInventory(observer InventoryObserver, log *zap.Logger) *slotInventory {
	return &slotInventory{
		observer: observer,
		log:      log.With(zap.String("component", "inventory")),
	}
}

// normalizeQuantity books a single ticket when the caller sends 0 or less.
func normalizeQuantity(quantity int) int {
	if quantity < 1 {
		return 1
	}
	return quantity
}

func (inv *slotInventory) find(ctx context.Context, repo *repository.Repository, excursionID int64, startsAt time.Time, category string) (*entity.TicketSlot, error) {
	slot, err := repo.Slot.FindByKey(ctx, excursionID, startsAt, category)
	if err != nil {
		return nil, fmt.Errorf("find slot: %w", err)
	}
	return slot, nil
}

func (inv *slotInventory) remaining(slot *entity.TicketSlot) int {
	return clampedRemaining(slot, inv.log)
}

// reserve takes quantity tickets from slot or fails without touching it.
func (inv *slotInventory) reserve(ctx context.Context, repo *repository.Repository, slot *entity.TicketSlot, quantity int) error {
	// total never changes after publishing, and beyond it a quantity may not
	// even fit the int4 parameter
	if quantity > slot.Total {
		return apperror.InsufficientInventory("not enough tickets in category %s on %s: %d left, %d requested",
			slot.Category, slot.DateTime(), inv.remaining(slot), quantity)
	}

	ok, err := repo.Slot.Reserve(ctx, slot.ID, quantity)
	if database.IsCheckViolation(err) {
		// the sold <= total constraint caught what the conditional update should have
		inv.log.Error("Reservation rejected by storage constraint",
			zap.String("kind", string(apperror.KindIntegrityFault)),
			zap.String("slot_id", slot.ID.String()),
			zap.Int("quantity", quantity),
		)
		ok, err = false, nil
	}
	if err != nil {
		return fmt.Errorf("reserve slot %s: %w", slot.ID, err)
	}
	if ok {
		return nil
	}

	current, err := repo.Slot.FindByID(ctx, slot.ID)
	if err != nil {
		return fmt.Errorf("reload slot %s: %w", slot.ID, err)
	}
	if current == nil {
		return apperror.NotFound("ticket slot %s not found", slot.ID)
	}

	return apperror.InsufficientInventory("not enough tickets in category %s on %s: %d left, %d requested",
		current.Category, current.DateTime(), inv.remaining(current), quantity)
}

// release returns quantity tickets to the slot. A release larger than the
// sold count is clamped at zero by storage and reported here.
func (inv *slotInventory) release(ctx context.Context, repo *repository.Repository, slotID uuid.UUID, quantity int) error {
	// anything past int4 empties the slot all the same
	quantity = min(quantity, math.MaxInt32)

	before, after, err := repo.Slot.Release(ctx, slotID, quantity)
	if errors.Is(err, repository.ErrNotFound) {
		return apperror.NotFound("ticket slot %s not found", slotID)
	}
	if err != nil {
		return fmt.Errorf("release slot %s: %w", slotID, err)
	}

	if before < quantity {
		inv.log.Error("Release exceeds sold count, clamped at zero",
			zap.String("kind", string(apperror.KindIntegrityFault)),
			zap.String("slot_id", slotID.String()),
			zap.Int("sold_before", before),
			zap.Int("quantity", quantity),
			zap.Int("sold_after", after),
		)
	}
	return nil
}

// changed must only be called once the mutation is committed.
func (inv *slotInventory) changed(excursionID int64) {
	if inv.observer != nil {
		inv.observer.SlotsChanged(excursionID)
	}
}

// clampedRemaining never reports a negative capacity. A negative value
// means sold > total slipped past storage and is logged as an integrity fault.
func clampedRemaining(slot *entity.TicketSlot, log *zap.Logger) int {
	remaining := slot.Remaining()
	if remaining < 0 {
		log.Error("Negative remaining capacity",
			zap.String("kind", string(apperror.KindIntegrityFault)),
			zap.String("slot_id", slot.ID.String()),
			zap.Int("total", slot.Total),
			zap.Int("sold", slot.Sold),
		)
		return 0
	}
	return remaining
}
