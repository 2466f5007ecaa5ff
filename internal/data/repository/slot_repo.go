package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tour-booking/internal/data/entity"
	"tour-booking/pkg/database"
	"tour-booking/pkg/utils"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// ErrDuplicateSlot is returned when a slot with the same excursion, start
// time and category already exists.
var ErrDuplicateSlot = errors.New("duplicate ticket slot")

type SlotRepository interface {
	CreateBatch(ctx context.Context, slots []*entity.TicketSlot) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.TicketSlot, error)
	FindByExcursionID(ctx context.Context, excursionID int64) ([]*entity.TicketSlot, error)
	FindByKey(ctx context.Context, excursionID int64, startsAt time.Time, category string) (*entity.TicketSlot, error)

	// Reserve adds quantity to sold only if the result stays within total.
	// It reports false when the slot is missing or lacks capacity.
	Reserve(ctx context.Context, id uuid.UUID, quantity int) (bool, error)
	// Release subtracts quantity from sold, floored at zero, and returns
	// sold before and after the change.
	Release(ctx context.Context, id uuid.UUID, quantity int) (before, after int, err error)
}

type slotRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewSlotRepository(db database.Querier, log *zap.Logger) SlotRepository {
	return &slotRepository{
		db:  db,
		log: log.With(zap.String("repository", "ticket_slot")),
	}
}

const slotColumns = `id, excursion_id, starts_at, category, total, sold, price, currency, created_at, updated_at`

func (r *slotRepository) CreateBatch(ctx context.Context, slots []*entity.TicketSlot) error {
	if len(slots) == 0 {
		return nil
	}

	// Build batch insert
	query := `INSERT INTO ticket_slots (` + slotColumns + `) VALUES `
	args := make([]any, 0, len(slots)*10)

	for i, slot := range slots {
		if i > 0 {
			query += ", "
		}
		n := i * 10
		query += fmt.Sprintf("($%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d)",
			n+1, n+2, n+3, n+4, n+5, n+6, n+7, n+8, n+9, n+10)

		args = append(args,
			slot.ID,
			slot.ExcursionID,
			slot.StartsAt,
			slot.Category,
			slot.Total,
			slot.Sold,
			slot.Price,
			slot.Currency,
			slot.CreatedAt,
			slot.UpdatedAt,
		)
	}

	_, err := r.db.Exec(ctx, query, args...)
	if database.IsUniqueViolation(err) {
		return ErrDuplicateSlot
	}
	if err != nil {
		r.log.Error("Failed to create batch ticket slots",
			zap.Error(err),
			zap.Int("count", len(slots)),
		)
		return fmt.Errorf("create batch ticket slots: %w", err)
	}

	return nil
}

func (r *slotRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.TicketSlot, error) {
	query := `SELECT ` + slotColumns + ` FROM ticket_slots WHERE id = $1`

	slot, err := scanSlot(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find ticket slot by ID",
			zap.Error(err),
			zap.String("slot_id", id.String()),
		)
		return nil, fmt.Errorf("find ticket slot by ID %s: %w", id, err)
	}

	return slot, nil
}

func (r *slotRepository) FindByExcursionID(ctx context.Context, excursionID int64) ([]*entity.TicketSlot, error) {
	query := `
		SELECT ` + slotColumns + `
		FROM ticket_slots
		WHERE excursion_id = $1
		ORDER BY starts_at, created_at, id
	`

	rows, err := r.db.Query(ctx, query, excursionID)
	if err != nil {
		r.log.Error("Failed to find ticket slots by excursion ID",
			zap.Error(err),
			zap.Int64("excursion_id", excursionID),
		)
		return nil, fmt.Errorf("find ticket slots by excursion ID %d: %w", excursionID, err)
	}
	defer rows.Close()

	var slots []*entity.TicketSlot
	for rows.Next() {
		slot, err := scanSlot(rows)
		if err != nil {
			r.log.Error("Failed to scan ticket slot row", zap.Error(err))
			return nil, fmt.Errorf("scan ticket slot row: %w", err)
		}
		slots = append(slots, slot)
	}

	return slots, rows.Err()
}

func (r *slotRepository) FindByKey(ctx context.Context, excursionID int64, startsAt time.Time, category string) (*entity.TicketSlot, error) {
	query := `
		SELECT ` + slotColumns + `
		FROM ticket_slots
		WHERE excursion_id = $1 AND starts_at = $2 AND category = $3
		ORDER BY created_at, id
		LIMIT 1
	`

	slot, err := scanSlot(r.db.QueryRow(ctx, query, excursionID, startsAt, category))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find ticket slot by key",
			zap.Error(err),
			zap.Int64("excursion_id", excursionID),
			zap.Time("starts_at", startsAt),
			zap.String("category", category),
		)
		return nil, fmt.Errorf("find ticket slot %d/%s/%s: %w",
			excursionID, startsAt.Format(utils.DateTimeLayout), category, err)
	}

	return slot, nil
}

func (r *slotRepository) Reserve(ctx context.Context, id uuid.UUID, quantity int) (bool, error) {
	query := `
		UPDATE ticket_slots
		SET sold = sold + $2, updated_at = NOW()
		WHERE id = $1 AND $2 <= total - sold
	`

	result, err := r.db.Exec(ctx, query, id, quantity)
	if err != nil {
		r.log.Error("Failed to reserve ticket slot",
			zap.Error(err),
			zap.String("slot_id", id.String()),
			zap.Int("quantity", quantity),
		)
		return false, fmt.Errorf("reserve %d on ticket slot %s: %w", quantity, id, err)
	}

	return result.RowsAffected() == 1, nil
}

func (r *slotRepository) Release(ctx context.Context, id uuid.UUID, quantity int) (int, int, error) {
	query := `
		UPDATE ticket_slots s
		SET sold = GREATEST(s.sold - $2, 0), updated_at = NOW()
		FROM (SELECT id, sold FROM ticket_slots WHERE id = $1 FOR UPDATE) prev
		WHERE s.id = prev.id
		RETURNING prev.sold, s.sold
	`

	var before, after int
	err := r.db.QueryRow(ctx, query, id, quantity).Scan(&before, &after)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, 0, ErrNotFound
	}
	if err != nil {
		r.log.Error("Failed to release ticket slot",
			zap.Error(err),
			zap.String("slot_id", id.String()),
			zap.Int("quantity", quantity),
		)
		return 0, 0, fmt.Errorf("release %d on ticket slot %s: %w", quantity, id, err)
	}

	return before, after, nil
}

func scanSlot(row pgx.Row) (*entity.TicketSlot, error) {
	var slot entity.TicketSlot
	err := row.Scan(
		&slot.ID,
		&slot.ExcursionID,
		&slot.StartsAt,
		&slot.Category,
		&slot.Total,
		&slot.Sold,
		&slot.Price,
		&slot.Currency,
		&slot.CreatedAt,
		&slot.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &slot, nil
}
