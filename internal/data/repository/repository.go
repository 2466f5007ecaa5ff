package repository

import (
	"context"
	"errors"
	"fmt"

	"tour-booking/pkg/database"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// ErrNotFound is returned by mutating methods whose target row is absent.
// Finders return (nil, nil) instead.
var ErrNotFound = errors.New("not found")

type Repository struct {
	Excursion    ExcursionRepository
	Slot         SlotRepository
	Booking      BookingRepository
	Notification NotificationRepository
	Session      SessionRepository

	db  database.PgxIface
	log *zap.Logger
}

func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	repo := newRepositoryOn(db, log)
	repo.db = db
	repo.log = log
	return repo
}

func newRepositoryOn(q database.Querier, log *zap.Logger) *Repository {
	return &Repository{
		Excursion:    NewExcursionRepository(q, log),
		Slot:         NewSlotRepository(q, log),
		Booking:      NewBookingRepository(q, log),
		Notification: NewNotificationRepository(q, log),
		Session:      NewSessionRepository(q, log),
	}
}

// WithinTx runs fn against repositories bound to a single transaction.
// The transaction commits when fn returns nil and rolls back otherwise.
// A Repository assembled by hand (no database) runs fn directly.
func (r *Repository) WithinTx(ctx context.Context, fn func(tx *Repository) error) (err error) {
	if r.db == nil {
		return fn(r)
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
				r.log.Warn("Failed to roll back transaction", zap.Error(rbErr))
			}
		}
	}()

	if err = fn(newRepositoryOn(tx, r.log)); err != nil {
		return err
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
