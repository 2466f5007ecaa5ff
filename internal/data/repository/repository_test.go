package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"tour-booking/internal/data/entity"
)

func TestWithinTx_CommitsOnSuccess(t *testing.T) {
	mock := newMockPool(t)
	repo := NewRepository(mock, zap.NewNop())
	slotID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE ticket_slots`).
		WithArgs(slotID, 2).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec(`UPDATE bookings SET status = \$2`).
		WithArgs(int64(7), entity.BookingStatusCancelled).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectCommit()

	err := repo.WithinTx(context.Background(), func(tx *Repository) error {
		if _, err := tx.Slot.Reserve(context.Background(), slotID, 2); err != nil {
			return err
		}
		return tx.Booking.UpdateStatus(context.Background(), 7, entity.BookingStatusCancelled)
	})

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithinTx_RollsBackOnError(t *testing.T) {
	mock := newMockPool(t)
	repo := NewRepository(mock, zap.NewNop())
	sentinel := errors.New("sold out")

	mock.ExpectBegin()
	mock.ExpectRollback()

	err := repo.WithinTx(context.Background(), func(tx *Repository) error {
		return sentinel
	})

	assert.ErrorIs(t, err, sentinel)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingRepository_UpdateStatus_Missing(t *testing.T) {
	mock := newMockPool(t)
	repo := NewBookingRepository(mock, zap.NewNop())

	mock.ExpectExec(`UPDATE bookings SET status`).
		WithArgs(int64(42), entity.BookingStatusCancelled).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := repo.UpdateStatus(context.Background(), 42, entity.BookingStatusCancelled)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingRepository_CompletePast(t *testing.T) {
	mock := newMockPool(t)
	repo := NewBookingRepository(mock, zap.NewNop())
	now := mustTime(t, "2025-06-01 12:00")

	mock.ExpectExec(`WHERE status = \$2 AND date_time < \$3`).
		WithArgs(entity.BookingStatusCompleted, entity.BookingStatusPending, now).
		WillReturnResult(pgxmock.NewResult("UPDATE", 3))

	n, err := repo.CompletePast(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}
