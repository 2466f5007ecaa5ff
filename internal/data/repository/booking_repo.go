package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tour-booking/internal/data/entity"
	"tour-booking/pkg/database"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type BookingRepository interface {
	Create(ctx context.Context, booking *entity.Booking) error
	FindByID(ctx context.Context, id int64) (*entity.Booking, error)
	// LockByID is FindByID holding a row lock until the transaction ends.
	LockByID(ctx context.Context, id int64) (*entity.Booking, error)
	FindByUserID(ctx context.Context, userID int64) ([]*entity.Booking, error)
	FindByGuideID(ctx context.Context, guideID int64) ([]*entity.Booking, error)
	FindAll(ctx context.Context) ([]*entity.Booking, error)
	Update(ctx context.Context, booking *entity.Booking) error
	UpdateStatus(ctx context.Context, id int64, status entity.BookingStatus) error

	// CompletePast marks Pending bookings dated before now as Completed.
	CompletePast(ctx context.Context, now time.Time) (int64, error)
}

type bookingRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewBookingRepository(db database.Querier, log *zap.Logger) BookingRepository {
	return &bookingRepository{
		db:  db,
		log: log.With(zap.String("repository", "booking")),
	}
}

const bookingColumns = `b.id, b.user_id, b.excursion_id, b.slot_id, b.ticket_category, b.date_time,
		       b.quantity, b.status, b.total, b.payment_method, b.timestamp, b.updated_at`

func (r *bookingRepository) Create(ctx context.Context, booking *entity.Booking) error {
	query := `
		INSERT INTO bookings (user_id, excursion_id, slot_id, ticket_category, date_time,
		                      quantity, status, total, payment_method, timestamp, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id
	`

	err := r.db.QueryRow(ctx, query,
		booking.UserID,
		booking.ExcursionID,
		booking.SlotID,
		booking.TicketCategory,
		booking.DateTime,
		booking.Quantity,
		booking.Status,
		booking.Total,
		booking.PaymentMethod,
		booking.Timestamp,
		booking.UpdatedAt,
	).Scan(&booking.ID)

	if err != nil {
		r.log.Error("Failed to create booking",
			zap.Error(err),
			zap.Int64("user_id", booking.UserID),
			zap.Int64("excursion_id", booking.ExcursionID),
		)
		return fmt.Errorf("create booking for user %d: %w", booking.UserID, err)
	}

	return nil
}

func (r *bookingRepository) FindByID(ctx context.Context, id int64) (*entity.Booking, error) {
	return r.findOne(ctx, `SELECT `+bookingColumns+` FROM bookings b WHERE b.id = $1`, id)
}

func (r *bookingRepository) LockByID(ctx context.Context, id int64) (*entity.Booking, error) {
	return r.findOne(ctx, `SELECT `+bookingColumns+` FROM bookings b WHERE b.id = $1 FOR UPDATE`, id)
}

func (r *bookingRepository) findOne(ctx context.Context, query string, id int64) (*entity.Booking, error) {
	booking, err := scanBooking(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find booking by ID",
			zap.Error(err),
			zap.Int64("booking_id", id),
		)
		return nil, fmt.Errorf("find booking by ID %d: %w", id, err)
	}

	return booking, nil
}

func (r *bookingRepository) FindByUserID(ctx context.Context, userID int64) ([]*entity.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings b
		WHERE b.user_id = $1
		ORDER BY b.timestamp DESC, b.id DESC
	`

	bookings, err := r.findMany(ctx, query, userID)
	if err != nil {
		r.log.Error("Failed to find bookings by user ID",
			zap.Error(err),
			zap.Int64("user_id", userID),
		)
		return nil, fmt.Errorf("find bookings by user ID %d: %w", userID, err)
	}

	return bookings, nil
}

func (r *bookingRepository) FindByGuideID(ctx context.Context, guideID int64) ([]*entity.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings b
		JOIN excursions e ON e.id = b.excursion_id
		WHERE e.guide_id = $1
		ORDER BY b.timestamp DESC, b.id DESC
	`

	bookings, err := r.findMany(ctx, query, guideID)
	if err != nil {
		r.log.Error("Failed to find bookings by guide ID",
			zap.Error(err),
			zap.Int64("guide_id", guideID),
		)
		return nil, fmt.Errorf("find bookings by guide ID %d: %w", guideID, err)
	}

	return bookings, nil
}

func (r *bookingRepository) FindAll(ctx context.Context) ([]*entity.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings b
		ORDER BY b.timestamp DESC, b.id DESC
	`

	bookings, err := r.findMany(ctx, query)
	if err != nil {
		r.log.Error("Failed to find all bookings", zap.Error(err))
		return nil, fmt.Errorf("find all bookings: %w", err)
	}

	return bookings, nil
}

func (r *bookingRepository) findMany(ctx context.Context, query string, args ...any) ([]*entity.Booking, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bookings []*entity.Booking
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("scan booking row: %w", err)
		}
		bookings = append(bookings, booking)
	}

	return bookings, rows.Err()
}

func (r *bookingRepository) Update(ctx context.Context, booking *entity.Booking) error {
	query := `
		UPDATE bookings
		SET slot_id = $2, ticket_category = $3, date_time = $4, quantity = $5,
		    status = $6, total = $7, payment_method = $8, updated_at = $9
		WHERE id = $1
	`

	result, err := r.db.Exec(ctx, query,
		booking.ID,
		booking.SlotID,
		booking.TicketCategory,
		booking.DateTime,
		booking.Quantity,
		booking.Status,
		booking.Total,
		booking.PaymentMethod,
		booking.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to update booking",
			zap.Error(err),
			zap.Int64("booking_id", booking.ID),
		)
		return fmt.Errorf("update booking %d: %w", booking.ID, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("update booking %d: %w", booking.ID, ErrNotFound)
	}

	return nil
}

func (r *bookingRepository) UpdateStatus(ctx context.Context, id int64, status entity.BookingStatus) error {
	query := `UPDATE bookings SET status = $2, updated_at = NOW() WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id, status)
	if err != nil {
		r.log.Error("Failed to update booking status",
			zap.Error(err),
			zap.Int64("booking_id", id),
			zap.String("status", string(status)),
		)
		return fmt.Errorf("update booking %d status to %s: %w", id, status, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("update booking %d status: %w", id, ErrNotFound)
	}

	return nil
}

func (r *bookingRepository) CompletePast(ctx context.Context, now time.Time) (int64, error) {
	query := `
		UPDATE bookings
		SET status = $1, updated_at = NOW()
		WHERE status = $2 AND date_time < $3
	`

	result, err := r.db.Exec(ctx, query, entity.BookingStatusCompleted, entity.BookingStatusPending, now)
	if err != nil {
		r.log.Error("Failed to complete past bookings", zap.Error(err))
		return 0, fmt.Errorf("complete past bookings: %w", err)
	}

	return result.RowsAffected(), nil
}

func scanBooking(row pgx.Row) (*entity.Booking, error) {
	var booking entity.Booking
	err := row.Scan(
		&booking.ID,
		&booking.UserID,
		&booking.ExcursionID,
		&booking.SlotID,
		&booking.TicketCategory,
		&booking.DateTime,
		&booking.Quantity,
		&booking.Status,
		&booking.Total,
		&booking.PaymentMethod,
		&booking.Timestamp,
		&booking.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &booking, nil
}
