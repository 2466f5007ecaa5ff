package repository

import (
	"context"
	"errors"
	"fmt"

	"tour-booking/internal/data/entity"
	"tour-booking/pkg/database"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type ExcursionRepository interface {
	FindByID(ctx context.Context, id int64) (*entity.Excursion, error)
}

type excursionRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewExcursionRepository(db database.Querier, log *zap.Logger) ExcursionRepository {
	return &excursionRepository{
		db:  db,
		log: log.With(zap.String("repository", "excursion")),
	}
}

func (r *excursionRepository) FindByID(ctx context.Context, id int64) (*entity.Excursion, error) {
	query := `
		SELECT id, organization_id, guide_id, manager_id, title, city, created_at
		FROM excursions
		WHERE id = $1
	`

	var excursion entity.Excursion
	err := r.db.QueryRow(ctx, query, id).Scan(
		&excursion.ID,
		&excursion.OrganizationID,
		&excursion.GuideID,
		&excursion.ManagerID,
		&excursion.Title,
		&excursion.City,
		&excursion.CreatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find excursion by ID",
			zap.Error(err),
			zap.Int64("excursion_id", id),
		)
		return nil, fmt.Errorf("find excursion by ID %d: %w", id, err)
	}

	return &excursion, nil
}
