package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"tour-booking/internal/data/entity"
	"tour-booking/internal/data/repository"
	"tour-booking/internal/dto/response"
	"tour-booking/pkg/apperror"

	"go.uber.org/zap"
)

type AvailabilityService interface {
	InventoryObserver
	// GetAvailability returns the projection of an excursion's slots. The
	// returned view is shared between callers and must not be mutated.
	GetAvailability(ctx context.Context, excursionID int64) (response.AvailabilityView, error)
}

type cachedView struct {
	version uint64
	view    response.AvailabilityView
}

type availabilityService struct {
	repo *repository.Repository
	log  *zap.Logger

	mu       sync.Mutex
	versions map[int64]uint64
	cache    map[int64]cachedView
}

func NewAvailabilityService(repo *repository.Repository, log *zap.Logger) AvailabilityService {
	return &availabilityService{
		repo:     repo,
		log:      log.With(zap.String("service", "availability")),
		versions: make(map[int64]uint64),
		cache:    make(map[int64]cachedView),
	}
}

// SlotsChanged bumps the excursion's slot-set version, invalidating any
// projection computed before the change.
func (s *availabilityService) SlotsChanged(excursionID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.versions[excursionID]++
	delete(s.cache, excursionID)
}

func (s *availabilityService) GetAvailability(ctx context.Context, excursionID int64) (response.AvailabilityView, error) {
	s.mu.Lock()
	version := s.versions[excursionID]
	if cached, ok := s.cache[excursionID]; ok && cached.version == version {
		s.mu.Unlock()
		return cached.view, nil
	}
	s.mu.Unlock()

	excursion, err := s.repo.Excursion.FindByID(ctx, excursionID)
	if err != nil {
		s.log.Error("Failed to load excursion", zap.Int64("excursion_id", excursionID), zap.Error(err))
		return nil, fmt.Errorf("load excursion: %w", err)
	}
	if excursion == nil {
		return nil, apperror.NotFound("excursion %d not found", excursionID)
	}

	slots, err := s.repo.Slot.FindByExcursionID(ctx, excursionID)
	if err != nil {
		s.log.Error("Failed to load slots", zap.Int64("excursion_id", excursionID), zap.Error(err))
		return nil, fmt.Errorf("load slots: %w", err)
	}

	view := ProjectAvailability(slots, s.log)

	// A change that landed while we were reading leaves the version ahead
	// of ours; the stale view is returned but not cached.
	s.mu.Lock()
	if s.versions[excursionID] == version {
		s.cache[excursionID] = cachedView{version: version, view: view}
	}
	s.mu.Unlock()

	return view, nil
}

// ProjectAvailability groups slots by "yyyy-MM-dd HH:mm" and category.
// Blank categories are labelled default_{index}, index being the slot's
// position within its date-time group. Labels are compared
// case-insensitively and the first occurrence wins.
func ProjectAvailability(slots []*entity.TicketSlot, log *zap.Logger) response.AvailabilityView {
	view := make(response.AvailabilityView)
	positions := make(map[string]int)
	labels := make(map[string]map[string]struct{})

	for _, slot := range slots {
		key := slot.DateTime()

		group, ok := view[key]
		if !ok {
			group = make(map[string]response.TicketAvailability)
			view[key] = group
			labels[key] = make(map[string]struct{})
		}

		index := positions[key]
		positions[key]++

		label := slot.Category
		if strings.TrimSpace(label) == "" {
			label = fmt.Sprintf("default_%d", index)
		}

		folded := strings.ToLower(label)
		if _, dup := labels[key][folded]; dup {
			log.Warn("Duplicate ticket category in availability, keeping first",
				zap.Int64("excursion_id", slot.ExcursionID),
				zap.String("date_time", key),
				zap.String("category", label),
			)
			continue
		}
		labels[key][folded] = struct{}{}

		group[label] = response.TicketAvailability{
			Count:    clampedRemaining(slot, log),
			Price:    slot.Price,
			Currency: slot.Currency,
		}
	}

	return view
}
