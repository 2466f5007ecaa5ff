package scheduler

import (
	"context"
	"time"

	"go.uber.org/zap"
)

type bookingCompleter interface {
	CompletePastBookings(ctx context.Context) (int64, error)
}

// Sweeper periodically persists Completed for bookings whose time has
// passed. Reads compute the status on their own, so a missed tick only
// delays the stored value.
type Sweeper struct {
	bookings bookingCompleter
	interval time.Duration
	log      *zap.Logger
}

func NewSweeper(bookings bookingCompleter, interval time.Duration, log *zap.Logger) *Sweeper {
	return &Sweeper{
		bookings: bookings,
		interval: interval,
		log:      log.With(zap.String("component", "sweeper")),
	}
}

// Start blocks until ctx is cancelled.
func (s *Sweeper) Start(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.log.Info("Sweeper started", zap.Duration("interval", s.interval))

	for {
		select {
		case <-ctx.Done():
			s.log.Info("Sweeper stopped")
			return
		case <-ticker.C:
			s.tick(ctx)
		}
	}
}

func (s *Sweeper) tick(ctx context.Context) {
	count, err := s.bookings.CompletePastBookings(ctx)
	if err != nil {
		s.log.Error("Failed to complete past bookings", zap.Error(err))
		return
	}
	if count > 0 {
		s.log.Debug("Sweep finished", zap.Int64("completed", count))
	}
}
