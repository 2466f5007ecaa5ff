package usecase

import (
	"context"
	"time"

	"tour-booking/internal/data/repository"
	"tour-booking/pkg/apperror"
	"tour-booking/pkg/database"

	"github.com/cenkalti/backoff/v4"
)

func newTxBackOff() *backoff.ExponentialBackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 20 * time.Millisecond
	b.MaxInterval = 250 * time.Millisecond
	b.MaxElapsedTime = 5 * time.Second
	return b
}

// atomically runs fn in one transaction, retrying it whole on serialization
// failures and deadlocks. Exhausted retries surface as Conflict.
func atomically(ctx context.Context, repo *repository.Repository, maxRetries uint64, fn func(tx *repository.Repository) error) error {
	policy := backoff.WithContext(backoff.WithMaxRetries(newTxBackOff(), maxRetries), ctx)

	err := backoff.Retry(func() error {
		err := repo.WithinTx(ctx, fn)
		if err != nil && !database.IsRetryable(err) {
			return backoff.Permanent(err)
		}
		return err
	}, policy)

	if database.IsRetryable(err) {
		return apperror.Wrap(apperror.KindConflict, err, "booking changed concurrently, please retry")
	}
	return err
}
