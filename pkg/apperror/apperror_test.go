package apperror

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	err := fmt.Errorf("create booking: %w", InsufficientInventory("only %d left", 1))

	assert.Equal(t, KindInsufficientInventory, KindOf(err))
	assert.Equal(t, KindInternal, KindOf(errors.New("boom")))
	assert.Equal(t, KindInternal, KindOf(nil))
}

func TestIs_MatchesByKind(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", NotFound("booking %d not found", 7))

	assert.ErrorIs(t, err, ErrNotFound)
	assert.NotErrorIs(t, err, ErrConflict)
}

func TestWrap_KeepsCause(t *testing.T) {
	cause := errors.New("deadlock detected")
	err := Wrap(KindConflict, cause, "concurrent update")

	assert.ErrorIs(t, err, cause)
	assert.ErrorIs(t, err, ErrConflict)
	assert.Contains(t, err.Error(), "deadlock detected")
}

func TestMessageOf_HidesInternalDetails(t *testing.T) {
	assert.Equal(t, "slot is sold out", MessageOf(InsufficientInventory("slot is sold out")))
	assert.Equal(t, "Internal server error", MessageOf(errors.New("pq: connection refused")))
	assert.Equal(t, "Internal server error", MessageOf(&Error{Kind: KindIntegrityFault, Message: "sold=-1"}))
}
