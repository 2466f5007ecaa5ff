package usecase

import (
	"context"
	"testing"

	"tour-booking/internal/data/entity"
	"tour-booking/pkg/apperror"
	"tour-booking/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotifications_ListForOwnerNewestFirst(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.notification.Append(ctx, testUserID, "first", env.now)
	env.notification.Append(ctx, testUserID, "second", env.now)
	env.notification.Append(ctx, 4, "someone else", env.now)

	list, err := env.notification.ListForUser(ctx, testUser, testUserID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "second", list[0].Message)
	assert.Equal(t, "first", list[1].Message)

	_, err = env.notification.ListForUser(ctx, utils.Actor{UserID: 4, Role: string(entity.RoleUser)}, testUserID)
	assert.ErrorIs(t, err, apperror.ErrUnauthorized)
}

func TestNotifications_AppendSurvivesCancelledContext(t *testing.T) {
	env := newTestEnv(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	env.notification.Append(ctx, testUserID, "booked", env.now)
	assert.Equal(t, []string{"booked"}, env.store.notificationsFor(testUserID))
}
