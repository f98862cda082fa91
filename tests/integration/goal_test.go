package integration

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kultivateAPI/internal/goal"
	"kultivateAPI/internal/notification"
	"kultivateAPI/services"
	"kultivateAPI/tests/helpers"
)

func TestGoalProgressAndCompletion(t *testing.T) {
	pool := helpers.SetupTestDB(t)
	defer helpers.CleanupTestDB(t, pool)

	ctx := context.Background()

	authService := services.NewAuthService(pool, testJWTSecret, 30*time.Minute)
	notificationService := services.NewNotificationService(pool)
	goalService := services.NewGoalService(pool, notificationService)

	u := registerTestUser(t, authService, "goal")

	created, err := goalService.CreateGoal(ctx, u.ID, &goal.CreateGoalRequest{
		Title:       "Run 100 km",
		TargetValue: 100,
	})
	require.NoError(t, err)
	assert.Equal(t, float64(0), created.CurrentValue)
	assert.Equal(t, float64(0), created.ProgressPercentage)
	assert.False(t, created.IsCompleted)

	// Halfway
	half := float64(50)
	updated, err := goalService.UpdateGoal(ctx, u.ID, created.ID, &goal.UpdateGoalRequest{CurrentValue: &half})
	require.NoError(t, err)
	assert.Equal(t, float64(50), updated.ProgressPercentage)
	assert.False(t, updated.IsCompleted)
	assert.Nil(t, updated.CompletedAt)

	// Overshooting caps progress at 100 and completes the goal
	over := float64(120)
	updated, err = goalService.UpdateGoal(ctx, u.ID, created.ID, &goal.UpdateGoalRequest{CurrentValue: &over})
	require.NoError(t, err)
	assert.Equal(t, float64(100), updated.ProgressPercentage)
	assert.True(t, updated.IsCompleted)
	require.NotNil(t, updated.CompletedAt)
	firstCompletedAt := *updated.CompletedAt

	// Completion leaves a passive notification
	list, err := notificationService.GetNotifications(ctx, u.ID, 1, 20, false)
	require.NoError(t, err)
	require.Len(t, list.Notifications, 1)
	assert.Equal(t, notification.TypeGoal, list.Notifications[0].Type)

	// A later update must not move completed_at or notify again
	more := float64(150)
	updated, err = goalService.UpdateGoal(ctx, u.ID, created.ID, &goal.UpdateGoalRequest{CurrentValue: &more})
	require.NoError(t, err)
	require.NotNil(t, updated.CompletedAt)
	assert.True(t, firstCompletedAt.Equal(*updated.CompletedAt))

	list, err = notificationService.GetNotifications(ctx, u.ID, 1, 20, false)
	require.NoError(t, err)
	assert.Len(t, list.Notifications, 1)
}

func TestGoalNotFound(t *testing.T) {
	pool := helpers.SetupTestDB(t)
	defer helpers.CleanupTestDB(t, pool)

	ctx := context.Background()

	authService := services.NewAuthService(pool, testJWTSecret, 30*time.Minute)
	notificationService := services.NewNotificationService(pool)
	goalService := services.NewGoalService(pool, notificationService)

	owner := registerTestUser(t, authService, "goalowner")
	other := registerTestUser(t, authService, "goalother")

	created, err := goalService.CreateGoal(ctx, owner.ID, &goal.CreateGoalRequest{
		Title:       "Read 12 books",
		TargetValue: 12,
	})
	require.NoError(t, err)

	_, err = goalService.GetGoal(ctx, other.ID, created.ID)
	assert.ErrorIs(t, err, services.ErrNotFound)

	err = goalService.DeleteGoal(ctx, other.ID, created.ID)
	assert.ErrorIs(t, err, services.ErrNotFound)
}
