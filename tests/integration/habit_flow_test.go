package integration

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kultivateAPI/handlers"
	"kultivateAPI/internal/habit"
	"kultivateAPI/internal/user"
	"kultivateAPI/middleware"
	"kultivateAPI/services"
	"kultivateAPI/tests/helpers"
)

func registerTestUser(t *testing.T, authService *services.AuthService, prefix string) *user.User {
	t.Helper()

	suffix := time.Now().Format("20060102150405.000")
	u, err := authService.Register(context.Background(), &user.RegisterRequest{
		Email:    "test" + prefix + suffix + "@example.com",
		Username: prefix + strings.ReplaceAll(suffix, ".", ""),
		Password: "supersecret1",
	})
	require.NoError(t, err)
	return u
}

func TestHabitLifecycle(t *testing.T) {
	pool := helpers.SetupTestDB(t)
	defer helpers.CleanupTestDB(t, pool)

	ctx := context.Background()

	authService := services.NewAuthService(pool, testJWTSecret, 30*time.Minute)
	notificationService := services.NewNotificationService(pool)
	achievementService := services.NewAchievementService(pool, notificationService)
	habitService := services.NewHabitService(pool, achievementService)

	u := registerTestUser(t, authService, "habit")

	// Create with defaults
	created, err := habitService.CreateHabit(ctx, u.ID, &habit.CreateHabitRequest{Title: "Morning run"})
	require.NoError(t, err)
	assert.Equal(t, habit.FrequencyDaily, created.Frequency)
	assert.Equal(t, habit.PriorityMedium, created.Priority)
	assert.Equal(t, 1, created.TargetCount)
	assert.Equal(t, 0, created.CurrentStreak)

	// First completion starts a streak
	result, err := habitService.LogCompletion(ctx, u.ID, created.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, result.CurrentStreak)
	assert.Equal(t, 1, result.LongestStreak)
	assert.True(t, result.Log.IsCompleted)

	// A second completion on the same day must not inflate the streak
	result, err = habitService.LogCompletion(ctx, u.ID, created.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, result.CurrentStreak)

	// Both logs are kept
	logs, err := habitService.GetHabitLogs(ctx, u.ID, created.ID)
	require.NoError(t, err)
	assert.Len(t, logs, 2)

	// The streak row mirrors the counters
	st, err := habitService.GetStreak(ctx, u.ID, created.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, st.CurrentStreak)
	assert.Equal(t, 1, st.LongestStreak)
	assert.True(t, st.IsActive)
	require.NotNil(t, st.LastCompletionDate)

	// Partial update leaves unset fields alone
	newTitle := "Evening run"
	updated, err := habitService.UpdateHabit(ctx, u.ID, created.ID, &habit.UpdateHabitRequest{Title: &newTitle})
	require.NoError(t, err)
	assert.Equal(t, "Evening run", updated.Title)
	assert.Equal(t, created.Frequency, updated.Frequency)
	assert.Equal(t, created.Color, updated.Color)
	assert.Equal(t, 1, updated.CurrentStreak)

	// Delete removes the habit and its logs
	require.NoError(t, habitService.DeleteHabit(ctx, u.ID, created.ID))

	_, err = habitService.GetHabit(ctx, u.ID, created.ID)
	assert.ErrorIs(t, err, services.ErrNotFound)

	var logCount int
	err = pool.QueryRow(ctx, "SELECT COUNT(*) FROM habit_logs WHERE habit_id = $1", created.ID).Scan(&logCount)
	require.NoError(t, err)
	assert.Equal(t, 0, logCount)
}

func TestHabitOwnership(t *testing.T) {
	pool := helpers.SetupTestDB(t)
	defer helpers.CleanupTestDB(t, pool)

	ctx := context.Background()

	authService := services.NewAuthService(pool, testJWTSecret, 30*time.Minute)
	notificationService := services.NewNotificationService(pool)
	achievementService := services.NewAchievementService(pool, notificationService)
	habitService := services.NewHabitService(pool, achievementService)

	owner := registerTestUser(t, authService, "owner")
	intruder := registerTestUser(t, authService, "intruder")

	created, err := habitService.CreateHabit(ctx, owner.ID, &habit.CreateHabitRequest{Title: "Private habit"})
	require.NoError(t, err)

	// Another user's habit reads as missing, not forbidden
	_, err = habitService.GetHabit(ctx, intruder.ID, created.ID)
	assert.ErrorIs(t, err, services.ErrNotFound)

	_, err = habitService.LogCompletion(ctx, intruder.ID, created.ID, nil)
	assert.ErrorIs(t, err, services.ErrNotFound)

	err = habitService.DeleteHabit(ctx, intruder.ID, created.ID)
	assert.ErrorIs(t, err, services.ErrNotFound)
}

func TestStreakMilestoneUnlocksAchievement(t *testing.T) {
	pool := helpers.SetupTestDB(t)
	defer helpers.CleanupTestDB(t, pool)

	ctx := context.Background()

	authService := services.NewAuthService(pool, testJWTSecret, 30*time.Minute)
	notificationService := services.NewNotificationService(pool)
	achievementService := services.NewAchievementService(pool, notificationService)
	habitService := services.NewHabitService(pool, achievementService)

	u := registerTestUser(t, authService, "milestone")

	created, err := habitService.CreateHabit(ctx, u.ID, &habit.CreateHabitRequest{Title: "Meditate"})
	require.NoError(t, err)

	// Backfill six days of completions, then log today through the service
	// so the recompute sees a seven-day run.
	for i := 6; i >= 1; i-- {
		_, err := pool.Exec(ctx, `
			INSERT INTO habit_logs (id, user_id, habit_id, completed_at, is_completed)
			VALUES (gen_random_uuid(), $1, $2, NOW() - make_interval(days => $3), true)
		`, u.ID, created.ID, i)
		require.NoError(t, err)
	}

	result, err := habitService.LogCompletion(ctx, u.ID, created.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, 7, result.CurrentStreak)

	achievements, err := achievementService.GetAchievements(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, achievements, 1)
	assert.Equal(t, "One Week Strong", achievements[0].Title)
	assert.True(t, achievements[0].IsUnlocked)
	require.NotNil(t, achievements[0].UnlockedAt)

	// The unlock also leaves a passive notification
	count, err := notificationService.GetUnreadCount(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestHabitHandler_InvalidID(t *testing.T) {
	pool := helpers.SetupTestDB(t)
	defer helpers.CleanupTestDB(t, pool)

	notificationService := services.NewNotificationService(pool)
	achievementService := services.NewAchievementService(pool, notificationService)
	habitService := services.NewHabitService(pool, achievementService)
	habitHandler := handlers.NewHabitHandler(habitService)

	authService := services.NewAuthService(pool, testJWTSecret, 30*time.Minute)
	u := registerTestUser(t, authService, "badid")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/habits/not-a-uuid", nil)
	req = req.WithContext(context.WithValue(req.Context(), middleware.UserIDKey, u.ID))
	rr := httptest.NewRecorder()

	// mux.Vars is empty when the handler is invoked directly, which fails
	// uuid.Parse the same way a malformed path segment does.
	habitHandler.GetHabit(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)

	var response map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &response))
	assert.Contains(t, response["error"], "Invalid habit id")
}
