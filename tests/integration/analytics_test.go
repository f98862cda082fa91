package integration

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kultivateAPI/internal/habit"
	"kultivateAPI/internal/mood"
	"kultivateAPI/services"
	"kultivateAPI/tests/helpers"
)

func TestDashboard_NewUser(t *testing.T) {
	pool := helpers.SetupTestDB(t)
	defer helpers.CleanupTestDB(t, pool)

	ctx := context.Background()

	authService := services.NewAuthService(pool, testJWTSecret, 30*time.Minute)
	analyticsService := services.NewAnalyticsService(pool)

	u := registerTestUser(t, authService, "dash")

	stats, err := analyticsService.GetDashboard(ctx, u.ID)
	require.NoError(t, err)

	// No habits means every counter is zero, not a division error
	assert.Equal(t, 0, stats.TotalHabits)
	assert.Equal(t, 0, stats.CompletedToday)
	assert.Equal(t, 0, stats.CurrentStreak)
	assert.Equal(t, 0, stats.LongestStreak)
	assert.Equal(t, float64(0), stats.WeeklyCompletionRate)
}

func TestDashboard_CountsCompletions(t *testing.T) {
	pool := helpers.SetupTestDB(t)
	defer helpers.CleanupTestDB(t, pool)

	ctx := context.Background()

	authService := services.NewAuthService(pool, testJWTSecret, 30*time.Minute)
	notificationService := services.NewNotificationService(pool)
	achievementService := services.NewAchievementService(pool, notificationService)
	habitService := services.NewHabitService(pool, achievementService)
	analyticsService := services.NewAnalyticsService(pool)

	u := registerTestUser(t, authService, "dashcount")

	first, err := habitService.CreateHabit(ctx, u.ID, &habit.CreateHabitRequest{Title: "Read"})
	require.NoError(t, err)
	_, err = habitService.CreateHabit(ctx, u.ID, &habit.CreateHabitRequest{Title: "Stretch"})
	require.NoError(t, err)

	_, err = habitService.LogCompletion(ctx, u.ID, first.ID, nil)
	require.NoError(t, err)

	stats, err := analyticsService.GetDashboard(ctx, u.ID)
	require.NoError(t, err)

	assert.Equal(t, 2, stats.TotalHabits)
	assert.Equal(t, 1, stats.CompletedToday)
	assert.Equal(t, 1, stats.WeeklyCompletions)
	assert.Equal(t, 1, stats.CurrentStreak)
	// 1 completion over 2 habits * 7 days
	assert.Equal(t, 7.14, stats.WeeklyCompletionRate)
}

func TestHabitsPerformance(t *testing.T) {
	pool := helpers.SetupTestDB(t)
	defer helpers.CleanupTestDB(t, pool)

	ctx := context.Background()

	authService := services.NewAuthService(pool, testJWTSecret, 30*time.Minute)
	notificationService := services.NewNotificationService(pool)
	achievementService := services.NewAchievementService(pool, notificationService)
	habitService := services.NewHabitService(pool, achievementService)
	analyticsService := services.NewAnalyticsService(pool)

	u := registerTestUser(t, authService, "perf")

	created, err := habitService.CreateHabit(ctx, u.ID, &habit.CreateHabitRequest{Title: "Journal"})
	require.NoError(t, err)
	_, err = habitService.LogCompletion(ctx, u.ID, created.ID, nil)
	require.NoError(t, err)

	performance, err := analyticsService.GetHabitsPerformance(ctx, u.ID, 30)
	require.NoError(t, err)
	require.Len(t, performance, 1)

	p := performance[0]
	assert.Equal(t, created.ID, p.HabitID)
	assert.Equal(t, "Journal", p.Title)
	assert.Equal(t, 1, p.Completions)
	assert.Equal(t, 1, p.CurrentStreak)
	// 1 completion over a 30 day window
	assert.Equal(t, 3.33, p.CompletionRate)
}

func TestMoodTrends_Ascending(t *testing.T) {
	pool := helpers.SetupTestDB(t)
	defer helpers.CleanupTestDB(t, pool)

	ctx := context.Background()

	authService := services.NewAuthService(pool, testJWTSecret, 30*time.Minute)
	moodService := services.NewMoodService(pool)
	analyticsService := services.NewAnalyticsService(pool)

	u := registerTestUser(t, authService, "mood")

	// Two entries on different days, inserted newest first
	_, err := pool.Exec(ctx, `
		INSERT INTO mood_entries (id, user_id, mood_rating, recorded_at)
		VALUES (gen_random_uuid(), $1, 8, NOW())
	`, u.ID)
	require.NoError(t, err)
	_, err = pool.Exec(ctx, `
		INSERT INTO mood_entries (id, user_id, mood_rating, recorded_at)
		VALUES (gen_random_uuid(), $1, 4, NOW() - interval '2 days')
	`, u.ID)
	require.NoError(t, err)

	trends, err := analyticsService.GetMoodTrends(ctx, u.ID, 30)
	require.NoError(t, err)
	require.Len(t, trends, 2)

	// Oldest first
	assert.Equal(t, float64(4), trends[0].MoodRating)
	assert.Equal(t, float64(8), trends[1].MoodRating)
	assert.Less(t, trends[0].Date, trends[1].Date)

	// Entries outside the window are excluded
	_, err = moodService.CreateEntry(ctx, u.ID, &mood.CreateMoodEntryRequest{MoodRating: 5})
	require.NoError(t, err)

	trends, err = analyticsService.GetMoodTrends(ctx, u.ID, 1)
	require.NoError(t, err)
	assert.Len(t, trends, 2) // today's two entries, the older one drops out
}

func TestAnalyticsWindowSizes(t *testing.T) {
	pool := helpers.SetupTestDB(t)
	defer helpers.CleanupTestDB(t, pool)

	ctx := context.Background()

	authService := services.NewAuthService(pool, testJWTSecret, 30*time.Minute)
	notificationService := services.NewNotificationService(pool)
	achievementService := services.NewAchievementService(pool, notificationService)
	habitService := services.NewHabitService(pool, achievementService)
	moodService := services.NewMoodService(pool)
	analyticsService := services.NewAnalyticsService(pool)

	u := registerTestUser(t, authService, "window")

	created, err := habitService.CreateHabit(ctx, u.ID, &habit.CreateHabitRequest{Title: "Hydrate"})
	require.NoError(t, err)
	_, err = habitService.LogCompletion(ctx, u.ID, created.ID, nil)
	require.NoError(t, err)
	_, err = moodService.CreateEntry(ctx, u.ID, &mood.CreateMoodEntryRequest{MoodRating: 6})
	require.NoError(t, err)

	// The day window rides to the server as a bound parameter, not a SQL
	// literal. Every size must come back clean, with today's records inside.
	for _, days := range []int{1, 7, 30, 365} {
		performance, err := analyticsService.GetHabitsPerformance(ctx, u.ID, days)
		require.NoError(t, err, "performance window %d", days)
		require.Len(t, performance, 1)
		assert.Equal(t, 1, performance[0].Completions)

		trends, err := analyticsService.GetMoodTrends(ctx, u.ID, days)
		require.NoError(t, err, "mood window %d", days)
		assert.Len(t, trends, 1)
	}
}

func TestStreakLeaderboard(t *testing.T) {
	pool := helpers.SetupTestDB(t)
	defer helpers.CleanupTestDB(t, pool)

	ctx := context.Background()

	authService := services.NewAuthService(pool, testJWTSecret, 30*time.Minute)
	notificationService := services.NewNotificationService(pool)
	achievementService := services.NewAchievementService(pool, notificationService)
	habitService := services.NewHabitService(pool, achievementService)
	analyticsService := services.NewAnalyticsService(pool)

	u := registerTestUser(t, authService, "board")

	longer, err := habitService.CreateHabit(ctx, u.ID, &habit.CreateHabitRequest{Title: "Long streak"})
	require.NoError(t, err)
	shorter, err := habitService.CreateHabit(ctx, u.ID, &habit.CreateHabitRequest{Title: "Short streak"})
	require.NoError(t, err)
	_, err = habitService.CreateHabit(ctx, u.ID, &habit.CreateHabitRequest{Title: "Never completed"})
	require.NoError(t, err)

	// Two-day run for one habit, single completion for the other
	_, err = pool.Exec(ctx, `
		INSERT INTO habit_logs (id, user_id, habit_id, completed_at, is_completed)
		VALUES (gen_random_uuid(), $1, $2, NOW() - interval '1 day', true)
	`, u.ID, longer.ID)
	require.NoError(t, err)
	_, err = habitService.LogCompletion(ctx, u.ID, longer.ID, nil)
	require.NoError(t, err)
	_, err = habitService.LogCompletion(ctx, u.ID, shorter.ID, nil)
	require.NoError(t, err)

	leaderboard, err := analyticsService.GetStreakLeaderboard(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, leaderboard, 2)

	assert.Equal(t, 1, leaderboard[0].Rank)
	assert.Equal(t, longer.ID, leaderboard[0].HabitID)
	assert.Equal(t, 2, leaderboard[0].CurrentStreak)

	assert.Equal(t, 2, leaderboard[1].Rank)
	assert.Equal(t, shorter.ID, leaderboard[1].HabitID)
	assert.Equal(t, 1, leaderboard[1].CurrentStreak)
}
