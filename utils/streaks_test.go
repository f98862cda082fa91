package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"kultivateAPI/internal/habit"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 12, 0, 0, 0, time.UTC)
}

func TestComputeStreak_DailyConsecutive(t *testing.T) {
	logs := []time.Time{
		day(2026, time.March, 1),
		day(2026, time.March, 2),
		day(2026, time.March, 3),
	}

	got := ComputeStreak(logs, habit.FrequencyDaily, day(2026, time.March, 3))
	assert.Equal(t, 3, got)
}

func TestComputeStreak_DailyLapsedShowsZero(t *testing.T) {
	// Logs on days 1-3, fetched on day 4: the current unit is uncovered.
	logs := []time.Time{
		day(2026, time.March, 1),
		day(2026, time.March, 2),
		day(2026, time.March, 3),
	}

	got := ComputeStreak(logs, habit.FrequencyDaily, day(2026, time.March, 4))
	assert.Equal(t, 0, got)
}

func TestComputeStreak_DailyGapTerminatesCount(t *testing.T) {
	logs := []time.Time{
		day(2026, time.March, 1),
		// no log on March 2
		day(2026, time.March, 3),
		day(2026, time.March, 4),
	}

	got := ComputeStreak(logs, habit.FrequencyDaily, day(2026, time.March, 4))
	assert.Equal(t, 2, got)
}

func TestComputeStreak_MultipleLogsSameDayCountOnce(t *testing.T) {
	logs := []time.Time{
		day(2026, time.March, 2),
		time.Date(2026, time.March, 2, 22, 30, 0, 0, time.UTC),
		day(2026, time.March, 3),
	}

	got := ComputeStreak(logs, habit.FrequencyDaily, day(2026, time.March, 3))
	assert.Equal(t, 2, got)
}

func TestComputeStreak_CustomBehavesAsDaily(t *testing.T) {
	logs := []time.Time{
		day(2026, time.March, 2),
		day(2026, time.March, 3),
	}

	got := ComputeStreak(logs, habit.FrequencyCustom, day(2026, time.March, 3))
	assert.Equal(t, 2, got)
}

func TestComputeStreak_WeeklyAcrossYearBoundary(t *testing.T) {
	// ISO weeks: Mon Dec 22 2025, Mon Dec 29 2025 (contains Jan 1 2026),
	// Mon Jan 5 2026.
	logs := []time.Time{
		day(2025, time.December, 24),
		day(2026, time.January, 1),
		day(2026, time.January, 7),
	}

	got := ComputeStreak(logs, habit.FrequencyWeekly, day(2026, time.January, 7))
	assert.Equal(t, 3, got)
}

func TestComputeStreak_MonthlyAcrossMonthEnd(t *testing.T) {
	logs := []time.Time{
		day(2026, time.January, 31),
		day(2026, time.February, 1),
	}

	got := ComputeStreak(logs, habit.FrequencyMonthly, day(2026, time.February, 10))
	assert.Equal(t, 2, got)
}

func TestComputeStreak_NoLogs(t *testing.T) {
	got := ComputeStreak(nil, habit.FrequencyDaily, day(2026, time.March, 3))
	assert.Equal(t, 0, got)
}

func TestStartOfUnit_WeeklyIsMonday(t *testing.T) {
	// Jan 1 2026 is a Thursday; its ISO week starts Mon Dec 29 2025.
	start := StartOfUnit(day(2026, time.January, 1), habit.FrequencyWeekly)
	assert.Equal(t, time.Date(2025, time.December, 29, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Monday, start.Weekday())
}

func TestStartOfUnit_Monthly(t *testing.T) {
	start := StartOfUnit(day(2026, time.February, 28), habit.FrequencyMonthly)
	assert.Equal(t, time.Date(2026, time.February, 1, 0, 0, 0, 0, time.UTC), start)
}

func TestStreakStart(t *testing.T) {
	now := day(2026, time.March, 5)

	got := StreakStart(now, habit.FrequencyDaily, 3)
	assert.Equal(t, time.Date(2026, time.March, 3, 0, 0, 0, 0, time.UTC), got)

	got = StreakStart(now, habit.FrequencyDaily, 1)
	assert.Equal(t, time.Date(2026, time.March, 5, 0, 0, 0, 0, time.UTC), got)
}

func TestEffectiveStreak(t *testing.T) {
	now := day(2026, time.March, 4)

	sameDay := day(2026, time.March, 4)
	assert.Equal(t, 5, EffectiveStreak(5, &sameDay, habit.FrequencyDaily, now))

	yesterday := day(2026, time.March, 3)
	assert.Equal(t, 0, EffectiveStreak(5, &yesterday, habit.FrequencyDaily, now))

	assert.Equal(t, 0, EffectiveStreak(5, nil, habit.FrequencyDaily, now))
	assert.Equal(t, 0, EffectiveStreak(0, &sameDay, habit.FrequencyDaily, now))

	// Weekly: a completion last Tuesday still covers this week's unit only
	// when now falls in the same ISO week.
	lastTue := day(2026, time.March, 3) // Tuesday
	sameWeek := day(2026, time.March, 6)
	nextWeek := day(2026, time.March, 9) // following Monday
	assert.Equal(t, 2, EffectiveStreak(2, &lastTue, habit.FrequencyWeekly, sameWeek))
	assert.Equal(t, 0, EffectiveStreak(2, &lastTue, habit.FrequencyWeekly, nextWeek))
}
