package utils

import (
	"time"

	"kultivateAPI/internal/habit"
)

// StartOfUnit returns the start of the covering unit for t: midnight of the
// day for daily/custom habits, Monday of the ISO week for weekly habits, the
// first of the month for monthly habits.
func StartOfUnit(t time.Time, freq habit.Frequency) time.Time {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	switch freq {
	case habit.FrequencyWeekly:
		offset := (int(day.Weekday()) + 6) % 7 // Monday = 0
		return day.AddDate(0, 0, -offset)
	case habit.FrequencyMonthly:
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	default:
		return day
	}
}

// PrevUnit returns the start of the unit immediately before the given unit start.
func PrevUnit(start time.Time, freq habit.Frequency) time.Time {
	switch freq {
	case habit.FrequencyWeekly:
		return start.AddDate(0, 0, -7)
	case habit.FrequencyMonthly:
		return start.AddDate(0, -1, 0)
	default:
		return start.AddDate(0, 0, -1)
	}
}

// ComputeStreak counts consecutive covered units walking backwards from the
// unit containing now. A unit is covered when at least one completion falls
// inside it. If the current unit is uncovered the streak is 0.
func ComputeStreak(completions []time.Time, freq habit.Frequency, now time.Time) int {
	if len(completions) == 0 {
		return 0
	}

	covered := make(map[time.Time]bool, len(completions))
	for _, c := range completions {
		covered[StartOfUnit(c.In(now.Location()), freq)] = true
	}

	unit := StartOfUnit(now, freq)
	if !covered[unit] {
		return 0
	}

	count := 0
	for covered[unit] {
		count++
		unit = PrevUnit(unit, freq)
	}
	return count
}

// StreakStart returns the start of the run: the unit containing now stepped
// back length-1 units. Callers must pass length >= 1.
func StreakStart(now time.Time, freq habit.Frequency, length int) time.Time {
	unit := StartOfUnit(now, freq)
	for i := 1; i < length; i++ {
		unit = PrevUnit(unit, freq)
	}
	return unit
}

// EffectiveStreak gates a stored current streak to 0 once the unit containing
// now has no completion, so reads never report a run that has already lapsed.
func EffectiveStreak(current int, lastCompletion *time.Time, freq habit.Frequency, now time.Time) int {
	if current <= 0 || lastCompletion == nil {
		return 0
	}
	if StartOfUnit(lastCompletion.In(now.Location()), freq).Equal(StartOfUnit(now, freq)) {
		return current
	}
	return 0
}
