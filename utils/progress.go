package utils

import "math"

// Round2 rounds to 2 decimal places, the precision every analytics endpoint reports.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// WeeklyCompletionRate is weekly completions over the ideal count of
// totalHabits*7, as a percentage. Zero habits means a 0 rate, never a
// division by zero.
func WeeklyCompletionRate(weeklyCompletions, totalHabits int) float64 {
	if totalHabits == 0 {
		return 0
	}
	return Round2(float64(weeklyCompletions) / float64(totalHabits*7) * 100)
}

// CompletionRate is completions over a window of days, as a percentage.
func CompletionRate(completions, days int) float64 {
	if days <= 0 {
		return 0
	}
	return Round2(float64(completions) / float64(days) * 100)
}

// GoalProgress derives progress_percentage from current/target, capped at 100.
func GoalProgress(current, target float64) float64 {
	if target <= 0 {
		return 0
	}
	p := current / target * 100
	if p > 100 {
		p = 100
	}
	return Round2(p)
}
