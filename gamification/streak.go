package gamification

import "time"

// TruncateToDay drops the time-of-day component in the timestamp's location.
// Streak comparisons are calendar-day based, never elapsed-hour based.
func TruncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// DaysBetween returns the number of calendar days from a to b, after
// midnight truncation. Negative when b is before a.
func DaysBetween(a, b time.Time) int {
	from := TruncateToDay(a)
	to := TruncateToDay(b)
	return int(to.Sub(from).Hours() / 24)
}

// NextStreak computes the new daily streak.
//
// A zero lastActive means no prior activity: the streak starts at 1.
// Non-learning actions never advance or break the streak, but a user with any
// recorded activity never reads as streak 0. Same-day repeats are idempotent,
// a consecutive day increments, and a gap of more than one day resets to 1.
func NextStreak(lastActive, now time.Time, isLearning bool, current int) int {
	if lastActive.IsZero() {
		return 1
	}
	if !isLearning {
		return max(current, 1)
	}
	switch dayDiff := DaysBetween(lastActive, now); {
	case dayDiff == 0:
		return max(current, 1)
	case dayDiff == 1:
		return current + 1
	default:
		return 1
	}
}
