package gamification

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d, hour int) time.Time {
	return time.Date(y, m, d, hour, 0, 0, 0, time.UTC)
}

func TestNextStreak(t *testing.T) {
	now := date(2026, time.March, 10, 14)

	tests := []struct {
		name       string
		lastActive time.Time
		isLearning bool
		current    int
		want       int
	}{
		{"first ever action", time.Time{}, true, 0, 1},
		{"same day repeat keeps streak", date(2026, time.March, 10, 1), true, 4, 4},
		{"same day with zero streak reads as one", date(2026, time.March, 10, 1), true, 0, 1},
		{"consecutive day increments", date(2026, time.March, 9, 23), true, 4, 5},
		{"late night to early morning still counts", date(2026, time.March, 9, 23), true, 1, 2},
		{"two day gap resets", date(2026, time.March, 8, 10), true, 9, 1},
		{"long gap resets", date(2026, time.February, 1, 10), true, 40, 1},
		{"non-learning action never advances", date(2026, time.March, 9, 10), false, 4, 4},
		{"non-learning action never breaks", date(2026, time.March, 1, 10), false, 4, 4},
		{"non-learning with zero streak reads as one", date(2026, time.March, 10, 10), false, 0, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NextStreak(tt.lastActive, now, tt.isLearning, tt.current)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNextStreakSameDayReplayIsIdempotent(t *testing.T) {
	last := date(2026, time.March, 9, 8)
	now := date(2026, time.March, 10, 9)

	first := NextStreak(last, now, true, 3)
	assert.Equal(t, 4, first)

	// A second call on the same calendar day must not change the value.
	second := NextStreak(now, now.Add(5*time.Hour), true, first)
	assert.Equal(t, first, second)
}

func TestDaysBetweenIgnoresTimeOfDay(t *testing.T) {
	assert.Equal(t, 0, DaysBetween(date(2026, time.March, 10, 0), date(2026, time.March, 10, 23)))
	assert.Equal(t, 1, DaysBetween(date(2026, time.March, 10, 23), date(2026, time.March, 11, 0)))
	assert.Equal(t, 3, DaysBetween(date(2026, time.March, 10, 12), date(2026, time.March, 13, 1)))
}
