package gamification

import (
	"testing"
	"time"

	"innovision/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyFullPipeline(t *testing.T) {
	now := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)
	stats := model.NewGamificationStats("user@example.com", now.AddDate(0, 0, -1))
	stats.Streak = 3

	next, out := Apply(stats, model.ActionCompleteChapter, 0, now)

	assert.Equal(t, 50, out.XPGained)
	assert.Equal(t, 4, out.Streak)
	assert.Equal(t, 50, next.XP)
	assert.Equal(t, 1, next.Level)
	assert.Contains(t, out.NewBadges, model.BadgeFirstCourse)
	assert.Equal(t, now, next.LastActive)

	require.Len(t, next.Achievements, 1)
	assert.Equal(t, "Chapter Complete!", next.Achievements[0].Title)
	assert.Equal(t, 50, next.Achievements[0].XP)
	assert.Equal(t, now, next.Achievements[0].Timestamp)
}

func TestApplyDoesNotMutateInput(t *testing.T) {
	now := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)
	stats := model.NewGamificationStats("user@example.com", now)
	stats.Badges = []string{model.BadgeNightOwl}

	_, _ = Apply(stats, model.ActionCompleteCourse, 0, now)

	assert.Equal(t, []string{model.BadgeNightOwl}, stats.Badges)
	assert.Empty(t, stats.Achievements)
	assert.Equal(t, 0, stats.XP)
}

func TestApplyBadgeSetNeverShrinks(t *testing.T) {
	now := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)
	stats := model.NewGamificationStats("user@example.com", now)
	stats.Badges = []string{model.BadgeFirstCourse, model.BadgePerfectScore}

	next, _ := Apply(stats, model.ActionCorrectAnswer, 0, now)
	for _, b := range stats.Badges {
		assert.True(t, next.HasBadge(b))
	}
}

// 250 correct answers at 2 XP each cross the 500 XP boundary exactly once.
func TestApplyLevelUpFiresExactlyOnce(t *testing.T) {
	now := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)
	stats := model.NewGamificationStats("user@example.com", now)

	levelUps := 0
	for i := 0; i < 250; i++ {
		var out Outcome
		stats, out = Apply(stats, model.ActionCorrectAnswer, 0, now)
		if out.LeveledUp {
			levelUps++
		}
	}

	assert.Equal(t, 500, stats.XP)
	assert.Equal(t, 2, stats.Level)
	assert.Equal(t, 1, levelUps)
	assert.Len(t, stats.Achievements, 250)
}

func TestRefreshStreak(t *testing.T) {
	today := time.Date(2026, time.March, 10, 9, 0, 0, 0, time.UTC)

	t.Run("same day is a no-op", func(t *testing.T) {
		stats := model.NewGamificationStats("u", today.Add(-2*time.Hour))
		stats.Streak = 5
		next, changed := RefreshStreak(stats, today)
		assert.False(t, changed)
		assert.Equal(t, 5, next.Streak)
	})

	t.Run("consecutive day extends", func(t *testing.T) {
		stats := model.NewGamificationStats("u", today.AddDate(0, 0, -1))
		stats.Streak = 5
		next, changed := RefreshStreak(stats, today)
		assert.True(t, changed)
		assert.Equal(t, 6, next.Streak)
		assert.Equal(t, today, next.LastActive)
	})

	t.Run("gap resets to one", func(t *testing.T) {
		stats := model.NewGamificationStats("u", today.AddDate(0, 0, -3))
		stats.Streak = 9
		next, changed := RefreshStreak(stats, today)
		assert.True(t, changed)
		assert.Equal(t, 1, next.Streak)
	})

	t.Run("same day zero streak repairs to one", func(t *testing.T) {
		stats := model.NewGamificationStats("u", today.Add(-time.Hour))
		stats.Streak = 0
		next, changed := RefreshStreak(stats, today)
		assert.True(t, changed)
		assert.Equal(t, 1, next.Streak)
	})
}
