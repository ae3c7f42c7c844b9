package gamification

import (
	"testing"
	"time"

	"innovision/model"

	"github.com/stretchr/testify/assert"
)

// noon avoids the night_owl/early_bird windows.
var noon = time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)

func statsWith(mutate func(*model.GamificationStats)) model.GamificationStats {
	s := model.NewGamificationStats("user@example.com", noon)
	if mutate != nil {
		mutate(&s)
	}
	return s
}

func TestEvaluateBadgesActionDriven(t *testing.T) {
	s := statsWith(nil)

	assert.Contains(t, EvaluateBadges(s, model.ActionCompleteCourse, noon), model.BadgeFirstCourse)
	assert.Contains(t, EvaluateBadges(s, model.ActionCompleteChapter, noon), model.BadgeFirstCourse)
	assert.Contains(t, EvaluateBadges(s, model.ActionPerfectQuiz, noon), model.BadgePerfectScore)

	// Plain correct answers unlock neither.
	got := EvaluateBadges(s, model.ActionCorrectAnswer, noon)
	assert.NotContains(t, got, model.BadgeFirstCourse)
	assert.NotContains(t, got, model.BadgePerfectScore)
}

func TestEvaluateBadgesStreakThresholds(t *testing.T) {
	s := statsWith(func(s *model.GamificationStats) { s.Streak = 7 })
	assert.Contains(t, EvaluateBadges(s, model.ActionCorrectAnswer, noon), model.BadgeWeekStreak)

	s.Streak = 30
	got := EvaluateBadges(s, model.ActionCorrectAnswer, noon)
	assert.Contains(t, got, model.BadgeWeekStreak)
	assert.Contains(t, got, model.BadgeMonthStreak)

	s.Streak = 6
	assert.NotContains(t, EvaluateBadges(s, model.ActionCorrectAnswer, noon), model.BadgeWeekStreak)
}

func TestEvaluateBadgesLevelThresholds(t *testing.T) {
	s := statsWith(func(s *model.GamificationStats) { s.Level = 10 })
	assert.Contains(t, EvaluateBadges(s, model.ActionCorrectAnswer, noon), model.BadgeMaster)

	s.Level = 50
	assert.Contains(t, EvaluateBadges(s, model.ActionCorrectAnswer, noon), model.BadgeLegend)
}

func TestEvaluateBadgesClockWindows(t *testing.T) {
	s := statsWith(nil)

	at := func(hour int) time.Time {
		return time.Date(2026, time.March, 10, hour, 30, 0, 0, time.UTC)
	}

	assert.Contains(t, EvaluateBadges(s, model.ActionCorrectAnswer, at(2)), model.BadgeNightOwl)
	assert.Contains(t, EvaluateBadges(s, model.ActionCorrectAnswer, at(0)), model.BadgeNightOwl)
	assert.Contains(t, EvaluateBadges(s, model.ActionCorrectAnswer, at(4)), model.BadgeEarlyBird)
	assert.Contains(t, EvaluateBadges(s, model.ActionCorrectAnswer, at(5)), model.BadgeEarlyBird)

	atSix := EvaluateBadges(s, model.ActionCorrectAnswer, at(6))
	assert.NotContains(t, atSix, model.BadgeNightOwl)
	assert.NotContains(t, atSix, model.BadgeEarlyBird)
}

func TestEvaluateBadgesAchievementCounts(t *testing.T) {
	s := statsWith(func(s *model.GamificationStats) {
		for i := 0; i < 10; i++ {
			s.Achievements = append(s.Achievements, model.Achievement{Title: "Course Mastered!"})
		}
		for i := 0; i < 60; i++ {
			s.Achievements = append(s.Achievements, model.Achievement{Title: "Lesson Complete!"})
		}
		for i := 0; i < 40; i++ {
			s.Achievements = append(s.Achievements, model.Achievement{Title: "Chapter Complete!"})
		}
	})

	got := EvaluateBadges(s, model.ActionCorrectAnswer, noon)
	assert.Contains(t, got, model.BadgeScholar)
	assert.Contains(t, got, model.BadgeBookworm)
}

func TestEvaluateBadgesNeverRepeats(t *testing.T) {
	s := statsWith(func(s *model.GamificationStats) {
		s.Streak = 30
		s.Level = 50
		s.Badges = []string{
			model.BadgeFirstCourse, model.BadgePerfectScore,
			model.BadgeWeekStreak, model.BadgeMonthStreak,
			model.BadgeMaster, model.BadgeLegend,
		}
	})

	got := EvaluateBadges(s, model.ActionCompleteCourse, noon)
	assert.Empty(t, got)
}
