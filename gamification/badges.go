package gamification

import (
	"time"

	"innovision/model"
)

// EvaluateBadges returns the badges newly unlocked by this event. The stats
// snapshot must already carry the event's streak and XP updates but not yet
// its achievement entry. A badge already present is never returned again, so
// the stored set only ever grows.
func EvaluateBadges(stats model.GamificationStats, action model.ActionType, now time.Time) []string {
	newBadges := []string{}
	unlock := func(badge string, condition bool) {
		if condition && !stats.HasBadge(badge) {
			newBadges = append(newBadges, badge)
		}
	}

	// first_course fires on completing a course or the first chapter-cascade
	// award, whichever comes first.
	unlock(model.BadgeFirstCourse, action == model.ActionCompleteCourse || action == model.ActionCompleteChapter)
	unlock(model.BadgePerfectScore, action == model.ActionPerfectQuiz)

	unlock(model.BadgeWeekStreak, stats.Streak >= 7)
	unlock(model.BadgeMonthStreak, stats.Streak >= 30)

	unlock(model.BadgeMaster, stats.Level >= 10)
	unlock(model.BadgeLegend, stats.Level >= 50)

	hour := now.Hour()
	unlock(model.BadgeNightOwl, hour >= 0 && hour < 4)
	unlock(model.BadgeEarlyBird, hour >= 4 && hour < 6)

	unlock(model.BadgeScholar, stats.AchievementCount("Course Mastered!") >= 10)
	unlock(model.BadgeBookworm, stats.AchievementCount("Lesson Complete!", "Chapter Complete!") >= 100)

	return newBadges
}
