package gamification

import (
	"time"

	"innovision/model"
)

// Outcome summarizes what one Apply call changed.
type Outcome struct {
	XPGained  int
	Streak    int
	Level     int
	LeveledUp bool
	NewBadges []string
}

// Apply runs the full reward pipeline for one event: streak, XP/level, badge
// evaluation, then the achievement log entry. It is deterministic given its
// inputs and does not mutate the snapshot it is handed, so the transactional
// orchestrator can safely re-run it after a write conflict.
//
// override, when positive, replaces the action's fixed XP reward.
func Apply(stats model.GamificationStats, action model.ActionType, override int, now time.Time) (model.GamificationStats, Outcome) {
	next := clone(stats)

	next.Streak = NextStreak(stats.LastActive, now, action.IsLearning(), stats.Streak)

	xp := ApplyXP(stats.XP, action, override)
	next.XP = xp.NewXP
	next.Level = xp.NewLevel

	newBadges := EvaluateBadges(next, action, now)
	next.Badges = append(next.Badges, newBadges...)

	next.Achievements = append(next.Achievements, NewAchievement(action, xp.XPGained, now))

	// Every award freshens lastActive, learning action or not; only the
	// streak calculation distinguishes the two.
	next.LastActive = now

	return next, Outcome{
		XPGained:  xp.XPGained,
		Streak:    next.Streak,
		Level:     next.Level,
		LeveledUp: xp.LeveledUp,
		NewBadges: newBadges,
	}
}

// RefreshStreak recomputes the streak for a passive stats fetch. Fetching
// counts as learning activity, so a consecutive-day visit extends the streak
// and a missed day resets it. Returns the updated stats and whether anything
// changed and needs persisting.
func RefreshStreak(stats model.GamificationStats, now time.Time) (model.GamificationStats, bool) {
	streak := NextStreak(stats.LastActive, now, true, stats.Streak)
	sameDay := !stats.LastActive.IsZero() && DaysBetween(stats.LastActive, now) == 0
	if streak == stats.Streak && sameDay {
		return stats, false
	}
	next := clone(stats)
	next.Streak = streak
	next.LastActive = now
	return next, true
}

func clone(stats model.GamificationStats) model.GamificationStats {
	next := stats
	next.Badges = append([]string{}, stats.Badges...)
	next.Achievements = append([]model.Achievement{}, stats.Achievements...)
	return next
}
