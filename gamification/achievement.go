package gamification

import (
	"time"

	"innovision/model"
)

// NewAchievement builds the achievement log entry for one rewarded event.
// Unknown actions get the generic copy.
func NewAchievement(action model.ActionType, xpGained int, now time.Time) model.Achievement {
	return model.Achievement{
		Title:       action.AchievementTitle(),
		Description: action.AchievementDescription(),
		XP:          xpGained,
		Timestamp:   now,
	}
}
