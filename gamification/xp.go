package gamification

import "innovision/model"

// XPPerLevel is the flat XP cost of each level.
const XPPerLevel = 500

// XPResult describes one XP award.
type XPResult struct {
	XPGained  int
	NewXP     int
	NewLevel  int
	LeveledUp bool
}

// LevelForXP derives the level from total XP: floor(xp/500)+1. Level is never
// stored independently of XP; every write recomputes it.
func LevelForXP(xp int) int {
	if xp < 0 {
		xp = 0
	}
	return xp/XPPerLevel + 1
}

// ApplyXP computes the XP delta for an action and the resulting XP and level.
// An override greater than zero wins over the fixed reward table (the task
// submission path passes 2 points per correct sub-answer); otherwise known
// actions use their table value and unknown actions award nothing.
func ApplyXP(currentXP int, action model.ActionType, override int) XPResult {
	gained := 0
	if override > 0 {
		gained = override
	} else if reward, ok := model.RewardFor(action); ok {
		gained = reward.XP
	}

	newXP := currentXP + gained
	newLevel := LevelForXP(newXP)
	return XPResult{
		XPGained:  gained,
		NewXP:     newXP,
		NewLevel:  newLevel,
		LeveledUp: newLevel > LevelForXP(currentXP),
	}
}
