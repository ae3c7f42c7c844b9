package gamification

import (
	"testing"

	"innovision/model"

	"github.com/stretchr/testify/assert"
)

func TestLevelForXP(t *testing.T) {
	tests := []struct {
		xp   int
		want int
	}{
		{0, 1},
		{499, 1},
		{500, 2},
		{999, 2},
		{1000, 3},
		{4999, 10},
		{24500, 50},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, LevelForXP(tt.xp), "xp=%d", tt.xp)
	}
}

func TestApplyXPRewardTable(t *testing.T) {
	tests := []struct {
		action model.ActionType
		want   int
	}{
		{model.ActionCompleteChapter, 50},
		{model.ActionCompleteCourse, 50},
		{model.ActionPerfectQuiz, 2},
		{model.ActionHelpStudent, 15},
		{model.ActionViewCourse, 10},
		{model.ActionCompleteLesson, 5},
		{model.ActionCorrectAnswer, 2},
		{model.ActionGenerateCourse, 10},
	}
	for _, tt := range tests {
		res := ApplyXP(0, tt.action, 0)
		assert.Equal(t, tt.want, res.XPGained, "action=%s", tt.action)
	}
}

func TestApplyXPUnknownActionFallsBackToOverride(t *testing.T) {
	res := ApplyXP(10, model.ActionType("community_event"), 25)
	assert.Equal(t, 25, res.XPGained)
	assert.Equal(t, 35, res.NewXP)

	res = ApplyXP(10, model.ActionType("community_event"), 0)
	assert.Equal(t, 0, res.XPGained)
	assert.Equal(t, 10, res.NewXP)
}

func TestApplyXPOverrideWinsForMultiPartScoring(t *testing.T) {
	// match-the-following with two of three correct: 2 points each.
	res := ApplyXP(0, model.ActionCorrectAnswer, 4)
	assert.Equal(t, 4, res.XPGained)
}

func TestApplyXPLevelUpFlag(t *testing.T) {
	res := ApplyXP(498, model.ActionCorrectAnswer, 0)
	assert.Equal(t, 500, res.NewXP)
	assert.Equal(t, 2, res.NewLevel)
	assert.True(t, res.LeveledUp)

	res = ApplyXP(500, model.ActionCorrectAnswer, 0)
	assert.Equal(t, 2, res.NewLevel)
	assert.False(t, res.LeveledUp)
}
