package model

// ActionType identifies a learner action that can be rewarded.
type ActionType string

const (
	ActionCompleteChapter ActionType = "complete_chapter"
	ActionCompleteCourse  ActionType = "complete_course"
	ActionPerfectQuiz     ActionType = "perfect_quiz"
	ActionHelpStudent     ActionType = "help_student"
	ActionViewCourse      ActionType = "view_course"
	ActionCompleteLesson  ActionType = "complete_lesson"
	ActionCorrectAnswer   ActionType = "correct_answer"
	ActionGenerateCourse  ActionType = "generate_course"
)

// ActionReward holds the fixed reward and achievement copy for one action.
type ActionReward struct {
	XP          int
	Title       string
	Description string
	Learning    bool
}

// actionRewards is the single source of truth for per-action rewards.
// Learning marks actions that count toward the daily streak; only
// help_student is excluded.
var actionRewards = map[ActionType]ActionReward{
	ActionCompleteChapter: {XP: 50, Title: "Chapter Complete!", Description: "You completed a chapter", Learning: true},
	ActionCompleteCourse:  {XP: 50, Title: "Course Mastered!", Description: "You completed an entire course", Learning: true},
	ActionPerfectQuiz:     {XP: 2, Title: "Perfect Score!", Description: "You scored 100% on a quiz", Learning: true},
	ActionHelpStudent:     {XP: 15, Title: "Helpful Hand", Description: "You helped another student", Learning: false},
	ActionViewCourse:      {XP: 10, Title: "Course Viewed!", Description: "You viewed a course", Learning: true},
	ActionCompleteLesson:  {XP: 5, Title: "Lesson Complete!", Description: "You completed a lesson", Learning: true},
	ActionCorrectAnswer:   {XP: 2, Title: "Correct Answer!", Description: "You answered correctly", Learning: true},
	ActionGenerateCourse:  {XP: 10, Title: "New Course Generated!", Description: "You generated a new AI course", Learning: true},
}

// RewardFor looks up the reward record for an action. The second return is
// false for unknown actions, which fall back to the caller-supplied value and
// the generic achievement copy.
func RewardFor(action ActionType) (ActionReward, bool) {
	r, ok := actionRewards[action]
	return r, ok
}

// IsLearning reports whether the action counts toward the daily streak.
// Unknown actions do not.
func (a ActionType) IsLearning() bool {
	r, ok := actionRewards[a]
	return ok && r.Learning
}

// AchievementTitle returns the achievement title for the action.
func (a ActionType) AchievementTitle() string {
	if r, ok := actionRewards[a]; ok {
		return r.Title
	}
	return "Achievement Unlocked!"
}

// AchievementDescription returns the achievement description for the action.
func (a ActionType) AchievementDescription() string {
	if r, ok := actionRewards[a]; ok {
		return r.Description
	}
	return "You earned an achievement"
}

// Badge identifiers. Badges are one-time and permanent; the evaluator only
// ever adds to the set.
const (
	BadgeFirstCourse  = "first_course"
	BadgePerfectScore = "perfect_score"
	BadgeWeekStreak   = "week_streak"
	BadgeMonthStreak  = "month_streak"
	BadgeMaster       = "master"
	BadgeLegend       = "legend"
	BadgeNightOwl     = "night_owl"
	BadgeEarlyBird    = "early_bird"
	BadgeScholar      = "scholar"
	BadgeBookworm     = "bookworm"
)
