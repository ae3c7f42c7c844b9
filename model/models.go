package model

import (
	"time"
)

type GenericResponse struct {
	Success bool        `json:"success"`
	Status  int         `json:"status"`
	Payload interface{} `json:"payload,omitempty"`
	Error   *ErrorInfo  `json:"error,omitempty"`
}

type ErrorInfo struct {
	ErrorType string `json:"errorType"`
	Code      int    `json:"code"`
	Message   string `json:"message"`
	Details   string `json:"details,omitempty"`
}

// GamificationStats is the per-user gamification document. One doc per user,
// keyed by the verified user email. Mutated only through the transactional
// update path in the repository; XP, level, badges and achievements only grow.
type GamificationStats struct {
	UserID       string        `bson:"_id" json:"userId"`
	XP           int           `bson:"xp" json:"xp"`
	Level        int           `bson:"level" json:"level"`
	Streak       int           `bson:"streak" json:"streak"`
	Badges       []string      `bson:"badges" json:"badges"`
	Rank         int           `bson:"rank" json:"rank"`
	Achievements []Achievement `bson:"achievements" json:"achievements"`
	LastActive   time.Time     `bson:"lastActive" json:"lastActive"`
}

// NewGamificationStats seeds a fresh stats document. Streak starts at 1: the
// first fetch or award counts as today's activity.
func NewGamificationStats(userID string, now time.Time) GamificationStats {
	return GamificationStats{
		UserID:       userID,
		XP:           0,
		Level:        1,
		Streak:       1,
		Badges:       []string{},
		Rank:         0,
		Achievements: []Achievement{},
		LastActive:   now,
	}
}

// Achievement is one rewarded event. Append-only, never reordered or trimmed.
type Achievement struct {
	Title       string    `bson:"title" json:"title"`
	Description string    `bson:"description" json:"description"`
	XP          int       `bson:"xp" json:"xp"`
	Timestamp   time.Time `bson:"timestamp" json:"timestamp"`
}

// AchievementCount returns how many achievements carry one of the given titles.
func (s GamificationStats) AchievementCount(titles ...string) int {
	count := 0
	for _, a := range s.Achievements {
		for _, t := range titles {
			if a.Title == t {
				count++
				break
			}
		}
	}
	return count
}

// HasBadge reports whether the badge id is already unlocked.
func (s GamificationStats) HasBadge(badge string) bool {
	for _, b := range s.Badges {
		if b == badge {
			return true
		}
	}
	return false
}

// AwardResult is returned to the caller after a stats update commits.
type AwardResult struct {
	XPGained      int      `json:"xpGained"`
	CurrentStreak int      `json:"currentStreak"`
	NewLevel      bool     `json:"newLevel"`
	NewBadges     []string `json:"newBadges"`
}

type AwardActionRequest struct {
	Action string `json:"action"`
	Value  *int   `json:"value,omitempty"`
}

type SubmitTaskResult struct {
	Message         string `json:"message"`
	CourseCompleted bool   `json:"courseCompleted"`
	CourseID        string `json:"courseId"`
}

// UserScore is one row of the XP leaderboard aggregation.
type UserScore struct {
	UserID string `bson:"_id" json:"userId"`
	XP     int    `bson:"xp" json:"xp"`
}

type LeaderboardEntry struct {
	UserID string `json:"userId"`
	XP     int    `json:"xp"`
	Rank   int    `json:"rank"`
}

type GetUserRankResponse struct {
	UserID     string `json:"userId"`
	XP         int    `json:"xp"`
	GlobalRank int64  `json:"globalRank"`
}
