package repository

import (
	"context"
	"errors"
	"time"

	"innovision/model"
)

var (
	// ErrNotFound is returned when a stats, roadmap or task-list document
	// does not exist.
	ErrNotFound = errors.New("document not found")
	// ErrConflict is returned when a stats transaction could not commit
	// within the bounded retry budget. Callers may retry the request.
	ErrConflict = errors.New("transaction conflict, retries exhausted")
)

// ApplyStatsFunc computes the next stats document from the current one inside
// a transaction. exists is false when the user has no document yet. The
// function must be pure: it can run several times before one run commits.
type ApplyStatsFunc func(current model.GamificationStats, exists bool) (model.GamificationStats, error)

// StatsStore is the Stats Store port: point lookups by user identity plus a
// read-then-conditionally-write transaction primitive. The Mongo adapter
// implements it for production; tests use an in-memory fake.
type StatsStore interface {
	GetStats(ctx context.Context, userID string) (model.GamificationStats, bool, error)
	SetStats(ctx context.Context, stats model.GamificationStats) error
	UpdateStatsTx(ctx context.Context, userID string, apply ApplyStatsFunc) (model.GamificationStats, error)

	// IncrementLegacyXP bumps the non-transactional xp counter and its
	// per-month bucket on the user document. Best-effort; may drift.
	IncrementLegacyXP(ctx context.Context, userID string, points int, month time.Month) error

	ListUserScores(ctx context.Context) ([]model.UserScore, error)
	TopUserScores(ctx context.Context, limit int) ([]model.UserScore, error)
}

// CourseStore is the per-user course/chapter/task document port. The engine
// reads and cascades this state; it is owned by the course feature.
type CourseStore interface {
	GetChapterTasks(ctx context.Context, userID, courseID string, chapterNumber int) (model.ChapterTasks, error)
	SaveChapterTasks(ctx context.Context, tasks model.ChapterTasks) error

	GetRoadmap(ctx context.Context, userID, courseID string) (model.Roadmap, error)
	// UpdateRoadmapChapters persists the chapter list and the course
	// completed flag in one atomic write, so completed=true is never
	// observable next to a stale chapter list.
	UpdateRoadmapChapters(ctx context.Context, userID, courseID string, chapters []model.Chapter, completed bool) error
}

// Store is the full persistence surface the service consumes.
type Store interface {
	StatsStore
	CourseStore
}
