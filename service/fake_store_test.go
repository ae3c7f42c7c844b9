package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"innovision/model"
	"innovision/repository"
)

// fakeStore is an in-memory repository.Store for service tests. statsErr and
// courseErr, when set, are returned by the corresponding write paths to
// simulate storage failures.
type fakeStore struct {
	mu sync.Mutex

	stats    map[string]model.GamificationStats
	chapters map[string]model.ChapterTasks
	roadmaps map[string]model.Roadmap
	legacyXP map[string]int

	statsErr  error
	courseErr error
}

var _ repository.Store = (*fakeStore)(nil)

func newFakeStore() *fakeStore {
	return &fakeStore{
		stats:    map[string]model.GamificationStats{},
		chapters: map[string]model.ChapterTasks{},
		roadmaps: map[string]model.Roadmap{},
		legacyXP: map[string]int{},
	}
}

func chapterKey(userID, courseID string, chapterNumber int) string {
	return fmt.Sprintf("%s|%s|%d", userID, courseID, chapterNumber)
}

func roadmapKey(userID, courseID string) string {
	return userID + "|" + courseID
}

func (f *fakeStore) GetStats(_ context.Context, userID string) (model.GamificationStats, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.stats[userID]
	return s, ok, nil
}

func (f *fakeStore) SetStats(_ context.Context, stats model.GamificationStats) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stats[stats.UserID] = stats
	return nil
}

func (f *fakeStore) UpdateStatsTx(_ context.Context, userID string, apply repository.ApplyStatsFunc) (model.GamificationStats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.statsErr != nil {
		return model.GamificationStats{}, f.statsErr
	}
	current, exists := f.stats[userID]
	next, err := apply(current, exists)
	if err != nil {
		return model.GamificationStats{}, err
	}
	next.UserID = userID
	f.stats[userID] = next
	return next, nil
}

func (f *fakeStore) IncrementLegacyXP(_ context.Context, userID string, points int, _ time.Month) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.legacyXP[userID] += points
	return nil
}

func (f *fakeStore) ListUserScores(_ context.Context) ([]model.UserScore, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	scores := make([]model.UserScore, 0, len(f.stats))
	for id, s := range f.stats {
		scores = append(scores, model.UserScore{UserID: id, XP: s.XP})
	}
	sort.Slice(scores, func(i, j int) bool { return scores[i].UserID < scores[j].UserID })
	return scores, nil
}

func (f *fakeStore) TopUserScores(_ context.Context, limit int) ([]model.UserScore, error) {
	scores, _ := f.ListUserScores(context.Background())
	sort.Slice(scores, func(i, j int) bool { return scores[i].XP > scores[j].XP })
	if len(scores) > limit {
		scores = scores[:limit]
	}
	return scores, nil
}

func (f *fakeStore) GetChapterTasks(_ context.Context, userID, courseID string, chapterNumber int) (model.ChapterTasks, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ct, ok := f.chapters[chapterKey(userID, courseID, chapterNumber)]
	if !ok {
		return model.ChapterTasks{}, repository.ErrNotFound
	}
	return ct, nil
}

func (f *fakeStore) SaveChapterTasks(_ context.Context, tasks model.ChapterTasks) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.courseErr != nil {
		return f.courseErr
	}
	f.chapters[chapterKey(tasks.UserID, tasks.CourseID, tasks.ChapterNumber)] = tasks
	return nil
}

func (f *fakeStore) GetRoadmap(_ context.Context, userID, courseID string) (model.Roadmap, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rm, ok := f.roadmaps[roadmapKey(userID, courseID)]
	if !ok {
		return model.Roadmap{}, repository.ErrNotFound
	}
	return rm, nil
}

func (f *fakeStore) UpdateRoadmapChapters(_ context.Context, userID, courseID string, chapters []model.Chapter, completed bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.courseErr != nil {
		return f.courseErr
	}
	rm, ok := f.roadmaps[roadmapKey(userID, courseID)]
	if !ok {
		return repository.ErrNotFound
	}
	rm.Chapters = chapters
	rm.Completed = completed
	f.roadmaps[roadmapKey(userID, courseID)] = rm
	return nil
}
