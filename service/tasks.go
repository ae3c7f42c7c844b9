package service

import (
	"context"
	"errors"
	"strings"

	"innovision/model"
	"innovision/natsclient"
	"innovision/repository"
	"innovision/utils"

	"github.com/google/uuid"
	"go.uber.org/zap/zapcore"
)

// SubmitTaskAnswer records one answered task and drives everything that
// follows from it: XP for a correct answer, and the chapter/course completion
// cascade once the last task of a chapter is answered.
//
// Marking the task answered is the primary write. The XP award is secondary:
// if it fails the answer is still saved and the submission still succeeds.
// The completion cascade is primary again, since it gates the learner's
// progress through the course.
func (s *GamificationService) SubmitTaskAnswer(ctx context.Context, userID string, req model.SubmitTaskRequest) (model.SubmitTaskResult, error) {
	traceID := uuid.New().String()
	userID = utils.NormalizeUserID(userID)
	if userID == "" {
		return model.SubmitTaskResult{}, newError(ErrorTypeUnauthorized, "Unauthorized", nil)
	}

	if err := validateSubmitTaskRequest(req); err != nil {
		s.logger.Log(zapcore.ErrorLevel, traceID, "Invalid task submission", map[string]any{
			"method":    "SubmitTaskAnswer",
			"userId":    userID,
			"errorType": "VALIDATION_ERROR",
		}, "SERVICE", err)
		return model.SubmitTaskResult{}, err
	}

	courseID := req.Roadmap
	chapterNumber := *req.Chapter

	s.logger.Log(zapcore.InfoLevel, traceID, "Starting SubmitTaskAnswer", map[string]any{
		"method":   "SubmitTaskAnswer",
		"userId":   userID,
		"courseId": courseID,
		"chapter":  chapterNumber,
	}, "SERVICE", nil)

	chapterTasks, err := s.store.GetChapterTasks(ctx, userID, courseID, chapterNumber)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		s.logger.Log(zapcore.ErrorLevel, traceID, "Failed to load chapter tasks", map[string]any{
			"method":    "SubmitTaskAnswer",
			"userId":    userID,
			"courseId":  courseID,
			"chapter":   chapterNumber,
			"errorType": "DB_ERROR",
		}, "SERVICE", err)
		return model.SubmitTaskResult{}, newError(ErrorTypeInternal, "Internal server error. Please try again.", err)
	}
	if errors.Is(err, repository.ErrNotFound) || len(chapterTasks.Tasks) == 0 {
		return model.SubmitTaskResult{}, newError(ErrorTypeNotFound,
			"No tasks found for this chapter. Please refresh and try again.", nil)
	}

	idx := locateTask(chapterTasks.Tasks, *req.Task)
	if idx == -1 {
		return model.SubmitTaskResult{}, newError(ErrorTypeNotFound,
			"Task not found. Please refresh the page and try again.", nil)
	}

	// Idempotency gate: an answered task is immutable. A retried request
	// returns success with no further side effects, so XP and achievements
	// are never duplicated.
	if chapterTasks.Tasks[idx].IsAnswered {
		s.logger.Log(zapcore.InfoLevel, traceID, "Task already answered, skipping", map[string]any{
			"method":   "SubmitTaskAnswer",
			"userId":   userID,
			"courseId": courseID,
		}, "SERVICE", nil)
		return model.SubmitTaskResult{
			Message:         "Task already answered",
			CourseCompleted: false,
			CourseID:        courseID,
		}, nil
	}

	answered := *req.Task
	answered.IsAnswered = true
	answered.IsCorrect = *req.IsCorrect
	answered.UserAnswer = req.UserAnswer
	chapterTasks.Tasks[idx] = answered

	if err := s.store.SaveChapterTasks(ctx, chapterTasks); err != nil {
		s.logger.Log(zapcore.ErrorLevel, traceID, "Failed to persist task list", map[string]any{
			"method":    "SubmitTaskAnswer",
			"userId":    userID,
			"courseId":  courseID,
			"chapter":   chapterNumber,
			"errorType": "DB_ERROR",
		}, "SERVICE", err)
		return model.SubmitTaskResult{}, newError(ErrorTypeInternal, "Internal server error. Please try again.", err)
	}

	if req.IsCorrect.Correct() {
		points := 2
		if answered.Type == model.TaskTypeMatch && req.IsCorrect.IsArray {
			points = 2 * req.IsCorrect.CorrectCount()
		}

		now := s.now()
		if err := s.store.IncrementLegacyXP(ctx, userID, points, now.Month()); err != nil {
			s.logger.Log(zapcore.ErrorLevel, traceID, "Failed to update legacy user XP", map[string]any{
				"method":    "SubmitTaskAnswer",
				"userId":    userID,
				"errorType": "DB_ERROR",
			}, "SERVICE", err)
		}

		// Secondary: the answer is already saved, a failed award is only a
		// missed reward.
		if _, _, err := s.award(ctx, traceID, userID, model.ActionCorrectAnswer, points); err != nil {
			s.logger.Log(zapcore.ErrorLevel, traceID, "Failed to award task XP", map[string]any{
				"method":    "SubmitTaskAnswer",
				"userId":    userID,
				"courseId":  courseID,
				"errorType": "XP_AWARD_FAILED",
			}, "SERVICE", err)
		}
	}

	courseCompleted := false
	if allAnswered(chapterTasks.Tasks) {
		courseCompleted, err = s.CompleteChapter(ctx, userID, courseID, chapterNumber)
		if err != nil {
			s.logger.Log(zapcore.ErrorLevel, traceID, "Chapter completion cascade failed", map[string]any{
				"method":    "SubmitTaskAnswer",
				"userId":    userID,
				"courseId":  courseID,
				"chapter":   chapterNumber,
				"errorType": "CASCADE_ERROR",
			}, "SERVICE", err)
			return model.SubmitTaskResult{}, err
		}
	}

	s.logger.Log(zapcore.InfoLevel, traceID, "Task updated successfully", map[string]any{
		"method":          "SubmitTaskAnswer",
		"userId":          userID,
		"courseId":        courseID,
		"courseCompleted": courseCompleted,
	}, "SERVICE", nil)

	return model.SubmitTaskResult{
		Message:         "Task updated successfully",
		CourseCompleted: courseCompleted,
		CourseID:        courseID,
	}, nil
}

// CompleteChapter marks the chapter done in its roadmap, awards the fixed
// chapter-completion bonus and reports whether the whole course is now
// complete. The chapter list and the course completed flag are persisted in
// one write.
func (s *GamificationService) CompleteChapter(ctx context.Context, userID, courseID string, chapterNumber int) (bool, error) {
	traceID := uuid.New().String()

	roadmap, err := s.store.GetRoadmap(ctx, userID, courseID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return false, newError(ErrorTypeNotFound, "Course not found. Please refresh the page and try again.", err)
		}
		return false, newError(ErrorTypeInternal, "Internal server error. Please try again.", err)
	}

	chapters := make([]model.Chapter, len(roadmap.Chapters))
	copy(chapters, roadmap.Chapters)
	for i := range chapters {
		if chapters[i].ChapterNumber == chapterNumber {
			chapters[i].Completed = true
		}
	}

	// Secondary award, same policy as the per-task XP.
	if _, _, err := s.award(ctx, traceID, userID, model.ActionCompleteChapter, 0); err != nil {
		s.logger.Log(zapcore.ErrorLevel, traceID, "Failed to award chapter completion XP", map[string]any{
			"method":    "CompleteChapter",
			"userId":    userID,
			"courseId":  courseID,
			"errorType": "XP_AWARD_FAILED",
		}, "SERVICE", err)
	}

	allDone := true
	for _, ch := range chapters {
		if !ch.Completed {
			allDone = false
			break
		}
	}

	completed := roadmap.Completed || allDone
	if err := s.store.UpdateRoadmapChapters(ctx, userID, courseID, chapters, completed); err != nil {
		return false, s.mapStoreError(err, "Failed to update course progress")
	}

	if allDone {
		s.logger.Log(zapcore.InfoLevel, traceID, "Course completed", map[string]any{
			"method":   "CompleteChapter",
			"userId":   userID,
			"courseId": courseID,
		}, "SERVICE", nil)
		if s.natsClient != nil {
			err := s.natsClient.PublishJSON(natsclient.SubjectCourseCompleted, courseCompletedEvent{
				UserID:    userID,
				CourseID:  courseID,
				Timestamp: s.now(),
			})
			if err != nil {
				s.logger.Log(zapcore.WarnLevel, traceID, "Failed to publish course.completed event", map[string]any{
					"method":   "CompleteChapter",
					"userId":   userID,
					"courseId": courseID,
				}, "SERVICE", err)
			}
		}
	}

	return allDone, nil
}

func validateSubmitTaskRequest(req model.SubmitTaskRequest) error {
	// Presence checks, not truthiness checks: chapter 0 and isCorrect=false
	// are valid submissions.
	missing := []string{}
	if req.Task == nil {
		missing = append(missing, "task")
	}
	if req.Roadmap == "" {
		missing = append(missing, "roadmap")
	}
	if req.Chapter == nil {
		missing = append(missing, "chapter")
	}
	if req.IsCorrect == nil {
		missing = append(missing, "isCorrect")
	}
	if req.UserAnswer == nil {
		missing = append(missing, "userAnswer")
	}
	if len(missing) > 0 {
		return newError(ErrorTypeValidation, "Missing required fields: "+strings.Join(missing, ", "), nil)
	}
	return nil
}

// locateTask finds the submitted task in the stored list: by stable id
// first, then by normalized question text.
func locateTask(tasks []model.Task, target model.Task) int {
	if target.ID != "" {
		for i, t := range tasks {
			if t.ID == target.ID {
				return i
			}
		}
	}
	want := utils.NormalizeQuestion(target.Question)
	if want == "" {
		return -1
	}
	for i, t := range tasks {
		if utils.NormalizeQuestion(t.Question) == want {
			return i
		}
	}
	return -1
}

func allAnswered(tasks []model.Task) bool {
	for _, t := range tasks {
		if !t.IsAnswered {
			return false
		}
	}
	return true
}
