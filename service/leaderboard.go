package service

import (
	"context"

	"innovision/model"
	"innovision/utils"

	"github.com/google/uuid"
	"go.uber.org/zap/zapcore"
)

const (
	defaultLeaderboardLimit = 10
	maxLeaderboardLimit     = 100
)

// GetLeaderboard returns the top users by XP. Redis serves the read; when it
// is unavailable the board is assembled straight from Mongo.
func (s *GamificationService) GetLeaderboard(ctx context.Context, limit int) ([]model.LeaderboardEntry, error) {
	traceID := uuid.New().String()
	if limit <= 0 {
		limit = defaultLeaderboardLimit
	}
	if limit > maxLeaderboardLimit {
		limit = maxLeaderboardLimit
	}

	if s.leaderboard != nil {
		entries, err := s.leaderboard.Top(ctx, limit)
		if err == nil && len(entries) > 0 {
			return entries, nil
		}
		if err != nil {
			s.logger.Log(zapcore.WarnLevel, traceID, "Redis leaderboard read failed, falling back to DB", map[string]any{
				"method": "GetLeaderboard",
				"limit":  limit,
			}, "SERVICE", err)
		}
	}

	scores, err := s.store.TopUserScores(ctx, limit)
	if err != nil {
		s.logger.Log(zapcore.ErrorLevel, traceID, "Failed to read leaderboard from DB", map[string]any{
			"method":    "GetLeaderboard",
			"limit":     limit,
			"errorType": "DB_ERROR",
		}, "SERVICE", err)
		return nil, newError(ErrorTypeInternal, "Failed to load leaderboard", err)
	}

	entries := make([]model.LeaderboardEntry, len(scores))
	for i, sc := range scores {
		entries[i] = model.LeaderboardEntry{UserID: sc.UserID, XP: sc.XP, Rank: i + 1}
	}
	return entries, nil
}

// GetUserRank returns a user's total XP and 1-indexed global rank. Absent
// from the board means rank -1, not an error.
func (s *GamificationService) GetUserRank(ctx context.Context, userID string) (model.GetUserRankResponse, error) {
	traceID := uuid.New().String()
	userID = utils.NormalizeUserID(userID)
	if userID == "" {
		return model.GetUserRankResponse{}, newError(ErrorTypeValidation, "User ID is required", nil)
	}

	stats, exists, err := s.store.GetStats(ctx, userID)
	if err != nil {
		return model.GetUserRankResponse{}, s.mapStoreError(err, "User stats not found")
	}
	if !exists {
		return model.GetUserRankResponse{}, newError(ErrorTypeNotFound, "User stats not found", nil)
	}

	if s.leaderboard != nil {
		rank, err := s.leaderboard.Rank(ctx, userID)
		if err == nil {
			return model.GetUserRankResponse{UserID: userID, XP: stats.XP, GlobalRank: rank}, nil
		}
		s.logger.Log(zapcore.WarnLevel, traceID, "Redis rank read failed, falling back to DB", map[string]any{
			"method": "GetUserRank",
			"userId": userID,
		}, "SERVICE", err)
	}

	scores, err := s.store.ListUserScores(ctx)
	if err != nil {
		s.logger.Log(zapcore.ErrorLevel, traceID, "Failed to compute rank from DB", map[string]any{
			"method":    "GetUserRank",
			"userId":    userID,
			"errorType": "DB_ERROR",
		}, "SERVICE", err)
		return model.GetUserRankResponse{}, newError(ErrorTypeInternal, "Failed to compute rank", err)
	}

	rank := int64(1)
	for _, sc := range scores {
		if sc.XP > stats.XP {
			rank++
		}
	}
	return model.GetUserRankResponse{UserID: userID, XP: stats.XP, GlobalRank: rank}, nil
}
