package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"innovision/cache"
	"innovision/gamification"
	"innovision/model"
	"innovision/natsclient"
	"innovision/repository"
	"innovision/utils"

	cron "github.com/robfig/cron/v3"
	"go.uber.org/zap/zapcore"

	zap_betterstack "innovision/logger"

	"github.com/google/uuid"
)

const statsCacheTTL = 30 * time.Second

// GamificationService owns all mutations of per-user gamification state and
// the task-submission flow that feeds it.
type GamificationService struct {
	store       repository.Store
	natsClient  *natsclient.NatsClient
	redisCache  cache.Cache
	leaderboard *cache.Leaderboard
	logger      *zap_betterstack.BetterStackLogStreamer
	now         func() time.Time
}

func NewService(store repository.Store, natsClient *natsclient.NatsClient, redisCache cache.Cache, lb *cache.Leaderboard, logger *zap_betterstack.BetterStackLogStreamer) *GamificationService {
	svc := &GamificationService{
		store:       store,
		natsClient:  natsClient,
		redisCache:  redisCache,
		leaderboard: lb,
		logger:      logger,
		now:         time.Now,
	}
	svc.logger.Log(zapcore.InfoLevel, uuid.New().String(), "GamificationService initialized", map[string]any{
		"method": "NewService",
	}, "SERVICE", nil)
	return svc
}

// StartCronJob schedules the hourly leaderboard resync. Does not block.
func (s *GamificationService) StartCronJob() {
	c := cron.New()
	c.AddFunc("@every 1h", func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		if err := s.SyncLeaderboardFromMongo(ctx); err != nil {
			s.logger.Log(zapcore.ErrorLevel, uuid.New().String(), "Scheduled leaderboard sync failed", map[string]any{
				"method":    "StartCronJob",
				"errorType": "LEADERBOARD_SYNC_FAILED",
			}, "SERVICE", err)
		}
	})
	c.Start()
}

// SyncLeaderboardFromMongo rebuilds the Redis leaderboard ZSET from the
// stats collection. Rank is owned by this downstream aggregation; the reward
// engine never touches it.
func (s *GamificationService) SyncLeaderboardFromMongo(ctx context.Context) error {
	traceID := uuid.New().String()
	scores, err := s.store.ListUserScores(ctx)
	if err != nil {
		s.logger.Log(zapcore.ErrorLevel, traceID, "Failed to list user scores for leaderboard sync", map[string]any{
			"method":    "SyncLeaderboardFromMongo",
			"errorType": "DB_ERROR",
		}, "SERVICE", err)
		return err
	}
	if s.leaderboard == nil {
		return nil
	}
	if err := s.leaderboard.Replace(ctx, scores); err != nil {
		s.logger.Log(zapcore.ErrorLevel, traceID, "Failed to rebuild leaderboard", map[string]any{
			"method":    "SyncLeaderboardFromMongo",
			"errorType": "LEADERBOARD_SYNC_FAILED",
		}, "SERVICE", err)
		return err
	}
	s.logger.Log(zapcore.InfoLevel, traceID, "Leaderboard synced", map[string]any{
		"method": "SyncLeaderboardFromMongo",
		"users":  len(scores),
	}, "SERVICE", nil)
	return nil
}

// GetOrInitStats returns the user's gamification stats, creating the document
// on first sight and re-deriving the streak from lastActive. A fetch counts
// as activity: a consecutive-day visit extends the streak, a missed day
// resets it.
func (s *GamificationService) GetOrInitStats(ctx context.Context, userID string) (model.GamificationStats, error) {
	traceID := uuid.New().String()
	userID = utils.NormalizeUserID(userID)
	if userID == "" {
		return model.GamificationStats{}, newError(ErrorTypeValidation, "User ID is required", nil)
	}

	cacheKey := cache.StatsKey(userID)
	if s.redisCache != nil {
		cached, err := s.redisCache.Get(cacheKey)
		if err == nil && cached != nil {
			if cachedStr, ok := cached.(string); ok {
				var stats model.GamificationStats
				if err := json.Unmarshal([]byte(cachedStr), &stats); err == nil {
					return stats, nil
				}
			}
		}
	}

	now := s.now()
	stats, err := s.store.UpdateStatsTx(ctx, userID, func(current model.GamificationStats, exists bool) (model.GamificationStats, error) {
		if !exists {
			return model.NewGamificationStats(userID, now), nil
		}
		next, _ := gamification.RefreshStreak(current, now)
		return next, nil
	})
	if err != nil {
		s.logger.Log(zapcore.ErrorLevel, traceID, "Failed to load gamification stats", map[string]any{
			"method":    "GetOrInitStats",
			"userId":    userID,
			"errorType": "DB_ERROR",
		}, "SERVICE", err)
		return model.GamificationStats{}, s.mapStoreError(err, "Failed to fetch stats")
	}

	s.cacheStats(traceID, cacheKey, stats)
	return stats, nil
}

// AwardAction applies one rewarded action to the user's stats. Known actions
// use the fixed reward table; unknown actions fall back to the caller
// supplied value, defaulting to zero.
func (s *GamificationService) AwardAction(ctx context.Context, userID string, action string, value *int) (model.AwardResult, error) {
	traceID := uuid.New().String()
	userID = utils.NormalizeUserID(userID)
	if userID == "" {
		return model.AwardResult{}, newError(ErrorTypeValidation, "User ID is required", nil)
	}
	if action == "" {
		return model.AwardResult{}, newError(ErrorTypeValidation, "Action is required", nil)
	}

	actionType := model.ActionType(action)
	override := 0
	if _, known := model.RewardFor(actionType); !known && value != nil {
		override = *value
	}

	s.logger.Log(zapcore.InfoLevel, traceID, "Starting AwardAction", map[string]any{
		"method": "AwardAction",
		"userId": userID,
		"action": action,
	}, "SERVICE", nil)

	result, _, err := s.award(ctx, traceID, userID, actionType, override)
	if err != nil {
		return model.AwardResult{}, err
	}

	s.logger.Log(zapcore.InfoLevel, traceID, "Action awarded", map[string]any{
		"method":   "AwardAction",
		"userId":   userID,
		"action":   action,
		"xpGained": result.XPGained,
	}, "SERVICE", nil)
	return result, nil
}

// award runs the full reward pipeline inside the store transaction, then
// handles the commit side effects: cache invalidation, leaderboard refresh
// and event publication.
func (s *GamificationService) award(ctx context.Context, traceID, userID string, action model.ActionType, override int) (model.AwardResult, model.GamificationStats, error) {
	now := s.now()

	var outcome gamification.Outcome
	stats, err := s.store.UpdateStatsTx(ctx, userID, func(current model.GamificationStats, exists bool) (model.GamificationStats, error) {
		if !exists {
			current = model.NewGamificationStats(userID, now)
		}
		next, out := gamification.Apply(current, action, override, now)
		outcome = out
		return next, nil
	})
	if err != nil {
		s.logger.Log(zapcore.ErrorLevel, traceID, "Stats transaction failed", map[string]any{
			"method":    "award",
			"userId":    userID,
			"action":    string(action),
			"errorType": "TX_ERROR",
		}, "SERVICE", err)
		return model.AwardResult{}, model.GamificationStats{}, s.mapStoreError(err, "Failed to update stats")
	}

	if s.redisCache != nil {
		if err := s.redisCache.Delete(cache.StatsKey(userID)); err != nil {
			s.logger.Log(zapcore.ErrorLevel, traceID, "Failed to invalidate stats cache", map[string]any{
				"method":    "award",
				"userId":    userID,
				"errorType": "CACHE_ERROR",
			}, "SERVICE", err)
		}
	}
	if s.leaderboard != nil {
		if err := s.leaderboard.SetScore(ctx, userID, stats.XP); err != nil {
			s.logger.Log(zapcore.WarnLevel, traceID, "Failed to refresh leaderboard score", map[string]any{
				"method": "award",
				"userId": userID,
			}, "SERVICE", err)
		}
	}
	s.publishAwardEvents(traceID, userID, action, outcome, stats, now)

	return model.AwardResult{
		XPGained:      outcome.XPGained,
		CurrentStreak: outcome.Streak,
		NewLevel:      outcome.LeveledUp,
		NewBadges:     outcome.NewBadges,
	}, stats, nil
}

type xpAwardedEvent struct {
	UserID    string    `json:"userId"`
	Action    string    `json:"action"`
	XPGained  int       `json:"xpGained"`
	TotalXP   int       `json:"totalXp"`
	Level     int       `json:"level"`
	Streak    int       `json:"streak"`
	Timestamp time.Time `json:"timestamp"`
}

type badgeUnlockedEvent struct {
	UserID    string    `json:"userId"`
	Badge     string    `json:"badge"`
	Timestamp time.Time `json:"timestamp"`
}

type courseCompletedEvent struct {
	UserID    string    `json:"userId"`
	CourseID  string    `json:"courseId"`
	Timestamp time.Time `json:"timestamp"`
}

func (s *GamificationService) publishAwardEvents(traceID, userID string, action model.ActionType, outcome gamification.Outcome, stats model.GamificationStats, now time.Time) {
	if s.natsClient == nil {
		return
	}
	err := s.natsClient.PublishJSON(natsclient.SubjectXPAwarded, xpAwardedEvent{
		UserID:    userID,
		Action:    string(action),
		XPGained:  outcome.XPGained,
		TotalXP:   stats.XP,
		Level:     stats.Level,
		Streak:    stats.Streak,
		Timestamp: now,
	})
	if err != nil {
		s.logger.Log(zapcore.WarnLevel, traceID, "Failed to publish xp.awarded event", map[string]any{
			"method": "publishAwardEvents",
			"userId": userID,
		}, "SERVICE", err)
	}
	for _, badge := range outcome.NewBadges {
		err := s.natsClient.PublishJSON(natsclient.SubjectBadgeUnlocked, badgeUnlockedEvent{
			UserID:    userID,
			Badge:     badge,
			Timestamp: now,
		})
		if err != nil {
			s.logger.Log(zapcore.WarnLevel, traceID, "Failed to publish badge.unlocked event", map[string]any{
				"method": "publishAwardEvents",
				"userId": userID,
				"badge":  badge,
			}, "SERVICE", err)
		}
	}
}

func (s *GamificationService) cacheStats(traceID, cacheKey string, stats model.GamificationStats) {
	if s.redisCache == nil {
		return
	}
	statsBytes, err := json.Marshal(stats)
	if err != nil {
		s.logger.Log(zapcore.ErrorLevel, traceID, "Failed to marshal stats for cache", map[string]any{
			"method":    "cacheStats",
			"cacheKey":  cacheKey,
			"errorType": "MARSHAL_ERROR",
		}, "SERVICE", err)
		return
	}
	if err := s.redisCache.Set(cacheKey, statsBytes, statsCacheTTL); err != nil {
		s.logger.Log(zapcore.ErrorLevel, traceID, "Failed to cache stats", map[string]any{
			"method":    "cacheStats",
			"cacheKey":  cacheKey,
			"errorType": "CACHE_ERROR",
		}, "SERVICE", err)
	}
}

func (s *GamificationService) mapStoreError(err error, message string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrConflict):
		return newError(ErrorTypeConflict, "Could not save your progress due to concurrent updates. Please try again.", err)
	case errors.Is(err, repository.ErrNotFound):
		return newError(ErrorTypeNotFound, message, err)
	default:
		return newError(ErrorTypeInternal, message, err)
	}
}
