package cache

import (
	"context"

	"github.com/go-redis/redis/v8"

	"innovision/model"
)

const leaderboardKey = "gamification:leaderboard:xp"

// Leaderboard is the downstream read-only XP aggregation, kept in a Redis
// ZSET. It is rebuilt from Mongo by the hourly sync job; the engine itself
// never reads ranks while computing rewards.
type Leaderboard struct {
	client *redis.Client
}

func NewLeaderboard(client *redis.Client) *Leaderboard {
	return &Leaderboard{client: client}
}

// SetScore records a user's total XP.
func (l *Leaderboard) SetScore(ctx context.Context, userID string, xp int) error {
	return l.client.ZAdd(ctx, leaderboardKey, &redis.Z{
		Score:  float64(xp),
		Member: userID,
	}).Err()
}

// Replace rebuilds the whole board in one pass.
func (l *Leaderboard) Replace(ctx context.Context, scores []model.UserScore) error {
	members := make([]*redis.Z, len(scores))
	for i, s := range scores {
		members[i] = &redis.Z{Score: float64(s.XP), Member: s.UserID}
	}
	pipe := l.client.TxPipeline()
	pipe.Del(ctx, leaderboardKey)
	if len(members) > 0 {
		pipe.ZAdd(ctx, leaderboardKey, members...)
	}
	_, err := pipe.Exec(ctx)
	return err
}

// Top returns the highest-XP users, best first, with 1-indexed ranks.
func (l *Leaderboard) Top(ctx context.Context, limit int) ([]model.LeaderboardEntry, error) {
	results, err := l.client.ZRevRangeWithScores(ctx, leaderboardKey, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, err
	}
	entries := make([]model.LeaderboardEntry, len(results))
	for i, z := range results {
		member, _ := z.Member.(string)
		entries[i] = model.LeaderboardEntry{
			UserID: member,
			XP:     int(z.Score),
			Rank:   i + 1,
		}
	}
	return entries, nil
}

// Rank returns a user's 1-indexed global rank, or -1 when absent.
func (l *Leaderboard) Rank(ctx context.Context, userID string) (int64, error) {
	rank, err := l.client.ZRevRank(ctx, leaderboardKey, userID).Result()
	if err == redis.Nil {
		return -1, nil
	}
	if err != nil {
		return -1, err
	}
	return rank + 1, nil
}
