package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"innovision/model"
)

const (
	databaseName           = "innovision"
	statsCollection        = "gamification"
	roadmapsCollection     = "roadmaps"
	chapterTasksCollection = "chapter_tasks"
	usersCollection        = "users"

	txMaxAttempts   = 4
	txInitialBackoff = 50 * time.Millisecond
)

// Repository is the Mongo adapter for the stats and course stores.
type Repository struct {
	client       *mongo.Client
	stats        *mongo.Collection
	roadmaps     *mongo.Collection
	chapterTasks *mongo.Collection
	users        *mongo.Collection
}

var _ Store = (*Repository)(nil)

func NewRepository(client *mongo.Client) *Repository {
	db := client.Database(databaseName)
	return &Repository{
		client:       client,
		stats:        db.Collection(statsCollection),
		roadmaps:     db.Collection(roadmapsCollection),
		chapterTasks: db.Collection(chapterTasksCollection),
		users:        db.Collection(usersCollection),
	}
}

func (r *Repository) GetStats(ctx context.Context, userID string) (model.GamificationStats, bool, error) {
	var stats model.GamificationStats
	err := r.stats.FindOne(ctx, bson.M{"_id": userID}).Decode(&stats)
	if err == mongo.ErrNoDocuments {
		return model.GamificationStats{}, false, nil
	}
	if err != nil {
		return model.GamificationStats{}, false, err
	}
	return stats, true, nil
}

func (r *Repository) SetStats(ctx context.Context, stats model.GamificationStats) error {
	_, err := r.stats.ReplaceOne(ctx, bson.M{"_id": stats.UserID}, stats, options.Replace().SetUpsert(true))
	return err
}

// UpdateStatsTx runs apply inside a Mongo transaction: read the current
// document, compute the next one, write it back. Snapshot isolation aborts
// the transaction when a concurrent writer touches the document first, so
// re-running apply on the fresh read gives compare-and-swap semantics.
// Transient failures are retried with exponential backoff up to
// txMaxAttempts; after that the caller sees ErrConflict.
func (r *Repository) UpdateStatsTx(ctx context.Context, userID string, apply ApplyStatsFunc) (model.GamificationStats, error) {
	var out model.GamificationStats

	backoff := txInitialBackoff
	for attempt := 1; attempt <= txMaxAttempts; attempt++ {
		result, err := r.runStatsTxOnce(ctx, userID, apply)
		if err == nil {
			return result, nil
		}
		if !isTransientTxError(err) {
			return out, err
		}
		if attempt == txMaxAttempts {
			return out, fmt.Errorf("%w: %v", ErrConflict, err)
		}
		select {
		case <-time.After(backoff):
		case <-ctx.Done():
			return out, ctx.Err()
		}
		backoff *= 2
	}
	return out, ErrConflict
}

func (r *Repository) runStatsTxOnce(ctx context.Context, userID string, apply ApplyStatsFunc) (model.GamificationStats, error) {
	session, err := r.client.StartSession()
	if err != nil {
		return model.GamificationStats{}, err
	}
	defer session.EndSession(ctx)

	var next model.GamificationStats
	err = mongo.WithSession(ctx, session, func(sc mongo.SessionContext) error {
		if err := session.StartTransaction(); err != nil {
			return err
		}

		var current model.GamificationStats
		exists := true
		if err := r.stats.FindOne(sc, bson.M{"_id": userID}).Decode(&current); err != nil {
			if err != mongo.ErrNoDocuments {
				_ = session.AbortTransaction(sc)
				return err
			}
			exists = false
			current = model.GamificationStats{}
		}

		next, err = apply(current, exists)
		if err != nil {
			_ = session.AbortTransaction(sc)
			return err
		}
		next.UserID = userID

		if _, err := r.stats.ReplaceOne(sc, bson.M{"_id": userID}, next, options.Replace().SetUpsert(true)); err != nil {
			_ = session.AbortTransaction(sc)
			return err
		}
		return session.CommitTransaction(sc)
	})
	if err != nil {
		return model.GamificationStats{}, err
	}
	return next, nil
}

func isTransientTxError(err error) bool {
	var serverErr mongo.ServerError
	if errors.As(err, &serverErr) {
		return serverErr.HasErrorLabel("TransientTransactionError") ||
			serverErr.HasErrorLabel("UnknownTransactionCommitResult")
	}
	return false
}

// IncrementLegacyXP bumps the legacy xp counter and the per-month xptrack
// bucket on the user document. Intentionally outside any transaction: this
// counter is display-only and tolerated to drift.
func (r *Repository) IncrementLegacyXP(ctx context.Context, userID string, points int, month time.Month) error {
	_, err := r.users.UpdateOne(ctx, bson.M{"_id": userID}, bson.M{
		"$inc": bson.M{
			"xp": points,
			fmt.Sprintf("xptrack.%d", int(month)): points,
		},
	}, options.Update().SetUpsert(true))
	return err
}

func (r *Repository) ListUserScores(ctx context.Context) ([]model.UserScore, error) {
	opts := options.Find().SetProjection(bson.M{"xp": 1})
	cursor, err := r.stats.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var scores []model.UserScore
	if err := cursor.All(ctx, &scores); err != nil {
		return nil, err
	}
	return scores, nil
}

func (r *Repository) TopUserScores(ctx context.Context, limit int) ([]model.UserScore, error) {
	opts := options.Find().
		SetProjection(bson.M{"xp": 1}).
		SetSort(bson.D{{Key: "xp", Value: -1}}).
		SetLimit(int64(limit))
	cursor, err := r.stats.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var scores []model.UserScore
	if err := cursor.All(ctx, &scores); err != nil {
		return nil, err
	}
	return scores, nil
}

func (r *Repository) GetChapterTasks(ctx context.Context, userID, courseID string, chapterNumber int) (model.ChapterTasks, error) {
	filter := bson.M{"userId": userID, "courseId": courseID, "chapterNumber": chapterNumber}
	var tasks model.ChapterTasks
	err := r.chapterTasks.FindOne(ctx, filter).Decode(&tasks)
	if err == mongo.ErrNoDocuments {
		return model.ChapterTasks{}, ErrNotFound
	}
	if err != nil {
		return model.ChapterTasks{}, err
	}
	return tasks, nil
}

func (r *Repository) SaveChapterTasks(ctx context.Context, tasks model.ChapterTasks) error {
	filter := bson.M{"userId": tasks.UserID, "courseId": tasks.CourseID, "chapterNumber": tasks.ChapterNumber}
	update := bson.M{"$set": bson.M{"tasks": tasks.Tasks}}
	_, err := r.chapterTasks.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	return err
}

func (r *Repository) GetRoadmap(ctx context.Context, userID, courseID string) (model.Roadmap, error) {
	var roadmap model.Roadmap
	err := r.roadmaps.FindOne(ctx, bson.M{"userId": userID, "courseId": courseID}).Decode(&roadmap)
	if err == mongo.ErrNoDocuments {
		return model.Roadmap{}, ErrNotFound
	}
	if err != nil {
		return model.Roadmap{}, err
	}
	return roadmap, nil
}

// UpdateRoadmapChapters writes the chapter list and the course completed flag
// in a single $set, so the two can never be observed out of step.
func (r *Repository) UpdateRoadmapChapters(ctx context.Context, userID, courseID string, chapters []model.Chapter, completed bool) error {
	result, err := r.roadmaps.UpdateOne(ctx,
		bson.M{"userId": userID, "courseId": courseID},
		bson.M{"$set": bson.M{"chapters": chapters, "completed": completed}},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
