package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/inkpad/inkpad-api/internal/core/domain"
	"github.com/inkpad/inkpad-api/internal/core/ports"
)

const (
	activityCollection = "account_activity"
	// Audit entries are kept for a year.
	activityRetention = 365 * 24 * time.Hour
)

// ActivityRepository appends account events to an audit collection.
type ActivityRepository struct {
	coll *mongo.Collection
}

func NewActivityRepository(db *mongo.Database) *ActivityRepository {
	return &ActivityRepository{coll: db.Collection(activityCollection)}
}

var _ ports.ActivitySink = (*ActivityRepository)(nil)

// EnsureIndexes creates the per-user lookup index and the retention TTL.
func (r *ActivityRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "occurred_at", Value: -1}}},
		{
			Keys:    bson.D{{Key: "occurred_at", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(int32(activityRetention.Seconds())),
		},
	})
	if err != nil {
		return fmt.Errorf("create activity indexes: %w", err)
	}
	return nil
}

// Record inserts one audit document.
func (r *ActivityRepository) Record(ctx context.Context, a domain.Activity) error {
	if _, err := r.coll.InsertOne(ctx, activityDocument(a)); err != nil {
		return fmt.Errorf("insert activity: %w", err)
	}
	return nil
}

func activityDocument(a domain.Activity) bson.M {
	occurred := a.OccurredAt
	if occurred.IsZero() {
		occurred = time.Now()
	}
	return bson.M{
		"user_id":     int64(a.UserID),
		"username":    a.Username,
		"kind":        string(a.Kind),
		"occurred_at": occurred.UTC(),
	}
}
