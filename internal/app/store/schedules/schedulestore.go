// internal/app/store/schedules/schedulestore.go
package schedulestore

import (
	"context"
	"time"

	uploadstore "github.com/bonchi/carehub/internal/app/store/uploads"
	"github.com/bonchi/carehub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("visit_schedules")}
}

// Create inserts a visit. Status defaults to scheduled.
func (s *Store) Create(ctx context.Context, v models.VisitSchedule) (models.VisitSchedule, error) {
	if v.ID.IsZero() {
		v.ID = primitive.NewObjectID()
	}
	if v.Status == "" {
		v.Status = models.VisitScheduled
	}
	if v.CreatedAt.IsZero() {
		v.CreatedAt = time.Now().UTC()
	}
	_, err := s.c.InsertOne(ctx, v)
	return v, err
}

// ListForUser returns the assistant's visits, latest first.
func (s *Store) ListForUser(ctx context.Context, assistantID primitive.ObjectID, limit int64) ([]models.VisitSchedule, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "visit_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetLimit(uploadstore.ClampLimit(limit))
	cur, err := s.c.Find(ctx, bson.M{"assistant_id": assistantID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.VisitSchedule{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CountForUser counts all of the assistant's visits.
func (s *Store) CountForUser(ctx context.Context, assistantID primitive.ObjectID) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"assistant_id": assistantID})
}

// CountByStatus counts the assistant's visits in status.
func (s *Store) CountByStatus(ctx context.Context, assistantID primitive.ObjectID, status string) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"assistant_id": assistantID, "status": status})
}
