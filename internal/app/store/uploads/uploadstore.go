// internal/app/store/uploads/uploadstore.go
package uploadstore

import (
	"context"
	"errors"
	"time"

	"github.com/bonchi/carehub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrNotFound is returned when no upload matches.
var ErrNotFound = errors.New("upload not found")

// DefaultListLimit and MaxListLimit bound ListByUploader.
const (
	DefaultListLimit = 20
	MaxListLimit     = 100
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("uploads")}
}

// Create records metadata for an object already written to storage.
func (s *Store) Create(ctx context.Context, u models.Upload) (models.Upload, error) {
	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}
	if _, err := s.c.InsertOne(ctx, u); err != nil {
		return u, err
	}
	return u, nil
}

// GetByKey returns the upload stored under key.
func (s *Store) GetByKey(ctx context.Context, key string) (*models.Upload, error) {
	var u models.Upload
	if err := s.c.FindOne(ctx, bson.M{"key": key}).Decode(&u); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// ListByUploader returns the user's uploads, newest first. limit is clamped
// to [1, MaxListLimit] with DefaultListLimit for non-positive values.
func (s *Store) ListByUploader(ctx context.Context, userID primitive.ObjectID, limit int64) ([]models.Upload, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetLimit(ClampLimit(limit))

	cur, err := s.c.Find(ctx, bson.M{"uploaded_by": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.Upload{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CountByUploaders counts uploads made by any of userIDs. An empty slice
// counts every upload.
func (s *Store) CountByUploaders(ctx context.Context, userIDs []primitive.ObjectID) (int64, error) {
	filter := bson.M{}
	if len(userIDs) > 0 {
		filter["uploaded_by"] = bson.M{"$in": userIDs}
	}
	return s.c.CountDocuments(ctx, filter)
}

// ClampLimit applies the list limit policy.
func ClampLimit(limit int64) int64 {
	switch {
	case limit <= 0:
		return DefaultListLimit
	case limit > MaxListLimit:
		return MaxListLimit
	}
	return limit
}
