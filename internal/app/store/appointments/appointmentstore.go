// internal/app/store/appointments/appointmentstore.go
package appointmentstore

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
	return &Store{c: db.Collection("appointments")}
}

// Create inserts an appointment. Status defaults to pending.
func (s *Store) Create(ctx context.Context, a models.Appointment) (models.Appointment, error) {
	if a.ID.IsZero() {
		a.ID = primitive.NewObjectID()
	}
	if a.Status == "" {
		a.Status = models.AppointmentPending
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}
	_, err := s.c.InsertOne(ctx, a)
	return a, err
}

// ListForUser returns the hospital's appointments, latest scheduled first.
func (s *Store) ListForUser(ctx context.Context, hospitalID primitive.ObjectID, limit int64) ([]models.Appointment, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "scheduled_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetLimit(uploadstore.ClampLimit(limit))
	cur, err := s.c.Find(ctx, bson.M{"hospital_id": hospitalID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.Appointment{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CountForUser counts all of the hospital's appointments.
func (s *Store) CountForUser(ctx context.Context, hospitalID primitive.ObjectID) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"hospital_id": hospitalID})
}

// CountByStatus counts the hospital's appointments in status.
func (s *Store) CountByStatus(ctx context.Context, hospitalID primitive.ObjectID, status string) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"hospital_id": hospitalID, "status": status})
}

// CountScheduledBetween counts appointments with scheduled_at in [from, to).
func (s *Store) CountScheduledBetween(ctx context.Context, hospitalID primitive.ObjectID, from, to time.Time) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{
		"hospital_id":  hospitalID,
		"scheduled_at": bson.M{"$gte": from, "$lt": to},
	})
}
