// internal/app/store/orders/orderstore.go
package orderstore

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
	return &Store{c: db.Collection("medicine_orders")}
}

// Create inserts an order. Status defaults to pending and Items to empty.
func (s *Store) Create(ctx context.Context, o models.MedicineOrder) (models.MedicineOrder, error) {
	if o.ID.IsZero() {
		o.ID = primitive.NewObjectID()
	}
	if o.Status == "" {
		o.Status = models.OrderPending
	}
	if o.Items == nil {
		o.Items = []models.OrderItem{}
	}
	now := time.Now().UTC()
	if o.PlacedAt.IsZero() {
		o.PlacedAt = now
	}
	if o.CreatedAt.IsZero() {
		o.CreatedAt = now
	}
	_, err := s.c.InsertOne(ctx, o)
	return o, err
}

// ListForUser returns the store's orders, most recently placed first.
func (s *Store) ListForUser(ctx context.Context, storeID primitive.ObjectID, limit int64) ([]models.MedicineOrder, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "placed_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetLimit(uploadstore.ClampLimit(limit))
	cur, err := s.c.Find(ctx, bson.M{"store_id": storeID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.MedicineOrder{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CountForUser counts all of the store's orders.
func (s *Store) CountForUser(ctx context.Context, storeID primitive.ObjectID) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"store_id": storeID})
}

// CountByStatus counts the store's orders in status.
func (s *Store) CountByStatus(ctx context.Context, storeID primitive.ObjectID, status string) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"store_id": storeID, "status": status})
}
