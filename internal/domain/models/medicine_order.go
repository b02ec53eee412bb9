// internal/domain/models/medicine_order.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Order statuses.
const (
	OrderPending   = "pending"
	OrderFulfilled = "fulfilled"
)

// OrderItem is one medicine line on an order.
type OrderItem struct {
	Name     string `bson:"name" json:"name"`
	Quantity int    `bson:"quantity" json:"quantity"`
}

// MedicineOrder is an order placed with a medical store.
type MedicineOrder struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	StoreID   primitive.ObjectID `bson:"store_id" json:"store_id"`
	Items     []OrderItem        `bson:"items" json:"items"`
	Status    string             `bson:"status" json:"status"`
	PlacedAt  time.Time          `bson:"placed_at" json:"placed_at"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}
