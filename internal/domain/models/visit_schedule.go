// internal/domain/models/visit_schedule.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Visit statuses.
const (
	VisitScheduled = "scheduled"
	VisitCompleted = "completed"
	VisitMissed    = "missed"
)

// VisitSchedule is a household visit planned for a health assistant.
type VisitSchedule struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	AssistantID primitive.ObjectID `bson:"assistant_id" json:"assistant_id"`
	Village     string             `bson:"village" json:"village"`
	Purpose     string             `bson:"purpose,omitempty" json:"purpose,omitempty"`
	Status      string             `bson:"status" json:"status"`
	VisitAt     time.Time          `bson:"visit_at" json:"visit_at"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
}
