// internal/domain/models/district_coordinator.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DistrictCoordinator is the profile attached to a user with role
// district_coordinator. There is at most one profile per user.
type DistrictCoordinator struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID        primitive.ObjectID `bson:"user_id" json:"user_id"`
	FullName      string             `bson:"full_name" json:"full_name"`
	Mobile        string             `bson:"mobile" json:"mobile"`
	District      string             `bson:"district" json:"district"`
	DistrictCI    string             `bson:"district_ci" json:"-"`
	State         string             `bson:"state,omitempty" json:"state,omitempty"`
	Designation   string             `bson:"designation,omitempty" json:"designation,omitempty"`
	OfficeAddress string             `bson:"office_address,omitempty" json:"office_address,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
