// internal/domain/models/appointment.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Appointment statuses.
const (
	AppointmentPending   = "pending"
	AppointmentCompleted = "completed"
	AppointmentCancelled = "cancelled"
)

// Appointment is a patient booking with a hospital user.
type Appointment struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	HospitalID  primitive.ObjectID `bson:"hospital_id" json:"hospital_id"`
	PatientName string             `bson:"patient_name" json:"patient_name"`
	Reason      string             `bson:"reason,omitempty" json:"reason,omitempty"`
	Status      string             `bson:"status" json:"status"`
	ScheduledAt time.Time          `bson:"scheduled_at" json:"scheduled_at"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
}
