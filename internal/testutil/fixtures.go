package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/bonchi/carehub/internal/app/system/authutil"
	"github.com/bonchi/carehub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateUser inserts an active user. A non-empty password is bcrypt-hashed.
func (f *Fixtures) CreateUser(ctx context.Context, fullName, mobile, role, district, password string) models.User {
	f.t.Helper()

	now := time.Now().UTC()
	u := models.User{
		ID:         primitive.NewObjectID(),
		FullName:   fullName,
		FullNameCI: text.Fold(fullName),
		Mobile:     mobile,
		Role:       role,
		Status:     models.StatusActive,
		District:   district,
		DistrictCI: text.Fold(district),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if password != "" {
		hash, err := authutil.HashPassword(password)
		if err != nil {
			f.t.Fatalf("hash password: %v", err)
		}
		u.PasswordHash = hash
	}
	if _, err := f.db.Collection("users").InsertOne(ctx, u); err != nil {
		f.t.Fatalf("failed to create test user: %v", err)
	}
	return u
}

// CreateDisabledUser inserts a disabled user.
func (f *Fixtures) CreateDisabledUser(ctx context.Context, fullName, mobile, role, password string) models.User {
	f.t.Helper()
	u := f.CreateUser(ctx, fullName, mobile, role, "", password)
	if _, err := f.db.Collection("users").UpdateByID(ctx, u.ID, bson.M{"$set": bson.M{"status": models.StatusDisabled}}); err != nil {
		f.t.Fatalf("failed to disable test user: %v", err)
	}
	u.Status = models.StatusDisabled
	return u
}

// CreateCoordinator inserts a district coordinator user and profile.
func (f *Fixtures) CreateCoordinator(ctx context.Context, fullName, mobile, district, password string) (models.User, models.DistrictCoordinator) {
	f.t.Helper()
	u := f.CreateUser(ctx, fullName, mobile, models.RoleDistrictCoordinator, district, password)

	now := time.Now().UTC()
	dc := models.DistrictCoordinator{
		ID:          primitive.NewObjectID(),
		UserID:      u.ID,
		FullName:    fullName,
		Mobile:      mobile,
		District:    district,
		DistrictCI:  text.Fold(district),
		State:       "Bihar",
		Designation: "District Magistrate",
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if _, err := f.db.Collection("district_coordinators").InsertOne(ctx, dc); err != nil {
		f.t.Fatalf("failed to create test coordinator profile: %v", err)
	}
	return u, dc
}

// CreateAppointment inserts an appointment for hospitalID.
func (f *Fixtures) CreateAppointment(ctx context.Context, hospitalID primitive.ObjectID, patient, status string, at time.Time) models.Appointment {
	f.t.Helper()
	a := models.Appointment{
		ID:          primitive.NewObjectID(),
		HospitalID:  hospitalID,
		PatientName: patient,
		Status:      status,
		ScheduledAt: at,
		CreatedAt:   time.Now().UTC(),
	}
	if _, err := f.db.Collection("appointments").InsertOne(ctx, a); err != nil {
		f.t.Fatalf("failed to create test appointment: %v", err)
	}
	return a
}

// CreateOrder inserts a medicine order for storeID.
func (f *Fixtures) CreateOrder(ctx context.Context, storeID primitive.ObjectID, status string, at time.Time) models.MedicineOrder {
	f.t.Helper()
	o := models.MedicineOrder{
		ID:        primitive.NewObjectID(),
		StoreID:   storeID,
		Items:     []models.OrderItem{{Name: "ORS", Quantity: 5}},
		Status:    status,
		PlacedAt:  at,
		CreatedAt: time.Now().UTC(),
	}
	if _, err := f.db.Collection("medicine_orders").InsertOne(ctx, o); err != nil {
		f.t.Fatalf("failed to create test order: %v", err)
	}
	return o
}

// CreateVisit inserts a visit for assistantID.
func (f *Fixtures) CreateVisit(ctx context.Context, assistantID primitive.ObjectID, village, status string, at time.Time) models.VisitSchedule {
	f.t.Helper()
	v := models.VisitSchedule{
		ID:          primitive.NewObjectID(),
		AssistantID: assistantID,
		Village:     village,
		Status:      status,
		VisitAt:     at,
		CreatedAt:   time.Now().UTC(),
	}
	if _, err := f.db.Collection("visit_schedules").InsertOne(ctx, v); err != nil {
		f.t.Fatalf("failed to create test visit: %v", err)
	}
	return v
}
