package validators_test

import (
	"testing"
	"time"

	"github.com/bonchi/carehub/internal/app/system/validators"
	"github.com/bonchi/carehub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestEnsureAll_Idempotent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := validators.EnsureAll(ctx, db); err != nil {
		t.Fatalf("first EnsureAll failed: %v", err)
	}
	if err := validators.EnsureAll(ctx, db); err != nil {
		t.Fatalf("second EnsureAll failed: %v", err)
	}
}

func TestUsersValidator(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := validators.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}
	users := db.Collection("users")

	valid := bson.M{
		"full_name": "Asha Devi",
		"mobile":    "9876543210",
		"role":      "health_assistant",
		"status":    "active",
	}
	if _, err := users.InsertOne(ctx, valid); err != nil {
		t.Fatalf("valid user rejected: %v", err)
	}

	invalid := []bson.M{
		{"full_name": "X", "mobile": "9876543211", "role": "superadmin", "status": "active"},
		{"full_name": "X", "mobile": "12345", "role": "hospital", "status": "active"},
		{"full_name": "   ", "mobile": "9876543212", "role": "hospital", "status": "active"},
		{"full_name": "X", "mobile": "9876543213", "role": "hospital", "status": "paused"},
	}
	for i, doc := range invalid {
		if _, err := users.InsertOne(ctx, doc); err == nil {
			t.Errorf("case %d: expected validator to reject %v", i, doc)
		}
	}
}

func TestVisitsValidator(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := validators.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}
	visits := db.Collection("visit_schedules")

	_, err := visits.InsertOne(ctx, bson.M{
		"assistant_id": primitive.NewObjectID(),
		"village":      "Rampur",
		"status":       "scheduled",
		"visit_at":     time.Now(),
	})
	if err != nil {
		t.Fatalf("valid visit rejected: %v", err)
	}

	_, err = visits.InsertOne(ctx, bson.M{
		"assistant_id": primitive.NewObjectID(),
		"village":      "Rampur",
		"status":       "maybe",
		"visit_at":     time.Now(),
	})
	if err == nil {
		t.Error("expected invalid status to be rejected")
	}
}
