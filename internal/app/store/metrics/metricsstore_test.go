package metricsstore_test

import (
	"testing"
	"time"

	appointmentstore "github.com/bonchi/carehub/internal/app/store/appointments"
	metricsstore "github.com/bonchi/carehub/internal/app/store/metrics"
	uploadstore "github.com/bonchi/carehub/internal/app/store/uploads"
	userstore "github.com/bonchi/carehub/internal/app/store/users"
	"github.com/bonchi/carehub/internal/domain/models"
	"github.com/bonchi/carehub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func values(cards []metricsstore.Card) map[string]int64 {
	out := map[string]int64{}
	for _, c := range cards {
		out[c.Key] = c.Value
	}
	return out
}

func TestFetchRoleCounts_ZeroState(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	for _, role := range models.AllRoles {
		cards, err := metricsstore.FetchRoleCounts(ctx, db, metricsstore.Scope{Role: role, UserID: primitive.NewObjectID(), District: "Gaya"})
		if err != nil {
			t.Errorf("%s: %v", role, err)
		}
		if len(cards) == 0 {
			t.Errorf("%s: expected cards", role)
		}
		for _, c := range cards {
			if c.Value != 0 {
				t.Errorf("%s/%s = %d, want 0", role, c.Key, c.Value)
			}
			if c.Label == "" {
				t.Errorf("%s/%s has no label", role, c.Key)
			}
		}
	}

	if cards, _ := metricsstore.FetchRoleCounts(ctx, db, metricsstore.Scope{Role: "guest"}); len(cards) != 0 {
		t.Errorf("unknown role should have no cards, got %v", cards)
	}
}

func TestFetchRoleCounts_Hospital(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	appts := appointmentstore.New(db)
	hospital := primitive.NewObjectID()
	now := time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)
	for _, a := range []models.Appointment{
		{HospitalID: hospital, PatientName: "A", ScheduledAt: now.Add(-time.Hour)},
		{HospitalID: hospital, PatientName: "B", ScheduledAt: now.Add(time.Hour), Status: models.AppointmentCompleted},
		{HospitalID: hospital, PatientName: "C", ScheduledAt: now.AddDate(0, 0, 1)},
	} {
		if _, err := appts.Create(ctx, a); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	cards, err := metricsstore.FetchRoleCounts(ctx, db, metricsstore.Scope{Role: models.RoleHospital, UserID: hospital, Now: now})
	if err != nil {
		t.Fatalf("FetchRoleCounts: %v", err)
	}
	got := values(cards)
	if got["todays_appointments"] != 2 || got["pending_appointments"] != 2 || got["completed_appointments"] != 1 {
		t.Errorf("unexpected hospital cards: %v", got)
	}
}

func TestFetchRoleCounts_DistrictCoordinator(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	users := userstore.New(db)
	uploads := uploadstore.New(db)
	var gayaHA primitive.ObjectID
	for _, u := range []models.User{
		{FullName: "HA", Mobile: "9000000001", Role: models.RoleHealthAssistant, District: "Gaya"},
		{FullName: "H", Mobile: "9000000002", Role: models.RoleHospital, District: "Gaya"},
		{FullName: "H2", Mobile: "9000000003", Role: models.RoleHospital, District: "Patna"},
	} {
		created, err := users.Create(ctx, u, "")
		if err != nil {
			t.Fatalf("Create: %v", err)
		}
		if created.Role == models.RoleHealthAssistant {
			gayaHA = created.ID
		}
	}
	if _, err := uploads.Create(ctx, models.Upload{Key: "k1", OriginalName: "a", UploadedBy: &gayaHA}); err != nil {
		t.Fatalf("upload: %v", err)
	}

	cards, err := metricsstore.FetchRoleCounts(ctx, db, metricsstore.Scope{Role: models.RoleDistrictCoordinator, District: "gaya"})
	if err != nil {
		t.Fatalf("FetchRoleCounts: %v", err)
	}
	got := values(cards)
	if got["health_assistants"] != 1 || got["hospitals"] != 1 || got["medical_stores"] != 0 || got["uploads"] != 1 {
		t.Errorf("unexpected coordinator cards: %v", got)
	}
}

func TestFetchRoleCounts_AdminCountsEveryRole(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := userstore.New(db).Create(ctx, models.User{FullName: "Admin", Mobile: "9000000009", Role: models.RoleAdmin}, ""); err != nil {
		t.Fatalf("Create: %v", err)
	}
	cards, err := metricsstore.FetchRoleCounts(ctx, db, metricsstore.Scope{Role: models.RoleAdmin})
	if err != nil {
		t.Fatalf("FetchRoleCounts: %v", err)
	}
	if len(cards) != len(models.AllRoles) {
		t.Fatalf("expected %d cards, got %d", len(models.AllRoles), len(cards))
	}
	if values(cards)[models.RoleAdmin] != 1 {
		t.Errorf("admin count = %d, want 1", values(cards)[models.RoleAdmin])
	}
}

func TestFetchRoleCounts_CanceledContextReportsError(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	cancel()

	cards, err := metricsstore.FetchRoleCounts(ctx, db, metricsstore.Scope{Role: models.RoleMedicalStore, UserID: primitive.NewObjectID()})
	if err == nil {
		t.Error("expected an error when counts fail")
	}
	if len(cards) != 3 {
		t.Fatalf("expected 3 cards even on failure, got %d", len(cards))
	}
	for _, c := range cards {
		if c.Value != 0 {
			t.Errorf("%s = %d, want 0", c.Key, c.Value)
		}
	}
}
