package auditlog_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bonchi/carehub/internal/app/features/auditlog"
	uierrors "github.com/bonchi/carehub/internal/app/features/errors"
	"github.com/bonchi/carehub/internal/app/store/audit"
	"github.com/bonchi/carehub/internal/app/system/auth"
	"github.com/bonchi/carehub/internal/domain/models"
	"github.com/bonchi/carehub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type item struct {
	EventType string `json:"event_type"`
	Actor     string `json:"actor"`
	User      string `json:"user"`
}

type listBody struct {
	Items      []item `json:"items"`
	Page       int    `json:"page"`
	TotalPages int    `json:"total_pages"`
	Total      int64  `json:"total"`
	HasNext    bool   `json:"has_next"`
}

func newRouter(t *testing.T, db *mongo.Database) http.Handler {
	t.Helper()
	sm, err := auth.NewSessionManager("test-session-key-must-be-32-chars-long", "", "", time.Hour, false, zap.NewNop())
	if err != nil {
		t.Fatalf("NewSessionManager: %v", err)
	}
	logger := zap.NewNop()
	h := auditlog.NewHandler(db, uierrors.NewErrorLogger(logger), logger)
	return auditlog.Routes(h, sm)
}

func get(h http.Handler, target string, u *auth.SessionUser) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	if u != nil {
		req = testutil.WithUser(req, u)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func insert(t *testing.T, db *mongo.Database, e audit.Event) {
	t.Helper()
	ctx, cancel := testutil.TestContext()
	defer cancel()
	if err := audit.New(db).Insert(ctx, e); err != nil {
		t.Fatalf("Insert: %v", err)
	}
}

func TestServeList_RoleGate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := newRouter(t, db)

	if rec := get(h, "/", nil); rec.Code != http.StatusUnauthorized {
		t.Errorf("anonymous status = %d, want 401", rec.Code)
	}
	if rec := get(h, "/", testutil.UserWithRole(models.RoleHospital)); rec.Code != http.StatusForbidden {
		t.Errorf("hospital status = %d, want 403", rec.Code)
	}
	rec := get(h, "/", testutil.UserWithRole(models.RoleAdmin))
	if rec.Code != http.StatusOK {
		t.Fatalf("admin status = %d, want 200", rec.Code)
	}
	var body listBody
	testutil.DecodeJSON(t, rec, &body)
	if body.Items == nil || len(body.Items) != 0 || body.TotalPages != 1 {
		t.Errorf("empty log body = %+v", body)
	}
}

func TestServeList_AdminFiltersAndNames(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	fx := testutil.NewFixtures(t, db)
	asha := fx.CreateUser(ctx, "Asha Devi", "9800000021", models.RoleHealthAssistant, "Gaya", "care2024")

	insert(t, db, audit.Event{Category: audit.CategoryAuth, EventType: audit.EventLoginSuccess, UserID: &asha.ID, Success: true})
	insert(t, db, audit.Event{Category: audit.CategoryUpload, EventType: audit.EventUploadStored, ActorID: &asha.ID, Success: true})

	h := newRouter(t, db)
	rec := get(h, "/?category=upload", testutil.UserWithRole(models.RoleAdmin))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var body listBody
	testutil.DecodeJSON(t, rec, &body)
	if len(body.Items) != 1 || body.Items[0].EventType != audit.EventUploadStored {
		t.Fatalf("items = %+v", body.Items)
	}
	if body.Items[0].Actor != "Asha Devi" {
		t.Errorf("actor = %q, want resolved name", body.Items[0].Actor)
	}

	if rec := get(h, "/?category=groups", testutil.UserWithRole(models.RoleAdmin)); rec.Code != http.StatusBadRequest {
		t.Errorf("unknown category status = %d, want 400", rec.Code)
	}
	if rec := get(h, "/?category=auth&event_type=upload_stored", testutil.UserWithRole(models.RoleAdmin)); rec.Code != http.StatusBadRequest {
		t.Errorf("mismatched event type status = %d, want 400", rec.Code)
	}
	if rec := get(h, "/?start_date=10-03-2026", testutil.UserWithRole(models.RoleAdmin)); rec.Code != http.StatusBadRequest {
		t.Errorf("bad date status = %d, want 400", rec.Code)
	}
}

func TestServeList_DateWindowIsInclusive(t *testing.T) {
	db := testutil.SetupTestDB(t)
	day := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	for _, ts := range []time.Time{day.Add(-time.Minute), day, day.Add(23 * time.Hour), day.Add(24 * time.Hour)} {
		insert(t, db, audit.Event{Timestamp: ts, Category: audit.CategoryAuth, EventType: audit.EventLogout})
	}

	rec := get(newRouter(t, db), "/?start_date=2026-03-10&end_date=2026-03-10", testutil.UserWithRole(models.RoleAdmin))
	var body listBody
	testutil.DecodeJSON(t, rec, &body)
	if body.Total != 2 {
		t.Errorf("total = %d, want 2 events on 2026-03-10", body.Total)
	}
}

func TestServeList_CoordinatorSeesOwnDistrict(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	fx := testutil.NewFixtures(t, db)
	inside := fx.CreateUser(ctx, "Asha Devi", "9800000031", models.RoleHealthAssistant, "Gaya", "care2024")
	outside := fx.CreateUser(ctx, "Dr Rao", "9800000032", models.RoleHospital, "Patna", "care2024")
	dm, _ := fx.CreateCoordinator(ctx, "Meena Kumari", "9800000033", "Gaya", "care2024")

	insert(t, db, audit.Event{Category: audit.CategoryAuth, EventType: audit.EventLoginSuccess, UserID: &inside.ID})
	insert(t, db, audit.Event{Category: audit.CategoryAuth, EventType: audit.EventLoginSuccess, UserID: &outside.ID})
	stranger := primitive.NewObjectID()
	insert(t, db, audit.Event{Category: audit.CategoryAuth, EventType: audit.EventLogout, UserID: &stranger})

	rec := get(newRouter(t, db), "/", testutil.SessionUserFor(dm))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var body listBody
	testutil.DecodeJSON(t, rec, &body)
	if body.Total != 1 || len(body.Items) != 1 || body.Items[0].User != "Asha Devi" {
		t.Errorf("coordinator view = %+v", body)
	}
}

func TestServeList_Pages(t *testing.T) {
	db := testutil.SetupTestDB(t)
	base := time.Now().UTC().Add(-time.Hour)
	for i := 0; i < 55; i++ {
		insert(t, db, audit.Event{Timestamp: base.Add(time.Duration(i) * time.Second), Category: audit.CategoryAuth, EventType: audit.EventLogout})
	}
	h := newRouter(t, db)

	var first, second listBody
	testutil.DecodeJSON(t, get(h, "/", testutil.UserWithRole(models.RoleAdmin)), &first)
	testutil.DecodeJSON(t, get(h, "/?page=2", testutil.UserWithRole(models.RoleAdmin)), &second)

	if len(first.Items) != 50 || !first.HasNext || first.TotalPages != 2 {
		t.Errorf("page 1 = %d items, has_next %v, pages %d", len(first.Items), first.HasNext, first.TotalPages)
	}
	if len(second.Items) != 5 || second.HasNext {
		t.Errorf("page 2 = %d items, has_next %v", len(second.Items), second.HasNext)
	}
}

func TestServeList_PageOutOfRange(t *testing.T) {
	db := testutil.SetupTestDB(t)
	insert(t, db, audit.Event{Category: audit.CategoryAuth, EventType: audit.EventLogout})
	h := newRouter(t, db)

	rec := get(h, "/?page=9223372036854775807", testutil.UserWithRole(models.RoleAdmin))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400; body %s", rec.Code, rec.Body.String())
	}

	// Unparseable pages fall back to the first page.
	var body listBody
	testutil.DecodeJSON(t, get(h, "/?page=-3", testutil.UserWithRole(models.RoleAdmin)), &body)
	if body.Page != 1 || len(body.Items) != 1 {
		t.Errorf("page=-3 gave %+v", body)
	}
}
