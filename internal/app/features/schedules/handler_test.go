package schedules_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	uierrors "github.com/bonchi/carehub/internal/app/features/errors"
	"github.com/bonchi/carehub/internal/app/features/schedules"
	"github.com/bonchi/carehub/internal/domain/models"
	"github.com/bonchi/carehub/internal/testutil"
	"go.uber.org/zap"
)

func TestServeList_AdminViewsAssistant(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	fx := testutil.NewFixtures(t, db)
	asha := fx.CreateUser(ctx, "Asha", "9812300030", models.RoleHealthAssistant, "Gaya", "asha1234")
	fx.CreateVisit(ctx, asha.ID, "Tekari", models.VisitScheduled, time.Now().Add(48*time.Hour))
	fx.CreateVisit(ctx, asha.ID, "Belaganj", models.VisitMissed, time.Now().Add(-48*time.Hour))

	h := schedules.NewHandler(db, uierrors.NewErrorLogger(zap.NewNop()), zap.NewNop())
	req := httptest.NewRequest(http.MethodGet, "/schedules?owner="+asha.ID.Hex(), nil)
	req = testutil.WithUser(req, testutil.UserWithRole(models.RoleAdmin))
	rec := httptest.NewRecorder()
	h.ServeList(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var body struct {
		Items []models.VisitSchedule `json:"items"`
	}
	testutil.DecodeJSON(t, rec, &body)
	if len(body.Items) != 2 {
		t.Fatalf("got %d visits, want 2", len(body.Items))
	}
	if body.Items[0].Village != "Tekari" {
		t.Errorf("first visit = %q, want Tekari", body.Items[0].Village)
	}
}
