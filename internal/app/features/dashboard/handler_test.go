package dashboard_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bonchi/carehub/internal/app/features/dashboard"
	metricsstore "github.com/bonchi/carehub/internal/app/store/metrics"
	"github.com/bonchi/carehub/internal/app/system/metrics"
	"github.com/bonchi/carehub/internal/domain/models"
	"github.com/bonchi/carehub/internal/testutil"
	"go.uber.org/zap"
)

// memCache is an in-process dashcache.Cache.
type memCache struct {
	data    map[string][]byte
	failGet bool
}

func newMemCache() *memCache { return &memCache{data: map[string][]byte{}} }

func (c *memCache) Get(_ context.Context, key string, dst any) (bool, error) {
	if c.failGet {
		return false, errors.New("redis down")
	}
	b, ok := c.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, dst)
}

func (c *memCache) Set(_ context.Context, key string, v any) error {
	b, err := json.Marshal(v)
	c.data[key] = b
	return err
}

func (c *memCache) Close() error { return nil }

type response struct {
	Role   string              `json:"role"`
	Cards  []metricsstore.Card `json:"cards"`
	Cached bool                `json:"cached"`
}

func serve(t *testing.T, h *dashboard.Handler, req *http.Request) response {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeDashboard(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var resp response
	testutil.DecodeJSON(t, rec, &resp)
	return resp
}

func cardValue(cards []metricsstore.Card, key string) int64 {
	for _, c := range cards {
		if c.Key == key {
			return c.Value
		}
	}
	return -1
}

func TestServeDashboard_HealthAssistant(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	fx := testutil.NewFixtures(t, db)
	u := fx.CreateUser(ctx, "Asha", "9812340001", models.RoleHealthAssistant, "Gaya", "asha1234")
	fx.CreateVisit(ctx, u.ID, "Bodh Gaya", models.VisitScheduled, time.Now().Add(time.Hour))
	fx.CreateVisit(ctx, u.ID, "Tekari", models.VisitCompleted, time.Now().Add(-time.Hour))

	h := dashboard.NewHandler(db, nil, nil, zap.NewNop())
	req := testutil.WithUser(httptest.NewRequest(http.MethodGet, "/dashboard", nil), testutil.SessionUserFor(u))
	resp := serve(t, h, req)

	if resp.Role != models.RoleHealthAssistant {
		t.Errorf("role = %q", resp.Role)
	}
	if got := cardValue(resp.Cards, "scheduled_visits"); got != 2 {
		t.Errorf("scheduled_visits = %d, want 2", got)
	}
	if got := cardValue(resp.Cards, "pending_visits"); got != 1 {
		t.Errorf("pending_visits = %d, want 1", got)
	}
}

func TestServeDashboard_ZeroState(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := dashboard.NewHandler(db, nil, nil, zap.NewNop())

	for _, role := range []string{models.RoleHospital, models.RoleMedicalStore, models.RoleDistrictCoordinator, models.RoleAdmin} {
		t.Run(role, func(t *testing.T) {
			req := testutil.WithUser(httptest.NewRequest(http.MethodGet, "/dashboard", nil), testutil.UserWithRole(role))
			resp := serve(t, h, req)
			if len(resp.Cards) == 0 {
				t.Fatal("expected cards")
			}
			for _, c := range resp.Cards {
				if c.Value != 0 {
					t.Errorf("%s = %d, want 0", c.Key, c.Value)
				}
			}
		})
	}
}

func TestServeDashboard_CacheHitAndFallback(t *testing.T) {
	db := testutil.SetupTestDB(t)
	cache := newMemCache()
	m := metrics.New()
	h := dashboard.NewHandler(db, cache, m, zap.NewNop())
	user := testutil.UserWithRole(models.RoleMedicalStore)

	newReq := func() *http.Request {
		return testutil.WithUser(httptest.NewRequest(http.MethodGet, "/dashboard", nil), user)
	}

	if first := serve(t, h, newReq()); first.Cached {
		t.Error("first request should not be cached")
	}
	if second := serve(t, h, newReq()); !second.Cached {
		t.Error("second request should come from cache")
	}

	cache.failGet = true
	if third := serve(t, h, newReq()); third.Cached || len(third.Cards) != 3 {
		t.Errorf("fallback response = %+v", third)
	}

	if hits := cacheLookups(t, m, "hit"); hits != 1 {
		t.Errorf("cache hits = %v, want 1", hits)
	}
	if misses := cacheLookups(t, m, "miss"); misses != 2 {
		t.Errorf("cache misses = %v, want 2", misses)
	}
}

func cacheLookups(t *testing.T, m *metrics.Metrics, result string) float64 {
	t.Helper()
	families, err := m.Registry().Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	for _, mf := range families {
		if mf.GetName() != "carehub_dashboard_cache_lookups_total" {
			continue
		}
		for _, metric := range mf.GetMetric() {
			for _, lp := range metric.GetLabel() {
				if lp.GetName() == "result" && lp.GetValue() == result {
					return metric.GetCounter().GetValue()
				}
			}
		}
	}
	return 0
}

func TestServeDashboard_Unauthenticated(t *testing.T) {
	h := dashboard.NewHandler(nil, nil, nil, zap.NewNop())
	rec := httptest.NewRecorder()
	h.ServeDashboard(rec, httptest.NewRequest(http.MethodGet, "/dashboard", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestServeDashboard_FailedCountsAreNotCached(t *testing.T) {
	db := testutil.SetupTestDB(t)
	cache := newMemCache()
	h := dashboard.NewHandler(db, cache, nil, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil).WithContext(ctx)
	req = testutil.WithUser(req, testutil.UserWithRole(models.RoleMedicalStore))

	resp := serve(t, h, req)
	if len(resp.Cards) != 3 {
		t.Errorf("expected 3 cards, got %d", len(resp.Cards))
	}
	if len(cache.data) != 0 {
		t.Errorf("partial dashboard was cached: %v", cache.data)
	}
}
