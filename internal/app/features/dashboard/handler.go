// internal/app/features/dashboard/handler.go
package dashboard

import (
	"net/http"
	"time"

	uierrors "github.com/bonchi/carehub/internal/app/features/errors"
	metricsstore "github.com/bonchi/carehub/internal/app/store/metrics"
	"github.com/bonchi/carehub/internal/app/system/auth"
	"github.com/bonchi/carehub/internal/app/system/authz"
	"github.com/bonchi/carehub/internal/app/system/dashcache"
	"github.com/bonchi/carehub/internal/app/system/metrics"
	"github.com/bonchi/carehub/internal/app/system/timeouts"
	"github.com/bonchi/carehub/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type Handler struct {
	DB      *mongo.Database
	Cache   dashcache.Cache
	Metrics *metrics.Metrics
	Log     *zap.Logger

	// Location sets the day boundary for "today" cards. Nil means UTC.
	Location *time.Location
}

func NewHandler(db *mongo.Database, cache dashcache.Cache, m *metrics.Metrics, logger *zap.Logger) *Handler {
	if cache == nil {
		cache = dashcache.Nop{}
	}
	return &Handler{
		DB:      db,
		Cache:   cache,
		Metrics: m,
		Log:     logger,
	}
}

// dashboardData is the body of GET /dashboard and the cached value.
type dashboardData struct {
	Role        string              `json:"role"`
	Cards       []metricsstore.Card `json:"cards"`
	GeneratedAt time.Time           `json:"generated_at"`
	Cached      bool                `json:"cached"`
}

// ServeDashboard dispatches on the caller's role and answers with that role's
// cards. Roles without a dashboard get 403.
func (h *Handler) ServeDashboard(w http.ResponseWriter, r *http.Request) {
	role, _, uid, ok := authz.UserCtx(r)
	if !ok {
		uierrors.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	if !models.IsValidRole(role) {
		uierrors.WriteError(w, http.StatusForbidden, "forbidden")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "dashboard")
	defer cancel()

	key := dashcache.Key(role, uid.Hex())
	var data dashboardData
	hit, err := h.Cache.Get(ctx, key, &data)
	if err != nil {
		h.Log.Warn("dashboard cache read failed; using database", zap.Error(err))
		hit = false
	}
	h.Metrics.ObserveCache(hit)
	if hit {
		data.Cached = true
		uierrors.WriteJSON(w, http.StatusOK, data)
		return
	}

	now := time.Now().UTC()
	if h.Location != nil {
		now = now.In(h.Location)
	}
	district := ""
	if u, ok := auth.CurrentUser(r); ok {
		district = u.District
	}
	cards, err := metricsstore.FetchRoleCounts(ctx, h.DB, metricsstore.Scope{
		Role:     role,
		UserID:   uid,
		District: district,
		Now:      now,
	})
	data = dashboardData{
		Role:        role,
		Cards:       cards,
		GeneratedAt: now.UTC(),
	}

	// Partial counts are served but never cached.
	if err != nil {
		h.Log.Warn("dashboard counts incomplete; not caching",
			zap.String("role", role), zap.String("user_id", uid.Hex()), zap.Error(err))
	} else if err := h.Cache.Set(ctx, key, data); err != nil {
		h.Log.Warn("dashboard cache write failed", zap.Error(err))
	}
	uierrors.WriteJSON(w, http.StatusOK, data)
}
