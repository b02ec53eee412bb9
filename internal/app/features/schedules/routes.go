// internal/app/features/schedules/routes.go
package schedules

import (
	"github.com/bonchi/carehub/internal/app/system/auth"
	"github.com/bonchi/carehub/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

// Routes is mounted at /schedules.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Use(sm.RequireRole(models.RoleHealthAssistant, models.RoleDistrictCoordinator, models.RoleAdmin))
	r.Get("/", h.ServeList)
	return r
}
