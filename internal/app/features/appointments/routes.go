// internal/app/features/appointments/routes.go
package appointments

import (
	"github.com/bonchi/carehub/internal/app/system/auth"
	"github.com/bonchi/carehub/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

// Routes is mounted at /appointments.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Use(sm.RequireRole(models.RoleHospital, models.RoleDistrictCoordinator, models.RoleAdmin))
	r.Get("/", h.ServeList)
	return r
}
