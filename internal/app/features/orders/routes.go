// internal/app/features/orders/routes.go
package orders

import (
	"github.com/bonchi/carehub/internal/app/system/auth"
	"github.com/bonchi/carehub/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

// Routes is mounted at /orders.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Use(sm.RequireRole(models.RoleMedicalStore, models.RoleDistrictCoordinator, models.RoleAdmin))
	r.Get("/", h.ServeList)
	return r
}
