// internal/app/features/auditlog/routes.go
package auditlog

import (
	"github.com/bonchi/carehub/internal/app/system/auth"
	"github.com/bonchi/carehub/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

// Routes mounts all audit log routes under the path where this
// router is mounted (typically "/audit" from bootstrap).
//
// Admins see all events; district coordinators see events about people
// registered in their district.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Use(sm.RequireRole(models.RoleAdmin, models.RoleDistrictCoordinator))

		pr.Get("/", h.ServeList)
	})

	return r
}
