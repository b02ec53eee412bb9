// internal/app/features/profile/routes.go
package profile

import (
	"github.com/bonchi/carehub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes is mounted at /me.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Use(sm.RequireSignedIn)
	r.Get("/", h.ServeProfile)
	r.Post("/password", h.HandleChangePassword)
	return r
}
