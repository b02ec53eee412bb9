// internal/app/features/upload/routes.go
package upload

import (
	"github.com/bonchi/carehub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes is mounted at /upload.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Use(sm.RequireSignedIn)
	r.Post("/", h.HandleUpload)
	r.Get("/mine", h.ServeMine)
	return r
}
