// internal/app/features/logout/handler.go
package logout

import (
	"net/http"

	uierrors "github.com/bonchi/carehub/internal/app/features/errors"
	"github.com/bonchi/carehub/internal/app/system/auditlog"
	"github.com/bonchi/carehub/internal/app/system/auth"
	"go.uber.org/zap"
)

type Handler struct {
	Log        *zap.Logger
	SessionMgr *auth.SessionManager
	AuditLog   *auditlog.Logger
}

func NewHandler(sessionMgr *auth.SessionManager, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		Log:        logger,
		SessionMgr: sessionMgr,
		AuditLog:   audit,
	}
}

// HandleLogout handles POST /logout. It always answers 204; a session that
// cannot be cleared is logged.
func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	userID := ""
	if u, ok := auth.CurrentUser(r); ok {
		userID = u.ID
	}
	if err := h.SessionMgr.Logout(w, r); err != nil {
		h.Log.Error("logout: clear session", zap.Error(err))
		uierrors.WriteError(w, http.StatusInternalServerError, "Unable to end the session.")
		return
	}
	h.AuditLog.Logout(r.Context(), r, userID)
	w.WriteHeader(http.StatusNoContent)
}
