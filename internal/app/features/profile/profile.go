// internal/app/features/profile/profile.go
package profile

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	uierrors "github.com/bonchi/carehub/internal/app/features/errors"
	coordinatorstore "github.com/bonchi/carehub/internal/app/store/coordinators"
	userstore "github.com/bonchi/carehub/internal/app/store/users"
	"github.com/bonchi/carehub/internal/app/system/authutil"
	"github.com/bonchi/carehub/internal/app/system/authz"
	"github.com/bonchi/carehub/internal/app/system/timeouts"
	"github.com/bonchi/carehub/internal/domain/models"
	"go.uber.org/zap"
)

// profileResponse is the body of GET /me. Coordinator is present only for
// district coordinators that have a profile.
type profileResponse struct {
	User          *models.User                `json:"user"`
	Coordinator   *models.DistrictCoordinator `json:"coordinator,omitempty"`
	PasswordRules []string                    `json:"password_rules"`
}

// ServeProfile handles GET /me.
func (h *Handler) ServeProfile(w http.ResponseWriter, r *http.Request) {
	role, _, uid, ok := authz.UserCtx(r)
	if !ok {
		uierrors.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	user, err := userstore.New(h.DB).GetByID(ctx, uid)
	if errors.Is(err, userstore.ErrNotFound) {
		uierrors.NotFound(w, r)
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "profile: load user", err, "A database error occurred.")
		return
	}

	resp := profileResponse{User: user, PasswordRules: authutil.PasswordRules()}
	if role == models.RoleDistrictCoordinator {
		dc, err := coordinatorstore.New(h.DB).GetByUserID(ctx, uid)
		switch {
		case err == nil:
			resp.Coordinator = dc
		case errors.Is(err, coordinatorstore.ErrNotFound):
			// account exists without a profile; answer with the user alone
		default:
			h.ErrLog.LogServerError(w, r, "profile: load coordinator", err, "A database error occurred.")
			return
		}
	}

	uierrors.WriteJSON(w, http.StatusOK, resp)
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// HandleChangePassword handles POST /me/password.
func (h *Handler) HandleChangePassword(w http.ResponseWriter, r *http.Request) {
	_, _, uid, ok := authz.UserCtx(r)
	if !ok {
		uierrors.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 16<<10)
	var req changePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ErrLog.LogBadRequest(w, r, "profile: decode body", err, "Request body must be JSON.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	users := userstore.New(h.DB)
	user, err := users.GetByID(ctx, uid)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "profile: load user", err, "A database error occurred.")
		return
	}

	if !authutil.CheckPassword(req.CurrentPassword, user.PasswordHash) {
		uierrors.WriteValidation(w, "Current password is incorrect.",
			map[string]string{"current_password": "Current password is incorrect."})
		return
	}
	if err := authutil.ValidatePassword(req.NewPassword); err != nil {
		uierrors.WriteValidation(w, err.Error(), map[string]string{"new_password": err.Error()})
		return
	}
	if authutil.CheckPassword(req.NewPassword, user.PasswordHash) {
		msg := "New password cannot be the same as your current password."
		uierrors.WriteValidation(w, msg, map[string]string{"new_password": msg})
		return
	}

	if err := users.SetPassword(ctx, uid, req.NewPassword); err != nil {
		h.ErrLog.LogServerError(w, r, "profile: set password", err, "Failed to update password.")
		return
	}
	h.Log.Info("password changed", zap.String("user_id", uid.Hex()))
	w.WriteHeader(http.StatusNoContent)
}
