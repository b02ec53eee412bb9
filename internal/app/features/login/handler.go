// internal/app/features/login/handler.go
package login

import (
	"encoding/json"
	"errors"
	"net/http"

	uierrors "github.com/bonchi/carehub/internal/app/features/errors"
	userstore "github.com/bonchi/carehub/internal/app/store/users"
	"github.com/bonchi/carehub/internal/app/system/auditlog"
	"github.com/bonchi/carehub/internal/app/system/auth"
	"github.com/bonchi/carehub/internal/app/system/authutil"
	"github.com/bonchi/carehub/internal/app/system/inputval"
	"github.com/bonchi/carehub/internal/app/system/metrics"
	"github.com/bonchi/carehub/internal/app/system/normalize"
	"github.com/bonchi/carehub/internal/app/system/ratelimit"
	"github.com/bonchi/carehub/internal/app/system/timeouts"
	"github.com/bonchi/carehub/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// maxBodyBytes caps the login request body.
const maxBodyBytes = 16 << 10

// invalidCredentials is the only message an unknown mobile or a wrong
// password ever produces.
const invalidCredentials = "Invalid mobile number or password."

type Handler struct {
	DB         *mongo.Database
	Log        *zap.Logger
	SessionMgr *auth.SessionManager
	ErrLog     *uierrors.ErrorLogger
	AuditLog   *auditlog.Logger
	Limiter    *ratelimit.LoginLimiter
	Metrics    *metrics.Metrics
}

func NewHandler(db *mongo.Database, sessionMgr *auth.SessionManager, errLog *uierrors.ErrorLogger,
	audit *auditlog.Logger, limiter *ratelimit.LoginLimiter, m *metrics.Metrics, logger *zap.Logger) *Handler {
	return &Handler{
		DB:         db,
		Log:        logger,
		SessionMgr: sessionMgr,
		ErrLog:     errLog,
		AuditLog:   audit,
		Limiter:    limiter,
		Metrics:    m,
	}
}

type loginRequest struct {
	Mobile   string `json:"mobile" validate:"required,mobile" label:"Mobile"`
	Password string `json:"password" validate:"required,max=72" label:"Password"`
}

type loginResponse struct {
	User *auth.SessionUser `json:"user"`
}

// HandleLogin handles POST /login.
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ErrLog.LogBadRequest(w, r, "login: decode body", err, "Request body must be JSON with mobile and password.")
		return
	}
	if res := inputval.Validate(req); res.HasErrors() {
		uierrors.WriteValidation(w, res.First(), res.Map())
		return
	}
	mobile := normalize.Mobile(req.Mobile)

	if h.Limiter != nil && !h.Limiter.Allow(ratelimit.ClientIP(r), mobile) {
		h.AuditLog.LoginFailedRateLimit(r.Context(), r, mobile)
		h.Metrics.ObserveLogin(metrics.LoginRateLimited)
		w.Header().Set("Retry-After", "60")
		uierrors.WriteError(w, http.StatusTooManyRequests, "Too many login attempts. Please wait and try again.")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "login lookup")
	defer cancel()

	u, err := userstore.New(h.DB).GetByMobile(ctx, mobile)
	if errors.Is(err, userstore.ErrNotFound) {
		// Burn comparable time so unknown numbers are not distinguishable.
		authutil.CheckPassword(req.Password, dummyHash)
		h.AuditLog.LoginFailedUserNotFound(r.Context(), r, mobile)
		h.Metrics.ObserveLogin(metrics.LoginBadCreds)
		uierrors.WriteError(w, http.StatusUnauthorized, invalidCredentials)
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "login: load user", err, "A database error occurred.")
		return
	}

	if !authutil.CheckPassword(req.Password, u.PasswordHash) {
		h.AuditLog.LoginFailedWrongPassword(r.Context(), r, u.ID, mobile)
		h.Metrics.ObserveLogin(metrics.LoginBadCreds)
		uierrors.WriteError(w, http.StatusUnauthorized, invalidCredentials)
		return
	}
	if normalize.Status(u.Status) == models.StatusDisabled {
		h.AuditLog.LoginFailedUserDisabled(r.Context(), r, u.ID, mobile)
		h.Metrics.ObserveLogin(metrics.LoginDisabled)
		uierrors.WriteError(w, http.StatusForbidden, "This account has been disabled.")
		return
	}

	if err := h.SessionMgr.Login(w, r, u.ID.Hex()); err != nil {
		h.ErrLog.LogServerError(w, r, "login: save session", err, "Unable to start a session.")
		return
	}
	if h.Limiter != nil {
		h.Limiter.Succeeded(mobile)
	}
	h.AuditLog.LoginSuccess(r.Context(), r, u.ID, mobile)
	h.Metrics.ObserveLogin(metrics.LoginOK)
	h.Log.Info("user signed in", zap.String("user_id", u.ID.Hex()), zap.String("role", u.Role))

	uierrors.WriteJSON(w, http.StatusOK, loginResponse{User: &auth.SessionUser{
		ID:       u.ID.Hex(),
		Name:     u.FullName,
		Mobile:   u.Mobile,
		Role:     normalize.Role(u.Role),
		District: u.District,
	}})
}

// dummyHash is a bcrypt hash of a random string, compared against when the
// mobile number is unknown.
const dummyHash = "$2a$12$C6UzMDM.H6dfI/f/IKcEeO5dM5bQ8k8sKc0YpQWfFGYj1lC0p1xGm"
