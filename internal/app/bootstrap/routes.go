// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"
	"strings"

	appointmentsfeature "github.com/bonchi/carehub/internal/app/features/appointments"
	auditlogfeature "github.com/bonchi/carehub/internal/app/features/auditlog"
	dashboardfeature "github.com/bonchi/carehub/internal/app/features/dashboard"
	errorsfeature "github.com/bonchi/carehub/internal/app/features/errors"
	healthfeature "github.com/bonchi/carehub/internal/app/features/health"
	loginfeature "github.com/bonchi/carehub/internal/app/features/login"
	logoutfeature "github.com/bonchi/carehub/internal/app/features/logout"
	ordersfeature "github.com/bonchi/carehub/internal/app/features/orders"
	profilefeature "github.com/bonchi/carehub/internal/app/features/profile"
	schedulesfeature "github.com/bonchi/carehub/internal/app/features/schedules"
	uploadfeature "github.com/bonchi/carehub/internal/app/features/upload"
	userstore "github.com/bonchi/carehub/internal/app/store/users"
	"github.com/bonchi/carehub/internal/app/system/auth"
	"github.com/bonchi/carehub/internal/app/system/middleware"
	"github.com/bonchi/carehub/internal/app/system/timezones"
	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/pantry/fileserver"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed. At this point you have access to:
//   - coreCfg: WAFFLE core configuration (ports, env, timeouts, etc.)
//   - appCfg: app-specific configuration defined in AppConfig
//   - deps: any DB or backend clients bundled in DBDeps
//   - logger: the fully configured zap.Logger for this app
//
// carehub serves JSON only. Every route sits behind request IDs, request
// logging, panic recovery, metrics, CORS for the frontend and the session
// loader, in that order.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain,
		appCfg.SessionMaxAge, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	// Fresh user data on each request: role changes and disabled accounts
	// take effect immediately.
	sessionMgr.SetUserFetcher(userstore.NewFetcher(deps.CareHubMongoDatabase))

	loc, err := timezones.Location(appCfg.Timezone)
	if err != nil {
		logger.Error("time zone init failed", zap.String("timezone", appCfg.Timezone), zap.Error(err))
		return nil, err
	}

	errLog := errorsfeature.NewErrorLogger(logger)
	db := deps.CareHubMongoDatabase

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	if appCfg.TrustProxy {
		r.Use(chimw.RealIP)
	}
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.Recoverer(logger))
	r.Use(deps.Metrics.Middleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   appCfg.CORSAllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"Retry-After", "X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(sessionMgr.LoadSessionUser)

	r.NotFound(errorsfeature.NotFound)
	r.MethodNotAllowed(errorsfeature.MethodNotAllowed)

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.CareHubMongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))
	r.Method(http.MethodGet, "/metrics", deps.Metrics.Handler())

	// Authentication
	loginHandler := loginfeature.NewHandler(db, sessionMgr, errLog, deps.AuditLog, deps.LoginLimiter, deps.Metrics, logger)
	r.Mount("/login", loginfeature.Routes(loginHandler))

	logoutHandler := logoutfeature.NewHandler(sessionMgr, deps.AuditLog, logger)
	r.Mount("/logout", logoutfeature.Routes(logoutHandler, sessionMgr))

	profileHandler := profilefeature.NewHandler(db, errLog, logger)
	r.Mount("/me", profilefeature.Routes(profileHandler, sessionMgr))

	// Role-based dashboards
	dashboardHandler := dashboardfeature.NewHandler(db, deps.DashCache, deps.Metrics, logger)
	dashboardHandler.Location = loc
	r.Mount("/dashboard", dashboardfeature.Routes(dashboardHandler, sessionMgr))

	// Uploads
	uploadHandler := uploadfeature.NewHandler(db, deps.Files, uploadfeature.Options{
		Prefix:   appCfg.StorageS3Prefix,
		MaxBytes: appCfg.UploadMaxBytes,
	}, errLog, deps.AuditLog, deps.Metrics, logger)
	r.Mount("/upload", uploadfeature.Routes(uploadHandler, sessionMgr))

	// Role views
	appointmentsHandler := appointmentsfeature.NewHandler(db, errLog, logger)
	r.Mount("/appointments", appointmentsfeature.Routes(appointmentsHandler, sessionMgr))

	ordersHandler := ordersfeature.NewHandler(db, errLog, logger)
	r.Mount("/orders", ordersfeature.Routes(ordersHandler, sessionMgr))

	schedulesHandler := schedulesfeature.NewHandler(db, errLog, logger)
	r.Mount("/schedules", schedulesfeature.Routes(schedulesHandler, sessionMgr))

	// Audit trail (admins, and coordinators for their district)
	auditHandler := auditlogfeature.NewHandler(db, errLog, logger)
	auditHandler.Location = loc
	r.Mount("/audit", auditlogfeature.Routes(auditHandler, sessionMgr))

	// Locally stored uploads are served by the app itself; S3 objects are
	// fetched from the bucket directly.
	if isLocalStorage(appCfg) {
		prefix := "/" + strings.Trim(appCfg.StorageLocalURL, "/")
		r.Handle(prefix+"/*", fileserver.Handler(prefix, appCfg.StorageLocalPath))
	}

	return r, nil
}

func isLocalStorage(appCfg AppConfig) bool {
	t := strings.ToLower(appCfg.StorageType)
	return (t == "" || t == "local") && appCfg.StorageLocalURL != "" && strings.HasPrefix(appCfg.StorageLocalURL, "/")
}
