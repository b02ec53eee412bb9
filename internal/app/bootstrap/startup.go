// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"
	"errors"

	"github.com/bonchi/carehub/internal/app/seed"
	"github.com/bonchi/carehub/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// Startup runs one-time application initialization after DB connections and
// schema setup are complete, but before the HTTP handler is built.
//
// It applies CAREHUB_TIMEOUT_* overrides and, when admin_mobile is set,
// makes sure that account exists with the admin role.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if n := timeouts.ConfigureFromEnv(); n > 0 {
		logger.Info("timeout overrides applied", zap.Int("count", n))
	}
	return ensureAdmin(ctx, appCfg, deps, logger)
}

func ensureAdmin(ctx context.Context, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if appCfg.AdminMobile == "" {
		return nil
	}

	s := seed.New(deps.CareHubMongoDatabase, deps.AuditLog, logger)
	action, err := s.EnsureAdmin(ctx, appCfg.AdminMobile, appCfg.AdminName, appCfg.AdminPassword)
	switch {
	case errors.Is(err, seed.ErrPasswordNeeded):
		logger.Warn("admin_mobile has no account and admin_password is empty; skipping admin bootstrap",
			zap.String("mobile", appCfg.AdminMobile))
		return nil
	case err != nil:
		logger.Error("admin bootstrap failed", zap.String("mobile", appCfg.AdminMobile), zap.Error(err))
		return err
	}

	logger.Info("admin bootstrap", zap.String("mobile", appCfg.AdminMobile), zap.String("action", action))
	return nil
}
