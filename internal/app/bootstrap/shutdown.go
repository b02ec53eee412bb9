// internal/app/bootstrap/shutdown.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// Shutdown cleanly tears down DB connections and other resources.
func Shutdown(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if deps.LoginLimiter != nil {
		deps.LoginLimiter.Stop()
	}
	if deps.DashCache != nil {
		if err := deps.DashCache.Close(); err != nil {
			logger.Warn("dashboard cache close failed", zap.Error(err))
		}
	}
	if deps.CareHubMongoClient != nil {
		logger.Info("disconnecting CareHub MongoDB client")
		if err := deps.CareHubMongoClient.Disconnect(ctx); err != nil {
			logger.Error("MongoDB disconnect failed", zap.Error(err))
			return err
		}
	}
	return nil
}
