// internal/app/bootstrap/db.go
package bootstrap

import (
	"context"
	"fmt"
	"time"

	auditstore "github.com/bonchi/carehub/internal/app/store/audit"
	"github.com/bonchi/carehub/internal/app/system/auditlog"
	"github.com/bonchi/carehub/internal/app/system/dashcache"
	"github.com/bonchi/carehub/internal/app/system/filestore"
	"github.com/bonchi/carehub/internal/app/system/indexes"
	"github.com/bonchi/carehub/internal/app/system/metrics"
	"github.com/bonchi/carehub/internal/app/system/ratelimit"
	"github.com/bonchi/carehub/internal/app/system/validators"
	"github.com/dalemusser/waffle/config"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// ConnectDB opens MongoDB, the file store and the dashboard cache, and builds
// the in-process helpers that handlers share. Anything opened before a
// failure is closed again.
func ConnectDB(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) (DBDeps, error) {
	client, err := connectMongo(ctx, appCfg)
	if err != nil {
		logger.Error("MongoDB connect failed", zap.Error(err))
		return DBDeps{}, err
	}
	db := client.Database(appCfg.MongoDatabase)
	logger.Info("connected to MongoDB",
		zap.String("database", appCfg.MongoDatabase),
		zap.Uint64("max_pool_size", appCfg.MongoMaxPoolSize))

	files, err := filestore.New(ctx, storageConfig(appCfg))
	if err != nil {
		_ = client.Disconnect(context.Background())
		logger.Error("file storage init failed", zap.String("type", appCfg.StorageType), zap.Error(err))
		return DBDeps{}, err
	}

	cache, err := dashcache.New(ctx, dashcache.Config{
		Addr:     appCfg.RedisAddr,
		Password: appCfg.RedisPassword,
		DB:       appCfg.RedisDB,
		TTL:      appCfg.DashboardCacheTTL,
	})
	if err != nil {
		_ = client.Disconnect(context.Background())
		logger.Error("dashboard cache init failed", zap.String("addr", appCfg.RedisAddr), zap.Error(err))
		return DBDeps{}, err
	}
	if appCfg.RedisAddr == "" {
		logger.Info("dashboard cache disabled")
	}

	audit := auditlog.New(auditstore.New(db), logger, auditlog.Config{
		Auth:   appCfg.AuditLogAuth,
		Admin:  appCfg.AuditLogAdmin,
		Upload: appCfg.AuditLogUpload,
	})

	return DBDeps{
		CareHubMongoClient:   client,
		CareHubMongoDatabase: db,
		Files:                files,
		DashCache:            cache,
		Metrics:              metrics.New(),
		LoginLimiter:         ratelimit.NewLoginLimiter(),
		AuditLog:             audit,
	}, nil
}

func connectMongo(ctx context.Context, appCfg AppConfig) (*mongo.Client, error) {
	opts := options.Client().
		ApplyURI(appCfg.MongoURI).
		SetMaxPoolSize(appCfg.MongoMaxPoolSize).
		SetMinPoolSize(appCfg.MongoMinPoolSize).
		SetServerSelectionTimeout(10 * time.Second)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}
	return client, nil
}

func storageConfig(appCfg AppConfig) filestore.Config {
	return filestore.Config{
		Type:        appCfg.StorageType,
		LocalPath:   appCfg.StorageLocalPath,
		LocalURL:    appCfg.StorageLocalURL,
		S3Region:    appCfg.StorageS3Region,
		S3Bucket:    appCfg.StorageS3Bucket,
		S3Endpoint:  appCfg.StorageS3Endpoint,
		S3PathStyle: appCfg.StorageS3PathStyle,
		S3AccessKey: appCfg.StorageS3AccessKey,
		S3SecretKey: appCfg.StorageS3SecretKey,
	}
}

// EnsureSchema applies collection validators and then indexes. Both are
// idempotent, so this runs on every start.
func EnsureSchema(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	db := deps.CareHubMongoDatabase
	if err := validators.EnsureAll(ctx, db); err != nil {
		logger.Error("ensure validators failed", zap.Error(err))
		return err
	}
	if err := indexes.EnsureAll(ctx, db); err != nil {
		logger.Error("ensure indexes failed", zap.Error(err))
		return err
	}
	logger.Info("schema ready")
	return nil
}
