// internal/app/bootstrap/config.go
package bootstrap

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bonchi/carehub/internal/app/system/auditlog"
	"github.com/bonchi/carehub/internal/app/system/normalize"
	"github.com/bonchi/carehub/internal/app/system/timezones"
	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// appConfigKeys defines the configuration keys for carehub.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, session_name, etc.
//   - Environment variables: CAREHUB_MONGO_URI, CAREHUB_SESSION_NAME, etc.
//   - Command-line flags: --mongo_uri, --session_name, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "carehub", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size (default: 100)"},
	{Name: "mongo_min_pool_size", Default: 10, Desc: "MongoDB min connection pool size (default: 10)"},
	{Name: "session_key", Default: "dev-only-change-me-please-0123456789ABCDEF", Desc: "Session signing key (must be strong in production)"},
	{Name: "session_name", Default: "carehub-session", Desc: "Session cookie name"},
	{Name: "session_domain", Default: "", Desc: "Session cookie domain (blank means current host)"},
	{Name: "session_max_age", Default: "24h", Desc: "Session cookie lifetime"},

	// File storage configuration
	{Name: "storage_type", Default: "local", Desc: "Storage backend: 'local' or 's3'"},
	{Name: "storage_local_path", Default: "./uploads", Desc: "Local storage path for uploaded files"},
	{Name: "storage_local_url", Default: "/files", Desc: "URL prefix for serving local files"},

	// S3 configuration
	{Name: "storage_s3_region", Default: "", Desc: "AWS region for S3"},
	{Name: "storage_s3_bucket", Default: "", Desc: "S3 bucket name"},
	{Name: "storage_s3_endpoint", Default: "", Desc: "Custom S3 endpoint for S3-compatible storage (blank for AWS)"},
	{Name: "storage_s3_path_style", Default: false, Desc: "Use path-style S3 addressing"},
	{Name: "storage_s3_access_key", Default: "", Desc: "S3 access key (blank uses the default AWS credential chain)"},
	{Name: "storage_s3_secret_key", Default: "", Desc: "S3 secret key"},
	{Name: "storage_s3_prefix", Default: "bonchi", Desc: "First segment of every uploaded object key"},

	// Uploads
	{Name: "upload_max_bytes", Default: 10 << 20, Desc: "Largest accepted upload in bytes (default: 10 MB)"},

	// Dashboard cache
	{Name: "redis_addr", Default: "", Desc: "Redis address for the dashboard cache (blank disables caching)"},
	{Name: "redis_password", Default: "", Desc: "Redis password"},
	{Name: "redis_db", Default: 0, Desc: "Redis database number"},
	{Name: "dashboard_cache_ttl", Default: "60s", Desc: "How long dashboard counts are cached"},

	{Name: "timezone", Default: "Asia/Kolkata", Desc: "Time zone for dashboard day boundaries"},

	// CORS
	{Name: "cors_allowed_origins", Default: "http://localhost:3000", Desc: "Comma-separated origins allowed to call the API"},
	{Name: "trust_proxy", Default: false, Desc: "Read the client IP from proxy headers (only behind a trusted proxy)"},

	// Admin bootstrap
	{Name: "admin_mobile", Default: "", Desc: "Mobile of the admin user (promotes/creates on startup)"},
	{Name: "admin_name", Default: "Administrator", Desc: "Full name used when the admin user is created"},
	{Name: "admin_password", Default: "", Desc: "Password used when the admin user is created"},

	// Audit logging settings
	{Name: "audit_log_auth", Default: "all", Desc: "Auth event logging: 'all' (db+log), 'db', 'log', or 'off'"},
	{Name: "audit_log_admin", Default: "all", Desc: "Admin event logging: 'all' (db+log), 'db', 'log', or 'off'"},
	{Name: "audit_log_upload", Default: "all", Desc: "Upload event logging: 'all' (db+log), 'db', 'log', or 'off'"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// WAFFLE's config.LoadWithAppConfig handles:
//   - Loading from .env files
//   - Loading from config.yaml/json/toml files
//   - Reading environment variables (WAFFLE_* for core, CAREHUB_* for app)
//   - Parsing command-line flags
//   - Merging with precedence: flags > env > files > defaults
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "CAREHUB", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),
		SessionKey:       appValues.String("session_key"),
		SessionName:      appValues.String("session_name"),
		SessionDomain:    appValues.String("session_domain"),
		SessionMaxAge:    appValues.Duration("session_max_age", 24*time.Hour),

		// File storage
		StorageType:      appValues.String("storage_type"),
		StorageLocalPath: appValues.String("storage_local_path"),
		StorageLocalURL:  appValues.String("storage_local_url"),

		// S3
		StorageS3Region:    appValues.String("storage_s3_region"),
		StorageS3Bucket:    appValues.String("storage_s3_bucket"),
		StorageS3Endpoint:  appValues.String("storage_s3_endpoint"),
		StorageS3PathStyle: appValues.Bool("storage_s3_path_style"),
		StorageS3AccessKey: appValues.String("storage_s3_access_key"),
		StorageS3SecretKey: appValues.String("storage_s3_secret_key"),
		StorageS3Prefix:    appValues.String("storage_s3_prefix"),

		UploadMaxBytes: int64(appValues.Int("upload_max_bytes")),

		// Dashboard cache
		RedisAddr:         appValues.String("redis_addr"),
		RedisPassword:     appValues.String("redis_password"),
		RedisDB:           appValues.Int("redis_db"),
		DashboardCacheTTL: appValues.Duration("dashboard_cache_ttl", time.Minute),

		Timezone: appValues.String("timezone"),

		CORSAllowedOrigins: splitList(appValues.String("cors_allowed_origins")),
		TrustProxy:         appValues.Bool("trust_proxy"),

		// Admin bootstrap
		AdminMobile:   normalize.Mobile(appValues.String("admin_mobile")),
		AdminName:     appValues.String("admin_name"),
		AdminPassword: appValues.String("admin_password"),

		// Audit logging
		AuditLogAuth:   appValues.String("audit_log_auth"),
		AuditLogAdmin:  appValues.String("audit_log_admin"),
		AuditLogUpload: appValues.String("audit_log_upload"),
	}

	return coreCfg, appCfg, nil
}

// splitList turns "a, b,,c" into [a b c].
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// ValidateConfig performs app-specific config validation.
//
// Return nil to accept the loaded config, or an error to abort startup.
// carehub validates the MongoDB URI format to catch configuration errors
// early, before attempting to connect.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}

	switch strings.ToLower(appCfg.StorageType) {
	case "", "local":
		if appCfg.StorageLocalPath == "" {
			return errors.New("storage_local_path is required for local storage")
		}
	case "s3":
		if appCfg.StorageS3Bucket == "" || appCfg.StorageS3Region == "" {
			return errors.New("s3 storage requires storage_s3_bucket and storage_s3_region")
		}
	default:
		return fmt.Errorf("storage_type must be 'local' or 's3', got %q", appCfg.StorageType)
	}

	if appCfg.Timezone != "" && !timezones.Valid(appCfg.Timezone) {
		return fmt.Errorf("unsupported timezone %q", appCfg.Timezone)
	}

	if appCfg.UploadMaxBytes <= 0 {
		return fmt.Errorf("upload_max_bytes must be positive, got %d", appCfg.UploadMaxBytes)
	}

	for name, v := range map[string]string{
		"audit_log_auth":   appCfg.AuditLogAuth,
		"audit_log_admin":  appCfg.AuditLogAdmin,
		"audit_log_upload": appCfg.AuditLogUpload,
	} {
		switch v {
		case "", auditlog.All, auditlog.DB, auditlog.Log, auditlog.Off:
		default:
			return fmt.Errorf("%s must be 'all', 'db', 'log' or 'off', got %q", name, v)
		}
	}

	if appCfg.AdminMobile != "" && !normalize.IsValidMobile(appCfg.AdminMobile) {
		return fmt.Errorf("admin_mobile %q is not a 10-digit mobile number", appCfg.AdminMobile)
	}

	if coreCfg != nil && coreCfg.Env == "prod" && strings.HasPrefix(appCfg.SessionKey, "dev-only") {
		return errors.New("session_key must be set in production")
	}

	return nil
}
