// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for carehub.
//
// These values come from environment variables (CAREHUB_*), configuration
// files, or command-line flags (loaded in LoadConfig). WAFFLE's CoreConfig
// covers the framework-level settings: ports, TLS, log level and request
// timeouts.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64 // Maximum connections in pool (default: 100)
	MongoMinPoolSize uint64 // Minimum connections to keep warm (default: 10)

	// Session management configuration
	SessionKey    string        // Secret key for signing session cookies (must be strong in production)
	SessionName   string        // Cookie name for sessions (default: carehub-session)
	SessionDomain string        // Cookie domain (blank means current host)
	SessionMaxAge time.Duration // Cookie lifetime

	// File storage configuration
	StorageType      string // Storage backend: "local" or "s3"
	StorageLocalPath string // Local storage path (e.g., "./uploads")
	StorageLocalURL  string // URL prefix for serving local files (e.g., "/files")

	// S3 configuration (only used if StorageType is "s3")
	StorageS3Region    string // AWS region
	StorageS3Bucket    string // S3 bucket name
	StorageS3Endpoint  string // Custom endpoint for S3-compatible providers (blank for AWS)
	StorageS3PathStyle bool   // Path-style addressing (MinIO and most self-hosted providers)
	StorageS3AccessKey string // Static credentials; blank uses the default AWS chain
	StorageS3SecretKey string
	StorageS3Prefix    string // First key segment (default: bonchi)

	// Uploads
	UploadMaxBytes int64 // Largest accepted file (default: 10 MB)

	// Dashboard cache (Redis); blank address disables caching
	RedisAddr         string
	RedisPassword     string
	RedisDB           int
	DashboardCacheTTL time.Duration

	// Zone for dashboard day boundaries (default: Asia/Kolkata)
	Timezone string

	// CORS origins allowed to call the API with credentials
	CORSAllowedOrigins []string

	// TrustProxy takes the client address from X-Forwarded-For / X-Real-IP.
	// Enable only behind a proxy that sets those headers itself.
	TrustProxy bool

	// Admin bootstrap: the account with this mobile is created or promoted on startup
	AdminMobile   string
	AdminName     string
	AdminPassword string

	// Audit logging: "all", "db", "log" or "off" per category
	AuditLogAuth   string
	AuditLogAdmin  string
	AuditLogUpload string
}
