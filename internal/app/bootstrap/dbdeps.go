// internal/app/bootstrap/dbdeps.go
package bootstrap

import (
	"github.com/bonchi/carehub/internal/app/system/auditlog"
	"github.com/bonchi/carehub/internal/app/system/dashcache"
	"github.com/bonchi/carehub/internal/app/system/filestore"
	"github.com/bonchi/carehub/internal/app/system/metrics"
	"github.com/bonchi/carehub/internal/app/system/ratelimit"
	"go.mongodb.org/mongo-driver/mongo"
)

// DBDeps holds database/back-end dependencies for the app.
type DBDeps struct {
	CareHubMongoClient   *mongo.Client
	CareHubMongoDatabase *mongo.Database

	Files        filestore.Store
	DashCache    dashcache.Cache
	Metrics      *metrics.Metrics
	LoginLimiter *ratelimit.LoginLimiter
	AuditLog     *auditlog.Logger
}
