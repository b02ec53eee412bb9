// internal/app/features/upload/handler.go
package upload

import (
	"context"

	uierrors "github.com/bonchi/carehub/internal/app/features/errors"
	uploadstore "github.com/bonchi/carehub/internal/app/store/uploads"
	"github.com/bonchi/carehub/internal/app/system/auditlog"
	"github.com/bonchi/carehub/internal/app/system/filestore"
	"github.com/bonchi/carehub/internal/app/system/metrics"
	"github.com/bonchi/carehub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// DefaultMaxBytes is the largest file POST /upload accepts unless configured
// otherwise.
const DefaultMaxBytes int64 = 10 << 20

// DefaultPrefix is the first segment of every object key.
const DefaultPrefix = "bonchi"

// multipartOverhead is the allowance for boundaries and part headers on top
// of the file itself.
const multipartOverhead int64 = 1 << 20

// Recorder persists upload metadata. *uploadstore.Store satisfies it.
type Recorder interface {
	Create(ctx context.Context, u models.Upload) (models.Upload, error)
	ListByUploader(ctx context.Context, userID primitive.ObjectID, limit int64) ([]models.Upload, error)
}

type Handler struct {
	Files    filestore.Store
	Uploads  Recorder
	Prefix   string
	MaxBytes int64
	ErrLog   *uierrors.ErrorLogger
	AuditLog *auditlog.Logger
	Metrics  *metrics.Metrics
	Log      *zap.Logger
}

// Options configures NewHandler. Zero values take the defaults.
type Options struct {
	Prefix   string
	MaxBytes int64
}

func NewHandler(db *mongo.Database, files filestore.Store, opts Options, errLog *uierrors.ErrorLogger,
	audit *auditlog.Logger, m *metrics.Metrics, logger *zap.Logger) *Handler {
	if opts.Prefix == "" {
		opts.Prefix = DefaultPrefix
	}
	if opts.MaxBytes <= 0 {
		opts.MaxBytes = DefaultMaxBytes
	}
	return &Handler{
		Files:    files,
		Uploads:  uploadstore.New(db),
		Prefix:   opts.Prefix,
		MaxBytes: opts.MaxBytes,
		ErrLog:   errLog,
		AuditLog: audit,
		Metrics:  m,
		Log:      logger,
	}
}
