// internal/app/system/auditlog/logger.go
package auditlog

import (
	"context"
	"net/http"
	"strconv"

	"github.com/bonchi/carehub/internal/app/store/audit"
	"github.com/bonchi/carehub/internal/app/system/ratelimit"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Destination settings for a category.
const (
	All = "all" // MongoDB + zap
	DB  = "db"  // MongoDB only
	Log = "log" // zap only
	Off = "off"
)

// Config selects where each category of event goes.
type Config struct {
	Auth   string
	Admin  string
	Upload string
}

// Writer persists events. *audit.Store satisfies it.
type Writer interface {
	Insert(ctx context.Context, event audit.Event) error
}

// Logger writes audit events to MongoDB and zap according to Config.
// A nil *Logger is a no-op.
type Logger struct {
	store  Writer
	zapLog *zap.Logger
	config Config
}

// New creates a new audit Logger.
func New(store Writer, zapLog *zap.Logger, config Config) *Logger {
	return &Logger{store: store, zapLog: zapLog, config: config}
}

func (l *Logger) setting(category string) string {
	var s string
	switch category {
	case audit.CategoryAuth:
		s = l.config.Auth
	case audit.CategoryAdmin:
		s = l.config.Admin
	case audit.CategoryUpload:
		s = l.config.Upload
	}
	if s == "" {
		return All
	}
	return s
}

func (l *Logger) logToZap(event audit.Event) {
	fields := []zap.Field{
		zap.Bool("audit", true),
		zap.String("category", event.Category),
		zap.String("event_type", event.EventType),
		zap.Bool("success", event.Success),
	}
	if event.IP != "" {
		fields = append(fields, zap.String("ip", event.IP))
	}
	if event.UserID != nil {
		fields = append(fields, zap.String("user_id", event.UserID.Hex()))
	}
	if event.ActorID != nil {
		fields = append(fields, zap.String("actor_id", event.ActorID.Hex()))
	}
	if event.FailureReason != "" {
		fields = append(fields, zap.String("failure_reason", event.FailureReason))
	}
	for k, v := range event.Details {
		fields = append(fields, zap.String("detail_"+k, v))
	}

	if event.Success {
		l.zapLog.Info("audit event", fields...)
	} else {
		l.zapLog.Warn("audit event", fields...)
	}
}

// Record routes event according to the category setting. Store failures are
// logged and otherwise ignored.
func (l *Logger) Record(ctx context.Context, event audit.Event) {
	if l == nil {
		return
	}
	setting := l.setting(event.Category)
	if setting == Off {
		return
	}
	if setting == All || setting == Log {
		l.logToZap(event)
	}
	if (setting == All || setting == DB) && l.store != nil {
		if err := l.store.Insert(ctx, event); err != nil {
			l.zapLog.Error("failed to store audit event",
				zap.Error(err),
				zap.String("event_type", event.EventType),
			)
		}
	}
}

func fromRequest(r *http.Request, e audit.Event) audit.Event {
	if r != nil {
		e.IP = ratelimit.ClientIP(r)
		e.UserAgent = r.UserAgent()
	}
	return e
}

// --- Authentication ---

func (l *Logger) LoginSuccess(ctx context.Context, r *http.Request, userID primitive.ObjectID, mobile string) {
	l.Record(ctx, fromRequest(r, audit.Event{
		Category:  audit.CategoryAuth,
		EventType: audit.EventLoginSuccess,
		UserID:    &userID,
		Success:   true,
		Details:   map[string]string{"mobile": mobile},
	}))
}

func (l *Logger) LoginFailedUserNotFound(ctx context.Context, r *http.Request, mobile string) {
	l.Record(ctx, fromRequest(r, audit.Event{
		Category:      audit.CategoryAuth,
		EventType:     audit.EventLoginFailedUserNotFound,
		FailureReason: "user not found",
		Details:       map[string]string{"mobile": mobile},
	}))
}

func (l *Logger) LoginFailedWrongPassword(ctx context.Context, r *http.Request, userID primitive.ObjectID, mobile string) {
	l.Record(ctx, fromRequest(r, audit.Event{
		Category:      audit.CategoryAuth,
		EventType:     audit.EventLoginFailedWrongPassword,
		UserID:        &userID,
		FailureReason: "wrong password",
		Details:       map[string]string{"mobile": mobile},
	}))
}

func (l *Logger) LoginFailedUserDisabled(ctx context.Context, r *http.Request, userID primitive.ObjectID, mobile string) {
	l.Record(ctx, fromRequest(r, audit.Event{
		Category:      audit.CategoryAuth,
		EventType:     audit.EventLoginFailedUserDisabled,
		UserID:        &userID,
		FailureReason: "user disabled",
		Details:       map[string]string{"mobile": mobile},
	}))
}

func (l *Logger) LoginFailedRateLimit(ctx context.Context, r *http.Request, mobile string) {
	l.Record(ctx, fromRequest(r, audit.Event{
		Category:      audit.CategoryAuth,
		EventType:     audit.EventLoginFailedRateLimit,
		FailureReason: "rate limit exceeded",
		Details:       map[string]string{"mobile": mobile},
	}))
}

// Logout records a sign-out. userID may be empty or malformed when the
// session had already expired; the event is still recorded.
func (l *Logger) Logout(ctx context.Context, r *http.Request, userID string) {
	e := audit.Event{
		Category:  audit.CategoryAuth,
		EventType: audit.EventLogout,
		Success:   true,
	}
	if oid, err := primitive.ObjectIDFromHex(userID); err == nil {
		e.UserID = &oid
	}
	l.Record(ctx, fromRequest(r, e))
}

// --- Admin (seed tool and bootstrap have no request) ---

func (l *Logger) CoordinatorSeeded(ctx context.Context, userID primitive.ObjectID, mobile string, replaced bool) {
	replacedStr := "false"
	if replaced {
		replacedStr = "true"
	}
	l.Record(ctx, audit.Event{
		Category:  audit.CategoryAdmin,
		EventType: audit.EventCoordinatorSeeded,
		UserID:    &userID,
		Success:   true,
		Details:   map[string]string{"mobile": mobile, "replaced": replacedStr},
	})
}

func (l *Logger) CoordinatorUpdated(ctx context.Context, userID primitive.ObjectID, mobile string) {
	l.Record(ctx, audit.Event{
		Category:  audit.CategoryAdmin,
		EventType: audit.EventCoordinatorUpdated,
		UserID:    &userID,
		Success:   true,
		Details:   map[string]string{"mobile": mobile},
	})
}

func (l *Logger) CoordinatorDeleted(ctx context.Context, mobile string) {
	l.Record(ctx, audit.Event{
		Category:  audit.CategoryAdmin,
		EventType: audit.EventCoordinatorDeleted,
		Success:   true,
		Details:   map[string]string{"mobile": mobile},
	})
}

func (l *Logger) AdminBootstrapped(ctx context.Context, userID primitive.ObjectID, mobile, action string) {
	l.Record(ctx, audit.Event{
		Category:  audit.CategoryAdmin,
		EventType: audit.EventAdminBootstrapped,
		UserID:    &userID,
		Success:   true,
		Details:   map[string]string{"mobile": mobile, "action": action},
	})
}

// --- Uploads ---

func (l *Logger) UploadStored(ctx context.Context, r *http.Request, actorID *primitive.ObjectID, key string, size int64) {
	l.Record(ctx, fromRequest(r, audit.Event{
		Category:  audit.CategoryUpload,
		EventType: audit.EventUploadStored,
		ActorID:   actorID,
		Success:   true,
		Details:   map[string]string{"key": key, "size": formatInt(size)},
	}))
}

func formatInt(n int64) string { return strconv.FormatInt(n, 10) }
