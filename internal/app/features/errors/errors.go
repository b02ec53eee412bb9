// internal/app/features/errors/errors.go
package errors

import (
	"net/http"

	"github.com/bonchi/carehub/internal/app/system/auth"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// ErrorLogger answers failed requests with a JSON body and logs the cause.
// Handlers hold one and call it instead of writing error responses directly.
type ErrorLogger struct {
	Log *zap.Logger
}

// NewErrorLogger constructs an ErrorLogger.
func NewErrorLogger(logger *zap.Logger) *ErrorLogger {
	return &ErrorLogger{Log: logger}
}

func (e *ErrorLogger) fields(r *http.Request, err error) []zap.Field {
	fields := []zap.Field{
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
	}
	if id := middleware.GetReqID(r.Context()); id != "" {
		fields = append(fields, zap.String("request_id", id))
	}
	if u, ok := auth.CurrentUser(r); ok {
		fields = append(fields, zap.String("user_id", u.ID))
	}
	if err != nil {
		fields = append(fields, zap.Error(err))
	}
	return fields
}

// LogServerError logs msg at error level and answers 500 with userMsg.
func (e *ErrorLogger) LogServerError(w http.ResponseWriter, r *http.Request, msg string, err error, userMsg string) {
	e.LogStatus(w, r, http.StatusInternalServerError, msg, err, userMsg)
}

// LogBadRequest logs msg at warn level and answers 400 with userMsg.
func (e *ErrorLogger) LogBadRequest(w http.ResponseWriter, r *http.Request, msg string, err error, userMsg string) {
	e.LogStatus(w, r, http.StatusBadRequest, msg, err, userMsg)
}

// LogForbidden logs msg at warn level and answers 403 with userMsg.
func (e *ErrorLogger) LogForbidden(w http.ResponseWriter, r *http.Request, msg string, userMsg string) {
	e.LogStatus(w, r, http.StatusForbidden, msg, nil, userMsg)
}

// LogStatus logs msg (error level for 5xx, warn otherwise) and answers status
// with userMsg. An empty userMsg falls back to the status text.
func (e *ErrorLogger) LogStatus(w http.ResponseWriter, r *http.Request, status int, msg string, err error, userMsg string) {
	if e != nil && e.Log != nil {
		fields := append(e.fields(r, err), zap.Int("status", status))
		if status >= 500 {
			e.Log.Error(msg, fields...)
		} else {
			e.Log.Warn(msg, fields...)
		}
	}
	if userMsg == "" {
		userMsg = http.StatusText(status)
	}
	WriteError(w, status, userMsg)
}
