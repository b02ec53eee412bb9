// internal/app/features/appointments/handler.go
package appointments

import (
	"net/http"

	uierrors "github.com/bonchi/carehub/internal/app/features/errors"
	"github.com/bonchi/carehub/internal/app/features/shared/listing"
	appointmentstore "github.com/bonchi/carehub/internal/app/store/appointments"
	"github.com/bonchi/carehub/internal/app/system/timeouts"
	"github.com/bonchi/carehub/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type Handler struct {
	DB     *mongo.Database
	ErrLog *uierrors.ErrorLogger
	Log    *zap.Logger
}

func NewHandler(db *mongo.Database, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:     db,
		ErrLog: errLog,
		Log:    logger,
	}
}

// ServeList handles GET /appointments: the hospital's appointments, newest first.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "list appointments")
	defer cancel()

	owner, err := listing.Owner(ctx, h.DB, r, models.RoleHospital)
	if err != nil {
		listing.WriteOwnerError(w, r, h.ErrLog, err)
		return
	}

	items, err := appointmentstore.New(h.DB).ListForUser(ctx, owner, listing.Limit(r))
	if err != nil {
		h.ErrLog.LogServerError(w, r, "appointments: list", err, "A database error occurred.")
		return
	}
	uierrors.WriteJSON(w, http.StatusOK, listing.NewItems[models.Appointment](items))
}
