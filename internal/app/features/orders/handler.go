// internal/app/features/orders/handler.go
package orders

import (
	"net/http"

	uierrors "github.com/bonchi/carehub/internal/app/features/errors"
	"github.com/bonchi/carehub/internal/app/features/shared/listing"
	orderstore "github.com/bonchi/carehub/internal/app/store/orders"
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

// ServeList handles GET /orders: the medical store's orders, newest first.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "list orders")
	defer cancel()

	owner, err := listing.Owner(ctx, h.DB, r, models.RoleMedicalStore)
	if err != nil {
		listing.WriteOwnerError(w, r, h.ErrLog, err)
		return
	}

	items, err := orderstore.New(h.DB).ListForUser(ctx, owner, listing.Limit(r))
	if err != nil {
		h.ErrLog.LogServerError(w, r, "orders: list", err, "A database error occurred.")
		return
	}
	uierrors.WriteJSON(w, http.StatusOK, listing.NewItems[models.MedicineOrder](items))
}
