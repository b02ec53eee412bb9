// Package listing holds the query handling shared by the role-gated list
// endpoints (/appointments, /orders, /schedules).
package listing

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	uierrors "github.com/bonchi/carehub/internal/app/features/errors"
	uploadstore "github.com/bonchi/carehub/internal/app/store/uploads"
	userstore "github.com/bonchi/carehub/internal/app/store/users"
	"github.com/bonchi/carehub/internal/app/system/authz"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

var (
	ErrBadOwner       = errors.New("owner must be a valid id")
	ErrOwnerNotFound  = errors.New("owner not found")
	ErrOwnerForbidden = errors.New("owner is outside your district")
)

// Limit reads ?limit=, defaulting to 20 and capping at 100.
func Limit(r *http.Request) int64 {
	n, _ := strconv.ParseInt(strings.TrimSpace(r.URL.Query().Get("limit")), 10, 64)
	return uploadstore.ClampLimit(n)
}

// Owner decides whose records to list. Without ?owner= it is the caller.
// Admins may name any user with ownerRole; district coordinators only users
// in their own district. Everyone else may only name themselves.
func Owner(ctx context.Context, db *mongo.Database, r *http.Request, ownerRole string) (primitive.ObjectID, error) {
	_, _, self, _ := authz.UserCtx(r)
	raw := strings.TrimSpace(r.URL.Query().Get("owner"))
	if raw == "" {
		return self, nil
	}
	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		return primitive.NilObjectID, ErrBadOwner
	}
	if id == self {
		return self, nil
	}
	if !authz.CanOverseeDistrict(r) {
		return primitive.NilObjectID, ErrOwnerForbidden
	}

	owner, err := userstore.New(db).GetByID(ctx, id)
	if errors.Is(err, userstore.ErrNotFound) {
		return primitive.NilObjectID, ErrOwnerNotFound
	}
	if err != nil {
		return primitive.NilObjectID, err
	}
	if owner.Role != ownerRole {
		return primitive.NilObjectID, ErrOwnerNotFound
	}
	if authz.IsDistrictCoordinator(r) && text.Fold(owner.District) != text.Fold(authz.UserDistrict(r)) {
		return primitive.NilObjectID, ErrOwnerForbidden
	}
	return id, nil
}

// WriteOwnerError maps an Owner error to a response.
func WriteOwnerError(w http.ResponseWriter, r *http.Request, errLog *uierrors.ErrorLogger, err error) {
	switch {
	case errors.Is(err, ErrBadOwner):
		uierrors.WriteError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrOwnerNotFound):
		uierrors.WriteError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, ErrOwnerForbidden):
		errLog.LogForbidden(w, r, "list: owner outside scope", "forbidden")
	default:
		errLog.LogServerError(w, r, "list: resolve owner", err, "A database error occurred.")
	}
}

// Items is the body of every list endpoint. A nil slice is sent as [].
type Items[T any] struct {
	Items []T `json:"items"`
}

// NewItems wraps items, substituting an empty slice for nil.
func NewItems[T any](items []T) Items[T] {
	if items == nil {
		items = []T{}
	}
	return Items[T]{Items: items}
}
