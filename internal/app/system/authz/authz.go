// Package authz answers role questions about the signed-in user.
package authz

import (
	"net/http"
	"strings"

	"github.com/bonchi/carehub/internal/app/system/auth"
	"github.com/bonchi/carehub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserCtx returns the user's role (lowercased), name, ObjectID and a found
// flag. A missing user or a malformed ID yields "visitor", "", NilObjectID,
// false, so ok=true always comes with a usable ID.
func UserCtx(r *http.Request) (role string, name string, userID primitive.ObjectID, ok bool) {
	user, ok := auth.CurrentUser(r)
	if !ok {
		return "visitor", "", primitive.NilObjectID, false
	}
	userID, err := primitive.ObjectIDFromHex(user.ID)
	if err != nil {
		return "visitor", "", primitive.NilObjectID, false
	}
	return strings.ToLower(user.Role), user.Name, userID, true
}

// HasAnyRole reports whether the signed-in user has one of roles.
func HasAnyRole(r *http.Request, roles ...string) bool {
	role, _, _, ok := UserCtx(r)
	if !ok {
		return false
	}
	for _, want := range roles {
		if role == strings.ToLower(strings.TrimSpace(want)) {
			return true
		}
	}
	return false
}

func IsAdmin(r *http.Request) bool { return HasAnyRole(r, models.RoleAdmin) }

func IsDistrictCoordinator(r *http.Request) bool {
	return HasAnyRole(r, models.RoleDistrictCoordinator)
}

// CanOverseeDistrict reports whether the user may read other users' records:
// admins everywhere, coordinators within their district.
func CanOverseeDistrict(r *http.Request) bool {
	return HasAnyRole(r, models.RoleAdmin, models.RoleDistrictCoordinator)
}

// UserDistrict returns the signed-in user's district, or "".
func UserDistrict(r *http.Request) string {
	u, ok := auth.CurrentUser(r)
	if !ok {
		return ""
	}
	return u.District
}
