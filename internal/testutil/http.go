package testutil

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bonchi/carehub/internal/app/system/auth"
	"github.com/bonchi/carehub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WithChiURLParam adds a chi URL parameter to the request context.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// SessionUserFor builds the session user a request would carry for u.
func SessionUserFor(u models.User) *auth.SessionUser {
	return &auth.SessionUser{
		ID:       u.ID.Hex(),
		Name:     u.FullName,
		Mobile:   u.Mobile,
		Role:     u.Role,
		District: u.District,
	}
}

// UserWithRole returns a session user with a fresh id and the given role.
func UserWithRole(role string) *auth.SessionUser {
	return &auth.SessionUser{
		ID:     primitive.NewObjectID().Hex(),
		Name:   "Test " + role,
		Mobile: "9000000000",
		Role:   role,
	}
}

// WithUser injects u into the request context, bypassing the session cookie.
func WithUser(r *http.Request, u *auth.SessionUser) *http.Request {
	return auth.WithTestUser(r, u)
}

// DecodeJSON decodes the recorder body into v, failing the test on error.
func DecodeJSON(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(v); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
}
