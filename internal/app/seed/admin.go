package seed

import (
	"context"
	"errors"
	"fmt"

	userstore "github.com/bonchi/carehub/internal/app/store/users"
	"github.com/bonchi/carehub/internal/app/system/normalize"
	"github.com/bonchi/carehub/internal/domain/models"
	"go.uber.org/zap"
)

// Admin bootstrap outcomes.
const (
	AdminCreated   = "created"
	AdminPromoted  = "promoted"
	AdminUnchanged = "unchanged"
)

// EnsureAdmin makes the account for mobile an active admin. An existing user
// is promoted in place; otherwise one is created with password.
func (s *Seeder) EnsureAdmin(ctx context.Context, mobile, fullName, password string) (string, error) {
	mobile = normalize.Mobile(mobile)
	if !normalize.IsValidMobile(mobile) {
		return "", fmt.Errorf("admin mobile %q is not a 10-digit number", mobile)
	}
	users := userstore.New(s.DB)

	u, err := users.GetByMobile(ctx, mobile)
	switch {
	case err == nil:
		if u.Role == models.RoleAdmin && u.Status == models.StatusActive {
			return AdminUnchanged, nil
		}
		role, status := models.RoleAdmin, models.StatusActive
		if err := users.Update(ctx, u.ID, userstore.Update{Role: &role, Status: &status}); err != nil {
			return "", fmt.Errorf("promote admin: %w", err)
		}
		s.Audit.AdminBootstrapped(ctx, u.ID, mobile, AdminPromoted)
		s.Log.Info("admin promoted", zap.String("mobile", mobile), zap.String("previous_role", u.Role))
		return AdminPromoted, nil

	case errors.Is(err, userstore.ErrNotFound):
		if password == "" {
			return "", ErrPasswordNeeded
		}
		if fullName == "" {
			fullName = "Administrator"
		}
		created, err := users.Create(ctx, models.User{
			FullName: fullName,
			Mobile:   mobile,
			Role:     models.RoleAdmin,
			Status:   models.StatusActive,
		}, password)
		if err != nil {
			return "", fmt.Errorf("create admin: %w", err)
		}
		s.Audit.AdminBootstrapped(ctx, created.ID, mobile, AdminCreated)
		s.Log.Info("admin created", zap.String("mobile", mobile))
		return AdminCreated, nil

	default:
		return "", fmt.Errorf("look up admin: %w", err)
	}
}
