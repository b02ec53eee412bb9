package seed

import (
	"context"
	"errors"
	"fmt"
	"strings"

	coordinatorstore "github.com/bonchi/carehub/internal/app/store/coordinators"
	userstore "github.com/bonchi/carehub/internal/app/store/users"
	"github.com/bonchi/carehub/internal/app/system/authutil"
	"github.com/bonchi/carehub/internal/app/system/normalize"
	"github.com/bonchi/carehub/internal/domain/models"
	"go.uber.org/zap"
)

// Coordinator is the full description of a district coordinator account.
type Coordinator struct {
	Mobile        string
	FullName      string
	Email         string
	Password      string
	District      string
	State         string
	Designation   string
	OfficeAddress string
}

// CoordinatorChanges holds optional changes for UpdateCoordinator; nil fields
// are left alone.
type CoordinatorChanges struct {
	FullName      *string
	Password      *string
	District      *string
	State         *string
	Designation   *string
	OfficeAddress *string
}

// CreateResult reports what CreateCoordinator did.
type CreateResult struct {
	User        models.User
	Coordinator models.DistrictCoordinator
	Replaced    bool
}

// mobileOrDefault picks the account a command acts on. Only a blank value
// falls back to the default number.
func mobileOrDefault(m string) (string, error) {
	if strings.TrimSpace(m) == "" {
		return DefaultCoordinatorMobile, nil
	}
	if !normalize.IsValidMobile(m) {
		return "", fmt.Errorf("%w: %q", ErrInvalidMobile, m)
	}
	return normalize.Mobile(m), nil
}

// CreateCoordinator creates the account for c.Mobile. A user already holding
// the number is deleted first, along with its coordinator profile, so the
// account always ends up freshly created. The steps are not transactional.
func (s *Seeder) CreateCoordinator(ctx context.Context, c Coordinator) (CreateResult, error) {
	mobile, err := mobileOrDefault(c.Mobile)
	if err != nil {
		return CreateResult{}, err
	}
	c.Mobile = mobile
	if c.Password == "" {
		return CreateResult{}, ErrPasswordNeeded
	}
	if err := authutil.ValidatePassword(c.Password); err != nil {
		return CreateResult{}, err
	}

	users := userstore.New(s.DB)
	coords := coordinatorstore.New(s.DB)

	replaced := false
	existing, err := users.GetByMobile(ctx, c.Mobile)
	switch {
	case err == nil:
		if _, err := coords.DeleteByUserID(ctx, existing.ID); err != nil {
			return CreateResult{}, fmt.Errorf("delete existing profile: %w", err)
		}
		if _, err := users.DeleteByID(ctx, existing.ID); err != nil {
			return CreateResult{}, fmt.Errorf("delete existing user: %w", err)
		}
		replaced = true
		s.Log.Info("removed existing account", zap.String("mobile", c.Mobile), zap.String("user_id", existing.ID.Hex()))
	case errors.Is(err, userstore.ErrNotFound):
	default:
		return CreateResult{}, fmt.Errorf("look up user: %w", err)
	}

	// A profile can outlive its user if an earlier run stopped halfway.
	if stale, err := coords.GetByMobile(ctx, c.Mobile); err == nil {
		if _, err := coords.DeleteByUserID(ctx, stale.UserID); err != nil {
			return CreateResult{}, fmt.Errorf("delete stale profile: %w", err)
		}
	}

	u, err := users.Create(ctx, models.User{
		FullName: c.FullName,
		Mobile:   c.Mobile,
		Email:    c.Email,
		Role:     models.RoleDistrictCoordinator,
		Status:   models.StatusActive,
		District: c.District,
	}, c.Password)
	if err != nil {
		return CreateResult{}, fmt.Errorf("create user: %w", err)
	}

	dc, err := coords.Create(ctx, models.DistrictCoordinator{
		UserID:        u.ID,
		FullName:      u.FullName,
		Mobile:        u.Mobile,
		District:      c.District,
		State:         c.State,
		Designation:   c.Designation,
		OfficeAddress: c.OfficeAddress,
	})
	if err != nil {
		if _, delErr := users.DeleteByID(ctx, u.ID); delErr != nil {
			s.Log.Error("could not remove user after profile failure", zap.String("user_id", u.ID.Hex()), zap.Error(delErr))
		}
		return CreateResult{}, fmt.Errorf("create profile: %w", err)
	}

	s.Audit.CoordinatorSeeded(ctx, u.ID, u.Mobile, replaced)
	s.Log.Info("district coordinator created",
		zap.String("mobile", u.Mobile),
		zap.String("user_id", u.ID.Hex()),
		zap.String("district", dc.District),
		zap.Bool("replaced", replaced))
	return CreateResult{User: u, Coordinator: dc, Replaced: replaced}, nil
}

// UpdateCoordinator applies ch to the existing account for mobile.
func (s *Seeder) UpdateCoordinator(ctx context.Context, mobile string, ch CoordinatorChanges) (models.User, models.DistrictCoordinator, error) {
	mobile, err := mobileOrDefault(mobile)
	if err != nil {
		return models.User{}, models.DistrictCoordinator{}, err
	}
	users := userstore.New(s.DB)
	coords := coordinatorstore.New(s.DB)

	u, dc, err := s.load(ctx, mobile)
	if err != nil {
		return models.User{}, models.DistrictCoordinator{}, err
	}

	if ch.Password != nil {
		if err := authutil.ValidatePassword(*ch.Password); err != nil {
			return models.User{}, models.DistrictCoordinator{}, err
		}
	}

	if ch.FullName != nil || ch.District != nil {
		if err := users.Update(ctx, u.ID, userstore.Update{FullName: ch.FullName, District: ch.District}); err != nil {
			return models.User{}, models.DistrictCoordinator{}, fmt.Errorf("update user: %w", err)
		}
	}
	if ch.Password != nil {
		if err := users.SetPassword(ctx, u.ID, *ch.Password); err != nil {
			return models.User{}, models.DistrictCoordinator{}, fmt.Errorf("set password: %w", err)
		}
	}
	upd := coordinatorstore.Update{
		FullName:      ch.FullName,
		District:      ch.District,
		State:         ch.State,
		Designation:   ch.Designation,
		OfficeAddress: ch.OfficeAddress,
	}
	if !upd.Empty() {
		if err := coords.Update(ctx, dc.UserID, upd); err != nil {
			return models.User{}, models.DistrictCoordinator{}, fmt.Errorf("update profile: %w", err)
		}
	}

	s.Audit.CoordinatorUpdated(ctx, u.ID, mobile)
	s.Log.Info("district coordinator updated", zap.String("mobile", mobile), zap.String("user_id", u.ID.Hex()))
	return s.Show(ctx, mobile)
}

// Show returns the account and profile for mobile.
func (s *Seeder) Show(ctx context.Context, mobile string) (models.User, models.DistrictCoordinator, error) {
	mobile, err := mobileOrDefault(mobile)
	if err != nil {
		return models.User{}, models.DistrictCoordinator{}, err
	}
	u, dc, err := s.load(ctx, mobile)
	if err != nil {
		return models.User{}, models.DistrictCoordinator{}, err
	}
	return *u, *dc, nil
}

// DeleteCoordinator removes the account for mobile and its profile. It
// reports whether anything was deleted.
func (s *Seeder) DeleteCoordinator(ctx context.Context, mobile string) (bool, error) {
	mobile, err := mobileOrDefault(mobile)
	if err != nil {
		return false, err
	}
	users := userstore.New(s.DB)
	coords := coordinatorstore.New(s.DB)

	u, err := users.GetByMobile(ctx, mobile)
	if errors.Is(err, userstore.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("look up user: %w", err)
	}
	if u.Role != models.RoleDistrictCoordinator {
		return false, ErrNotCoordinator
	}
	if _, err := coords.DeleteByUserID(ctx, u.ID); err != nil {
		return false, fmt.Errorf("delete profile: %w", err)
	}
	if _, err := users.DeleteByID(ctx, u.ID); err != nil {
		return false, fmt.Errorf("delete user: %w", err)
	}

	s.Audit.CoordinatorDeleted(ctx, mobile)
	s.Log.Info("district coordinator deleted", zap.String("mobile", mobile))
	return true, nil
}

func (s *Seeder) load(ctx context.Context, mobile string) (*models.User, *models.DistrictCoordinator, error) {
	u, err := userstore.New(s.DB).GetByMobile(ctx, mobile)
	if errors.Is(err, userstore.ErrNotFound) {
		return nil, nil, ErrNotFound
	}
	if err != nil {
		return nil, nil, fmt.Errorf("look up user: %w", err)
	}
	if u.Role != models.RoleDistrictCoordinator {
		return nil, nil, ErrNotCoordinator
	}
	dc, err := coordinatorstore.New(s.DB).GetByUserID(ctx, u.ID)
	if errors.Is(err, coordinatorstore.ErrNotFound) {
		return nil, nil, ErrNoProfile
	}
	if err != nil {
		return nil, nil, fmt.Errorf("look up profile: %w", err)
	}
	return u, dc, nil
}
