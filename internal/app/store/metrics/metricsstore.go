package metricsstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	appointmentstore "github.com/bonchi/carehub/internal/app/store/appointments"
	orderstore "github.com/bonchi/carehub/internal/app/store/orders"
	schedulestore "github.com/bonchi/carehub/internal/app/store/schedules"
	uploadstore "github.com/bonchi/carehub/internal/app/store/uploads"
	userstore "github.com/bonchi/carehub/internal/app/store/users"
	"github.com/bonchi/carehub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/sync/errgroup"
)

// Card is one number on a dashboard.
type Card struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Value int64  `json:"value"`
}

// Scope identifies whose dashboard is being built.
type Scope struct {
	Role     string
	UserID   primitive.ObjectID
	District string
	Now      time.Time // zero means time.Now()
}

// counter is one card's definition.
type counter struct {
	key   string
	label string
	count func(ctx context.Context) (int64, error)
}

// maxParallel bounds concurrent CountDocuments calls per dashboard.
const maxParallel = 4

// FetchRoleCounts returns the dashboard cards for scope.Role. Counts run
// concurrently. A failing count leaves its card at 0 and the rest are still
// filled in; the returned error joins every count failure so callers can
// avoid caching a partial result. An unknown role yields no cards.
func FetchRoleCounts(ctx context.Context, db *mongo.Database, scope Scope) ([]Card, error) {
	return fetch(ctx, countersFor(db, scope))
}

func fetch(ctx context.Context, counters []counter) ([]Card, error) {
	cards := make([]Card, len(counters))
	errs := make([]error, len(counters))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallel)
	for i, c := range counters {
		cards[i] = Card{Key: c.key, Label: c.label}
		g.Go(func() error {
			n, err := c.count(gctx)
			if err != nil {
				errs[i] = fmt.Errorf("count %s: %w", c.key, err)
				return nil
			}
			cards[i].Value = n
			return nil
		})
	}
	_ = g.Wait()
	return cards, errors.Join(errs...)
}

func countersFor(db *mongo.Database, s Scope) []counter {
	now := s.Now
	if now.IsZero() {
		now = time.Now()
	}

	switch s.Role {
	case models.RoleHealthAssistant:
		visits := schedulestore.New(db)
		return []counter{
			{"scheduled_visits", "Scheduled visits", func(ctx context.Context) (int64, error) {
				return visits.CountForUser(ctx, s.UserID)
			}},
			{"completed_visits", "Completed visits", func(ctx context.Context) (int64, error) {
				return visits.CountByStatus(ctx, s.UserID, models.VisitCompleted)
			}},
			{"pending_visits", "Pending visits", func(ctx context.Context) (int64, error) {
				return visits.CountByStatus(ctx, s.UserID, models.VisitScheduled)
			}},
		}

	case models.RoleHospital:
		appts := appointmentstore.New(db)
		dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		return []counter{
			{"todays_appointments", "Today's appointments", func(ctx context.Context) (int64, error) {
				return appts.CountScheduledBetween(ctx, s.UserID, dayStart, dayStart.AddDate(0, 0, 1))
			}},
			{"pending_appointments", "Pending appointments", func(ctx context.Context) (int64, error) {
				return appts.CountByStatus(ctx, s.UserID, models.AppointmentPending)
			}},
			{"completed_appointments", "Completed appointments", func(ctx context.Context) (int64, error) {
				return appts.CountByStatus(ctx, s.UserID, models.AppointmentCompleted)
			}},
		}

	case models.RoleMedicalStore:
		orders := orderstore.New(db)
		return []counter{
			{"pending_orders", "Pending orders", func(ctx context.Context) (int64, error) {
				return orders.CountByStatus(ctx, s.UserID, models.OrderPending)
			}},
			{"fulfilled_orders", "Fulfilled orders", func(ctx context.Context) (int64, error) {
				return orders.CountByStatus(ctx, s.UserID, models.OrderFulfilled)
			}},
			{"total_orders", "Total orders", func(ctx context.Context) (int64, error) {
				return orders.CountForUser(ctx, s.UserID)
			}},
		}

	case models.RoleDistrictCoordinator:
		users := userstore.New(db)
		uploads := uploadstore.New(db)
		byRole := func(role string) func(context.Context) (int64, error) {
			return func(ctx context.Context) (int64, error) {
				return users.CountByRole(ctx, role, s.District)
			}
		}
		return []counter{
			{"health_assistants", "Health assistants", byRole(models.RoleHealthAssistant)},
			{"hospitals", "Hospitals", byRole(models.RoleHospital)},
			{"medical_stores", "Medical stores", byRole(models.RoleMedicalStore)},
			{"uploads", "Uploads", func(ctx context.Context) (int64, error) {
				ids, err := users.IDsInDistrict(ctx, s.District)
				if err != nil || len(ids) == 0 {
					return 0, err
				}
				return uploads.CountByUploaders(ctx, ids)
			}},
		}

	case models.RoleAdmin:
		users := userstore.New(db)
		out := make([]counter, 0, len(models.AllRoles))
		for _, role := range models.AllRoles {
			out = append(out, counter{role, roleLabel(role), func(ctx context.Context) (int64, error) {
				return users.CountByRole(ctx, role, "")
			}})
		}
		return out
	}
	return nil
}

func roleLabel(role string) string {
	switch role {
	case models.RoleHealthAssistant:
		return "Health assistants"
	case models.RoleHospital:
		return "Hospitals"
	case models.RoleMedicalStore:
		return "Medical stores"
	case models.RoleDistrictCoordinator:
		return "District coordinators"
	case models.RoleAdmin:
		return "Admins"
	}
	return role
}
