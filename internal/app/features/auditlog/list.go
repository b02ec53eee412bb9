// internal/app/features/auditlog/list.go
package auditlog

import (
	"context"
	"errors"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	uierrors "github.com/bonchi/carehub/internal/app/features/errors"
	"github.com/bonchi/carehub/internal/app/store/audit"
	userstore "github.com/bonchi/carehub/internal/app/store/users"
	"github.com/bonchi/carehub/internal/app/system/authz"
	"github.com/bonchi/carehub/internal/app/system/timeouts"
	"github.com/bonchi/carehub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const pageSize = 50

// maxPage keeps the skip offset within int64.
const maxPage = math.MaxInt64/pageSize + 1

const dateLayout = "2006-01-02"

var errBadDate = errors.New("dates must be YYYY-MM-DD")

// ServeList handles GET /audit. Query parameters: category, event_type,
// start_date, end_date (inclusive, YYYY-MM-DD) and page (1-based).
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	role, _, _, ok := authz.UserCtx(r)
	if !ok {
		uierrors.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	q := r.URL.Query()
	category := strings.TrimSpace(q.Get("category"))
	eventType := strings.TrimSpace(q.Get("event_type"))
	if !validFilter(category, eventType) {
		uierrors.WriteError(w, http.StatusBadRequest, "Unknown category or event type.")
		return
	}

	page := 1
	if p, err := strconv.Atoi(q.Get("page")); err == nil && p > 0 {
		page = p
	}
	if int64(page) > maxPage {
		uierrors.WriteError(w, http.StatusBadRequest, "Page out of range.")
		return
	}

	filter := audit.QueryFilter{
		Category:  category,
		EventType: eventType,
		Limit:     pageSize,
		Offset:    int64(page-1) * pageSize,
	}
	since, until, err := h.window(q.Get("start_date"), q.Get("end_date"))
	if err != nil {
		h.ErrLog.LogBadRequest(w, r, "bad audit date", err, "Dates must be in YYYY-MM-DD format.")
		return
	}
	filter.Since, filter.Until = since, until

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "audit log list")
	defer cancel()

	users := userstore.New(h.DB)

	// District coordinators only see events about people in their district.
	if role != models.RoleAdmin {
		people, err := users.IDsInDistrict(ctx, authz.UserDistrict(r))
		if err != nil {
			h.ErrLog.LogServerError(w, r, "district users lookup failed", err, "A database error occurred.")
			return
		}
		if people == nil {
			people = []primitive.ObjectID{}
		}
		filter.People = people
	}

	store := audit.New(h.DB)
	events, err := store.List(ctx, filter)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "audit query failed", err, "A database error occurred.")
		return
	}
	total, err := store.Count(ctx, filter)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "audit count failed", err, "A database error occurred.")
		return
	}

	names := h.resolveNames(ctx, users, events)

	items := make([]listItem, 0, len(events))
	for _, e := range events {
		item := listItem{
			ID:            e.ID.Hex(),
			Timestamp:     e.Timestamp,
			Category:      e.Category,
			EventType:     e.EventType,
			IP:            e.IP,
			Success:       e.Success,
			FailureReason: e.FailureReason,
			Details:       e.Details,
		}
		if e.ActorID != nil {
			item.ActorName = nameOr(names, *e.ActorID)
		}
		if e.UserID != nil {
			item.TargetName = nameOr(names, *e.UserID)
		}
		items = append(items, item)
	}

	totalPages := int((total + pageSize - 1) / pageSize)
	if totalPages < 1 {
		totalPages = 1
	}

	uierrors.WriteJSON(w, http.StatusOK, listData{
		Items:      items,
		Page:       page,
		TotalPages: totalPages,
		Total:      total,
		HasNext:    page < totalPages,
	})
}

// window turns inclusive calendar dates into a [since, until) range in the
// handler's location.
func (h *Handler) window(start, end string) (*time.Time, *time.Time, error) {
	loc := h.Location
	if loc == nil {
		loc = time.UTC
	}
	var since, until *time.Time
	if s := strings.TrimSpace(start); s != "" {
		t, err := time.ParseInLocation(dateLayout, s, loc)
		if err != nil {
			return nil, nil, errBadDate
		}
		since = &t
	}
	if s := strings.TrimSpace(end); s != "" {
		t, err := time.ParseInLocation(dateLayout, s, loc)
		if err != nil {
			return nil, nil, errBadDate
		}
		t = t.AddDate(0, 0, 1)
		until = &t
	}
	return since, until, nil
}

// resolveNames batch-loads the names of every user an event mentions. A
// failed lookup leaves ids unresolved.
func (h *Handler) resolveNames(ctx context.Context, users *userstore.Store, events []audit.Event) map[primitive.ObjectID]string {
	seen := make(map[primitive.ObjectID]struct{})
	var ids []primitive.ObjectID
	add := func(id *primitive.ObjectID) {
		if id == nil {
			return
		}
		if _, ok := seen[*id]; ok {
			return
		}
		seen[*id] = struct{}{}
		ids = append(ids, *id)
	}
	for _, e := range events {
		add(e.ActorID)
		add(e.UserID)
	}

	names := make(map[primitive.ObjectID]string, len(ids))
	if len(ids) == 0 {
		return names
	}
	found, err := users.GetByIDs(ctx, ids)
	if err != nil {
		h.Log.Warn("failed to fetch user names for audit log", zap.Error(err))
		return names
	}
	for _, u := range found {
		names[u.ID] = u.FullName
	}
	return names
}

func nameOr(names map[primitive.ObjectID]string, id primitive.ObjectID) string {
	if n, ok := names[id]; ok && n != "" {
		return n
	}
	return id.Hex()
}
