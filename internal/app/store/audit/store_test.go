package audit_test

import (
	"testing"
	"time"

	"github.com/bonchi/carehub/internal/app/store/audit"
	"github.com/bonchi/carehub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestStore_InsertAndList(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := audit.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	userID := primitive.NewObjectID()
	err := store.Insert(ctx, audit.Event{
		Category:  audit.CategoryAuth,
		EventType: audit.EventLoginSuccess,
		UserID:    &userID,
		IP:        "10.1.1.1",
		Success:   true,
	})
	if err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	events, err := store.List(ctx, audit.QueryFilter{UserID: &userID})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	if events[0].ID.IsZero() {
		t.Error("expected generated ID")
	}
	if events[0].Timestamp.IsZero() {
		t.Error("expected generated timestamp")
	}
}

func TestStore_ListByCategory_NewestFirst(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := audit.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	base := time.Now().UTC().Add(-time.Hour)
	for i, et := range []string{audit.EventCoordinatorSeeded, audit.EventCoordinatorUpdated} {
		if err := store.Insert(ctx, audit.Event{
			Timestamp: base.Add(time.Duration(i) * time.Minute),
			Category:  audit.CategoryAdmin,
			EventType: et,
			Success:   true,
		}); err != nil {
			t.Fatalf("Insert failed: %v", err)
		}
	}
	if err := store.Insert(ctx, audit.Event{Category: audit.CategoryUpload, EventType: audit.EventUploadStored, Success: true}); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	events, err := store.ListByCategory(ctx, audit.CategoryAdmin, 10)
	if err != nil {
		t.Fatalf("ListByCategory failed: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 admin events, got %d", len(events))
	}
	if events[0].EventType != audit.EventCoordinatorUpdated {
		t.Errorf("expected newest first, got %s", events[0].EventType)
	}

	n, err := store.Count(ctx, audit.QueryFilter{Category: audit.CategoryUpload})
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if n != 1 {
		t.Errorf("upload count = %d, want 1", n)
	}
}

func TestStore_ListEmpty(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := audit.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	events, err := store.List(ctx, audit.QueryFilter{Category: "nothing"})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if events == nil || len(events) != 0 {
		t.Errorf("expected empty non-nil slice, got %v", events)
	}
}

func TestStore_List_WindowPeopleAndOffset(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := audit.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	alice, bob, carol := primitive.NewObjectID(), primitive.NewObjectID(), primitive.NewObjectID()
	base := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	events := []audit.Event{
		{Timestamp: base, UserID: &alice, EventType: audit.EventLoginSuccess},
		{Timestamp: base.Add(time.Hour), ActorID: &bob, EventType: audit.EventUploadStored},
		{Timestamp: base.Add(2 * time.Hour), UserID: &carol, EventType: audit.EventLogout},
		{Timestamp: base.Add(48 * time.Hour), UserID: &alice, EventType: audit.EventLogout},
	}
	for _, e := range events {
		if err := store.Insert(ctx, e); err != nil {
			t.Fatalf("Insert failed: %v", err)
		}
	}

	since, until := base, base.Add(24*time.Hour)
	got, err := store.List(ctx, audit.QueryFilter{Since: &since, Until: &until, People: []primitive.ObjectID{alice, bob}})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 events in window for alice+bob, got %d", len(got))
	}
	if got[0].EventType != audit.EventUploadStored {
		t.Errorf("expected newest first, got %s", got[0].EventType)
	}

	page2, err := store.List(ctx, audit.QueryFilter{Limit: 2, Offset: 2})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(page2) != 2 || page2[0].EventType != audit.EventUploadStored {
		t.Errorf("unexpected second page: %+v", page2)
	}

	n, err := store.Count(ctx, audit.QueryFilter{People: []primitive.ObjectID{}})
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if n != 0 {
		t.Errorf("empty People should match nothing, got %d", n)
	}
}
