package coordinatorstore_test

import (
	"errors"
	"testing"

	coordinatorstore "github.com/bonchi/carehub/internal/app/store/coordinators"
	"github.com/bonchi/carehub/internal/app/system/indexes"
	"github.com/bonchi/carehub/internal/domain/models"
	"github.com/bonchi/carehub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestStore_CreateAndGet(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := coordinatorstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	userID := primitive.NewObjectID()
	created, err := store.Create(ctx, models.DistrictCoordinator{
		UserID:        userID,
		FullName:      " District  Magistrate ",
		Mobile:        "+91 99999 99999",
		District:      "<b>Gaya</b>",
		State:         "Bihar",
		Designation:   "District Magistrate",
		OfficeAddress: "Collectorate, Gaya",
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if created.District != "Gaya" {
		t.Errorf("District = %q, want markup stripped", created.District)
	}
	if created.Mobile != "9999999999" {
		t.Errorf("Mobile = %q", created.Mobile)
	}

	got, err := store.GetByUserID(ctx, userID)
	if err != nil {
		t.Fatalf("GetByUserID: %v", err)
	}
	if got.ID != created.ID || got.FullName != "District Magistrate" {
		t.Errorf("unexpected profile: %+v", got)
	}

	byMobile, err := store.GetByMobile(ctx, "9999999999")
	if err != nil || byMobile.ID != created.ID {
		t.Errorf("GetByMobile = %+v, %v", byMobile, err)
	}
}

func TestStore_Create_Validation(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := coordinatorstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := store.Create(ctx, models.DistrictCoordinator{District: "Gaya"}); err == nil {
		t.Error("expected missing user to fail")
	}
	if _, err := store.Create(ctx, models.DistrictCoordinator{UserID: primitive.NewObjectID(), District: "  "}); err == nil {
		t.Error("expected blank district to fail")
	}
}

func TestStore_Create_OnePerUser(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll: %v", err)
	}
	store := coordinatorstore.New(db)

	dc := models.DistrictCoordinator{UserID: primitive.NewObjectID(), FullName: "A", Mobile: "9999999999", District: "Gaya"}
	if _, err := store.Create(ctx, dc); err != nil {
		t.Fatalf("first Create: %v", err)
	}
	if _, err := store.Create(ctx, dc); !errors.Is(err, coordinatorstore.ErrDuplicateUser) {
		t.Fatalf("expected ErrDuplicateUser, got %v", err)
	}
}

func TestStore_UpdateAndDelete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := coordinatorstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	userID := primitive.NewObjectID()
	if _, err := store.Create(ctx, models.DistrictCoordinator{UserID: userID, FullName: "A", Mobile: "9999999999", District: "Gaya"}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	district := "Nalanda"
	addr := "Bihar Sharif"
	upd := coordinatorstore.Update{District: &district, OfficeAddress: &addr}
	if upd.Empty() {
		t.Fatal("update should not be empty")
	}
	if err := store.Update(ctx, userID, upd); err != nil {
		t.Fatalf("Update: %v", err)
	}
	got, err := store.GetByUserID(ctx, userID)
	if err != nil {
		t.Fatalf("GetByUserID: %v", err)
	}
	if got.District != "Nalanda" || got.OfficeAddress != "Bihar Sharif" {
		t.Errorf("update not applied: %+v", got)
	}

	if err := store.Update(ctx, primitive.NewObjectID(), upd); !errors.Is(err, coordinatorstore.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	n, err := store.DeleteByUserID(ctx, userID)
	if err != nil || n != 1 {
		t.Fatalf("DeleteByUserID = %d, %v", n, err)
	}
	if _, err := store.GetByUserID(ctx, userID); !errors.Is(err, coordinatorstore.ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
}
