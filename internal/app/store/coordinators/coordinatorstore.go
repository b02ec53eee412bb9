// internal/app/store/coordinators/coordinatorstore.go
package coordinatorstore

import (
	"context"
	"errors"
	"time"

	"github.com/bonchi/carehub/internal/app/system/htmlsanitize"
	"github.com/bonchi/carehub/internal/app/system/normalize"
	"github.com/bonchi/carehub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

var (
	// ErrNotFound is returned when no coordinator profile matches.
	ErrNotFound = errors.New("district coordinator profile not found")
	// ErrDuplicateUser is returned when the user already has a profile.
	ErrDuplicateUser = errors.New("user already has a district coordinator profile")
	errUserNeeded    = errors.New("coordinator profile must reference a user")
	errDistrict      = errors.New("district is required")
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("district_coordinators")}
}

// clean normalizes the free-text fields. Office address and designation
// arrive from a CLI or form and are stored as plain text.
func clean(dc *models.DistrictCoordinator) {
	dc.FullName = normalize.Name(dc.FullName)
	dc.Mobile = normalize.Mobile(dc.Mobile)
	dc.District = normalize.District(dc.District)
	dc.DistrictCI = text.Fold(dc.District)
	dc.State = normalize.Name(htmlsanitize.PlainText(dc.State))
	dc.Designation = normalize.Name(htmlsanitize.PlainText(dc.Designation))
	dc.OfficeAddress = htmlsanitize.PlainText(dc.OfficeAddress)
}

// Create inserts a profile. CreatedAt/UpdatedAt are set to now (UTC).
func (s *Store) Create(ctx context.Context, dc models.DistrictCoordinator) (models.DistrictCoordinator, error) {
	if dc.UserID.IsZero() {
		return dc, errUserNeeded
	}
	clean(&dc)
	if dc.District == "" {
		return dc, errDistrict
	}
	if dc.ID.IsZero() {
		dc.ID = primitive.NewObjectID()
	}
	now := time.Now().UTC()
	dc.CreatedAt = now
	dc.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, dc); err != nil {
		if wafflemongo.IsDup(err) {
			return dc, ErrDuplicateUser
		}
		return dc, err
	}
	return dc, nil
}

func (s *Store) findOne(ctx context.Context, filter bson.M) (*models.DistrictCoordinator, error) {
	var dc models.DistrictCoordinator
	if err := s.c.FindOne(ctx, filter).Decode(&dc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &dc, nil
}

// GetByUserID returns the profile for a user.
func (s *Store) GetByUserID(ctx context.Context, userID primitive.ObjectID) (*models.DistrictCoordinator, error) {
	return s.findOne(ctx, bson.M{"user_id": userID})
}

// GetByMobile returns the profile whose mobile matches.
func (s *Store) GetByMobile(ctx context.Context, mobile string) (*models.DistrictCoordinator, error) {
	return s.findOne(ctx, bson.M{"mobile": normalize.Mobile(mobile)})
}

// Update holds optional field changes; nil fields are left alone.
type Update struct {
	FullName      *string
	District      *string
	State         *string
	Designation   *string
	OfficeAddress *string
}

// Empty reports whether upd changes nothing.
func (u Update) Empty() bool {
	return u.FullName == nil && u.District == nil && u.State == nil &&
		u.Designation == nil && u.OfficeAddress == nil
}

// Update applies upd to the profile of userID.
func (s *Store) Update(ctx context.Context, userID primitive.ObjectID, upd Update) error {
	set := bson.M{"updated_at": time.Now().UTC()}
	if upd.FullName != nil {
		set["full_name"] = normalize.Name(*upd.FullName)
	}
	if upd.District != nil {
		d := normalize.District(*upd.District)
		if d == "" {
			return errDistrict
		}
		set["district"] = d
		set["district_ci"] = text.Fold(d)
	}
	if upd.State != nil {
		set["state"] = normalize.Name(htmlsanitize.PlainText(*upd.State))
	}
	if upd.Designation != nil {
		set["designation"] = normalize.Name(htmlsanitize.PlainText(*upd.Designation))
	}
	if upd.OfficeAddress != nil {
		set["office_address"] = htmlsanitize.PlainText(*upd.OfficeAddress)
	}

	res, err := s.c.UpdateOne(ctx, bson.M{"user_id": userID}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteByUserID removes the profile of userID and returns the number deleted.
func (s *Store) DeleteByUserID(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{"user_id": userID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
