package userstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bonchi/carehub/internal/app/system/authutil"
	"github.com/bonchi/carehub/internal/app/system/normalize"
	"github.com/bonchi/carehub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("users")}
}

var (
	// ErrNotFound is returned when no user matches.
	ErrNotFound = errors.New("user not found")
	// ErrDuplicateMobile is returned when another user already has the mobile number.
	ErrDuplicateMobile = errors.New("a user with this mobile number already exists")
	errBadRole         = errors.New(`role must be "health_assistant"|"hospital"|"medical_store"|"district_coordinator"|"admin"`)
	errBadStatus       = errors.New(`status must be "active"|"disabled"`)
	errBadMobile       = errors.New("mobile must be a 10-digit number")
	errNameNeeded      = errors.New("full name is required")
)

// GetByID loads a user by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	return s.findOne(ctx, bson.M{"_id": id})
}

// GetByMobile loads a user by mobile number in any accepted input format.
func (s *Store) GetByMobile(ctx context.Context, mobile string) (*models.User, error) {
	return s.findOne(ctx, bson.M{"mobile": normalize.Mobile(mobile)})
}

func (s *Store) findOne(ctx context.Context, filter bson.M) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, filter).Decode(&u); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// Create inserts a new user after normalizing and validating fields. When
// password is non-empty it is bcrypt-hashed into PasswordHash; an existing
// PasswordHash on u is kept otherwise. A zero u.ID is assigned.
func (s *Store) Create(ctx context.Context, u models.User, password string) (models.User, error) {
	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}
	u.FullName = normalize.Name(u.FullName)
	u.FullNameCI = text.Fold(u.FullName)
	u.Mobile = normalize.Mobile(u.Mobile)
	u.Email = normalize.Email(u.Email)
	u.Role = normalize.Role(u.Role)
	u.Status = normalize.Status(u.Status)
	u.District = normalize.District(u.District)
	u.DistrictCI = text.Fold(u.District)
	if u.Status == "" {
		u.Status = models.StatusActive
	}

	if u.FullName == "" {
		return models.User{}, errNameNeeded
	}
	if !normalize.IsValidMobile(u.Mobile) {
		return models.User{}, errBadMobile
	}
	if !models.IsValidRole(u.Role) {
		return models.User{}, errBadRole
	}
	if !models.IsValidStatus(u.Status) {
		return models.User{}, errBadStatus
	}

	if password != "" {
		hash, err := authutil.HashPassword(password)
		if err != nil {
			return models.User{}, fmt.Errorf("hash password: %w", err)
		}
		u.PasswordHash = hash
	}

	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, u); err != nil {
		if wafflemongo.IsDup(err) {
			return models.User{}, ErrDuplicateMobile
		}
		return models.User{}, err
	}
	return u, nil
}

// Update holds optional field changes; nil fields are left alone.
type Update struct {
	FullName *string
	Email    *string
	Role     *string
	Status   *string
	District *string
}

// Update applies upd to the user with id. It returns ErrNotFound when no
// user matched.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, upd Update) error {
	set := bson.M{"updated_at": time.Now().UTC()}
	if upd.FullName != nil {
		name := normalize.Name(*upd.FullName)
		if name == "" {
			return errNameNeeded
		}
		set["full_name"] = name
		set["full_name_ci"] = text.Fold(name)
	}
	if upd.Email != nil {
		set["email"] = normalize.Email(*upd.Email)
	}
	if upd.Role != nil {
		role := normalize.Role(*upd.Role)
		if !models.IsValidRole(role) {
			return errBadRole
		}
		set["role"] = role
	}
	if upd.Status != nil {
		st := normalize.Status(*upd.Status)
		if !models.IsValidStatus(st) {
			return errBadStatus
		}
		set["status"] = st
	}
	if upd.District != nil {
		d := normalize.District(*upd.District)
		set["district"] = d
		set["district_ci"] = text.Fold(d)
	}

	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// SetPassword replaces the user's password hash.
func (s *Store) SetPassword(ctx context.Context, id primitive.ObjectID, password string) error {
	hash, err := authutil.HashPassword(password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"password_hash": hash,
		"updated_at":    time.Now().UTC(),
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteByID removes one user and returns the number deleted (0 or 1).
func (s *Store) DeleteByID(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// DeleteByMobile removes every user with the mobile number and returns how
// many were deleted. The unique index makes that at most one in practice.
func (s *Store) DeleteByMobile(ctx context.Context, mobile string) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{"mobile": normalize.Mobile(mobile)})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// CountByRole counts active users with role. A non-empty district narrows the
// count to that district, compared case-insensitively.
func (s *Store) CountByRole(ctx context.Context, role, district string) (int64, error) {
	filter := bson.M{"role": normalize.Role(role), "status": models.StatusActive}
	if district != "" {
		filter["district_ci"] = text.Fold(normalize.District(district))
	}
	return s.c.CountDocuments(ctx, filter)
}

// GetByIDs loads the users with the given ids. Missing ids are skipped.
func (s *Store) GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error) {
	out := []models.User{}
	if len(ids) == 0 {
		return out, nil
	}
	cur, err := s.c.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// IDsInDistrict returns the ids of every user registered in district,
// compared case-insensitively.
func (s *Store) IDsInDistrict(ctx context.Context, district string) ([]primitive.ObjectID, error) {
	fold := text.Fold(normalize.District(district))
	if fold == "" {
		return nil, nil
	}
	cur, err := s.c.Find(ctx, bson.M{"district_ci": fold}, options.Find().SetProjection(bson.M{"_id": 1}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var rows []struct {
		ID primitive.ObjectID `bson:"_id"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return nil, err
	}
	ids := make([]primitive.ObjectID, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.ID)
	}
	return ids, nil
}
