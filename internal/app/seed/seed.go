// Package seed creates and maintains privileged accounts directly in the
// database. It backs the carehub-seed command and the admin bootstrap run at
// server startup.
package seed

import (
	"errors"

	"github.com/bonchi/carehub/internal/app/system/auditlog"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// DefaultCoordinatorMobile is the district coordinator account the seed tool
// manages when no mobile number is given.
const DefaultCoordinatorMobile = "9999999999"

var (
	// ErrNotFound is returned when no account exists for the mobile number.
	ErrNotFound = errors.New("no account with that mobile number")
	// ErrNoProfile is returned when the user exists without a coordinator profile.
	ErrNoProfile = errors.New("user has no district coordinator profile")
	// ErrNotCoordinator is returned when the mobile number belongs to another role.
	ErrNotCoordinator = errors.New("user is not a district coordinator")
	// ErrPasswordNeeded is returned when an account must be created without a password.
	ErrPasswordNeeded = errors.New("a password is required to create the account")
	// ErrInvalidMobile is returned when a mobile number is given but is not a
	// valid 10-digit number.
	ErrInvalidMobile = errors.New("invalid mobile number")
)

// Seeder runs seed operations against one database.
type Seeder struct {
	DB    *mongo.Database
	Audit *auditlog.Logger
	Log   *zap.Logger
}

func New(db *mongo.Database, audit *auditlog.Logger, logger *zap.Logger) *Seeder {
	return &Seeder{DB: db, Audit: audit, Log: logger}
}
