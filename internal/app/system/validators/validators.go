// internal/app/system/validators/validators.go
package validators

import (
	"context"
	"errors"
	"strings"

	"github.com/bonchi/carehub/internal/domain/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// EnsureAll creates collections (if missing) and tries to attach JSON-Schema
// validators. On servers that don't support collMod/validators (e.g. some
// DocumentDB versions), we log and skip gracefully.
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var problems []string

	// helper: ensure collection exists (with truthful logging) and then validator (if provided)
	ensure := func(coll string, schema bson.M) {
		if _, err := ensureCollection(ctx, db, coll); err != nil {
			problems = append(problems, coll+": "+err.Error())
			return
		}
		if schema == nil {
			return
		}
		if err := setValidator(ctx, db, coll, schema); err != nil {
			// DocumentDB or other deployments may not support collMod/validators.
			if isNoSuchCommand(err) || isNotImplemented(err) {
				zap.L().Info("validator skipped (unsupported)", zap.String("collection", coll))
				return
			}
			problems = append(problems, coll+": "+err.Error())
		}
	}

	ensure("users", usersSchema())
	ensure("district_coordinators", coordinatorsSchema())
	ensure("uploads", uploadsSchema())
	ensure("appointments", appointmentsSchema())
	ensure("medicine_orders", ordersSchema())
	ensure("visit_schedules", visitsSchema())

	// Written only by the audit logger; no validator.
	ensure("audit_events", nil)

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

/* ---------------------- collection helpers & logging ---------------------- */

// collectionExists returns true when <name> already exists.
// Uses ListCollectionNames to avoid "created collection" log when it didn't.
func collectionExists(ctx context.Context, db *mongo.Database, name string) (bool, error) {
	names, err := db.ListCollectionNames(ctx, bson.M{})
	if err != nil {
		return false, err
	}
	for _, n := range names {
		if n == name {
			return true, nil
		}
	}
	return false, nil
}

// ensureCollection idempotently makes sure <name> exists.
// Returns created==true only if we actually created it.
func ensureCollection(ctx context.Context, db *mongo.Database, name string) (created bool, err error) {
	exists, listErr := collectionExists(ctx, db, name)
	if listErr == nil && exists {
		zap.L().Info("collection exists", zap.String("collection", name))
		return false, nil
	}
	// If listing failed, fall back to create-and-handle-race.
	if err := db.CreateCollection(ctx, name); err != nil {
		// NamespaceExists / already exists is fine (race or prior run).
		if isNamespaceExistsErr(err) {
			zap.L().Info("collection exists", zap.String("collection", name))
			return false, nil
		}
		zap.L().Warn("createCollection failed", zap.String("collection", name), zap.Error(err))
		return false, err
	}
	zap.L().Info("created collection", zap.String("collection", name))
	return true, nil
}

/* ------------------------------ validators ------------------------------- */

func setValidator(ctx context.Context, db *mongo.Database, name string, validator bson.M) error {
	cmd := bson.D{
		{Key: "collMod", Value: name},
		{Key: "validator", Value: validator},
		{Key: "validationLevel", Value: "moderate"},
		{Key: "validationAction", Value: "error"},
	}
	var out bson.M
	if err := db.RunCommand(ctx, cmd).Decode(&out); err != nil {
		return err
	}
	zap.L().Info("validator ensured", zap.String("collection", name))
	return nil
}

/* ------------------------- error helpers ------------------------- */

func isNamespaceExistsErr(err error) bool {
	if err == nil {
		return false
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && (ce.Code == 48 || strings.Contains(strings.ToLower(ce.Message), "already exists")) {
		return true
	}
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "already exists") || strings.Contains(s, "namespace exists")
}

func isNoSuchCommand(err error) bool {
	if err == nil {
		return false
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && (ce.Code == 59 || strings.Contains(strings.ToLower(ce.Message), "no such command")) {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "no such command")
}

func isNotImplemented(err error) bool {
	if err == nil {
		return false
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && (ce.Code == 115 ||
		strings.Contains(strings.ToLower(ce.Message), "not implemented") ||
		strings.Contains(strings.ToLower(ce.Message), "not supported")) {
		return true
	}
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "not implemented") || strings.Contains(s, "not supported")
}

/* ------------------------- JSON-Schema docs ---------------------- */

const nonBlank = ".*\\S.*"

func enum(values ...string) bson.A {
	a := bson.A{}
	for _, v := range values {
		a = append(a, v)
	}
	return a
}

func usersSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"full_name", "mobile", "role", "status"},
			"properties": bson.M{
				"full_name":     bson.M{"bsonType": "string", "minLength": 1, "pattern": nonBlank},
				"full_name_ci":  bson.M{"bsonType": "string"},
				"mobile":        bson.M{"bsonType": "string", "pattern": "^[1-9][0-9]{9}$"},
				"email":         bson.M{"bsonType": bson.A{"string", "null"}},
				"password_hash": bson.M{"bsonType": "string"},
				"role":          bson.M{"enum": enum(models.AllRoles...)},
				"status":        bson.M{"enum": enum(models.StatusActive, models.StatusDisabled)},
				"district":      bson.M{"bsonType": "string"},
			},
		},
	}
}

func coordinatorsSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"user_id", "full_name", "mobile", "district", "created_at"},
			"properties": bson.M{
				"user_id":        bson.M{"bsonType": "objectId"},
				"full_name":      bson.M{"bsonType": "string", "minLength": 1, "pattern": nonBlank},
				"mobile":         bson.M{"bsonType": "string", "pattern": "^[1-9][0-9]{9}$"},
				"district":       bson.M{"bsonType": "string", "minLength": 1, "pattern": nonBlank},
				"state":          bson.M{"bsonType": "string"},
				"designation":    bson.M{"bsonType": "string"},
				"office_address": bson.M{"bsonType": "string"},
				"created_at":     bson.M{"bsonType": "date"},
				"updated_at":     bson.M{"bsonType": "date"},
			},
		},
	}
}

func uploadsSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"key", "original_name", "size", "created_at"},
			"properties": bson.M{
				"key":           bson.M{"bsonType": "string", "minLength": 1},
				"url":           bson.M{"bsonType": "string"},
				"original_name": bson.M{"bsonType": "string"},
				"size":          bson.M{"bsonType": "long", "minimum": 0},
				"content_type":  bson.M{"bsonType": "string"},
				"uploaded_by":   bson.M{"bsonType": "objectId"},
				"created_at":    bson.M{"bsonType": "date"},
			},
		},
	}
}

func appointmentsSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"hospital_id", "patient_name", "status", "scheduled_at"},
			"properties": bson.M{
				"hospital_id":  bson.M{"bsonType": "objectId"},
				"patient_name": bson.M{"bsonType": "string", "minLength": 1, "pattern": nonBlank},
				"reason":       bson.M{"bsonType": "string"},
				"status":       bson.M{"enum": enum(models.AppointmentPending, models.AppointmentCompleted, models.AppointmentCancelled)},
				"scheduled_at": bson.M{"bsonType": "date"},
			},
		},
	}
}

func ordersSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"store_id", "items", "status", "placed_at"},
			"properties": bson.M{
				"store_id":  bson.M{"bsonType": "objectId"},
				"items":     bson.M{"bsonType": "array"},
				"status":    bson.M{"enum": enum(models.OrderPending, models.OrderFulfilled)},
				"placed_at": bson.M{"bsonType": "date"},
			},
		},
	}
}

func visitsSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"assistant_id", "village", "status", "visit_at"},
			"properties": bson.M{
				"assistant_id": bson.M{"bsonType": "objectId"},
				"village":      bson.M{"bsonType": "string", "minLength": 1, "pattern": nonBlank},
				"purpose":      bson.M{"bsonType": "string"},
				"status":       bson.M{"enum": enum(models.VisitScheduled, models.VisitCompleted, models.VisitMissed)},
				"visit_at":     bson.M{"bsonType": "date"},
			},
		},
	}
}
