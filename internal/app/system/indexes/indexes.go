// internal/app/system/indexes/indexes.go
package indexes

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

/*
EnsureAll is called at startup. Each collection's index set is reconciled
independently and errors are aggregated so every problem shows up in one
startup failure.
*/
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var problems []string

	for _, spec := range specs() {
		if err := ensureIndexSet(ctx, db.Collection(spec.collection), spec.models); err != nil {
			problems = append(problems, spec.collection+": "+err.Error())
		}
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

type collectionIndexes struct {
	collection string
	models     []mongo.IndexModel
}

func idx(name string, unique bool, keys ...bson.E) mongo.IndexModel {
	opts := options.Index().SetName(name)
	if unique {
		opts.SetUnique(true)
	}
	return mongo.IndexModel{Keys: bson.D(keys), Options: opts}
}

func asc(field string) bson.E  { return bson.E{Key: field, Value: 1} }
func desc(field string) bson.E { return bson.E{Key: field, Value: -1} }

func specs() []collectionIndexes {
	return []collectionIndexes{
		{"users", []mongo.IndexModel{
			idx("uniq_users_mobile", true, asc("mobile")),
			idx("idx_users_role_district", false, asc("role"), asc("district_ci")),
			idx("idx_users_fullname_ci", false, asc("full_name_ci"), asc("_id")),
		}},
		{"district_coordinators", []mongo.IndexModel{
			idx("uniq_coordinators_user", true, asc("user_id")),
			idx("idx_coordinators_mobile", false, asc("mobile")),
			idx("idx_coordinators_district", false, asc("district_ci")),
		}},
		{"uploads", []mongo.IndexModel{
			idx("uniq_uploads_key", true, asc("key")),
			idx("idx_uploads_uploader_created", false, asc("uploaded_by"), desc("created_at")),
		}},
		{"audit_events", []mongo.IndexModel{
			idx("idx_audit_timestamp", false, desc("timestamp")),
			idx("idx_audit_user_timestamp", false, asc("user_id"), desc("timestamp")),
			idx("idx_audit_actor_timestamp", false, asc("actor_id"), desc("timestamp")),
			idx("idx_audit_category_type_timestamp", false, asc("category"), asc("event_type"), desc("timestamp")),
		}},
		{"appointments", []mongo.IndexModel{
			idx("idx_appointments_hospital_scheduled", false, asc("hospital_id"), desc("scheduled_at")),
			idx("idx_appointments_hospital_status", false, asc("hospital_id"), asc("status")),
		}},
		{"medicine_orders", []mongo.IndexModel{
			idx("idx_orders_store_placed", false, asc("store_id"), desc("placed_at")),
			idx("idx_orders_store_status", false, asc("store_id"), asc("status")),
		}},
		{"visit_schedules", []mongo.IndexModel{
			idx("idx_visits_assistant_visit", false, asc("assistant_id"), desc("visit_at")),
			idx("idx_visits_assistant_status", false, asc("assistant_id"), asc("status")),
		}},
	}
}

/* -------------------------------------------------------------------------- */
/* Reconcile a set of desired indexes for one collection                      */
/* -------------------------------------------------------------------------- */

type existingIndex struct {
	Name   string `bson:"name"`
	Key    bson.D `bson:"key"`
	Unique *bool  `bson:"unique,omitempty"`
}

func keySig(keys bson.D) string {
	parts := make([]string, 0, len(keys))
	for _, kv := range keys {
		parts = append(parts, fmt.Sprintf("%s:%v", kv.Key, kv.Value))
	}
	return strings.Join(parts, ", ")
}

func boolVal(b *bool) bool { return b != nil && *b }

func isDuplicateKeyErr(err error) bool {
	if err == nil {
		return false
	}
	if mongo.IsDuplicateKeyError(err) {
		return true
	}
	s := err.Error()
	return strings.Contains(s, "E11000") || strings.Contains(strings.ToLower(s), "duplicate key")
}

func listExisting(ctx context.Context, coll *mongo.Collection) (map[string]existingIndex, error) {
	cur, err := coll.Indexes().List(ctx)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := map[string]existingIndex{}
	for cur.Next(ctx) {
		var ix existingIndex
		if err := cur.Decode(&ix); err != nil {
			zap.L().Warn("failed to decode existing index",
				zap.String("collection", coll.Name()), zap.Error(err))
			continue
		}
		out[keySig(ix.Key)] = ix
	}
	return out, cur.Err()
}

func ensureIndexSet(ctx context.Context, coll *mongo.Collection, models []mongo.IndexModel) error {
	existing, err := listExisting(ctx, coll)
	if err != nil {
		// A missing collection lists as an error on some servers; create anyway.
		existing = map[string]existingIndex{}
	}

	var errs []string
	for _, m := range models {
		name := ""
		if m.Options != nil && m.Options.Name != nil {
			name = *m.Options.Name
		}
		unique := m.Options != nil && boolVal(m.Options.Unique)
		sig := keySig(m.Keys.(bson.D))
		start := time.Now()

		if ex, ok := existing[sig]; ok {
			if boolVal(ex.Unique) == unique && (name == "" || ex.Name == name) {
				zap.L().Debug("reusing existing index",
					zap.String("collection", coll.Name()),
					zap.String("name", ex.Name),
					zap.String("keys", sig))
				continue
			}
			// Same keys with a different name or uniqueness: replace it.
			if _, err := coll.Indexes().DropOne(ctx, ex.Name); err != nil {
				errs = append(errs, fmt.Sprintf("%s(%s): drop failed: %v", coll.Name(), name, err))
				continue
			}
		}

		created, err := coll.Indexes().CreateOne(ctx, m)
		if err != nil {
			if unique && isDuplicateKeyErr(err) {
				errs = append(errs, fmt.Sprintf("%s(%s): cannot create unique index on %s (duplicates present)", coll.Name(), name, sig))
			} else {
				errs = append(errs, fmt.Sprintf("%s(%s): %v", coll.Name(), name, err))
			}
			zap.L().Warn("index ensure failed",
				zap.String("collection", coll.Name()),
				zap.String("name", name),
				zap.String("keys", sig),
				zap.Error(err))
			continue
		}
		zap.L().Info("index ensured",
			zap.String("collection", coll.Name()),
			zap.String("name", created),
			zap.String("keys", sig),
			zap.Bool("unique", unique),
			zap.Duration("took", time.Since(start)))
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}
