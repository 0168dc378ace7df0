// internal/app/system/validators/validators.go
package validators

import (
	"context"
	"errors"
	"strings"

	"github.com/dalemusser/portfolio/internal/app/store/audit"
	"github.com/dalemusser/portfolio/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// EnsureAll creates collections (if missing) and tries to attach JSON-Schema
// validators. On servers that don't support collMod/validators (e.g. some
// DocumentDB versions), we log and skip gracefully.
func EnsureAll(ctx context.Context, db *mongo.Database, logger *zap.Logger) error {
	var problems []string

	ensure := func(coll string, schema bson.M) {
		if _, err := ensureCollection(ctx, db, coll, logger); err != nil {
			problems = append(problems, coll+": "+err.Error())
			return
		}
		if err := setValidator(ctx, db, coll, schema, logger); err != nil {
			if isNoSuchCommand(err) || isNotImplemented(err) {
				logger.Info("validator skipped (unsupported)", zap.String("collection", coll))
				return
			}
			problems = append(problems, coll+": "+err.Error())
		}
	}

	ensure("users", usersSchema())
	ensure("projects", projectsSchema())
	ensure("site_settings", siteSettingsSchema())
	ensure("audit_events", auditEventsSchema())

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

/* ---------------------- collection helpers & logging ---------------------- */

func collectionExists(ctx context.Context, db *mongo.Database, name string) (bool, error) {
	names, err := db.ListCollectionNames(ctx, bson.M{"name": name})
	if err != nil {
		return false, err
	}
	return len(names) > 0, nil
}

// ensureCollection idempotently makes sure <name> exists.
// Returns created==true only if we actually created it.
func ensureCollection(ctx context.Context, db *mongo.Database, name string, logger *zap.Logger) (created bool, err error) {
	exists, listErr := collectionExists(ctx, db, name)
	if listErr == nil && exists {
		logger.Debug("collection exists", zap.String("collection", name))
		return false, nil
	}
	// If listing failed, fall back to create-and-handle-race.
	if err := db.CreateCollection(ctx, name); err != nil {
		if isNamespaceExistsErr(err) {
			return false, nil
		}
		logger.Warn("createCollection failed", zap.String("collection", name), zap.Error(err))
		return false, err
	}
	logger.Info("created collection", zap.String("collection", name))
	return true, nil
}

/* ------------------------------ validators ------------------------------- */

func setValidator(ctx context.Context, db *mongo.Database, name string, validator bson.M, logger *zap.Logger) error {
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
	logger.Debug("validator ensured", zap.String("collection", name))
	return nil
}

/* ------------------------- error helpers ------------------------- */

func commandErrorMatches(err error, code int32, fragments ...string) bool {
	if err == nil {
		return false
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && ce.Code == code {
		return true
	}
	s := strings.ToLower(err.Error())
	for _, f := range fragments {
		if strings.Contains(s, f) {
			return true
		}
	}
	return false
}

func isNamespaceExistsErr(err error) bool {
	return commandErrorMatches(err, 48, "already exists", "namespace exists")
}

func isNoSuchCommand(err error) bool {
	return commandErrorMatches(err, 59, "no such command")
}

func isNotImplemented(err error) bool {
	return commandErrorMatches(err, 115, "not implemented", "not supported")
}

/* ------------------------- JSON-Schema docs ---------------------- */

var (
	nonBlank = bson.M{"bsonType": "string", "minLength": 1, "pattern": ".*\\S.*"}
	counter  = bson.M{"bsonType": bson.A{"int", "long"}, "minimum": 0}
)

func usersSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"name", "email", "role"},
			"properties": bson.M{
				"name":          nonBlank,
				"email":         bson.M{"bsonType": "string", "pattern": "^[^\\s@]+@[^\\s@]+\\.[^\\s@]+$"},
				"password":      bson.M{"bsonType": "string"},
				"role":          bson.M{"enum": bson.A{models.RoleAdmin, models.RoleUser}},
				"phone":         bson.M{"bsonType": "string"},
				"token_version": counter,
			},
		},
	}
}

func linkClicksSchema() bson.M {
	return bson.M{
		"bsonType": "object",
		"properties": bson.M{
			"count":  counter,
			"clicks": bson.M{"bsonType": "array", "maxItems": models.MaxRetainedClicks},
		},
	}
}

func projectsSchema() bson.M {
	stats := bson.M{"total_clicks": counter}
	for _, lt := range models.LinkTypes {
		stats[lt.Field()] = linkClicksSchema()
	}
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"title", "slug", "click_stats"},
			"properties": bson.M{
				"title":    nonBlank,
				"title_ci": bson.M{"bsonType": "string"},
				"slug":     nonBlank,
				"featured": bson.M{"bsonType": "bool"},
				"click_stats": bson.M{
					"bsonType":   "object",
					"properties": stats,
				},
			},
		},
	}
}

func siteSettingsSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"site_name"},
			"properties": bson.M{
				"site_name":  nonBlank,
				"about_html": bson.M{"bsonType": "string"},
			},
		},
	}
}

func auditEventsSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"timestamp", "category", "event_type"},
			"properties": bson.M{
				"timestamp":  bson.M{"bsonType": "date"},
				"category":   bson.M{"enum": bson.A{audit.CategoryAuth, audit.CategoryAdmin}},
				"event_type": nonBlank,
			},
		},
	}
}
