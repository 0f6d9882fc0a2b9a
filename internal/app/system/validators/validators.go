// internal/app/system/validators/validators.go
package validators

import (
	"context"
	"errors"
	"strings"

	"github.com/reelcircle/reelcircle/internal/app/content"
	"github.com/reelcircle/reelcircle/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// EnsureAll creates collections (if missing) and tries to attach JSON-Schema
// validators. On servers that don't support collMod/validators (e.g. some
// DocumentDB versions), we log and skip gracefully.
//
// The validators back the core's own checks at the storage layer: a rating
// outside [0, 10] or a report with an unknown status cannot be written even
// by a buggy caller.
func EnsureAll(ctx context.Context, db *mongo.Database, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	var problems []string

	ensure := func(coll string, schema bson.M) {
		if _, err := ensureCollection(ctx, db, coll, logger); err != nil {
			problems = append(problems, coll+": "+err.Error())
			return
		}
		if schema == nil {
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
	ensure("movies", moviesSchema())
	ensure("reviews", reviewsSchema())
	ensure("reports", reportsSchema())
	ensure("user_warnings", warningsSchema())

	ensure("comments", postSchema("review_id", "body"))
	ensure("group_posts", postSchema("group_id", "body"))
	ensure("news_posts", postSchema("newsroom_id", "title"))

	// No validator; the collection still has to exist for the audit indexes.
	ensure("audit_events", nil)

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
	logger.Info("validator ensured", zap.String("collection", name))
	return nil
}

/* ------------------------- error helpers ------------------------- */

func commandErrorMatches(err error, code int32, phrases ...string) bool {
	if err == nil {
		return false
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && ce.Code == code {
		return true
	}
	s := strings.ToLower(err.Error())
	for _, p := range phrases {
		if strings.Contains(s, p) {
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

var nonBlank = bson.M{"bsonType": "string", "minLength": 1, "pattern": ".*\\S.*"}

var ratingRange = bson.M{"bsonType": bson.A{"double", "int", "long"}, "minimum": 0, "maximum": 10}

func usersSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"display_name", "email", "role"},
			"properties": bson.M{
				"display_name": nonBlank,
				"email":        bson.M{"bsonType": "string"},
				"role": bson.M{"enum": bson.A{
					models.RoleViewer, models.RoleCritic, models.RoleModerator, models.RoleAdmin, models.RoleFilmmaker,
				}},
				"diary": bson.M{
					"bsonType": "array",
					"items": bson.M{
						"bsonType": "object",
						"required": bson.A{"movie_id", "rating"},
						"properties": bson.M{
							"movie_id": bson.M{"bsonType": "objectId"},
							"rating":   ratingRange,
						},
					},
				},
			},
		},
	}
}

func moviesSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"title", "title_ci"},
			"properties": bson.M{
				"title":          nonBlank,
				"title_ci":       nonBlank,
				"average_rating": ratingRange,
			},
		},
	}
}

func reviewsSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"author_id", "movie_id", "rating"},
			"properties": bson.M{
				"author_id":     bson.M{"bsonType": "objectId"},
				"movie_id":      bson.M{"bsonType": "objectId"},
				"rating":        ratingRange,
				"text":          bson.M{"bsonType": "string"},
				"spoiler":       bson.M{"bsonType": "bool"},
				"helpful_votes": bson.M{"bsonType": "array", "items": bson.M{"bsonType": "objectId"}},
			},
		},
	}
}

func reportsSchema() bson.M {
	kinds := bson.A{}
	for _, k := range content.Kinds {
		kinds = append(kinds, string(k))
	}
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"reporter_id", "target_type", "target_id", "reason", "status"},
			"properties": bson.M{
				"reporter_id": bson.M{"bsonType": "objectId"},
				"target_type": bson.M{"enum": kinds},
				"target_id":   bson.M{"bsonType": "objectId"},
				"reason":      nonBlank,
				"status":      bson.M{"enum": bson.A{models.ReportPending, models.ReportResolved, models.ReportDismissed}},
				"resolved_by": bson.M{"bsonType": "objectId"},
			},
		},
	}
}

func warningsSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"user_id", "issued_by", "reason"},
			"properties": bson.M{
				"user_id":   bson.M{"bsonType": "objectId"},
				"issued_by": bson.M{"bsonType": "objectId"},
				"reason":    nonBlank,
			},
		},
	}
}

// postSchema covers the three kinds of user posts: each has an author, a
// scope id and one required text field.
func postSchema(scopeField, textField string) bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"author_id", scopeField, textField},
			"properties": bson.M{
				"author_id": bson.M{"bsonType": "objectId"},
				scopeField:  bson.M{"bsonType": "objectId"},
				textField:   bson.M{"bsonType": "string"},
			},
		},
	}
}
