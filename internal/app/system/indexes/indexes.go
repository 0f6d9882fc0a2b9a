// internal/app/system/indexes/indexes.go
package indexes

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

/*
EnsureAll is called at startup from the EnsureSchema hook. Each collection's
set is reconciled independently and errors are aggregated so every problem
is visible and startup can fail fast.
*/
func EnsureAll(ctx context.Context, db *mongo.Database, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	var problems []string
	for _, set := range Sets() {
		if err := ensureIndexSet(ctx, db.Collection(set.Collection), set.Models, logger); err != nil {
			problems = append(problems, set.Collection+": "+err.Error())
		}
	}
	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

// Set is the desired index list for one collection.
type Set struct {
	Collection string
	Models     []mongo.IndexModel
}

// Sets returns every index the application relies on.
func Sets() []Set {
	return []Set{
		{"users", []mongo.IndexModel{
			{
				Keys:    bson.D{{Key: "email", Value: 1}},
				Options: options.Index().SetUnique(true).SetName("uniq_users_email"),
			},
			{
				Keys:    bson.D{{Key: "role", Value: 1}, {Key: "display_name_ci", Value: 1}, {Key: "_id", Value: 1}},
				Options: options.Index().SetName("idx_users_role_name_id"),
			},
		}},
		{"movies", []mongo.IndexModel{
			{
				Keys:    bson.D{{Key: "title_ci", Value: 1}, {Key: "year", Value: 1}},
				Options: options.Index().SetName("idx_movies_titleci_year"),
			},
		}},
		{"reviews", []mongo.IndexModel{
			// One review per (author, movie). Backstops the service pre-check.
			{
				Keys:    bson.D{{Key: "author_id", Value: 1}, {Key: "movie_id", Value: 1}},
				Options: options.Index().SetUnique(true).SetName("uniq_reviews_author_movie"),
			},
			// Average recomputation reads every rating for a movie.
			{
				Keys:    bson.D{{Key: "movie_id", Value: 1}, {Key: "rating", Value: 1}},
				Options: options.Index().SetName("idx_reviews_movie_rating"),
			},
		}},
		{"comments", []mongo.IndexModel{
			{
				Keys:    bson.D{{Key: "review_id", Value: 1}, {Key: "created_at", Value: 1}},
				Options: options.Index().SetName("idx_comments_review_created"),
			},
			{
				Keys:    bson.D{{Key: "author_id", Value: 1}},
				Options: options.Index().SetName("idx_comments_author"),
			},
		}},
		{"group_posts", []mongo.IndexModel{
			{
				Keys:    bson.D{{Key: "group_id", Value: 1}, {Key: "created_at", Value: 1}},
				Options: options.Index().SetName("idx_groupposts_group_created"),
			},
			{
				Keys:    bson.D{{Key: "author_id", Value: 1}},
				Options: options.Index().SetName("idx_groupposts_author"),
			},
		}},
		{"news_posts", []mongo.IndexModel{
			{
				Keys:    bson.D{{Key: "newsroom_id", Value: 1}, {Key: "created_at", Value: -1}},
				Options: options.Index().SetName("idx_newsposts_newsroom_created"),
			},
			{
				Keys:    bson.D{{Key: "author_id", Value: 1}},
				Options: options.Index().SetName("idx_newsposts_author"),
			},
		}},
		{"groups", []mongo.IndexModel{
			{
				Keys:    bson.D{{Key: "name_ci", Value: 1}},
				Options: options.Index().SetUnique(true).SetName("uniq_groups_nameci"),
			},
			{
				Keys:    bson.D{{Key: "members.user_id", Value: 1}},
				Options: options.Index().SetName("idx_groups_member"),
			},
		}},
		{"newsrooms", []mongo.IndexModel{
			{
				Keys:    bson.D{{Key: "editors", Value: 1}},
				Options: options.Index().SetName("idx_newsrooms_editors"),
			},
			{
				Keys:    bson.D{{Key: "followers", Value: 1}},
				Options: options.Index().SetName("idx_newsrooms_followers"),
			},
		}},
		{"reports", []mongo.IndexModel{
			// Pending-duplicate check on flag.
			{
				Keys: bson.D{
					{Key: "reporter_id", Value: 1},
					{Key: "target_type", Value: 1},
					{Key: "target_id", Value: 1},
					{Key: "status", Value: 1},
				},
				Options: options.Index().SetName("idx_reports_reporter_target_status"),
			},
			// Moderator queue.
			{
				Keys:    bson.D{{Key: "status", Value: 1}, {Key: "created_at", Value: -1}},
				Options: options.Index().SetName("idx_reports_status_created"),
			},
		}},
		{"user_warnings", []mongo.IndexModel{
			{
				Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}},
				Options: options.Index().SetName("idx_warnings_user_created"),
			},
		}},
		{"audit_events", []mongo.IndexModel{
			{
				Keys:    bson.D{{Key: "timestamp", Value: -1}},
				Options: options.Index().SetName("idx_audit_timestamp"),
			},
			{
				Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "timestamp", Value: -1}},
				Options: options.Index().SetName("idx_audit_user_timestamp"),
			},
			{
				Keys:    bson.D{{Key: "actor_id", Value: 1}, {Key: "timestamp", Value: -1}},
				Options: options.Index().SetName("idx_audit_actor_timestamp"),
			},
			{
				Keys: bson.D{
					{Key: "category", Value: 1},
					{Key: "event_type", Value: 1},
					{Key: "timestamp", Value: -1},
				},
				Options: options.Index().SetName("idx_audit_category_type_timestamp"),
			},
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

func isUnique(b *bool) bool { return b != nil && *b }

func listExisting(ctx context.Context, coll *mongo.Collection) (map[string]existingIndex, error) {
	cur, err := coll.Indexes().List(ctx)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := map[string]existingIndex{} // sig -> index
	for cur.Next(ctx) {
		var idx existingIndex
		if err := cur.Decode(&idx); err != nil {
			continue
		}
		out[keySig(idx.Key)] = idx
	}
	return out, cur.Err()
}

func ensureIndexSet(ctx context.Context, coll *mongo.Collection, models []mongo.IndexModel, logger *zap.Logger) error {
	existing, err := listExisting(ctx, coll)
	if err != nil {
		// A collection that does not exist yet has no indexes to reconcile.
		existing = map[string]existingIndex{}
	}

	var errs []string
	for _, m := range models {
		var name string
		var unique *bool
		if m.Options != nil {
			if m.Options.Name != nil {
				name = *m.Options.Name
			}
			unique = m.Options.Unique
		}
		sig := keySig(m.Keys.(bson.D))
		start := time.Now()
		log := logger.With(
			zap.String("collection", coll.Name()),
			zap.String("name", name),
			zap.String("keys", sig),
			zap.Bool("unique", isUnique(unique)))

		if ex, ok := existing[sig]; ok {
			if isUnique(ex.Unique) == isUnique(unique) && (name == "" || ex.Name == name) {
				log.Debug("reusing existing index")
				continue
			}
			// Name or uniqueness changed: drop and recreate.
			if _, err := coll.Indexes().DropOne(ctx, ex.Name); err != nil {
				log.Warn("drop existing index failed", zap.String("existing", ex.Name), zap.Error(err))
				errs = append(errs, fmt.Sprintf("%s: drop %s failed: %v", name, ex.Name, err))
				continue
			}
		}

		if _, err := coll.Indexes().CreateOne(ctx, m); err != nil {
			if wafflemongo.IsDup(err) && isUnique(unique) {
				errs = append(errs, fmt.Sprintf("%s: cannot create unique index (duplicates present on %s)", name, sig))
			} else {
				errs = append(errs, fmt.Sprintf("%s: %v", name, err))
			}
			log.Warn("index ensure failed", zap.Error(err))
			continue
		}
		log.Info("index ensured", zap.Duration("took", time.Since(start)))
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}
