package indexes_test

import (
	"testing"

	"github.com/reelcircle/reelcircle/internal/app/system/indexes"
	"github.com/reelcircle/reelcircle/internal/domain/models"
	"github.com/reelcircle/reelcircle/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func TestSets_NamesAreUnique(t *testing.T) {
	seen := map[string]string{}
	for _, set := range indexes.Sets() {
		for _, m := range set.Models {
			if m.Options == nil || m.Options.Name == nil {
				t.Errorf("%s: index without a name", set.Collection)
				continue
			}
			name := *m.Options.Name
			if prev, ok := seen[name]; ok {
				t.Errorf("index name %q used by %s and %s", name, prev, set.Collection)
			}
			seen[name] = set.Collection
		}
	}
}

func TestEnsureAll(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := indexes.EnsureAll(ctx, db, zap.NewNop()); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}
}

func TestEnsureAll_Idempotent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := indexes.EnsureAll(ctx, db, zap.NewNop()); err != nil {
		t.Fatalf("First EnsureAll failed: %v", err)
	}
	if err := indexes.EnsureAll(ctx, db, zap.NewNop()); err != nil {
		t.Fatalf("Second EnsureAll failed: %v", err)
	}
}

func TestEnsureAll_ReviewUniqueness(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := indexes.EnsureAll(ctx, db, zap.NewNop()); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	author := primitive.NewObjectID()
	movie := primitive.NewObjectID()
	c := db.Collection("reviews")
	if _, err := c.InsertOne(ctx, models.Review{ID: primitive.NewObjectID(), AuthorID: author, MovieID: movie, Rating: 5}); err != nil {
		t.Fatalf("first insert failed: %v", err)
	}
	_, err := c.InsertOne(ctx, models.Review{ID: primitive.NewObjectID(), AuthorID: author, MovieID: movie, Rating: 7})
	if !mongo.IsDuplicateKeyError(err) {
		t.Errorf("expected duplicate key error, got %v", err)
	}

	n, err := c.CountDocuments(ctx, bson.M{"author_id": author})
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 review, got %d", n)
	}
}
