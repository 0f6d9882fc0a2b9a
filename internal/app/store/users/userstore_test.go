package userstore_test

import (
	"errors"
	"testing"
	"time"

	userstore "github.com/reelcircle/reelcircle/internal/app/store/users"
	"github.com/reelcircle/reelcircle/internal/app/system/indexes"
	"github.com/reelcircle/reelcircle/internal/domain/models"
	"github.com/reelcircle/reelcircle/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func TestStore_Create(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, models.User{DisplayName: "  Ada Lovelace ", Email: " Ada@Example.COM "})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if created.ID == primitive.NilObjectID {
		t.Error("expected ID to be assigned")
	}
	if created.DisplayName != "Ada Lovelace" || created.DisplayNameCI == "" {
		t.Errorf("name not normalized: %q / %q", created.DisplayName, created.DisplayNameCI)
	}
	if created.Email != "ada@example.com" {
		t.Errorf("email = %q, want lowercased", created.Email)
	}
	if created.Role != models.RoleViewer {
		t.Errorf("default role = %q, want viewer", created.Role)
	}

	got, err := store.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Diary == nil || len(got.Diary) != 0 {
		t.Errorf("expected empty diary, got %+v", got.Diary)
	}
}

func TestStore_CreateRejectsBadRoleAndDuplicateEmail(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	if err := indexes.EnsureAll(ctx, db, zap.NewNop()); err != nil {
		t.Fatalf("EnsureAll: %v", err)
	}
	store := userstore.New(db)

	if _, err := store.Create(ctx, models.User{DisplayName: "x", Email: "x@test.com", Role: "superuser"}); err == nil {
		t.Error("expected unknown role to be rejected")
	}
	if _, err := store.Create(ctx, models.User{DisplayName: "a", Email: "dup@test.com"}); err != nil {
		t.Fatalf("first create: %v", err)
	}
	_, err := store.Create(ctx, models.User{DisplayName: "b", Email: "DUP@test.com"})
	if !errors.Is(err, userstore.ErrDuplicateEmail) {
		t.Errorf("got %v, want ErrDuplicateEmail", err)
	}
}

func TestStore_SetRoleAndDelete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	u := fixtures.CreateUser(ctx, "critic", models.RoleCritic)
	if err := store.SetRole(ctx, u.ID, models.RoleModerator); err != nil {
		t.Fatalf("SetRole: %v", err)
	}
	got, _ := store.GetByID(ctx, u.ID)
	if got.Role != models.RoleModerator {
		t.Errorf("role = %q, want moderator", got.Role)
	}
	if err := store.SetRole(ctx, u.ID, "owner"); err == nil {
		t.Error("expected invalid role to be rejected")
	}
	if err := store.SetRole(ctx, primitive.NewObjectID(), models.RoleCritic); !errors.Is(err, mongo.ErrNoDocuments) {
		t.Errorf("missing user: got %v, want ErrNoDocuments", err)
	}

	n, err := store.Delete(ctx, u.ID)
	if err != nil || n != 1 {
		t.Fatalf("Delete = (%d, %v), want (1, nil)", n, err)
	}
	if n, _ := store.Delete(ctx, u.ID); n != 0 {
		t.Errorf("second Delete removed %d", n)
	}
	if _, err := store.GetByID(ctx, u.ID); !errors.Is(err, mongo.ErrNoDocuments) {
		t.Errorf("GetByID after delete: got %v", err)
	}
}

func TestStore_DiaryEntries(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	u := fixtures.CreateUser(ctx, "diarist", models.RoleViewer)
	heat := primitive.NewObjectID()
	ronin := primitive.NewObjectID()
	watched := time.Date(2024, 5, 1, 20, 0, 0, 0, time.UTC)

	replaced, err := store.ReplaceDiaryEntry(ctx, u.ID, models.DiaryEntry{MovieID: heat, Rating: 7})
	if err != nil || replaced {
		t.Fatalf("Replace on empty diary = (%v, %v), want (false, nil)", replaced, err)
	}

	for _, e := range []models.DiaryEntry{
		{MovieID: heat, WatchedAt: watched, ReviewText: "tense", Rating: 7},
		{MovieID: ronin, WatchedAt: watched, ReviewText: "car chase", Rating: 8},
	} {
		if err := store.AppendDiaryEntry(ctx, u.ID, e); err != nil {
			t.Fatalf("AppendDiaryEntry: %v", err)
		}
	}
	if err := store.AppendDiaryEntry(ctx, primitive.NewObjectID(), models.DiaryEntry{MovieID: heat}); !errors.Is(err, mongo.ErrNoDocuments) {
		t.Errorf("append to missing user: got %v, want ErrNoDocuments", err)
	}

	later := watched.Add(48 * time.Hour)
	replaced, err = store.ReplaceDiaryEntry(ctx, u.ID, models.DiaryEntry{MovieID: heat, WatchedAt: later, ReviewText: "masterpiece", Rating: 9.5})
	if err != nil || !replaced {
		t.Fatalf("Replace = (%v, %v), want (true, nil)", replaced, err)
	}

	got, _ := store.GetByID(ctx, u.ID)
	if len(got.Diary) != 2 {
		t.Fatalf("diary has %d entries, want 2", len(got.Diary))
	}
	e, ok := got.DiaryEntryFor(heat)
	if !ok || e.Rating != 9.5 || e.ReviewText != "masterpiece" || !e.WatchedAt.Equal(later) {
		t.Errorf("heat entry not replaced in place: %+v", e)
	}
	if e, _ := got.DiaryEntryFor(ronin); e.Rating != 8 {
		t.Errorf("ronin entry changed: %+v", e)
	}

	if err := store.RemoveDiaryEntry(ctx, u.ID, heat); err != nil {
		t.Fatalf("RemoveDiaryEntry: %v", err)
	}
	if err := store.RemoveDiaryEntry(ctx, u.ID, heat); err != nil {
		t.Errorf("removing an absent entry: %v", err)
	}
	got, _ = store.GetByID(ctx, u.ID)
	if _, ok := got.DiaryEntryFor(heat); ok || len(got.Diary) != 1 {
		t.Errorf("diary after remove = %+v", got.Diary)
	}
}

func TestFetcher_FetchUser(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	u := fixtures.CreateUser(ctx, "Mod Squad", models.RoleModerator)
	f := userstore.NewFetcher(db)

	got := f.FetchUser(ctx, u.ID.Hex())
	if got == nil || got.ID != u.ID.Hex() || got.Role != models.RoleModerator {
		t.Errorf("FetchUser = %+v", got)
	}
	if f.FetchUser(ctx, primitive.NewObjectID().Hex()) != nil {
		t.Error("missing user should fetch nil")
	}
	if f.FetchUser(ctx, "not-hex") != nil {
		t.Error("malformed id should fetch nil")
	}
}
