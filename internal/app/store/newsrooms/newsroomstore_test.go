package newsroomstore_test

import (
	"testing"

	newsroomstore "github.com/reelcircle/reelcircle/internal/app/store/newsrooms"
	"github.com/reelcircle/reelcircle/internal/domain/models"
	"github.com/reelcircle/reelcircle/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestStore_RemoveUser(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := newsroomstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	creator := fixtures.CreateUser(ctx, "creator", models.RoleCritic)
	bob := fixtures.CreateUser(ctx, "bob", models.RoleViewer)
	carol := fixtures.CreateUser(ctx, "carol", models.RoleViewer)

	edited := fixtures.CreateNewsroom(ctx, "Edited", creator.ID, []primitive.ObjectID{bob.ID, carol.ID}, nil)
	followed := fixtures.CreateNewsroom(ctx, "Followed", creator.ID, nil, []primitive.ObjectID{bob.ID})
	owned := fixtures.CreateNewsroom(ctx, "Bob's", bob.ID, nil, []primitive.ObjectID{carol.ID})

	n, err := store.RemoveUser(ctx, bob.ID)
	if err != nil || n != 2 {
		t.Fatalf("RemoveUser = (%d, %v), want (2, nil)", n, err)
	}

	got, _ := store.GetByID(ctx, edited.ID)
	if len(got.Editors) != 1 || got.Editors[0] != carol.ID {
		t.Errorf("editors = %v, want only carol", got.Editors)
	}
	if got, _ := store.GetByID(ctx, followed.ID); len(got.Followers) != 0 {
		t.Errorf("followers = %v, want none", got.Followers)
	}
	got, err = store.GetByID(ctx, owned.ID)
	if err != nil || got.CreatorID != bob.ID || len(got.Followers) != 1 {
		t.Errorf("created newsroom changed: %+v, %v", got, err)
	}
}
