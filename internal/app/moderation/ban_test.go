package moderation_test

import (
	"context"
	"errors"
	"testing"

	"github.com/reelcircle/reelcircle/internal/app/content"
	"github.com/reelcircle/reelcircle/internal/app/moderation"
	"github.com/reelcircle/reelcircle/internal/app/ratings"
	"github.com/reelcircle/reelcircle/internal/app/store/audit"
	"github.com/reelcircle/reelcircle/internal/app/system/apperr"
	"github.com/reelcircle/reelcircle/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// A reported group post's author is banned.
func TestBanUser_CascadeAfterReport(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	u := e.mem.AddUser("u", models.RoleViewer)
	reporter := e.mem.AddUser("reporter", models.RoleViewer)
	group := e.mem.AddGroup("Noir fans",
		models.GroupMember{UserID: u.ID, Role: models.GroupRoleMember},
		models.GroupMember{UserID: reporter.ID, Role: models.GroupRoleAdmin})
	post := e.mem.AddGroupPost(u.ID, group.ID, "spam spam")
	other := e.mem.AddComment(reporter.ID, primitive.NewObjectID(), "fine comment")

	against, err := e.engine.FlagContent(ctx, reporter.ID, "GroupPost", post.ID, "spam")
	if err != nil {
		t.Fatalf("flag post: %v", err)
	}
	byU, err := e.engine.FlagContent(ctx, u.ID, "Comment", other.ID, "revenge")
	if err != nil {
		t.Fatalf("flag by u: %v", err)
	}

	res, err := e.engine.BanUser(ctx, e.mod.ID, u.ID)
	if err != nil {
		t.Fatalf("BanUser: %v", err)
	}
	if res.Message == "" || res.RunID == "" {
		t.Errorf("incomplete result %+v", res)
	}

	if e.mem.Has(content.KindGroupPost, post.ID) {
		t.Error("banned user's group post should be deleted")
	}
	if !e.mem.Has(content.KindComment, other.ID) {
		t.Error("other users' content must remain")
	}
	got, _ := e.mem.Report(byU.ID)
	if got.Status != models.ReportResolved || got.ModeratorNote != models.BannedReportNote {
		t.Errorf("banned user's report = %q/%q, want resolved/%q", got.Status, got.ModeratorNote, models.BannedReportNote)
	}
	if got, _ := e.mem.Report(against.ID); got.Status != models.ReportPending {
		t.Errorf("report against the post = %q, want still pending", got.Status)
	}
	if _, ok := e.mem.User(u.ID); ok {
		t.Error("user record should be deleted")
	}
	for _, m := range e.mem.Group(group.ID).Members {
		if m.UserID == u.ID {
			t.Error("banned user should be removed from group members")
		}
	}

	if res.Counts["content_GroupPost"] != 1 || res.Counts[moderation.StepReports] != 1 || res.Counts[moderation.StepAccount] != 1 {
		t.Errorf("counts = %v", res.Counts)
	}
	if e.sink.count(audit.EventUserBanned) != 1 {
		t.Error("expected a user_banned audit event")
	}
}

func TestBanUser_RemovesAllContentKinds(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	u := e.mem.AddUser("u", models.RoleCritic)
	fan := e.mem.AddUser("fan", models.RoleViewer)
	movie := e.mem.AddMovie("Vertigo")
	newsroom := e.mem.AddNewsroom("Daily Reel", fan.ID, []primitive.ObjectID{u.ID}, []primitive.ObjectID{u.ID, fan.ID})

	if _, err := e.ratings.CreateReview(ctx, u.ID, ratings.ReviewInput{MovieID: movie.ID, Rating: f(1)}); err != nil {
		t.Fatalf("review u: %v", err)
	}
	if _, err := e.ratings.CreateReview(ctx, fan.ID, ratings.ReviewInput{MovieID: movie.ID, Rating: f(9)}); err != nil {
		t.Fatalf("review fan: %v", err)
	}
	c := e.mem.AddComment(u.ID, primitive.NewObjectID(), "c")
	gp := e.mem.AddGroupPost(u.ID, primitive.NewObjectID(), "g")
	np := e.mem.AddNewsPost(u.ID, newsroom.ID, "n")

	if _, err := e.engine.BanUser(ctx, e.admin.ID, u.ID); err != nil {
		t.Fatalf("BanUser: %v", err)
	}

	for kind, id := range map[content.Kind]primitive.ObjectID{
		content.KindComment:   c.ID,
		content.KindGroupPost: gp.ID,
		content.KindNewsPost:  np.ID,
	} {
		if e.mem.Has(kind, id) {
			t.Errorf("%s by banned user should be deleted", kind)
		}
	}
	if e.mem.ReviewCount() != 1 {
		t.Errorf("review count = %d, want 1", e.mem.ReviewCount())
	}
	if avg := e.mem.Movie(movie.ID).AverageRating; avg != 9 {
		t.Errorf("average = %v, want 9 after ban", avg)
	}
	nr := e.mem.Newsroom(newsroom.ID)
	if len(nr.Editors) != 0 || len(nr.Followers) != 1 {
		t.Errorf("newsroom editors=%v followers=%v", nr.Editors, nr.Followers)
	}
}

func TestBanUser_ModeratorsAndAdminsCannotBeBanned(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	otherMod := e.mem.AddUser("mod2", models.RoleModerator)
	otherAdmin := e.mem.AddUser("admin2", models.RoleAdmin)
	c := e.mem.AddComment(otherMod.ID, primitive.NewObjectID(), "mod comment")

	for _, actor := range []models.User{e.mod, e.admin} {
		for _, target := range []models.User{otherMod, otherAdmin} {
			t.Run(actor.Role+"_bans_"+target.Role, func(t *testing.T) {
				if _, err := e.engine.BanUser(ctx, actor.ID, target.ID); !errors.Is(err, apperr.ErrForbidden) {
					t.Errorf("got %v, want Forbidden", err)
				}
				if _, ok := e.mem.User(target.ID); !ok {
					t.Error("target must not be deleted")
				}
			})
		}
	}
	if !e.mem.Has(content.KindComment, c.ID) {
		t.Error("Forbidden ban must not mutate content")
	}
}

func TestBanUser_Errors(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	critic := e.mem.AddUser("critic", models.RoleCritic)

	if _, err := e.engine.BanUser(ctx, e.viewer.ID, critic.ID); !errors.Is(err, apperr.ErrForbidden) {
		t.Errorf("viewer actor: got %v, want Forbidden", err)
	}
	if _, err := e.engine.BanUser(ctx, e.mod.ID, primitive.NewObjectID()); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("missing target: got %v, want NotFound", err)
	}
}

func TestBanUser_RerunCompletesPartialBan(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	u := e.mem.AddUser("u", models.RoleViewer)
	c := e.mem.AddComment(u.ID, primitive.NewObjectID(), "c")
	gp := e.mem.AddGroupPost(u.ID, primitive.NewObjectID(), "g")

	boom := errors.New("connection reset")
	e.mem.FailOnce(string(content.KindGroupPost)+".RemoveByAuthor", boom)

	if _, err := e.engine.BanUser(ctx, e.mod.ID, u.ID); !errors.Is(err, boom) {
		t.Fatalf("first ban: got %v, want injected failure", err)
	}
	if e.mem.Has(content.KindComment, c.ID) {
		t.Error("steps before the failure should have run")
	}
	if !e.mem.Has(content.KindGroupPost, gp.ID) {
		t.Error("failed step should not have removed group posts")
	}
	if _, ok := e.mem.User(u.ID); !ok {
		t.Fatal("account must survive a failed cascade so the ban can be re-run")
	}
	if e.sink.count(audit.EventBanStepFailed) != 1 {
		t.Error("expected a ban_step_failed audit event")
	}

	res, err := e.engine.BanUser(ctx, e.mod.ID, u.ID)
	if err != nil {
		t.Fatalf("re-run: %v", err)
	}
	if e.mem.Has(content.KindGroupPost, gp.ID) {
		t.Error("re-run should remove remaining group posts")
	}
	if _, ok := e.mem.User(u.ID); ok {
		t.Error("re-run should delete the account")
	}
	if res.Counts["content_Comment"] != 0 {
		t.Errorf("re-run removed %d comments, want 0", res.Counts["content_Comment"])
	}
}

func TestBanUser_AccountDeleteFailure(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	u := e.mem.AddUser("u", models.RoleViewer)
	e.mem.AddComment(u.ID, primitive.NewObjectID(), "c")
	e.mem.FailOnce("users.Delete", errors.New("timeout"))

	if _, err := e.engine.BanUser(ctx, e.mod.ID, u.ID); err == nil {
		t.Fatal("expected failure")
	}
	if _, err := e.engine.BanUser(ctx, e.mod.ID, u.ID); err != nil {
		t.Fatalf("re-run: %v", err)
	}
	if _, err := e.engine.BanUser(ctx, e.mod.ID, u.ID); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("ban of deleted user: got %v, want NotFound", err)
	}
}
