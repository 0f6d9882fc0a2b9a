package moderation_test

import (
	"context"
	"errors"
	"testing"

	"github.com/reelcircle/reelcircle/internal/app/store/audit"
	"github.com/reelcircle/reelcircle/internal/app/system/apperr"
	"github.com/reelcircle/reelcircle/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestWarnUser_PersistsWarning(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	u := e.mem.AddUser("u", models.RoleFilmmaker)

	res, err := e.engine.WarnUser(ctx, e.mod.ID, u.ID, "<p>be civil</p>")
	if err != nil {
		t.Fatalf("WarnUser: %v", err)
	}
	if res.Message == "" || res.Warning.Reason != "be civil" {
		t.Errorf("result = %+v", res)
	}
	if res.Warning.UserID != u.ID || res.Warning.IssuedBy != e.mod.ID {
		t.Errorf("warning = %+v", res.Warning)
	}

	ws, err := e.engine.ListWarnings(ctx, u.ID, u.ID)
	if err != nil {
		t.Fatalf("ListWarnings self: %v", err)
	}
	if len(ws) != 1 {
		t.Errorf("self sees %d warnings, want 1", len(ws))
	}
	if e.sink.count(audit.EventUserWarned) != 1 {
		t.Error("expected a user_warned audit event")
	}
}

func TestWarnUser_ModeratorsAndAdminsCannotBeWarned(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	otherMod := e.mem.AddUser("mod2", models.RoleModerator)
	otherAdmin := e.mem.AddUser("admin2", models.RoleAdmin)

	for _, actor := range []models.User{e.mod, e.admin} {
		for _, target := range []models.User{otherMod, otherAdmin} {
			t.Run(actor.Role+"_warns_"+target.Role, func(t *testing.T) {
				if _, err := e.engine.WarnUser(ctx, actor.ID, target.ID, "reason"); !errors.Is(err, apperr.ErrForbidden) {
					t.Errorf("got %v, want Forbidden", err)
				}
			})
		}
	}
	ws, _ := e.mem.Warnings().ListByUser(ctx, otherMod.ID)
	if len(ws) != 0 {
		t.Error("no warning should be stored")
	}
}

func TestWarnUser_Errors(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	u := e.mem.AddUser("u", models.RoleViewer)

	tests := []struct {
		name   string
		actor  primitive.ObjectID
		target primitive.ObjectID
		reason string
		want   error
	}{
		{"viewer actor", e.viewer.ID, u.ID, "r", apperr.ErrForbidden},
		{"missing target", e.mod.ID, primitive.NewObjectID(), "r", apperr.ErrNotFound},
		{"empty reason", e.mod.ID, u.ID, " ", apperr.ErrInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := e.engine.WarnUser(ctx, tt.actor, tt.target, tt.reason); !errors.Is(err, tt.want) {
				t.Errorf("got %v, want %v", err, tt.want)
			}
		})
	}
}

func TestListWarnings_Access(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	u := e.mem.AddUser("u", models.RoleViewer)
	if _, err := e.engine.WarnUser(ctx, e.mod.ID, u.ID, "first"); err != nil {
		t.Fatalf("warn: %v", err)
	}
	if _, err := e.engine.WarnUser(ctx, e.admin.ID, u.ID, "second"); err != nil {
		t.Fatalf("warn: %v", err)
	}

	ws, err := e.engine.ListWarnings(ctx, e.mod.ID, u.ID)
	if err != nil {
		t.Fatalf("moderator: %v", err)
	}
	if len(ws) != 2 || ws[0].Reason != "second" {
		t.Errorf("warnings = %+v, want newest first", ws)
	}

	if _, err := e.engine.ListWarnings(ctx, e.viewer.ID, u.ID); !errors.Is(err, apperr.ErrForbidden) {
		t.Errorf("other viewer: got %v, want Forbidden", err)
	}
}
