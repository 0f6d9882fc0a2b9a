package moderation_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/reelcircle/reelcircle/internal/app/content"
	"github.com/reelcircle/reelcircle/internal/app/moderation"
	"github.com/reelcircle/reelcircle/internal/app/store/audit"
	"github.com/reelcircle/reelcircle/internal/app/system/apperr"
	"github.com/reelcircle/reelcircle/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestFlagContent_CreatesPendingReport(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	c := e.mem.AddComment(e.viewer.ID, primitive.NewObjectID(), "buy pills")
	x := e.mem.AddUser("x", models.RoleCritic)

	rep, err := e.engine.FlagContent(ctx, x.ID, "Comment", c.ID, "  <i>spam</i> ")
	if err != nil {
		t.Fatalf("FlagContent: %v", err)
	}
	if rep.Status != models.ReportPending {
		t.Errorf("status = %q, want pending", rep.Status)
	}
	if rep.TargetType != string(content.KindComment) || rep.TargetID != c.ID {
		t.Errorf("target = %s/%s, want Comment/%s", rep.TargetType, rep.TargetID.Hex(), c.ID.Hex())
	}
	if rep.Reason != "spam" {
		t.Errorf("reason = %q, want sanitized %q", rep.Reason, "spam")
	}
	if e.sink.count(audit.EventReportFiled) != 1 {
		t.Error("expected a report_filed audit event")
	}
}

func TestFlagContent_Errors(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	c := e.mem.AddComment(e.viewer.ID, primitive.NewObjectID(), "hello")
	x := e.mem.AddUser("x", models.RoleViewer)

	tests := []struct {
		name       string
		reporter   primitive.ObjectID
		targetType string
		targetID   primitive.ObjectID
		reason     string
		want       error
	}{
		{"unsupported type", x.ID, "Blog", c.ID, "spam", apperr.ErrUnsupportedContentType},
		{"unsupported type wins over missing reason", x.ID, "Blog", c.ID, "", apperr.ErrUnsupportedContentType},
		{"missing target", x.ID, "Comment", primitive.NewObjectID(), "spam", apperr.ErrNotFound},
		{"missing target wins over missing reason", x.ID, "Comment", primitive.NewObjectID(), "", apperr.ErrNotFound},
		{"wrong collection", x.ID, "Review", c.ID, "spam", apperr.ErrNotFound},
		{"empty reason", x.ID, "Comment", c.ID, "   ", apperr.ErrInvalidInput},
		{"markup only reason", x.ID, "Comment", c.ID, "<b></b>", apperr.ErrInvalidInput},
		{"reason too long", x.ID, "Comment", c.ID, strings.Repeat("a", moderation.MaxReasonLen+1), apperr.ErrInvalidInput},
		{"anonymous reporter", primitive.NilObjectID, "Comment", c.ID, "spam", apperr.ErrInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.engine.FlagContent(ctx, tt.reporter, tt.targetType, tt.targetID, tt.reason)
			if !errors.Is(err, tt.want) {
				t.Errorf("got %v, want %v", err, tt.want)
			}
		})
	}
}

func TestFlagContent_DifferentReportersMayFlagSameTarget(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	p := e.mem.AddGroupPost(e.viewer.ID, primitive.NewObjectID(), "off topic")
	a := e.mem.AddUser("a", models.RoleViewer)
	b := e.mem.AddUser("b", models.RoleViewer)

	if _, err := e.engine.FlagContent(ctx, a.ID, "GroupPost", p.ID, "off topic"); err != nil {
		t.Fatalf("flag a: %v", err)
	}
	if _, err := e.engine.FlagContent(ctx, b.ID, "GroupPost", p.ID, "off topic"); err != nil {
		t.Fatalf("flag b: %v", err)
	}
}

// Flag, duplicate flag, resolve, flag again.
func TestFlagContent_ResolveThenReflag(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	x := e.mem.AddUser("x", models.RoleViewer)
	c := e.mem.AddComment(e.viewer.ID, primitive.NewObjectID(), "spammy")

	first, err := e.engine.FlagContent(ctx, x.ID, "Comment", c.ID, "spam")
	if err != nil {
		t.Fatalf("first flag: %v", err)
	}
	if first.Status != models.ReportPending {
		t.Fatalf("status = %q, want pending", first.Status)
	}

	if _, err := e.engine.FlagContent(ctx, x.ID, "Comment", c.ID, "spam"); !errors.Is(err, apperr.ErrDuplicateReport) {
		t.Fatalf("second flag: got %v, want DuplicateReport", err)
	}

	if _, err := e.engine.ResolveReport(ctx, e.mod.ID, first.ID, models.ReportResolved, ""); err != nil {
		t.Fatalf("ResolveReport: %v", err)
	}
	if e.mem.Has(content.KindComment, c.ID) {
		t.Fatal("comment should be deleted by resolution")
	}

	// No pending report remains, so the duplicate rule no longer applies.
	// The comment itself is gone, which is what a re-flag now reports.
	if _, err := e.engine.FlagContent(ctx, x.ID, "Comment", c.ID, "spam"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("re-flag of deleted comment: got %v, want NotFound", err)
	}
}

func TestFlagContent_ReflagAfterDismissal(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	x := e.mem.AddUser("x", models.RoleViewer)
	c := e.mem.AddComment(e.viewer.ID, primitive.NewObjectID(), "borderline")

	first, err := e.engine.FlagContent(ctx, x.ID, "Comment", c.ID, "rude")
	if err != nil {
		t.Fatalf("first flag: %v", err)
	}
	if _, err := e.engine.ResolveReport(ctx, e.mod.ID, first.ID, models.ReportDismissed, "not rude"); err != nil {
		t.Fatalf("dismiss: %v", err)
	}
	second, err := e.engine.FlagContent(ctx, x.ID, "Comment", c.ID, "still rude")
	if err != nil {
		t.Fatalf("re-flag after dismissal: %v", err)
	}
	if second.ID == first.ID || second.Status != models.ReportPending {
		t.Errorf("expected a new pending report, got %+v", second)
	}
}
