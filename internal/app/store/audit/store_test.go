package audit_test

import (
	"testing"
	"time"

	"github.com/reelcircle/reelcircle/internal/app/store/audit"
	"github.com/reelcircle/reelcircle/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestStore_Log(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := audit.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	userID := primitive.NewObjectID()
	actorID := primitive.NewObjectID()
	event := audit.Event{
		Category:  audit.CategoryModeration,
		EventType: audit.EventUserWarned,
		UserID:    &userID,
		ActorID:   &actorID,
		Success:   true,
	}

	if err := store.Log(ctx, event); err != nil {
		t.Fatalf("Log failed: %v", err)
	}

	events, err := store.GetByUser(ctx, userID, 10)
	if err != nil {
		t.Fatalf("GetByUser failed: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	if events[0].ID.IsZero() {
		t.Error("expected ID to be generated")
	}
	if events[0].Timestamp.IsZero() {
		t.Error("expected Timestamp to be set")
	}
}

func TestStore_QueryByActorAndType(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := audit.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	actorID := primitive.NewObjectID()
	other := primitive.NewObjectID()
	for _, e := range []audit.Event{
		{Category: audit.CategoryModeration, EventType: audit.EventReportResolved, ActorID: &actorID, Success: true},
		{Category: audit.CategoryModeration, EventType: audit.EventReportDismissed, ActorID: &actorID, Success: true},
		{Category: audit.CategoryModeration, EventType: audit.EventReportResolved, ActorID: &other, Success: true},
	} {
		if err := store.Log(ctx, e); err != nil {
			t.Fatalf("Log failed: %v", err)
		}
	}

	events, err := store.Query(ctx, audit.QueryFilter{ActorID: &actorID, EventType: audit.EventReportResolved})
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(events) != 1 {
		t.Errorf("expected 1 event, got %d", len(events))
	}

	n, err := store.CountByFilter(ctx, audit.QueryFilter{Category: audit.CategoryModeration})
	if err != nil {
		t.Fatalf("CountByFilter failed: %v", err)
	}
	if n != 3 {
		t.Errorf("expected 3 moderation events, got %d", n)
	}
}

func TestStore_QueryTimeRange(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := audit.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	old := time.Now().Add(-48 * time.Hour)
	if err := store.Log(ctx, audit.Event{Category: audit.CategoryAdmin, EventType: audit.EventRoleChanged, Timestamp: old}); err != nil {
		t.Fatalf("Log failed: %v", err)
	}
	if err := store.Log(ctx, audit.Event{Category: audit.CategoryAdmin, EventType: audit.EventRoleChanged}); err != nil {
		t.Fatalf("Log failed: %v", err)
	}

	since := time.Now().Add(-time.Hour)
	events, err := store.Query(ctx, audit.QueryFilter{StartTime: &since})
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(events) != 1 {
		t.Errorf("expected 1 recent event, got %d", len(events))
	}
}
