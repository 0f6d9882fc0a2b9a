package ratings_test

import (
	"context"
	"testing"

	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/reelcircle/reelcircle/internal/app/ratings"
	"github.com/reelcircle/reelcircle/internal/domain/models"
	"github.com/reelcircle/reelcircle/internal/testutil"
)

func TestMetrics_ReviewWriteOutcomes(t *testing.T) {
	mem := testutil.NewMemory()
	svc := newService(mem)
	ctx := context.Background()
	movie := mem.AddMovie("Metrics")
	u := mem.AddUser("u", models.RoleViewer)

	okBefore := promtest.ToFloat64(ratings.ReviewWritesTotal.WithLabelValues("create", "ok"))
	dupBefore := promtest.ToFloat64(ratings.ReviewWritesTotal.WithLabelValues("create", "DuplicateReview"))
	recomputeBefore := promtest.ToFloat64(ratings.AverageRecomputesTotal)

	if _, err := svc.CreateReview(ctx, u.ID, ratings.ReviewInput{MovieID: movie.ID, Rating: f(7)}); err != nil {
		t.Fatalf("CreateReview: %v", err)
	}
	_, _ = svc.CreateReview(ctx, u.ID, ratings.ReviewInput{MovieID: movie.ID, Rating: f(7)})

	if got := promtest.ToFloat64(ratings.ReviewWritesTotal.WithLabelValues("create", "ok")) - okBefore; got != 1 {
		t.Errorf("ok creates = %v, want 1", got)
	}
	if got := promtest.ToFloat64(ratings.ReviewWritesTotal.WithLabelValues("create", "DuplicateReview")) - dupBefore; got != 1 {
		t.Errorf("duplicate creates = %v, want 1", got)
	}
	if got := promtest.ToFloat64(ratings.AverageRecomputesTotal) - recomputeBefore; got != 1 {
		t.Errorf("recomputes = %v, want 1", got)
	}
}
