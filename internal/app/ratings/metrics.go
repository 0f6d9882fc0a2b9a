package ratings

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/reelcircle/reelcircle/internal/app/system/apperr"
)

var (
	// ReviewWritesTotal counts review writes by operation and outcome kind.
	ReviewWritesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reelcircle_review_writes_total",
			Help: "Review create/edit/delete calls by outcome",
		},
		[]string{"op", "outcome"},
	)

	// AverageRecomputesTotal counts movie average recomputations.
	AverageRecomputesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "reelcircle_average_recomputes_total",
			Help: "Number of movie average rating recomputations",
		},
	)

	// RecomputeFailuresTotal counts average recomputations that failed
	// after a review create was stored.
	RecomputeFailuresTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "reelcircle_average_recompute_failures_total",
			Help: "Average recomputations that failed after a stored review create",
		},
	)

	// DiarySyncFailuresTotal counts diary updates that failed after the
	// review write itself succeeded.
	DiarySyncFailuresTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "reelcircle_diary_sync_failures_total",
			Help: "Diary writes that failed after a successful review write",
		},
	)
)

// RecordReviewWrite records the outcome of a review write.
func RecordReviewWrite(op string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = apperr.KindOf(err).String()
	}
	ReviewWritesTotal.WithLabelValues(op, outcome).Inc()
}
