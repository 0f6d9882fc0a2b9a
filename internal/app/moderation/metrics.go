package moderation

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ReportsFiledTotal counts reports filed, by content type.
	ReportsFiledTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reelcircle_reports_filed_total",
			Help: "Reports filed by content type",
		},
		[]string{"target_type"},
	)

	// ReportsClosedTotal counts reports leaving the pending state.
	ReportsClosedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reelcircle_reports_closed_total",
			Help: "Reports resolved or dismissed",
		},
		[]string{"status"},
	)

	// BansTotal counts ban runs by outcome (completed or failed).
	BansTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reelcircle_bans_total",
			Help: "Ban cascades by outcome",
		},
		[]string{"outcome"},
	)

	// BanContentRemovedTotal counts content removed by ban cascades.
	BanContentRemovedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reelcircle_ban_content_removed_total",
			Help: "Content records removed by ban cascades",
		},
		[]string{"target_type"},
	)

	// WarningsTotal counts warnings issued.
	WarningsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "reelcircle_warnings_total",
			Help: "Warnings issued to users",
		},
	)
)
