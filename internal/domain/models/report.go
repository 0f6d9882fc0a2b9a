package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Report statuses. Pending is the only non-terminal state.
const (
	ReportPending   = "pending"
	ReportResolved  = "resolved"
	ReportDismissed = "dismissed"
)

// BannedReportNote is written on a banned user's pending reports.
const BannedReportNote = "User banned."

// Report (a.k.a. flag) is a complaint against one piece of content.
// It references the content by tag and id only; it never embeds a copy.
type Report struct {
	ID            primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	ReporterID    primitive.ObjectID  `bson:"reporter_id" json:"reporter_id"`
	TargetType    string              `bson:"target_type" json:"target_type"` // Review | Comment | GroupPost | NewsPost
	TargetID      primitive.ObjectID  `bson:"target_id" json:"target_id"`
	Reason        string              `bson:"reason" json:"reason"`
	Status        string              `bson:"status" json:"status"`
	ModeratorNote string              `bson:"moderator_note,omitempty" json:"moderator_note,omitempty"`
	ResolvedBy    *primitive.ObjectID `bson:"resolved_by,omitempty" json:"resolved_by,omitempty"`

	CreatedAt  time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt  time.Time  `bson:"updated_at" json:"updated_at"`
	ResolvedAt *time.Time `bson:"resolved_at,omitempty" json:"resolved_at,omitempty"`
}
