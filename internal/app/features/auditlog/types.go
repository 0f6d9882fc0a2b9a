// internal/app/features/auditlog/types.go
package auditlog

import (
	"time"

	"github.com/reelcircle/reelcircle/internal/app/store/audit"
)

// listItem is one audit event as returned by GET /audit.
type listItem struct {
	ID            string            `json:"id"`
	Timestamp     time.Time         `json:"timestamp"`
	Category      string            `json:"category"`
	EventType     string            `json:"event_type"`
	ActorID       string            `json:"actor_id,omitempty"`
	UserID        string            `json:"user_id,omitempty"`
	TargetType    string            `json:"target_type,omitempty"`
	TargetID      string            `json:"target_id,omitempty"`
	Success       bool              `json:"success"`
	FailureReason string            `json:"failure_reason,omitempty"`
	Details       map[string]string `json:"details,omitempty"`
}

func toItem(e audit.Event) listItem {
	item := listItem{
		ID:            e.ID.Hex(),
		Timestamp:     e.Timestamp,
		Category:      e.Category,
		EventType:     e.EventType,
		TargetType:    e.TargetType,
		Success:       e.Success,
		FailureReason: e.FailureReason,
		Details:       e.Details,
	}
	if e.ActorID != nil {
		item.ActorID = e.ActorID.Hex()
	}
	if e.UserID != nil {
		item.UserID = e.UserID.Hex()
	}
	if e.TargetID != nil {
		item.TargetID = e.TargetID.Hex()
	}
	return item
}

// listResponse is the page envelope.
type listResponse struct {
	Items      []listItem `json:"items"`
	Page       int        `json:"page"`
	TotalPages int        `json:"total_pages"`
	Total      int64      `json:"total"`
}

// eventTypesForCategory returns the event types for a given category.
// If category is empty, returns all event types.
func eventTypesForCategory(category string) []string {
	moderationEvents := []string{
		audit.EventReportFiled,
		audit.EventReportResolved,
		audit.EventReportDismissed,
		audit.EventUserBanned,
		audit.EventBanStepFailed,
		audit.EventUserWarned,
		audit.EventContentRemoved,
	}
	adminEvents := []string{
		audit.EventRoleChanged,
	}

	switch category {
	case audit.CategoryModeration:
		return moderationEvents
	case audit.CategoryAdmin:
		return adminEvents
	case "":
		all := make([]string, 0, len(moderationEvents)+len(adminEvents))
		all = append(all, moderationEvents...)
		all = append(all, adminEvents...)
		return all
	default:
		return nil
	}
}

func knownEventType(category, eventType string) bool {
	for _, t := range eventTypesForCategory(category) {
		if t == eventType {
			return true
		}
	}
	return false
}
