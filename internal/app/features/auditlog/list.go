// internal/app/features/auditlog/list.go
package auditlog

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/reelcircle/reelcircle/internal/app/store/audit"
	"github.com/reelcircle/reelcircle/internal/app/system/apperr"
	"github.com/reelcircle/reelcircle/internal/app/system/authz"
	"github.com/reelcircle/reelcircle/internal/app/system/httpjson"
	"github.com/reelcircle/reelcircle/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const pageSize = 50

// ServeList handles GET /audit. Moderators and admins may filter by
// category, event_type, user_id, actor_id, start_date and end_date
// (YYYY-MM-DD, inclusive), paged 50 at a time with ?page=N.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	if _, ok := authz.ActorID(r); !ok {
		httpjson.Write(w, http.StatusUnauthorized, httpjson.ErrorBody{Error: "unauthorized", Kind: "Unauthorized"})
		return
	}
	if !authz.IsGlobalModerator(r) {
		httpjson.Error(w, r, h.Log, apperr.Forbidden("auditlog.List", "moderator role required"))
		return
	}

	filter, page, err := parseFilter(r)
	if err != nil {
		httpjson.Error(w, r, h.Log, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "audit log list")
	defer cancel()

	events, err := h.Events.Query(ctx, filter)
	if err != nil {
		httpjson.Error(w, r, h.Log, err)
		return
	}
	total, err := h.Events.CountByFilter(ctx, filter)
	if err != nil {
		httpjson.Error(w, r, h.Log, err)
		return
	}

	items := make([]listItem, 0, len(events))
	for _, e := range events {
		items = append(items, toItem(e))
	}

	totalPages := int((total + pageSize - 1) / pageSize)
	if totalPages < 1 {
		totalPages = 1
	}

	httpjson.OK(w, listResponse{
		Items:      items,
		Page:       page,
		TotalPages: totalPages,
		Total:      total,
	})
}

func parseFilter(r *http.Request) (audit.QueryFilter, int, error) {
	const op = "auditlog.List"
	q := r.URL.Query()

	page := 1
	if p, err := strconv.Atoi(q.Get("page")); err == nil && p > 0 {
		page = p
	}

	filter := audit.QueryFilter{
		Category:  strings.TrimSpace(q.Get("category")),
		EventType: strings.TrimSpace(q.Get("event_type")),
		Limit:     pageSize,
		Offset:    int64((page - 1) * pageSize),
	}
	if filter.Category != "" && eventTypesForCategory(filter.Category) == nil {
		return filter, 0, apperr.InvalidInput(op, "unknown category")
	}
	if filter.EventType != "" && !knownEventType(filter.Category, filter.EventType) {
		return filter, 0, apperr.InvalidInput(op, "unknown event_type")
	}

	for key, dst := range map[string]**primitive.ObjectID{
		"user_id":  &filter.UserID,
		"actor_id": &filter.ActorID,
	} {
		v := strings.TrimSpace(q.Get(key))
		if v == "" {
			continue
		}
		id, err := primitive.ObjectIDFromHex(v)
		if err != nil {
			return filter, 0, apperr.InvalidInput(op, "malformed "+key)
		}
		*dst = &id
	}

	if v := strings.TrimSpace(q.Get("start_date")); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return filter, 0, apperr.InvalidInput(op, "start_date must be YYYY-MM-DD")
		}
		filter.StartTime = &t
	}
	if v := strings.TrimSpace(q.Get("end_date")); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return filter, 0, apperr.InvalidInput(op, "end_date must be YYYY-MM-DD")
		}
		// End of day
		end := t.Add(24*time.Hour - time.Nanosecond)
		filter.EndTime = &end
	}
	return filter, page, nil
}
