// internal/app/system/authz/authz.go
package authz

import (
	"net/http"
	"strings"

	"github.com/reelcircle/reelcircle/internal/app/system/auth"
	"github.com/reelcircle/reelcircle/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserCtx returns the user's role (lowercased), name, Mongo ObjectID, and a found flag.
// If no user is present in context or the user ID is malformed, it returns
// "visitor", "", NilObjectID, false. Callers can trust that ok=true means an
// authenticated user with a valid ObjectID.
func UserCtx(r *http.Request) (role string, name string, userID primitive.ObjectID, ok bool) {
	user, ok := auth.CurrentUser(r)
	if !ok {
		return "visitor", "", primitive.NilObjectID, false
	}
	userID, err := user.ObjectID()
	if err != nil {
		// Malformed user ID in session; fail closed.
		return "visitor", "", primitive.NilObjectID, false
	}
	return strings.ToLower(user.Role), user.Name, userID, true
}

// ActorID returns the signed-in user's id.
func ActorID(r *http.Request) (primitive.ObjectID, bool) {
	_, _, id, ok := UserCtx(r)
	return id, ok
}

// HasAnyRole reports whether the current request's user has any of the given roles.
func HasAnyRole(r *http.Request, roles ...string) bool {
	role, _, _, ok := UserCtx(r)
	if !ok {
		return false
	}
	for _, want := range roles {
		if role == strings.ToLower(strings.TrimSpace(want)) {
			return true
		}
	}
	return false
}

// IsGlobalModerator reports whether the session role is moderator or admin.
// Services re-check against the stored user; this is for routing and display.
func IsGlobalModerator(r *http.Request) bool {
	return HasAnyRole(r, models.RoleModerator, models.RoleAdmin)
}

// IsAdmin reports whether the session role is admin.
func IsAdmin(r *http.Request) bool {
	return HasAnyRole(r, models.RoleAdmin)
}
