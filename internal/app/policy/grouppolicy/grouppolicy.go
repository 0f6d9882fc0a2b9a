// internal/app/policy/grouppolicy/grouppolicy.go
package grouppolicy

import (
	"github.com/reelcircle/reelcircle/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemberRole returns the user's role in the group's embedded member list,
// or "" when the user is not a member.
func MemberRole(g *models.Group, userID primitive.ObjectID) string {
	if g == nil {
		return ""
	}
	for _, m := range g.Members {
		if m.UserID == userID {
			return m.Role
		}
	}
	return ""
}

// IsGroupAdmin reports whether userID is an admin of the group.
func IsGroupAdmin(g *models.Group, userID primitive.ObjectID) bool {
	return MemberRole(g, userID) == models.GroupRoleAdmin
}

// IsGroupStaff reports whether userID is an admin or moderator of the group.
// Staff may remove posts inside their group regardless of global role.
func IsGroupStaff(g *models.Group, userID primitive.ObjectID) bool {
	switch MemberRole(g, userID) {
	case models.GroupRoleAdmin, models.GroupRoleModerator:
		return true
	}
	return false
}
