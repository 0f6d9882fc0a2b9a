// Package rolepolicy answers authorization questions that depend only on a
// user's global role.
//
// Authorization rules:
//   - Moderators and admins are global moderators
//   - Moderators and admins can never be banned, warned, or swept up in a
//     ban cascade
//   - Only admins change roles
package rolepolicy

import (
	"github.com/reelcircle/reelcircle/internal/app/system/apperr"
	"github.com/reelcircle/reelcircle/internal/domain/models"
)

// IsGlobalModerator reports whether u may review reports and act on users.
func IsGlobalModerator(u *models.User) bool {
	if u == nil {
		return false
	}
	return u.Role == models.RoleModerator || u.Role == models.RoleAdmin
}

// IsAdmin reports whether u holds the admin role.
func IsAdmin(u *models.User) bool {
	return u != nil && u.Role == models.RoleAdmin
}

// CanBeModerated reports whether target may be banned or warned.
func CanBeModerated(target *models.User) bool {
	return target != nil && !IsGlobalModerator(target)
}

// RequireModeratable fails with Forbidden when target is a moderator or admin.
func RequireModeratable(op string, target *models.User) error {
	if !CanBeModerated(target) {
		return apperr.Forbidden(op, "moderators and admins cannot be moderated")
	}
	return nil
}

// CanChangeRoles reports whether actor may change another user's role.
func CanChangeRoles(actor *models.User) bool {
	return IsAdmin(actor)
}
