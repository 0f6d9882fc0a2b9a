// Package reportpolicy provides authorization policies for report access.
//
// Authorization rules:
//   - Any signed-in user can file a report
//   - Moderators and admins can list and resolve reports
//   - A user can read their own warnings; moderators can read anyone's
package reportpolicy

import (
	"github.com/reelcircle/reelcircle/internal/app/policy/rolepolicy"
	"github.com/reelcircle/reelcircle/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CanViewReports reports whether actor may list reports.
func CanViewReports(actor *models.User) bool {
	return rolepolicy.IsGlobalModerator(actor)
}

// CanResolve reports whether actor may resolve or dismiss reports.
func CanResolve(actor *models.User) bool {
	return rolepolicy.IsGlobalModerator(actor)
}

// CanViewWarnings reports whether actor may read userID's warnings.
func CanViewWarnings(actor *models.User, userID primitive.ObjectID) bool {
	if actor == nil {
		return false
	}
	return actor.ID == userID || rolepolicy.IsGlobalModerator(actor)
}
