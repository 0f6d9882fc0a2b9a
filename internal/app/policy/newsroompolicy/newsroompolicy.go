// Package newsroompolicy provides authorization predicates scoped to a
// newsroom. Editors and the creator form the editorial staff.
package newsroompolicy

import (
	"github.com/reelcircle/reelcircle/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// IsNewsroomEditor reports whether userID is the creator or an editor.
func IsNewsroomEditor(n *models.Newsroom, userID primitive.ObjectID) bool {
	if n == nil {
		return false
	}
	if n.CreatorID == userID {
		return true
	}
	for _, id := range n.Editors {
		if id == userID {
			return true
		}
	}
	return false
}
