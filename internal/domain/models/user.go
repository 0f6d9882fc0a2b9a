// internal/domain/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Global roles stored on User.Role.
const (
	RoleViewer    = "viewer"
	RoleCritic    = "critic"
	RoleModerator = "moderator"
	RoleAdmin     = "admin"
	RoleFilmmaker = "filmmaker"
)

// IsValidRole reports whether role is one of the global roles.
func IsValidRole(role string) bool {
	switch role {
	case RoleViewer, RoleCritic, RoleModerator, RoleAdmin, RoleFilmmaker:
		return true
	}
	return false
}

// User is a platform account.
//
// NOTE:
//   - Diary is written only as a side effect of review create/edit/delete.
//     There is exactly one entry per movie the user has an active review for.
//   - Role changes are an admin action.
type User struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	DisplayName   string             `bson:"display_name" json:"display_name"`
	DisplayNameCI string             `bson:"display_name_ci" json:"-"`
	Email         string             `bson:"email" json:"email"`
	Role          string             `bson:"role" json:"role"` // viewer | critic | moderator | admin | filmmaker
	Diary         []DiaryEntry       `bson:"diary" json:"diary"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// DiaryEntry mirrors one of the user's reviews for watch-history display.
type DiaryEntry struct {
	MovieID    primitive.ObjectID `bson:"movie_id" json:"movie_id"`
	WatchedAt  time.Time          `bson:"watched_at" json:"watched_at"`
	ReviewText string             `bson:"review_text" json:"review_text"`
	Rating     float64            `bson:"rating" json:"rating"`
}

// DiaryEntryFor returns the entry for movieID, if any.
func (u *User) DiaryEntryFor(movieID primitive.ObjectID) (DiaryEntry, bool) {
	for _, e := range u.Diary {
		if e.MovieID == movieID {
			return e, true
		}
	}
	return DiaryEntry{}, false
}
