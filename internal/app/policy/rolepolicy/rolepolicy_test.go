package rolepolicy_test

import (
	"errors"
	"testing"

	"github.com/reelcircle/reelcircle/internal/app/policy/rolepolicy"
	"github.com/reelcircle/reelcircle/internal/app/system/apperr"
	"github.com/reelcircle/reelcircle/internal/domain/models"
)

func user(role string) *models.User {
	return &models.User{Role: role}
}

func TestIsGlobalModerator(t *testing.T) {
	tests := []struct {
		role string
		want bool
	}{
		{models.RoleViewer, false},
		{models.RoleCritic, false},
		{models.RoleFilmmaker, false},
		{models.RoleModerator, true},
		{models.RoleAdmin, true},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.role, func(t *testing.T) {
			if got := rolepolicy.IsGlobalModerator(user(tt.role)); got != tt.want {
				t.Errorf("IsGlobalModerator(%q) = %v, want %v", tt.role, got, tt.want)
			}
		})
	}
	if rolepolicy.IsGlobalModerator(nil) {
		t.Error("nil user must not be a moderator")
	}
}

func TestCanBeModerated(t *testing.T) {
	tests := []struct {
		role string
		want bool
	}{
		{models.RoleViewer, true},
		{models.RoleCritic, true},
		{models.RoleFilmmaker, true},
		{models.RoleModerator, false},
		{models.RoleAdmin, false},
	}
	for _, tt := range tests {
		t.Run(tt.role, func(t *testing.T) {
			if got := rolepolicy.CanBeModerated(user(tt.role)); got != tt.want {
				t.Errorf("CanBeModerated(%q) = %v, want %v", tt.role, got, tt.want)
			}
		})
	}
}

func TestRequireModeratable_Forbidden(t *testing.T) {
	for _, role := range []string{models.RoleModerator, models.RoleAdmin} {
		err := rolepolicy.RequireModeratable("test", user(role))
		if !errors.Is(err, apperr.ErrForbidden) {
			t.Errorf("RequireModeratable(%q) = %v, want Forbidden", role, err)
		}
	}
	if err := rolepolicy.RequireModeratable("test", user(models.RoleCritic)); err != nil {
		t.Errorf("RequireModeratable(critic) = %v, want nil", err)
	}
}

func TestCanChangeRoles(t *testing.T) {
	if !rolepolicy.CanChangeRoles(user(models.RoleAdmin)) {
		t.Error("admin should change roles")
	}
	if rolepolicy.CanChangeRoles(user(models.RoleModerator)) {
		t.Error("moderator should not change roles")
	}
}
