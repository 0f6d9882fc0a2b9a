package inputval

import "testing"

func TestIsValidObjectID(t *testing.T) {
	tests := []struct {
		id   string
		want bool
	}{
		{"507f1f77bcf86cd799439011", true},
		{" 507f1f77bcf86cd799439011 ", true},
		{"507f1f77bcf86cd79943901", false},
		{"zzzzzzzzzzzzzzzzzzzzzzzz", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			if got := IsValidObjectID(tt.id); got != tt.want {
				t.Errorf("IsValidObjectID(%q) = %v, want %v", tt.id, got, tt.want)
			}
		})
	}
}

func TestValidate_CustomRules(t *testing.T) {
	type FlagInput struct {
		TargetID   string `validate:"required,objectid" label:"Content id"`
	}
	type RoleInput struct {
		Role string `validate:"required,role" label:"Role"`
	}

	t.Run("valid flag", func(t *testing.T) {
		r := Validate(FlagInput{TargetID: "507f1f77bcf86cd799439011"})
		if r.HasErrors() {
			t.Errorf("unexpected errors: %v", r.Errors)
		}
	})

	t.Run("bad content id", func(t *testing.T) {
		r := Validate(FlagInput{TargetID: "nope"})
		if r.First() != "Content id must be a valid id." {
			t.Errorf("First() = %q", r.First())
		}
	})

	t.Run("unknown role", func(t *testing.T) {
		r := Validate(RoleInput{Role: "superuser"})
		if !r.HasErrors() || r.Errors[0].Rule != "role" {
			t.Errorf("expected role rule failure, got %v", r.Errors)
		}
	})

	t.Run("known role any case", func(t *testing.T) {
		if r := Validate(RoleInput{Role: "Moderator"}); r.HasErrors() {
			t.Errorf("unexpected errors: %v", r.Errors)
		}
	})
}
