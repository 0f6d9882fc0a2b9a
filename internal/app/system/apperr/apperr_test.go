package apperr_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/reelcircle/reelcircle/internal/app/system/apperr"
)

func TestIs_MatchesKindSentinel(t *testing.T) {
	err := apperr.NotFound("reviews.Get", "review")
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Error("expected NotFound error to match ErrNotFound")
	}
	if errors.Is(err, apperr.ErrForbidden) {
		t.Error("NotFound error must not match ErrForbidden")
	}
}

func TestIs_ThroughWrapping(t *testing.T) {
	err := fmt.Errorf("outer: %w", apperr.Forbidden("op", "nope"))
	if !errors.Is(err, apperr.ErrForbidden) {
		t.Error("expected wrapped Forbidden to match")
	}
	if got := apperr.KindOf(err); got != apperr.KindForbidden {
		t.Errorf("KindOf = %v, want Forbidden", got)
	}
}

func TestKindOf_PlainError(t *testing.T) {
	if got := apperr.KindOf(errors.New("boom")); got != apperr.KindUnknown {
		t.Errorf("KindOf(plain) = %v, want Unknown", got)
	}
}

func TestError_Message(t *testing.T) {
	tests := []struct {
		name string
		err  *apperr.Error
		want string
	}{
		{"kind only", apperr.ErrInvalidState, "InvalidState"},
		{"op and msg", apperr.E(apperr.KindInvalidInput, "ratings.Create", "rating out of range"), "ratings.Create: rating out of range"},
		{"wrapped cause", apperr.Wrap(apperr.KindNotFound, "registry.Delete", errors.New("gone")), "registry.Delete: NotFound: gone"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("cause")
	err := apperr.Wrap(apperr.KindNotFound, "op", cause)
	if !errors.Is(err, cause) {
		t.Error("expected cause to be reachable via errors.Is")
	}
}
