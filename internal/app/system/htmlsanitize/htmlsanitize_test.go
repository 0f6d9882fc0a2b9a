package htmlsanitize_test

import (
	"testing"

	"github.com/reelcircle/reelcircle/internal/app/system/htmlsanitize"
)

func TestPlainText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"plain", "spam", "spam"},
		{"trims", "  spoilers in title  ", "spoilers in title"},
		{"strips tags", "<b>great</b> film", "great film"},
		{"drops script", "<script>alert('x')</script>spam", "spam"},
		{"keeps ampersand", "Tom & Jerry", "Tom & Jerry"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := htmlsanitize.PlainText(tt.in); got != tt.want {
				t.Errorf("PlainText(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestIsBlank(t *testing.T) {
	if !htmlsanitize.IsBlank("   ") {
		t.Error("whitespace should be blank")
	}
	if !htmlsanitize.IsBlank("<p></p>") {
		t.Error("empty markup should be blank")
	}
	if htmlsanitize.IsBlank("offensive") {
		t.Error("text should not be blank")
	}
}
