package validation

import (
	"errors"
	"strings"
	"testing"
)

func TestNormalizeTitle(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		want     string
		wantRule string
	}{
		{name: "plain", raw: "Buy milk", want: "Buy milk"},
		{name: "trims whitespace", raw: "  Buy milk \t", want: "Buy milk"},
		{name: "empty", raw: "", wantRule: "required"},
		{name: "whitespace only", raw: "   ", wantRule: "required"},
		{name: "exactly max length", raw: strings.Repeat("x", MaxTitleLen), want: strings.Repeat("x", MaxTitleLen)},
		{name: "over max length", raw: strings.Repeat("x", MaxTitleLen+1), wantRule: "max_length"},
		{name: "max length counted in runes", raw: strings.Repeat("ä", MaxTitleLen), want: strings.Repeat("ä", MaxTitleLen)},
		{name: "trailing spaces do not count", raw: strings.Repeat("x", MaxTitleLen) + "   ", want: strings.Repeat("x", MaxTitleLen)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeTitle(tt.raw)
			if tt.wantRule != "" {
				var verr *ValidationError
				if !errors.As(err, &verr) {
					t.Fatalf("NormalizeTitle(%q) err=%v, want ValidationError", tt.raw, err)
				}
				if verr.Rule != tt.wantRule {
					t.Fatalf("rule=%q, want %q", verr.Rule, tt.wantRule)
				}
				if verr.Field != "title" {
					t.Fatalf("field=%q, want title", verr.Field)
				}
				return
			}
			if err != nil {
				t.Fatalf("NormalizeTitle(%q) err=%v, want nil", tt.raw, err)
			}
			if got != tt.want {
				t.Fatalf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestValidateUpdate(t *testing.T) {
	title := "  New title "
	completed := true

	t.Run("no fields", func(t *testing.T) {
		_, err := ValidateUpdate(nil, nil)
		var verr *ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("err=%v, want ValidationError", err)
		}
		if verr.Rule != "empty_update" {
			t.Fatalf("rule=%q, want empty_update", verr.Rule)
		}
	})

	t.Run("title normalized", func(t *testing.T) {
		got, err := ValidateUpdate(&title, nil)
		if err != nil {
			t.Fatalf("err=%v, want nil", err)
		}
		if got == nil || *got != "New title" {
			t.Fatalf("got %v, want New title", got)
		}
	})

	t.Run("completed only", func(t *testing.T) {
		got, err := ValidateUpdate(nil, &completed)
		if err != nil {
			t.Fatalf("err=%v, want nil", err)
		}
		if got != nil {
			t.Fatalf("got %v, want nil title", got)
		}
	})

	t.Run("invalid title rejected", func(t *testing.T) {
		bad := " "
		_, err := ValidateUpdate(&bad, &completed)
		var verr *ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("err=%v, want ValidationError", err)
		}
	})
}
