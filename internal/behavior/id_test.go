package behavior

import (
	"errors"
	"strings"
	"testing"
	"time"
)

var fixedNow = time.Date(2024, 3, 9, 14, 5, 7, 0, time.UTC)

func TestGenerateID(t *testing.T) {
	ctx := IDContext{
		Now:     fixedNow,
		Slug:    "reset-timer",
		NewUUID: func() string { return "1b4e28ba-2fa1-11d2-883f-0016d3cca427" },
	}

	tests := []struct {
		format string
		want   string
	}{
		{format: "B-{timestamp}-{slug}", want: "B-20240309-140507-reset-timer"},
		{format: "{date}_{time}_{slug}", want: "20240309_140507_reset-timer"},
		{format: "B-{uuid}-{slug}", want: "B-1b4e28ba-reset-timer"},
		{format: "{{literal}}-{slug}", want: "{literal}-reset-timer"},
		{format: "static", want: "static"},
	}

	for _, tt := range tests {
		got, err := GenerateID(tt.format, ctx)
		if err != nil {
			t.Errorf("GenerateID(%q) error = %v", tt.format, err)
			continue
		}
		if got != tt.want {
			t.Errorf("GenerateID(%q) = %q, want %q", tt.format, got, tt.want)
		}
	}
}

func TestGenerateIDInvalidFormat(t *testing.T) {
	ctx := IDContext{Now: fixedNow, Slug: "x"}

	for _, format := range []string{
		"B-{timestmp}-{slug}",
		"B-{slug",
		"B-slug}",
		"B-{}",
	} {
		_, err := GenerateID(format, ctx)
		if !errors.Is(err, ErrInvalidIDFormat) {
			t.Errorf("GenerateID(%q) error = %v, want ErrInvalidIDFormat", format, err)
		}
	}
}

func TestGenerateIDUnsafe(t *testing.T) {
	for _, format := range []string{"a/{slug}", `a\{slug}`, "a|{slug}", ".."} {
		_, err := GenerateID(format, IDContext{Now: fixedNow, Slug: "x"})
		if !errors.Is(err, ErrUnsafeID) {
			t.Errorf("GenerateID(%q) error = %v, want ErrUnsafeID", format, err)
		}
	}
}

// Identifiers derived from any printable description are usable as file stems
func TestGeneratedIDIsFilesystemSafe(t *testing.T) {
	descriptions := []string{
		"User can reset the timer",
		"../../../etc/passwd",
		`C:\Windows\system32 | pipe * glob ? "quote" <tag>`,
		"emoji 🚀 and ümlauts",
		"~!@#$%^&*()_+`-={}[]:;'<>,.?/",
	}

	for _, d := range descriptions {
		id, err := GenerateID("B-{timestamp}-{slug}", IDContext{Now: fixedNow, Slug: Slugify(d)})
		if err != nil {
			t.Errorf("GenerateID for %q error = %v", d, err)
			continue
		}
		if strings.ContainsAny(id, `/\:*?"<>|`) {
			t.Errorf("id %q for %q is not filesystem-safe", id, d)
		}
	}
}
