package behavior

import (
	"regexp"
	"strings"
)

// MaxSlugSource is how many runes of a description feed its slug
const MaxSlugSource = 50

var (
	// Anything other than word characters, whitespace and hyphens
	slugStrip = regexp.MustCompile(`[^\p{L}\p{N}_\s-]`)
	// Runs of whitespace and hyphens collapse to one hyphen
	slugCollapse = regexp.MustCompile(`[-\s]+`)
)

// Slugify turns free text into a lowercase, hyphen-separated slug built from
// the first MaxSlugSource runes of text. The result has no leading or
// trailing hyphen and may be empty when text holds no word characters.
func Slugify(text string) string {
	return sanitize(strings.ToLower(truncateRunes(text, MaxSlugSource)))
}

// SafeName derives a filesystem-safe file stem from a test name. Case is
// preserved; the result is at most max runes and never empty.
func SafeName(name string, max int) string {
	safe := strings.Trim(truncateRunes(sanitize(name), max), "-")
	if safe == "" {
		return "slow-test"
	}
	return safe
}

func sanitize(text string) string {
	text = slugStrip.ReplaceAllString(text, "")
	text = slugCollapse.ReplaceAllString(text, "-")
	return strings.Trim(text, "-")
}

func truncateRunes(text string, max int) string {
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	return string(runes[:max])
}
