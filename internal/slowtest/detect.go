package slowtest

import (
	"errors"
	"strings"

	"github.com/harrison/tddkit/internal/models"
)

// ErrNoTestOutput is returned when there is nothing to analyze
var ErrNoTestOutput = errors.New("no test output provided")

// FrameworkAuto forces every extractor to run
const FrameworkAuto = "auto"

// Registry maps framework tags to extractors, keeping registration order
// for the all-extractors fallback
type Registry struct {
	tags       map[string]Extractor
	tagOrder   []string
	extractors []Extractor
}

// NewRegistry returns an empty registry
func NewRegistry() *Registry {
	return &Registry{tags: make(map[string]Extractor)}
}

// DefaultRegistry returns the built-in extractors. jest shares the vitest
// extractor; in the fallback it runs once.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	vitest := NewVitestExtractor()
	r.Register(vitest, "vitest", "jest")
	r.Register(NewPytestExtractor(), "pytest")
	r.Register(NewJUnitExtractor(), "junit")
	r.Register(NewGoTestExtractor(), "go")
	return r
}

// Register adds e under each tag. Adding a new runner format never touches
// existing extractors.
func (r *Registry) Register(e Extractor, tags ...string) {
	seen := false
	for _, existing := range r.extractors {
		if existing == e {
			seen = true
			break
		}
	}
	if !seen {
		r.extractors = append(r.extractors, e)
	}
	for _, tag := range tags {
		tag = strings.ToLower(tag)
		if _, exists := r.tags[tag]; !exists {
			r.tagOrder = append(r.tagOrder, tag)
		}
		r.tags[tag] = e
	}
}

// Lookup returns the extractor for a framework tag
func (r *Registry) Lookup(framework string) (Extractor, bool) {
	e, ok := r.tags[strings.ToLower(strings.TrimSpace(framework))]
	return e, ok
}

// Tags returns the known framework tags in registration order
func (r *Registry) Tags() []string {
	return append([]string(nil), r.tagOrder...)
}

// Detect returns the entries of output whose runtime is strictly greater than
// thresholdMS. A known framework runs only its extractor; an empty, "auto" or
// unknown framework runs every extractor. Entries with the same name and
// runtime are reported once, first occurrence wins; this holds both across
// extractors and within the single extractor of a known framework.
func (r *Registry) Detect(output string, thresholdMS int, framework string) ([]models.SlowTest, error) {
	if strings.TrimSpace(output) == "" {
		return nil, ErrNoTestOutput
	}

	extractors := r.extractors
	if e, ok := r.Lookup(framework); ok {
		extractors = []Extractor{e}
	}

	var slow []models.SlowTest
	seen := make(map[models.SlowTestKey]bool)
	for _, e := range extractors {
		for _, entry := range e.Extract(output) {
			if entry.RuntimeMS <= thresholdMS {
				continue
			}
			if seen[entry.Key()] {
				continue
			}
			seen[entry.Key()] = true
			slow = append(slow, entry)
		}
	}

	return slow, nil
}

// Detect runs the default registry
func Detect(output string, thresholdMS int, framework string) ([]models.SlowTest, error) {
	return DefaultRegistry().Detect(output, thresholdMS, framework)
}
