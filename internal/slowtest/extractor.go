// Package slowtest finds slow tests in raw test-runner console output.
//
// Each supported runner has an Extractor holding the fixed textual patterns
// for its output style. Detection either runs the one extractor matching a
// known framework tag or, when the format is unknown, runs all of them and
// merges the results. Missing a slow test costs more than a duplicate, and
// duplicates are removed in the merge.
package slowtest

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/harrison/tddkit/internal/models"
)

// Extractor turns raw runner output into (name, runtime, file) entries.
// It reports every timed test it recognizes; thresholds are applied later.
type Extractor interface {
	Name() string
	Extract(output string) []models.SlowTest
}

// unit converts a captured runtime into milliseconds
type unit int

const (
	millis unit = iota
	seconds
)

func (u unit) toMS(raw string) (int, bool) {
	switch u {
	case seconds:
		secs, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return 0, false
		}
		return int(secs * 1000), true
	default:
		ms, err := strconv.Atoi(raw)
		if err != nil {
			return 0, false
		}
		return ms, true
	}
}

// pattern is one regular expression and the submatch index of each field.
// fileGroup 0 means the output does not name the test file.
type pattern struct {
	re           *regexp.Regexp
	nameGroup    int
	runtimeGroup int
	fileGroup    int
	unit         unit
}

// regexExtractor applies its patterns in order over the whole input
type regexExtractor struct {
	name     string
	patterns []pattern
}

func (e *regexExtractor) Name() string {
	return e.name
}

func (e *regexExtractor) Extract(output string) []models.SlowTest {
	var entries []models.SlowTest
	for _, p := range e.patterns {
		for _, m := range p.re.FindAllStringSubmatch(output, -1) {
			runtime, ok := p.unit.toMS(m[p.runtimeGroup])
			if !ok {
				continue
			}
			file := models.Placeholder
			if p.fileGroup > 0 {
				file = strings.TrimSpace(m[p.fileGroup])
			}
			entries = append(entries, models.SlowTest{
				TestName:  strings.TrimSpace(m[p.nameGroup]),
				RuntimeMS: runtime,
				TestFile:  file,
			})
		}
	}
	return entries
}

// NewVitestExtractor recognizes Vitest and Jest reporters:
//
//	✓ renders widget (123ms)
//	✓ renders widget 123ms
//	PASS src/widget.test.js (123ms)
func NewVitestExtractor() Extractor {
	return &regexExtractor{
		name: "vitest",
		patterns: []pattern{
			{re: regexp.MustCompile(`✓\s+(.+?)\s+\((\d+)ms\)`), nameGroup: 1, runtimeGroup: 2, unit: millis},
			{re: regexp.MustCompile(`✓\s+(.+?)\s+(\d+)ms`), nameGroup: 1, runtimeGroup: 2, unit: millis},
			{re: regexp.MustCompile(`PASS\s+(.+?)\s+\((\d+)ms\)`), nameGroup: 1, runtimeGroup: 2, unit: millis},
		},
	}
}

// NewPytestExtractor recognizes verbose pytest lines with durations:
//
//	tests/test_api.py::test_create PASSED [ 50%] 0.123s
func NewPytestExtractor() Extractor {
	return &regexExtractor{
		name: "pytest",
		patterns: []pattern{
			{re: regexp.MustCompile(`(.+?)::(.+?)\s+PASSED.*?(\d+\.\d+)s`), fileGroup: 1, nameGroup: 2, runtimeGroup: 3, unit: seconds},
		},
	}
}

// NewJUnitExtractor recognizes Surefire-style JUnit reports:
//
//	testCreate(com.example.ApiTest)  Time elapsed: 0.123 s
func NewJUnitExtractor() Extractor {
	return &regexExtractor{
		name: "junit",
		patterns: []pattern{
			{re: regexp.MustCompile(`(\w+)\((.+?)\)\s+Time elapsed:\s+(\d+\.\d+)\s+s`), nameGroup: 1, fileGroup: 2, runtimeGroup: 3, unit: seconds},
		},
	}
}

// NewGoTestExtractor recognizes `go test -v` results, subtests included:
//
//	--- PASS: TestParse/empty_input (0.12s)
func NewGoTestExtractor() Extractor {
	return &regexExtractor{
		name: "go",
		patterns: []pattern{
			{re: regexp.MustCompile(`---\s+PASS:\s+(\S+)\s+\((\d+\.\d+)s\)`), nameGroup: 1, runtimeGroup: 2, unit: seconds},
		},
	}
}
