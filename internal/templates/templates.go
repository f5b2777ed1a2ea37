// Package templates provides the embedded markdown templates for TDD artifacts.
package templates

import (
	"bytes"
	"embed"
	"fmt"
	"text/template"
)

//go:embed files/*.md.tmpl
var templateFS embed.FS

// Template names, one per file under files/
const (
	Backlog     = "backlog.md.tmpl"
	Lessons     = "lessons.md.tmpl"
	TestRuntime = "test_runtime.md.tmpl"
	Behavior    = "behavior.md.tmpl"
	SlowTest    = "slow_test.md.tmpl"
)

// all templates are parsed once; they are read-only after init
var parsed = template.Must(template.New("artifacts").ParseFS(templateFS, "files/*.md.tmpl"))

// WorkspaceData feeds the files written by init
type WorkspaceData struct {
	TestCommand string
	ThresholdMS int
	RuntimeDir  string // e.g. "agent/test-runtime"
}

// BehaviorData feeds a behaviors/<id>.md record
type BehaviorData struct {
	ID          string
	Description string
	Status      string // rendered label, e.g. "🔴 Not Started"
	TestFile    string
	TestName    string
	Assertion   string
	Notes       string
}

// SlowTestData feeds a test-runtime/<slug>.md note
type SlowTestData struct {
	TestName  string
	RuntimeMS int
	TestFile  string
	Detected  string
}

// Render executes the named template with data
func Render(name string, data interface{}) ([]byte, error) {
	var buf bytes.Buffer
	if err := parsed.ExecuteTemplate(&buf, name, data); err != nil {
		return nil, fmt.Errorf("render template %s: %w", name, err)
	}
	return buf.Bytes(), nil
}

// Names returns the embedded template names
func Names() []string {
	return []string{Backlog, Lessons, TestRuntime, Behavior, SlowTest}
}
