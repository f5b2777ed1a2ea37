package behavior

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/harrison/tddkit/internal/filelock"
	"github.com/harrison/tddkit/internal/models"
	"github.com/harrison/tddkit/internal/templates"
)

// RenderRecord renders the behaviors/<id>.md file for b
func RenderRecord(b models.Behavior) ([]byte, error) {
	return templates.Render(templates.Behavior, templates.BehaviorData{
		ID:          b.ID,
		Description: escapeBlockStart(b.Description),
		Status:      b.Status.Label(),
		TestFile:    models.OrPlaceholder(b.TestFile),
		TestName:    models.OrPlaceholder(b.TestName),
		Assertion:   models.OrPlaceholder(b.Assertion),
		Notes:       b.Notes,
	})
}

// escapeBlockStart backslash-escapes the first character of any line that
// would open a fenced code block or an HTML block. Those blocks only close
// on an explicit end marker, so an unescaped "<!--" or "```" in a
// description would swallow the ## Status and ## Test headings below it.
func escapeBlockStart(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		body := strings.TrimLeft(line, " ")
		indent := len(line) - len(body)
		if indent > 3 {
			continue
		}
		if strings.HasPrefix(body, "<") || strings.HasPrefix(body, "```") || strings.HasPrefix(body, "~~~") {
			lines[i] = line[:indent] + `\` + body
		}
	}
	return strings.Join(lines, "\n")
}

// RecordPath returns behaviorsDir/<id>.md
func RecordPath(behaviorsDir, id string) string {
	return filepath.Join(behaviorsDir, id+".md")
}

// WriteRecord renders b into behaviorsDir, creating the directory if needed.
// An existing record with the same id is replaced.
func WriteRecord(behaviorsDir string, b models.Behavior) (string, error) {
	content, err := RenderRecord(b)
	if err != nil {
		return "", err
	}
	path := RecordPath(behaviorsDir, b.ID)
	if err := filelock.AtomicWrite(path, content); err != nil {
		return "", fmt.Errorf("write behavior record %s: %w", b.ID, err)
	}
	return path, nil
}

// CreatedNote is the initial Notes text of a new record
func CreatedNote(now time.Time) string {
	return "Created: " + now.Format("2006-01-02 15:04:05")
}
