package slowtest

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/harrison/tddkit/internal/behavior"
	"github.com/harrison/tddkit/internal/filelock"
	"github.com/harrison/tddkit/internal/models"
	"github.com/harrison/tddkit/internal/templates"
)

// maxNoteName bounds the file stem of a runtime note
const maxNoteName = 50

// NotePath returns the note file for a test name inside runtimeDir
func NotePath(runtimeDir, testName string) string {
	return filepath.Join(runtimeDir, behavior.SafeName(testName, maxNoteName)+".md")
}

// WriteNotes writes one markdown note per entry into runtimeDir and returns
// the paths written. A note for the same derived name is overwritten, so
// the latest detection wins.
func WriteNotes(runtimeDir string, entries []models.SlowTest, detected time.Time) ([]string, error) {
	if err := os.MkdirAll(runtimeDir, 0755); err != nil {
		return nil, fmt.Errorf("create runtime directory: %w", err)
	}

	stamp := detected.Format("2006-01-02 15:04:05")
	paths := make([]string, 0, len(entries))
	for _, entry := range entries {
		content, err := templates.Render(templates.SlowTest, templates.SlowTestData{
			TestName:  entry.TestName,
			RuntimeMS: entry.RuntimeMS,
			TestFile:  models.OrPlaceholder(entry.TestFile),
			Detected:  stamp,
		})
		if err != nil {
			return paths, err
		}

		path := NotePath(runtimeDir, entry.TestName)
		if err := filelock.AtomicWrite(path, content); err != nil {
			return paths, fmt.Errorf("write runtime note for %q: %w", entry.TestName, err)
		}
		paths = append(paths, path)
	}

	return paths, nil
}
