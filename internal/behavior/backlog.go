package behavior

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/harrison/tddkit/internal/filelock"
	"github.com/harrison/tddkit/internal/models"
	"github.com/harrison/tddkit/internal/parser"
)

// BehaviorsHeading is the level-2 heading the backlog table lives under
const BehaviorsHeading = "Behaviors"

var (
	// ErrBacklogMissing means BEHAVIOR_BACKLOG.md does not exist
	ErrBacklogMissing = errors.New("backlog file not found")

	// ErrNoBehaviorsSection means the backlog has no "## Behaviors" heading
	ErrNoBehaviorsSection = errors.New("behaviors section not found")

	// ErrNoTableSeparator means the table under "## Behaviors" has no dash row
	ErrNoTableSeparator = errors.New("behaviors table separator row not found")
)

// separatorRow matches a markdown table delimiter row such as |----|:---:|
var separatorRow = regexp.MustCompile(`^\s*\|(\s*:?-+:?\s*\|)+\s*$`)

// IsSeparatorRow reports whether line is a markdown table delimiter row
func IsSeparatorRow(line string) bool {
	return separatorRow.MatchString(line)
}

// FormatRow renders b as a five-column backlog row
func FormatRow(b models.Behavior) string {
	return fmt.Sprintf("| %s | %s | %s | %s | %s |",
		escapeCell(b.ID),
		b.Status.Label(),
		escapeCell(b.Description),
		escapeCell(models.OrPlaceholder(b.TestFile)),
		escapeCell(models.OrPlaceholder(b.TestName)),
	)
}

// escapeCell keeps a value inside one table cell
func escapeCell(value string) string {
	value = strings.Join(strings.Fields(value), " ")
	return strings.ReplaceAll(value, "|", `\|`)
}

// InsertRow returns content with row placed directly below the delimiter row
// of the table under "## Behaviors", so the newest behavior is listed first.
func InsertRow(content []byte, row string) ([]byte, error) {
	doc := parser.NewMarkdownParser().Parse(content)

	section, ok := doc.Find(2, BehaviorsHeading)
	if !ok {
		return nil, ErrNoBehaviorsSection
	}

	for i := section.HeadingLine + 1; i < section.EndLine && i < len(doc.Lines); i++ {
		if !IsSeparatorRow(doc.Lines[i]) {
			continue
		}
		lines := make([]string, 0, len(doc.Lines)+1)
		lines = append(lines, doc.Lines[:i+1]...)
		lines = append(lines, row)
		lines = append(lines, doc.Lines[i+1:]...)
		return []byte(strings.Join(lines, "\n")), nil
	}

	return nil, ErrNoTableSeparator
}

// AppendToBacklog inserts b into the backlog at path under the backlog lock.
// Structural problems are returned as ErrBacklogMissing,
// ErrNoBehaviorsSection or ErrNoTableSeparator and leave the file unchanged.
func AppendToBacklog(path string, b models.Behavior) error {
	// Checked before locking so a missing backlog leaves no lock file behind
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrBacklogMissing, path)
		}
		return err
	}

	row := FormatRow(b)
	err := filelock.Update(path, func(current []byte) ([]byte, error) {
		updated, err := InsertRow(current, row)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", filelock.ErrSkipWrite, err)
		}
		return updated, nil
	})
	if errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%w: %s", ErrBacklogMissing, path)
	}
	return err
}

// IsSkippable reports whether err only means the backlog could not be
// updated because of its structure, as opposed to a filesystem failure
func IsSkippable(err error) bool {
	return errors.Is(err, ErrBacklogMissing) ||
		errors.Is(err, ErrNoBehaviorsSection) ||
		errors.Is(err, ErrNoTableSeparator)
}
