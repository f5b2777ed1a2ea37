// Package behavior creates behavior records and keeps the backlog table in step.
//
// A behavior is written twice: as behaviors/<id>.md and as a row in
// BEHAVIOR_BACKLOG.md. Nothing ties the two writes together, so the record
// file always goes first. An interrupted run then leaves at worst an
// orphaned file, which validate-backlog reports, rather than a backlog row
// pointing at nothing.
package behavior

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/harrison/tddkit/internal/config"
	"github.com/harrison/tddkit/internal/models"
)

// ErrEmptyDescription is returned when the description is blank
var ErrEmptyDescription = errors.New("behavior description is required")

// Options are the caller-supplied inputs of a new behavior
type Options struct {
	Description string
	// Slug overrides the slug derived from Description
	Slug     string
	TestFile string
	TestName string
}

// Result describes what Create wrote
type Result struct {
	Behavior   models.Behavior
	RecordPath string

	BacklogPath    string
	BacklogUpdated bool
	// BacklogWarning explains why the backlog row was skipped
	BacklogWarning string
}

// Creator creates behaviors inside one project
type Creator struct {
	root    string
	cfg     *config.Config
	now     func() time.Time
	newUUID func() string
}

// NewCreator returns a Creator for the project at root
func NewCreator(root string, cfg *config.Config) *Creator {
	return &Creator{
		root: root,
		cfg:  cfg,
		now:  time.Now,
	}
}

// WithClock replaces the time source, for deterministic identifiers
func (c *Creator) WithClock(now func() time.Time) *Creator {
	c.now = now
	return c
}

// WithUUID replaces the {uuid} source
func (c *Creator) WithUUID(newUUID func() string) *Creator {
	c.newUUID = newUUID
	return c
}

// Create writes the record file, then the backlog row.
// A backlog that is missing or lacks the behaviors table does not fail the
// call: the record is still created and Result.BacklogWarning says why the
// row was skipped. Filesystem errors are returned as-is.
func (c *Creator) Create(opts Options) (*Result, error) {
	description := strings.TrimSpace(opts.Description)
	if description == "" {
		return nil, ErrEmptyDescription
	}

	slug := Slugify(description)
	if strings.TrimSpace(opts.Slug) != "" {
		slug = Slugify(opts.Slug)
	}

	now := c.now()
	id, err := GenerateID(c.cfg.BehaviorIDFormat, IDContext{
		Now:     now,
		Slug:    slug,
		NewUUID: c.newUUID,
	})
	if err != nil {
		return nil, err
	}

	b := models.NewBehavior(id, description)
	b.TestFile = models.OrPlaceholder(opts.TestFile)
	b.TestName = models.OrPlaceholder(opts.TestName)
	b.Notes = CreatedNote(now)

	behaviorsDir := c.cfg.BehaviorsPath(c.root)
	if err := os.MkdirAll(behaviorsDir, 0755); err != nil {
		return nil, fmt.Errorf("create behaviors directory: %w", err)
	}

	recordPath, err := WriteRecord(behaviorsDir, b)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Behavior:    b,
		RecordPath:  recordPath,
		BacklogPath: c.cfg.BacklogPath(c.root),
	}

	err = AppendToBacklog(result.BacklogPath, b)
	switch {
	case err == nil:
		result.BacklogUpdated = true
	case IsSkippable(err):
		result.BacklogWarning = skipReason(err)
	default:
		return result, fmt.Errorf("update backlog: %w", err)
	}

	return result, nil
}

func skipReason(err error) string {
	switch {
	case errors.Is(err, ErrBacklogMissing):
		return "backlog file not found, skipping backlog update"
	case errors.Is(err, ErrNoBehaviorsSection):
		return "could not find the '## Behaviors' section in the backlog"
	default:
		return "could not find the behaviors table header row in the backlog"
	}
}
