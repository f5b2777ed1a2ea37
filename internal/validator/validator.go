// Package validator reports drift between the backlog table and the
// individual behavior records.
//
// The two stores are edited independently, by the tool and by hand, so the
// validator only reports what it finds. Nothing is repaired. Structural
// problems that make a file untrustworthy are ERRORs; everything a human may
// reasonably have done on purpose (non-standard status text, odd rows,
// orphaned ids or files) is a WARNING.
package validator

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/harrison/tddkit/internal/behavior"
	"github.com/harrison/tddkit/internal/config"
	"github.com/harrison/tddkit/internal/fileutil"
	"github.com/harrison/tddkit/internal/models"
	"github.com/harrison/tddkit/internal/parser"
)

// ErrValidationFailed is returned by the command when the outcome is OutcomeFailed
var ErrValidationFailed = errors.New("validation failed")

// backlogColumns is the number of cells in a backlog row:
// id, status, description, test file, test name
const backlogColumns = 5

// requiredSections must appear as level-2 headings in every record file
var requiredSections = []string{"Behavior", "Status", "Test"}

// Validator checks the artifacts of one project
type Validator struct {
	parser *parser.MarkdownParser
}

// New returns a Validator
func New() *Validator {
	return &Validator{parser: parser.NewMarkdownParser()}
}

// ValidateRecordFile checks that a behavior record has the required sections
// and a standard status line
func (v *Validator) ValidateRecordFile(path string) ([]models.Finding, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read behavior file: %w", err)
	}
	return v.checkRecord(filepath.Base(path), content), nil
}

func (v *Validator) checkRecord(name string, content []byte) []models.Finding {
	var findings []models.Finding
	doc := v.parser.Parse(content)

	for _, section := range requiredSections {
		if _, ok := doc.Find(2, section); !ok {
			findings = append(findings, models.NewError("Missing required section: ## "+section, name))
		}
	}

	if status, ok := doc.Find(2, "Status"); ok {
		line := doc.FirstLine(status)
		switch {
		case line == "":
			findings = append(findings, models.NewWarning("Status section is empty", name))
		default:
			if _, known := models.ParseStatusLabel(line); !known {
				findings = append(findings, models.NewWarning(
					fmt.Sprintf("Status '%s' not standard. Expected one of: %s", line, strings.Join(models.StatusLabels(), ", ")),
					name,
				))
			}
		}
	}

	return findings
}

// ValidateBacklog checks the backlog table and returns the behavior ids it lists.
// A missing file or heading is an ERROR and yields no ids.
func (v *Validator) ValidateBacklog(path string) ([]string, []models.Finding, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, []models.Finding{models.NewError(config.BacklogFileName+" not found", path)}, nil
		}
		return nil, nil, fmt.Errorf("read backlog: %w", err)
	}
	ids, findings := v.checkBacklog(content)
	return ids, findings, nil
}

func (v *Validator) checkBacklog(content []byte) ([]string, []models.Finding) {
	var findings []models.Finding
	doc := v.parser.Parse(content)

	section, ok := doc.Find(2, behavior.BehaviorsHeading)
	if !ok {
		return nil, []models.Finding{models.NewError("Behaviors table section not found", config.BacklogFileName)}
	}

	var ids []string
	inTable := false
	for _, line := range doc.Body(section) {
		trimmed := strings.TrimSpace(line)
		if !inTable {
			inTable = behavior.IsSeparatorRow(trimmed)
			continue
		}
		if !strings.HasPrefix(trimmed, "|") {
			continue
		}

		cells := SplitRow(trimmed)
		if len(cells) != backlogColumns {
			if len(cells) > 0 {
				findings = append(findings, models.NewWarning(
					fmt.Sprintf("Table row has %d columns, expected %d", len(cells), backlogColumns),
					"Row: "+truncate(trimmed, 50),
				))
			}
			continue
		}

		id := cells[0]
		if id != "" && !strings.HasPrefix(id, "-") {
			ids = append(ids, id)
		}
	}

	if len(ids) == 0 {
		findings = append(findings, models.NewWarning("No behaviors found in backlog table", config.BacklogFileName))
	}

	return ids, findings
}

// ValidateConsistency cross-checks backlog ids against record files in
// behaviorsDir. Both directions are reported as WARNINGs.
func (v *Validator) ValidateConsistency(behaviorsDir string, backlogIDs []string) ([]models.Finding, error) {
	stems, err := recordStems(behaviorsDir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []models.Finding{models.NewError(config.BehaviorsDirName+"/ directory not found", behaviorsDir)}, nil
		}
		return nil, err
	}
	return crossReference(backlogIDs, stems), nil
}

func crossReference(backlogIDs, stems []string) []models.Finding {
	var findings []models.Finding

	fileSet := make(map[string]bool, len(stems))
	for _, stem := range stems {
		fileSet[stem] = true
	}
	idSet := make(map[string]bool, len(backlogIDs))
	for _, id := range backlogIDs {
		idSet[id] = true
	}

	for _, id := range backlogIDs {
		if !fileSet[id] {
			findings = append(findings, models.NewWarning(
				fmt.Sprintf("Behavior '%s' in backlog but no file found", id),
				config.BehaviorsDirName+"/",
			))
		}
	}
	for _, stem := range stems {
		if !idSet[stem] {
			findings = append(findings, models.NewWarning(
				fmt.Sprintf("Behavior file '%s.md' exists but not in backlog", stem),
				config.BehaviorsDirName+"/"+stem+".md",
			))
		}
	}

	return findings
}

// Run performs every check for the project at root
func (v *Validator) Run(root string, cfg *config.Config) (*Report, error) {
	report := &Report{ArtifactsDir: cfg.ArtifactsPath(root)}

	ids, findings, err := v.ValidateBacklog(cfg.BacklogPath(root))
	if err != nil {
		return nil, err
	}
	report.Add(findings...)

	behaviorsDir := cfg.BehaviorsPath(root)
	files, err := recordFiles(behaviorsDir)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}
	for _, file := range files {
		findings, err := v.ValidateRecordFile(file)
		if err != nil {
			return nil, err
		}
		report.Add(findings...)
	}

	findings, err = v.ValidateConsistency(behaviorsDir, ids)
	if err != nil {
		return nil, err
	}
	report.Add(findings...)

	return report, nil
}

// recordFiles returns the *.md files directly inside behaviorsDir, sorted
func recordFiles(behaviorsDir string) ([]string, error) {
	return fileutil.ScanDirectory(behaviorsDir, fileutil.ScanOptions{
		Extensions: []string{".md"},
	})
}

func recordStems(behaviorsDir string) ([]string, error) {
	files, err := recordFiles(behaviorsDir)
	if err != nil {
		return nil, err
	}
	return fileutil.Stems(files), nil
}

// SplitRow splits a markdown table row into trimmed cells. The outer pipes
// are dropped and escaped pipes (\|) stay inside their cell.
func SplitRow(row string) []string {
	row = strings.TrimSpace(row)
	row = strings.TrimPrefix(row, "|")
	if strings.HasSuffix(row, "|") && !strings.HasSuffix(row, `\|`) {
		row = strings.TrimSuffix(row, "|")
	}
	if strings.TrimSpace(row) == "" {
		return nil
	}

	var cells []string
	var cell strings.Builder
	for i := 0; i < len(row); i++ {
		if row[i] == '\\' && i+1 < len(row) && row[i+1] == '|' {
			cell.WriteByte('|')
			i++
			continue
		}
		if row[i] == '|' {
			cells = append(cells, strings.TrimSpace(cell.String()))
			cell.Reset()
			continue
		}
		cell.WriteByte(row[i])
	}
	cells = append(cells, strings.TrimSpace(cell.String()))
	return cells
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
