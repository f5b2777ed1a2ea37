package validator

import "github.com/harrison/tddkit/internal/models"

// Outcome summarizes a Report for the exit status
type Outcome int

const (
	// OutcomeClean means no findings at all
	OutcomeClean Outcome = iota
	// OutcomeWarnings means warnings only, outside strict mode
	OutcomeWarnings
	// OutcomeFailed means at least one error, or any warning in strict mode
	OutcomeFailed
)

// String implements fmt.Stringer
func (o Outcome) String() string {
	switch o {
	case OutcomeClean:
		return "clean"
	case OutcomeWarnings:
		return "warnings"
	default:
		return "failed"
	}
}

// Report collects findings from every check in discovery order
type Report struct {
	ArtifactsDir string
	Findings     []models.Finding
}

// Add appends findings
func (r *Report) Add(findings ...models.Finding) {
	r.Findings = append(r.Findings, findings...)
}

// Errors returns the ERROR findings
func (r *Report) Errors() []models.Finding {
	return r.filter(models.SeverityError)
}

// Warnings returns the WARNING findings
func (r *Report) Warnings() []models.Finding {
	return r.filter(models.SeverityWarning)
}

func (r *Report) filter(severity models.Severity) []models.Finding {
	var out []models.Finding
	for _, f := range r.Findings {
		if f.Severity == severity {
			out = append(out, f)
		}
	}
	return out
}

// Outcome maps the findings to a result. Strict mode escalates warnings.
func (r *Report) Outcome(strict bool) Outcome {
	switch {
	case len(r.Errors()) > 0:
		return OutcomeFailed
	case len(r.Warnings()) > 0 && strict:
		return OutcomeFailed
	case len(r.Warnings()) > 0:
		return OutcomeWarnings
	default:
		return OutcomeClean
	}
}
