package models

import "fmt"

// Severity classifies a validation finding
type Severity string

const (
	SeverityError   Severity = "ERROR"
	SeverityWarning Severity = "WARNING"
)

// Finding is one problem discovered while validating TDD artifacts
type Finding struct {
	Severity Severity
	Message  string
	// Location is a file name, path or row excerpt; may be empty
	Location string
}

// NewError returns an ERROR finding
func NewError(message, location string) Finding {
	return Finding{Severity: SeverityError, Message: message, Location: location}
}

// NewWarning returns a WARNING finding
func NewWarning(message, location string) Finding {
	return Finding{Severity: SeverityWarning, Message: message, Location: location}
}

// IsError reports whether the finding has ERROR severity
func (f Finding) IsError() bool {
	return f.Severity == SeverityError
}

// String renders the finding with a severity icon, e.g.
// "❌ Missing required section: ## Test (B-1.md)"
func (f Finding) String() string {
	prefix := "⚠️ "
	if f.IsError() {
		prefix = "❌"
	}
	if f.Location == "" {
		return fmt.Sprintf("%s %s", prefix, f.Message)
	}
	return fmt.Sprintf("%s %s (%s)", prefix, f.Message, f.Location)
}
