package models

import "strings"

// Status is the lifecycle state of a behavior record
type Status string

const (
	StatusNotStarted Status = "Not Started"
	StatusInProgress Status = "In Progress"
	StatusComplete   Status = "Complete"
	StatusDeferred   Status = "Deferred"
)

// Placeholder is written into record fields that the developer fills in later
const Placeholder = "TBD"

// statusMarkers maps each status to the symbol shown in front of it
var statusMarkers = map[Status]string{
	StatusNotStarted: "🔴",
	StatusInProgress: "🟡",
	StatusComplete:   "🟢",
	StatusDeferred:   "⚪",
}

// AllStatuses returns the status enumeration in lifecycle order
func AllStatuses() []Status {
	return []Status{StatusNotStarted, StatusInProgress, StatusComplete, StatusDeferred}
}

// Marker returns the symbol for the status, or "" for an unknown status
func (s Status) Marker() string {
	return statusMarkers[s]
}

// Label returns the status as it appears in record files and the backlog,
// e.g. "🔴 Not Started"
func (s Status) Label() string {
	marker := s.Marker()
	if marker == "" {
		return string(s)
	}
	return marker + " " + string(s)
}

// ParseStatusLabel matches a rendered status line against the enumeration.
// Surrounding whitespace is ignored; anything else must match exactly.
func ParseStatusLabel(label string) (Status, bool) {
	label = strings.TrimSpace(label)
	for _, s := range AllStatuses() {
		if s.Label() == label {
			return s, true
		}
	}
	return "", false
}

// StatusLabels returns the rendered label of every status
func StatusLabels() []string {
	labels := make([]string, 0, len(statusMarkers))
	for _, s := range AllStatuses() {
		labels = append(labels, s.Label())
	}
	return labels
}

// Behavior is one observable, unit-testable behavior of the system under
// development. It is persisted twice: as behaviors/<ID>.md and as a row in
// the backlog table. The two copies are linked only by ID.
type Behavior struct {
	ID          string
	Description string
	Status      Status
	TestFile    string
	TestName    string
	Assertion   string
	Notes       string
}

// NewBehavior returns a Not Started behavior with placeholder test fields
func NewBehavior(id, description string) Behavior {
	return Behavior{
		ID:          id,
		Description: description,
		Status:      StatusNotStarted,
		TestFile:    Placeholder,
		TestName:    Placeholder,
		Assertion:   Placeholder,
	}
}

// OrPlaceholder returns value, or Placeholder when value is blank
func OrPlaceholder(value string) string {
	if strings.TrimSpace(value) == "" {
		return Placeholder
	}
	return value
}
