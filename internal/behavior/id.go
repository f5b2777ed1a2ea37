package behavior

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrInvalidIDFormat is returned for an unknown, unterminated or unbalanced placeholder
	ErrInvalidIDFormat = errors.New("invalid behavior id format")

	// ErrUnsafeID is returned when a generated identifier cannot be used as a file name
	ErrUnsafeID = errors.New("behavior id is not filesystem-safe")
)

// IDContext carries the values substituted into an identifier template
type IDContext struct {
	Now  time.Time
	Slug string
	// NewUUID is called for {uuid}; nil means uuid.NewString
	NewUUID func() string
}

// GenerateID renders format by literal substitution of {timestamp}, {slug},
// {date}, {time} and {uuid}. "{{" and "}}" produce literal braces.
//
// Any other placeholder, an unterminated "{" or a stray "}" fails with
// ErrInvalidIDFormat: a silently wrong identifier would break the link
// between a backlog row and its record file.
func GenerateID(format string, ctx IDContext) (string, error) {
	values := map[string]func() string{
		"timestamp": func() string { return ctx.Now.Format("20060102-150405") },
		"slug":      func() string { return ctx.Slug },
		"date":      func() string { return ctx.Now.Format("20060102") },
		"time":      func() string { return ctx.Now.Format("150405") },
		"uuid": func() string {
			newUUID := ctx.NewUUID
			if newUUID == nil {
				newUUID = uuid.NewString
			}
			return strings.ReplaceAll(newUUID(), "-", "")[:8]
		},
	}

	var sb strings.Builder
	for i := 0; i < len(format); i++ {
		c := format[i]
		switch c {
		case '{':
			if i+1 < len(format) && format[i+1] == '{' {
				sb.WriteByte('{')
				i++
				continue
			}
			end := strings.IndexByte(format[i+1:], '}')
			if end < 0 {
				return "", fmt.Errorf("%w: unterminated placeholder in %q", ErrInvalidIDFormat, format)
			}
			name := format[i+1 : i+1+end]
			value, ok := values[name]
			if !ok {
				return "", fmt.Errorf("%w: unknown placeholder {%s} in %q", ErrInvalidIDFormat, name, format)
			}
			sb.WriteString(value())
			i += end + 1
		case '}':
			if i+1 < len(format) && format[i+1] == '}' {
				sb.WriteByte('}')
				i++
				continue
			}
			return "", fmt.Errorf("%w: single '}' in %q", ErrInvalidIDFormat, format)
		default:
			sb.WriteByte(c)
		}
	}

	id := sb.String()
	if err := CheckID(id); err != nil {
		return "", err
	}
	return id, nil
}

// CheckID reports ErrUnsafeID for identifiers that cannot be a file stem
func CheckID(id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("%w: empty identifier", ErrUnsafeID)
	}
	if id == "." || id == ".." {
		return fmt.Errorf("%w: %q", ErrUnsafeID, id)
	}
	if strings.ContainsAny(id, `/\:*?"<>|`) {
		return fmt.Errorf("%w: %q contains a reserved character", ErrUnsafeID, id)
	}
	for _, r := range id {
		if r < 0x20 || r == 0x7f {
			return fmt.Errorf("%w: %q contains a control character", ErrUnsafeID, id)
		}
	}
	return nil
}
