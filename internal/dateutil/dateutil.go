// Package dateutil formats the day stamps used in export file names.
package dateutil

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidDateFormat indicates an invalid date format string.
var ErrInvalidDateFormat = errors.New("invalid date format")

// MaxDateFormatLength limits format string length.
const MaxDateFormatLength = 32

// DefaultDateFormat is the ISO day used in file names.
const DefaultDateFormat = "YYYY-MM-DD"

// dateTokens maps format tokens to Go time layout components.
// Ordered by length descending for greedy matching.
var dateTokens = []struct {
	token string
	goFmt string
}{
	{"YYYY", "2006"},
	{"YY", "06"},
	{"MM", "01"},
	{"DD", "02"},
}

// ParseDateFormat converts a day format such as "YYYY-MM-DD" to a Go layout.
// Tokens: YYYY, YY, MM, DD. Any other character must be one of the
// separators '-', '_' or '.', which are safe in a file name.
// Returns ErrInvalidDateFormat if the format is empty, too long or contains
// anything else.
func ParseDateFormat(format string) (string, error) {
	if format == "" {
		return "", fmt.Errorf("%w: format cannot be empty", ErrInvalidDateFormat)
	}
	if len(format) > MaxDateFormatLength {
		return "", fmt.Errorf("%w: format exceeds %d characters", ErrInvalidDateFormat, MaxDateFormatLength)
	}

	var result strings.Builder
	result.Grow(len(format))

	i := 0
	for i < len(format) {
		matched := false
		for _, t := range dateTokens {
			if strings.HasPrefix(format[i:], t.token) {
				result.WriteString(t.goFmt)
				i += len(t.token)
				matched = true
				break
			}
		}
		if matched {
			continue
		}

		switch c := format[i]; c {
		case '-', '_', '.':
			result.WriteByte(c)
			i++
		default:
			return "", fmt.Errorf("%w: unexpected %q at position %d", ErrInvalidDateFormat, c, i)
		}
	}

	return result.String(), nil
}

// FormatDay formats t, truncated to the calendar day, with a day format.
// An empty format means DefaultDateFormat.
func FormatDay(t time.Time, format string) (string, error) {
	if format == "" {
		format = DefaultDateFormat
	}
	layout, err := ParseDateFormat(format)
	if err != nil {
		return "", err
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location()).Format(layout), nil
}
