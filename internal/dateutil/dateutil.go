// Package dateutil converts user-friendly date and time formats
// (DD/MM/YYYY, HH:mm) to Go time layouts.
package dateutil

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidDateFormat indicates an invalid date format string.
var ErrInvalidDateFormat = errors.New("invalid date format")

// MaxDateFormatLength limits format string length.
const MaxDateFormatLength = 50

// Default formats used for transcript headers and page labels.
const (
	DefaultLabelFormat = "DD-MM-YYYY"
	DefaultTimeFormat  = "HH:mm"
)

// DefaultTranscriptFormats are the candidate header formats tried for each
// transcript record. Exports use the phone's locale, so day-first and
// month-first are both plausible.
var DefaultTranscriptFormats = []string{"DD/MM/YYYY, HH:mm", "MM/DD/YYYY, HH:mm"}

// dateTokens maps user-friendly tokens to Go time format components.
// Ordered by length descending for greedy matching. Matching is case-sensitive:
// MM is the month, mm the minute.
var dateTokens = []struct {
	token string
	goFmt string
}{
	{"YYYY", "2006"},
	{"MMMM", "January"},
	{"MMM", "Jan"},
	{"YY", "06"},
	{"MM", "01"},
	{"DD", "02"},
	{"HH", "15"},
	{"mm", "04"},
	{"ss", "05"},
	{"M", "1"},
	{"D", "2"},
}

// Presets provides named shortcuts for common formats.
var Presets = map[string]string{
	"iso":      "YYYY-MM-DD",
	"european": "DD/MM/YYYY",
	"us":       "MM/DD/YYYY",
	"long":     "MMMM D, YYYY",
	"label":    DefaultLabelFormat,
	"clock":    DefaultTimeFormat,
}

// ParseDateFormat converts a user-friendly format string to Go's time format.
// Tokens: YYYY, YY, MMMM, MMM, MM, M, DD, D, HH, mm, ss
// Use brackets to escape literal text: [at] preserves "at" literally.
// Any non-token characters outside brackets are preserved as literals.
// Returns ErrInvalidDateFormat if the format is empty, too long, or has unclosed brackets.
func ParseDateFormat(format string) (string, error) {
	if format == "" {
		return "", fmt.Errorf("%w: format cannot be empty", ErrInvalidDateFormat)
	}
	if len(format) > MaxDateFormatLength {
		return "", fmt.Errorf("%w: format exceeds %d characters", ErrInvalidDateFormat, MaxDateFormatLength)
	}

	var result strings.Builder
	result.Grow(len(format) + 10)

	i := 0
	for i < len(format) {
		if format[i] == '[' {
			end := strings.Index(format[i+1:], "]")
			if end == -1 {
				return "", fmt.Errorf("%w: unclosed bracket at position %d", ErrInvalidDateFormat, i)
			}
			result.WriteString(format[i+1 : i+1+end])
			i += end + 2
			continue
		}

		matched := false
		for _, t := range dateTokens {
			if strings.HasPrefix(format[i:], t.token) {
				result.WriteString(t.goFmt)
				i += len(t.token)
				matched = true
				break
			}
		}

		if !matched {
			result.WriteByte(format[i])
			i++
		}
	}

	return result.String(), nil
}

// Resolve accepts a preset name (case-insensitive) or a token format and
// returns the Go layout.
func Resolve(nameOrFormat string) (string, error) {
	if preset, ok := Presets[strings.ToLower(nameOrFormat)]; ok {
		nameOrFormat = preset
	}
	return ParseDateFormat(nameOrFormat)
}

// ResolveAll resolves every format in order, stopping at the first invalid one.
func ResolveAll(formats []string) ([]string, error) {
	layouts := make([]string, 0, len(formats))
	for _, f := range formats {
		layout, err := Resolve(f)
		if err != nil {
			return nil, fmt.Errorf("%w (format %q)", err, f)
		}
		layouts = append(layouts, layout)
	}
	return layouts, nil
}
