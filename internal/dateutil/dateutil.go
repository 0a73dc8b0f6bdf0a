// Package dateutil provides date formatting with user-friendly tokens
// and the experience-duration label shown on the About section.
package dateutil

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Sentinel errors for date operations.
var (
	ErrInvalidDateFormat = errors.New("invalid date format")
	ErrInvalidDate       = errors.New("invalid date")
)

// MaxDateFormatLength limits format string length to prevent abuse.
const MaxDateFormatLength = 50

// DefaultDocumentDateFormat mirrors the browser's Date.toDateString output
// ("Tue Oct 14 2025"), used for the resume "Last Updated" field.
const DefaultDocumentDateFormat = "ddd MMM DD YYYY"

// dateTokens maps user-friendly tokens to Go time format components.
// Ordered by length descending for greedy matching.
var dateTokens = []struct {
	token string
	goFmt string
}{
	{"dddd", "Monday"},
	{"YYYY", "2006"},
	{"MMMM", "January"},
	{"ddd", "Mon"},
	{"MMM", "Jan"},
	{"YY", "06"},
	{"MM", "01"},
	{"DD", "02"},
	{"M", "1"},
	{"D", "2"},
}

// DatePresets provides named shortcuts for common date formats.
var DatePresets = map[string]string{
	"iso":      "YYYY-MM-DD",
	"european": "DD/MM/YYYY",
	"us":       "MM/DD/YYYY",
	"long":     "MMMM D, YYYY",
	"browser":  DefaultDocumentDateFormat,
}

// ParseDateFormat converts a user-friendly format string (or preset name) to Go's time layout.
// Tokens: dddd, ddd, YYYY, YY, MMMM, MMM, MM, M, DD, D.
// Brackets escape literal text: "[Updated] YYYY" keeps "Updated".
func ParseDateFormat(format string) (string, error) {
	if format == "" {
		return "", fmt.Errorf("%w: format cannot be empty", ErrInvalidDateFormat)
	}
	if len(format) > MaxDateFormatLength {
		return "", fmt.Errorf("%w: format exceeds %d characters", ErrInvalidDateFormat, MaxDateFormatLength)
	}
	if preset, ok := DatePresets[strings.ToLower(format)]; ok {
		format = preset
	}

	var out strings.Builder
	out.Grow(len(format) + 10)

	for i := 0; i < len(format); {
		if format[i] == '[' {
			end := strings.IndexByte(format[i+1:], ']')
			if end == -1 {
				return "", fmt.Errorf("%w: unclosed bracket at position %d", ErrInvalidDateFormat, i)
			}
			out.WriteString(format[i+1 : i+1+end])
			i += end + 2
			continue
		}

		matched := false
		for _, t := range dateTokens {
			if strings.HasPrefix(format[i:], t.token) {
				out.WriteString(t.goFmt)
				i += len(t.token)
				matched = true
				break
			}
		}
		if !matched {
			out.WriteByte(format[i])
			i++
		}
	}

	return out.String(), nil
}

// Format renders t with a user-friendly format. A zero time renders as "Unknown".
func Format(t time.Time, format string) (string, error) {
	layout, err := ParseDateFormat(format)
	if err != nil {
		return "", err
	}
	if t.IsZero() {
		return "Unknown", nil
	}
	return t.Format(layout), nil
}

// startLayouts are the accepted spellings of experienceStartDate.
var startLayouts = []string{
	"2006-01-02",
	"2006-01",
	"2006/01/02",
	"January 2006",
	"Jan 2006",
	time.RFC3339,
}

// ParseStartDate parses an experience start date in any of the accepted layouts.
func ParseStartDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range startLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
}

// Experience renders the elapsed time between start and now at month granularity:
// "7 months", "3+ years", or "3.4+ years" (years.months).
// Returns "" when start is empty or unparseable.
func Experience(start string, now time.Time) string {
	if strings.TrimSpace(start) == "" {
		return ""
	}
	t, err := ParseStartDate(start)
	if err != nil {
		return ""
	}

	total := (now.Year()-t.Year())*12 + int(now.Month()) - int(t.Month())
	if total < 0 {
		total = 0
	}
	years, months := total/12, total%12

	switch {
	case years == 0:
		return fmt.Sprintf("%d months", months)
	case months == 0:
		return fmt.Sprintf("%d+ years", years)
	default:
		return fmt.Sprintf("%d.%d+ years", years, months)
	}
}
