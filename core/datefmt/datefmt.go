// Package datefmt formats the date and time strings stored on records for display.
// None of the formatters fail: input that cannot be parsed is returned trimmed.
package datefmt

import (
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/pkg/errors"
)

const (
	DateLayout     = "Jan 2, 2006"
	DateLongLayout = "January 2, 2006"
	TimeLayout     = "3:04 PM"
	DateTimeLayout = "Jan 2, 2006, 3:04 PM"
)

var (
	ErrEmpty = errors.New("empty date")

	// clock-only layouts, which dateparse does not handle
	timeLayouts = []string{"15:04:05", "15:04", "15:04:05.000", "3:04 PM", "3:04PM", "3:04:05 PM"}
)

// Parse reads s as a date, a date-time or a time of day. Values without a zone are read as UTC.
func Parse(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, ErrEmpty
	}
	if t, ok := parseClock(s); ok {
		return t, nil
	}
	t, err := dateparse.ParseIn(s, time.UTC)
	if err != nil {
		return time.Time{}, errors.Wrapf(err, "parsing %q", s)
	}
	return t, nil
}

func parseClock(s string) (time.Time, bool) {
	for _, layout := range timeLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func format(s, layout string) string {
	t, err := Parse(s)
	if err != nil {
		return strings.TrimSpace(s)
	}
	return t.Format(layout)
}

// FormatDate formats s as "Mar 20, 2023".
func FormatDate(s string) string { return format(s, DateLayout) }

// FormatDateLong formats s as "March 20, 2023".
func FormatDateLong(s string) string { return format(s, DateLongLayout) }

// FormatTime formats s as "10:00 AM". s may be a bare clock time such as "10:00:00".
func FormatTime(s string) string { return format(s, TimeLayout) }

// FormatDateTime formats s as "Mar 20, 2023, 10:00 AM".
func FormatDateTime(s string) string { return format(s, DateTimeLayout) }
