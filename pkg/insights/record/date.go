package record

import (
	"strings"
	"time"
)

// Date is a visit date. Cells that cannot be parsed produce the
// Unparseable sentinel, which no window ever contains.
type Date struct {
	t     time.Time
	valid bool
}

// dateLayouts are tried in order by ParseDate.
var dateLayouts = []string{
	"Jan 2, 2006",
	"January 2, 2006",
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"1/2/2006",
	"1/2/06",
	"2 Jan 2006",
}

// NewDate builds a valid date. Out-of-range values are normalized the way
// time.Date does.
func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC), valid: true}
}

// FromTime keeps the calendar day of t. A zero time is unparseable.
func FromTime(t time.Time) Date {
	if t.IsZero() {
		return Unparseable()
	}
	return NewDate(t.Year(), t.Month(), t.Day())
}

// Unparseable returns the sentinel for missing or malformed dates.
func Unparseable() Date {
	return Date{}
}

// ParseDate parses the textual forms found in visit exports.
func ParseDate(raw string) Date {
	s := strings.TrimSpace(raw)
	if s == "" {
		return Unparseable()
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return FromTime(t)
		}
	}
	return Unparseable()
}

// Valid reports whether the date was parsed successfully.
func (d Date) Valid() bool {
	return d.valid
}

// Time returns the date at midnight UTC; zero for the sentinel.
func (d Date) Time() time.Time {
	if !d.valid {
		return time.Time{}
	}
	return d.t
}

// String renders the date as YYYY-MM-DD, or "unparseable".
func (d Date) String() string {
	if !d.valid {
		return "unparseable"
	}
	return d.t.Format("2006-01-02")
}
