package record

import (
	"fmt"
	"time"
)

// Window is a half-open date range [Start, End) aligned on month starts.
type Window struct {
	Start time.Time
	End   time.Time
}

// Month returns the window covering one calendar month.
func Month(year int, month time.Month) Window {
	start := firstOfMonth(year, month)
	return Window{Start: start, End: start.AddDate(0, 1, 0)}
}

// Trailing returns the window of width months ending with (year, month)
// inclusive. A width below one yields an empty window.
func Trailing(year int, month time.Month, width int) Window {
	end := firstOfMonth(year, month).AddDate(0, 1, 0)
	if width < 1 {
		return Window{Start: end, End: end}
	}
	return Window{Start: end.AddDate(0, -width, 0), End: end}
}

// Contains reports whether d falls inside the window. The unparseable
// sentinel is never contained.
func (w Window) Contains(d Date) bool {
	if !d.Valid() {
		return false
	}
	t := d.Time()
	return !t.Before(w.Start) && t.Before(w.End)
}

// Empty reports whether no date can fall in the window.
func (w Window) Empty() bool {
	return !w.Start.Before(w.End)
}

// Select returns the visits dated inside the window, preserving order.
func (w Window) Select(visits []Visit) []Visit {
	if w.Empty() {
		return nil
	}
	var out []Visit
	for _, v := range visits {
		if w.Contains(v.Date) {
			out = append(out, v)
		}
	}
	return out
}

// Label renders the window as "2019-12" or "2019-07..2019-12".
func (w Window) Label() string {
	if w.Empty() {
		return "empty"
	}
	last := w.End.AddDate(0, -1, 0)
	if last.Equal(w.Start) {
		return w.Start.Format("2006-01")
	}
	return fmt.Sprintf("%s..%s", w.Start.Format("2006-01"), last.Format("2006-01"))
}

// InMonth keeps the visits dated in the given calendar month.
func InMonth(visits []Visit, year int, month time.Month) []Visit {
	return Month(year, month).Select(visits)
}

// InTrailingWindow keeps the visits dated in the width months ending with
// (year, month).
func InTrailingWindow(visits []Visit, year int, month time.Month, width int) []Visit {
	return Trailing(year, month, width).Select(visits)
}

// AddMonths shifts (year, month) by delta months, rolling over years in
// either direction.
func AddMonths(year int, month time.Month, delta int) (int, time.Month) {
	t := firstOfMonth(year, month).AddDate(0, delta, 0)
	return t.Year(), t.Month()
}

// Undated counts visits carrying the unparseable sentinel.
func Undated(visits []Visit) int {
	n := 0
	for _, v := range visits {
		if !v.Date.Valid() {
			n++
		}
	}
	return n
}

func firstOfMonth(year int, month time.Month) time.Time {
	return time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
}
