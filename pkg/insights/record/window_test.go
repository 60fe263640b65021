package record

import (
	"testing"
	"time"
)

func dated(days ...string) []Visit {
	out := make([]Visit, len(days))
	for i, d := range days {
		out[i] = Visit{Row: i + 2, Date: ParseDate(d)}
	}
	return out
}

func TestInMonth(t *testing.T) {
	visits := dated("2019-11-30", "2019-12-01", "2019-12-31", "2020-01-01", "bad")

	got := InMonth(visits, 2019, time.December)
	if len(got) != 2 {
		t.Fatalf("InMonth(2019-12) = %d visits, want 2", len(got))
	}
	if got[0].Row != 3 || got[1].Row != 4 {
		t.Errorf("order not preserved: rows %d, %d", got[0].Row, got[1].Row)
	}
}

func TestInTrailingWindow(t *testing.T) {
	visits := dated(
		"2019-07-31", // just before the window
		"2019-08-01",
		"2019-10-15",
		"2020-01-31",
		"2020-02-01", // just after
		"garbage",
	)

	got := InTrailingWindow(visits, 2020, time.January, 6)
	if len(got) != 3 {
		t.Fatalf("trailing 6 ending 2020-01 = %d visits, want 3", len(got))
	}
	for _, v := range got {
		if v.Date.String() < "2019-08-01" || v.Date.String() > "2020-01-31" {
			t.Errorf("visit %s outside window", v.Date)
		}
	}
}

func TestTrailingEdges(t *testing.T) {
	if w := Trailing(2020, time.January, 0); !w.Empty() || w.Label() != "empty" {
		t.Errorf("width 0 should be empty, got %s", w.Label())
	}
	if got := InTrailingWindow(dated("2020-01-05"), 2020, time.January, -2); got != nil {
		t.Errorf("negative width selected %d visits", len(got))
	}
	if got := Trailing(2020, time.January, 6).Label(); got != "2019-08..2020-01" {
		t.Errorf("Label = %q", got)
	}
	if got := Month(2019, time.December).Label(); got != "2019-12" {
		t.Errorf("Label = %q", got)
	}
}

func TestUnparseableNeverContained(t *testing.T) {
	w := Window{Start: time.Time{}, End: time.Date(3000, 1, 1, 0, 0, 0, 0, time.UTC)}
	if w.Contains(Unparseable()) {
		t.Error("sentinel should never be contained")
	}
	if n := Undated(dated("x", "2020-01-01", "")); n != 2 {
		t.Errorf("Undated = %d, want 2", n)
	}
}

func TestAddMonths(t *testing.T) {
	tests := []struct {
		y     int
		m     time.Month
		delta int
		wantY int
		wantM time.Month
	}{
		{2021, time.March, -2, 2021, time.January},
		{2021, time.January, -1, 2020, time.December},
		{2020, time.December, 1, 2021, time.January},
		{2020, time.June, -18, 2018, time.December},
	}
	for _, tt := range tests {
		y, m := AddMonths(tt.y, tt.m, tt.delta)
		if y != tt.wantY || m != tt.wantM {
			t.Errorf("AddMonths(%d, %s, %d) = %d %s, want %d %s", tt.y, tt.m, tt.delta, y, m, tt.wantY, tt.wantM)
		}
	}
}
