package record

import (
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		in    string
		want  string
		valid bool
	}{
		{"Dec 3, 2019", "2019-12-03", true},
		{"December 3, 2019", "2019-12-03", true},
		{"2019-12-03", "2019-12-03", true},
		{"2019-12-03 14:30:00", "2019-12-03", true},
		{"2019-12-03T23:30:00Z", "2019-12-03", true},
		{"12/3/2019", "2019-12-03", true},
		{"12/3/19", "2019-12-03", true},
		{"3 Dec 2019", "2019-12-03", true},
		{"  2020-01-31  ", "2020-01-31", true},
		{"", "unparseable", false},
		{"not a date", "unparseable", false},
		{"2019-13-01", "unparseable", false},
	}
	for _, tt := range tests {
		d := ParseDate(tt.in)
		if d.Valid() != tt.valid || d.String() != tt.want {
			t.Errorf("ParseDate(%q) = %s (valid=%v), want %s (valid=%v)", tt.in, d, d.Valid(), tt.want, tt.valid)
		}
	}
}

func TestFromTime(t *testing.T) {
	if FromTime(time.Time{}).Valid() {
		t.Error("zero time should be unparseable")
	}
	d := FromTime(time.Date(2021, 3, 15, 18, 0, 0, 0, time.FixedZone("x", -5*3600)))
	if d.String() != "2021-03-15" {
		t.Errorf("FromTime kept %s, want calendar day 2021-03-15", d)
	}
	if !Unparseable().Time().IsZero() {
		t.Error("sentinel time should be zero")
	}
}

func TestParseField(t *testing.T) {
	if f, ok := ParseField(" Topics "); !ok || f != FieldTopics {
		t.Errorf("ParseField = %q, %v", f, ok)
	}
	if _, ok := ParseField("nope"); ok {
		t.Error("unknown field should not parse")
	}
	if len(Fields()) != 4 {
		t.Errorf("Fields() = %v", Fields())
	}
}

func TestVisitText(t *testing.T) {
	v := Visit{Text: map[Field]string{FieldTopics: "cloud"}}
	if s, ok := v.TextOf(FieldTopics); !ok || s != "cloud" {
		t.Errorf("TextOf(topics) = %q, %v", s, ok)
	}
	if _, ok := v.TextOf(FieldActions); ok {
		t.Error("absent field should report !ok")
	}
	if _, ok := (Visit{}).TextOf(FieldTopics); ok {
		t.Error("nil text map should report !ok")
	}

	if !v.Commented([]Field{FieldActions, FieldTopics}) {
		t.Error("visit with topics should be commented")
	}
	if v.Commented([]Field{FieldActions}) {
		t.Error("visit without actions should not be commented on actions")
	}
}

func TestParseCenter(t *testing.T) {
	tests := []struct {
		in   string
		want Center
	}{
		{"PA", CenterPaloAlto},
		{" ny1 ", CenterNewYork},
		{"LON1", CenterLondon},
		{"", CenterUnmatched},
		{"TOKYO", CenterUnmatched},
	}
	for _, tt := range tests {
		if got := ParseCenter(tt.in); got != tt.want {
			t.Errorf("ParseCenter(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}

	want := []Center{CenterPaloAlto, CenterHouston, CenterNewYork, CenterLondon, CenterSingapore}
	got := Centers()
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Centers()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
	if CenterUnmatched.Known() || !CenterSingapore.Known() {
		t.Error("Known mismatch")
	}
	if Center("XX").Name() != "Unmatched" || CenterHouston.Name() != "Houston" {
		t.Error("Name mismatch")
	}
}
