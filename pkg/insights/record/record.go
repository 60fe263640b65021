package record

import "strings"

// Field names a free-text column of a visit record.
type Field string

// Free-text fields exported by the briefing system.
const (
	FieldTopics     Field = "topics"     // "Want to Learn More About"
	FieldActions    Field = "actions"    // "Action Items"
	FieldObjectives Field = "objectives" // "Objectives"
	FieldComments   Field = "comments"   // "Customer Overall Comments"
)

// Fields lists every known free-text field.
func Fields() []Field {
	return []Field{FieldTopics, FieldActions, FieldObjectives, FieldComments}
}

// ParseField maps a field name to a Field, case-insensitively.
func ParseField(s string) (Field, bool) {
	f := Field(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Fields() {
		if f == known {
			return f, true
		}
	}
	return "", false
}

// Visit is one row of the visit spreadsheet.
type Visit struct {
	Row          int
	Date         Date
	Text         map[Field]string // absent key: the cell was empty
	Center       Center
	Industry     string
	AccountType  string
	Relationship string // "Partner / Customer" column
	Account      string
}

// TextOf returns the raw text of a field and whether the cell had a value.
func (v Visit) TextOf(f Field) (string, bool) {
	if v.Text == nil {
		return "", false
	}
	s, ok := v.Text[f]
	return s, ok
}

// Commented reports whether at least one of fields has a value.
func (v Visit) Commented(fields []Field) bool {
	for _, f := range fields {
		if _, ok := v.TextOf(f); ok {
			return true
		}
	}
	return false
}

// Center is a regional briefing center.
type Center string

// Known centers, in the order reports list them.
const (
	CenterPaloAlto  Center = "PA"
	CenterHouston   Center = "H"
	CenterNewYork   Center = "NY1"
	CenterLondon    Center = "LON1"
	CenterSingapore Center = "SNG"

	// CenterUnmatched holds rows whose center is blank or unknown.
	CenterUnmatched Center = "unmatched"
)

var centerNames = map[Center]string{
	CenterPaloAlto:  "Palo Alto",
	CenterHouston:   "Houston",
	CenterNewYork:   "New York",
	CenterLondon:    "London",
	CenterSingapore: "Singapore",
	CenterUnmatched: "Unmatched",
}

// Centers returns the known centers in report order, without the
// unmatched bucket.
func Centers() []Center {
	return []Center{CenterPaloAlto, CenterHouston, CenterNewYork, CenterLondon, CenterSingapore}
}

// ParseCenter maps a center code to a Center. Unknown or blank codes map
// to CenterUnmatched.
func ParseCenter(raw string) Center {
	code := strings.ToUpper(strings.TrimSpace(raw))
	for _, c := range Centers() {
		if string(c) == code {
			return c
		}
	}
	return CenterUnmatched
}

// Name returns the long name of the center.
func (c Center) Name() string {
	if n, ok := centerNames[c]; ok {
		return n
	}
	return centerNames[CenterUnmatched]
}

// Known reports whether c is one of the named centers.
func (c Center) Known() bool {
	return c != CenterUnmatched && centerNames[c] != ""
}
