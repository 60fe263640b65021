package sentiment

import (
	"errors"
	"testing"
	"time"

	"github.com/cognicore/insights/pkg/insights/internalerr"
	"github.com/cognicore/insights/pkg/insights/record"
)

func comment(y int, m time.Month, text, account string) record.Visit {
	v := record.Visit{Date: record.NewDate(y, m, 10), Account: account}
	if text != "" {
		v.Text = map[record.Field]string{record.FieldComments: text}
	}
	return v
}

func TestScore(t *testing.T) {
	a := New()
	pos := a.Score("The briefing was great, very helpful and excellent!")
	neg := a.Score("Terrible session, a complete waste of time.")
	if pos.Compound <= 0 {
		t.Errorf("positive text compound = %.3f", pos.Compound)
	}
	if neg.Compound >= 0 {
		t.Errorf("negative text compound = %.3f", neg.Compound)
	}
	if pos.Compound < -1 || pos.Compound > 1 {
		t.Errorf("compound out of range: %.3f", pos.Compound)
	}
}

func TestMonthly(t *testing.T) {
	a := New()
	visits := []record.Visit{
		comment(2021, time.January, "Great visit, excellent demos", "Acme"),
		comment(2021, time.March, "Great visit, excellent demos", "Acme"),
		comment(2021, time.March, "Awful and boring", "Beta"),
		comment(2021, time.March, "", "Gamma"),
		comment(2021, time.April, "Great", "Delta"),
	}

	months, err := a.Monthly(visits, record.FieldComments, 2021, time.March, 3)
	if err != nil {
		t.Fatalf("Monthly: %v", err)
	}
	if len(months) != 3 {
		t.Fatalf("got %d months, want 3", len(months))
	}
	if months[0].Month != time.January || months[2].Month != time.March {
		t.Errorf("months should run oldest first: %v", months)
	}
	if months[0].N != 1 || months[1].N != 0 || months[2].N != 2 {
		t.Errorf("N = %d, %d, %d", months[0].N, months[1].N, months[2].N)
	}
	if months[1].Avg != (Scores{}) {
		t.Errorf("empty month should have zero scores, got %+v", months[1].Avg)
	}
	if months[0].Avg.Compound <= 0 {
		t.Errorf("January compound = %.3f, want positive", months[0].Avg.Compound)
	}
	if months[2].Avg.Compound >= months[0].Avg.Compound {
		t.Errorf("mixed March should score below January: %.3f vs %.3f", months[2].Avg.Compound, months[0].Avg.Compound)
	}

	for _, bad := range []int{0, 13} {
		if _, err := a.Monthly(visits, record.FieldComments, 2021, time.March, bad); !errors.Is(err, internalerr.ErrInvalidInput) {
			t.Errorf("count %d: err = %v, want ErrInvalidInput", bad, err)
		}
	}
}

func TestTop(t *testing.T) {
	a := New()
	visits := []record.Visit{
		comment(2021, time.March, "It was fine", "A"),
		comment(2021, time.March, "Absolutely wonderful, amazing team!", "B"),
		comment(2021, time.March, "", "C"),
		comment(2021, time.March, "Bad and disappointing", "D"),
	}
	top := a.Top(visits, record.FieldComments, 2)
	if len(top) != 2 {
		t.Fatalf("Top = %v", top)
	}
	if top[0].Account != "B" {
		t.Errorf("most positive comment should come first, got %+v", top[0])
	}
	if top[0].Compound < top[1].Compound {
		t.Error("comments should be sorted by compound, highest first")
	}
	if a.Top(visits, record.FieldComments, 0) != nil {
		t.Error("n = 0 should return nil")
	}
}
