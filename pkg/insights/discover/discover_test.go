package discover

import (
	"testing"

	"github.com/cognicore/insights/pkg/insights/record"
	"github.com/cognicore/insights/pkg/insights/vocab"
)

func TestCandidates(t *testing.T) {
	v, err := vocab.New(vocab.Spec{
		Groups:    []vocab.Group{{Keywords: []string{"cloud"}}},
		Synonyms:  []vocab.SynonymGroup{{Canonical: "cloud", Variants: []string{"public cloud"}}},
		StopWords: []string{"the", "and"},
	})
	if err != nil {
		t.Fatalf("vocab.New: %v", err)
	}

	visits := []record.Visit{
		{Text: map[record.Field]string{record.FieldTopics: "Robotics and the public cloud, robotics again"}},
		{Text: map[record.Field]string{record.FieldTopics: "Drones, 2021 robotics", record.FieldActions: "drones a b"}},
		{Text: map[record.Field]string{record.FieldComments: "robotics robotics robotics"}},
		{},
	}
	fields := []record.Field{record.FieldTopics, record.FieldActions}

	got := Candidates(visits, fields, v, 10)
	want := []Candidate{
		{Token: "robotics", Count: 3},
		{Token: "drones", Count: 2},
		{Token: "again", Count: 1},
	}
	if len(got) != len(want) {
		t.Fatalf("Candidates = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Candidates[%d] = %v, want %v", i, got[i], want[i])
		}
	}

	if top := Candidates(visits, fields, v, 1); len(top) != 1 || top[0].Token != "robotics" {
		t.Errorf("Candidates(n=1) = %v", top)
	}
	if Candidates(visits, fields, v, 0) != nil {
		t.Error("n = 0 should return nil")
	}
}
