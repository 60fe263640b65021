package report

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cognicore/insights/pkg/insights/group"
	"github.com/cognicore/insights/pkg/insights/internalerr"
	"github.com/cognicore/insights/pkg/insights/record"
	"github.com/cognicore/insights/pkg/insights/vocab"
)

var fixedNow = time.Date(2021, time.April, 2, 9, 0, 0, 0, time.UTC)

type visitSpec struct {
	date     string
	centre   string
	industry string
	acctType string
	rel      string
	account  string
	topics   string
	actions  string
}

func fixtureVisits() []record.Visit {
	specs := []visitSpec{
		{"2021-03-02", "PA", "Finance", "", "Customer", "Acme", "IoT sensors", "cloud follow-up"},
		{"2021-03-09", "PA", "Finance", "", "Partner", "Beta", "cloud and iot", ""},
		{"2021-03-15", "H", "Retail", "Systems Integrator", "", "Gamma", "security", ""},
		{"2021-03-20", "LON1", "Japan", "", "", "Delta", "riot", ""},
		{"2021-03-28", "NY1", "", "", "", "Epsilon", "", ""},
		{"2021-02-10", "SNG", "Retail", "Channel/ Reseller", "", "Zeta", "ai", ""},
		{"2021-02-11", "PA", "Finance", "", "", "Eta", "iot", ""},
		{"2021-01-05", "H", "Finance", "", "", "Theta", "cloud", ""},
		{"2020-10-01", "PA", "Finance", "", "", "Iota", "security", ""},
		{"not a date", "PA", "Finance", "", "", "Kappa", "iot", ""},
	}
	out := make([]record.Visit, len(specs))
	for i, s := range specs {
		v := record.Visit{
			Row:          i + 2,
			Date:         record.ParseDate(s.date),
			Center:       record.ParseCenter(s.centre),
			Industry:     s.industry,
			AccountType:  s.acctType,
			Relationship: s.rel,
			Account:      s.account,
		}
		if s.topics != "" || s.actions != "" {
			v.Text = map[record.Field]string{}
			if s.topics != "" {
				v.Text[record.FieldTopics] = s.topics
			}
			if s.actions != "" {
				v.Text[record.FieldActions] = s.actions
			}
		}
		out[i] = v
	}
	return out
}

func newBuilder(t *testing.T) *Builder {
	t.Helper()
	v, err := vocab.New(vocab.Spec{
		Groups: []vocab.Group{
			{Colour: "#1f77b4", Keywords: []string{"IoT", "cloud"}},
			{Colour: "#d62728", Keywords: []string{"security", "AI"}},
		},
		StopWords: []string{"and"},
	})
	if err != nil {
		t.Fatalf("vocab.New: %v", err)
	}
	return &Builder{
		Vocabulary:  v,
		Industries:  []group.Industry{{Code: "Finance", Name: "Financial Services"}, {Code: "Retail"}, {Code: "Japan"}},
		FoldToOther: true,
		Options:     DefaultOptions(),
		Now:         func() time.Time { return fixedNow },
	}
}

func TestBuildInterestsAndTrends(t *testing.T) {
	b := newBuilder(t)
	r, err := b.Build(context.Background(), fixtureVisits(), 2021, time.March)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	if r.RunID == "" || !r.GeneratedAt.Equal(fixedNow) {
		t.Errorf("run id %q generated %v", r.RunID, r.GeneratedAt)
	}
	if r.Records != 10 || r.Undated != 1 {
		t.Errorf("Records = %d, Undated = %d", r.Records, r.Undated)
	}
	if r.Period() != "2021-03" {
		t.Errorf("Period = %q", r.Period())
	}

	if len(r.Interests.Months) != 3 {
		t.Fatalf("interest months = %d", len(r.Interests.Months))
	}
	cur := r.Interests.Current()
	if cur.Window != "2021-03" || cur.Records != 5 || cur.Commented != 4 {
		t.Errorf("current month = %s records=%d commented=%d", cur.Window, cur.Records, cur.Commented)
	}
	wantTop := []KeywordShare{{"iot", 2, 50}, {"cloud", 2, 50}, {"security", 1, 25}, {"ai", 0, 0}}
	if len(cur.Top) != len(wantTop) {
		t.Fatalf("Top = %v", cur.Top)
	}
	for i := range wantTop {
		if cur.Top[i] != wantTop[i] {
			t.Errorf("Top[%d] = %v, want %v", i, cur.Top[i], wantTop[i])
		}
	}
	// Unmentioned keywords rank but get no word-cloud entry.
	if len(cur.Cloud) != 3 || cur.Cloud[0].FontSize <= cur.Cloud[2].FontSize {
		t.Errorf("cloud weights = %v", cur.Cloud)
	}

	if len(r.Trends.Keywords) != 3 {
		t.Fatalf("trends = %d", len(r.Trends.Keywords))
	}
	iot := r.Trends.Keywords[0]
	if iot.Keyword != "iot" || iot.Label != "IoT" || iot.Colour != "#1f77b4" {
		t.Errorf("trend = %+v", iot)
	}
	wantSeries := []float64{0, 0.5, 0.5}
	for i := range wantSeries {
		if iot.Series[i] != wantSeries[i] {
			t.Errorf("iot series[%d] = %.2f, want %.2f", i, iot.Series[i], wantSeries[i])
		}
	}
	if iot.Months[0] != "Jan" || iot.Months[2] != "Mar" {
		t.Errorf("months = %v", iot.Months)
	}
	if len(iot.Accounts) != 2 || iot.Accounts[0] != "Acme" || iot.Accounts[1] != "Beta" {
		t.Errorf("accounts = %v", iot.Accounts)
	}
	if iot.Centres[0].Key != "PA" || iot.Centres[0].Count != 3 {
		t.Errorf("iot centres = %v", iot.Centres)
	}
}

func TestBuildSegments(t *testing.T) {
	b := newBuilder(t)
	r, err := b.Build(context.Background(), fixtureVisits(), 2021, time.March)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	ind := r.Industries
	if len(ind.Volumes) != 3 || ind.Volumes[0].Key != "Finance" || ind.Volumes[0].Count != 4 {
		t.Errorf("industry volumes = %v", ind.Volumes)
	}
	if len(ind.Groups) != 2 || ind.Groups[0].Industry != "Finance" || ind.Groups[1].Industry != "Retail" {
		t.Fatalf("industry groups = %+v", ind.Groups)
	}
	fin := ind.Groups[0]
	if fin.Name != "Financial Services" || fin.Records != 4 || len(fin.Top) != 3 || fin.Top[0].Keyword != "iot" || fin.Top[0].Count != 3 {
		t.Errorf("finance = %+v", fin)
	}
	if fin.Top[2] != (KeywordShare{"security", 0, 0}) {
		t.Errorf("finance should list unmentioned keywords last: %v", fin.Top)
	}

	p := r.Partners
	if p.Records != 3 || p.Commented != 3 {
		t.Errorf("partners records=%d commented=%d", p.Records, p.Commented)
	}
	if len(p.Roles) != 3 {
		t.Errorf("roles = %v", p.Roles)
	}
	sum := 0
	for _, gc := range p.ChannelPlusSI {
		sum += gc.Count
	}
	if sum != 2 {
		t.Errorf("channel + SI = %v", p.ChannelPlusSI)
	}

	if len(r.Centres.Views) != len(record.Centers()) {
		t.Fatalf("centre views = %d", len(r.Centres.Views))
	}
	pa := r.Centres.Views[0]
	if pa.Centre != "PA" || pa.Window != "2020-10..2021-03" || pa.Records != 4 {
		t.Errorf("PA view = %+v", pa)
	}
	if len(pa.Industries) != 1 || pa.Industries[0].Industry != "Finance" {
		t.Errorf("PA industries = %+v", pa.Industries)
	}
	for _, ks := range pa.Industries[0].Keywords {
		if ks.Percent < b.Options.CutoffPercent {
			t.Errorf("%s at %.0f%% is under the cutoff", ks.Keyword, ks.Percent)
		}
	}

	for _, mk := range r.Objectives.Months {
		if mk.Commented != 0 || len(mk.Cloud) != 0 {
			t.Errorf("objectives %s should be empty: %+v", mk.Window, mk)
		}
		for _, ks := range mk.Top {
			if ks.Count != 0 {
				t.Errorf("objectives %s: %s counted %d", mk.Window, ks.Keyword, ks.Count)
			}
		}
	}
	if r.Sentiment != nil {
		t.Error("sentiment should be off by default")
	}
	if r.Centre != nil {
		t.Error("single-centre view should be off by default")
	}
	for _, c := range r.Candidates {
		if c.Token == "and" || c.Token == "iot" {
			t.Errorf("candidate %q should be filtered", c.Token)
		}
	}
}

func TestBuildSectionIDsUnique(t *testing.T) {
	b := newBuilder(t)
	b.Options.Sentiment = true
	r, err := b.Build(context.Background(), fixtureVisits(), 2021, time.March)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	ids := []string{r.RunID, r.Interests.ID, r.Trends.ID, r.Industries.ID, r.Partners.ID, r.Centres.ID, r.Objectives.ID, r.Sentiment.ID}
	seen := make(map[string]bool)
	for _, id := range ids {
		if id == "" || seen[id] {
			t.Errorf("id %q empty or repeated", id)
		}
		seen[id] = true
	}
	if len(r.Sentiment.Months) != 6 {
		t.Errorf("sentiment months = %d", len(r.Sentiment.Months))
	}
}

func TestBuildSingleCentre(t *testing.T) {
	b := newBuilder(t)
	b.Options.Centre = record.CenterPaloAlto
	r, err := b.Build(context.Background(), fixtureVisits(), 2021, time.March)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if r.Centre == nil {
		t.Fatal("expected a single-centre view")
	}
	if r.Centre.Records != 4 || len(r.Centre.Monthly) != 6 {
		t.Errorf("centre view records=%d months=%d", r.Centre.Records, len(r.Centre.Monthly))
	}
	if r.Centre.Monthly[0].Window != "2020-10" || r.Centre.Monthly[0].Commented != 1 {
		t.Errorf("first month = %+v", r.Centre.Monthly[0])
	}
	// The single-centre view lists every industry keyword, no cutoff.
	if len(r.Centre.Industries) == 0 || len(r.Centre.Industries[0].Keywords) != 3 {
		t.Errorf("centre industries = %+v", r.Centre.Industries)
	}
}

func TestBuildErrors(t *testing.T) {
	visits := fixtureVisits()

	b := newBuilder(t)
	if _, err := b.Build(context.Background(), visits, 2021, 13); !errors.Is(err, internalerr.ErrInvalidInput) {
		t.Errorf("bad month: err = %v", err)
	}
	if _, err := b.Build(context.Background(), visits, 2019, time.January); !errors.Is(err, internalerr.ErrNoData) {
		t.Errorf("empty window: err = %v", err)
	}

	// The October visit falls in the six months ending March 2021 only;
	// the report is built with empty recent sections.
	var october []record.Visit
	for _, v := range visits {
		if v.Date.Valid() && v.Date.Time().Month() == time.October {
			october = append(october, v)
		}
	}
	r, err := b.Build(context.Background(), october, 2021, time.March)
	if err != nil {
		t.Fatalf("visit only in the trailing window: err = %v", err)
	}
	if r.Interests.Current().Records != 0 || r.Centres.Views[0].Records != 1 {
		t.Errorf("interests records=%d PA records=%d", r.Interests.Current().Records, r.Centres.Views[0].Records)
	}
	if _, err := b.Build(context.Background(), october, 2021, time.April); !errors.Is(err, internalerr.ErrNoData) {
		t.Errorf("visit outside the trailing window: err = %v", err)
	}

	b.Options.TrailingMonths = 0
	if _, err := b.Build(context.Background(), visits, 2021, time.March); !errors.Is(err, internalerr.ErrInvalidConfig) {
		t.Errorf("bad options: err = %v", err)
	}

	if _, err := (&Builder{Options: DefaultOptions()}).Build(context.Background(), visits, 2021, time.March); !errors.Is(err, internalerr.ErrInvalidConfig) {
		t.Errorf("no vocabulary: err = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := newBuilder(t).Build(ctx, visits, 2021, time.March); !errors.Is(err, context.Canceled) {
		t.Errorf("cancelled: err = %v", err)
	}
}
