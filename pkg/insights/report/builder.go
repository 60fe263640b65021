package report

import (
	"context"
	"crypto/rand"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/cognicore/insights/pkg/insights/aggregate"
	"github.com/cognicore/insights/pkg/insights/discover"
	"github.com/cognicore/insights/pkg/insights/group"
	"github.com/cognicore/insights/pkg/insights/internalerr"
	"github.com/cognicore/insights/pkg/insights/record"
	"github.com/cognicore/insights/pkg/insights/render"
	"github.com/cognicore/insights/pkg/insights/sentiment"
	"github.com/cognicore/insights/pkg/insights/vocab"
)

// recentMonths is the width of the interests, industry and partner window.
const recentMonths = 3

// Builder constructs reports. It is not safe for concurrent use.
type Builder struct {
	Vocabulary  *vocab.Vocabulary
	Industries  []group.Industry
	FoldToOther bool
	Options     Options
	Logger      *slog.Logger
	Analyzer    *sentiment.Analyzer
	Now         func() time.Time

	entropy *ulid.MonotonicEntropy
	engine  *aggregate.Engine
}

// Build computes the report for (year, month) from all visits.
func (b *Builder) Build(ctx context.Context, visits []record.Visit, year int, month time.Month) (*Report, error) {
	if b.Vocabulary == nil {
		return nil, fmt.Errorf("%w: report builder has no vocabulary", internalerr.ErrInvalidConfig)
	}
	if err := b.Options.Validate(); err != nil {
		return nil, err
	}
	if month < time.January || month > time.December {
		return nil, fmt.Errorf("%w: month %d", internalerr.ErrInvalidInput, month)
	}
	b.init()

	trailing := record.Trailing(year, month, b.Options.TrailingMonths)
	if len(trailing.Select(visits)) == 0 {
		return nil, fmt.Errorf("%w: no visits in %s", internalerr.ErrNoData, trailing.Label())
	}
	recent := record.Trailing(year, month, recentMonths)

	r := &Report{
		RunID:       b.newID(),
		Year:        year,
		Month:       month,
		GeneratedAt: b.Now().UTC(),
		Records:     len(visits),
		Undated:     record.Undated(visits),
	}
	if r.Undated > 0 {
		b.Logger.Warn("visits without a usable date", "count", r.Undated)
	}

	steps := []struct {
		name string
		run  func() error
	}{
		{"interests", func() error { r.Interests = b.interests(visits, year, month); return nil }},
		{"trends", func() error { r.Trends = b.trends(visits, r.Interests); return nil }},
		{"industries", func() error { r.Industries = b.industries(recent.Select(visits), recent); return nil }},
		{"partners", func() error { r.Partners = b.partners(recent.Select(visits), recent); return nil }},
		{"centres", func() error { r.Centres = b.centres(visits, year, month); return nil }},
		{"objectives", func() error { r.Objectives = b.objectives(visits, year, month); return nil }},
		{"sentiment", func() error {
			if !b.Options.Sentiment {
				return nil
			}
			s, err := b.sentiment(visits, year, month)
			r.Sentiment = s
			return err
		}},
		{"candidates", func() error {
			r.Candidates = discover.Candidates(visits, b.Options.Fields, b.Vocabulary, b.Options.Candidates)
			return nil
		}},
		{"centre", func() error {
			if b.Options.Centre == "" {
				return nil
			}
			v := b.singleCentre(visits, year, month, b.Options.Centre)
			r.Centre = &v
			return nil
		}},
	}
	for _, step := range steps {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := step.run(); err != nil {
			return nil, fmt.Errorf("build %s: %w", step.name, err)
		}
		b.Logger.Debug("section built", "section", step.name)
	}
	return r, nil
}

func (b *Builder) init() {
	if b.entropy == nil {
		b.entropy = ulid.Monotonic(rand.Reader, 0)
	}
	if b.Logger == nil {
		b.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if b.Now == nil {
		b.Now = time.Now
	}
	if b.engine == nil {
		b.engine = aggregate.New(b.Vocabulary)
	}
}

func (b *Builder) newID() string {
	return ulid.MustNew(ulid.Now(), b.entropy).String()
}

func (b *Builder) section(title string, w record.Window) Section {
	return Section{ID: b.newID(), Title: title, Window: w.Label()}
}

// monthKeywords ranks one month over fields.
func (b *Builder) monthKeywords(visits []record.Visit, year int, month time.Month, fields []record.Field, top int) MonthKeywords {
	w := record.Month(year, month)
	in := w.Select(visits)
	res := b.engine.Aggregate(in, fields...)
	ranked := res.TopN(top)
	return MonthKeywords{
		Year:      year,
		Month:     month,
		Window:    w.Label(),
		Records:   len(in),
		Commented: res.TotalCommented,
		Top:       shares(res, ranked),
		Cloud:     render.CloudWeights(ranked, res.TotalCommented, b.Options.MaxFont),
		Result:    res,
	}
}

func (b *Builder) lastMonths(visits []record.Visit, year int, month time.Month, fields []record.Field, top int) []MonthKeywords {
	out := make([]MonthKeywords, 0, recentMonths)
	for i := recentMonths - 1; i >= 0; i-- {
		y, m := record.AddMonths(year, month, -i)
		out = append(out, b.monthKeywords(visits, y, m, fields, top))
	}
	return out
}

func (b *Builder) interests(visits []record.Visit, year int, month time.Month) Interests {
	sec := Interests{
		Section: b.section(fmt.Sprintf("Customer interests %s", month), record.Trailing(year, month, recentMonths)),
		Months:  b.lastMonths(visits, year, month, b.Options.Fields, b.Options.TopInterests),
	}
	cur := sec.Current()
	b.Logger.Info("interests", "window", cur.Window, "commented", cur.Commented, "top", cur.Top)
	return sec
}

func (b *Builder) trends(visits []record.Visit, in Interests) Trends {
	cur := in.Current()
	w := record.Trailing(cur.Year, cur.Month, len(in.Months))
	sec := Trends{Section: b.section("Top customer interests", w)}

	results := make([]aggregate.Result, len(in.Months))
	labels := make([]string, len(in.Months))
	for i, mk := range in.Months {
		results[i] = mk.Result
		labels[i] = mk.Month.String()[:3]
	}
	window := w.Select(visits)
	month := record.Month(cur.Year, cur.Month).Select(visits)

	for _, kc := range cur.Result.TopN(b.Options.TopTrends) {
		t := Trend{
			Keyword: kc.Keyword,
			Label:   b.Vocabulary.Label(kc.Keyword),
			Colour:  b.Vocabulary.Colour(kc.Keyword),
			Months:  labels,
			Series:  shareSeries(results, kc.Keyword),
			Centres: centreCounts(b.engine.Matching(window, kc.Keyword, b.Options.Fields...)),
		}
		for _, v := range b.engine.Matching(month, kc.Keyword, b.Options.Fields...) {
			if v.Account != "" {
				t.Accounts = append(t.Accounts, v.Account)
			}
		}
		sec.Keywords = append(sec.Keywords, t)
	}
	return sec
}

func shareSeries(results []aggregate.Result, keyword string) []float64 {
	pct := aggregate.Series(results, keyword)
	for i := range pct {
		pct[i] /= 100
	}
	return pct
}

func (b *Builder) industries(window []record.Visit, w record.Window) Industries {
	dim := group.ByIndustry(b.Industries, b.FoldToOther)
	part := group.By(window, dim)
	names := make(map[string]string, len(b.Industries))
	for _, ind := range b.Industries {
		names[ind.Code] = ind.Name
	}

	sec := Industries{Section: b.section("Industry insights", w)}
	for _, k := range part.RankedKeys() {
		sec.Volumes = append(sec.Volumes, GroupCount{Key: k, Name: names[k], Count: len(part.Records(k))})
	}
	for _, k := range part.Keys() {
		if k == group.OtherIndustry {
			continue
		}
		rs := part.Records(k)
		res := b.engine.Aggregate(rs, b.Options.Fields...)
		sec.Groups = append(sec.Groups, IndustryView{
			Industry:  k,
			Name:      names[k],
			Records:   len(rs),
			Commented: res.TotalCommented,
			Top:       shares(res, res.TopN(b.Options.TopSegment)),
			Centres:   centreCounts(rs),
		})
	}
	return sec
}

func (b *Builder) partners(window []record.Visit, w record.Window) Partners {
	part := group.By(window, group.ByPartnerRole())
	partners := group.Partners(window)
	res := b.engine.Aggregate(partners, b.Options.Fields...)

	sec := Partners{
		Section:   b.section("Partner insights", w),
		Records:   len(partners),
		Commented: res.TotalCommented,
		Top:       shares(res, res.TopN(b.Options.TopSegment)),
	}
	for _, role := range part.Keys() {
		if !group.IsPartner(role) {
			continue
		}
		rs := part.Records(role)
		sec.Roles = append(sec.Roles, RoleView{Role: role, Records: len(rs), Centres: centreCounts(rs)})
	}
	var combined []record.Visit
	combined = append(combined, part.Records(group.Channel)...)
	combined = append(combined, part.Records(group.SystemsIntegrator)...)
	sec.ChannelPlusSI = centreCounts(combined)
	return sec
}

func (b *Builder) centres(visits []record.Visit, year int, month time.Month) Centres {
	w := record.Trailing(year, month, b.Options.TrailingMonths)
	part := group.By(w.Select(visits), group.ByCenter())
	sec := Centres{Section: b.section("Breakdown by centre", w)}
	for _, c := range record.Centers() {
		view := b.centreView(part.Records(string(c)), c, w, b.Options.CutoffPercent)
		b.Logger.Debug("centre", "centre", c, "records", view.Records, "top", view.Top)
		sec.Views = append(sec.Views, view)
	}
	return sec
}

// centreView ranks one centre and its largest named industries. Industry
// keyword lists keep at most four mentioned entries at or above cutoff
// percent.
func (b *Builder) centreView(rs []record.Visit, c record.Center, w record.Window, cutoff float64) CentreView {
	res := b.engine.Aggregate(rs, b.Options.Fields...)
	view := CentreView{
		Centre:    string(c),
		Name:      c.Name(),
		Window:    w.Label(),
		Records:   len(rs),
		Commented: res.TotalCommented,
		Top:       shares(res, res.TopN(b.Options.TopCentre)),
		Notes:     shares(res, res.TopN(b.Options.TopCentreNotes)),
	}

	part := group.By(rs, group.ByIndustry(b.Industries, b.FoldToOther))
	for _, k := range part.RankedKeys() {
		view.Volumes = append(view.Volumes, GroupCount{Key: k, Count: len(part.Records(k))})
	}
	for _, k := range part.RankedKeys() {
		if len(view.Industries) >= b.Options.TopIndustries {
			break
		}
		if k == group.OtherIndustry {
			continue
		}
		ir := part.Records(k)
		ires := b.engine.Aggregate(ir, b.Options.Fields...)
		ik := IndustryKeywords{Industry: k, Records: len(ir), Commented: ires.TotalCommented}
		for _, kc := range ires.TopN(4) {
			if kc.Count > 0 && ires.Percentage(kc.Keyword) >= cutoff {
				ik.Keywords = append(ik.Keywords, KeywordShare{Keyword: kc.Keyword, Count: kc.Count, Percent: ires.Percentage(kc.Keyword)})
			}
		}
		view.Industries = append(view.Industries, ik)
	}
	return view
}

func (b *Builder) singleCentre(visits []record.Visit, year int, month time.Month, c record.Center) CentreView {
	w := record.Trailing(year, month, b.Options.TrailingMonths)
	rs := group.By(w.Select(visits), group.ByCenter()).Records(string(c))
	view := b.centreView(rs, c, w, 0)
	for i := b.Options.TrailingMonths - 1; i >= 0; i-- {
		y, m := record.AddMonths(year, month, -i)
		view.Monthly = append(view.Monthly, b.monthKeywords(rs, y, m, b.Options.Fields, b.Options.TopCentre))
	}
	return view
}

func (b *Builder) objectives(visits []record.Visit, year int, month time.Month) Objectives {
	return Objectives{
		Section: b.section("Customer objectives", record.Trailing(year, month, recentMonths)),
		Months:  b.lastMonths(visits, year, month, []record.Field{record.FieldObjectives}, b.Options.TopInterests),
	}
}

func (b *Builder) sentiment(visits []record.Visit, year int, month time.Month) (*Sentiment, error) {
	if b.Analyzer == nil {
		b.Analyzer = sentiment.New()
	}
	w := record.Trailing(year, month, b.Options.SentimentMonths)
	months, err := b.Analyzer.Monthly(visits, record.FieldComments, year, month, b.Options.SentimentMonths)
	if err != nil {
		return nil, err
	}
	top := b.Analyzer.Top(record.InMonth(visits, year, month), record.FieldComments, b.Options.TopComments)
	return &Sentiment{Section: b.section("Customer sentiment", w), Months: months, TopComments: top}, nil
}

// centreCounts splits visits over the named centres, in report order.
func centreCounts(visits []record.Visit) []GroupCount {
	part := group.By(visits, group.ByCenter())
	out := make([]GroupCount, 0, len(record.Centers()))
	for _, c := range record.Centers() {
		out = append(out, GroupCount{Key: string(c), Name: c.Name(), Count: len(part.Records(string(c)))})
	}
	return out
}
