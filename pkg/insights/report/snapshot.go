package report

import (
	"context"
	"fmt"

	"github.com/cognicore/insights/pkg/insights/store"
)

// Scopes under which counts are stored.
const (
	ScopeMonth      = "month"
	ScopeObjectives = "objectives"
	ScopePartners   = "partners"
)

// IndustryScope is the scope of an industry's counts.
func IndustryScope(code string) string { return "industry:" + code }

// CentreScope is the scope of a centre's counts.
func CentreScope(code string) string { return "centre:" + code }

// Period returns the "2006-01" label of the report month.
func (r *Report) Period() string {
	return fmt.Sprintf("%04d-%02d", r.Year, int(r.Month))
}

// Snapshot flattens r into storable counts. Monthly rankings keep every
// vocabulary keyword, zero counts included; segment tables keep only
// their listed keywords.
func Snapshot(r *Report) []store.Count {
	var out []store.Count
	months := func(scope string, mks []MonthKeywords) {
		for _, mk := range mks {
			for _, k := range mk.Result.Keywords() {
				out = append(out, store.Count{
					Scope:     scope,
					Window:    mk.Window,
					Keyword:   k,
					Count:     mk.Result.Count(k),
					Commented: mk.Commented,
				})
			}
		}
	}
	listed := func(scope, window string, commented int, ks []KeywordShare) {
		for _, k := range ks {
			out = append(out, store.Count{Scope: scope, Window: window, Keyword: k.Keyword, Count: k.Count, Commented: commented})
		}
	}

	months(ScopeMonth, r.Interests.Months)
	months(ScopeObjectives, r.Objectives.Months)
	for _, g := range r.Industries.Groups {
		listed(IndustryScope(g.Industry), r.Industries.Window, g.Commented, g.Top)
	}
	listed(ScopePartners, r.Partners.Window, r.Partners.Commented, r.Partners.Top)
	for _, v := range r.Centres.Views {
		listed(CentreScope(v.Centre), v.Window, v.Commented, v.Notes)
	}
	return out
}

// Save records the run, its counts and its summary cards.
func Save(ctx context.Context, st store.Store, r *Report, input string) error {
	run := store.Run{
		ID:          r.RunID,
		Period:      r.Period(),
		Input:       input,
		GeneratedAt: r.GeneratedAt,
		Records:     r.Records,
		Undated:     r.Undated,
	}
	if err := st.SaveRun(ctx, run); err != nil {
		return fmt.Errorf("save run: %w", err)
	}
	if err := st.SaveCounts(ctx, r.RunID, Snapshot(r)); err != nil {
		return fmt.Errorf("save counts: %w", err)
	}
	for _, c := range Cards(r) {
		sc := store.Card{ID: c.ID, RunID: r.RunID, Title: c.Title, Bullets: c.Bullets, Period: run.Period}
		if err := st.UpsertCard(ctx, sc); err != nil {
			return fmt.Errorf("save card %s: %w", c.ID, err)
		}
	}
	return nil
}
