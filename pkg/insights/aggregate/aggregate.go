// Package aggregate counts canonical keyword mentions over a set of visit
// records.
package aggregate

import (
	"sort"

	"github.com/cognicore/insights/pkg/insights/match"
	"github.com/cognicore/insights/pkg/insights/normalize"
	"github.com/cognicore/insights/pkg/insights/record"
	"github.com/cognicore/insights/pkg/insights/vocab"
)

// Query selects what to aggregate: which records, which free-text fields
// to search, and the vocabulary to count against.
type Query struct {
	Records    []record.Visit
	Fields     []record.Field
	Vocabulary *vocab.Vocabulary
}

// KeywordCount is one row of a ranking.
type KeywordCount struct {
	Keyword string
	Count   int
}

// Result holds keyword counts for one query.
//
// Counts[k] is the number of records mentioning k in at least one searched
// field, so 0 <= Counts[k] <= TotalCommented always holds.
type Result struct {
	Counts         map[string]int
	TotalCommented int // records with a value in at least one searched field
	Records        int // records examined

	order []string
}

// Engine aggregates against a fixed vocabulary.
type Engine struct {
	vocab *vocab.Vocabulary
	norm  *normalize.Normalizer
	set   *match.Set
}

// New creates an engine for v.
func New(v *vocab.Vocabulary) *Engine {
	return &Engine{
		vocab: v,
		norm:  normalize.New(v),
		set:   match.NewSet(v.Keywords()),
	}
}

// Run aggregates a query with a one-off engine.
func Run(q Query) Result {
	return New(q.Vocabulary).Aggregate(q.Records, q.Fields...)
}

// Aggregate counts every vocabulary keyword over records, searching fields.
func (e *Engine) Aggregate(records []record.Visit, fields ...record.Field) Result {
	keywords := e.set.Keywords()
	res := Result{
		Counts:  make(map[string]int, len(keywords)),
		Records: len(records),
		order:   keywords,
	}
	for _, k := range keywords {
		res.Counts[k] = 0
	}

	texts := make([]string, 0, len(fields))
	for _, r := range records {
		texts = e.texts(r, fields, texts[:0])
		if len(texts) == 0 {
			continue
		}
		res.TotalCommented++
		for i, found := range e.set.Found(texts...) {
			if found {
				res.Counts[keywords[i]]++
			}
		}
	}
	return res
}

// Matching returns the records that mention keyword in any of fields.
func (e *Engine) Matching(records []record.Visit, keyword string, fields ...record.Field) []record.Visit {
	var out []record.Visit
	texts := make([]string, 0, len(fields))
	for _, r := range records {
		texts = e.texts(r, fields, texts[:0])
		if match.Any(texts, keyword) {
			out = append(out, r)
		}
	}
	return out
}

// texts appends the normalized values of the non-null fields of r.
func (e *Engine) texts(r record.Visit, fields []record.Field, dst []string) []string {
	for _, f := range fields {
		raw, ok := r.TextOf(f)
		if !ok {
			continue
		}
		dst = append(dst, e.norm.Normalize(raw))
	}
	return dst
}

// Matching returns the records of q that mention keyword.
func Matching(q Query, keyword string) []record.Visit {
	return New(q.Vocabulary).Matching(q.Records, keyword, q.Fields...)
}

// Count returns the count for keyword; unknown keywords count zero.
func (r Result) Count(keyword string) int {
	return r.Counts[keyword]
}

// Share returns Count(keyword) / TotalCommented, or 0 when no row was
// commented.
func (r Result) Share(keyword string) float64 {
	if r.TotalCommented == 0 {
		return 0
	}
	return float64(r.Counts[keyword]) / float64(r.TotalCommented)
}

// Percentage is Share scaled to 0..100, the unit the report prints. Use
// Share for the plain counts/commented fraction.
func (r Result) Percentage(keyword string) float64 {
	return 100 * r.Share(keyword)
}

// TopN returns the n most mentioned keywords. Ties keep vocabulary order;
// keywords with no mentions rank last with a zero count.
func (r Result) TopN(n int) []KeywordCount {
	if n <= 0 {
		return nil
	}
	ranked := make([]KeywordCount, 0, len(r.order))
	for _, k := range r.order {
		ranked = append(ranked, KeywordCount{Keyword: k, Count: r.Counts[k]})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Count > ranked[j].Count
	})
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// Above returns the keywords whose percentage is at least cutoff, in TopN
// order.
func (r Result) Above(cutoff float64) []KeywordCount {
	var out []KeywordCount
	for _, kc := range r.TopN(len(r.order)) {
		if r.Percentage(kc.Keyword) >= cutoff {
			out = append(out, kc)
		}
	}
	return out
}

// Keywords returns the keyword order used for tie-breaking.
func (r Result) Keywords() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Series returns the percentage of keyword in each result, in order.
func Series(results []Result, keyword string) []float64 {
	out := make([]float64, len(results))
	for i, r := range results {
		out[i] = r.Percentage(keyword)
	}
	return out
}
