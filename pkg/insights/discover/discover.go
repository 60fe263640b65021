// Package discover surfaces frequent words that are not yet in the
// vocabulary, as candidates for new keywords.
package discover

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/cognicore/insights/pkg/insights/normalize"
	"github.com/cognicore/insights/pkg/insights/record"
	"github.com/cognicore/insights/pkg/insights/vocab"
)

// Candidate is a frequent token outside the vocabulary.
type Candidate struct {
	Token string
	Count int
}

// Candidates counts every token occurrence in fields of visits and returns
// the n most frequent tokens that are neither stop words nor keywords.
// Single-character and purely numeric tokens are skipped. Ties are broken
// alphabetically.
func Candidates(visits []record.Visit, fields []record.Field, v *vocab.Vocabulary, n int) []Candidate {
	if n <= 0 {
		return nil
	}
	norm := normalize.New(v)
	counts := make(map[string]int)
	for _, r := range visits {
		for _, f := range fields {
			raw, ok := r.TextOf(f)
			if !ok {
				continue
			}
			for _, tok := range strings.Fields(norm.Normalize(raw)) {
				if skip(tok, v) {
					continue
				}
				counts[tok]++
			}
		}
	}

	out := make([]Candidate, 0, len(counts))
	for tok, c := range counts {
		out = append(out, Candidate{Token: tok, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Token < out[j].Token
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}

func skip(tok string, v *vocab.Vocabulary) bool {
	if utf8.RuneCountInString(tok) < 2 {
		return true
	}
	if v.IsStop(tok) || v.Has(tok) {
		return true
	}
	return strings.IndexFunc(tok, func(r rune) bool { return !unicode.IsDigit(r) }) < 0
}
