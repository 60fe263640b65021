package vocab

import (
	"fmt"
	"sort"
	"strings"

	"github.com/cognicore/insights/pkg/insights/internalerr"
	"github.com/cognicore/insights/pkg/insights/normalize"
)

// foldSlack is added to the text length to bound the fixed-point iteration
// of synonym folding. A changing pass of shrinking rules removes at least
// one byte, so len(text) passes settle them; the slack covers rules that
// keep or grow the length.
const foldSlack = 8

// Vocabulary stores the curated keyword set for one report run:
//   - Keywords: canonical terms counts are reported against (ordered)
//   - Synonyms: variant or misspelling -> canonical keyword
//   - Stop words: ignored by candidate discovery
//   - Colours: keyword -> colour group, used when rendering
//
// A Vocabulary is immutable once built; New is the only constructor.
type Vocabulary struct {
	keywords []string
	index    map[string]int
	labels   map[string]string
	colours  map[string]string

	variants []Synonym
	reverse  map[string]string
	replacer *strings.Replacer

	stops map[string]struct{}
}

// Synonym maps one variant spelling onto a canonical keyword.
type Synonym struct {
	Variant   string
	Canonical string
}

// Spec is the raw material for a Vocabulary, usually produced by the
// config loader.
type Spec struct {
	Groups    []Group
	Synonyms  []SynonymGroup
	StopWords []string
}

// Group is an ordered list of keywords that share a display colour.
type Group struct {
	Colour   string
	Keywords []string
}

// SynonymGroup lists the variants of a single canonical keyword.
type SynonymGroup struct {
	Canonical string
	Variants  []string
}

// New validates the spec and builds an immutable vocabulary.
//
// Keywords and variants are cleaned with normalize.Clean so they compare
// equal to cleaned cell text. Folding order: longest variant first, ties in
// declaration order, with every canonical keyword guarded by an identity
// rule so it is never re-expanded.
func New(spec Spec) (*Vocabulary, error) {
	v := &Vocabulary{
		index:   make(map[string]int),
		labels:  make(map[string]string),
		colours: make(map[string]string),
		reverse: make(map[string]string),
		stops:   make(map[string]struct{}),
	}

	for _, g := range spec.Groups {
		for _, raw := range g.Keywords {
			kw := normalize.Clean(raw)
			if kw == "" {
				return nil, fmt.Errorf("%w: empty keyword %q in group %q", internalerr.ErrInvalidConfig, raw, g.Colour)
			}
			if _, dup := v.index[kw]; dup {
				return nil, fmt.Errorf("%w: duplicate keyword %q", internalerr.ErrInvalidConfig, kw)
			}
			v.index[kw] = len(v.keywords)
			v.keywords = append(v.keywords, kw)
			v.labels[kw] = strings.TrimSpace(raw)
			if g.Colour != "" {
				v.colours[kw] = g.Colour
			}
		}
	}
	if len(v.keywords) == 0 {
		return nil, fmt.Errorf("%w: vocabulary has no keywords", internalerr.ErrInvalidConfig)
	}

	for _, sg := range spec.Synonyms {
		canonical := normalize.Clean(sg.Canonical)
		if canonical == "" {
			return nil, fmt.Errorf("%w: synonym group with empty canonical %q", internalerr.ErrInvalidConfig, sg.Canonical)
		}
		for _, raw := range sg.Variants {
			variant := normalize.Clean(raw)
			if variant == "" {
				return nil, fmt.Errorf("%w: empty variant for %q", internalerr.ErrInvalidConfig, canonical)
			}
			if variant == canonical {
				continue
			}
			if _, isKeyword := v.index[variant]; isKeyword {
				return nil, fmt.Errorf("%w: keyword %q is also listed as a variant of %q", internalerr.ErrInvalidConfig, variant, canonical)
			}
			if prev, ok := v.reverse[variant]; ok {
				if prev != canonical {
					return nil, fmt.Errorf("%w: variant %q maps to both %q and %q", internalerr.ErrInvalidConfig, variant, prev, canonical)
				}
				continue
			}
			v.reverse[variant] = canonical
			v.variants = append(v.variants, Synonym{Variant: variant, Canonical: canonical})
		}
	}

	for _, w := range spec.StopWords {
		if w = normalize.Clean(w); w != "" {
			v.stops[w] = struct{}{}
		}
	}

	v.replacer = buildReplacer(v.variants, v.keywords)
	for _, syn := range v.variants {
		if _, ok := v.fold(syn.Variant); !ok {
			return nil, fmt.Errorf("%w: synonym %q -> %q does not settle", internalerr.ErrInvalidConfig, syn.Variant, syn.Canonical)
		}
	}
	return v, nil
}

// buildReplacer orders patterns longest first. strings.Replacer compares
// patterns in argument order at each position, so the longest candidate
// wins and canonical keywords are consumed whole by their identity rule.
func buildReplacer(variants []Synonym, keywords []string) *strings.Replacer {
	type rule struct {
		old, new string
		seq      int
	}
	rules := make([]rule, 0, len(variants)+len(keywords))
	for i, s := range variants {
		rules = append(rules, rule{old: s.Variant, new: s.Canonical, seq: i})
	}
	canonicals := make(map[string]struct{}, len(keywords)+len(variants))
	for _, k := range keywords {
		canonicals[k] = struct{}{}
	}
	for _, s := range variants {
		canonicals[s.Canonical] = struct{}{}
	}
	seq := len(variants)
	for c := range canonicals {
		rules = append(rules, rule{old: c, new: c, seq: seq})
	}
	sort.SliceStable(rules, func(i, j int) bool {
		if len(rules[i].old) != len(rules[j].old) {
			return len(rules[i].old) > len(rules[j].old)
		}
		if rules[i].seq != rules[j].seq {
			return rules[i].seq < rules[j].seq
		}
		return rules[i].old < rules[j].old
	})

	pairs := make([]string, 0, 2*len(rules))
	for _, r := range rules {
		pairs = append(pairs, r.old, r.new)
	}
	return strings.NewReplacer(pairs...)
}

// Fold replaces every variant in cleaned text by its canonical keyword.
func (v *Vocabulary) Fold(cleaned string) string {
	out, _ := v.fold(cleaned)
	return out
}

func (v *Vocabulary) fold(text string) (string, bool) {
	if len(v.variants) == 0 || text == "" {
		return text, true
	}
	for i, limit := 0, len(text)+foldSlack; i < limit; i++ {
		next := v.replacer.Replace(text)
		if next == text {
			return text, true
		}
		text = next
	}
	return text, false
}

// Keywords returns the canonical keywords in configured order.
func (v *Vocabulary) Keywords() []string {
	out := make([]string, len(v.keywords))
	copy(out, v.keywords)
	return out
}

// Index returns the position of a keyword, or -1 if unknown.
func (v *Vocabulary) Index(keyword string) int {
	if i, ok := v.index[keyword]; ok {
		return i
	}
	return -1
}

// Has reports whether keyword is canonical.
func (v *Vocabulary) Has(keyword string) bool {
	_, ok := v.index[keyword]
	return ok
}

// Canonical returns the canonical keyword for a variant, or the input
// itself when it is not a known variant.
func (v *Vocabulary) Canonical(term string) string {
	term = normalize.Clean(term)
	if c, ok := v.reverse[term]; ok {
		return c
	}
	return term
}

// Synonyms returns the variant table in declaration order.
func (v *Vocabulary) Synonyms() []Synonym {
	out := make([]Synonym, len(v.variants))
	copy(out, v.variants)
	return out
}

// Label returns the configured spelling of a keyword.
func (v *Vocabulary) Label(keyword string) string {
	if l, ok := v.labels[keyword]; ok {
		return l
	}
	return keyword
}

// Colour returns the colour group of a keyword ("" when ungrouped).
func (v *Vocabulary) Colour(keyword string) string {
	return v.colours[keyword]
}

// ColourGroups returns colour -> keywords, preserving keyword order.
func (v *Vocabulary) ColourGroups() map[string][]string {
	out := make(map[string][]string)
	for _, k := range v.keywords {
		if c, ok := v.colours[k]; ok {
			out[c] = append(out[c], k)
		}
	}
	return out
}

// IsStop reports whether token is a configured stop word.
func (v *Vocabulary) IsStop(token string) bool {
	_, ok := v.stops[token]
	return ok
}

// Stats returns statistics about the vocabulary contents.
func (v *Vocabulary) Stats() Stats {
	return Stats{
		Keywords:  len(v.keywords),
		Variants:  len(v.variants),
		StopWords: len(v.stops),
		Colours:   len(v.ColourGroups()),
	}
}

// Stats holds statistics about vocabulary contents.
type Stats struct {
	Keywords  int
	Variants  int
	StopWords int
	Colours   int
}
