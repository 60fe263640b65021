package normalize

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Folder rewrites cleaned text so that every known variant is replaced by
// its canonical keyword. *vocab.Vocabulary satisfies it.
type Folder interface {
	Fold(cleaned string) string
}

// Normalizer turns raw free-text cells into canonical text.
type Normalizer struct {
	folder Folder
}

// New creates a normalizer that folds synonyms with f.
// A nil folder only cleans the text.
func New(f Folder) *Normalizer {
	return &Normalizer{folder: f}
}

// Normalize cleans raw text and folds synonyms onto canonical keywords.
// Normalizing already-normalized text returns it unchanged.
func (n *Normalizer) Normalize(raw string) string {
	cleaned := Clean(raw)
	if cleaned == "" || n == nil || n.folder == nil {
		return cleaned
	}
	return n.folder.Fold(cleaned)
}

// NormalizeValue accepts an arbitrary cell value. Anything that is not a
// string (including nil) normalizes to the empty string.
func (n *Normalizer) NormalizeValue(v any) string {
	switch s := v.(type) {
	case string:
		return n.Normalize(s)
	case *string:
		if s == nil {
			return ""
		}
		return n.Normalize(*s)
	default:
		return ""
	}
}

// Clean applies the folding-independent steps: NFKC, lower-casing,
// punctuation to spaces and whitespace collapsing.
func Clean(raw string) string {
	if raw == "" {
		return ""
	}
	text := strings.ToLower(norm.NFKC.String(raw))
	text = strings.Map(func(r rune) rune {
		if isSeparator(r) {
			return ' '
		}
		return r
	}, text)
	return strings.Join(strings.Fields(text), " ")
}

// isSeparator reports the punctuation that the report has always treated
// as a word break.
func isSeparator(r rune) bool {
	switch r {
	case '\n', '\r', '&', '@', ',', '.', ':', '-':
		return true
	}
	return false
}
