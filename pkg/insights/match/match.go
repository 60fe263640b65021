// Package match finds canonical keywords as whole words in normalized text.
package match

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Matches reports whether keyword occurs in text bounded by non-word
// characters or the string edges. Word characters are letters, digits and
// underscore, so "iot" does not match inside "riot" or "iot_hub".
func Matches(text, keyword string) bool {
	if text == "" || keyword == "" {
		return false
	}
	offset := 0
	for {
		i := strings.Index(text[offset:], keyword)
		if i < 0 {
			return false
		}
		start := offset + i
		end := start + len(keyword)
		if boundaryBefore(text, start) && boundaryAfter(text, end) {
			return true
		}
		// Step one rune so overlapping candidates are still tried.
		_, size := utf8.DecodeRuneInString(text[start:])
		offset = start + size
	}
}

// Any reports whether keyword matches at least one of the texts.
func Any(texts []string, keyword string) bool {
	for _, t := range texts {
		if Matches(t, keyword) {
			return true
		}
	}
	return false
}

// Set matches a fixed keyword list against many texts.
type Set struct {
	keywords []string
}

// NewSet creates a matcher for keywords, keeping their order.
func NewSet(keywords []string) *Set {
	kws := make([]string, 0, len(keywords))
	for _, k := range keywords {
		if k != "" {
			kws = append(kws, k)
		}
	}
	return &Set{keywords: kws}
}

// Keywords returns the keywords of the set in order.
func (s *Set) Keywords() []string {
	return s.keywords
}

// Found returns, for each keyword of the set, whether it matches any text.
func (s *Set) Found(texts ...string) []bool {
	found := make([]bool, len(s.keywords))
	for _, t := range texts {
		if t == "" {
			continue
		}
		for i, k := range s.keywords {
			if !found[i] && Matches(t, k) {
				found[i] = true
			}
		}
	}
	return found
}

func boundaryBefore(text string, i int) bool {
	if i == 0 {
		return true
	}
	r, _ := utf8.DecodeLastRuneInString(text[:i])
	return !isWord(r)
}

func boundaryAfter(text string, i int) bool {
	if i >= len(text) {
		return true
	}
	r, _ := utf8.DecodeRuneInString(text[i:])
	return !isWord(r)
}

func isWord(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
