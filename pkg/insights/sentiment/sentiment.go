// Package sentiment scores free-text comments with VADER.
package sentiment

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/jonreiter/govader"

	"github.com/cognicore/insights/pkg/insights/internalerr"
	"github.com/cognicore/insights/pkg/insights/record"
)

// Scores are VADER polarity scores.
type Scores struct {
	Neg      float64 `json:"neg"`
	Neu      float64 `json:"neu"`
	Pos      float64 `json:"pos"`
	Compound float64 `json:"compound"`
}

// MonthScore is the average sentiment of one month.
type MonthScore struct {
	Year  int        `json:"year"`
	Month time.Month `json:"month"`
	N     int        `json:"n"`
	Avg   Scores     `json:"avg"`
}

// Comment is a scored comment.
type Comment struct {
	Text     string  `json:"text"`
	Account  string  `json:"account,omitempty"`
	Compound float64 `json:"compound"`
}

// Analyzer scores text.
type Analyzer struct {
	vader *govader.SentimentIntensityAnalyzer
}

// New creates an analyzer with the bundled VADER lexicon.
func New() *Analyzer {
	return &Analyzer{vader: govader.NewSentimentIntensityAnalyzer()}
}

// Score returns the polarity scores of text.
func (a *Analyzer) Score(text string) Scores {
	s := a.vader.PolarityScores(text)
	return Scores{Neg: s.Negative, Neu: s.Neutral, Pos: s.Positive, Compound: s.Compound}
}

// Monthly averages the scores of field over the count months ending with
// (year, month), oldest month first. Months without text report N = 0.
func (a *Analyzer) Monthly(visits []record.Visit, field record.Field, year int, month time.Month, count int) ([]MonthScore, error) {
	if count < 1 || count > 12 {
		return nil, fmt.Errorf("%w: sentiment window must be 1..12 months, got %d", internalerr.ErrInvalidInput, count)
	}
	out := make([]MonthScore, 0, count)
	for i := count - 1; i >= 0; i-- {
		y, m := record.AddMonths(year, month, -i)
		ms := MonthScore{Year: y, Month: m}
		var total Scores
		for _, v := range record.InMonth(visits, y, m) {
			text, ok := v.TextOf(field)
			if !ok || strings.TrimSpace(text) == "" {
				continue
			}
			s := a.Score(text)
			total.Neg += s.Neg
			total.Neu += s.Neu
			total.Pos += s.Pos
			total.Compound += s.Compound
			ms.N++
		}
		if ms.N > 0 {
			n := float64(ms.N)
			ms.Avg = Scores{
				Neg:      round3(total.Neg / n),
				Neu:      round3(total.Neu / n),
				Pos:      round3(total.Pos / n),
				Compound: round3(total.Compound / n),
			}
		}
		out = append(out, ms)
	}
	return out, nil
}

// Top returns the n most positive comments of field, highest compound
// first; equal scores keep input order.
func (a *Analyzer) Top(visits []record.Visit, field record.Field, n int) []Comment {
	if n <= 0 {
		return nil
	}
	var all []Comment
	for _, v := range visits {
		text, ok := v.TextOf(field)
		if !ok || strings.TrimSpace(text) == "" {
			continue
		}
		all = append(all, Comment{Text: text, Account: v.Account, Compound: a.Score(text).Compound})
	}
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].Compound > all[j].Compound
	})
	if len(all) > n {
		all = all[:n]
	}
	return all
}

func round3(f float64) float64 {
	return math.Round(f*1000) / 1000
}
