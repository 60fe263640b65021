package render

import (
	"math"

	"github.com/cognicore/insights/pkg/insights/aggregate"
)

// biggestAt is the share (in percent) at which the top word reaches the
// maximum font size.
const biggestAt = 30.0

// Weight is the sizing of one word in a word cloud.
type Weight struct {
	Keyword  string  `json:"keyword"`
	Count    int     `json:"count"`
	Percent  float64 `json:"percent"`
	FontSize float64 `json:"font_size"`
}

// CloudWeights sizes word-cloud entries. The most frequent word gets
// maxFont * percent / 30, where percent is its rounded share of commented
// rows; the rest scale linearly with their counts. Zero counts are skipped.
func CloudWeights(top []aggregate.KeywordCount, commented int, maxFont float64) []Weight {
	if len(top) == 0 || commented <= 0 {
		return nil
	}
	lead := top[0].Count
	for _, kc := range top {
		if kc.Count > lead {
			lead = kc.Count
		}
	}
	if lead <= 0 {
		return nil
	}
	leadPct := math.Round(100 * float64(lead) / float64(commented))
	biggest := math.Round(maxFont * leadPct / biggestAt)

	out := make([]Weight, 0, len(top))
	for _, kc := range top {
		if kc.Count <= 0 {
			continue
		}
		out = append(out, Weight{
			Keyword:  kc.Keyword,
			Count:    kc.Count,
			Percent:  100 * float64(kc.Count) / float64(commented),
			FontSize: biggest * float64(kc.Count) / float64(lead),
		})
	}
	return out
}
