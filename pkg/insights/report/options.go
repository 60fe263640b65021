package report

import (
	"fmt"

	"github.com/cognicore/insights/pkg/insights/internalerr"
	"github.com/cognicore/insights/pkg/insights/record"
)

// Options tunes a report run.
type Options struct {
	Fields          []record.Field // fields searched for interests
	TrailingMonths  int            // width of the centre window
	CutoffPercent   float64        // minimum share listed per centre industry
	TopInterests    int
	TopTrends       int
	TopSegment      int // keywords listed per industry and for partners
	TopCentre       int
	TopCentreNotes  int
	TopIndustries   int // industries listed per centre
	Candidates      int
	MaxFont         float64
	Sentiment       bool
	SentimentMonths int
	TopComments     int
	Centre          record.Center // optional single-centre view
}

// DefaultOptions returns the settings the monthly deck is built with.
func DefaultOptions() Options {
	return Options{
		Fields:          []record.Field{record.FieldTopics, record.FieldActions},
		TrailingMonths:  6,
		CutoffPercent:   20,
		TopInterests:    10,
		TopTrends:       3,
		TopSegment:      3,
		TopCentre:       5,
		TopCentreNotes:  8,
		TopIndustries:   3,
		Candidates:      40,
		MaxFont:         196,
		SentimentMonths: 6,
		TopComments:     4,
	}
}

// Validate checks that the options can drive a run.
func (o Options) Validate() error {
	if len(o.Fields) == 0 {
		return fmt.Errorf("%w: no fields to search", internalerr.ErrInvalidConfig)
	}
	if o.TrailingMonths < 1 {
		return fmt.Errorf("%w: trailing months must be positive, got %d", internalerr.ErrInvalidConfig, o.TrailingMonths)
	}
	if o.CutoffPercent < 0 || o.CutoffPercent > 100 {
		return fmt.Errorf("%w: cutoff percent %.1f out of range", internalerr.ErrInvalidConfig, o.CutoffPercent)
	}
	if o.Sentiment && (o.SentimentMonths < 1 || o.SentimentMonths > 12) {
		return fmt.Errorf("%w: sentiment months must be within 1..12, got %d", internalerr.ErrInvalidConfig, o.SentimentMonths)
	}
	return nil
}
