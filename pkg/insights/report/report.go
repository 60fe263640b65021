// Package report assembles the monthly insights data model from visit
// records: interests, trends, industry, partner and centre breakdowns,
// objectives, sentiment and candidate keywords.
package report

import (
	"time"

	"github.com/cognicore/insights/pkg/insights/aggregate"
	"github.com/cognicore/insights/pkg/insights/discover"
	"github.com/cognicore/insights/pkg/insights/render"
	"github.com/cognicore/insights/pkg/insights/sentiment"
)

// Report is the data behind one monthly deck.
type Report struct {
	RunID       string     `json:"run_id"`
	Year        int        `json:"year"`
	Month       time.Month `json:"month"`
	GeneratedAt time.Time  `json:"generated_at"`
	Records     int        `json:"records"`
	Undated     int        `json:"undated"`

	Interests  Interests            `json:"interests"`
	Trends     Trends               `json:"trends"`
	Industries Industries           `json:"industries"`
	Partners   Partners             `json:"partners"`
	Centres    Centres              `json:"centres"`
	Objectives Objectives           `json:"objectives"`
	Sentiment  *Sentiment           `json:"sentiment,omitempty"`
	Candidates []discover.Candidate `json:"candidates"`
	Centre     *CentreView          `json:"centre,omitempty"`
}

// Section identifies one block of the report.
type Section struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Window string `json:"window"`
}

// KeywordShare is a keyword count with its share of commented rows.
type KeywordShare struct {
	Keyword string  `json:"keyword"`
	Count   int     `json:"count"`
	Percent float64 `json:"percent"`
}

// GroupCount is the size of one group of a partition.
type GroupCount struct {
	Key   string `json:"key"`
	Name  string `json:"name,omitempty"`
	Count int    `json:"count"`
}

// MonthKeywords is the keyword ranking of one month.
type MonthKeywords struct {
	Year      int              `json:"year"`
	Month     time.Month       `json:"month"`
	Window    string           `json:"window"`
	Records   int              `json:"records"`
	Commented int              `json:"commented"`
	Top       []KeywordShare   `json:"top"`
	Cloud     []render.Weight  `json:"cloud,omitempty"`
	Result    aggregate.Result `json:"-"`
}

// Interests ranks topics and actions for the last three months.
type Interests struct {
	Section
	Months []MonthKeywords `json:"months"` // oldest first
}

// Current returns the ranking of the report month.
func (i Interests) Current() MonthKeywords {
	if len(i.Months) == 0 {
		return MonthKeywords{}
	}
	return i.Months[len(i.Months)-1]
}

// Trend follows one of the month's top keywords over the window.
type Trend struct {
	Keyword  string       `json:"keyword"`
	Label    string       `json:"label"`
	Colour   string       `json:"colour,omitempty"`
	Months   []string     `json:"months"`
	Series   []float64    `json:"series"` // share of commented rows per month
	Centres  []GroupCount `json:"centres"`
	Accounts []string     `json:"accounts"` // briefings this month
}

// Trends holds the trend lines of the month's leading keywords.
type Trends struct {
	Section
	Keywords []Trend `json:"keywords"`
}

// IndustryView is the breakdown of one industry.
type IndustryView struct {
	Industry  string         `json:"industry"`
	Name      string         `json:"name,omitempty"`
	Records   int            `json:"records"`
	Commented int            `json:"commented"`
	Top       []KeywordShare `json:"top"`
	Centres   []GroupCount   `json:"centres"`
}

// Industries breaks the window down by industry.
type Industries struct {
	Section
	Volumes []GroupCount   `json:"volumes"` // largest first
	Groups  []IndustryView `json:"groups"`  // configured order
}

// RoleView is the centre split of one partner role.
type RoleView struct {
	Role    string       `json:"role"`
	Records int          `json:"records"`
	Centres []GroupCount `json:"centres"`
}

// Partners describes visits with partner involvement.
type Partners struct {
	Section
	Records       int            `json:"records"`
	Commented     int            `json:"commented"`
	Top           []KeywordShare `json:"top"`
	Roles         []RoleView     `json:"roles"`
	ChannelPlusSI []GroupCount   `json:"channel_plus_si"`
}

// IndustryKeywords lists the leading keywords of one industry.
type IndustryKeywords struct {
	Industry  string         `json:"industry"`
	Records   int            `json:"records"`
	Commented int            `json:"commented"`
	Keywords  []KeywordShare `json:"keywords"`
}

// CentreView is the trailing-window picture of one centre.
type CentreView struct {
	Centre     string             `json:"centre"`
	Name       string             `json:"name"`
	Window     string             `json:"window"`
	Records    int                `json:"records"`
	Commented  int                `json:"commented"`
	Top        []KeywordShare     `json:"top"`
	Notes      []KeywordShare     `json:"notes"`
	Volumes    []GroupCount       `json:"volumes"`
	Industries []IndustryKeywords `json:"industries"`
	Monthly    []MonthKeywords    `json:"monthly,omitempty"`
}

// Centres holds one view per named centre.
type Centres struct {
	Section
	Views []CentreView `json:"views"`
}

// Objectives ranks the objectives field for the last three months.
type Objectives struct {
	Section
	Months []MonthKeywords `json:"months"`
}

// Sentiment summarises customer comments.
type Sentiment struct {
	Section
	Months      []sentiment.MonthScore `json:"months"`
	TopComments []sentiment.Comment    `json:"top_comments"`
}

func shares(res aggregate.Result, top []aggregate.KeywordCount) []KeywordShare {
	out := make([]KeywordShare, len(top))
	for i, kc := range top {
		out[i] = KeywordShare{Keyword: kc.Keyword, Count: kc.Count, Percent: res.Percentage(kc.Keyword)}
	}
	return out
}
