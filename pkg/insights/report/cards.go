package report

import (
	"fmt"
	"strings"
)

// Card is a plain-text summary of one section, the kind of note a
// presenter reads next to the chart.
type Card struct {
	ID      string
	Title   string
	Bullets []string
}

// Cards summarises every section of r that has content.
func Cards(r *Report) []Card {
	var cards []Card

	cur := r.Interests.Current()
	c := Card{ID: r.Interests.ID, Title: r.Interests.Title}
	c.Bullets = append(c.Bullets, fmt.Sprintf("Found %d rows with comments in %s.", cur.Commented, cur.Month))
	for _, ks := range cur.Top {
		c.Bullets = append(c.Bullets, shareLine(ks))
	}
	cards = append(cards, c)

	c = Card{ID: r.Trends.ID, Title: r.Trends.Title + " " + r.Trends.Window}
	for _, t := range r.Trends.Keywords {
		parts := make([]string, len(t.Series))
		for i, v := range t.Series {
			parts[i] = fmt.Sprintf("%s %.0f%%", t.Months[i], 100*v)
		}
		line := fmt.Sprintf("%s: %s", t.Label, strings.Join(parts, ", "))
		if len(t.Accounts) > 0 {
			line += fmt.Sprintf(" (briefings: %s)", strings.Join(t.Accounts, ", "))
		}
		c.Bullets = append(c.Bullets, line)
	}
	cards = append(cards, c)

	c = Card{ID: r.Industries.ID, Title: r.Industries.Title + " " + r.Industries.Window}
	for _, g := range r.Industries.Groups {
		if g.Records == 0 {
			continue
		}
		c.Bullets = append(c.Bullets, fmt.Sprintf("%s (%d visits): %s", g.Industry, g.Records, keywordList(g.Top)))
	}
	cards = append(cards, c)

	c = Card{ID: r.Partners.ID, Title: r.Partners.Title + " " + r.Partners.Window}
	c.Bullets = append(c.Bullets, fmt.Sprintf("%d partner visits, %d with comments.", r.Partners.Records, r.Partners.Commented))
	for _, ks := range r.Partners.Top {
		c.Bullets = append(c.Bullets, shareLine(ks))
	}
	cards = append(cards, c)

	c = Card{ID: r.Centres.ID, Title: "Counts by centre " + r.Centres.Window}
	for _, v := range r.Centres.Views {
		c.Bullets = append(c.Bullets, fmt.Sprintf("For %s, top items were: %s", v.Centre, countList(v.Notes)))
	}
	cards = append(cards, c)

	if r.Sentiment != nil {
		c = Card{ID: r.Sentiment.ID, Title: r.Sentiment.Title + " " + r.Sentiment.Window}
		for _, m := range r.Sentiment.Months {
			c.Bullets = append(c.Bullets, fmt.Sprintf("%s %d: %.3f (n=%d)", m.Month, m.Year, m.Avg.Compound, m.N))
		}
		for _, cm := range r.Sentiment.TopComments {
			c.Bullets = append(c.Bullets, fmt.Sprintf("%.3f %q", cm.Compound, cm.Text))
		}
		cards = append(cards, c)
	}

	if r.Centre != nil {
		c = Card{ID: r.RunID, Title: fmt.Sprintf("%s six month view %s", r.Centre.Centre, r.Centre.Window)}
		c.Bullets = append(c.Bullets, "Top interests: "+keywordList(r.Centre.Top))
		for _, ik := range r.Centre.Industries {
			c.Bullets = append(c.Bullets, fmt.Sprintf("%s: %s", ik.Industry, keywordList(ik.Keywords)))
		}
		cards = append(cards, c)
	}
	return cards
}

func shareLine(ks KeywordShare) string {
	return fmt.Sprintf("%s - %d (%.0f%%)", ks.Keyword, ks.Count, ks.Percent)
}

func keywordList(ks []KeywordShare) string {
	if len(ks) == 0 {
		return "-"
	}
	parts := make([]string, len(ks))
	for i, k := range ks {
		parts[i] = fmt.Sprintf("%s %.0f%%", k.Keyword, k.Percent)
	}
	return strings.Join(parts, ", ")
}

func countList(ks []KeywordShare) string {
	if len(ks) == 0 {
		return "-"
	}
	parts := make([]string, len(ks))
	for i, k := range ks {
		parts[i] = fmt.Sprintf("%s=%d", k.Keyword, k.Count)
	}
	return strings.Join(parts, ", ")
}
