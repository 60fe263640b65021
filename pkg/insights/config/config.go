package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cognicore/insights/pkg/insights/group"
	"github.com/cognicore/insights/pkg/insights/internalerr"
	"github.com/cognicore/insights/pkg/insights/record"
	"github.com/cognicore/insights/pkg/insights/report"
	"github.com/cognicore/insights/pkg/insights/vocab"
)

// Config is the YAML configuration of a report run.
type Config struct {
	Colours     []Colour       `yaml:"colours"`
	Keywords    []KeywordGroup `yaml:"keywords"`
	Synonyms    []Synonym      `yaml:"synonyms"`
	StopWords   []string       `yaml:"stop_words"`
	Industries  []Industry     `yaml:"industries"`
	FoldToOther *bool          `yaml:"fold_to_other"`
	Report      ReportConfig   `yaml:"report"`
}

// Colour names a display colour.
type Colour struct {
	Name string `yaml:"name"`
	Hex  string `yaml:"hex"`
}

// KeywordGroup lists the keywords drawn in one colour.
type KeywordGroup struct {
	Colour string   `yaml:"colour"`
	Terms  []string `yaml:"terms"`
}

// Synonym maps variants onto a canonical keyword.
type Synonym struct {
	Canonical string   `yaml:"canonical"`
	Variants  []string `yaml:"variants"`
}

// Industry is a configured industry code.
type Industry struct {
	Code string `yaml:"code"`
	Name string `yaml:"name"`
}

// ReportConfig overrides report defaults; zero values keep the default.
type ReportConfig struct {
	Fields          []string `yaml:"fields"`
	TrailingMonths  int      `yaml:"trailing_months"`
	CutoffPercent   float64  `yaml:"cutoff_percent"`
	TopInterests    int      `yaml:"top_interests"`
	TopTrends       int      `yaml:"top_trends"`
	TopCentre       int      `yaml:"top_centre"`
	Candidates      int      `yaml:"candidates"`
	MaxFont         float64  `yaml:"max_font"`
	Sentiment       bool     `yaml:"sentiment"`
	SentimentMonths int      `yaml:"sentiment_months"`
}

// Load reads a YAML configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse decodes YAML configuration.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", internalerr.ErrInvalidConfig, err)
	}
	return &cfg, nil
}

// VocabSpec resolves colour names and returns the vocabulary spec.
func (c *Config) VocabSpec() (vocab.Spec, error) {
	if len(c.Keywords) == 0 {
		return vocab.Spec{}, fmt.Errorf("%w: no keywords section", internalerr.ErrInvalidConfig)
	}
	hex := make(map[string]string, len(c.Colours))
	for _, col := range c.Colours {
		hex[col.Name] = col.Hex
	}

	var spec vocab.Spec
	for _, kg := range c.Keywords {
		colour := kg.Colour
		if len(hex) > 0 {
			h, ok := hex[kg.Colour]
			if !ok {
				return vocab.Spec{}, fmt.Errorf("%w: keyword colour %q is not listed in colours", internalerr.ErrInvalidConfig, kg.Colour)
			}
			colour = h
		}
		spec.Groups = append(spec.Groups, vocab.Group{Colour: colour, Keywords: kg.Terms})
	}
	for _, s := range c.Synonyms {
		spec.Synonyms = append(spec.Synonyms, vocab.SynonymGroup{Canonical: s.Canonical, Variants: s.Variants})
	}
	spec.StopWords = c.StopWords
	return spec, nil
}

// IndustryList returns the configured industries.
func (c *Config) IndustryList() []group.Industry {
	out := make([]group.Industry, 0, len(c.Industries))
	for _, ind := range c.Industries {
		out = append(out, group.Industry{Code: ind.Code, Name: ind.Name})
	}
	return out
}

// Fold reports whether Japan and China are merged into Other. Defaults to
// true.
func (c *Config) Fold() bool {
	if c.FoldToOther == nil {
		return true
	}
	return *c.FoldToOther
}

// ReportOptions applies the report section over the defaults.
func (c *Config) ReportOptions() (report.Options, error) {
	opts := report.DefaultOptions()
	r := c.Report
	if len(r.Fields) > 0 {
		opts.Fields = opts.Fields[:0:0]
		for _, name := range r.Fields {
			f, ok := record.ParseField(name)
			if !ok {
				return opts, fmt.Errorf("%w: unknown field %q", internalerr.ErrInvalidConfig, name)
			}
			opts.Fields = append(opts.Fields, f)
		}
	}
	setInt(&opts.TrailingMonths, r.TrailingMonths)
	setInt(&opts.TopInterests, r.TopInterests)
	setInt(&opts.TopTrends, r.TopTrends)
	setInt(&opts.TopCentre, r.TopCentre)
	setInt(&opts.Candidates, r.Candidates)
	setInt(&opts.SentimentMonths, r.SentimentMonths)
	if r.CutoffPercent > 0 {
		opts.CutoffPercent = r.CutoffPercent
	}
	if r.MaxFont > 0 {
		opts.MaxFont = r.MaxFont
	}
	opts.Sentiment = r.Sentiment
	return opts, opts.Validate()
}

func setInt(dst *int, v int) {
	if v > 0 {
		*dst = v
	}
}

// stripQuotes trims whitespace and one pair of surrounding quotes.
func stripQuotes(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 && (s[0] == '"' && s[len(s)-1] == '"' || s[0] == '\'' && s[len(s)-1] == '\'') {
		return s[1 : len(s)-1]
	}
	return s
}
