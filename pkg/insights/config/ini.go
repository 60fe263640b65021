package config

import (
	"encoding/json"
	"fmt"

	"gopkg.in/ini.v1"

	"github.com/cognicore/insights/pkg/insights/internalerr"
)

// Legacy INI section and key names.
const (
	iniColours    = "colours"
	iniKeywords   = "keywords"
	iniSynonyms   = "synonyms"
	iniIndustries = "industries"
	iniStopwords  = "stopwords"
	iniStopKey    = "stop_words"
	iniFoldKey    = "JapanAndChinaToOther"
)

// LoadINI reads the legacy INI layout:
//
//	[colours]    name = #hex
//	[keywords]   colour name = ["term", ...]
//	[synonyms]   canonical = ["variant", ...]
//	[industries] code = long name, plus JapanAndChinaToOther = bool
//	[stopwords]  stop_words = ["word", ...]
//
// List values are JSON arrays. Key case is preserved.
func LoadINI(path string) (*Config, error) {
	f, err := ini.LoadSources(ini.LoadOptions{IgnoreInlineComment: true}, path)
	if err != nil {
		return nil, err
	}
	return fromINI(f)
}

func fromINI(f *ini.File) (*Config, error) {
	cfg := &Config{}

	if !f.HasSection(iniKeywords) {
		return nil, fmt.Errorf("%w: no [%s] section", internalerr.ErrInvalidConfig, iniKeywords)
	}

	if f.HasSection(iniColours) {
		for _, k := range f.Section(iniColours).Keys() {
			cfg.Colours = append(cfg.Colours, Colour{Name: k.Name(), Hex: stripQuotes(k.String())})
		}
	}

	for _, k := range f.Section(iniKeywords).Keys() {
		terms, err := jsonList(iniKeywords, k)
		if err != nil {
			return nil, err
		}
		cfg.Keywords = append(cfg.Keywords, KeywordGroup{Colour: k.Name(), Terms: terms})
	}

	if f.HasSection(iniSynonyms) {
		for _, k := range f.Section(iniSynonyms).Keys() {
			variants, err := jsonList(iniSynonyms, k)
			if err != nil {
				return nil, err
			}
			cfg.Synonyms = append(cfg.Synonyms, Synonym{Canonical: k.Name(), Variants: variants})
		}
	}

	if f.HasSection(iniIndustries) {
		sec := f.Section(iniIndustries)
		for _, k := range sec.Keys() {
			if k.Name() == iniFoldKey {
				fold, err := k.Bool()
				if err != nil {
					return nil, fmt.Errorf("%w: [%s] %s is not boolean", internalerr.ErrInvalidConfig, iniIndustries, iniFoldKey)
				}
				cfg.FoldToOther = &fold
				continue
			}
			cfg.Industries = append(cfg.Industries, Industry{Code: k.Name(), Name: stripQuotes(k.String())})
		}
	}

	if f.HasSection(iniStopwords) {
		if k, err := f.Section(iniStopwords).GetKey(iniStopKey); err == nil {
			words, err := jsonList(iniStopwords, k)
			if err != nil {
				return nil, err
			}
			cfg.StopWords = words
		}
	}
	return cfg, nil
}

func jsonList(section string, k *ini.Key) ([]string, error) {
	var out []string
	if err := json.Unmarshal([]byte(k.String()), &out); err != nil {
		return nil, fmt.Errorf("%w: [%s] %s is not a JSON list: %v", internalerr.ErrInvalidConfig, section, k.Name(), err)
	}
	return out, nil
}
