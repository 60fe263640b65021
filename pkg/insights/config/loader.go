package config

import (
	"fmt"

	"github.com/cognicore/insights/pkg/insights/group"
	"github.com/cognicore/insights/pkg/insights/internalerr"
	"github.com/cognicore/insights/pkg/insights/report"
	"github.com/cognicore/insights/pkg/insights/vocab"
)

// Loader loads configuration files and constructs components
type Loader struct {
	YAMLPath string
	INIPath  string
}

// Components holds all loaded configuration components
type Components struct {
	Vocabulary  *vocab.Vocabulary
	Industries  []group.Industry
	FoldToOther bool
	Report      report.Options
}

// Load reads the configuration and returns initialized components. The
// YAML file wins when both paths are set.
func (l *Loader) Load() (*Components, error) {
	var (
		cfg *Config
		err error
	)
	switch {
	case l.YAMLPath != "":
		cfg, err = Load(l.YAMLPath)
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
	case l.INIPath != "":
		cfg, err = LoadINI(l.INIPath)
		if err != nil {
			return nil, fmt.Errorf("load ini: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: no configuration file given", internalerr.ErrInvalidConfig)
	}
	return cfg.Components()
}

// Components builds the run components from a parsed configuration.
func (c *Config) Components() (*Components, error) {
	spec, err := c.VocabSpec()
	if err != nil {
		return nil, err
	}
	v, err := vocab.New(spec)
	if err != nil {
		return nil, fmt.Errorf("build vocabulary: %w", err)
	}
	opts, err := c.ReportOptions()
	if err != nil {
		return nil, fmt.Errorf("report options: %w", err)
	}
	return &Components{
		Vocabulary:  v,
		Industries:  c.IndustryList(),
		FoldToOther: c.Fold(),
		Report:      opts,
	}, nil
}
