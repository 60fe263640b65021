package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/cognicore/insights/internal/sheet"
	"github.com/cognicore/insights/pkg/insights/aggregate"
	"github.com/cognicore/insights/pkg/insights/config"
	"github.com/cognicore/insights/pkg/insights/normalize"
	"github.com/cognicore/insights/pkg/insights/record"
)

const usageMonths = 6

func main() {
	prevYear, prevMonth := record.AddMonths(time.Now().Year(), time.Now().Month(), -1)
	var (
		word      = flag.String("word", "", "Keyword to count (required)")
		input     = flag.String("input", "", "Visit export, .xlsx or .csv (required)")
		yamlCfg   = flag.String("config", "", "YAML configuration")
		iniCfg    = flag.String("ini", "", "Legacy INI configuration, used when -config is empty")
		year      = flag.Int("year", prevYear, "Last month's year")
		month     = flag.Int("month", int(prevMonth), "Last month (1-12)")
		headerRow = flag.Int("header-row", 1, "Row holding the column names")
	)
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	if *word == "" || *input == "" {
		logger.Error("--word and --input required")
		os.Exit(1)
	}
	if *month < 1 || *month > 12 {
		logger.Error("month out of range", "month", *month)
		os.Exit(1)
	}

	loader := config.Loader{YAMLPath: *yamlCfg, INIPath: *iniCfg}
	components, err := loader.Load()
	if err != nil {
		logger.Error("load config", "err", err)
		os.Exit(1)
	}
	keyword := normalize.New(components.Vocabulary).Normalize(*word)
	if !components.Vocabulary.Has(keyword) {
		logger.Warn("word is not a configured keyword, counting it anyway", "word", keyword)
	}

	visits, _, err := sheet.Load(context.Background(), *input, sheet.Options{HeaderRow: *headerRow, Logger: logger})
	if err != nil {
		logger.Error("load visits", "err", err)
		os.Exit(1)
	}

	engine := aggregate.New(components.Vocabulary)
	fields := components.Report.Fields
	fmt.Printf("%s, share of commented visits\n", keyword)
	for i := usageMonths - 1; i >= 0; i-- {
		y, m := record.AddMonths(*year, time.Month(*month), -i)
		in := record.InMonth(visits, y, m)
		res := engine.Aggregate(in, fields...)
		n := len(engine.Matching(in, keyword, fields...))
		pct := 0.0
		if res.TotalCommented > 0 {
			pct = 100 * float64(n) / float64(res.TotalCommented)
		}
		fmt.Printf("%04d-%02d  %5.1f%%  (%d of %d)\n", y, int(m), pct, n, res.TotalCommented)
	}
}
