package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/cognicore/insights/internal/sheet"
	"github.com/cognicore/insights/pkg/insights/config"
	"github.com/cognicore/insights/pkg/insights/internalerr"
	"github.com/cognicore/insights/pkg/insights/metrics"
	"github.com/cognicore/insights/pkg/insights/record"
	"github.com/cognicore/insights/pkg/insights/render"
	"github.com/cognicore/insights/pkg/insights/report"
	"github.com/cognicore/insights/pkg/insights/store/sqlite"
)

func main() {
	prevYear, prevMonth := record.AddMonths(time.Now().Year(), time.Now().Month(), -1)
	var (
		input       = flag.String("input", "", "Visit export, .xlsx or .csv (required)")
		yamlCfg     = flag.String("config", "", "YAML configuration")
		iniCfg      = flag.String("ini", "", "Legacy INI configuration, used when -config is empty")
		year        = flag.Int("year", prevYear, "Report year")
		month       = flag.Int("month", int(prevMonth), "Report month (1-12)")
		headerRow   = flag.Int("header-row", 1, "Row holding the column names")
		sheetName   = flag.String("sheet", "", "Workbook sheet, default the first one")
		out         = flag.String("out", "", "Write the JSON report here instead of stdout")
		dbPath      = flag.String("db", "", "Optional: SQLite history database")
		words       = flag.Bool("words", false, "Print candidate keywords instead of the report")
		withSent    = flag.Bool("sentiment", false, "Add comment sentiment")
		centre      = flag.String("centre", "", "Optional: centre code for a single-centre view")
		metricsFile = flag.String("metrics-file", "", "Optional: Prometheus textfile to write")
		logLevel    = flag.String("log-level", "info", "debug, info, warn or error")
		chartsDir   = flag.String("charts", "", "Optional: directory for PNG charts")
		fontPath    = flag.String("font", "", "Optional: TrueType font for charts")
	)
	flag.Parse()

	var level slog.Level
	if err := level.UnmarshalText([]byte(*logLevel)); err != nil {
		fmt.Fprintf(os.Stderr, "bad -log-level %q\n", *logLevel)
		os.Exit(2)
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	if *input == "" {
		fatal(logger, "--input required", nil)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	loader := config.Loader{YAMLPath: *yamlCfg, INIPath: *iniCfg}
	components, err := loader.Load()
	if err != nil {
		fatal(logger, "load config", err)
	}

	opts := components.Report
	opts.Sentiment = opts.Sentiment || *withSent
	if *centre != "" {
		c := record.ParseCenter(*centre)
		if !c.Known() {
			fatal(logger, "unknown centre", fmt.Errorf("%w: %q", internalerr.ErrInvalidInput, *centre))
		}
		opts.Centre = c
	}

	visits, stats, err := sheet.Load(ctx, *input, sheet.Options{HeaderRow: *headerRow, Sheet: *sheetName, Logger: logger})
	if err != nil {
		fatal(logger, "load visits", err)
	}
	logger.Info("visits", "rows", stats.Rows, "undated", stats.Undated)

	builder := report.Builder{
		Vocabulary:  components.Vocabulary,
		Industries:  components.Industries,
		FoldToOther: components.FoldToOther,
		Options:     opts,
		Logger:      logger,
	}
	r, err := builder.Build(ctx, visits, *year, time.Month(*month))
	if errors.Is(err, internalerr.ErrNoData) {
		logger.Warn("nothing to report", "err", err)
		os.Exit(0)
	}
	if err != nil {
		fatal(logger, "build report", err)
	}

	if *words {
		for _, c := range r.Candidates {
			fmt.Printf("%-24s %d\n", c.Token, c.Count)
		}
		return
	}

	if err := writeJSON(*out, r); err != nil {
		fatal(logger, "write report", err)
	}

	if *chartsDir != "" {
		rd := &render.Renderer{Dir: *chartsDir}
		if *fontPath != "" {
			if rd.Font, err = render.LoadFont(*fontPath); err != nil {
				fatal(logger, "load font", err)
			}
		}
		drawCharts(logger, rd, r)
	}

	if *metricsFile != "" {
		m := metrics.New()
		m.Observe(r)
		if err := m.WriteTextfile(*metricsFile); err != nil {
			fatal(logger, "write metrics", err)
		}
	}

	if *dbPath != "" {
		if err := saveHistory(ctx, *dbPath, r, *input); err != nil {
			fatal(logger, "save history", err)
		}
		logger.Info("run saved", "run", r.RunID, "period", r.Period())
	}
}

// saveHistory stores r in the database at path and closes it before
// returning.
func saveHistory(ctx context.Context, path string, r *report.Report, input string) (err error) {
	st, err := sqlite.OpenSQLite(ctx, path)
	if err != nil {
		return fmt.Errorf("open history: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close history: %w", cerr)
		}
	}()
	return report.Save(ctx, st, r, input)
}

func writeJSON(path string, r *report.Report) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return err
	}
	if path == "" {
		fmt.Println(string(data))
		return nil
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}

// drawCharts renders the deck charts. Charts without data are skipped.
func drawCharts(logger *slog.Logger, rd *render.Renderer, r *report.Report) {
	draw := func(path string, err error) {
		switch {
		case errors.Is(err, internalerr.ErrNoData):
			logger.Debug("chart skipped", "err", err)
		case err != nil:
			logger.Warn("chart failed", "err", err)
		default:
			logger.Debug("chart written", "path", path)
		}
	}

	cur := r.Interests.Current()
	draw(rd.KeywordBars("interests", cur.Result.TopN(len(cur.Top))))
	for i, t := range r.Trends.Keywords {
		draw(rd.TrendLine(fmt.Sprintf("trend_%d", i+1), t.Months, t.Series, t.Colour))
		labels, values := pieData(t.Centres)
		draw(rd.CentrePie(fmt.Sprintf("trend_%d_centres", i+1), labels, values))
	}
	for _, g := range r.Industries.Groups {
		labels, values := pieData(g.Centres)
		draw(rd.CentrePie("industry_"+g.Industry, labels, values))
	}
	labels, values := pieData(r.Partners.ChannelPlusSI)
	draw(rd.CentrePie("partners", labels, values))
}

func pieData(counts []report.GroupCount) ([]string, []float64) {
	labels := make([]string, len(counts))
	values := make([]float64, len(counts))
	for i, c := range counts {
		labels[i] = c.Key
		values[i] = float64(c.Count)
	}
	return labels, values
}

func fatal(logger *slog.Logger, msg string, err error) {
	if err != nil {
		logger.Error(msg, "err", err)
	} else {
		logger.Error(msg)
	}
	os.Exit(1)
}
