package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/cognicore/insights/pkg/insights/report"
	"github.com/cognicore/insights/pkg/insights/store/sqlite"
)

func main() {
	var (
		dbPath  = flag.String("db", "", "SQLite history database (required)")
		keyword = flag.String("keyword", "", "Keyword to follow; lists runs when empty")
		scope   = flag.String("scope", report.ScopeMonth, "Count scope: month, objectives, partners, industry:<code>, centre:<code>")
		limit   = flag.Int("limit", 10, "Runs to list")
		period  = flag.String("cards", "", "Optional: print the summary cards of a period (2006-01)")
	)
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	if *dbPath == "" {
		logger.Error("--db required")
		os.Exit(1)
	}

	ctx := context.Background()
	st, err := sqlite.OpenSQLite(ctx, *dbPath)
	if err != nil {
		logger.Error("open history", "err", err)
		os.Exit(1)
	}
	defer st.Close()

	switch {
	case *period != "":
		cards, err := st.GetCardsByPeriod(ctx, *period, *limit)
		if err != nil {
			logger.Error("cards", "err", err)
			os.Exit(1)
		}
		for _, c := range cards {
			fmt.Println(c.Title)
			for _, b := range c.Bullets {
				fmt.Printf("  - %s\n", b)
			}
		}
	case *keyword != "":
		points, err := st.KeywordHistory(ctx, *keyword, *scope)
		if err != nil {
			logger.Error("history", "err", err)
			os.Exit(1)
		}
		if len(points) == 0 {
			fmt.Printf("no stored counts for %q in %s\n", *keyword, *scope)
			return
		}
		for _, p := range points {
			fmt.Printf("%-18s %5.1f%%  (%d of %d)  run %s\n", p.Window, p.Percent(), p.Count, p.Commented, p.RunID)
		}
	default:
		runs, err := st.ListRuns(ctx, *limit)
		if err != nil {
			logger.Error("list runs", "err", err)
			os.Exit(1)
		}
		for _, r := range runs {
			fmt.Printf("%s  %s  %s  records=%d undated=%d  %s\n",
				r.ID, r.Period, r.GeneratedAt.Format("2006-01-02 15:04"), r.Records, r.Undated, r.Input)
		}
	}
}
