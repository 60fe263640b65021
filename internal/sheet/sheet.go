// Package sheet reads the visit export of the briefing system, either as an
// Excel workbook or as CSV, into visit records.
package sheet

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
	"golang.org/x/net/html"

	"github.com/cognicore/insights/pkg/insights/internalerr"
	"github.com/cognicore/insights/pkg/insights/record"
)

// Column headers of the export.
const (
	ColDate         = "Visit Date"
	ColTopics       = "Want to Learn More About"
	ColActions      = "Action Items"
	ColObjectives   = "Objectives"
	ColComments     = "Customer Overall Comments"
	ColCenter       = "Ctr"
	ColIndustry     = "Industry"
	ColAccountType  = "Account Type"
	ColRelationship = "Partner / Customer"
	ColAccount      = "Account Name"
)

var textColumns = map[string]record.Field{
	ColTopics:     record.FieldTopics,
	ColActions:    record.FieldActions,
	ColObjectives: record.FieldObjectives,
	ColComments:   record.FieldComments,
}

// Options control how a file is read.
type Options struct {
	HeaderRow int    // 1-based row holding the column names, default 1
	Sheet     string // workbook sheet, default the first one
	Logger    *slog.Logger
}

// Stats summarises a load.
type Stats struct {
	Rows    int // records returned
	Undated int // records whose date could not be parsed
	Skipped int // blank rows below the header
}

// Load reads the visits in path. Files ending in .csv are read as CSV,
// anything else as an Excel workbook.
func Load(ctx context.Context, path string, opts Options) ([]record.Visit, Stats, error) {
	if opts.HeaderRow <= 0 {
		opts.HeaderRow = 1
	}
	log := opts.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	var (
		rows [][]string
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		rows, err = readCSV(path)
	default:
		rows, err = readXLSX(path, opts.Sheet)
	}
	if err != nil {
		return nil, Stats{}, err
	}
	if len(rows) < opts.HeaderRow {
		return nil, Stats{}, fmt.Errorf("%w: %s has no header row %d", internalerr.ErrInvalidInput, path, opts.HeaderRow)
	}

	cols := columns(rows[opts.HeaderRow-1])
	if _, ok := cols[ColDate]; !ok {
		return nil, Stats{}, fmt.Errorf("%w: %s: missing %q column", internalerr.ErrInvalidInput, path, ColDate)
	}

	var (
		visits []record.Visit
		stats  Stats
	)
	for i := opts.HeaderRow; i < len(rows); i++ {
		if err := ctx.Err(); err != nil {
			return nil, Stats{}, err
		}
		row := rows[i]
		if blank(row) {
			stats.Skipped++
			continue
		}
		v := toVisit(row, cols)
		v.Row = i + 1
		if !v.Date.Valid() {
			stats.Undated++
			log.Debug("unparseable visit date", "row", v.Row, "value", cell(row, cols, ColDate))
		}
		visits = append(visits, v)
	}
	stats.Rows = len(visits)
	log.Info("sheet loaded", "path", path, "rows", stats.Rows, "undated", stats.Undated, "skipped", stats.Skipped)
	return visits, stats, nil
}

func readXLSX(path, sheet string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook %s: %w", path, err)
	}
	defer f.Close()

	if sheet == "" {
		list := f.GetSheetList()
		if len(list) == 0 {
			return nil, fmt.Errorf("%w: %s has no sheets", internalerr.ErrInvalidInput, path)
		}
		sheet = list[0]
	}
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	return rows, nil
}

func readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv %s: %w", path, err)
	}
	return rows, nil
}

// columns maps known header names to their column index. Matching ignores
// case and surrounding space; the first occurrence wins.
func columns(header []string) map[string]int {
	known := []string{ColDate, ColTopics, ColActions, ColObjectives, ColComments,
		ColCenter, ColIndustry, ColAccountType, ColRelationship, ColAccount}
	cols := make(map[string]int)
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		for _, k := range known {
			if _, seen := cols[k]; !seen && strings.EqualFold(h, k) {
				cols[k] = i
			}
		}
	}
	return cols
}

func cell(row []string, cols map[string]int, name string) string {
	i, ok := cols[name]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func toVisit(row []string, cols map[string]int) record.Visit {
	v := record.Visit{
		Date:         parseDate(cell(row, cols, ColDate)),
		Center:       record.ParseCenter(cell(row, cols, ColCenter)),
		Industry:     cell(row, cols, ColIndustry),
		AccountType:  cell(row, cols, ColAccountType),
		Relationship: cell(row, cols, ColRelationship),
		Account:      cell(row, cols, ColAccount),
	}
	for col, field := range textColumns {
		text := cleanText(cell(row, cols, col))
		if text == "" {
			continue
		}
		if v.Text == nil {
			v.Text = make(map[record.Field]string)
		}
		v.Text[field] = text
	}
	return v
}

// parseDate accepts the textual layouts of record.ParseDate and Excel date
// serials.
func parseDate(raw string) record.Date {
	if d := record.ParseDate(raw); d.Valid() {
		return d
	}
	serial, err := strconv.ParseFloat(raw, 64)
	if err != nil || serial <= 0 {
		return record.Unparseable()
	}
	t, err := excelize.ExcelDateToTime(serial, false)
	if err != nil {
		return record.Unparseable()
	}
	return record.FromTime(t)
}

// cleanText reduces cells exported with HTML markup to their text.
func cleanText(s string) string {
	if !strings.ContainsRune(s, '<') {
		return s
	}
	text, err := stripHTML(s)
	if err != nil {
		return s
	}
	return text
}

func stripHTML(s string) (string, error) {
	z := html.NewTokenizer(strings.NewReader(s))
	var buf strings.Builder
	for {
		switch z.Next() {
		case html.ErrorToken:
			if err := z.Err(); !errors.Is(err, io.EOF) {
				return "", err
			}
			return strings.Join(strings.Fields(buf.String()), " "), nil
		case html.TextToken:
			buf.Write(z.Text())
			buf.WriteByte(' ')
		case html.StartTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()
			if string(name) == "br" || string(name) == "p" || string(name) == "li" {
				buf.WriteByte(' ')
			}
		}
	}
}
