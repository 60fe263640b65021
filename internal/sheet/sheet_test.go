package sheet

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/cognicore/insights/pkg/insights/internalerr"
	"github.com/cognicore/insights/pkg/insights/record"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func writeWorkbook(t *testing.T, rows [][]interface{}) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for i, row := range rows {
		cellRef, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatalf("cell name: %v", err)
		}
		row := row
		if err := f.SetSheetRow("Sheet1", cellRef, &row); err != nil {
			t.Fatalf("SetSheetRow: %v", err)
		}
	}
	path := filepath.Join(t.TempDir(), "visits.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("SaveAs: %v", err)
	}
	return path
}

func TestLoadWorkbook(t *testing.T) {
	path := writeWorkbook(t, [][]interface{}{
		{"Visit Date", "Ctr", "Industry", "Want to Learn More About", "Customer Overall Comments"},
		{"Mar 3, 2021", "pa", "Finance", "<p>Learn about <b>IoT</b></p><p>and cloud</p>", ""},
		{44256, "LON1", "Retail", "", "Great session"},
		{"sometime", "", "", "AI", ""},
	})

	visits, stats, err := Load(context.Background(), path, Options{})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if stats.Rows != 3 || stats.Undated != 1 {
		t.Errorf("stats = %+v", stats)
	}

	first := visits[0]
	if first.Row != 2 || first.Center != record.CenterPaloAlto || first.Industry != "Finance" {
		t.Errorf("first = %+v", first)
	}
	if got, _ := first.TextOf(record.FieldTopics); got != "Learn about IoT and cloud" {
		t.Errorf("html cell = %q", got)
	}
	if _, ok := first.TextOf(record.FieldComments); ok {
		t.Error("empty cell should be absent")
	}

	serial := visits[1].Date
	if !serial.Valid() || !serial.Time().Equal(time.Date(2021, 3, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("serial date = %s", serial)
	}
	if visits[2].Date.Valid() || visits[2].Center != record.CenterUnmatched {
		t.Errorf("third = %+v", visits[2])
	}
}

func TestLoadCSV(t *testing.T) {
	path := writeFile(t, "visits.csv",
		"Exported visits\n"+
			"\ufeffvisit date,Ctr,Objectives,Action Items\n"+
			"2021-02-10,H,Modernize,Follow up on cloud\n"+
			",,,\n"+
			"1/5/2021,NY1,,\n")

	visits, stats, err := Load(context.Background(), path, Options{HeaderRow: 2})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if stats.Rows != 2 || stats.Skipped != 1 || stats.Undated != 0 {
		t.Errorf("stats = %+v", stats)
	}
	if visits[0].Date.String() != "2021-02-10" || visits[0].Center != record.CenterHouston {
		t.Errorf("first = %+v", visits[0])
	}
	if got, _ := visits[0].TextOf(record.FieldActions); got != "Follow up on cloud" {
		t.Errorf("actions = %q", got)
	}
	if visits[1].Row != 5 || visits[1].Date.String() != "2021-01-05" {
		t.Errorf("second = %+v", visits[1])
	}
	if visits[1].Commented(record.Fields()) {
		t.Error("row without text should not count as commented")
	}
}

func TestLoadErrors(t *testing.T) {
	ctx := context.Background()

	noDate := writeFile(t, "nodate.csv", "Ctr,Objectives\nPA,x\n")
	if _, _, err := Load(ctx, noDate, Options{}); !errors.Is(err, internalerr.ErrInvalidInput) {
		t.Errorf("missing date column: err = %v", err)
	}

	short := writeFile(t, "short.csv", "Visit Date\n")
	if _, _, err := Load(ctx, short, Options{HeaderRow: 3}); !errors.Is(err, internalerr.ErrInvalidInput) {
		t.Errorf("header beyond data: err = %v", err)
	}

	if _, _, err := Load(ctx, filepath.Join(t.TempDir(), "missing.xlsx"), Options{}); err == nil {
		t.Error("missing workbook should fail")
	}

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	ok := writeFile(t, "ok.csv", "Visit Date\n2021-01-01\n")
	if _, _, err := Load(cancelled, ok, Options{}); !errors.Is(err, context.Canceled) {
		t.Errorf("cancelled load: err = %v", err)
	}
}

func TestCleanText(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"plain text", "plain text"},
		{"line one<br>line two", "line one line two"},
		{"<ul><li>iot</li><li>ai</li></ul>", "iot ai"},
		{"a &amp; b", "a &amp; b"},
		{"<div>a &amp; b</div>", "a & b"},
	}
	for _, tt := range tests {
		if got := cleanText(tt.in); got != tt.want {
			t.Errorf("cleanText(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
