package store

import (
	"context"
	"time"
)

// Store persists report runs so keyword trends can be followed across
// months.
type Store interface {
	Close() error

	// Runs
	SaveRun(ctx context.Context, r Run) error
	GetRun(ctx context.Context, id string) (Run, error)
	ListRuns(ctx context.Context, limit int) ([]Run, error)

	// Keyword counts
	SaveCounts(ctx context.Context, runID string, counts []Count) error
	KeywordHistory(ctx context.Context, keyword, scope string) ([]HistoryPoint, error)

	// Cards
	UpsertCard(ctx context.Context, c Card) error
	GetCardsByPeriod(ctx context.Context, period string, k int) ([]Card, error)
}

// Run describes one report run.
type Run struct {
	ID          string
	Period      string // "2006-01" of the report month
	Input       string
	GeneratedAt time.Time
	Records     int
	Undated     int
}

// Count is the count of one keyword in one scope and window.
type Count struct {
	Scope     string // "month", "objectives", "partners", "industry:<code>", "centre:<code>"
	Window    string
	Keyword   string
	Count     int
	Commented int
}

// HistoryPoint is a stored count joined with its run.
type HistoryPoint struct {
	RunID       string
	Period      string
	Window      string
	Count       int
	Commented   int
	GeneratedAt time.Time
}

// Percent returns Count as a percentage of Commented, or 0.
func (h HistoryPoint) Percent() float64 {
	if h.Commented == 0 {
		return 0
	}
	return 100 * float64(h.Count) / float64(h.Commented)
}

// Card represents a stored summary card
type Card struct {
	ID      string
	RunID   string
	Title   string
	Bullets []string
	Period  string
}
