package memstore

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/cognicore/insights/pkg/insights/internalerr"
	"github.com/cognicore/insights/pkg/insights/store"
)

// Store is an in-memory implementation of store.Store for tests.
type Store struct {
	mu     sync.RWMutex
	runs   map[string]store.Run
	counts map[string][]store.Count
	cards  map[string]store.Card
}

// New creates a new in-memory store.
func New() *Store {
	return &Store{
		runs:   make(map[string]store.Run),
		counts: make(map[string][]store.Count),
		cards:  make(map[string]store.Card),
	}
}

// Close implements store.Store.
func (s *Store) Close() error { return nil }

// SaveRun inserts or updates a run, keyed by ID.
func (s *Store) SaveRun(ctx context.Context, r store.Run) error {
	if r.ID == "" {
		return fmt.Errorf("%w: run without id", internalerr.ErrInvalidInput)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs[r.ID] = r
	return nil
}

// GetRun returns a run by ID.
func (s *Store) GetRun(ctx context.Context, id string) (store.Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if r, ok := s.runs[id]; ok {
		return r, nil
	}
	return store.Run{}, fmt.Errorf("run %s: %w", id, internalerr.ErrNotFound)
}

// ListRuns returns the most recent runs first.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]store.Run, error) {
	if limit <= 0 {
		limit = 10
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	runs := make([]store.Run, 0, len(s.runs))
	for _, r := range s.runs {
		runs = append(runs, r)
	}
	sort.Slice(runs, func(i, j int) bool {
		if !runs[i].GeneratedAt.Equal(runs[j].GeneratedAt) {
			return runs[i].GeneratedAt.After(runs[j].GeneratedAt)
		}
		return runs[i].ID > runs[j].ID
	})
	if len(runs) > limit {
		runs = runs[:limit]
	}
	return runs, nil
}

// SaveCounts replaces the counts of a run.
func (s *Store) SaveCounts(ctx context.Context, runID string, counts []store.Count) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := make([]store.Count, len(counts))
	copy(cp, counts)
	s.counts[runID] = cp
	return nil
}

// KeywordHistory returns the stored counts of keyword in scope, oldest
// window first. Counts of unknown runs are skipped.
func (s *Store) KeywordHistory(ctx context.Context, keyword, scope string) ([]store.HistoryPoint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var points []store.HistoryPoint
	for runID, counts := range s.counts {
		run, ok := s.runs[runID]
		if !ok {
			continue
		}
		for _, c := range counts {
			if c.Keyword != keyword || c.Scope != scope {
				continue
			}
			points = append(points, store.HistoryPoint{
				RunID:       runID,
				Period:      run.Period,
				Window:      c.Window,
				Count:       c.Count,
				Commented:   c.Commented,
				GeneratedAt: run.GeneratedAt,
			})
		}
	}
	sort.Slice(points, func(i, j int) bool {
		if points[i].Window != points[j].Window {
			return points[i].Window < points[j].Window
		}
		return points[i].GeneratedAt.Before(points[j].GeneratedAt)
	})
	return points, nil
}

// UpsertCard stores a card by ID.
func (s *Store) UpsertCard(ctx context.Context, c store.Card) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c.Bullets = append([]string(nil), c.Bullets...)
	s.cards[c.ID] = c
	return nil
}

// GetCardsByPeriod returns up to k cards for a period, ordered by ID.
func (s *Store) GetCardsByPeriod(ctx context.Context, period string, k int) ([]store.Card, error) {
	if k <= 0 {
		k = 10
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	var cards []store.Card
	for _, c := range s.cards {
		if c.Period == period {
			cards = append(cards, c)
		}
	}
	sort.Slice(cards, func(i, j int) bool { return cards[i].ID < cards[j].ID })
	if len(cards) > k {
		cards = cards[:k]
	}
	return cards, nil
}
