package memstore

import (
	"context"
	"sort"
	"sync"

	"github.com/cognicore/bdi/pkg/bdi/internalerr"
	"github.com/cognicore/bdi/pkg/bdi/store"
)

// Store is an in-memory implementation of store.Store for tests.
type Store struct {
	mu     sync.RWMutex
	cycles map[string]map[int]store.Cycle // run → number → cycle
	closed bool
}

// New creates a new in-memory store.
func New() *Store {
	return &Store{
		cycles: make(map[string]map[int]store.Cycle),
	}
}

// Close implements store.Store.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// SaveCycle stores a copy of c, replacing any snapshot with the same number.
func (s *Store) SaveCycle(ctx context.Context, c store.Cycle) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return internalerr.ErrStoreUnavailable
	}
	if c.RunID == "" {
		return internalerr.ErrInvalidInput
	}
	run, ok := s.cycles[c.RunID]
	if !ok {
		run = make(map[int]store.Cycle)
		s.cycles[c.RunID] = run
	}
	run[c.Number] = copyCycle(c)
	return nil
}

// LatestCycle returns the highest-numbered snapshot of runID.
func (s *Store) LatestCycle(ctx context.Context, runID string) (store.Cycle, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	best, found := store.Cycle{}, false
	for n, c := range s.cycles[runID] {
		if !found || n > best.Number {
			best, found = c, true
		}
	}
	if !found {
		return store.Cycle{}, false, nil
	}
	return copyCycle(best), true, nil
}

// ListCycles returns the snapshots of runID ordered by number.
func (s *Store) ListCycles(ctx context.Context, runID string, limit int) ([]store.Cycle, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]store.Cycle, 0, len(s.cycles[runID]))
	for _, c := range s.cycles[runID] {
		out = append(out, copyCycle(c))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// ListRuns returns every run ordered by ID.
func (s *Store) ListRuns(ctx context.Context) ([]store.Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	runs := make([]store.Run, 0, len(s.cycles))
	for id, cycles := range s.cycles {
		r := store.Run{ID: id, Cycles: len(cycles)}
		for _, c := range cycles {
			if c.At.After(r.LastAt) {
				r.LastAt = c.At
			}
		}
		runs = append(runs, r)
	}
	sort.Slice(runs, func(i, j int) bool { return runs[i].ID < runs[j].ID })
	return runs, nil
}

func copyCycle(c store.Cycle) store.Cycle {
	c.Believes = append([]string(nil), c.Believes...)
	c.Desires = append([]string(nil), c.Desires...)
	c.Intentions = append([]string(nil), c.Intentions...)
	return c
}
