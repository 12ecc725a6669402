package store

import (
	"context"
	"time"
)

// Store persists cycle snapshots so runs can be audited and resumed
type Store interface {
	Close() error

	// SaveCycle inserts or replaces the snapshot keyed by (RunID, Number).
	SaveCycle(ctx context.Context, c Cycle) error

	// LatestCycle returns the highest-numbered snapshot of a run.
	LatestCycle(ctx context.Context, runID string) (Cycle, bool, error)

	// ListCycles returns a run's snapshots in cycle order. A limit of zero
	// or less returns all of them.
	ListCycles(ctx context.Context, runID string, limit int) ([]Cycle, error)

	// ListRuns returns every run, oldest first.
	ListRuns(ctx context.Context) ([]Run, error)
}

// Cycle is the stored form of one agent cycle. KBs are kept as canonical
// sentence strings.
type Cycle struct {
	RunID      string
	Number     int
	Action     string // empty when no action was selected
	Outcome    string
	Believes   []string
	Desires    []string
	Intentions []string
	At         time.Time
}

// Run summarises the stored cycles of one run.
type Run struct {
	ID     string
	Cycles int
	LastAt time.Time
}
