package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/cognicore/bdi/pkg/bdi/internalerr"
	"github.com/cognicore/bdi/pkg/bdi/maintenance"
	"github.com/cognicore/bdi/pkg/bdi/store"
	"github.com/cognicore/bdi/pkg/bdi/store/sqlite"
)

type report struct {
	RunID      string         `json:"run_id"`
	Cycles     int            `json:"cycles"`
	First      time.Time      `json:"first_cycle_at"`
	Last       time.Time      `json:"last_cycle_at"`
	Outcomes   map[string]int `json:"outcomes"`
	TopActions []actionCount  `json:"top_actions"`
	Final      *snapshot      `json:"final_state,omitempty"`
}

type actionCount struct {
	Action string `json:"action"`
	Count  int    `json:"count"`
}

type snapshot struct {
	Cycle      int      `json:"cycle"`
	Believes   []string `json:"believes"`
	Desires    []string `json:"desires"`
	Intentions []string `json:"intentions"`
}

func main() {
	var (
		dbPath = flag.String("db", "", "Cycle database path (required)")
		runID  = flag.String("run", "", "Run ID (defaults to the most recent run)")
		top    = flag.Int("top", 10, "Number of most frequent actions to list")
		export = flag.String("export", "", "Optional: write the final beliefs as a rule file")
	)
	flag.Parse()

	if *dbPath == "" {
		log.Fatal("--db required")
	}

	ctx := context.Background()

	st, err := sqlite.OpenSQLite(ctx, *dbPath)
	if err != nil {
		log.Fatalf("open store: %v", err)
	}
	defer st.Close()

	rep, err := buildReport(ctx, st, *runID, *top)
	if err != nil {
		log.Fatalf("build report: %v", err)
	}

	if *export != "" {
		if err := exportBeliefs(ctx, st, rep.RunID, *export); err != nil {
			log.Fatalf("export beliefs: %v", err)
		}
	}

	out, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		log.Fatalf("marshal report: %v", err)
	}
	fmt.Println(string(out))
}

func buildReport(ctx context.Context, st store.Store, runID string, limit int) (report, error) {
	if runID == "" {
		latest, err := latestRun(ctx, st)
		if err != nil {
			return report{}, err
		}
		runID = latest
	}

	cycles, err := st.ListCycles(ctx, runID, 0)
	if err != nil {
		return report{}, err
	}
	if len(cycles) == 0 {
		return report{}, fmt.Errorf("run %s: %w", runID, internalerr.ErrNotFound)
	}

	rep := report{
		RunID:    runID,
		Cycles:   len(cycles),
		First:    cycles[0].At,
		Last:     cycles[len(cycles)-1].At,
		Outcomes: make(map[string]int),
	}
	actions := make(map[string]int)
	for _, c := range cycles {
		rep.Outcomes[c.Outcome]++
		if c.Action != "" {
			actions[c.Action]++
		}
	}
	rep.TopActions = topActions(actions, limit)

	final := cycles[len(cycles)-1]
	rep.Final = &snapshot{
		Cycle:      final.Number,
		Believes:   final.Believes,
		Desires:    final.Desires,
		Intentions: final.Intentions,
	}
	return rep, nil
}

func exportBeliefs(ctx context.Context, st store.Store, runID, path string) error {
	c, found, err := st.LatestCycle(ctx, runID)
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("run %s: %w", runID, internalerr.ErrNotFound)
	}
	exporter := maintenance.BeliefExporter{Writer: maintenance.FileWriter{Path: path}}
	return exporter.Export(ctx, c)
}

func latestRun(ctx context.Context, st store.Store) (string, error) {
	runs, err := st.ListRuns(ctx)
	if err != nil {
		return "", err
	}
	if len(runs) == 0 {
		return "", fmt.Errorf("no runs recorded: %w", internalerr.ErrNotFound)
	}
	sort.Slice(runs, func(i, j int) bool {
		return runs[i].LastAt.After(runs[j].LastAt)
	})
	return runs[0].ID, nil
}

func topActions(counts map[string]int, limit int) []actionCount {
	out := make([]actionCount, 0, len(counts))
	for action, n := range counts {
		out = append(out, actionCount{Action: action, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Action < out[j].Action
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
