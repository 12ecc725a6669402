package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/cognicore/bdi/pkg/bdi/store"
)

// TestSQLiteIntegrationBasic tests basic save/load operations
func TestSQLiteIntegrationBasic(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "test.db")

	st, err := OpenSQLite(ctx, dbPath)
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	defer st.Close()

	at := time.Date(2026, 1, 2, 3, 4, 5, 6, time.UTC)
	c := store.Cycle{
		RunID:      "01J0000000000000000000000A",
		Number:     1,
		Action:     "go(b)",
		Outcome:    "accepted",
		Believes:   []string{"at(b)", "edge(a,b)"},
		Desires:    []string{"at(c)"},
		Intentions: []string{"go(b)"},
		At:         at,
	}
	if err := st.SaveCycle(ctx, c); err != nil {
		t.Fatalf("SaveCycle: %v", err)
	}

	got, found, err := st.LatestCycle(ctx, c.RunID)
	if err != nil {
		t.Fatalf("LatestCycle: %v", err)
	}
	if !found {
		t.Fatal("Cycle should be found")
	}
	if diff := cmp.Diff(c, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestSQLiteUpsertAndOrder(t *testing.T) {
	ctx := context.Background()
	st, err := OpenSQLite(ctx, filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer st.Close()

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for _, n := range []int{2, 1, 3} {
		c := store.Cycle{RunID: "run", Number: n, Outcome: "skipped", At: base.Add(time.Duration(n) * time.Second)}
		if err := st.SaveCycle(ctx, c); err != nil {
			t.Fatal(err)
		}
	}
	// replace cycle 2
	if err := st.SaveCycle(ctx, store.Cycle{RunID: "run", Number: 2, Outcome: "rejected", Action: "go(x)", At: base}); err != nil {
		t.Fatal(err)
	}

	cycles, err := st.ListCycles(ctx, "run", 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(cycles) != 3 {
		t.Fatalf("expected 3 cycles, got %d", len(cycles))
	}
	for i, c := range cycles {
		if c.Number != i+1 {
			t.Errorf("cycle %d out of order: %d", i, c.Number)
		}
	}
	if cycles[1].Outcome != "rejected" || cycles[1].Action != "go(x)" {
		t.Errorf("upsert not applied: %+v", cycles[1])
	}
	if len(cycles[0].Believes) != 0 {
		t.Errorf("expected empty believes, got %v", cycles[0].Believes)
	}

	limited, err := st.ListCycles(ctx, "run", 1)
	if err != nil || len(limited) != 1 {
		t.Errorf("limit: %v %v", limited, err)
	}

	runs, err := st.ListRuns(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 1 || runs[0].Cycles != 3 || !runs[0].LastAt.Equal(base.Add(3*time.Second)) {
		t.Errorf("unexpected runs: %+v", runs)
	}
}

func TestSQLiteMissingRun(t *testing.T) {
	ctx := context.Background()
	st, err := OpenSQLite(ctx, filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer st.Close()

	_, found, err := st.LatestCycle(ctx, "nope")
	if err != nil || found {
		t.Errorf("expected not found, got %v %v", found, err)
	}
}

func TestSQLiteReopenKeepsData(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "test.db")

	st, err := OpenSQLite(ctx, path)
	if err != nil {
		t.Fatal(err)
	}
	if err := st.SaveCycle(ctx, store.Cycle{RunID: "run", Number: 7, Outcome: "accepted", At: time.Now()}); err != nil {
		t.Fatal(err)
	}
	st.Close()

	st, err = OpenSQLite(ctx, path)
	if err != nil {
		t.Fatal(err)
	}
	defer st.Close()
	c, found, err := st.LatestCycle(ctx, "run")
	if err != nil || !found || c.Number != 7 {
		t.Errorf("data lost across reopen: %+v %v %v", c, found, err)
	}
}
