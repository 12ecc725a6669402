package agent

import (
	"context"
	"testing"

	"github.com/cognicore/bdi/pkg/bdi/logic"
)

func pred(t *testing.T, src string) logic.Predicate {
	t.Helper()
	p, err := logic.ParsePredicate(src)
	if err != nil {
		t.Fatalf("parse %q: %v", src, err)
	}
	return p
}

// graphEnv is a world of named places joined by one-way edges.
type graphEnv struct {
	pos      string
	home     string
	edges    [][2]string
	reject   bool
	executed []string
}

func (g *graphEnv) GeneratePercepts() *logic.KB {
	kb := logic.NewKB()
	kb.AddFact(logic.NewPredicate("pos", g.pos))
	if g.home != "" {
		kb.AddFact(logic.NewPredicate("home", g.home))
	}
	for _, e := range g.edges {
		kb.AddFact(logic.NewPredicate("edge", e[0], e[1]))
	}
	return kb
}

func (g *graphEnv) ExecuteAction(action logic.Predicate) bool {
	g.executed = append(g.executed, action.String())
	if g.reject || action.Name != "go" || action.Arity() != 1 {
		return false
	}
	to := action.Terms[0].Name
	for _, e := range g.edges {
		if e[0] == g.pos && e[1] == to {
			g.pos = to
			return true
		}
	}
	return false
}

const (
	graphPercepts = `
pos(X)>+at(X)
edge(X,Y)>+edge(X,Y)
home(X)>+home(X)
`
	graphProgram = `
at(X)&edge(X,Y)>_go(Y)
home(H)>*at(H)
`
	graphActions = `
go(Y)&at(X)>-at(X)&+at(Y)
`
)

func newGraphAgent(t *testing.T, opts Options) *Agent {
	t.Helper()
	a := New(opts)
	for cat, src := range map[Category]string{
		CategoryPercepts: graphPercepts,
		CategoryProgram:  graphProgram,
		CategoryActions:  graphActions,
	} {
		if err := a.LoadRules(cat, logic.MustParseKB(src)); err != nil {
			t.Fatalf("load %s: %v", cat, err)
		}
	}
	return a
}

type captureRecorder struct {
	reports []CycleReport
}

func (c *captureRecorder) RecordCycle(ctx context.Context, r CycleReport) error {
	c.reports = append(c.reports, r)
	return nil
}
