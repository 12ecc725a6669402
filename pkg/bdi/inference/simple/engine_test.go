package simple

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/cognicore/bdi/pkg/bdi/inference"
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

func TestUnifiesWith(t *testing.T) {
	e := New()

	sub, ok := e.UnifiesWith(pred(t, "likes(X,joost)"), pred(t, "likes(anna,joost)"))
	if !ok {
		t.Fatal("expected unification")
	}
	if diff := cmp.Diff(logic.Substitution{"X": "anna"}, sub); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}

	sub, ok = e.UnifiesWith(pred(t, "likes(anna,X)"), pred(t, "likes(anna,joost)"))
	if !ok || sub["X"] != "joost" {
		t.Errorf("expected X/joost, got %v %v", sub, ok)
	}
}

func TestUnifiesWithIsAsymmetric(t *testing.T) {
	e := New()
	if _, ok := e.UnifiesWith(pred(t, "likes(anna,joost)"), pred(t, "likes(X,joost)")); ok {
		t.Error("second argument with a variable must not unify")
	}
}

func TestUnifiesWithMismatch(t *testing.T) {
	e := New()
	cases := [][2]string{
		{"likes(X,joost)", "hates(anna,joost)"},
		{"likes(X)", "likes(anna,joost)"},
		{"likes(X,piet)", "likes(anna,joost)"},
	}
	for _, c := range cases {
		if _, ok := e.UnifiesWith(pred(t, c[0]), pred(t, c[1])); ok {
			t.Errorf("%s should not unify with %s", c[0], c[1])
		}
	}
}

func TestUnifiesWithGroundIdentical(t *testing.T) {
	e := New()
	sub, ok := e.UnifiesWith(pred(t, "human(joost)"), pred(t, "human(joost)"))
	if !ok || len(sub) != 0 {
		t.Errorf("identical ground predicates should unify with the empty substitution, got %v %v", sub, ok)
	}
}

func TestUnifiesWithRepeatedVariable(t *testing.T) {
	e := New()
	if _, ok := e.UnifiesWith(pred(t, "likes(X,X)"), pred(t, "likes(anna,joost)")); ok {
		t.Error("inconsistent repeated variable must be rejected")
	}
	sub, ok := e.UnifiesWith(pred(t, "likes(X,X)"), pred(t, "likes(anna,anna)"))
	if !ok || sub["X"] != "anna" {
		t.Errorf("consistent repeated variable should unify, got %v %v", sub, ok)
	}
}

func TestUnifiesWithRespectsPolarity(t *testing.T) {
	e := New()
	if _, ok := e.UnifiesWith(pred(t, "at(X)"), pred(t, "+at(home)")); ok {
		t.Error("untagged condition must not match a tagged conclusion")
	}
}

func TestSubstituteLeavesInputUntouched(t *testing.T) {
	e := New()
	p := pred(t, "likes(X,Y)")
	got := e.Substitute(p, logic.Substitution{"X": "anna"})
	if got.String() != "likes(anna,Y)" {
		t.Errorf("got %s", got)
	}
	if p.String() != "likes(X,Y)" {
		t.Errorf("input mutated: %s", p)
	}
}

func TestFindAllSubstitutions(t *testing.T) {
	e := New()
	facts := inference.NewFactIndex(
		pred(t, "parent(anna,bob)"),
		pred(t, "parent(bob,carl)"),
		pred(t, "parent(bob,dora)"),
	)
	conds := []logic.Predicate{pred(t, "parent(X,Y)"), pred(t, "parent(Y,Z)")}

	subs, ok := e.FindAllSubstitutions(conds, facts)
	if !ok {
		t.Fatal("expected solutions")
	}
	want := []logic.Substitution{
		{"X": "anna", "Y": "bob", "Z": "carl"},
		{"X": "anna", "Y": "bob", "Z": "dora"},
	}
	if diff := cmp.Diff(want, subs); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestFindAllSubstitutionsEmptyConditions(t *testing.T) {
	e := New()
	subs, ok := e.FindAllSubstitutions(nil, inference.NewFactIndex())
	if !ok || len(subs) != 1 || len(subs[0]) != 0 {
		t.Errorf("empty body should yield one empty substitution, got %v %v", subs, ok)
	}
}

func TestFindAllSubstitutionsChecks(t *testing.T) {
	e := New()
	facts := inference.NewFactIndex(
		pred(t, "at(a)"),
		pred(t, "adjacent(a,a)"),
		pred(t, "adjacent(a,b)"),
	)

	subs, ok := e.FindAllSubstitutions([]logic.Predicate{
		pred(t, "at(X)"), pred(t, "adjacent(X,Y)"), pred(t, "!=(X,Y)"),
	}, facts)
	if !ok || len(subs) != 1 || subs[0]["Y"] != "b" {
		t.Errorf("inequality should keep only Y/b, got %v", subs)
	}

	subs, ok = e.FindAllSubstitutions([]logic.Predicate{
		pred(t, "at(X)"), pred(t, "adjacent(X,Y)"), pred(t, "=(X,Y)"),
	}, facts)
	if !ok || len(subs) != 1 || subs[0]["Y"] != "a" {
		t.Errorf("equality should keep only Y/a, got %v", subs)
	}

	if _, ok := e.FindAllSubstitutions([]logic.Predicate{pred(t, "!=(X,Y)")}, facts); ok {
		t.Error("check over unbound variables must fail")
	}
}

func TestFindAllSubstitutionsGroundConditions(t *testing.T) {
	e := New()
	facts := inference.NewFactIndex(
		pred(t, "home(c)"),
		pred(t, "+at(c)"),
		pred(t, "edge(a,c)"),
		pred(t, "rainy"),
	)

	subs, ok := e.FindAllSubstitutions([]logic.Predicate{pred(t, "edge(X,Y)"), pred(t, "home(Y)"), pred(t, "rainy")}, facts)
	want := []logic.Substitution{{"X": "a", "Y": "c"}}
	if !ok {
		t.Fatal("expected a solution")
	}
	if diff := cmp.Diff(want, subs); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}

	for _, src := range []string{"home(a)", "at(c)", "sunny"} {
		if _, ok := e.FindAllSubstitutions([]logic.Predicate{pred(t, src)}, facts); ok {
			t.Errorf("%s should not match", src)
		}
	}
	if _, ok := e.FindAllSubstitutions([]logic.Predicate{pred(t, "+at(c)")}, facts); !ok {
		t.Error("tagged ground condition should match the tagged fact")
	}
}

func TestFindAllSubstitutionsNoMatch(t *testing.T) {
	e := New()
	facts := inference.NewFactIndex(pred(t, "bird(tweety)"))
	subs, ok := e.FindAllSubstitutions([]logic.Predicate{pred(t, "fish(X)")}, facts)
	if ok || len(subs) != 0 {
		t.Errorf("expected no solutions, got %v", subs)
	}
}

func TestForwardChainBirdsFly(t *testing.T) {
	e := New()
	rules := logic.MustParseKB("bird(X)>flies(X)")
	facts := logic.MustParseKB("bird(tweety)")

	out := e.ForwardChain(rules.Union(facts))
	if !out.Contains(pred(t, "flies(tweety)")) {
		t.Fatalf("expected flies(tweety), got:\n%s", out)
	}
	if rules.Len() != 1 || facts.Len() != 1 {
		t.Error("inputs mutated")
	}
}

func TestForwardChainResultIsGround(t *testing.T) {
	e := New()
	kb := logic.MustParseKB(`
parent(X,Y)&parent(Y,Z)>grandparent(X,Z)
knows(X)>+mystery(X,Unbound)
parent(anna,bob)
parent(bob,carl)
knows(anna)
`)
	out := e.ForwardChain(kb)
	for _, p := range out.Facts() {
		if !p.Ground() {
			t.Errorf("non-ground predicate in result: %s", p)
		}
	}
	if !out.Contains(pred(t, "grandparent(anna,carl)")) {
		t.Errorf("missing grandparent(anna,carl):\n%s", out)
	}
}

func TestForwardChainKeepsTags(t *testing.T) {
	e := New()
	kb := logic.MustParseKB(`
hungry(X)>_eat(X)&*fed(X)
hungry(cat)
`)
	out := e.ForwardChain(kb)
	want := []string{"hungry(cat)", "_eat(cat)", "*fed(cat)"}
	if diff := cmp.Diff(want, out.Strings()); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestForwardChainSinglePassOrder(t *testing.T) {
	// b→c is listed before a→b, so one pass cannot reach c
	kb := logic.MustParseKB(`
b(X)>c(X)
a(X)>b(X)
a(1)
`)
	out := New().ForwardChain(kb)
	if !out.Contains(pred(t, "b(1)")) {
		t.Fatal("expected b(1)")
	}
	if out.Contains(pred(t, "c(1)")) {
		t.Error("single pass should not reach c(1)")
	}

	// listed in dependency order, one pass is enough
	ordered := logic.MustParseKB("a(X)>b(X)\nb(X)>c(X)\na(1)")
	if !New().ForwardChain(ordered).Contains(pred(t, "c(1)")) {
		t.Error("later rule should see facts derived earlier in the pass")
	}
}

func TestForwardChainFixpoint(t *testing.T) {
	kb := logic.MustParseKB(`
c(X)>d(X)
b(X)>c(X)
a(X)>b(X)
a(1)
`)
	e := NewWithOptions(Options{Fixpoint: true})
	out := e.ForwardChain(kb)
	for _, want := range []string{"b(1)", "c(1)", "d(1)"} {
		if !out.Contains(pred(t, want)) {
			t.Errorf("fixpoint missing %s:\n%s", want, out)
		}
	}
}

func TestForwardChainFixpointBounded(t *testing.T) {
	kb := logic.MustParseKB("b(X)>c(X)\na(X)>b(X)\na(1)")
	e := NewWithOptions(Options{Fixpoint: true, MaxPasses: 1})
	if e.ForwardChain(kb).Contains(pred(t, "c(1)")) {
		t.Error("MaxPasses=1 should behave like a single pass")
	}
}
