package simple

import (
	"go.uber.org/zap"

	"github.com/cognicore/bdi/pkg/bdi/inference"
	"github.com/cognicore/bdi/pkg/bdi/logic"
)

// DefaultMaxPasses bounds fixpoint chaining.
const DefaultMaxPasses = 64

// Options configures the engine.
type Options struct {
	// Fixpoint repeats the rule pass until no new fact appears. The default
	// is a single pass in rule order.
	Fixpoint  bool
	MaxPasses int
	Logger    *zap.Logger
}

// Engine is a minimal forward-chaining engine in pure Go
type Engine struct {
	fixpoint  bool
	maxPasses int
	log       *zap.Logger
}

var _ inference.Engine = (*Engine)(nil)

// New creates a single-pass engine with no logging.
func New() *Engine {
	return NewWithOptions(Options{})
}

// NewWithOptions creates an engine from opts.
func NewWithOptions(opts Options) *Engine {
	e := &Engine{
		fixpoint:  opts.Fixpoint,
		maxPasses: opts.MaxPasses,
		log:       opts.Logger,
	}
	if e.maxPasses <= 0 {
		e.maxPasses = DefaultMaxPasses
	}
	if e.log == nil {
		e.log = zap.NewNop()
	}
	return e
}

// ForwardChain seeds a fact index with the conclusions of every
// unconditional sentence, then runs each rule once in order. Conclusions
// bound by a rule become visible to the rules after it.
func (e *Engine) ForwardChain(kb *logic.KB) *logic.KB {
	facts := inference.NewFactIndex()
	out := logic.NewKB()
	var rules []logic.Sentence

	for _, s := range kb.Sentences() {
		if !s.IsFact() {
			rules = append(rules, s)
			continue
		}
		for _, c := range s.Conclusions {
			if !c.Ground() {
				e.log.Debug("skipping non-ground fact", zap.Stringer("fact", c))
				continue
			}
			facts.Put(c)
			out.AddFact(c)
		}
	}

	passes := 1
	if e.fixpoint {
		passes = e.maxPasses
	}
	for pass := 0; pass < passes; pass++ {
		if added := e.chainOnce(rules, facts, out); added == 0 {
			break
		}
	}
	return out
}

func (e *Engine) chainOnce(rules []logic.Sentence, facts *inference.FactIndex, out *logic.KB) int {
	added := 0
	for _, rule := range rules {
		subs, ok := e.FindAllSubstitutions(rule.Conditions, facts)
		if !ok {
			continue
		}
		for _, sub := range subs {
			for _, c := range rule.Conclusions {
				bound := e.Substitute(c, sub)
				if !bound.Ground() {
					e.log.Debug("unbound conclusion",
						zap.Stringer("rule", rule), zap.Stringer("conclusion", bound))
					continue
				}
				if facts.Put(bound) {
					added++
					e.log.Debug("derived", zap.Stringer("fact", bound), zap.Stringer("rule", rule))
				}
				out.AddFact(bound)
			}
		}
	}
	return added
}

// FindAllSubstitutions searches the conditions left to right. Each branch
// extends its own copy of the substitution, so recorded solutions are never
// altered by later backtracking.
func (e *Engine) FindAllSubstitutions(conditions []logic.Predicate, facts *inference.FactIndex) ([]logic.Substitution, bool) {
	acc := &solutions{seen: make(map[string]struct{})}
	found := e.search(conditions, logic.Substitution{}, facts, acc)
	return acc.list, found
}

type solutions struct {
	list []logic.Substitution
	seen map[string]struct{}
}

func (s *solutions) add(sub logic.Substitution) {
	key := sub.String()
	if _, dup := s.seen[key]; dup {
		return
	}
	s.seen[key] = struct{}{}
	s.list = append(s.list, sub.Clone())
}

func (e *Engine) search(conditions []logic.Predicate, sub logic.Substitution, facts *inference.FactIndex, acc *solutions) bool {
	if len(conditions) == 0 {
		acc.add(sub)
		return true
	}

	first, rest := conditions[0], conditions[1:]
	if first.Tag.IsCheck() {
		if !e.Substitute(first, sub).Holds() {
			return false
		}
		return e.search(rest, sub, facts, acc)
	}

	// bindings made by earlier conditions narrow this one before matching
	narrowed := e.Substitute(first, sub)
	if narrowed.Ground() {
		// a ground condition only unifies with the identical fact
		if _, ok := facts.Get(narrowed.String()); !ok {
			return false
		}
		return e.search(rest, sub, facts, acc)
	}
	found := false
	for i := 0; i < facts.Len(); i++ {
		theta, ok := e.UnifiesWith(narrowed, facts.At(i))
		if !ok {
			continue
		}
		next, ok := sub.Merge(theta)
		if !ok {
			continue
		}
		if e.search(rest, next, facts, acc) {
			found = true
		}
	}
	return found
}

// UnifiesWith binds every variable of p to the term of f at the same
// position and accepts the result only if the bound p equals f. f must be
// ground, so the relation is not symmetric. A variable that occurs twice
// must bind to the same constant both times.
func (e *Engine) UnifiesWith(p, f logic.Predicate) (logic.Substitution, bool) {
	if !f.Ground() {
		return nil, false
	}
	if p.Name != f.Name || p.Arity() != f.Arity() {
		return nil, false
	}

	theta := logic.Substitution{}
	for i, t := range p.Terms {
		if !t.Var {
			continue
		}
		var ok bool
		if theta, ok = theta.Bind(t.Name, f.Terms[i].Name); !ok {
			return nil, false
		}
	}

	if !e.Substitute(p, theta).Equal(f) {
		return nil, false
	}
	return theta, true
}

// Substitute returns a copy of p with the bindings of s applied; p is left
// untouched.
func (e *Engine) Substitute(p logic.Predicate, s logic.Substitution) logic.Predicate {
	return s.Apply(p)
}
