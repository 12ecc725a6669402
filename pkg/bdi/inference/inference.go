package inference

import "github.com/cognicore/bdi/pkg/bdi/logic"

// Engine provides symbolic reasoning capabilities
// This interface allows swapping implementations (single-pass chaining,
// fixpoint chaining, an external Datalog bridge, etc.)
type Engine interface {
	// ForwardChain derives every ground predicate entailed by the rules and
	// facts in kb. The input is not modified.
	ForwardChain(kb *logic.KB) *logic.KB

	// FindAllSubstitutions returns every distinct substitution that
	// satisfies the whole condition list against facts.
	FindAllSubstitutions(conditions []logic.Predicate, facts *FactIndex) ([]logic.Substitution, bool)

	// UnifiesWith matches p against the ground fact f.
	// Example: UnifiesWith("likes(X,joost)", "likes(anna,joost)") → {X/anna}
	UnifiesWith(p, f logic.Predicate) (logic.Substitution, bool)

	// Substitute returns p with the bindings of s applied.
	Substitute(p logic.Predicate, s logic.Substitution) logic.Predicate
}

// FactIndex holds known ground facts keyed by canonical string, iterated in
// insertion order.
type FactIndex struct {
	keys  []string
	facts map[string]logic.Predicate
}

// NewFactIndex creates an empty index.
func NewFactIndex(preds ...logic.Predicate) *FactIndex {
	idx := &FactIndex{facts: make(map[string]logic.Predicate)}
	for _, p := range preds {
		idx.Put(p)
	}
	return idx
}

// Put stores p and reports whether it was new.
func (idx *FactIndex) Put(p logic.Predicate) bool {
	key := p.String()
	if _, ok := idx.facts[key]; ok {
		return false
	}
	idx.keys = append(idx.keys, key)
	idx.facts[key] = p.Clone()
	return true
}

// Get looks a fact up by canonical string.
func (idx *FactIndex) Get(key string) (logic.Predicate, bool) {
	p, ok := idx.facts[key]
	return p, ok
}

// Len is the number of indexed facts.
func (idx *FactIndex) Len() int { return len(idx.keys) }

// At returns the i-th fact in insertion order.
func (idx *FactIndex) At(i int) logic.Predicate { return idx.facts[idx.keys[i]] }
