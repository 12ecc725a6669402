package agent

import (
	"go.uber.org/zap"

	"github.com/cognicore/bdi/pkg/bdi/logic"
)

// ProcessFacts applies the tagged predicates in facts to the given KBs.
// A nil KB suppresses that kind of update. Per predicate, the first
// matching rule wins:
//
//	+p  add p to b, and drop p from d if it was a goal
//	-p  remove p from b
//	_p  add p to i
//	*p  add p to d unless b already holds p
//	~p  remove p from d
func (a *Agent) ProcessFacts(facts, b, d, i *logic.KB) {
	for _, s := range facts.Sentences() {
		for _, p := range s.Conclusions {
			a.processFact(p, b, d, i)
		}
	}
}

func (a *Agent) processFact(p logic.Predicate, b, d, i *logic.KB) {
	fact := p.Fact()
	switch {
	case p.Tag == logic.Assert && b != nil:
		if !fact.Ground() {
			a.log.Debug("refusing non-ground belief", zap.Stringer("fact", p))
			return
		}
		b.AddFact(fact)
		a.log.Debug("asserting fact", zap.Stringer("fact", fact))
		if d != nil && d.Contains(fact) {
			d.Delete(fact)
			a.log.Debug("goal achieved", zap.Stringer("goal", fact))
		}
	case p.Tag == logic.Retract && b != nil:
		b.Delete(fact)
		a.log.Debug("retracting fact", zap.Stringer("fact", fact))
	case p.Tag == logic.Act && i != nil:
		i.AddFact(fact)
		a.log.Debug("adding intention", zap.Stringer("action", fact))
	case p.Tag == logic.Adopt && d != nil && !b.Contains(fact):
		d.AddFact(fact)
		a.log.Debug("adopting goal", zap.Stringer("goal", fact))
	case p.Tag == logic.Drop && d != nil:
		d.Delete(fact)
		a.log.Debug("dropping goal", zap.Stringer("goal", fact))
	}
}
