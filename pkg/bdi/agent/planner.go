package agent

import (
	"go.uber.org/zap"

	"github.com/cognicore/bdi/pkg/bdi/logic"
)

// IDSearch runs DepthFirst with bounds 1..maxDepth and returns the plan of
// the first bound that succeeds. The returned plan is empty when the goal
// already holds in state. state is not modified.
func (a *Agent) IDSearch(maxDepth int, state *MentalState, goal logic.Predicate) (*logic.Plan, bool) {
	for depth := 1; depth <= maxDepth; depth++ {
		if plan, ok := a.DepthFirst(depth, 0, state.Clone(), goal, logic.NewPlan()); ok {
			return plan, true
		}
	}
	return nil, false
}

// DepthFirst looks for a plan of at most maxDepth actions that makes state
// entail goal. Candidates are the intentions of each node, in order. Every
// branch simulates its action on its own copy of the state and plan: the
// action rules are applied as in Act, then Think regenerates beliefs,
// desires and the intentions of the next node.
func (a *Agent) DepthFirst(maxDepth, depth int, state *MentalState, goal logic.Predicate, partialPlan *logic.Plan) (*logic.Plan, bool) {
	if state.Believes.Contains(goal) {
		return partialPlan, true
	}
	if depth >= maxDepth {
		return nil, false
	}

	for _, action := range state.Intentions.Facts() {
		next := state.Clone()
		if a.simulate(next, action) != Accepted {
			continue
		}
		plan := partialPlan.Clone()
		plan.Add(action)
		if a.verbose {
			a.log.Debug("expanding", zap.Int("depth", depth+1), zap.Stringer("plan", plan))
		}
		if result, ok := a.DepthFirst(maxDepth, depth+1, next, goal, plan); ok {
			return result, true
		}
	}
	return nil, false
}

func (a *Agent) simulate(state *MentalState, action logic.Predicate) ActResult {
	res := a.Act(nil, &action, state)
	if res != Accepted {
		return res
	}
	state.Intentions = logic.NewKB()
	a.Think(state)
	return res
}
