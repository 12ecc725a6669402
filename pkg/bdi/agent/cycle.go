package agent

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/cognicore/bdi/pkg/bdi/logic"
)

// ActResult is the outcome of the act phase.
type ActResult int

const (
	// Skipped means no action was selected.
	Skipped ActResult = iota
	Accepted
	Rejected
	Malformed
)

func (r ActResult) String() string {
	switch r {
	case Skipped:
		return "skipped"
	case Accepted:
		return "accepted"
	case Rejected:
		return "rejected"
	case Malformed:
		return "malformed"
	}
	return "unknown"
}

// CycleReport summarises one tick of the cognitive cycle.
type CycleReport struct {
	Number    int
	Action    logic.Predicate
	HasAction bool
	Result    ActResult
	State     *MentalState
}

// Run cycles until ctx is cancelled or maxCycles ticks have run. A bound
// of zero runs until cancelled.
func (a *Agent) Run(ctx context.Context, env Environment, maxCycles int) error {
	for n := 0; maxCycles <= 0 || n < maxCycles; n++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		a.Cycle(ctx, env)
	}
	return nil
}

// Cycle runs one reset → sense → think → decide → act tick. Failures are
// logged as warnings and never stop the next tick.
func (a *Agent) Cycle(ctx context.Context, env Environment) CycleReport {
	a.state.Intentions = logic.NewKB()

	a.Sense(env)
	a.Think(a.state)

	report := CycleReport{Result: Skipped}
	if action, ok := a.Decide(); ok {
		report.Action, report.HasAction = action, true
		report.Result = a.Act(env, &action, a.state)
	}

	a.cycles++
	report.Number = a.cycles
	report.State = a.state.Clone()

	if a.recorder != nil {
		if err := a.recorder.RecordCycle(ctx, report); err != nil && !errors.Is(err, context.Canceled) {
			a.log.Warn("record cycle", zap.Int("cycle", report.Number), zap.Error(err))
		}
	}
	return report
}

// Sense chains the percept rules over the fresh percepts and the current
// beliefs.
func (a *Agent) Sense(env Environment) {
	var percepts *logic.KB
	if env != nil {
		percepts = a.perceive(env)
	}
	a.log.Debug("percepts", zap.Strings("facts", percepts.Strings()))

	result := a.engine.ForwardChain(a.rules.Percepts.Union(percepts).Union(a.state.Believes))
	a.log.Debug("percept inference", zap.Strings("facts", result.Strings()))
	a.ProcessFacts(result, a.state.Believes, a.state.Desires, a.state.Intentions)
}

// Think chains the program rules over state's beliefs and writes the
// outcome back into state. The planner calls it on simulated states.
func (a *Agent) Think(state *MentalState) {
	result := a.engine.ForwardChain(a.rules.Program.Union(state.Believes))
	a.log.Debug("think inference", zap.Strings("facts", result.Strings()))
	a.ProcessFacts(result, state.Believes, state.Desires, state.Intentions)
}

// Decide selects one action according to the agent's mode.
func (a *Agent) Decide() (logic.Predicate, bool) {
	switch a.mode {
	case ModeHuman:
		return a.decideHuman()
	case ModeRandom:
		return a.randomIntention()
	}
	return a.decidePlanned()
}

func (a *Agent) decideHuman() (logic.Predicate, bool) {
	if a.state.Intentions.Len() == 0 {
		a.log.Warn("no actions")
		return logic.Predicate{}, false
	}
	if a.chooser == nil {
		a.log.Warn("no chooser configured for human decisions")
		return logic.Predicate{}, false
	}
	action, err := a.chooser.Choose(a.state.Intentions)
	if err != nil {
		a.log.Warn("action selection failed", zap.Error(err))
		return logic.Predicate{}, false
	}
	return action, true
}

func (a *Agent) decidePlanned() (logic.Predicate, bool) {
	if a.verbose {
		a.log.Debug("planning", zap.Int("desires", a.state.Desires.Len()))
	}
	for _, goal := range a.state.Desires.Facts() {
		plan, ok := a.IDSearch(a.maxDepth, a.state, goal)
		if a.verbose {
			a.log.Debug("plan for desire", zap.Stringer("goal", goal), zap.Bool("found", ok), zap.Stringer("plan", plan))
		}
		if ok && plan.Len() > 0 {
			action, _ := plan.Get(0)
			return action, true
		}
	}
	if a.verbose && a.state.Intentions.Len() > 0 {
		a.log.Debug("no plan: random action selection from intentions")
	}
	return a.randomIntention()
}

func (a *Agent) randomIntention() (logic.Predicate, bool) {
	n := a.state.Intentions.Len()
	if n == 0 {
		a.log.Warn("no actions")
		return logic.Predicate{}, false
	}
	s, _ := a.state.Intentions.Get(a.rng.Intn(n))
	action, ok := s.Fact()
	return action, ok
}

// Act executes action in env, or only simulates it when env is nil. On
// success the action rules are chained over the action and state's
// beliefs; beliefs and desires are updated, intentions are not.
func (a *Agent) Act(env Environment, action *logic.Predicate, state *MentalState) ActResult {
	if action == nil {
		a.log.Warn("action execution failed: no action")
		return Skipped
	}
	if a.verbose {
		a.log.Debug("trying action", zap.Stringer("action", action))
	}
	if action.Name == "" || action.Tag != logic.None || !action.Ground() {
		a.log.Warn("malformed action", zap.Stringer("action", action))
		return Malformed
	}
	if env != nil && !a.execute(env, *action) {
		a.log.Warn("action execution failed", zap.Stringer("action", action))
		return Rejected
	}

	executed := logic.FactsKB(*action)
	result := a.engine.ForwardChain(a.rules.Actions.Union(executed).Union(state.Believes))
	a.log.Debug("action inference", zap.Strings("facts", result.Strings()))
	a.ProcessFacts(result, state.Believes, state.Desires, nil)
	return Accepted
}

// perceive calls the environment; a panic counts as no percepts.
func (a *Agent) perceive(env Environment) (percepts *logic.KB) {
	defer func() {
		if r := recover(); r != nil {
			a.log.Warn("percept generation panicked", zap.Any("panic", r))
			percepts = nil
		}
	}()
	return env.GeneratePercepts()
}

// execute calls the environment; a panic counts as a rejected action.
func (a *Agent) execute(env Environment, action logic.Predicate) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			a.log.Warn("action execution panicked", zap.Stringer("action", action), zap.Any("panic", r))
			ok = false
		}
	}()
	return env.ExecuteAction(action)
}
