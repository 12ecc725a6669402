package logic

import "strings"

// Plan is an ordered sequence of actions. An empty plan means the goal
// already holds.
type Plan struct {
	actions []Predicate
}

// NewPlan creates a plan from the given actions.
func NewPlan(actions ...Predicate) *Plan {
	p := &Plan{}
	for _, a := range actions {
		p.Add(a)
	}
	return p
}

// Add appends an action.
func (p *Plan) Add(action Predicate) {
	p.actions = append(p.actions, action.Clone())
}

// Get returns the i-th action (0-based).
func (p *Plan) Get(i int) (Predicate, bool) {
	if p == nil || i < 0 || i >= len(p.actions) {
		return Predicate{}, false
	}
	return p.actions[i].Clone(), true
}

// Len is the number of actions.
func (p *Plan) Len() int {
	if p == nil {
		return 0
	}
	return len(p.actions)
}

// Actions returns a copy of the plan's actions.
func (p *Plan) Actions() []Predicate {
	if p == nil {
		return nil
	}
	out := make([]Predicate, len(p.actions))
	for i, a := range p.actions {
		out[i] = a.Clone()
	}
	return out
}

// Clone returns an independent copy with its own backing storage.
func (p *Plan) Clone() *Plan {
	return NewPlan(p.Actions()...)
}

func (p *Plan) String() string {
	parts := make([]string, p.Len())
	for i, a := range p.Actions() {
		parts[i] = a.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
