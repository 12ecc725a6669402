// Package agent runs the belief-desire-intention cycle: it senses an
// environment, derives facts with the inference engine, updates the mental
// state and selects an action by hand, at random or with a planner.
package agent

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"time"

	"go.uber.org/zap"

	"github.com/cognicore/bdi/pkg/bdi/inference"
	"github.com/cognicore/bdi/pkg/bdi/inference/simple"
	"github.com/cognicore/bdi/pkg/bdi/internalerr"
	"github.com/cognicore/bdi/pkg/bdi/logic"
)

// DefaultMaxDepth is the planner bound used per desire.
const DefaultMaxDepth = 7

// Category names a static rule base.
type Category string

const (
	CategoryPercepts Category = "percepts"
	CategoryProgram  Category = "program"
	CategoryActions  Category = "actions"
)

// Mode selects how Decide picks an action.
type Mode string

const (
	ModePlanner Mode = "planner"
	ModeHuman   Mode = "human"
	ModeRandom  Mode = "random"
)

// ParseMode validates a mode name.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(s); m {
	case ModePlanner, ModeHuman, ModeRandom:
		return m, nil
	}
	return "", fmt.Errorf("%w: unknown decision mode %q", internalerr.ErrInvalidInput, s)
}

// Environment is the world the agent lives in.
type Environment interface {
	GeneratePercepts() *logic.KB
	ExecuteAction(action logic.Predicate) bool
}

// Chooser lets an operator pick one of the current intentions.
type Chooser interface {
	Choose(intentions *logic.KB) (logic.Predicate, error)
}

// Recorder receives a report after every cycle.
type Recorder interface {
	RecordCycle(ctx context.Context, report CycleReport) error
}

// RuleBases are loaded once and never modified by the cycle.
type RuleBases struct {
	Percepts *logic.KB
	Program  *logic.KB
	Actions  *logic.KB
}

// MentalState is the dynamic part of the agent. Believes holds ground
// facts, Desires unmet goals and Intentions the candidate actions of the
// current cycle.
type MentalState struct {
	Believes   *logic.KB
	Desires    *logic.KB
	Intentions *logic.KB
}

// NewMentalState creates an empty state.
func NewMentalState() *MentalState {
	return &MentalState{
		Believes:   logic.NewKB(),
		Desires:    logic.NewKB(),
		Intentions: logic.NewKB(),
	}
}

// Clone returns a deep copy; no KB is shared with m.
func (m *MentalState) Clone() *MentalState {
	return &MentalState{
		Believes:   m.Believes.Clone(),
		Desires:    m.Desires.Clone(),
		Intentions: m.Intentions.Clone(),
	}
}

// Options configures an Agent.
type Options struct {
	Engine   inference.Engine
	Mode     Mode
	Chooser  Chooser
	MaxDepth int
	Rand     *rand.Rand
	Logger   *zap.Logger
	// Verbose adds planning traces to the debug log.
	Verbose  bool
	Recorder Recorder
}

// Agent owns the rule bases and the mental state. It is not safe for
// concurrent use.
type Agent struct {
	rules    RuleBases
	state    *MentalState
	engine   inference.Engine
	mode     Mode
	chooser  Chooser
	maxDepth int
	rng      *rand.Rand
	log      *zap.Logger
	verbose  bool
	recorder Recorder
	cycles   int
}

// New creates an agent with empty rule bases and an empty mental state.
func New(opts Options) *Agent {
	a := &Agent{
		rules: RuleBases{
			Percepts: logic.NewKB(),
			Program:  logic.NewKB(),
			Actions:  logic.NewKB(),
		},
		state:    NewMentalState(),
		engine:   opts.Engine,
		mode:     opts.Mode,
		chooser:  opts.Chooser,
		maxDepth: opts.MaxDepth,
		rng:      opts.Rand,
		log:      opts.Logger,
		verbose:  opts.Verbose,
		recorder: opts.Recorder,
	}
	if a.engine == nil {
		a.engine = simple.New()
	}
	if a.mode == "" {
		a.mode = ModePlanner
	}
	if a.maxDepth <= 0 {
		a.maxDepth = DefaultMaxDepth
	}
	if a.rng == nil {
		a.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if a.log == nil {
		a.log = zap.NewNop()
	}
	return a
}

// LoadRules assigns kb to the rule base named by category.
func (a *Agent) LoadRules(category Category, kb *logic.KB) error {
	kb = kb.Clone()
	switch category {
	case CategoryPercepts:
		a.rules.Percepts = kb
	case CategoryProgram:
		a.rules.Program = kb
	case CategoryActions:
		a.rules.Actions = kb
	default:
		return fmt.Errorf("%w: %q", internalerr.ErrUnknownCategory, category)
	}
	a.log.Debug("loaded rules", zap.String("category", string(category)), zap.Int("sentences", kb.Len()))
	return nil
}

// LoadRulesFrom parses r and assigns the result to category.
func (a *Agent) LoadRulesFrom(category Category, r io.Reader) error {
	kb, err := logic.ParseKB(r)
	if err != nil {
		return fmt.Errorf("load %s rules: %w", category, err)
	}
	return a.LoadRules(category, kb)
}

// Rules returns copies of the static rule bases.
func (a *Agent) Rules() RuleBases {
	return RuleBases{
		Percepts: a.rules.Percepts.Clone(),
		Program:  a.rules.Program.Clone(),
		Actions:  a.rules.Actions.Clone(),
	}
}

// State returns a copy of the current mental state.
func (a *Agent) State() *MentalState { return a.state.Clone() }

// SetState replaces the mental state, e.g. when resuming a stored run.
func (a *Agent) SetState(m *MentalState) {
	c := m.Clone()
	for _, p := range c.Believes.Facts() {
		if !p.Ground() {
			c.Believes.Delete(p)
		}
	}
	a.state = c
}

// Cycles is the number of completed cycles.
func (a *Agent) Cycles() int { return a.cycles }
