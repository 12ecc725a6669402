package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"math/rand"
	"os"
	"os/signal"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/cognicore/bdi/internal/llm"
	"github.com/cognicore/bdi/pkg/bdi/agent"
	"github.com/cognicore/bdi/pkg/bdi/config"
	"github.com/cognicore/bdi/pkg/bdi/inference/simple"
	"github.com/cognicore/bdi/pkg/bdi/store"
	"github.com/cognicore/bdi/pkg/bdi/store/sqlite"
	"github.com/cognicore/bdi/pkg/bdi/world/maze"
)

// settings are the command line overrides for the configuration file.
type settings struct {
	ConfigPath   string
	PerceptsPath string
	ProgramPath  string
	ActionsPath  string
	MazePath     string
	DBPath       string
	Mode         string
	Resume       string
	Debug        bool
	Verbose      bool

	// An OpenAI-compatible endpoint replaces the console in human mode.
	LLMBase   string
	LLMModel  string
	LLMAPIKey string
}

// session is a ready-to-run agent in its world.
type session struct {
	agent  *agent.Agent
	world  *maze.Maze
	log    *zap.Logger
	store  store.Store
	runID  string
	offset int
}

func main() {
	var (
		s         settings
		maxCycles = flag.Int("cycles", 100, "Maximum number of cycles (0 runs until the exit is reached)")
		listRuns  = flag.Bool("runs", false, "List recorded runs and exit (requires --db)")
	)
	flag.StringVar(&s.ConfigPath, "config", "", "Agent configuration file (YAML)")
	flag.StringVar(&s.PerceptsPath, "percepts", "", "Percept rules file (overrides config)")
	flag.StringVar(&s.ProgramPath, "program", "", "Program rules file (overrides config)")
	flag.StringVar(&s.ActionsPath, "actions", "", "Action rules file (overrides config)")
	flag.StringVar(&s.MazePath, "maze", "", "Maze file (overrides config)")
	flag.StringVar(&s.DBPath, "db", "", "Cycle database path (optional)")
	flag.StringVar(&s.Mode, "mode", "", "Decision mode: planner, human or random")
	flag.StringVar(&s.Resume, "resume", "", "Run ID to resume (requires --db)")
	flag.BoolVar(&s.Debug, "debug", false, "Log inference and fact updates")
	flag.BoolVar(&s.Verbose, "verbose", false, "Log planning traces (with --debug)")
	flag.StringVar(&s.LLMBase, "llm-base", "", "Optional: OpenAI-compatible chooser base URL (human mode)")
	flag.StringVar(&s.LLMModel, "llm-model", "", "Optional: LLM model name for the chooser")
	flag.StringVar(&s.LLMAPIKey, "llm-api-key", "", "Optional: API key for the chooser endpoint")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if *listRuns {
		if err := printRuns(ctx, s.DBPath, os.Stdout); err != nil {
			log.Fatal(err)
		}
		return
	}

	sess, cleanup, err := buildAgent(ctx, s, os.Stdin, os.Stdout)
	if err != nil {
		log.Fatal(err)
	}
	defer cleanup()

	if sess.runID != "" {
		fmt.Printf("run %s\n", sess.runID)
	}
	fmt.Print(sess.world)
	fmt.Println()

	n := run(ctx, sess, *maxCycles, os.Stdout)

	fmt.Println()
	fmt.Print(sess.world)
	if sess.world.AtExit() {
		fmt.Printf("Reached the exit after %d cycles (%d moves).\n", n, sess.world.Moves())
	} else {
		fmt.Printf("Stopped after %d cycles at %s.\n", n, sess.world.Position())
	}
}

// run cycles the agent until it stands on the exit, ctx is cancelled or
// maxCycles ticks have run. It returns the number of ticks.
func run(ctx context.Context, s *session, maxCycles int, out io.Writer) int {
	n := 0
	for maxCycles <= 0 || n < maxCycles {
		if ctx.Err() != nil || s.world.AtExit() {
			break
		}
		report := s.agent.Cycle(ctx, s.world)
		n++

		action := "-"
		if report.HasAction {
			action = report.Action.String()
		}
		fmt.Fprintf(out, "cycle %d: %s %s (at %s)\n", report.Number+s.offset, action, report.Result, s.world.Position())
	}
	return n
}

func buildAgent(ctx context.Context, s settings, in io.Reader, out io.Writer) (*session, func(), error) {
	loader := config.Loader{
		ConfigPath:   s.ConfigPath,
		PerceptsPath: s.PerceptsPath,
		ProgramPath:  s.ProgramPath,
		ActionsPath:  s.ActionsPath,
	}
	components, err := loader.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}

	cfg := components.Config
	if s.Mode != "" {
		cfg.Decision = s.Mode
	}
	if s.MazePath != "" {
		cfg.World.Maze = s.MazePath
	}
	if s.DBPath != "" {
		cfg.Store.Path = s.DBPath
	}
	cfg.Log.Debug = cfg.Log.Debug || s.Debug
	cfg.Log.Verbose = cfg.Log.Verbose || s.Verbose
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	mode, _ := agent.ParseMode(cfg.Decision)

	if cfg.World.Maze == "" {
		return nil, nil, fmt.Errorf("no maze given (--maze or world.maze)")
	}
	world, err := maze.Load(cfg.World.Maze)
	if err != nil {
		return nil, nil, fmt.Errorf("load maze: %w", err)
	}

	logger, err := newLogger(cfg.Log.Debug)
	if err != nil {
		return nil, nil, fmt.Errorf("init logger: %w", err)
	}

	sess := &session{world: world, log: logger}
	cleanup := func() {
		if sess.store != nil {
			sess.store.Close()
		}
		_ = logger.Sync()
	}

	var recorder agent.Recorder
	if cfg.Store.Path != "" {
		st, err := sqlite.OpenSQLite(ctx, cfg.Store.Path)
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("open store: %w", err)
		}
		sess.store = st
		sess.runID = s.Resume
		if sess.runID == "" {
			sess.runID = store.NewIDGenerator().New()
		} else if !store.ValidRunID(sess.runID) {
			cleanup()
			return nil, nil, fmt.Errorf("invalid run id %q", sess.runID)
		}
	} else if s.Resume != "" {
		return nil, nil, fmt.Errorf("--resume requires --db")
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	engine := simple.NewWithOptions(simple.Options{
		Fixpoint:  cfg.Inference.Fixpoint,
		MaxPasses: cfg.Inference.MaxPasses,
		Logger:    logger.Named("inference"),
	})

	var resumed *agent.MentalState
	if s.Resume != "" {
		state, last, err := store.Resume(ctx, sess.store, s.Resume)
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("resume: %w", err)
		}
		resumed = state
		sess.offset = last.Number
	}
	if sess.store != nil {
		recorder = &store.Recorder{Store: sess.store, RunID: sess.runID, Offset: sess.offset}
	}

	var chooser agent.Chooser = agent.NewConsoleChooser(in, out)
	if s.LLMBase != "" && s.LLMModel != "" {
		chooser = &llm.Chooser{
			Client: &llm.Client{BaseURL: s.LLMBase, Model: s.LLMModel, APIKey: s.LLMAPIKey},
			Task:   "Move through a maze: pick up the key, then reach the exit.",
		}
	}

	a := agent.New(agent.Options{
		Engine:   engine,
		Mode:     mode,
		Chooser:  chooser,
		MaxDepth: cfg.Planner.MaxDepth,
		Rand:     rand.New(rand.NewSource(seed)),
		Logger:   logger.Named("agent"),
		Verbose:  cfg.Log.Verbose,
		Recorder: recorder,
	})
	for cat, kb := range components.Rules {
		if err := a.LoadRules(cat, kb); err != nil {
			cleanup()
			return nil, nil, err
		}
	}
	if resumed != nil {
		a.SetState(resumed)
		logger.Info("resumed run", zap.String("run", sess.runID), zap.Int("cycle", sess.offset))
	}
	sess.agent = a

	return sess, cleanup, nil
}

func newLogger(debug bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	if debug {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	return cfg.Build()
}

func printRuns(ctx context.Context, dbPath string, out io.Writer) error {
	if dbPath == "" {
		return fmt.Errorf("--runs requires --db")
	}
	st, err := sqlite.OpenSQLite(ctx, dbPath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	runs, err := st.ListRuns(ctx)
	if err != nil {
		return fmt.Errorf("list runs: %w", err)
	}
	if len(runs) == 0 {
		fmt.Fprintln(out, "No runs recorded.")
		return nil
	}
	for _, r := range runs {
		fmt.Fprintf(out, "%s  %4d cycles  last %s\n", r.ID, r.Cycles, r.LastAt.Format(time.RFC3339))
	}
	return nil
}
