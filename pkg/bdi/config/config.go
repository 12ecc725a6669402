package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/cognicore/bdi/pkg/bdi/agent"
	"github.com/cognicore/bdi/pkg/bdi/internalerr"
	"github.com/cognicore/bdi/pkg/bdi/logic"
)

// Config is the agent configuration file.
type Config struct {
	Rules     RulePaths       `yaml:"rules"`
	Decision  string          `yaml:"decision"`
	Planner   PlannerConfig   `yaml:"planner"`
	Inference InferenceConfig `yaml:"inference"`
	Log       LogConfig       `yaml:"log"`
	Seed      int64           `yaml:"seed"`
	Store     StoreConfig     `yaml:"store"`
	World     WorldConfig     `yaml:"world"`
}

// RulePaths locates the three static rule bases.
type RulePaths struct {
	Percepts string `yaml:"percepts"`
	Program  string `yaml:"program"`
	Actions  string `yaml:"actions"`
}

// PlannerConfig bounds the iterative deepening search.
type PlannerConfig struct {
	MaxDepth int `yaml:"max_depth"`
}

// InferenceConfig selects the chaining strategy.
type InferenceConfig struct {
	Fixpoint  bool `yaml:"fixpoint"`
	MaxPasses int  `yaml:"max_passes"`
}

// LogConfig controls the diagnostic channels.
type LogConfig struct {
	Debug   bool `yaml:"debug"`
	Verbose bool `yaml:"verbose"`
}

// StoreConfig points at the cycle database. Empty disables recording.
type StoreConfig struct {
	Path string `yaml:"path"`
}

// WorldConfig selects the environment.
type WorldConfig struct {
	Maze string `yaml:"maze"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Decision: string(agent.ModePlanner),
		Planner:  PlannerConfig{MaxDepth: agent.DefaultMaxDepth},
	}
}

// Load reads a YAML configuration file on top of Default.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", internalerr.ErrInvalidConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks value ranges and names.
func (c *Config) Validate() error {
	if _, err := agent.ParseMode(c.Decision); err != nil {
		return fmt.Errorf("%w: decision: %v", internalerr.ErrInvalidConfig, err)
	}
	if c.Planner.MaxDepth < 1 {
		return fmt.Errorf("%w: planner.max_depth must be positive, got %d", internalerr.ErrInvalidConfig, c.Planner.MaxDepth)
	}
	if c.Inference.MaxPasses < 0 {
		return fmt.Errorf("%w: inference.max_passes must not be negative", internalerr.ErrInvalidConfig)
	}
	return nil
}

// LoadRuleFile parses a rule file into a knowledge base.
func LoadRuleFile(path string) (*logic.KB, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	kb, err := logic.ParseKB(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return kb, nil
}
