package config

import (
	"fmt"
	"path/filepath"

	"github.com/cognicore/bdi/pkg/bdi/agent"
	"github.com/cognicore/bdi/pkg/bdi/logic"
)

// Loader loads the configuration file and the rule bases it names.
// Non-empty path fields override the file.
type Loader struct {
	ConfigPath   string
	PerceptsPath string
	ProgramPath  string
	ActionsPath  string
}

// Components holds the loaded configuration and rule bases
type Components struct {
	Config *Config
	Rules  map[agent.Category]*logic.KB
}

// Load reads all configuration files and returns the parsed components.
// Rule paths from the config file are resolved relative to it.
func (l *Loader) Load() (*Components, error) {
	cfg := Default()
	base := ""
	if l.ConfigPath != "" {
		var err error
		cfg, err = Load(l.ConfigPath)
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
		base = filepath.Dir(l.ConfigPath)
		cfg.Rules.Percepts = resolve(base, cfg.Rules.Percepts)
		cfg.Rules.Program = resolve(base, cfg.Rules.Program)
		cfg.Rules.Actions = resolve(base, cfg.Rules.Actions)
		cfg.Store.Path = resolve(base, cfg.Store.Path)
		cfg.World.Maze = resolve(base, cfg.World.Maze)
	}

	override(&cfg.Rules.Percepts, l.PerceptsPath)
	override(&cfg.Rules.Program, l.ProgramPath)
	override(&cfg.Rules.Actions, l.ActionsPath)

	comp := &Components{Config: cfg, Rules: make(map[agent.Category]*logic.KB)}
	for cat, path := range map[agent.Category]string{
		agent.CategoryPercepts: cfg.Rules.Percepts,
		agent.CategoryProgram:  cfg.Rules.Program,
		agent.CategoryActions:  cfg.Rules.Actions,
	} {
		if path == "" {
			comp.Rules[cat] = logic.NewKB()
			continue
		}
		kb, err := LoadRuleFile(path)
		if err != nil {
			return nil, fmt.Errorf("load %s rules: %w", cat, err)
		}
		comp.Rules[cat] = kb
	}

	return comp, nil
}

func resolve(base, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(base, path)
}

func override(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
