package config

import (
	"path/filepath"
	"testing"

	"github.com/cognicore/bdi/pkg/bdi/agent"
)

func TestLoaderResolvesRelativePaths(t *testing.T) {
	tmpDir := t.TempDir()
	writeFile(t, tmpDir, "percepts.txt", "pos(X)>+at(X)\n")
	writeFile(t, tmpDir, "program.txt", "at(X)&edge(X,Y)>_go(Y)\n")
	writeFile(t, tmpDir, "actions.txt", "go(Y)&at(X)>-at(X)&+at(Y)\n")
	cfgPath := writeFile(t, tmpDir, "agent.yaml", `rules:
  percepts: percepts.txt
  program: program.txt
  actions: actions.txt
store:
  path: run.db
`)

	loader := Loader{ConfigPath: cfgPath}
	comp, err := loader.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	for _, cat := range []agent.Category{agent.CategoryPercepts, agent.CategoryProgram, agent.CategoryActions} {
		if comp.Rules[cat].Len() != 1 {
			t.Errorf("%s: expected 1 rule, got %d", cat, comp.Rules[cat].Len())
		}
	}
	if comp.Config.Store.Path != filepath.Join(tmpDir, "run.db") {
		t.Errorf("store path not resolved: %s", comp.Config.Store.Path)
	}
}

func TestLoaderOverrides(t *testing.T) {
	tmpDir := t.TempDir()
	program := writeFile(t, tmpDir, "other.txt", "a(X)>b(X)\nc(X)>d(X)\n")

	loader := Loader{ProgramPath: program}
	comp, err := loader.Load()
	if err != nil {
		t.Fatal(err)
	}
	if comp.Rules[agent.CategoryProgram].Len() != 2 {
		t.Errorf("override not applied")
	}
	if comp.Rules[agent.CategoryPercepts].Len() != 0 {
		t.Errorf("missing rule files should give empty rule bases")
	}
	if comp.Config.Decision != "planner" {
		t.Errorf("expected default config, got %+v", comp.Config)
	}
}

func TestLoaderMissingRuleFile(t *testing.T) {
	loader := Loader{ActionsPath: filepath.Join(t.TempDir(), "missing.txt")}
	if _, err := loader.Load(); err == nil {
		t.Error("expected error for missing rule file")
	}
}
