// Package logic holds the data model shared by the inference engine, the
// agent and the planner: terms, predicates, sentences, substitutions,
// knowledge bases and plans.
package logic

import "unicode"

// Term is a variable or a constant, identified by its name.
type Term struct {
	Name string
	Var  bool
}

// Const returns a constant term.
func Const(name string) Term { return Term{Name: name} }

// Variable returns a variable term.
func Variable(name string) Term { return Term{Name: name, Var: true} }

// NewTerm classifies name the way the clause parser does: a leading
// upper-case rune makes a variable.
func NewTerm(name string) Term {
	for _, r := range name {
		return Term{Name: name, Var: unicode.IsUpper(r)}
	}
	return Term{Name: name}
}

// Ground reports whether the term is a constant.
func (t Term) Ground() bool { return !t.Var }

func (t Term) String() string { return t.Name }
