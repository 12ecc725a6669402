package logic

import (
	"strings"
)

// Polarity tags a predicate with what fact processing should do with it.
type Polarity int

const (
	None Polarity = iota
	Assert
	Retract
	Act
	Adopt
	Drop
	NotEqual
	Equal
)

var markers = map[Polarity]string{
	None:     "",
	Assert:   "+",
	Retract:  "-",
	Act:      "_",
	Adopt:    "*",
	Drop:     "~",
	NotEqual: "!=",
	Equal:    "=",
}

// Marker returns the textual prefix of the polarity.
func (p Polarity) Marker() string { return markers[p] }

// IsCheck reports whether the polarity marks an (in)equality test rather
// than a fact to be matched.
func (p Polarity) IsCheck() bool { return p == NotEqual || p == Equal }

func (p Polarity) String() string {
	switch p {
	case None:
		return "none"
	case Assert:
		return "assert"
	case Retract:
		return "retract"
	case Act:
		return "act"
	case Adopt:
		return "adopt"
	case Drop:
		return "drop"
	case NotEqual:
		return "not-equal"
	case Equal:
		return "equal"
	}
	return "unknown"
}

// Predicate is a name applied to an ordered list of terms, carrying exactly
// one polarity tag.
type Predicate struct {
	Name  string
	Terms []Term
	Tag   Polarity
}

// NewPredicate builds an untagged predicate, classifying each argument with NewTerm.
func NewPredicate(name string, args ...string) Predicate {
	p := Predicate{Name: name, Terms: make([]Term, len(args))}
	for i, a := range args {
		p.Terms[i] = NewTerm(a)
	}
	return p
}

// Tagged returns a copy of p carrying tag.
func (p Predicate) Tagged(tag Polarity) Predicate {
	c := p.Clone()
	c.Tag = tag
	return c
}

// Arity is the number of terms.
func (p Predicate) Arity() int { return len(p.Terms) }

// Ground reports whether every term is a constant.
func (p Predicate) Ground() bool {
	for _, t := range p.Terms {
		if t.Var {
			return false
		}
	}
	return true
}

// Clone returns a copy with its own term storage.
func (p Predicate) Clone() Predicate {
	c := p
	if p.Terms != nil {
		c.Terms = make([]Term, len(p.Terms))
		copy(c.Terms, p.Terms)
	}
	return c
}

// Fact returns the underlying fact with the polarity tag stripped.
func (p Predicate) Fact() Predicate {
	c := p.Clone()
	c.Tag = None
	return c
}

// SameFact compares name and terms, ignoring polarity.
func (p Predicate) SameFact(q Predicate) bool {
	if p.Name != q.Name || len(p.Terms) != len(q.Terms) {
		return false
	}
	for i := range p.Terms {
		if p.Terms[i] != q.Terms[i] {
			return false
		}
	}
	return true
}

// Equal compares name, terms and polarity.
func (p Predicate) Equal(q Predicate) bool {
	return p.Tag == q.Tag && p.SameFact(q)
}

// Holds evaluates an (in)equality check. It is false for anything that is
// not a ground two-term check.
func (p Predicate) Holds() bool {
	if !p.Tag.IsCheck() || len(p.Terms) != 2 || !p.Ground() {
		return false
	}
	same := p.Terms[0].Name == p.Terms[1].Name
	if p.Tag == NotEqual {
		return !same
	}
	return same
}

// String renders the canonical clause form, e.g. "+at(home)" or "_goHome".
func (p Predicate) String() string {
	var b strings.Builder
	b.WriteString(p.Tag.Marker())
	b.WriteString(p.Name)
	if len(p.Terms) > 0 || p.Name == "" {
		b.WriteByte('(')
		for i, t := range p.Terms {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(t.Name)
		}
		b.WriteByte(')')
	}
	return b.String()
}
