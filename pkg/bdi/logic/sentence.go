package logic

import "strings"

// Sentence is a horn-style clause: a possibly empty list of conditions and
// a non-empty list of conclusions. An empty body makes it a fact.
type Sentence struct {
	Conditions  []Predicate
	Conclusions []Predicate
}

// FactSentence wraps a single predicate as an unconditional sentence.
func FactSentence(p Predicate) Sentence {
	return Sentence{Conclusions: []Predicate{p.Clone()}}
}

// Rule builds a sentence from a body and a head.
func Rule(conditions []Predicate, conclusions ...Predicate) Sentence {
	return Sentence{Conditions: conditions, Conclusions: conclusions}
}

// IsFact reports whether the sentence has no conditions.
func (s Sentence) IsFact() bool { return len(s.Conditions) == 0 }

// Fact returns the single conclusion of an unconditional one-conclusion
// sentence.
func (s Sentence) Fact() (Predicate, bool) {
	if !s.IsFact() || len(s.Conclusions) != 1 {
		return Predicate{}, false
	}
	return s.Conclusions[0], true
}

// Clone returns a deep copy.
func (s Sentence) Clone() Sentence {
	c := Sentence{}
	if s.Conditions != nil {
		c.Conditions = make([]Predicate, len(s.Conditions))
		for i, p := range s.Conditions {
			c.Conditions[i] = p.Clone()
		}
	}
	c.Conclusions = make([]Predicate, len(s.Conclusions))
	for i, p := range s.Conclusions {
		c.Conclusions[i] = p.Clone()
	}
	return c
}

func (s Sentence) String() string {
	var b strings.Builder
	if len(s.Conditions) > 0 {
		writeJoined(&b, s.Conditions)
		b.WriteByte('>')
	}
	writeJoined(&b, s.Conclusions)
	return b.String()
}

func writeJoined(b *strings.Builder, ps []Predicate) {
	for i, p := range ps {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(p.String())
	}
}
