package logic

import (
	"sort"
	"strings"
)

// Substitution maps variable names to constant names.
type Substitution map[string]string

// Clone returns an independent copy. Cloning nil yields an empty map.
func (s Substitution) Clone() Substitution {
	c := make(Substitution, len(s))
	for k, v := range s {
		c[k] = v
	}
	return c
}

// Bind returns a copy of s extended with name→value. It fails when name is
// already bound to a different value.
func (s Substitution) Bind(name, value string) (Substitution, bool) {
	if old, ok := s[name]; ok {
		return s, old == value
	}
	c := s.Clone()
	c[name] = value
	return c, true
}

// Merge returns a copy of s extended with every binding of o, failing on
// the first conflict.
func (s Substitution) Merge(o Substitution) (Substitution, bool) {
	c := s.Clone()
	for k, v := range o {
		if old, ok := c[k]; ok && old != v {
			return s, false
		}
		c[k] = v
	}
	return c, true
}

// Apply returns a copy of p with every bound variable replaced by its
// constant. Unbound variables stay variables.
func (s Substitution) Apply(p Predicate) Predicate {
	c := p.Clone()
	for i, t := range c.Terms {
		if !t.Var {
			continue
		}
		if v, ok := s[t.Name]; ok {
			c.Terms[i] = Const(v)
		}
	}
	return c
}

// String renders the bindings sorted by variable, e.g. "{X/anna,Y/joost}".
func (s Substitution) String() string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(k)
		b.WriteByte('/')
		b.WriteString(s[k])
	}
	b.WriteByte('}')
	return b.String()
}
