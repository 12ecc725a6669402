package logic

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/cognicore/bdi/pkg/bdi/internalerr"
)

// ParseKB reads one sentence per line. Blank lines and lines starting with
// '#' or '%' are skipped.
//
// Format:
//
//	bird(tweety)
//	bird(X)>flies(X)
//	at(X)&adjacent(X,Y)&!=(X,Y)>_goto(Y)
//	goto(Y)&at(X)>-at(X)&+at(Y)
func ParseKB(r io.Reader) (*KB, error) {
	kb := NewKB()
	scanner := bufio.NewScanner(r)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "%") {
			continue
		}

		s, err := ParseSentence(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNum, err)
		}
		kb.Add(s)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return kb, nil
}

// ParseKBString is ParseKB over a string.
func ParseKBString(src string) (*KB, error) {
	return ParseKB(strings.NewReader(src))
}

// MustParseKB panics on malformed input. Intended for tests and fixtures.
func MustParseKB(src string) *KB {
	kb, err := ParseKBString(src)
	if err != nil {
		panic(err)
	}
	return kb
}

// ParseSentence parses "c1&c2>h1&h2" or a bare conclusion list "h1&h2".
func ParseSentence(line string) (Sentence, error) {
	line = strings.TrimSpace(line)
	body, head := "", line
	if i := strings.Index(line, ">"); i >= 0 {
		body, head = line[:i], line[i+1:]
		if strings.TrimSpace(body) == "" {
			return Sentence{}, fmt.Errorf("%w: empty condition list in %q", internalerr.ErrParse, line)
		}
	}

	var s Sentence
	if body != "" {
		conds, err := parseList(body)
		if err != nil {
			return Sentence{}, err
		}
		s.Conditions = conds
	}
	concs, err := parseList(head)
	if err != nil {
		return Sentence{}, err
	}
	if len(concs) == 0 {
		return Sentence{}, fmt.Errorf("%w: no conclusion in %q", internalerr.ErrParse, line)
	}
	s.Conclusions = concs
	return s, nil
}

func parseList(src string) ([]Predicate, error) {
	var out []Predicate
	for _, part := range strings.Split(src, "&") {
		if strings.TrimSpace(part) == "" {
			return nil, fmt.Errorf("%w: empty predicate in %q", internalerr.ErrParse, src)
		}
		p, err := ParsePredicate(part)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

// ParsePredicate parses a single predicate with an optional polarity marker,
// e.g. "+at(home)", "_goHome", "!=(X,Y)".
func ParsePredicate(src string) (Predicate, error) {
	s := strings.TrimSpace(src)
	tag := None
	switch {
	case strings.HasPrefix(s, "!="):
		tag, s = NotEqual, s[2:]
	case strings.HasPrefix(s, "="):
		tag, s = Equal, s[1:]
	case strings.HasPrefix(s, "+"):
		tag, s = Assert, s[1:]
	case strings.HasPrefix(s, "-"):
		tag, s = Retract, s[1:]
	case strings.HasPrefix(s, "_"):
		tag, s = Act, s[1:]
	case strings.HasPrefix(s, "*"):
		tag, s = Adopt, s[1:]
	case strings.HasPrefix(s, "~"):
		tag, s = Drop, s[1:]
	}

	name, args := s, ""
	if open := strings.Index(s, "("); open >= 0 {
		if !strings.HasSuffix(s, ")") {
			return Predicate{}, fmt.Errorf("%w: missing ')': %s", internalerr.ErrParse, src)
		}
		name, args = strings.TrimSpace(s[:open]), s[open+1:len(s)-1]
	} else if strings.Contains(s, ")") {
		return Predicate{}, fmt.Errorf("%w: missing '(': %s", internalerr.ErrParse, src)
	}

	if tag.IsCheck() {
		if name != "" {
			return Predicate{}, fmt.Errorf("%w: check takes no name: %s", internalerr.ErrParse, src)
		}
	} else if name == "" || strings.ContainsAny(name, " \t,()") {
		return Predicate{}, fmt.Errorf("%w: invalid predicate name: %s", internalerr.ErrParse, src)
	}

	p := Predicate{Name: name, Tag: tag}
	if strings.TrimSpace(args) != "" {
		for _, a := range strings.Split(args, ",") {
			a = strings.TrimSpace(a)
			if a == "" || strings.ContainsAny(a, " \t()") {
				return Predicate{}, fmt.Errorf("%w: invalid term %q in %s", internalerr.ErrParse, a, src)
			}
			p.Terms = append(p.Terms, NewTerm(a))
		}
	}
	if tag.IsCheck() && len(p.Terms) != 2 {
		return Predicate{}, fmt.Errorf("%w: check needs two terms: %s", internalerr.ErrParse, src)
	}
	return p, nil
}
