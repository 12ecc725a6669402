package logic

import "strings"

// KB is an ordered set of unique sentences. Insertion order is preserved
// for listing and indexed access. A nil *KB behaves as an empty, read-only
// knowledge base.
type KB struct {
	sentences []Sentence
	index     map[string]int // canonical string → position
}

// NewKB creates a knowledge base holding the given sentences, deduplicated.
func NewKB(sentences ...Sentence) *KB {
	kb := &KB{index: make(map[string]int)}
	for _, s := range sentences {
		kb.Add(s)
	}
	return kb
}

// FactsKB wraps each predicate as an unconditional sentence.
func FactsKB(preds ...Predicate) *KB {
	kb := NewKB()
	for _, p := range preds {
		kb.Add(FactSentence(p))
	}
	return kb
}

// Add appends s unless an identical sentence is already stored. It reports
// whether the KB changed.
func (kb *KB) Add(s Sentence) bool {
	key := s.String()
	if _, ok := kb.index[key]; ok {
		return false
	}
	if kb.index == nil {
		kb.index = make(map[string]int)
	}
	kb.index[key] = len(kb.sentences)
	kb.sentences = append(kb.sentences, s.Clone())
	return true
}

// AddFact adds p as an unconditional sentence.
func (kb *KB) AddFact(p Predicate) bool { return kb.Add(FactSentence(p)) }

// Delete removes every fact sentence whose fact equals p, ignoring polarity.
func (kb *KB) Delete(p Predicate) bool {
	if kb == nil {
		return false
	}
	kept := kb.sentences[:0]
	removed := false
	for _, s := range kb.sentences {
		if f, ok := s.Fact(); ok && f.SameFact(p) {
			removed = true
			continue
		}
		kept = append(kept, s)
	}
	if !removed {
		return false
	}
	// zero the tail so dropped sentences are not retained
	for i := len(kept); i < len(kb.sentences); i++ {
		kb.sentences[i] = Sentence{}
	}
	kb.sentences = kept
	kb.reindex()
	return true
}

func (kb *KB) reindex() {
	kb.index = make(map[string]int, len(kb.sentences))
	for i, s := range kb.sentences {
		kb.index[s.String()] = i
	}
}

// Contains reports whether some fact sentence equals p, ignoring polarity.
func (kb *KB) Contains(p Predicate) bool {
	if kb == nil {
		return false
	}
	for _, s := range kb.sentences {
		if f, ok := s.Fact(); ok && f.SameFact(p) {
			return true
		}
	}
	return false
}

// Get returns the i-th sentence (0-based).
func (kb *KB) Get(i int) (Sentence, bool) {
	if kb == nil || i < 0 || i >= len(kb.sentences) {
		return Sentence{}, false
	}
	return kb.sentences[i].Clone(), true
}

// Len is the number of stored sentences.
func (kb *KB) Len() int {
	if kb == nil {
		return 0
	}
	return len(kb.sentences)
}

// Sentences returns a copy of the stored sentences in insertion order.
func (kb *KB) Sentences() []Sentence {
	if kb == nil {
		return nil
	}
	out := make([]Sentence, len(kb.sentences))
	for i, s := range kb.sentences {
		out[i] = s.Clone()
	}
	return out
}

// Facts returns the conclusion of every unconditional one-conclusion
// sentence in order.
func (kb *KB) Facts() []Predicate {
	if kb == nil {
		return nil
	}
	var out []Predicate
	for _, s := range kb.sentences {
		if f, ok := s.Fact(); ok {
			out = append(out, f.Clone())
		}
	}
	return out
}

// Union returns a new KB with the sentences of kb followed by those of
// other. Neither input is modified.
func (kb *KB) Union(other *KB) *KB {
	out := kb.Clone()
	if other != nil {
		for _, s := range other.sentences {
			out.Add(s)
		}
	}
	return out
}

// Clone returns an independent deep copy.
func (kb *KB) Clone() *KB {
	out := &KB{index: make(map[string]int, kb.Len())}
	if kb == nil {
		return out
	}
	out.sentences = make([]Sentence, 0, len(kb.sentences))
	for _, s := range kb.sentences {
		out.index[s.String()] = len(out.sentences)
		out.sentences = append(out.sentences, s.Clone())
	}
	return out
}

// Strings returns the canonical form of every sentence.
func (kb *KB) Strings() []string {
	if kb == nil {
		return nil
	}
	out := make([]string, len(kb.sentences))
	for i, s := range kb.sentences {
		out[i] = s.String()
	}
	return out
}

// String lists one sentence per line.
func (kb *KB) String() string {
	return strings.Join(kb.Strings(), "\n")
}
