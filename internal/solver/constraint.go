package solver

import "strings"

// Spec constrains one position: either a fixed letter or a set of
// excluded letters. The zero Spec excludes nothing.
type Spec struct {
	fixed    byte
	excluded LetterSet
}

// Fixed returns a spec that only accepts letter.
func Fixed(letter byte) Spec { return Spec{fixed: upper(letter)} }

// Excluded returns a spec that accepts any letter not in set.
func Excluded(set LetterSet) Spec { return Spec{excluded: set} }

// IsFixed reports whether the position is pinned to one letter.
func (s Spec) IsFixed() bool { return s.fixed != 0 }

// Letter returns the fixed letter, or 0.
func (s Spec) Letter() byte { return s.fixed }

// ExcludedSet returns the excluded letters of a class spec.
func (s Spec) ExcludedSet() LetterSet { return s.excluded }

// Accepts reports whether c may appear at this position.
func (s Spec) Accepts(c byte) bool {
	c = upper(c)
	if s.IsFixed() {
		return c == s.fixed
	}
	return c >= 'A' && c <= 'Z' && !s.excluded.Has(c)
}

// Pattern holds one Spec per position.
type Pattern [WordLength]Spec

// Match reports whether word satisfies every position.
func (p Pattern) Match(word string) bool {
	if len(word) != WordLength {
		return false
	}
	for i := range p {
		if !p[i].Accepts(word[i]) {
			return false
		}
	}
	return true
}

// String renders the pattern in character-class form, e.g. "[^OS][^OS]A[^ORS]E".
func (p Pattern) String() string {
	var b strings.Builder
	for _, s := range p {
		if s.IsFixed() {
			b.WriteByte(s.fixed)
			continue
		}
		b.WriteString("[^")
		b.WriteString(s.excluded.String())
		b.WriteByte(']')
	}
	return b.String()
}

// Derive builds the positional pattern and the must-contain letters from
// the accumulated knowledge. Correct placements override everything else
// at their position.
func Derive(s *KnowledgeState) (Pattern, LetterSet) {
	var p Pattern
	for i := range p {
		p[i] = Excluded(s.absent)
	}
	var must LetterSet
	for pl := range s.present {
		i := pl.Position - 1
		p[i].excluded = p[i].excluded.Add(pl.Letter)
		must = must.Add(pl.Letter)
	}
	for pl := range s.correct {
		p[pl.Position-1] = Fixed(pl.Letter)
	}
	return p, must
}
