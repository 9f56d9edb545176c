package solver

import "sort"

// KnowledgeState accumulates feedback across the rounds of one game.
// Facts are only ever added.
type KnowledgeState struct {
	correct map[Placement]struct{}
	present map[Placement]struct{}
	absent  LetterSet
}

// NewKnowledgeState returns an empty state for a new game.
func NewKnowledgeState() *KnowledgeState {
	return &KnowledgeState{
		correct: make(map[Placement]struct{}),
		present: make(map[Placement]struct{}),
	}
}

// Update records one round of feedback.
//
// Correct and present facts are applied before absent ones, so a letter
// that is both misplaced and absent in the same guess (a duplicate) is
// never excluded from the whole word. An absent tile whose letter is
// already known to be in the word becomes a position-local exclusion
// instead: it is recorded as present at that position. Unknown facts
// are ignored.
func (s *KnowledgeState) Update(facts []LetterFact) {
	for _, f := range facts {
		if !validPosition(f.Position) {
			continue
		}
		p := Placement{Letter: upper(f.Letter), Position: f.Position}
		switch f.Kind {
		case Correct:
			s.correct[p] = struct{}{}
		case Present:
			s.present[p] = struct{}{}
		}
	}
	known := s.knownLetters()
	for _, f := range facts {
		if f.Kind != Absent {
			continue
		}
		letter := upper(f.Letter)
		if known.Has(letter) {
			if validPosition(f.Position) {
				s.present[Placement{Letter: letter, Position: f.Position}] = struct{}{}
			}
			continue
		}
		s.absent = s.absent.Add(letter)
	}
}

// Correct returns the known-correct placements ordered by position.
func (s *KnowledgeState) Correct() []Placement { return sortedPlacements(s.correct) }

// Present returns the misplaced placements ordered by position, then letter.
func (s *KnowledgeState) Present() []Placement { return sortedPlacements(s.present) }

// Absent returns the letters excluded from the whole word.
func (s *KnowledgeState) Absent() LetterSet { return s.absent }

// CorrectCount is the number of known-correct placements.
func (s *KnowledgeState) CorrectCount() int { return len(s.correct) }

// CorrectLetters returns the letters known to be in the right spot.
func (s *KnowledgeState) CorrectLetters() LetterSet {
	var set LetterSet
	for p := range s.correct {
		set = set.Add(p.Letter)
	}
	return set
}

func (s *KnowledgeState) knownLetters() LetterSet {
	set := s.CorrectLetters()
	for p := range s.present {
		set = set.Add(p.Letter)
	}
	return set
}

func validPosition(pos int) bool { return pos >= 1 && pos <= WordLength }

func sortedPlacements(m map[Placement]struct{}) []Placement {
	out := make([]Placement, 0, len(m))
	for p := range m {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Position != out[j].Position {
			return out[i].Position < out[j].Position
		}
		return out[i].Letter < out[j].Letter
	})
	return out
}
