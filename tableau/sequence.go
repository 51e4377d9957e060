package tableau

import "q.log/tabsimplex/numeric"

// Sequence is the history of one solve session. Position 0 is the first
// tableau; every later one was derived from its predecessor by one pivot.
// It only grows at the end and shrinks from the end.
type Sequence[T numeric.Number[T]] struct {
	tables []*Tableau[T]
}

// Append records t at the end and stamps its position.
func (s *Sequence[T]) Append(t *Tableau[T]) {
	t.index = len(s.tables)
	s.tables = append(s.tables, t)
}

// Pop removes the last tableau. A pivot that was picked automatically on the
// new last tableau to derive the removed one is forgotten as well, so the
// sequence is exactly what it was before the step; a pivot set by hand stays.
func (s *Sequence[T]) Pop() *Tableau[T] {
	if len(s.tables) == 0 {
		return nil
	}
	t := s.tables[len(s.tables)-1]
	s.tables[len(s.tables)-1] = nil
	s.tables = s.tables[:len(s.tables)-1]
	if last := s.Last(); last != nil && last.AutoPivot() && t.prev == last.index {
		last.UnsetPivot()
	}
	return t
}

func (s *Sequence[T]) Len() int { return len(s.tables) }

// At returns nil when i is out of range.
func (s *Sequence[T]) At(i int) *Tableau[T] {
	if i < 0 || i >= len(s.tables) {
		return nil
	}
	return s.tables[i]
}

// Last returns nil for an empty sequence.
func (s *Sequence[T]) Last() *Tableau[T] {
	if len(s.tables) == 0 {
		return nil
	}
	return s.tables[len(s.tables)-1]
}

// All returns the tableaux in order.
func (s *Sequence[T]) All() []*Tableau[T] {
	return append([]*Tableau[T](nil), s.tables...)
}
