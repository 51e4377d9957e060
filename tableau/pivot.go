package tableau

import (
	"github.com/pkg/errors"

	"q.log/tabsimplex/numeric"
)

// Rule is the pivot selection policy.
type Rule int

const (
	// Dantzig enters the most negative reduced cost; ties go to the first
	// column and the first row.
	Dantzig Rule = iota
	// Bland enters the eligible variable with the smallest index and breaks
	// ratio ties by the smallest leaving index. It never cycles.
	Bland
)

func (r Rule) String() string {
	if r == Bland {
		return "bland"
	}
	return "dantzig"
}

// ParseRule reads "dantzig" or "bland".
func ParseRule(s string) (Rule, error) {
	switch s {
	case "", "dantzig":
		return Dantzig, nil
	case "bland":
		return Bland, nil
	}
	return Dantzig, errors.Errorf("tableau: unknown pivot rule %q", s)
}

// Pivot returns the selected pivot element, if any.
func (t *Tableau[T]) Pivot() (Pivot, bool) {
	if t.pivot == nil {
		return Pivot{}, false
	}
	return *t.pivot, true
}

func (t *Tableau[T]) HasPivot() bool { return t.pivot != nil }

// PivotIndex resolves the pivot to its row and column.
func (t *Tableau[T]) PivotIndex() (i, j int, ok bool) {
	if t.pivot == nil {
		return -1, -1, false
	}
	i, _ = t.layout.RowOf(t.pivot.Row)
	j, _ = t.layout.ColOf(t.pivot.Col)
	return i, j, true
}

// SetPivot selects cell (i, j) as the pivot element. The cell must pass
// IsPossiblePivot.
func (t *Tableau[T]) SetPivot(i, j int) error {
	if i < 0 || i >= t.layout.NumRows() || j < 0 || j >= t.layout.NumCols() {
		return errors.Wrapf(ErrOutOfRange, "(%d, %d)", i, j)
	}
	if t.data[i][j].IsZero() {
		return errors.Wrapf(ErrZeroPivot, "(%v, %v)", t.layout.Row(i), t.layout.Col(j))
	}
	if !t.IsPossiblePivot(i, j) {
		return errors.Wrapf(ErrIllegalPivot, "(%v, %v)", t.layout.Row(i), t.layout.Col(j))
	}
	t.pivot = &Pivot{Row: t.layout.Row(i), Col: t.layout.Col(j)}
	t.autoPivot = false
	return nil
}

func (t *Tableau[T]) UnsetPivot() {
	t.pivot = nil
	t.autoPivot = false
}

// AutoPivot reports whether the pivot was chosen by FindPivot.
func (t *Tableau[T]) AutoPivot() bool { return t.pivot != nil && t.autoPivot }

// FindPivot selects a pivot element by rule unless one is already set. It
// reports whether the tableau has a pivot afterwards.
func (t *Tableau[T]) FindPivot(rule Rule) bool {
	if t.pivot != nil {
		return true
	}
	i, j, ok := t.choose(rule)
	if !ok {
		return false
	}
	t.pivot = &Pivot{Row: t.layout.Row(i), Col: t.layout.Col(j)}
	t.autoPivot = true
	return true
}

// IsPossiblePivot reports whether (i, j) may be chosen as pivot: the column
// is allowed to enter and the row attains the minimum ratio. In a phase-1
// tableau that can no longer improve, every non-zero structural entry of a
// row with a basic artificial variable is allowed too.
func (t *Tableau[T]) IsPossiblePivot(i, j int) bool {
	if i < 0 || i >= t.layout.NumRows() || j < 0 || j >= t.layout.NumCols() {
		return false
	}
	if t.eligible(j) {
		rows := t.ratioRows(j)
		for _, r := range rows {
			if r == i {
				return true
			}
		}
		return false
	}
	if t.driveOutState() {
		return t.driveOutCell(i, j)
	}
	return false
}

// eligible reports whether column j may enter the basis: negative reduced
// cost, a positive entry to bound the step, and not an artificial variable.
func (t *Tableau[T]) eligible(j int) bool {
	m := t.layout.NumRows()
	if t.sign(t.data[m][j]) >= 0 || t.IsArtificial(t.layout.Col(j)) {
		return false
	}
	for i := 0; i < m; i++ {
		if t.sign(t.data[i][j]) > 0 {
			return true
		}
	}
	return false
}

// ratioRows returns the rows attaining the minimum of b(i)/a(i,j) over the
// positive entries of column j, in row order.
func (t *Tableau[T]) ratioRows(j int) []int {
	m, k := t.layout.NumRows(), t.layout.NumCols()
	var (
		rows []int
		best T
	)
	for i := 0; i < m; i++ {
		if t.sign(t.data[i][j]) <= 0 {
			continue
		}
		ratio := t.data[i][k].Quo(t.data[i][j])
		switch {
		case rows == nil || ratio.Cmp(best) < 0:
			rows, best = []int{i}, ratio
		case ratio.Cmp(best) == 0:
			rows = append(rows, i)
		}
	}
	return rows
}

func (t *Tableau[T]) choose(rule Rule) (int, int, bool) {
	m := t.layout.NumRows()
	col := -1
	for j := 0; j < t.layout.NumCols(); j++ {
		if !t.eligible(j) {
			continue
		}
		switch {
		case col < 0:
			col = j
		case rule == Bland:
			if t.layout.Col(j) < t.layout.Col(col) {
				col = j
			}
		case t.data[m][j].Cmp(t.data[m][col]) < 0:
			col = j
		}
	}
	if col >= 0 {
		rows := t.ratioRows(col)
		row := rows[0]
		if rule == Bland {
			for _, r := range rows[1:] {
				if t.layout.Row(r) < t.layout.Row(row) {
					row = r
				}
			}
		}
		return row, col, true
	}

	if t.driveOutState() {
		for i := 0; i < m; i++ {
			for j := 0; j < t.layout.NumCols(); j++ {
				if t.driveOutCell(i, j) {
					return i, j, true
				}
			}
		}
	}
	return -1, -1, false
}

// driveOutState holds when a phase-1 tableau has reached a zero optimum
// with artificial variables still basic at zero level.
func (t *Tableau[T]) driveOutState() bool {
	if t.kind != KindArtificial || !t.HasArtificialBasis() || t.sign(t.Objective()) != 0 {
		return false
	}
	for j := 0; j < t.layout.NumCols(); j++ {
		if t.eligible(j) {
			return false
		}
	}
	return true
}

func (t *Tableau[T]) driveOutCell(i, j int) bool {
	return t.IsArtificial(t.layout.Row(i)) &&
		!t.IsArtificial(t.layout.Col(j)) &&
		t.sign(t.data[i][j]) != 0
}

// Next derives the tableau that follows prev by exchanging the variables of
// its pivot element:
//
//	pivot cell   1/p
//	pivot row    a(r,j)/p
//	pivot column -a(i,s)/p
//	other cells  a(i,j) - a(i,s)*a'(r,j)
//
// where a' is the new pivot row. The objective row is transformed like any
// other row.
func Next[T numeric.Number[T]](prev *Tableau[T]) (*Tableau[T], error) {
	if prev.pivot == nil {
		return nil, ErrNoPivot
	}
	r, rok := prev.layout.RowOf(prev.pivot.Row)
	s, sok := prev.layout.ColOf(prev.pivot.Col)
	if !rok || !sok {
		return nil, errors.Wrapf(ErrOutOfRange, "pivot (%v, %v)", prev.pivot.Row, prev.pivot.Col)
	}
	return Exchange(prev, r, s)
}

// Exchange applies the pivot transform of Next at cell (r, s) of prev,
// whether or not the simplex rules would choose it. Exchanging back at the
// cell the pair moved to restores prev. prev's pivot annotation is ignored.
func Exchange[T numeric.Number[T]](prev *Tableau[T], r, s int) (*Tableau[T], error) {
	if r < 0 || r >= prev.layout.NumRows() || s < 0 || s >= prev.layout.NumCols() {
		return nil, errors.Wrapf(ErrOutOfRange, "(%d, %d)", r, s)
	}
	p := prev.data[r][s]
	if p.IsZero() {
		return nil, errors.Wrapf(ErrZeroPivot, "(%v, %v)", prev.layout.Row(r), prev.layout.Col(s))
	}

	next := &Tableau[T]{
		kind:       prev.kind,
		iteration:  prev.iteration + 1,
		index:      -1,
		prev:       prev.index,
		structural: prev.structural,
		layout:     prev.layout.Clone(),
		data:       make([][]T, len(prev.data)),
		tol:        prev.tol,
	}
	next.layout.Exchange(r, s)

	inv := numeric.One[T]().Quo(p)
	pivotRow := make([]T, len(prev.data[r]))
	for j, v := range prev.data[r] {
		if j == s {
			pivotRow[j] = inv
			continue
		}
		pivotRow[j] = v.Quo(p)
	}

	for i, row := range prev.data {
		if i == r {
			next.data[i] = pivotRow
			continue
		}
		factor := row[s]
		out := make([]T, len(row))
		for j, v := range row {
			if j == s {
				out[j] = factor.Quo(p).Neg()
				continue
			}
			out[j] = v.Sub(factor.Mul(pivotRow[j]))
		}
		next.data[i] = out
	}
	return next, nil
}
