// Package tableau implements the simplex tableau: its construction from a
// reduced constraint matrix, the exchange (pivot) step producing the next
// tableau, pivot selection and the termination tests.
//
// A tableau has one row per basic variable plus the objective row, and one
// column per non-basic variable plus the free-member column. Row i reads
//
//	x_B(i) + sum_j a(i,j)*x_N(j) = b(i)
//
// and the objective row holds the reduced costs followed by the negated
// objective value. Tableaux are never changed once built, apart from the
// pivot annotation; Next derives the successor.
package tableau

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	"q.log/tabsimplex/basis"
	"q.log/tabsimplex/gauss"
	"q.log/tabsimplex/numeric"
)

var (
	ErrNoPivot        = errors.New("tableau: no pivot element selected")
	ErrZeroPivot      = errors.New("tableau: pivot element is zero")
	ErrIllegalPivot   = errors.New("tableau: cell is not a legal pivot")
	ErrOutOfRange     = errors.New("tableau: cell out of range")
	ErrObjectiveSize  = errors.New("tableau: objective does not match the variables")
	ErrNegativeMember = errors.New("tableau: negative free member")
)

// Kind tells a standard simplex tableau from a phase-1 (artificial basis) one.
type Kind int

const (
	KindSimplex Kind = iota
	KindArtificial
)

func (k Kind) String() string {
	if k == KindArtificial {
		return "artificial"
	}
	return "simplex"
}

// Pivot names a pivot element by the variables of its row and column.
type Pivot struct {
	Row basis.Var
	Col basis.Var
}

type Tableau[T numeric.Number[T]] struct {
	kind       Kind
	iteration  int
	index      int
	prev       int
	structural int
	layout     *basis.Layout
	data       [][]T
	// tol is the magnitude taken for zero when signs decide a step
	tol T

	pivot     *Pivot
	autoPivot bool
}

// New builds the first tableau of a simplex run from a Gauss result and the
// objective coefficients of x1..xn, which are minimized.
func New[T numeric.Number[T]](res *gauss.Result[T], objective []T, iteration int) (*Tableau[T], error) {
	if len(objective) != len(res.Vars) {
		return nil, errors.Wrapf(ErrObjectiveSize, "%d coefficients for %d variables", len(objective), len(res.Vars))
	}
	m, k := len(res.Free), len(res.Vars)-len(res.Free)
	t := &Tableau[T]{
		kind:       KindSimplex,
		iteration:  iteration,
		index:      -1,
		prev:       -1,
		structural: len(res.Vars),
		layout:     basis.NewLayout(res.Basic(), res.NonBasic()),
		data:       make([][]T, m+1),
		tol:        res.Tolerance,
	}
	for i := 0; i < m; i++ {
		t.data[i] = append(append(make([]T, 0, k+1), res.Block[i]...), res.Free[i])
	}
	t.data[m] = make([]T, k+1)
	t.computeObjective(objective)
	return t, nil
}

// NewArtificial builds the phase-1 tableau straight from a constraint matrix
// whose free members are non-negative. Row i is labelled by the artificial
// variable x(n+i+1); the phase-1 objective is the sum of the artificials.
func NewArtificial[T numeric.Number[T]](matrix [][]T) (*Tableau[T], error) {
	if len(matrix) == 0 || len(matrix[0]) < 2 {
		return nil, errors.Wrap(gauss.ErrMalformedMatrix, "need at least one row and one variable")
	}
	m, n := len(matrix), len(matrix[0])-1
	rows := make([]basis.Var, m)
	for i := range rows {
		rows[i] = basis.Var(n + i)
	}
	t := &Tableau[T]{
		kind:       KindArtificial,
		index:      -1,
		prev:       -1,
		structural: n,
		layout:     basis.NewLayout(rows, basis.Vars(n)),
		data:       make([][]T, m+1),
	}
	for i, row := range matrix {
		if len(row) != n+1 {
			return nil, errors.Wrapf(gauss.ErrMalformedMatrix, "row %d has %d values, want %d", i+1, len(row), n+1)
		}
		if row[n].Sign() < 0 {
			return nil, errors.Wrapf(ErrNegativeMember, "row %d", i+1)
		}
		t.data[i] = append([]T(nil), row...)
	}
	t.data[m] = make([]T, n+1)

	costs := make([]T, n+m)
	zero, one := numeric.Zero[T](), numeric.One[T]()
	for v := range costs {
		costs[v] = zero
		if v >= n {
			costs[v] = one
		}
	}
	t.computeObjective(costs)
	return t, nil
}

// computeObjective fills the objective row from the cost of every variable:
// p(j) = c(x_N(j)) - sum_i c(x_B(i))*a(i,j), and the free cell is
// -sum_i c(x_B(i))*b(i).
func (t *Tableau[T]) computeObjective(costs []T) {
	m, k := t.layout.NumRows(), t.layout.NumCols()
	p := t.data[m]
	for j := 0; j < k; j++ {
		s := costs[t.layout.Col(j)]
		for i := 0; i < m; i++ {
			s = s.Sub(costs[t.layout.Row(i)].Mul(t.data[i][j]))
		}
		p[j] = s
	}
	s := numeric.Zero[T]()
	for i := 0; i < m; i++ {
		s = s.Sub(costs[t.layout.Row(i)].Mul(t.data[i][k]))
	}
	p[k] = s
}

func (t *Tableau[T]) Kind() Kind { return t.kind }

// Iteration is the number of the tableau within its solve session.
func (t *Tableau[T]) Iteration() int { return t.iteration }

// Index is the position in the owning sequence, -1 before it is appended.
func (t *Tableau[T]) Index() int { return t.index }

// Predecessor is the sequence position this tableau was derived from, -1 for
// a tableau built from a matrix.
func (t *Tableau[T]) Predecessor() int { return t.prev }

// Size returns the dimensions of the value grid, objective row and
// free-member column included.
func (t *Tableau[T]) Size() (rows, cols int) {
	return len(t.data), len(t.data[0])
}

// Constraints is the number of constraint rows.
func (t *Tableau[T]) Constraints() int { return t.layout.NumRows() }

// Structural is the number of problem variables, artificials excluded.
func (t *Tableau[T]) Structural() int { return t.structural }

// IsArtificial reports whether v is an artificial variable.
func (t *Tableau[T]) IsArtificial(v basis.Var) bool { return int(v) >= t.structural }

func (t *Tableau[T]) RowVars() []basis.Var { return t.layout.Rows() }
func (t *Tableau[T]) ColVars() []basis.Var { return t.layout.Cols() }

func (t *Tableau[T]) At(i, j int) T { return t.data[i][j] }

func (t *Tableau[T]) Row(i int) []T { return append([]T(nil), t.data[i]...) }

func (t *Tableau[T]) Column(j int) []T {
	col := make([]T, len(t.data))
	for i, row := range t.data {
		col[i] = row[j]
	}
	return col
}

// Values returns a copy of the whole grid.
func (t *Tableau[T]) Values() [][]T { return numeric.Clone(t.data) }

// FreeMember returns the free members of the constraint rows.
func (t *Tableau[T]) FreeMember() []T {
	m, k := t.layout.NumRows(), t.layout.NumCols()
	out := make([]T, m)
	for i := 0; i < m; i++ {
		out[i] = t.data[i][k]
	}
	return out
}

// Reduced returns the reduced costs (the P-vector without its free cell).
func (t *Tableau[T]) Reduced() []T {
	m, k := t.layout.NumRows(), t.layout.NumCols()
	return append([]T(nil), t.data[m][:k]...)
}

// Objective is the objective value of the current basic solution.
func (t *Tableau[T]) Objective() T {
	m, k := t.layout.NumRows(), t.layout.NumCols()
	return t.data[m][k].Neg()
}

// Solution returns the value of x1..xn in the current basic solution.
func (t *Tableau[T]) Solution() []T {
	x := make([]T, t.structural)
	for v := range x {
		x[v] = numeric.Zero[T]()
	}
	for i, b := range t.FreeMember() {
		if v := t.layout.Row(i); !t.IsArtificial(v) {
			x[v] = b
		}
	}
	return x
}

func (t *Tableau[T]) sign(v T) int { return numeric.SignWithin(v, t.tol) }

// Dense copies the grid into a gonum matrix.
func (t *Tableau[T]) Dense() *mat.Dense {
	r, c := t.Size()
	return mat.NewDense(r, c, numeric.ToFloats(t.data))
}
