// Package gauss reduces a constraint matrix to the form that exposes a basis:
// the first m structural columns become the identity, the rest is the block a
// first simplex tableau is built from.
//
// Elimination uses cross-multiplication (row_j*a_ii - row_i*a_ji) and divides
// only when a pivot row is normalized, so exact values stay small. Columns
// that can not provide a pivot are moved in front of the free-member column.
package gauss

import (
	"log/slog"

	"github.com/pkg/errors"

	"q.log/tabsimplex/basis"
	"q.log/tabsimplex/numeric"
)

var (
	// ErrSingularMatrix means no basis can be read off the reduced matrix.
	ErrSingularMatrix = errors.New("gauss: singular matrix")
	// ErrMalformedMatrix reports an empty or ragged matrix, or a point of the
	// wrong width.
	ErrMalformedMatrix = errors.New("gauss: malformed matrix")
)

// DefaultPrecision is the number of decimals kept in non-exact mode.
const DefaultPrecision = 3

type config struct {
	point     basis.Point
	precision int
	logger    *slog.Logger
}

// Option configures Solve.
type Option func(*config)

// WithPoint asks for the marked variables to become the basis.
func WithPoint(p basis.Point) Option {
	return func(c *config) { c.point = p }
}

// WithPrecision sets the decimals normalized rows are rounded to (Float only).
func WithPrecision(places int) Option {
	return func(c *config) { c.precision = places }
}

func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// Result is a matrix in basic form.
type Result[T numeric.Number[T]] struct {
	// Vars is the final order of the structural variables; the first
	// len(Free) of them are basic.
	Vars []basis.Var
	// Free is the free-member column.
	Free []T
	// Block holds the coefficients of the non-basic variables, one row per
	// constraint.
	Block [][]T
	// Tolerance is the rounding noise of the values; zero in exact mode.
	Tolerance T
}

func (r *Result[T]) Basic() []basis.Var    { return r.Vars[:len(r.Free)] }
func (r *Result[T]) NonBasic() []basis.Var { return r.Vars[len(r.Free):] }

// Feasible reports whether every free member is non-negative.
func (r *Result[T]) Feasible() bool {
	for _, v := range r.Free {
		if numeric.SignWithin(v, r.Tolerance) < 0 {
			return false
		}
	}
	return true
}

// solver holds the working copy. The free member is the last column of m and
// is never moved; vars labels the n structural columns.
type solver[T numeric.Number[T]] struct {
	m    [][]T
	vars []basis.Var
	n    int
	cfg  config
}

// Solve reduces matrix, whose rows are constraint coefficients followed by
// the free member. matrix is not modified.
func Solve[T numeric.Number[T]](matrix [][]T, opts ...Option) (*Result[T], error) {
	cfg := config{precision: DefaultPrecision, logger: slog.Default()}
	for _, opt := range opts {
		opt(&cfg)
	}

	if len(matrix) == 0 || len(matrix[0]) < 2 {
		return nil, errors.Wrap(ErrMalformedMatrix, "need at least one row and one variable")
	}
	width := len(matrix[0])
	for i, row := range matrix {
		if len(row) != width {
			return nil, errors.Wrapf(ErrMalformedMatrix, "row %d has %d values, want %d", i+1, len(row), width)
		}
	}
	if cfg.point != nil && len(cfg.point) != width-1 {
		return nil, errors.Wrapf(ErrMalformedMatrix, "point has %d entries, want %d", len(cfg.point), width-1)
	}

	s := &solver[T]{
		m:    numeric.Clone(matrix),
		vars: basis.Vars(width - 1),
		n:    width - 1,
		cfg:  cfg,
	}
	log := cfg.logger.With("rows", len(s.m), "vars", s.n)
	log.Debug("gauss: start", "point", cfg.point)

	if cfg.point != nil {
		s.order(cfg.point)
	}
	s.relocateZeroColumns()
	s.forward()
	s.backward()

	if !s.nonSingular() {
		log.Debug("gauss: singular", "order", s.vars)
		return nil, ErrSingularMatrix
	}
	log.Debug("gauss: done", "order", s.vars)
	return s.result(), nil
}

// order moves the requested variables to the front, exchanging columns the
// way a selection sort exchanges elements.
func (s *solver[T]) order(point basis.Point) {
	p := append(basis.Point(nil), point...)
	for i := 0; i < s.n; i++ {
		for j := i; j < s.n; j++ {
			if p[j] && !p[i] {
				p[i], p[j] = p[j], p[i]
				s.swapColumns(i, j)
			}
		}
	}
}

func (s *solver[T]) forward() {
	rows := len(s.m)
	for step := 0; step < rows && step < s.n; step++ {
		if !s.prepare(step, step+1, rows) {
			continue
		}
		for k := step + 1; k < rows; k++ {
			s.subtract(step, k)
		}
		s.normalize(step)
		s.relocateZeroColumns()
	}
}

func (s *solver[T]) backward() {
	last := min(len(s.m), s.n) - 1
	for step := last; step >= 0; step-- {
		if !s.prepare(step, 0, step) {
			continue
		}
		for k := 0; k < step; k++ {
			s.subtract(step, k)
		}
		s.normalize(step)
		s.relocateZeroColumns()
	}
}

// prepare makes m[step][step] non-zero, first by swapping in a row from
// [from, to), then by deferring the column and trying the next one. It
// reports false once every remaining column was tried.
func (s *solver[T]) prepare(step, from, to int) bool {
	for tries := s.n - step; ; tries-- {
		if !s.m[step][step].IsZero() {
			return true
		}
		for r := from; r < to; r++ {
			if !s.m[r][step].IsZero() {
				s.m[step], s.m[r] = s.m[r], s.m[step]
				return true
			}
		}
		if tries <= 1 {
			return false
		}
		s.moveColumnBack(step)
	}
}

// subtract sets row j to row_j*a_ii - row_i*a_ji, clearing column i of row j.
func (s *solver[T]) subtract(i, j int) {
	pivot, factor := s.m[i][i], s.m[j][i]
	for k := range s.m[j] {
		s.m[j][k] = s.m[j][k].Mul(pivot).Sub(s.m[i][k].Mul(factor))
	}
}

func (s *solver[T]) normalize(i int) {
	coeff := s.m[i][i]
	if coeff.IsZero() {
		return
	}
	for k := i; k < len(s.m[i]); k++ {
		s.m[i][k] = s.m[i][k].Quo(coeff).Round(s.cfg.precision)
	}
}

func (s *solver[T]) swapColumns(i, j int) {
	for _, row := range s.m {
		row[i], row[j] = row[j], row[i]
	}
	s.vars[i], s.vars[j] = s.vars[j], s.vars[i]
}

// moveColumnBack moves structural column j right in front of the free member.
func (s *solver[T]) moveColumnBack(j int) {
	for _, row := range s.m {
		v := row[j]
		copy(row[j:s.n-1], row[j+1:s.n])
		row[s.n-1] = v
	}
	v := s.vars[j]
	copy(s.vars[j:s.n-1], s.vars[j+1:s.n])
	s.vars[s.n-1] = v
}

// relocateZeroColumns inspects every structural column once and defers the
// all-zero ones.
func (s *solver[T]) relocateZeroColumns() {
	for j, seen := 0, 0; seen < s.n; seen++ {
		if s.zeroColumn(j) {
			s.moveColumnBack(j)
			continue
		}
		j++
	}
}

func (s *solver[T]) zeroColumn(j int) bool {
	for _, row := range s.m {
		if !row[j].IsZero() {
			return false
		}
	}
	return true
}

// nonSingular holds when the leading m structural columns form the identity.
func (s *solver[T]) nonSingular() bool {
	rows := len(s.m)
	if rows > s.n {
		return false
	}
	one := numeric.One[T]()
	for j := 0; j < rows; j++ {
		for i := 0; i < rows; i++ {
			v := s.m[i][j]
			if i == j && v.Cmp(one) != 0 {
				return false
			}
			if i != j && !v.IsZero() {
				return false
			}
		}
	}
	return true
}

// result reads the basic form off the reduced matrix. Rounding residue, such
// as -0.001 left where 0 is meant, is cleared to zero.
func (s *solver[T]) result() *Result[T] {
	rows := len(s.m)
	res := &Result[T]{
		Vars:      append([]basis.Var(nil), s.vars...),
		Free:      make([]T, rows),
		Block:     make([][]T, rows),
		Tolerance: numeric.Tolerance[T](s.cfg.precision),
	}
	for i, row := range s.m {
		res.Free[i] = res.snap(row[s.n])
		res.Block[i] = make([]T, 0, s.n-rows)
		for _, v := range row[rows:s.n] {
			res.Block[i] = append(res.Block[i], res.snap(v))
		}
	}
	return res
}

func (r *Result[T]) snap(v T) T {
	if numeric.SignWithin(v, r.Tolerance) == 0 {
		return numeric.Zero[T]()
	}
	return v
}
