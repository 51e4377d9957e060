// Package simplex drives the tableau simplex method over a session of
// tableaux: the Simplex Method starts from a chosen (or discovered) basis and
// the Artificial Basis Method finds one first through a phase-1 problem.
//
// Both keep every tableau they produced, can step forward one pivot at a time
// or solve to the end, and can step back, restoring the exact previous state.
package simplex

import (
	"log/slog"

	"github.com/pkg/errors"

	"q.log/tabsimplex/gauss"
	"q.log/tabsimplex/numeric"
	"q.log/tabsimplex/tableau"
)

var (
	ErrInvalidProblem      = errors.New("simplex: invalid problem")
	ErrBasisSize           = errors.New("simplex: point must mark one basic variable per constraint")
	ErrSingularMatrix      = gauss.ErrSingularMatrix
	ErrInfeasibleBasis     = errors.New("simplex: basis gives a negative free member")
	ErrInfeasibleProblem   = errors.New("simplex: constraints have no feasible solution")
	ErrRedundantConstraint = errors.New("simplex: redundant constraint keeps an artificial variable basic")
	ErrUnbounded           = errors.New("simplex: objective is unbounded")
	ErrIterationLimit      = errors.New("simplex: iteration limit reached")
	ErrNoHistory           = errors.New("simplex: no tableau to step back from")
	ErrFinished            = errors.New("simplex: solving has finished")
)

// Problem is min objective'x subject to the rows of Matrix, each holding the
// coefficients of x1..xn followed by the free member, and x >= 0.
type Problem[T numeric.Number[T]] struct {
	Matrix    [][]T
	Objective []T
}

// Vars returns the number of structural variables.
func (p Problem[T]) Vars() int {
	if len(p.Matrix) == 0 {
		return 0
	}
	return len(p.Matrix[0]) - 1
}

func (p Problem[T]) Constraints() int { return len(p.Matrix) }

// Validate checks the shape of the problem.
func (p Problem[T]) Validate() error {
	if len(p.Matrix) == 0 {
		return errors.Wrap(ErrInvalidProblem, "no constraints")
	}
	n := p.Vars()
	if n < 1 {
		return errors.Wrap(ErrInvalidProblem, "no variables")
	}
	for i, row := range p.Matrix {
		if len(row) != n+1 {
			return errors.Wrapf(ErrInvalidProblem, "constraint %d has %d values, want %d", i+1, len(row), n+1)
		}
	}
	if len(p.Objective) != n {
		return errors.Wrapf(ErrInvalidProblem, "objective has %d coefficients, want %d", len(p.Objective), n)
	}
	return nil
}

// Clone returns a deep copy.
func (p Problem[T]) Clone() Problem[T] {
	return Problem[T]{
		Matrix:    numeric.Clone(p.Matrix),
		Objective: append([]T(nil), p.Objective...),
	}
}

// Normalized returns a copy with every constraint whose free member is
// negative multiplied by -1.
func (p Problem[T]) Normalized() Problem[T] {
	out := p.Clone()
	for i, row := range out.Matrix {
		if row[len(row)-1].Sign() >= 0 {
			continue
		}
		for j, v := range row {
			out.Matrix[i][j] = v.Neg()
		}
	}
	return out
}

type config struct {
	logger    *slog.Logger
	precision int
	maxIter   int
	rule      tableau.Rule
	start     int
}

func newConfig(opts []Option) config {
	cfg := config{logger: slog.Default(), precision: gauss.DefaultPrecision, rule: tableau.Dantzig}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// Option configures a method.
type Option func(*config)

func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithPrecision sets the decimals kept by Gauss normalization in float mode.
func WithPrecision(places int) Option {
	return func(c *config) { c.precision = places }
}

// WithMaxIterations caps the steps one AutoSolve call may take, building a
// first tableau included; 0 means no cap.
func WithMaxIterations(n int) Option {
	return func(c *config) { c.maxIter = n }
}

func WithPivotRule(r tableau.Rule) Option {
	return func(c *config) { c.rule = r }
}

// WithStartIteration numbers the first tableau, so that a phase-2 run
// continues the counter of phase 1.
func WithStartIteration(i int) Option {
	return func(c *config) { c.start = i }
}

// autoSolve calls next while canContinue holds.
func autoSolve(cfg config, canContinue func() bool, next func() error) error {
	steps := 0
	for canContinue() {
		if cfg.maxIter > 0 && steps >= cfg.maxIter {
			return errors.Wrapf(ErrIterationLimit, "after %d iterations", steps)
		}
		if err := next(); err != nil {
			return err
		}
		steps++
	}
	return nil
}
