package simplex

import (
	"log/slog"

	"github.com/pkg/errors"

	"q.log/tabsimplex/basis"
	"q.log/tabsimplex/gauss"
	"q.log/tabsimplex/numeric"
	"q.log/tabsimplex/tableau"
)

// Method is the simplex method started from a given basis. The first call to
// Next reduces the constraints with Gauss and builds the first tableau; every
// following call performs one pivot.
type Method[T numeric.Number[T]] struct {
	problem Problem[T]
	point   basis.Point
	cfg     config
	log     *slog.Logger

	seq         tableau.Sequence[T]
	canContinue bool
}

// NewMethod prepares a session. point marks the basic variables; when nil the
// basis is the one Gauss elimination finds.
func NewMethod[T numeric.Number[T]](p Problem[T], point basis.Point, opts ...Option) (*Method[T], error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if point != nil {
		if len(point) != p.Vars() {
			return nil, errors.Wrapf(ErrBasisSize, "point has %d entries for %d variables", len(point), p.Vars())
		}
		if point.Count() != p.Constraints() {
			return nil, errors.Wrapf(ErrBasisSize, "%d basic variables for %d constraints", point.Count(), p.Constraints())
		}
	}
	cfg := newConfig(opts)
	return &Method[T]{
		problem:     p.Clone(),
		point:       append(basis.Point(nil), point...),
		cfg:         cfg,
		log:         cfg.logger.With("method", "simplex"),
		canContinue: true,
	}, nil
}

func (m *Method[T]) first() (*tableau.Tableau[T], error) {
	res, err := gauss.Solve(m.problem.Matrix,
		gauss.WithPoint(m.point),
		gauss.WithPrecision(m.cfg.precision),
		gauss.WithLogger(m.cfg.logger),
	)
	if err != nil {
		return nil, errors.Wrap(err, "extract basis")
	}
	if !res.Feasible() {
		return nil, errors.Wrapf(ErrInfeasibleBasis, "basis %v, free member %v", res.Basic(), res.Free)
	}
	return tableau.New(res, m.problem.Objective, m.cfg.start)
}

// Next appends one tableau: the first one, or the result of pivoting the last
// one. A pivot set by hand on the last tableau is used as is; otherwise one is
// chosen by the configured rule.
func (m *Method[T]) Next() error {
	var (
		t   *tableau.Tableau[T]
		err error
	)
	if m.seq.Len() == 0 {
		t, err = m.first()
	} else {
		if !m.canContinue {
			return ErrFinished
		}
		last := m.seq.Last()
		if !last.FindPivot(m.cfg.rule) {
			return errors.Wrapf(ErrFinished, "tableau %d is %v", last.Iteration(), last.Status())
		}
		t, err = tableau.Next(last)
		if err == nil {
			p, _ := last.Pivot()
			m.log.Debug("pivot", "iteration", last.Iteration(), "row", p.Row, "col", p.Col)
		}
	}
	if err != nil {
		return err
	}
	m.push(t)
	return nil
}

func (m *Method[T]) push(t *tableau.Tableau[T]) {
	m.seq.Append(t)
	status := t.Status()
	m.canContinue = status == tableau.Continue
	if status.Terminal() {
		m.log.Info("finished", "status", status, "iteration", t.Iteration(), "objective", t.Objective())
	}
}

// AutoSolve steps until the last tableau is optimal or unbounded.
func (m *Method[T]) AutoSolve() error {
	return autoSolve(m.cfg, m.CanContinue, m.Next)
}

// Back removes the last tableau. The run can continue afterwards.
func (m *Method[T]) Back() error {
	if m.seq.Len() == 0 {
		return ErrNoHistory
	}
	m.seq.Pop()
	m.canContinue = true
	return nil
}

// CanContinue reports whether Next has anything left to do.
func (m *Method[T]) CanContinue() bool { return m.canContinue }

func (m *Method[T]) Len() int { return m.seq.Len() }

// Table returns the i-th tableau, or nil when there is none.
func (m *Method[T]) Table(i int) *tableau.Tableau[T] { return m.seq.At(i) }

// Last returns nil before the first step.
func (m *Method[T]) Last() *tableau.Tableau[T] { return m.seq.Last() }

func (m *Method[T]) Tables() []*tableau.Tableau[T] { return m.seq.All() }

// Iteration returns the number of the last tableau, or -1 before the first
// step of a run starting at 0.
func (m *Method[T]) Iteration() int {
	if last := m.seq.Last(); last != nil {
		return last.Iteration()
	}
	return m.cfg.start - 1
}

// Status classifies the last tableau.
func (m *Method[T]) Status() tableau.Status {
	if last := m.seq.Last(); last != nil {
		return last.Status()
	}
	return tableau.Continue
}

// Optimum returns the minimum of the objective once the last tableau is
// optimal.
func (m *Method[T]) Optimum() (T, bool) {
	last := m.seq.Last()
	if last == nil || last.Status() != tableau.Optimal {
		var zero T
		return zero, false
	}
	return last.Objective(), true
}

// Solution returns the values of x1..xn at the last tableau.
func (m *Method[T]) Solution() []T {
	if last := m.seq.Last(); last != nil {
		return last.Solution()
	}
	return nil
}

func (m *Method[T]) Problem() Problem[T] { return m.problem.Clone() }
