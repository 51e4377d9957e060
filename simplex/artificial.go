package simplex

import (
	"log/slog"

	"github.com/pkg/errors"

	"q.log/tabsimplex/basis"
	"q.log/tabsimplex/numeric"
	"q.log/tabsimplex/tableau"
)

// Phase tells which problem the last tableau of a session belongs to.
type Phase int

const (
	// PhaseOne minimizes the sum of the artificial variables.
	PhaseOne Phase = iota + 1
	// PhaseTwo is the simplex method on the original objective.
	PhaseTwo
)

func (p Phase) String() string {
	if p == PhaseTwo {
		return "phase 2"
	}
	return "phase 1"
}

// ArtificialMethod solves a problem without a known basis. Phase 1 runs the
// simplex method on the artificial problem until no artificial variable is
// basic; the basis it ends with starts a Method on the original objective.
// Both phases share one iteration counter and one history.
type ArtificialMethod[T numeric.Number[T]] struct {
	problem Problem[T]
	opts    []Option
	cfg     config
	log     *slog.Logger

	phase1 tableau.Sequence[T]
	phase2 *Method[T]

	canArtificial bool
	canSimplex    bool
}

// NewArtificialMethod prepares a two-phase session. Constraints with a
// negative free member are multiplied by -1 first.
func NewArtificialMethod[T numeric.Number[T]](p Problem[T], opts ...Option) (*ArtificialMethod[T], error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	cfg := newConfig(opts)
	return &ArtificialMethod[T]{
		problem:       p.Normalized(),
		opts:          opts,
		cfg:           cfg,
		log:           cfg.logger.With("method", "artificial"),
		canArtificial: true,
	}, nil
}

// Normalized returns the constraint matrix the session works on.
func (m *ArtificialMethod[T]) Normalized() [][]T { return numeric.Clone(m.problem.Matrix) }

// Next appends one tableau. In phase 1 it builds or pivots an artificial
// tableau; once phase 1 is complete it starts phase 2, and from then on
// steps the phase-2 method.
func (m *ArtificialMethod[T]) Next() error {
	switch {
	case m.phase2 != nil:
		if err := m.phase2.Next(); err != nil {
			return err
		}
		m.canSimplex = m.phase2.CanContinue()
		return nil
	case m.phase1.Len() == 0:
		t, err := tableau.NewArtificial(m.problem.Matrix)
		if err != nil {
			return err
		}
		return m.push(t)
	case m.canArtificial:
		last := m.phase1.Last()
		if !last.FindPivot(m.cfg.rule) {
			return errors.Wrapf(ErrFinished, "tableau %d is %v", last.Iteration(), last.Status())
		}
		t, err := tableau.Next(last)
		if err != nil {
			return err
		}
		p, _ := last.Pivot()
		m.log.Debug("pivot", "phase", PhaseOne, "iteration", last.Iteration(), "row", p.Row, "col", p.Col)
		return m.push(t)
	}

	last := m.phase1.Last()
	if err := phaseOneError(last.Status()); err != nil {
		return err
	}
	return m.startPhaseTwo(last)
}

func (m *ArtificialMethod[T]) push(t *tableau.Tableau[T]) error {
	m.phase1.Append(t)
	status := t.Status()
	m.canArtificial = status == tableau.Continue
	if status.Terminal() {
		m.log.Info("phase 1 finished", "status", status, "iteration", t.Iteration(), "objective", t.Objective())
	}
	return phaseOneError(status)
}

func phaseOneError(s tableau.Status) error {
	switch s {
	case tableau.Infeasible:
		return ErrInfeasibleProblem
	case tableau.Redundant:
		return ErrRedundantConstraint
	}
	return nil
}

func (m *ArtificialMethod[T]) startPhaseTwo(last *tableau.Tableau[T]) error {
	opts := append(append([]Option(nil), m.opts...), WithStartIteration(last.Iteration()+1))
	method, err := NewMethod(m.problem, last.Point(), opts...)
	if err != nil {
		return err
	}
	if err := method.Next(); err != nil {
		return errors.Wrap(err, "start phase 2")
	}
	m.log.Debug("phase 2 started", "basis", last.Point().Basic())
	m.phase2 = method
	m.canSimplex = method.CanContinue()
	return nil
}

// CanContinue reports whether Next has anything left to do.
func (m *ArtificialMethod[T]) CanContinue() bool {
	return m.canArtificial || m.canSimplex || m.phaseOneComplete()
}

func (m *ArtificialMethod[T]) phaseOneComplete() bool {
	if m.phase2 != nil {
		return false
	}
	last := m.phase1.Last()
	return last != nil && last.Status() == tableau.PhaseComplete
}

// AutoSolve runs both phases to the end.
func (m *ArtificialMethod[T]) AutoSolve() error {
	return autoSolve(m.cfg, m.CanContinue, m.Next)
}

// Back removes the last tableau and restores the state the session had
// before it was appended. Removing the first phase-2 tableau returns to the
// end of phase 1.
func (m *ArtificialMethod[T]) Back() error {
	if m.Len() == 0 {
		return ErrNoHistory
	}
	if m.phase2 != nil {
		if err := m.phase2.Back(); err != nil {
			return err
		}
		if m.phase2.Len() == 0 {
			m.phase2 = nil
		}
	} else {
		m.phase1.Pop()
	}

	last := m.Last()
	switch {
	case last == nil:
		m.canArtificial = true
		m.canSimplex = false
	case last.Kind() == tableau.KindArtificial:
		m.canArtificial = last.Status() == tableau.Continue
		m.canSimplex = false
	default:
		m.canArtificial = false
		m.canSimplex = m.phase2.CanContinue()
	}
	return nil
}

// Len returns the number of tableaux of both phases.
func (m *ArtificialMethod[T]) Len() int {
	n := m.phase1.Len()
	if m.phase2 != nil {
		n += m.phase2.Len()
	}
	return n
}

// Table returns the i-th tableau of the session, phase 1 first, or nil when
// there is none.
func (m *ArtificialMethod[T]) Table(i int) *tableau.Tableau[T] {
	if i < m.phase1.Len() {
		return m.phase1.At(i)
	}
	if m.phase2 == nil {
		return nil
	}
	return m.phase2.Table(i - m.phase1.Len())
}

// Tables returns the tableaux of both phases in order.
func (m *ArtificialMethod[T]) Tables() []*tableau.Tableau[T] {
	out := m.phase1.All()
	if m.phase2 != nil {
		out = append(out, m.phase2.Tables()...)
	}
	return out
}

// Last returns nil before the first step.
func (m *ArtificialMethod[T]) Last() *tableau.Tableau[T] {
	if m.phase2 != nil && m.phase2.Len() > 0 {
		return m.phase2.Last()
	}
	return m.phase1.Last()
}

// Iteration returns the number of the last tableau, -1 before the first step.
func (m *ArtificialMethod[T]) Iteration() int {
	if last := m.Last(); last != nil {
		return last.Iteration()
	}
	return -1
}

// Phase is derived from the kind of the last tableau.
func (m *ArtificialMethod[T]) Phase() Phase {
	if last := m.Last(); last != nil && last.Kind() == tableau.KindSimplex {
		return PhaseTwo
	}
	return PhaseOne
}

// Status classifies the last tableau.
func (m *ArtificialMethod[T]) Status() tableau.Status {
	if last := m.Last(); last != nil {
		return last.Status()
	}
	return tableau.Continue
}

// Point returns the basis phase 1 ended with, or nil while it runs.
func (m *ArtificialMethod[T]) Point() basis.Point {
	last := m.phase1.Last()
	if last == nil || last.Status() != tableau.PhaseComplete {
		return nil
	}
	return last.Point()
}

// Optimum returns the minimum of the original objective once phase 2 is
// optimal.
func (m *ArtificialMethod[T]) Optimum() (T, bool) {
	if m.phase2 == nil {
		var zero T
		return zero, false
	}
	return m.phase2.Optimum()
}

// Solution returns the values of x1..xn at the last tableau.
func (m *ArtificialMethod[T]) Solution() []T {
	if last := m.Last(); last != nil {
		return last.Solution()
	}
	return nil
}
