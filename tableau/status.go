package tableau

import "q.log/tabsimplex/basis"

// Status classifies a tableau.
type Status int

const (
	// Continue: another pivot step is possible and needed.
	Continue Status = iota
	// Optimal: every reduced cost is non-negative.
	Optimal
	// Unbounded: a column with negative reduced cost has no positive entry.
	Unbounded
	// PhaseComplete: no artificial variable is left in a phase-1 basis.
	PhaseComplete
	// Infeasible: phase 1 stopped with a positive sum of artificials.
	Infeasible
	// Redundant: phase 1 stopped at zero but an artificial variable can not
	// be driven out of the basis.
	Redundant
)

func (s Status) String() string {
	switch s {
	case Continue:
		return "continue"
	case Optimal:
		return "optimal"
	case Unbounded:
		return "unbounded"
	case PhaseComplete:
		return "phase complete"
	case Infeasible:
		return "infeasible"
	case Redundant:
		return "redundant"
	}
	return "unknown"
}

// Terminal reports whether no further step is expected.
func (s Status) Terminal() bool { return s != Continue }

// IsOptimal holds when no reduced cost is negative.
func (t *Tableau[T]) IsOptimal() bool {
	for _, p := range t.Reduced() {
		if t.sign(p) < 0 {
			return false
		}
	}
	return true
}

// IsUnbounded holds when some column with a negative reduced cost has no
// positive entry. It is meaningful only for a tableau that is not optimal.
func (t *Tableau[T]) IsUnbounded() bool {
	m := t.layout.NumRows()
	for j, p := range t.Reduced() {
		if t.sign(p) >= 0 {
			continue
		}
		bounded := false
		for i := 0; i < m; i++ {
			if t.sign(t.data[i][j]) > 0 {
				bounded = true
				break
			}
		}
		if !bounded {
			return true
		}
	}
	return false
}

// CanIterate holds when some column with a negative reduced cost has a
// strictly positive entry, that is, when the ratio test can pick a row.
func (t *Tableau[T]) CanIterate() bool {
	m := t.layout.NumRows()
	for j, p := range t.Reduced() {
		if t.sign(p) >= 0 {
			continue
		}
		for i := 0; i < m; i++ {
			if t.sign(t.data[i][j]) > 0 {
				return true
			}
		}
	}
	return false
}

// LegacyCanIterate is the older continuation test: a negative reduced cost
// whose column has an entry that is not positive. It disagrees with
// CanIterate and is not used by the solvers.
func (t *Tableau[T]) LegacyCanIterate() bool {
	m := t.layout.NumRows()
	for j, p := range t.Reduced() {
		if t.sign(p) >= 0 {
			continue
		}
		for i := 0; i < m; i++ {
			if t.sign(t.data[i][j]) <= 0 {
				return true
			}
		}
	}
	return false
}

// HasArtificialBasis reports whether an artificial variable is basic.
func (t *Tableau[T]) HasArtificialBasis() bool {
	for _, v := range t.layout.Rows() {
		if t.IsArtificial(v) {
			return true
		}
	}
	return false
}

// Point marks the structural variables of the basis.
func (t *Tableau[T]) Point() basis.Point {
	p := make(basis.Point, t.structural)
	for _, v := range t.layout.Rows() {
		if !t.IsArtificial(v) {
			p[v] = true
		}
	}
	return p
}

// Status classifies the tableau. Simplex tableaux are tested for optimality
// first, then for unboundedness. Phase-1 tableaux are complete once the basis
// holds no artificial variable.
func (t *Tableau[T]) Status() Status {
	if t.kind == KindArtificial {
		switch {
		case !t.HasArtificialBasis():
			return PhaseComplete
		case t.hasCandidate():
			return Continue
		case t.sign(t.Objective()) > 0:
			return Infeasible
		default:
			return Redundant
		}
	}
	switch {
	case t.IsOptimal():
		return Optimal
	case t.IsUnbounded():
		return Unbounded
	default:
		return Continue
	}
}

func (t *Tableau[T]) hasCandidate() bool {
	_, _, ok := t.choose(Dantzig)
	return ok
}
