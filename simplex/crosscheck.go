package simplex

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize/convex/lp"

	"q.log/tabsimplex/model"
	"q.log/tabsimplex/numeric"
)

// ToModel converts p to a float model.
func ToModel[T numeric.Number[T]](p Problem[T]) (*model.Model, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	rows := make([][]float64, len(p.Matrix))
	for i, row := range p.Matrix {
		rows[i] = numeric.ToFloats([][]T{row})
	}
	return model.FromRows(rows, numeric.ToFloats([][]T{p.Objective}))
}

// FromModel converts a float model to a problem over T.
func FromModel[T numeric.Number[T]](m *model.Model) Problem[T] {
	return Problem[T]{
		Matrix:    numeric.FromFloats[T](m.Rows()),
		Objective: numeric.FromFloats[T]([][]float64{m.Objective()})[0],
	}
}

// CrossCheck solves p with gonum's simplex implementation and returns the
// optimum it finds. The returned model holds gonum's solution.
func CrossCheck[T numeric.Number[T]](p Problem[T]) (float64, *model.Model, error) {
	m, err := ToModel(p)
	if err != nil {
		return 0, nil, err
	}
	opt, x, err := lp.Simplex(m.Objective(), m.A, mat.Col(nil, 0, m.B), 0, nil)
	switch {
	case errors.Is(err, lp.ErrInfeasible):
		return 0, nil, errors.Wrap(ErrInfeasibleProblem, "gonum")
	case errors.Is(err, lp.ErrUnbounded):
		return 0, nil, errors.Wrap(ErrUnbounded, "gonum")
	case err != nil:
		return 0, nil, errors.Wrap(err, "gonum simplex")
	}
	basic := make([]bool, len(x))
	for i, v := range x {
		basic[i] = v != 0
	}
	if err := m.SetSolution(x, basic); err != nil {
		return 0, nil, err
	}
	return opt, m, nil
}
