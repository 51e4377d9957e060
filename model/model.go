package model

import (
	"errors"
	"fmt"
	"io"

	"gonum.org/v1/gonum/mat"
)

type Variable struct {
	Name    string
	Value   float64
	IsBasic bool
	IsSlack bool
}

// Model is a linear program in equality form, min c'x s.t. Ax = b, x >= 0,
// kept in gonum matrices.
type Model struct {
	//V variables
	V []*Variable

	//C objective function coefficients
	C *mat.Dense

	//A constraints matrix
	A *mat.Dense

	//B constraints rhs
	B *mat.Dense

	//X values of the variables, i.e. the solution
	X *mat.Dense

	SlackIndexes []int

	// Maximize is set when C holds the negated objective of a max problem.
	Maximize bool

	NumRows int
	NumCols int
}

func NewModel(numRows, numCols int) *Model {
	return &Model{
		C:       mat.NewDense(1, numCols, nil),
		A:       mat.NewDense(numRows, numCols, nil),
		B:       mat.NewDense(numRows, 1, nil),
		X:       mat.NewDense(numCols, 1, nil),
		NumRows: numRows,
		NumCols: numCols,
	}
}

// FromRows builds a model from constraint rows that end with their free
// member.
func FromRows(rows [][]float64, c []float64) (*Model, error) {
	if len(rows) == 0 || len(rows[0]) < 2 {
		return nil, errors.New("need at least one constraint and one variable")
	}
	m := NewModel(len(rows), len(rows[0])-1)
	aVec := make([]float64, 0, m.NumRows*m.NumCols)
	bVec := make([]float64, 0, m.NumRows)
	for _, row := range rows {
		if len(row) != m.NumCols+1 {
			return nil, errors.New("mismatch number of variables in constraint rows")
		}
		aVec = append(aVec, row[:m.NumCols]...)
		bVec = append(bVec, row[m.NumCols])
	}
	if err := m.SetA(aVec); err != nil {
		return nil, err
	}
	if err := m.SetB(bVec); err != nil {
		return nil, err
	}
	if err := m.SetC(c); err != nil {
		return nil, err
	}
	m.CreateVariables()
	return m, nil
}

func (m *Model) SetC(cVec []float64) error {
	if len(cVec) != m.NumCols {
		return errors.New("mismatch number of variables")
	}

	m.C = mat.NewDense(1, m.NumCols, append([]float64(nil), cVec...))

	return nil
}

func (m *Model) SetA(aVec []float64) error {
	if len(aVec) != m.NumCols*m.NumRows {
		return errors.New("mismatch number of variables and/or constraints")
	}

	m.A = mat.NewDense(m.NumRows, m.NumCols, append([]float64(nil), aVec...))

	return nil
}

func (m *Model) SetB(bVec []float64) error {
	if len(bVec) != m.NumRows {
		return errors.New("mismatch number of constraints")
	}

	m.B = mat.NewDense(m.NumRows, 1, append([]float64(nil), bVec...))

	return nil
}

// AddCol appends a variable with column cVec and objective coefficient coef.
func (m *Model) AddCol(cVec []float64, coef float64) error {
	if len(cVec) != m.NumRows {
		return errors.New("mismatch number of rows, i.e. wrong len of cVec")
	}

	m.A = mat.DenseCopyOf(m.A.Grow(0, 1))
	m.A.SetCol(m.NumCols, cVec)

	m.C = mat.DenseCopyOf(m.C.Grow(0, 1))
	m.C.Set(0, m.NumCols, coef)

	m.X = mat.DenseCopyOf(m.X.Grow(1, 0))

	m.NumCols++
	return nil
}

// AddRow appends the constraint rVec*x = rhs.
func (m *Model) AddRow(rVec []float64, rhs float64) error {
	if len(rVec) != m.NumCols {
		return errors.New("mismatch number of columns, i.e. wrong len of rVec")
	}

	m.A = mat.DenseCopyOf(m.A.Grow(1, 0))
	m.A.SetRow(m.NumRows, rVec)

	m.B = mat.DenseCopyOf(m.B.Grow(1, 0))
	m.B.Set(m.NumRows, 0, rhs)

	m.NumRows++
	return nil
}

func (m *Model) MultiplyConstraint(row int, mul float64) error {
	if row < 0 || row >= m.NumRows {
		return errors.New("row does not exists")
	}

	for col := range m.NumCols {
		m.A.Set(row, col, m.A.At(row, col)*mul)
	}
	m.B.Set(row, 0, m.B.At(row, 0)*mul)
	return nil
}

// Normalize negates every constraint with a negative rhs.
func (m *Model) Normalize() {
	for r := range m.NumRows {
		if m.B.At(r, 0) < 0 {
			_ = m.MultiplyConstraint(r, -1)
		}
	}
}

func (m *Model) CreateVariables() {
	m.V = make([]*Variable, m.NumCols)
	for c := range m.NumCols {
		m.V[c] = &Variable{Name: fmt.Sprintf("x%d", c+1)}
	}
	for _, c := range m.SlackIndexes {
		if c < m.NumCols {
			m.V[c].IsSlack = true
		}
	}
}

// Rows returns the constraints as rows of coefficients followed by the rhs.
func (m *Model) Rows() [][]float64 {
	rows := make([][]float64, m.NumRows)
	for r := range m.NumRows {
		rows[r] = append(mat.Row(nil, r, m.A), m.B.At(r, 0))
	}
	return rows
}

// Objective returns the objective coefficients.
func (m *Model) Objective() []float64 {
	return mat.Row(nil, 0, m.C)
}

// SetSolution stores the values of the variables and which of them are basic.
func (m *Model) SetSolution(x []float64, basic []bool) error {
	if len(x) != m.NumCols || len(basic) != m.NumCols {
		return errors.New("mismatch number of variables")
	}
	if len(m.V) != m.NumCols {
		m.CreateVariables()
	}
	m.X = mat.NewDense(m.NumCols, 1, append([]float64(nil), x...))
	m.UpdateVariablesValues()
	for i, v := range m.V {
		v.IsBasic = basic[i]
	}
	return nil
}

func (m *Model) UpdateVariablesValues() {
	for i, v := range m.V {
		v.Value = m.X.At(i, 0)
	}
}

// ObjectiveValue evaluates c'x at the stored solution.
func (m *Model) ObjectiveValue() float64 {
	return mat.Dot(m.C.RowView(0), m.X.ColView(0))
}

func (m *Model) PrintC(w io.Writer) {
	caux := mat.Formatted(m.C, mat.Prefix("    "), mat.Squeeze())
	fmt.Fprintf(w, "c = %v\n", caux)
}

func (m *Model) PrintB(w io.Writer) {
	caux := mat.Formatted(m.B, mat.Prefix("    "), mat.Squeeze())
	fmt.Fprintf(w, "b = %v\n", caux)
}

func (m *Model) PrintA(w io.Writer) {
	caux := mat.Formatted(m.A, mat.Prefix("    "), mat.Squeeze())
	fmt.Fprintf(w, "A = %v\n", caux)
	fmt.Fprintf(w, "%d constraints, %d variables\n", m.NumRows, m.NumCols)
}

func (m *Model) PrintSolution(w io.Writer) {
	for _, v := range m.V {
		if v.IsBasic {
			fmt.Fprintf(w, "%s = %v\n", v.Name, v.Value)
		}
	}
	fmt.Fprintf(w, "Z = %v\n", m.Reported(m.ObjectiveValue()))
}

// Reported turns a value of the minimized objective back into the objective
// as the problem stated it.
func (m *Model) Reported(z float64) float64 {
	if m.Maximize {
		return -z
	}
	return z
}
