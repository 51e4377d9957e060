package instance

import (
	"log/slog"
	"math"
	"runtime"

	"github.com/lukpank/go-glpk/glpk"
	"github.com/pkg/errors"

	"q.log/tabsimplex/model"
)

// ErrRead is returned when a problem file can not be read or understood.
var ErrRead = errors.New("instance: can not read problem")

type sense int

const (
	senseLE sense = iota
	senseGE
	senseEQ
)

// Reader reads a mps file to construct a model
type Reader struct {
	filename string
	logger   *slog.Logger
}

func NewReader(filename string, logger *slog.Logger) *Reader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reader{
		filename: filename,
		logger:   logger,
	}
}

// Model returns the problem of the file in standard form: every inequality
// gets a slack or surplus column, finite column bounds become rows, the
// objective is minimized and every rhs is non-negative.
func (r *Reader) Model() (*model.Model, error) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	lp := glpk.New()
	defer lp.Delete()
	if err := lp.ReadMPS(glpk.MPS_FILE, nil, r.filename); err != nil {
		return nil, errors.Wrapf(ErrRead, "%s: %v", r.filename, err)
	}
	if lp.NumRows() == 0 || lp.NumCols() == 0 {
		return nil, errors.Wrapf(ErrRead, "%s: empty problem", r.filename)
	}

	m := model.NewModel(lp.NumRows(), lp.NumCols())

	//populate obj function
	mul := 1.0
	if lp.ObjDir() == glpk.MAX {
		mul = -1
		m.Maximize = true
	}
	cVec := make([]float64, lp.NumCols())
	for c := range lp.NumCols() {
		cVec[c] = mul * lp.ObjCoef(c+1)
	}
	if err := m.SetC(cVec); err != nil {
		return nil, err
	}

	//populate constraints
	aVec := make([]float64, 0, lp.NumRows()*lp.NumCols())
	rowsRhs := make([]float64, 0, lp.NumRows())
	senses := make([]sense, 0, lp.NumRows())
	for r := 1; r <= lp.NumRows(); r++ {
		rowVec := make([]float64, lp.NumCols())
		idxs, row := lp.MatRow(r)
		for i, v := range idxs {
			if v == 0 {
				continue
			}
			rowVec[v-1] = row[i]
		}
		switch {
		case lp.RowLB(r) == -math.MaxFloat64:
			senses = append(senses, senseLE)
			rowsRhs = append(rowsRhs, lp.RowUB(r))
		case lp.RowUB(r) == math.MaxFloat64:
			senses = append(senses, senseGE)
			rowsRhs = append(rowsRhs, lp.RowLB(r))
		default:
			senses = append(senses, senseEQ)
			rowsRhs = append(rowsRhs, lp.RowLB(r))
		}
		aVec = append(aVec, rowVec...)
	}

	if err := m.SetA(aVec); err != nil {
		return nil, err
	}
	if err := m.SetB(rowsRhs); err != nil {
		return nil, err
	}

	for c := range lp.NumCols() {
		lb, ub := lp.ColLB(c+1), lp.ColUB(c+1)
		if lb != -math.MaxFloat64 && lb != 0 {
			if err := addBoundRow(m, c, lb); err != nil {
				return nil, err
			}
			senses = append(senses, senseGE)
		}
		if ub != math.MaxFloat64 {
			if err := addBoundRow(m, c, ub); err != nil {
				return nil, err
			}
			senses = append(senses, senseLE)
		}
	}

	if err := toStandardForm(m, senses); err != nil {
		return nil, err
	}
	r.logger.Debug("mps read", "file", r.filename, "rows", m.NumRows, "cols", m.NumCols, "slacks", len(m.SlackIndexes))
	return m, nil
}

func addBoundRow(m *model.Model, col int, rhs float64) error {
	rowVec := make([]float64, m.NumCols)
	rowVec[col] = 1
	return m.AddRow(rowVec, rhs)
}

// toStandardForm adds slack and surplus variables and flips rows with a
// negative rhs.
func toStandardForm(m *model.Model, senses []sense) error {
	rows := m.NumRows
	for r := range rows {
		var coef float64
		switch senses[r] {
		case senseLE:
			coef = 1
		case senseGE:
			coef = -1
		default:
			continue
		}
		colVec := make([]float64, m.NumRows)
		colVec[r] = coef
		m.SlackIndexes = append(m.SlackIndexes, m.NumCols)
		if err := m.AddCol(colVec, 0); err != nil {
			return err
		}
	}
	m.Normalize()
	m.CreateVariables()
	return nil
}
