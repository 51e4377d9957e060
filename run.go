package main

import (
	"fmt"
	"io"
	"log/slog"
	"math"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/mat"

	"q.log/tabsimplex/basis"
	"q.log/tabsimplex/instance"
	"q.log/tabsimplex/model"
	"q.log/tabsimplex/numeric"
	"q.log/tabsimplex/render"
	"q.log/tabsimplex/simplex"
	"q.log/tabsimplex/tableau"
)

// errMismatch is returned by --verify when gonum finds another optimum.
var errMismatch = errors.New("optimum differs from gonum's")

const verifyTolerance = 1e-6

// session is what both methods offer once built.
type session[T numeric.Number[T]] interface {
	AutoSolve() error
	Tables() []*tableau.Tableau[T]
	Status() tableau.Status
	Optimum() (T, bool)
	Solution() []T
}

func execute(cmd *cobra.Command, method string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if method != "" {
		cfg.Method = method
	}
	logger := newLogger(cfg.Log, cmd.ErrOrStderr())
	if cfg.Fractional {
		return run[numeric.Rat](cmd, cfg, logger)
	}
	return run[numeric.Float](cmd, cfg, logger)
}

func run[T numeric.Number[T]](cmd *cobra.Command, cfg Config, logger *slog.Logger) error {
	out := cmd.OutOrStdout()
	p, point, maximize, err := loadProblem[T](cmd, cfg, logger)
	if err != nil {
		return err
	}

	rule, _ := tableau.ParseRule(cfg.Rule)
	opts := []simplex.Option{
		simplex.WithLogger(logger),
		simplex.WithPrecision(cfg.Precision),
		simplex.WithMaxIterations(cfg.MaxIterations),
		simplex.WithPivotRule(rule),
	}

	var s session[T]
	if cfg.Method == "simplex" {
		s, err = simplex.NewMethod(p, point, opts...)
	} else {
		s, err = simplex.NewArtificialMethod(p, opts...)
	}
	if err != nil {
		return err
	}

	solveErr := s.AutoSolve()
	if cfg.Trace {
		fmt.Fprintln(out, render.Sequence(s.Tables(), true))
	}
	if cfg.ShowModel {
		printTableau(out, s.Tables())
	}
	if solveErr != nil {
		return solveErr
	}

	status := s.Status()
	fmt.Fprintf(out, "status: %v\n", status)
	opt, ok := s.Optimum()
	if !ok {
		if status == tableau.Unbounded {
			return simplex.ErrUnbounded
		}
		return nil
	}
	// the engine minimizes, a max problem was solved with its objective negated
	reported := opt
	if maximize {
		reported = opt.Neg()
	}
	printSolution(out, s.Solution(), reported)

	if cfg.Verify {
		return verify(out, p, opt.Float64(), maximize)
	}
	return nil
}

func loadProblem[T numeric.Number[T]](cmd *cobra.Command, cfg Config, logger *slog.Logger) (simplex.Problem[T], basis.Point, bool, error) {
	problemPath, _ := cmd.Flags().GetString("problem")
	mpsPath, _ := cmd.Flags().GetString("mps")

	switch {
	case problemPath != "" && mpsPath != "":
		return simplex.Problem[T]{}, nil, false, errors.New("use either --problem or --mps")
	case mpsPath != "":
		m, err := instance.NewReader(mpsPath, logger).Model()
		if err != nil {
			return simplex.Problem[T]{}, nil, false, err
		}
		if cfg.ShowModel {
			printModel(cmd.OutOrStdout(), m)
		}
		return simplex.FromModel[T](m), nil, m.Maximize, nil
	case problemPath != "":
		f, err := instance.ReadYAML(problemPath)
		if err != nil {
			return simplex.Problem[T]{}, nil, false, err
		}
		p, point, err := instance.Problem[T](f)
		if err != nil {
			return p, nil, false, err
		}
		if cfg.ShowModel {
			m, err := simplex.ToModel(p)
			if err != nil {
				return p, nil, false, err
			}
			printModel(cmd.OutOrStdout(), m)
		}
		return p, point, f.Maximize, nil
	}
	return simplex.Problem[T]{}, nil, false, errors.New("no problem given, use --problem or --mps")
}

func printModel(w io.Writer, m *model.Model) {
	m.PrintC(w)
	m.PrintA(w)
	m.PrintB(w)
}

// printTableau prints the last tableau of the run as a plain matrix.
func printTableau[T numeric.Number[T]](w io.Writer, tables []*tableau.Tableau[T]) {
	if len(tables) == 0 {
		return
	}
	t := tables[len(tables)-1]
	fmt.Fprintf(w, "T = %v\n", mat.Formatted(t.Dense(), mat.Prefix("    "), mat.Squeeze()))
	fmt.Fprintf(w, "rows %v, columns %v\n", t.RowVars(), t.ColVars())
}

func printSolution[T numeric.Number[T]](w io.Writer, x []T, opt T) {
	for i, v := range x {
		if !v.IsZero() {
			fmt.Fprintf(w, "%v = %v\n", basis.Var(i), v)
		}
	}
	fmt.Fprintf(w, "Z = %v\n", opt)
}

// verify compares opt, the minimized objective value, with gonum's optimum.
func verify[T numeric.Number[T]](w io.Writer, p simplex.Problem[T], opt float64, maximize bool) error {
	gOpt, m, err := simplex.CrossCheck(p)
	if err != nil {
		return errors.Wrap(err, "verify")
	}
	m.Maximize = maximize
	fmt.Fprintln(w, "gonum:")
	m.PrintSolution(w)
	if math.Abs(gOpt-opt) > verifyTolerance {
		return errors.Wrapf(errMismatch, "%v, gonum %v", m.Reported(opt), m.Reported(gOpt))
	}
	return nil
}
