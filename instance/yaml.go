package instance

import (
	"io"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"q.log/tabsimplex/basis"
	"q.log/tabsimplex/numeric"
	"q.log/tabsimplex/simplex"
)

// Cell is a number as written in a problem file, e.g. 3, -1.5 or 2/3.
type Cell string

func (c *Cell) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind != yaml.ScalarNode {
		return errors.Wrapf(ErrRead, "line %d: expected a number", n.Line)
	}
	*c = Cell(n.Value)
	return nil
}

// File is a problem file:
//
//	objective: [-3, -5, 0, 0, 0]
//	constraints:
//	  - [1, 0, 1, 0, 0, 4]
//	  - [0, 2, 0, 1, 0, 12]
//	basis: [x3, x4]
//
// Each constraint lists the coefficients of x1..xn and then the free member.
// The objective is minimized unless maximize is set. basis is optional.
type File struct {
	Name        string   `yaml:"name"`
	Maximize    bool     `yaml:"maximize"`
	Objective   []Cell   `yaml:"objective"`
	Constraints [][]Cell `yaml:"constraints"`
	Basis       []string `yaml:"basis"`
}

// ReadYAML reads a problem file.
func ReadYAML(filename string) (*File, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, errors.Wrap(ErrRead, err.Error())
	}
	defer f.Close()
	return DecodeYAML(f)
}

func DecodeYAML(r io.Reader) (*File, error) {
	var file File
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil {
		return nil, errors.Wrapf(ErrRead, "yaml: %v", err)
	}
	if len(file.Constraints) == 0 {
		return nil, errors.Wrap(ErrRead, "no constraints")
	}
	return &file, nil
}

// Problem converts the file to a problem over T and the requested basis, nil
// when the file names none.
func Problem[T numeric.Number[T]](f *File) (simplex.Problem[T], basis.Point, error) {
	var p simplex.Problem[T]
	objective, err := numeric.ParseRow[T](values(f.Objective))
	if err != nil {
		return p, nil, errors.Wrap(err, "objective")
	}
	if f.Maximize {
		for i, v := range objective {
			objective[i] = v.Neg()
		}
	}
	rows := make([][]string, len(f.Constraints))
	for i, row := range f.Constraints {
		rows[i] = values(row)
	}
	matrix, err := numeric.ParseMatrix[T](rows)
	if err != nil {
		return p, nil, errors.Wrap(err, "constraints")
	}
	p = simplex.Problem[T]{Matrix: matrix, Objective: objective}
	if err := p.Validate(); err != nil {
		return p, nil, err
	}

	if len(f.Basis) == 0 {
		return p, nil, nil
	}
	vars := make([]basis.Var, len(f.Basis))
	for i, name := range f.Basis {
		v, err := basis.Parse(name)
		if err != nil {
			return p, nil, errors.Wrap(err, "basis")
		}
		vars[i] = v
	}
	point, err := basis.PointOf(p.Vars(), vars...)
	if err != nil {
		return p, nil, errors.Wrap(err, "basis")
	}
	return p, point, nil
}

func values(cells []Cell) []string {
	out := make([]string, len(cells))
	for i, c := range cells {
		out[i] = string(c)
	}
	return out
}
