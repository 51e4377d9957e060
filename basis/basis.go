// Package basis names the variables of a problem and keeps track of which of
// them are basic.
package basis

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Var identifies a variable by its zero-based logical index; x1 is Var(0).
// Artificial variables continue the numbering after the structural ones.
type Var int

// Free is the label of the free-member column.
const Free Var = -1

var ErrMalformedVar = errors.New("basis: malformed variable name")

func (v Var) String() string {
	if v == Free {
		return "b"
	}
	return "x" + strconv.Itoa(int(v)+1)
}

// Parse reads a label such as "x3" or "b".
func Parse(s string) (Var, error) {
	s = strings.TrimSpace(s)
	if s == "b" {
		return Free, nil
	}
	if !strings.HasPrefix(s, "x") {
		return 0, errors.Wrapf(ErrMalformedVar, "%q", s)
	}
	n, err := strconv.Atoi(s[1:])
	if err != nil || n < 1 {
		return 0, errors.Wrapf(ErrMalformedVar, "%q", s)
	}
	return Var(n - 1), nil
}

// Vars returns x1..xn.
func Vars(n int) []Var {
	vs := make([]Var, n)
	for i := range vs {
		vs[i] = Var(i)
	}
	return vs
}

// Point marks the structural variables requested as basic.
type Point []bool

// PointOf builds a point of width n with the given variables set.
func PointOf(n int, vs ...Var) (Point, error) {
	p := make(Point, n)
	for _, v := range vs {
		if v < 0 || int(v) >= n {
			return nil, errors.Errorf("basis: %v is not one of x1..x%d", v, n)
		}
		p[v] = true
	}
	return p, nil
}

// Count returns the number of basic variables.
func (p Point) Count() int {
	n := 0
	for _, b := range p {
		if b {
			n++
		}
	}
	return n
}

// Basic lists the marked variables in index order.
func (p Point) Basic() []Var {
	var vs []Var
	for i, b := range p {
		if b {
			vs = append(vs, Var(i))
		}
	}
	return vs
}

func (p Point) String() string {
	return fmt.Sprint(p.Basic())
}
