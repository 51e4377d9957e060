// Package numeric holds the two value types the engine can compute with:
// exact rationals (Rat) and rounded floats (Float). Every algorithm in the
// module is generic over Number, so the choice is made once, when a session
// is instantiated.
package numeric

import (
	"math"
	"strings"

	"github.com/pkg/errors"
)

// ErrParse is returned when a textual value can not be read as a number.
var ErrParse = errors.New("numeric: malformed value")

// Number is the arithmetic a tableau needs. Methods never mutate the
// receiver. The constructors (FromInt, FromFloat, Parse) ignore the receiver
// value, so they can be called on a zero T.
type Number[T any] interface {
	Add(T) T
	Sub(T) T
	Mul(T) T
	Quo(T) T
	Neg() T
	Cmp(T) int
	Sign() int
	IsZero() bool
	Round(places int) T

	FromInt(int64) T
	FromFloat(float64) T
	Parse(string) (T, error)

	Exact() bool
	Float64() float64
	String() string
}

// Zero returns the additive identity of T.
func Zero[T Number[T]]() T {
	var z T
	return z.FromInt(0)
}

// One returns the multiplicative identity of T.
func One[T Number[T]]() T {
	var z T
	return z.FromInt(1)
}

// FromInts converts a row of integers.
func FromInts[T Number[T]](vs ...int64) []T {
	var z T
	out := make([]T, len(vs))
	for i, v := range vs {
		out[i] = z.FromInt(v)
	}
	return out
}

// FromFloats converts a matrix of floats.
func FromFloats[T Number[T]](rows [][]float64) [][]T {
	var z T
	out := make([][]T, len(rows))
	for i, row := range rows {
		out[i] = make([]T, len(row))
		for j, v := range row {
			out[i][j] = z.FromFloat(v)
		}
	}
	return out
}

// ParseRow reads every element of row.
func ParseRow[T Number[T]](row []string) ([]T, error) {
	var z T
	out := make([]T, len(row))
	for j, s := range row {
		v, err := z.Parse(s)
		if err != nil {
			return nil, errors.Wrapf(err, "column %d", j+1)
		}
		out[j] = v
	}
	return out, nil
}

// ParseMatrix reads every element of rows.
func ParseMatrix[T Number[T]](rows [][]string) ([][]T, error) {
	out := make([][]T, len(rows))
	for i, row := range rows {
		r, err := ParseRow[T](row)
		if err != nil {
			return nil, errors.Wrapf(err, "row %d", i+1)
		}
		out[i] = r
	}
	return out, nil
}

// Clone copies a matrix so the copy can be changed independently.
func Clone[T any](rows [][]T) [][]T {
	out := make([][]T, len(rows))
	for i, row := range rows {
		out[i] = append([]T(nil), row...)
	}
	return out
}

// Tolerance is the magnitude up to which a value computed from data rounded
// to places decimals is noise: five units in the last kept place. Exact
// numbers have none.
func Tolerance[T Number[T]](places int) T {
	var zero T
	if zero.Exact() {
		return zero
	}
	return zero.FromFloat(5 * math.Pow(10, -float64(places)))
}

// SignWithin is the sign of v with magnitudes up to tol taken for zero.
func SignWithin[T Number[T]](v, tol T) int {
	switch {
	case v.Cmp(tol) > 0:
		return 1
	case v.Cmp(tol.Neg()) < 0:
		return -1
	}
	return 0
}

// ToFloats flattens a matrix row by row, as gonum expects it.
func ToFloats[T Number[T]](rows [][]T) []float64 {
	var out []float64
	for _, row := range rows {
		for _, v := range row {
			out = append(out, v.Float64())
		}
	}
	return out
}

// normalize accepts the spellings people type into a cell: decimal comma
// and a backslash instead of the fraction bar.
func normalize(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, "\\", "/")
	return strings.ReplaceAll(s, ",", ".")
}
