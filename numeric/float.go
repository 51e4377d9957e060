package numeric

import (
	"math"
	"math/big"
	"strconv"

	"github.com/pkg/errors"
)

// epsilon is the distance under which two floats compare equal.
const epsilon = 1e-9

// Float is a float64 with tolerant comparison. It is the non-fractional mode
// of the engine; the Gauss solver rounds it after every normalization.
type Float float64

func (f Float) Add(o Float) Float { return f + o }
func (f Float) Sub(o Float) Float { return f - o }
func (f Float) Mul(o Float) Float { return f * o }
func (f Float) Quo(o Float) Float { return f / o }
func (f Float) Neg() Float        { return -f }

func (f Float) Cmp(o Float) int {
	d := float64(f - o)
	switch {
	case math.Abs(d) <= epsilon:
		return 0
	case d < 0:
		return -1
	default:
		return 1
	}
}

func (f Float) Sign() int    { return f.Cmp(0) }
func (f Float) IsZero() bool { return f.Sign() == 0 }
func (f Float) Exact() bool  { return false }

// Round rounds half away from zero to the given number of decimals.
func (f Float) Round(places int) Float {
	p := math.Pow(10, float64(places))
	r := math.Round(float64(f)*p) / p
	if r == 0 {
		// no negative zero in output
		return 0
	}
	return Float(r)
}

func (f Float) FromInt(v int64) Float     { return Float(v) }
func (f Float) FromFloat(v float64) Float { return Float(v) }

// Parse goes through big.Rat so fractions like "2/3" are accepted too.
func (f Float) Parse(s string) (Float, error) {
	v, ok := new(big.Rat).SetString(normalize(s))
	if !ok {
		return 0, errors.Wrapf(ErrParse, "%q", s)
	}
	x, _ := v.Float64()
	return Float(x), nil
}

func (f Float) Float64() float64 { return float64(f) }

func (f Float) String() string {
	if f.IsZero() {
		return "0"
	}
	return strconv.FormatFloat(float64(f), 'f', -1, 64)
}
