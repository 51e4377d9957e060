package numeric

import (
	"math/big"
	"strconv"

	"github.com/pkg/errors"
)

// Rat is an exact rational. The zero value is 0.
type Rat struct {
	v *big.Rat
}

// NewRat returns num/den. den must not be zero.
func NewRat(num, den int64) Rat {
	return Rat{v: big.NewRat(num, den)}
}

func (r Rat) rat() *big.Rat {
	if r.v == nil {
		return new(big.Rat)
	}
	return r.v
}

func (r Rat) Add(o Rat) Rat { return Rat{v: new(big.Rat).Add(r.rat(), o.rat())} }
func (r Rat) Sub(o Rat) Rat { return Rat{v: new(big.Rat).Sub(r.rat(), o.rat())} }
func (r Rat) Mul(o Rat) Rat { return Rat{v: new(big.Rat).Mul(r.rat(), o.rat())} }

// Quo panics on division by zero, like big.Rat.
func (r Rat) Quo(o Rat) Rat { return Rat{v: new(big.Rat).Quo(r.rat(), o.rat())} }

func (r Rat) Neg() Rat      { return Rat{v: new(big.Rat).Neg(r.rat())} }
func (r Rat) Cmp(o Rat) int { return r.rat().Cmp(o.rat()) }
func (r Rat) Sign() int     { return r.rat().Sign() }
func (r Rat) IsZero() bool  { return r.Sign() == 0 }
func (r Rat) Round(int) Rat { return r }
func (r Rat) Exact() bool   { return true }

func (r Rat) FromInt(v int64) Rat {
	return Rat{v: new(big.Rat).SetInt64(v)}
}

// FromFloat takes the shortest decimal that prints as f, so 0.1 becomes 1/10
// rather than the binary expansion of the float. Non-finite input gives 0.
func (r Rat) FromFloat(f float64) Rat {
	v, ok := new(big.Rat).SetString(strconv.FormatFloat(f, 'g', -1, 64))
	if !ok {
		return Rat{}
	}
	return Rat{v: v}
}

func (r Rat) Parse(s string) (Rat, error) {
	v, ok := new(big.Rat).SetString(normalize(s))
	if !ok {
		return Rat{}, errors.Wrapf(ErrParse, "%q", s)
	}
	return Rat{v: v}, nil
}

func (r Rat) Float64() float64 {
	f, _ := r.rat().Float64()
	return f
}

// String prints integers without a denominator and everything else as p/q.
func (r Rat) String() string { return r.rat().RatString() }
