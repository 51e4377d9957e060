package basis_test

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"q.log/tabsimplex/basis"
)

func TestVarNames(t *testing.T) {
	assert.Equal(t, "x1", basis.Var(0).String())
	assert.Equal(t, "x12", basis.Var(11).String())
	assert.Equal(t, "b", basis.Free.String())

	v, err := basis.Parse(" x3 ")
	require.NoError(t, err)
	assert.Equal(t, basis.Var(2), v)

	v, err = basis.Parse("b")
	require.NoError(t, err)
	assert.Equal(t, basis.Free, v)

	for _, bad := range []string{"y1", "x0", "x", "x-2"} {
		_, err := basis.Parse(bad)
		assert.True(t, errors.Is(err, basis.ErrMalformedVar), bad)
	}
}

func TestPoint(t *testing.T) {
	p, err := basis.PointOf(4, 3, 1)
	require.NoError(t, err)
	assert.Equal(t, basis.Point{false, true, false, true}, p)
	assert.Equal(t, 2, p.Count())
	assert.Equal(t, []basis.Var{1, 3}, p.Basic())
	assert.Equal(t, "[x2 x4]", p.String())

	_, err = basis.PointOf(2, 5)
	assert.Error(t, err)
}

func TestLayoutExchange(t *testing.T) {
	l := basis.NewLayout([]basis.Var{2, 3}, []basis.Var{0, 1})
	c := l.Clone()

	l.Exchange(1, 0)
	assert.Equal(t, []basis.Var{2, 0}, l.Rows())
	assert.Equal(t, []basis.Var{3, 1}, l.Cols())

	i, ok := l.RowOf(0)
	assert.True(t, ok)
	assert.Equal(t, 1, i)
	j, ok := l.ColOf(3)
	assert.True(t, ok)
	assert.Equal(t, 0, j)
	_, ok = l.ColOf(0)
	assert.False(t, ok)
	assert.True(t, l.IsBasic(2))
	assert.False(t, l.IsBasic(1))

	// the clone is untouched
	assert.Equal(t, []basis.Var{2, 3}, c.Rows())
	assert.True(t, c.IsBasic(3))
}

func TestLayoutRejectsDuplicates(t *testing.T) {
	assert.Panics(t, func() {
		basis.NewLayout([]basis.Var{0}, []basis.Var{0})
	})
}
