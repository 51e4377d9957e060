package gauss_test

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"q.log/tabsimplex/basis"
	"q.log/tabsimplex/gauss"
	"q.log/tabsimplex/numeric"
)

func rats(rows ...[]int64) [][]numeric.Rat {
	out := make([][]numeric.Rat, len(rows))
	for i, r := range rows {
		out[i] = numeric.FromInts[numeric.Rat](r...)
	}
	return out
}

func strs[T numeric.Number[T]](vs []T) []string {
	out := make([]string, len(vs))
	for i, v := range vs {
		out[i] = v.String()
	}
	return out
}

func block[T numeric.Number[T]](rows [][]T) [][]string {
	out := make([][]string, len(rows))
	for i, r := range rows {
		out[i] = strs(r)
	}
	return out
}

func TestSolveWithRequestedBasis(t *testing.T) {
	m := rats([]int64{1, 1, 1, 4}, []int64{2, 1, 0, 5})
	res, err := gauss.Solve(m, gauss.WithPoint(basis.Point{true, true, false}))
	require.NoError(t, err)

	assert.Equal(t, []basis.Var{0, 1, 2}, res.Vars)
	assert.Equal(t, []basis.Var{0, 1}, res.Basic())
	assert.Equal(t, []basis.Var{2}, res.NonBasic())
	assert.Equal(t, []string{"1", "3"}, strs(res.Free))
	assert.Equal(t, [][]string{{"-1"}, {"2"}}, block(res.Block))
	assert.True(t, res.Feasible())

	// the caller's matrix is left alone
	assert.Equal(t, []string{"2", "1", "0", "5"}, strs(m[1]))
}

func TestSolveIdentityIsUnchanged(t *testing.T) {
	m := rats([]int64{1, 0, 2, 7}, []int64{0, 1, 3, 8})
	res, err := gauss.Solve(m)
	require.NoError(t, err)
	assert.Equal(t, []string{"7", "8"}, strs(res.Free))
	assert.Equal(t, [][]string{{"2"}, {"3"}}, block(res.Block))
	assert.Equal(t, []basis.Var{0, 1, 2}, res.Vars)
}

func TestSolveReordersColumnsByPoint(t *testing.T) {
	m := rats(
		[]int64{1, 0, 1, 0, 0, 4},
		[]int64{0, 2, 0, 1, 0, 12},
		[]int64{3, 2, 0, 0, 1, 18},
	)
	res, err := gauss.Solve(m, gauss.WithPoint(basis.Point{false, false, true, true, true}))
	require.NoError(t, err)
	assert.Equal(t, []basis.Var{2, 3, 4, 1, 0}, res.Vars)
	assert.Equal(t, []string{"4", "12", "18"}, strs(res.Free))
	assert.Equal(t, [][]string{{"0", "1"}, {"2", "0"}, {"2", "3"}}, block(res.Block))
}

func TestSolveDefersColumnWithoutPivot(t *testing.T) {
	// x1 and x2 are proportional, so x3 has to take the second pivot.
	m := rats([]int64{1, 1, 0, 1}, []int64{2, 2, 1, 3})
	res, err := gauss.Solve(m)
	require.NoError(t, err)
	assert.Equal(t, []basis.Var{0, 2, 1}, res.Vars)
	assert.Equal(t, []string{"1", "1"}, strs(res.Free))
	assert.Equal(t, [][]string{{"1"}, {"0"}}, block(res.Block))
}

func TestSolveMovesZeroColumnsBack(t *testing.T) {
	m := rats([]int64{0, 1, 0, 2}, []int64{0, 0, 1, 3})
	res, err := gauss.Solve(m)
	require.NoError(t, err)
	assert.Equal(t, []basis.Var{1, 2, 0}, res.Vars)
	assert.Equal(t, []string{"2", "3"}, strs(res.Free))
	assert.Equal(t, [][]string{{"0"}, {"0"}}, block(res.Block))
}

func TestSolveSingular(t *testing.T) {
	for name, m := range map[string][][]numeric.Rat{
		"dependent rows": rats([]int64{1, 2, 3}, []int64{2, 4, 6}),
		"too many rows":  rats([]int64{1, 2}, []int64{3, 4}),
		"zero row":       rats([]int64{1, 0, 1}, []int64{0, 0, 5}),
	} {
		t.Run(name, func(t *testing.T) {
			_, err := gauss.Solve(m)
			assert.True(t, errors.Is(err, gauss.ErrSingularMatrix), "got %v", err)
		})
	}
}

func TestSolveReportsInfeasibleFreeMember(t *testing.T) {
	res, err := gauss.Solve(rats([]int64{1, 1, -1}), gauss.WithPoint(basis.Point{true, false}))
	require.NoError(t, err)
	assert.False(t, res.Feasible())
}

func TestSolveRoundsFloats(t *testing.T) {
	m := [][]numeric.Float{{3, 0, 1}, {0, 3, 2}}
	res, err := gauss.Solve(m)
	require.NoError(t, err)
	assert.Equal(t, []numeric.Float{0.333, 0.667}, res.Free)

	res, err = gauss.Solve(m, gauss.WithPrecision(2))
	require.NoError(t, err)
	assert.Equal(t, []numeric.Float{0.33, 0.67}, res.Free)

	exact, err := gauss.Solve(rats([]int64{3, 0, 1}, []int64{0, 3, 2}))
	require.NoError(t, err)
	assert.Equal(t, []string{"1/3", "2/3"}, strs(exact.Free))
}

func TestSolveClearsRoundingResidue(t *testing.T) {
	// exact free members are 0 and 7/2; rounding to 3 decimals leaves -0.002
	m := [][]numeric.Float{{3, 2, 6, 7}, {4, -2, -3, -7}}
	res, err := gauss.Solve(m)
	require.NoError(t, err)
	assert.Equal(t, []numeric.Float{0, 3.5}, res.Free)
	assert.Equal(t, []numeric.Float{0.428, 2.357}, []numeric.Float{res.Block[0][0], res.Block[1][0]})
	assert.True(t, res.Feasible())

	exact, err := gauss.Solve(rats([]int64{3, 2, 6, 7}, []int64{4, -2, -3, -7}))
	require.NoError(t, err)
	assert.Equal(t, []string{"0", "7/2"}, strs(exact.Free))
	assert.Equal(t, "0", exact.Tolerance.String())
}

func TestSolveMalformed(t *testing.T) {
	_, err := gauss.Solve[numeric.Rat](nil)
	assert.True(t, errors.Is(err, gauss.ErrMalformedMatrix))

	_, err = gauss.Solve(rats([]int64{1, 2, 3}, []int64{1, 2}))
	assert.True(t, errors.Is(err, gauss.ErrMalformedMatrix))

	_, err = gauss.Solve(rats([]int64{1, 2, 3}), gauss.WithPoint(basis.Point{true}))
	assert.True(t, errors.Is(err, gauss.ErrMalformedMatrix))
}
