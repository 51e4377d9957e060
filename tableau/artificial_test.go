package tableau_test

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"q.log/tabsimplex/basis"
	"q.log/tabsimplex/numeric"
	"q.log/tabsimplex/tableau"
)

func step(t *testing.T, tab *tableau.Tableau[numeric.Rat]) *tableau.Tableau[numeric.Rat] {
	t.Helper()
	require.True(t, tab.FindPivot(tableau.Dantzig))
	next, err := tableau.Next(tab)
	require.NoError(t, err)
	return next
}

func TestArtificialPhaseOne(t *testing.T) {
	// x1 + x2 + x3 = 4, -x1 + x2 = 2
	t0, err := tableau.NewArtificial(rats([]int64{1, 1, 1, 4}, []int64{-1, 1, 0, 2}))
	require.NoError(t, err)

	assert.Equal(t, tableau.KindArtificial, t0.Kind())
	assert.Equal(t, 3, t0.Structural())
	assert.Equal(t, []basis.Var{x4, x5}, t0.RowVars())
	assert.Equal(t, []basis.Var{x1, x2, x3}, t0.ColVars())
	assert.Equal(t, []string{"0", "-2", "-1"}, strs(t0.Reduced()))
	assert.Equal(t, "6", t0.Objective().String())
	assert.True(t, t0.HasArtificialBasis())
	assert.Equal(t, tableau.Continue, t0.Status())

	t1 := step(t, t0)
	p, _ := t0.Pivot()
	assert.Equal(t, tableau.Pivot{Row: x5, Col: x2}, p)
	assert.Equal(t, []basis.Var{x4, x2}, t1.RowVars())
	assert.Equal(t, []basis.Var{x1, x5, x3}, t1.ColVars())
	assert.Equal(t, [][]string{
		{"2", "-1", "1", "2"},
		{"-1", "1", "0", "2"},
		{"-2", "2", "-1", "-2"},
	}, grid(t1))
	assert.Equal(t, tableau.Continue, t1.Status())
	// the artificial column x5 never re-enters
	assert.False(t, t1.IsPossiblePivot(0, 1))

	t2 := step(t, t1)
	assert.Equal(t, []basis.Var{x1, x2}, t2.RowVars())
	assert.Equal(t, [][]string{
		{"1/2", "-1/2", "1/2", "1"},
		{"1/2", "1/2", "1/2", "3"},
		{"1", "1", "0", "0"},
	}, grid(t2))
	assert.False(t, t2.HasArtificialBasis())
	assert.Equal(t, tableau.PhaseComplete, t2.Status())
	assert.Equal(t, basis.Point{true, true, false}, t2.Point())
	assert.Equal(t, []string{"1", "3", "0"}, strs(t2.Solution()))
}

func TestArtificialInfeasible(t *testing.T) {
	// -x1 - x2 = 3 after sign normalization of x1 + x2 = -3
	tab, err := tableau.NewArtificial(rats([]int64{-1, -1, 3}))
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "1"}, strs(tab.Reduced()))
	assert.Equal(t, "3", tab.Objective().String())
	assert.Equal(t, tableau.Infeasible, tab.Status())
	assert.False(t, tab.FindPivot(tableau.Dantzig))
}

func TestArtificialRejectsNegativeFreeMember(t *testing.T) {
	_, err := tableau.NewArtificial(rats([]int64{1, 1, -3}))
	assert.True(t, errors.Is(err, tableau.ErrNegativeMember))
}

func TestArtificialDriveOut(t *testing.T) {
	// x1 + x2 = 1, x1 - x3 = 1: after the first step the second artificial
	// stays basic at zero and has to be pivoted out on a negative entry.
	t0, err := tableau.NewArtificial(rats([]int64{1, 1, 0, 1}, []int64{1, 0, -1, 1}))
	require.NoError(t, err)

	t1 := step(t, t0)
	assert.Equal(t, []basis.Var{x1, x5}, t1.RowVars())
	assert.Equal(t, []basis.Var{x4, x2, x3}, t1.ColVars())
	assert.Equal(t, [][]string{
		{"1", "1", "0", "1"},
		{"-1", "-1", "-1", "0"},
		{"2", "1", "1", "0"},
	}, grid(t1))
	assert.Equal(t, tableau.Continue, t1.Status())
	assert.True(t, t1.IsPossiblePivot(1, 1))
	assert.True(t, t1.IsPossiblePivot(1, 2))
	assert.False(t, t1.IsPossiblePivot(1, 0))
	assert.False(t, t1.IsPossiblePivot(0, 1))

	t2 := step(t, t1)
	p, _ := t1.Pivot()
	assert.Equal(t, tableau.Pivot{Row: x5, Col: x2}, p)
	assert.Equal(t, []basis.Var{x1, x2}, t2.RowVars())
	assert.Equal(t, [][]string{
		{"0", "1", "-1", "1"},
		{"1", "-1", "1", "0"},
		{"1", "1", "0", "0"},
	}, grid(t2))
	assert.Equal(t, tableau.PhaseComplete, t2.Status())
	assert.Equal(t, basis.Point{true, true, false}, t2.Point())
}

func TestArtificialRedundantConstraint(t *testing.T) {
	t0, err := tableau.NewArtificial(rats([]int64{1, 1, 2}, []int64{1, 1, 2}))
	require.NoError(t, err)
	t1 := step(t, t0)
	assert.Equal(t, [][]string{
		{"1", "1", "2"},
		{"-1", "0", "0"},
		{"2", "0", "0"},
	}, grid(t1))
	assert.Equal(t, tableau.Redundant, t1.Status())
	assert.False(t, t1.FindPivot(tableau.Dantzig))
}

func TestSequence(t *testing.T) {
	var seq tableau.Sequence[numeric.Rat]
	assert.Nil(t, seq.Last())
	assert.Nil(t, seq.Pop())
	assert.Nil(t, seq.At(0))

	t0 := slackProblem(t)
	seq.Append(t0)
	assert.Equal(t, 0, t0.Index())
	assert.Equal(t, -1, t0.Predecessor())

	t1 := step(t, t0)
	seq.Append(t1)
	assert.Equal(t, 1, t1.Index())
	assert.Equal(t, 0, t1.Predecessor())
	assert.Equal(t, 2, seq.Len())
	assert.Same(t, t1, seq.Last())
	assert.Same(t, t0, seq.At(0))
	assert.Len(t, seq.All(), 2)

	// an automatic pivot is forgotten with the tableau it produced
	assert.Same(t, t1, seq.Pop())
	assert.False(t, t0.HasPivot())

	// a manual one survives
	require.NoError(t, t0.SetPivot(0, 1))
	t1, err := tableau.Next(t0)
	require.NoError(t, err)
	seq.Append(t1)
	seq.Pop()
	p, ok := t0.Pivot()
	assert.True(t, ok)
	assert.Equal(t, tableau.Pivot{Row: x3, Col: x1}, p)
	assert.Equal(t, 1, seq.Len())
}

func TestStatusStrings(t *testing.T) {
	assert.Equal(t, "optimal", tableau.Optimal.String())
	assert.Equal(t, "phase complete", tableau.PhaseComplete.String())
	assert.True(t, tableau.Unbounded.Terminal())
	assert.False(t, tableau.Continue.Terminal())
	assert.Equal(t, "artificial", tableau.KindArtificial.String())
}
