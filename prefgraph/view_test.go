package prefgraph

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/katalvlaran/prefrank/judgment"
)

func judgmentAt(a, b string, outcome judgment.Outcome, deleted bool, t time.Time) judgment.Judgment {
	return judgment.Judgment{
		ID:        a + "-" + b,
		Dimension: judgment.Complexity,
		ItemA:     a,
		ItemB:     b,
		Outcome:   outcome,
		CreatedAt: t,
		Deleted:   deleted,
	}
}

func TestBuild_DirectEdgesFromWins(t *testing.T) {
	now := time.Unix(0, 0)
	js := []judgment.Judgment{
		judgmentAt("x", "y", judgment.AWins, false, now),
		judgmentAt("y", "z", judgment.BWins, false, now.Add(time.Second)),
	}
	v := Build([]string{"x", "y", "z"}, js)

	assert.True(t, v.HasDirectEdge("x", "y"))
	assert.True(t, v.HasDirectEdge("z", "y"))
	assert.False(t, v.HasDirectEdge("y", "x"))
	assert.Equal(t, 2, v.EdgeCount())
}

func TestBuild_TieContributesNoEdge(t *testing.T) {
	now := time.Unix(0, 0)
	js := []judgment.Judgment{judgmentAt("x", "y", judgment.Tie, false, now)}
	v := Build([]string{"x", "y"}, js)

	assert.Equal(t, 0, v.EdgeCount())
	assert.False(t, v.HasDirectEdge("x", "y"))
	assert.False(t, v.HasDirectEdge("y", "x"))
}

func TestBuild_DeletedJudgmentIgnored(t *testing.T) {
	now := time.Unix(0, 0)
	js := []judgment.Judgment{judgmentAt("x", "y", judgment.AWins, true, now)}
	v := Build([]string{"x", "y"}, js)

	assert.Equal(t, 0, v.EdgeCount())
}

func TestBuild_ContradictoryJudgmentsKeepBothEdges(t *testing.T) {
	now := time.Unix(0, 0)
	js := []judgment.Judgment{
		judgmentAt("x", "y", judgment.AWins, false, now),
		judgmentAt("x", "y", judgment.BWins, false, now.Add(time.Second)),
	}
	v := Build([]string{"x", "y"}, js)

	assert.True(t, v.HasDirectEdge("x", "y"))
	assert.True(t, v.HasDirectEdge("y", "x"))
	assert.Equal(t, 2, v.EdgeCount())
}

func TestBuild_ItemsWithNoJudgmentsStillPresent(t *testing.T) {
	v := Build([]string{"x", "y", "z"}, nil)

	assert.ElementsMatch(t, []string{"x", "y", "z"}, v.Items())
	assert.Empty(t, v.Neighbors("x"))
}

func TestHasAnyJudgment(t *testing.T) {
	now := time.Unix(0, 0)
	js := []judgment.Judgment{judgmentAt("x", "y", judgment.AWins, false, now)}
	v := Build([]string{"x", "y", "z"}, js)

	assert.True(t, v.HasAnyJudgment("x"))
	assert.True(t, v.HasAnyJudgment("y"))
	assert.False(t, v.HasAnyJudgment("z"))
}

func TestNeighbors_Sorted(t *testing.T) {
	now := time.Unix(0, 0)
	js := []judgment.Judgment{
		judgmentAt("x", "z", judgment.AWins, false, now),
		judgmentAt("x", "y", judgment.AWins, false, now.Add(time.Second)),
	}
	v := Build([]string{"x", "y", "z"}, js)

	assert.Equal(t, []string{"y", "z"}, v.Neighbors("x"))
}
