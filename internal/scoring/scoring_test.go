package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iqrah/graphkg/internal/graph"
	"github.com/iqrah/graphkg/internal/knowledge"
)

func chainGraph(t *testing.T) *graph.Graph {
	t.Helper()
	g := graph.New()
	_, err := g.AddNode("ROOT:ا", graph.TypeRoot, nil)
	require.NoError(t, err)
	_, err = g.AddNode("LEMMA:ا", graph.TypeLemma, nil)
	require.NoError(t, err)
	_, err = g.AddNode("WORD:ا", graph.TypeWord, nil)
	require.NoError(t, err)
	_, err = g.AddEdge("WORD:ا", "LEMMA:ا", graph.Dependency, nil)
	require.NoError(t, err)
	_, err = g.AddEdge("LEMMA:ا", "ROOT:ا", graph.Dependency, nil)
	require.NoError(t, err)
	return g
}

func TestCalculateRejectsEdgelessGraph(t *testing.T) {
	g := graph.New()
	_, err := g.AddNode("ROOT:ا", graph.TypeRoot, nil)
	require.NoError(t, err)
	err = Calculate(g, DefaultOptions())
	assert.Error(t, err)
}

func TestCalculateWritesScoresInRange(t *testing.T) {
	g := chainGraph(t)
	require.NoError(t, Calculate(g, DefaultOptions()))

	for _, nd := range g.Nodes() {
		f, ok := nd.Attrs["foundational_score"].(float64)
		require.True(t, ok)
		assert.GreaterOrEqual(t, f, 0.0)
		assert.LessOrEqual(t, f, 1.0)

		i, ok := nd.Attrs["influence_score"].(float64)
		require.True(t, ok)
		assert.GreaterOrEqual(t, i, 0.0)
		assert.LessOrEqual(t, i, 1.0)
	}
}

func TestExpectedWeightDependencyEdgeDefaultsToOne(t *testing.T) {
	assert.Equal(t, 1.0, expectedWeight(map[string]any{}))
}

func TestExpectedWeightNormalClipsToUnitInterval(t *testing.T) {
	assert.Equal(t, 1.0, expectedWeight(knowledge.Normal(1.5, 0.1).ToAttrs()))
	assert.Equal(t, 0.0, expectedWeight(knowledge.Normal(-0.5, 0.1).ToAttrs()))
}

func TestExpectedWeightBeta(t *testing.T) {
	w := expectedWeight(knowledge.Beta(4, 2).ToAttrs())
	assert.InDelta(t, 4.0/6.0, w, 1e-9)
}

func TestExpectedWeightConstantNonProbabilityLike(t *testing.T) {
	w := expectedWeight(knowledge.Constant(5.0, false).ToAttrs())
	assert.Equal(t, 5.0, w)
}

func TestTopFoundationalSortsDescending(t *testing.T) {
	g := chainGraph(t)
	require.NoError(t, Calculate(g, DefaultOptions()))

	top := TopFoundational(g, 2)
	require.Len(t, top, 2)
	assert.GreaterOrEqual(t, top[0].Score, top[1].Score)
}

func TestLog01NormalizeHandlesAllZero(t *testing.T) {
	out := log01Normalize([]float64{0, 0, 0})
	assert.Equal(t, []float64{0, 0, 0}, out)
}
