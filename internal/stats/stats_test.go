package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iqrah/graphkg/internal/graph"
	"github.com/iqrah/graphkg/internal/knowledge"
)

func scoredGraph(t *testing.T) *graph.Graph {
	t.Helper()
	g := graph.New()
	_, err := g.AddNode("CHAPTER:1", graph.TypeChapter, map[string]any{"foundational_score": 0.9, "influence_score": 0.1})
	require.NoError(t, err)
	_, err = g.AddNode("VERSE:1:1", graph.TypeVerse, map[string]any{"foundational_score": 0.4, "influence_score": 0.6})
	require.NoError(t, err)
	_, err = g.AddEdge("CHAPTER:1", "VERSE:1:1", graph.Dependency, nil)
	require.NoError(t, err)

	axisSrc := "VERSE:1:1:memorization"
	axisDst := "CHAPTER:1:memorization"
	_, err = g.AddNode(axisSrc, graph.TypeKnowledge, map[string]any{"knowledge_axis": "memorization"})
	require.NoError(t, err)
	_, err = g.AddNode(axisDst, graph.TypeKnowledge, map[string]any{"knowledge_axis": "memorization"})
	require.NoError(t, err)
	_, err = g.AddEdge(axisSrc, "VERSE:1:1", graph.Dependency, nil)
	require.NoError(t, err)
	_, err = g.AddEdge(axisDst, "CHAPTER:1", graph.Dependency, nil)
	require.NoError(t, err)
	_, err = g.AddEdge(axisSrc, axisDst, graph.Knowledge, knowledge.Normal(0.8, 0.1).ToAttrs())
	require.NoError(t, err)

	return g
}

func TestComputeCountsNodesAndEdgesByType(t *testing.T) {
	r := Compute(scoredGraph(t), 5)
	assert.Equal(t, 1, r.NodeCountByType[graph.TypeChapter])
	assert.Equal(t, 1, r.NodeCountByType[graph.TypeVerse])
	assert.Equal(t, 3, r.EdgeCountByType[graph.Dependency])
	assert.Equal(t, 1, r.EdgeCountByType[graph.Knowledge])
	assert.Equal(t, 1, r.EdgeCountByDist[knowledge.DistNormal])
	assert.Equal(t, 1, r.EdgeCountByAxis["memorization"])
}

func TestComputeFlagsMissingDistribution(t *testing.T) {
	g := scoredGraph(t)
	_, err := g.AddNode("A", graph.TypeWord, nil)
	require.NoError(t, err)
	_, err = g.AddNode("B", graph.TypeWord, nil)
	require.NoError(t, err)
	_, err = g.AddEdge("A", "B", graph.Knowledge, nil)
	require.NoError(t, err)

	r := Compute(g, 5)
	assert.True(t, r.HasErrors())
}

func TestComputeScoreSummary(t *testing.T) {
	r := Compute(scoredGraph(t), 5)
	assert.InDelta(t, 0.4, r.Foundational.Min, 1e-9)
	assert.InDelta(t, 0.9, r.Foundational.Max, 1e-9)
	assert.InDelta(t, 0.65, r.Foundational.Mean, 1e-9)
}

func TestComputeTopNRespectsLimit(t *testing.T) {
	r := Compute(scoredGraph(t), 1)
	assert.Len(t, r.TopFoundational, 1)
	assert.Equal(t, "CHAPTER:1", r.TopFoundational[0].NodeID)
}

func TestComputeWeaklyConnectedSingleComponent(t *testing.T) {
	r := Compute(scoredGraph(t), 5)
	assert.True(t, r.WeaklyConnected)
	assert.Equal(t, 1, r.WeaklyConnectedComponents)
}
