package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddNodeIsIdempotent(t *testing.T) {
	g := New()
	n1, err := g.AddNode("A", TypeChapter, map[string]any{"x": 1})
	require.NoError(t, err)
	n2, err := g.AddNode("A", TypeChapter, map[string]any{"x": 2})
	require.NoError(t, err)
	assert.Same(t, n1, n2)
	assert.Equal(t, 1, n1.Attrs["x"])
	assert.Equal(t, 1, g.NodeCount())
}

func TestAddEdgeIsIdempotent(t *testing.T) {
	g := New()
	_, _ = g.AddNode("A", TypeChapter, nil)
	_, _ = g.AddNode("B", TypeVerse, nil)

	e1, err := g.AddEdge("A", "B", Dependency, nil)
	require.NoError(t, err)
	e2, err := g.AddEdge("A", "B", Dependency, map[string]any{"ignored": true})
	require.NoError(t, err)
	assert.Same(t, e1, e2)
	assert.Equal(t, 1, g.EdgeCount())
}

func TestAddEdgeRequiresExistingEndpoints(t *testing.T) {
	g := New()
	_, _ = g.AddNode("A", TypeChapter, nil)
	_, err := g.AddEdge("A", "missing", Dependency, nil)
	require.Error(t, err)
}

func TestFreezeRejectsFurtherMutation(t *testing.T) {
	g := New()
	_, _ = g.AddNode("A", TypeChapter, nil)
	g.Freeze()

	_, err := g.AddNode("B", TypeVerse, nil)
	require.Error(t, err)

	_, err = g.AddEdge("A", "A", Dependency, nil)
	require.Error(t, err)
}

func TestOutInFiltering(t *testing.T) {
	g := New()
	_, _ = g.AddNode("A", TypeChapter, nil)
	_, _ = g.AddNode("B", TypeVerse, nil)
	_, _ = g.AddNode("C", TypeVerse, nil)
	_, _ = g.AddEdge("A", "B", Dependency, nil)
	_, _ = g.AddEdge("A", "C", Knowledge, nil)

	assert.Len(t, g.Out("A"), 2)
	assert.Len(t, g.Out("A", Dependency), 1)
	assert.Len(t, g.In("B"), 1)
}

func TestInsertionOrderPreserved(t *testing.T) {
	g := New()
	ids := []string{"C", "A", "B"}
	for _, id := range ids {
		_, _ = g.AddNode(id, TypeVerse, nil)
	}
	var got []string
	for _, n := range g.Nodes() {
		got = append(got, n.ID)
	}
	assert.Equal(t, ids, got)
}

func TestWeaklyConnectedComponents(t *testing.T) {
	g := New()
	_, _ = g.AddNode("A", TypeChapter, nil)
	_, _ = g.AddNode("B", TypeVerse, nil)
	_, _ = g.AddNode("C", TypeVerse, nil)
	_, _ = g.AddEdge("A", "B", Dependency, nil)

	assert.Equal(t, 2, g.WeaklyConnectedComponents())
}
