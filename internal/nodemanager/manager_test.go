package nodemanager

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iqrah/graphkg/internal/graph"
)

func buildSample(t *testing.T) *graph.Graph {
	t.Helper()
	g := graph.New()
	_, err := g.AddNode("CHAPTER:1", graph.TypeChapter, map[string]any{"chapter_number": 1})
	require.NoError(t, err)
	_, err = g.AddNode("VERSE:1:2", graph.TypeVerse, map[string]any{"verse_number": 2})
	require.NoError(t, err)
	_, err = g.AddNode("VERSE:1:1", graph.TypeVerse, map[string]any{"verse_number": 1})
	require.NoError(t, err)
	_, err = g.AddNode("WORD_INSTANCE:1:1:2", graph.TypeWordInstance, map[string]any{"position": 2})
	require.NoError(t, err)
	_, err = g.AddNode("WORD_INSTANCE:1:1:1", graph.TypeWordInstance, map[string]any{"position": 1})
	require.NoError(t, err)

	_, _ = g.AddEdge("CHAPTER:1", "VERSE:1:1", graph.Dependency, nil)
	_, _ = g.AddEdge("CHAPTER:1", "VERSE:1:2", graph.Dependency, nil)
	_, _ = g.AddEdge("VERSE:1:1", "WORD_INSTANCE:1:1:2", graph.Dependency, nil)
	_, _ = g.AddEdge("VERSE:1:1", "WORD_INSTANCE:1:1:1", graph.Dependency, nil)
	return g
}

func TestNodesByType(t *testing.T) {
	m := New(buildSample(t))
	verses := m.NodesByType(graph.TypeVerse)
	assert.Equal(t, []string{"VERSE:1:1", "VERSE:1:2"}, verses)
}

func TestChapterVersesSortedByNumber(t *testing.T) {
	m := New(buildSample(t))
	verses := m.ChapterVerses("CHAPTER:1")
	assert.Equal(t, []string{"VERSE:1:1", "VERSE:1:2"}, verses)
}

func TestVerseWordsSortedByPosition(t *testing.T) {
	m := New(buildSample(t))
	words := m.VerseWords("VERSE:1:1")
	assert.Equal(t, []string{"WORD_INSTANCE:1:1:1", "WORD_INSTANCE:1:1:2"}, words)
}

func TestNodesByMetadataUnionWhenValueNil(t *testing.T) {
	m := New(buildSample(t))
	all := m.NodesByMetadata("position", nil)
	assert.ElementsMatch(t, []string{"WORD_INSTANCE:1:1:1", "WORD_INSTANCE:1:1:2"}, all)
}

func TestRelatedFiltersBySuccessorType(t *testing.T) {
	m := New(buildSample(t))
	related := m.Related("CHAPTER:1", graph.TypeVerse, graph.Dependency)
	assert.ElementsMatch(t, []string{"VERSE:1:1", "VERSE:1:2"}, related)
}
