package codec

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/fxamacker/cbor/v2"
	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iqrah/graphkg/internal/graph"
	"github.com/iqrah/graphkg/internal/knowledge"
)

func sampleGraph(t *testing.T) *graph.Graph {
	t.Helper()
	g := graph.New()
	_, err := g.AddNode("CHAPTER:1", graph.TypeChapter, map[string]any{
		"chapter_number":     1,
		"foundational_score": 0.8,
		"arabic_name":        "الفاتحة",
	})
	require.NoError(t, err)
	_, err = g.AddNode("VERSE:1:1", graph.TypeVerse, map[string]any{
		"verse_key":   "1:1",
		"text_simple": "بسم الله الرحمن الرحيم",
	})
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

func TestExportRejectsEmptyGraph(t *testing.T) {
	err := Export(graph.New(), filepath.Join(t.TempDir(), "out.cbor.zst"), 9, nil)
	assert.Error(t, err)
}

func TestExportThenImportRoundTripsStructure(t *testing.T) {
	g := sampleGraph(t)
	path := filepath.Join(t.TempDir(), "graph.cbor.zst")

	require.NoError(t, Export(g, path, 9, map[string]any{"source": "test"}))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))

	result, err := Import(path)
	require.NoError(t, err)
	assert.Empty(t, result.Warnings)
	assert.Equal(t, g.NodeCount(), result.Graph.NodeCount())
	assert.Equal(t, g.EdgeCount(), result.Graph.EdgeCount())

	chapter, ok := result.Graph.Node("CHAPTER:1")
	require.True(t, ok)
	assert.Equal(t, graph.TypeChapter, chapter.Type)
	assert.Equal(t, 0.8, chapter.Attrs["foundational_score"])
	_, hasArabicName := chapter.Attrs["arabic_name"]
	assert.False(t, hasArabicName, "content attributes must not survive structural export")

	verse, ok := result.Graph.Node("VERSE:1:1")
	require.True(t, ok)
	_, hasText := verse.Attrs["text_simple"]
	assert.False(t, hasText)

	edge, ok := result.Graph.Edge("VERSE:1:1:memorization", "CHAPTER:1:memorization", graph.Knowledge)
	require.True(t, ok)
	dist, ok := knowledge.FromAttrs(edge.Attrs)
	require.True(t, ok)
	assert.Equal(t, knowledge.DistNormal, dist.Kind)

	assert.Equal(t, "test", result.Metadata["source"])
}

func TestImportMissingFileFails(t *testing.T) {
	_, err := Import(filepath.Join(t.TempDir(), "does-not-exist.cbor.zst"))
	assert.Error(t, err)
}

func TestImportCorruptFileFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corrupt.cbor.zst")
	require.NoError(t, os.WriteFile(path, []byte("not a zstd stream"), 0o644))

	_, err := Import(path)
	assert.Error(t, err)
}

func TestImportReportsCountMismatchAsWarningNotFatal(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mismatch.cbor.zst")
	f, err := os.Create(path)
	require.NoError(t, err)

	zw, err := zstd.NewWriter(f)
	require.NoError(t, err)
	enc := cbor.NewEncoder(zw)

	require.NoError(t, enc.Encode(header{
		V: formatVersion, Format: formatName,
		Graph: graphMeta{Directed: true, NodeCount: 2, EdgeCount: 0},
	}))
	require.NoError(t, enc.Encode(nodeRecord{T: "node", ID: "ONLY:1", A: map[string]any{"type": "word"}}))
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())

	result, err := Import(path)
	require.NoError(t, err)
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "node count mismatch")
}
