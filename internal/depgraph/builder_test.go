package depgraph

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iqrah/graphkg/internal/graph"
	"github.com/iqrah/graphkg/internal/ids"
	"github.com/iqrah/graphkg/internal/morphology"
	"github.com/iqrah/graphkg/internal/quran"
)

func smallQuran() quran.Quran {
	return quran.Quran{Chapters: []quran.Chapter{
		{
			Number:      1,
			NameSimple:  "Al-Fatihah",
			VersesCount: 2,
			Verses: []quran.Verse{
				{
					ChapterNumber: 1, VerseNumber: 1, VerseKey: "1:1",
					Words: []quran.Word{
						{Position: 1, TextUthmani: "بِسْمِ"},
						{Position: 2, TextUthmani: "۝", CharTypeName: "end"},
					},
				},
				{
					ChapterNumber: 1, VerseNumber: 2, VerseKey: "1:2",
					Words: []quran.Word{
						{Position: 1, TextUthmani: "ٱلْحَمْدُ"},
						{Position: 2, TextUthmani: "۝", CharTypeName: "end"},
					},
				},
			},
		},
	}}
}

func smallCorpus(t *testing.T) *morphology.Corpus {
	t.Helper()
	tsv := "LOCATION\tFORM\tTAG\tFEATURES\n" +
		"1:1:1:1\tبِسْمِ\tN\tROOT:سمو|LEM:اسم\n" +
		"1:2:1:1\tٱلْحَمْدُ\tN\tROOT:حمد|LEM:حمد\n"
	c, err := morphology.Load(strings.NewReader(tsv))
	require.NoError(t, err)
	return c
}

func TestBuildProducesExpectedNodeShape(t *testing.T) {
	g, err := Build(smallQuran(), smallCorpus(t))
	require.NoError(t, err)

	assert.True(t, g.HasNode(ids.ChapterID(1)))
	assert.True(t, g.HasNode(ids.VerseID(1, 1)))
	assert.True(t, g.HasNode(ids.VerseID(1, 2)))
	assert.True(t, g.HasNode(ids.WordInstanceID(1, 1, 1)))
	assert.False(t, g.HasNode(ids.WordInstanceID(1, 1, 2)), "end markers must be skipped")
	assert.True(t, g.HasNode(ids.LemmaID("اسم")))
	assert.True(t, g.HasNode(ids.RootID("سمو")))
}

func TestBuildP1WordInstanceEdges(t *testing.T) {
	g, err := Build(smallQuran(), smallCorpus(t))
	require.NoError(t, err)

	verseID := ids.VerseID(1, 1)
	wiID := ids.WordInstanceID(1, 1, 1)
	_, hasVerseToWI := g.Edge(verseID, wiID, graph.Dependency)
	assert.True(t, hasVerseToWI)

	wordID := ids.WordID("بِسْمِ")
	_, hasWIToWord := g.Edge(wiID, wordID, graph.Dependency)
	assert.True(t, hasWIToWord)
}

func TestBuildPreviousVerseBackLink(t *testing.T) {
	g, err := Build(smallQuran(), smallCorpus(t))
	require.NoError(t, err)

	_, ok := g.Edge(ids.VerseID(1, 2), ids.VerseID(1, 1), graph.Dependency)
	assert.True(t, ok)
}

func TestBuildIsIdempotentAcrossRepeatedCalls(t *testing.T) {
	q := smallQuran()
	corpus := smallCorpus(t)
	g1, err := Build(q, corpus)
	require.NoError(t, err)
	g2, err := Build(q, corpus)
	require.NoError(t, err)
	assert.Equal(t, g1.NodeCount(), g2.NodeCount())
	assert.Equal(t, g1.EdgeCount(), g2.EdgeCount())
}
