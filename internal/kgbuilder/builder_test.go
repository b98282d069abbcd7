package kgbuilder

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iqrah/graphkg/internal/depgraph"
	"github.com/iqrah/graphkg/internal/graph"
	"github.com/iqrah/graphkg/internal/ids"
	"github.com/iqrah/graphkg/internal/morphology"
	"github.com/iqrah/graphkg/internal/quran"
)

func sampleQuran() quran.Quran {
	return quran.Quran{Chapters: []quran.Chapter{
		{
			Number:      1,
			NameSimple:  "Al-Fatihah",
			VersesCount: 2,
			Verses: []quran.Verse{
				{
					ChapterNumber: 1, VerseNumber: 1, VerseKey: "1:1",
					Words: []quran.Word{
						{Position: 1, TextUthmani: "بِسْمِ", TextUthmaniSimple: "بسم"},
						{Position: 2, TextUthmani: "ٱللَّهِ", TextUthmaniSimple: "الله"},
						{Position: 3, TextUthmani: "۝", CharTypeName: "end"},
					},
				},
				{
					ChapterNumber: 1, VerseNumber: 2, VerseKey: "1:2",
					Words: []quran.Word{
						{Position: 1, TextUthmani: "بِسْمِ", TextUthmaniSimple: "بسم"},
						{Position: 2, TextUthmani: "ٱللَّهِ", TextUthmaniSimple: "الله"},
						{Position: 3, TextUthmani: "۝", CharTypeName: "end"},
					},
				},
			},
		},
	}}
}

func sampleCorpus(t *testing.T) *morphology.Corpus {
	t.Helper()
	tsv := "LOCATION\tFORM\tTAG\tFEATURES\n" +
		"1:1:1:1\tبِسْمِ\tN\tROOT:سمو|LEM:اسم\n" +
		"1:1:2:1\tٱللَّهِ\tN\tROOT:اله|LEM:الله\n" +
		"1:2:1:1\tبِسْمِ\tN\tROOT:سمو|LEM:اسم\n" +
		"1:2:2:1\tٱللَّهِ\tN\tROOT:اله|LEM:الله\n"
	c, err := morphology.Load(strings.NewReader(tsv))
	require.NoError(t, err)
	return c
}

func newBuilder(t *testing.T) *Builder {
	t.Helper()
	q := sampleQuran()
	g, err := depgraph.Build(q, sampleCorpus(t))
	require.NoError(t, err)
	return New(g, q)
}

func TestBuildMemorizationEdgesCreatesHierarchy(t *testing.T) {
	b := newBuilder(t)
	n, err := b.BuildMemorizationEdges()
	require.NoError(t, err)
	assert.Greater(t, n, 0)

	wordID := ids.WordInstanceID(1, 1, 1)
	verseID := ids.VerseID(1, 1)
	_, ok := b.g.Edge(wordID+":memorization", verseID+":memorization", graph.Knowledge)
	assert.True(t, ok)
}

func TestBuildTranslationEdgesConnectsDuplicateVerses(t *testing.T) {
	b := newBuilder(t)
	_, err := b.BuildTranslationEdges()
	require.NoError(t, err)

	v1 := ids.VerseID(1, 1)
	v2 := ids.VerseID(1, 2)
	_, fwd := b.g.Edge(v1+":translation", v2+":translation", graph.Knowledge)
	_, rev := b.g.Edge(v2+":translation", v1+":translation", graph.Knowledge)
	assert.True(t, fwd, "identical verse texts must be linked forward")
	assert.True(t, rev, "identical verse texts must be linked backward")
}

func TestBuildGrammarEdgesConnectsWordLemmaRoot(t *testing.T) {
	b := newBuilder(t)
	n, err := b.BuildGrammarEdges()
	require.NoError(t, err)
	assert.Greater(t, n, 0)

	wordID := ids.WordID("بِسْمِ")
	lemmaID := ids.LemmaID("اسم")
	_, ok := b.g.Edge(wordID+":translation", lemmaID+":translation", graph.Knowledge)
	assert.True(t, ok)

	rootID := ids.RootID("سمو")
	_, ok = b.g.Edge(lemmaID+":translation", rootID+":meaning", graph.Knowledge)
	assert.True(t, ok)
}

func TestCompileFailsTwice(t *testing.T) {
	b := newBuilder(t)
	require.NoError(t, b.BuildAll(Families{Memorization: true, Translation: true, Grammar: true}))
	require.NoError(t, b.Compile(false))
	assert.Error(t, b.Compile(false))
}

func TestBuildAllThenCompileLeavesNoMissingDistributions(t *testing.T) {
	b := newBuilder(t)
	require.NoError(t, b.BuildAll(Families{
		Memorization: true, Translation: true, Grammar: true, DeepUnderstanding: true,
	}))
	require.NoError(t, b.Compile(false))

	for _, e := range b.g.Edges() {
		if e.Type == graph.Dependency {
			continue
		}
		_, ok := e.Attrs["dist"]
		assert.True(t, ok, "edge %s->%s missing dist after compile", e.From, e.To)
	}
}
