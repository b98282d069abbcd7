// Package kgbuilder composes C5 (nodemanager) and C6 (knowledge) to layer
// the five knowledge-edge families on top of a built dependency graph,
// grounded on original_source's graph/knowledge_builder.py
// (KnowledgeGraphBuilder).
package kgbuilder

import (
	"sort"
	"strconv"

	"github.com/iqrah/graphkg/internal/graph"
	"github.com/iqrah/graphkg/internal/ids"
	"github.com/iqrah/graphkg/internal/knowledge"
	"github.com/iqrah/graphkg/internal/nodemanager"
	"github.com/iqrah/graphkg/internal/quran"
	pkgerrors "github.com/iqrah/graphkg/pkg/errors"
)

// Stats tracks the number of knowledge edges each family created, mirroring
// original_source's Counter-based bookkeeping.
type Stats struct {
	Memorization     int
	Tajweed          int
	Translation      int
	Grammar          int
	DeepUnderstanding int
}

func (s Stats) Total() int {
	return s.Memorization + s.Tajweed + s.Translation + s.Grammar + s.DeepUnderstanding
}

// Builder layers knowledge edges over an already-built dependency graph.
type Builder struct {
	g  *graph.Graph
	q  quran.Quran
	nm *nodemanager.Manager
	km *knowledge.Manager

	versesByKey map[string]quran.Verse
	wordsByKey  map[string]quran.Word

	stats    Stats
	compiled bool
}

// New wraps g (already populated by the dependency builder) and q (the
// source-of-truth Quran aggregate used to read text lengths).
func New(g *graph.Graph, q quran.Quran) *Builder {
	b := &Builder{
		g:           g,
		q:           q,
		nm:          nodemanager.New(g),
		km:          knowledge.New(g),
		versesByKey: make(map[string]quran.Verse),
		wordsByKey:  make(map[string]quran.Word),
	}
	for _, chapter := range q.Chapters {
		for _, verse := range chapter.Verses {
			b.versesByKey[verse.VerseKey] = verse
			for _, word := range verse.Words {
				b.wordsByKey[wordKey(verse.ChapterNumber, verse.VerseNumber, word.Position)] = word
			}
		}
	}
	return b
}

func wordKey(chapter, verse, position int) string {
	return strconv.Itoa(chapter) + ":" + strconv.Itoa(verse) + ":" + strconv.Itoa(position)
}

// Stats returns the running per-family edge-creation counts.
func (b *Builder) Stats() Stats { return b.stats }

// BuildMemorizationEdges wires word->verse->chapter memorization edges
// weighted by letter counts, plus Gaussian contextual windows over words
// (window 3) and sequential verses (window 1).
func (b *Builder) BuildMemorizationEdges() (int, error) {
	if b.compiled {
		return 0, pkgerrors.State("cannot build edges: knowledge graph already compiled")
	}
	before := b.stats.Memorization

	for _, chapterID := range b.nm.NodesByType(graph.TypeChapter) {
		chapterKey, err := ids.ChapterKey(chapterID)
		if err != nil {
			return 0, err
		}
		chapterNum, _ := strconv.Atoi(chapterKey)
		chapter, ok := b.q.Chapter(chapterNum)
		if !ok {
			continue
		}

		var verseAxisNodes []string
		for _, verse := range chapter.Verses {
			verseID := ids.VerseID(verse.ChapterNumber, verse.VerseNumber)
			verseAxisNodes = append(verseAxisNodes, verseID)

			if err := b.km.AddKnowledgeEdge(
				verseID+":memorization", chapterID+":memorization",
				knowledge.AutoWeight(float64(verse.LettersCount())),
			); err != nil {
				return 0, err
			}
			b.stats.Memorization++

			var wordAxisNodes []string
			for _, word := range verse.Words {
				if word.IsEnd() {
					continue
				}
				wordID := ids.WordInstanceID(verse.ChapterNumber, verse.VerseNumber, word.Position)
				wordAxisNodes = append(wordAxisNodes, wordID+":memorization")

				if err := b.km.AddKnowledgeEdge(
					wordID+":memorization", verseID+":memorization",
					knowledge.AutoWeight(float64(word.LettersCount())),
				); err != nil {
					return 0, err
				}
				b.stats.Memorization++
			}

			if len(wordAxisNodes) > 0 {
				n, err := b.km.AddGaussianWindowEdges(wordAxisNodes, 3, 0.5, 0.15)
				if err != nil {
					return 0, err
				}
				b.stats.Memorization += n
			}
		}

		if len(verseAxisNodes) > 0 {
			axisNodes := make([]string, len(verseAxisNodes))
			for i, v := range verseAxisNodes {
				axisNodes[i] = v + ":memorization"
			}
			n, err := b.km.AddGaussianWindowEdges(axisNodes, 1, 0.7, 0.1)
			if err != nil {
				return 0, err
			}
			b.stats.Memorization += n
		}
	}

	return b.stats.Memorization - before, nil
}

// BuildTajweedEdges wires tajweed->memorization edges for words flagged
// has_tajweed, plus neighbor-to-neighbor tajweed links. Placeholder per
// spec.md §9: no tajweed rule detector exists yet, so this family only
// fires for words whose attrs already carry has_tajweed=true.
func (b *Builder) BuildTajweedEdges() (int, error) {
	if b.compiled {
		return 0, pkgerrors.State("cannot build edges: knowledge graph already compiled")
	}
	before := b.stats.Tajweed

	for _, verseID := range b.nm.NodesByType(graph.TypeVerse) {
		wordIDs := b.nm.VerseWords(verseID)
		var tajweedWords []string
		for _, wordID := range wordIDs {
			if b.hasTajweed(wordID) {
				tajweedWords = append(tajweedWords, wordID)
			}
		}
		for i, wordID := range tajweedWords {
			if err := b.km.AddKnowledgeEdge(
				wordID+":tajweed", wordID+":memorization", knowledge.Normal(0.7, 0.1),
			); err != nil {
				return 0, err
			}
			b.stats.Tajweed++

			if i+1 < len(tajweedWords) {
				if err := b.km.AddKnowledgeEdge(
					wordID+":tajweed", tajweedWords[i+1]+":tajweed", knowledge.Normal(0.3, 0.1),
				); err != nil {
					return 0, err
				}
				b.stats.Tajweed++
			}
		}
	}

	return b.stats.Tajweed - before, nil
}

func (b *Builder) hasTajweed(wordID string) bool {
	n, ok := b.g.Node(wordID)
	if !ok {
		return false
	}
	v, _ := n.Attrs["has_tajweed"].(bool)
	return v
}

// BuildTranslationEdges wires word->verse->chapter translation edges,
// word-instance->word-type edges, translation->memorization cross-axis
// edges over every translatable node, and bidirectional links between
// verses with identical Uthmani-simple text.
func (b *Builder) BuildTranslationEdges() (int, error) {
	if b.compiled {
		return 0, pkgerrors.State("cannot build edges: knowledge graph already compiled")
	}
	before := b.stats.Translation

	for _, chapterID := range b.nm.NodesByType(graph.TypeChapter) {
		chapterKey, err := ids.ChapterKey(chapterID)
		if err != nil {
			return 0, err
		}
		chapterNum, _ := strconv.Atoi(chapterKey)
		chapter, ok := b.q.Chapter(chapterNum)
		if !ok {
			continue
		}

		for _, verse := range chapter.Verses {
			verseID := ids.VerseID(verse.ChapterNumber, verse.VerseNumber)

			if err := b.km.AddKnowledgeEdge(
				verseID+":translation", chapterID+":translation",
				knowledge.AutoWeight(float64(verse.WordsCount())),
			); err != nil {
				return 0, err
			}
			b.stats.Translation++

			for _, word := range verse.Words {
				if word.IsEnd() {
					continue
				}
				wordInstanceID := ids.WordInstanceID(verse.ChapterNumber, verse.VerseNumber, word.Position)
				wordTypeID := ids.WordID(word.TextUthmani)

				if err := b.km.AddKnowledgeEdge(
					wordInstanceID+":translation", verseID+":translation",
					knowledge.AutoWeight(float64(word.LettersCount())),
				); err != nil {
					return 0, err
				}
				b.stats.Translation++

				if err := b.km.AddKnowledgeEdge(
					wordInstanceID+":translation", wordTypeID+":translation",
					knowledge.Normal(0.9, 0.1),
				); err != nil {
					return 0, err
				}
				b.stats.Translation++
			}
		}
	}

	for _, nodeID := range b.translatableNodes() {
		if err := b.km.AddKnowledgeEdge(
			nodeID+":translation", nodeID+":memorization", knowledge.Normal(0.4, 0.15),
		); err != nil {
			return 0, err
		}
		b.stats.Translation++
	}

	for _, verseKeys := range b.duplicateVerseGroups() {
		for i := 0; i < len(verseKeys); i++ {
			for j := i + 1; j < len(verseKeys); j++ {
				id1 := ids.VerseIDFromKey(verseKeys[i])
				id2 := ids.VerseIDFromKey(verseKeys[j])
				if err := b.km.AddBidirectionalKnowledgeEdge(
					id1+":translation", id2+":translation", knowledge.Normal(0.9, 0.1),
				); err != nil {
					return 0, err
				}
				b.stats.Translation += 2
			}
		}
	}

	return b.stats.Translation - before, nil
}

// translatableNodes is the union of word_instance and verse nodes (spec.md
// §4.7's "all nodes that can carry translation knowledge").
func (b *Builder) translatableNodes() []string {
	out := append([]string{}, b.nm.NodesByType(graph.TypeWordInstance)...)
	out = append(out, b.nm.NodesByType(graph.TypeVerse)...)
	sort.Strings(out)
	return out
}

// duplicateVerseGroups groups verse keys sharing identical Uthmani-simple
// text, sorted by group size descending then by text for determinism.
func (b *Builder) duplicateVerseGroups() [][]string {
	byText := make(map[string][]string)
	for _, verseID := range b.nm.NodesByType(graph.TypeVerse) {
		key, err := ids.VerseKey(verseID)
		if err != nil {
			continue
		}
		verse, ok := b.versesByKey[key]
		if !ok {
			continue
		}
		text := verse.TextUthmaniSimple()
		if text == "" {
			continue
		}
		byText[text] = append(byText[text], key)
	}

	var texts []string
	for text, keys := range byText {
		if len(keys) > 1 {
			texts = append(texts, text)
		}
	}
	sort.Slice(texts, func(i, j int) bool {
		if len(byText[texts[i]]) != len(byText[texts[j]]) {
			return len(byText[texts[i]]) > len(byText[texts[j]])
		}
		return texts[i] < texts[j]
	})

	groups := make([][]string, 0, len(texts))
	for _, text := range texts {
		keys := append([]string{}, byText[text]...)
		sort.Strings(keys)
		groups = append(groups, keys)
	}
	return groups
}

// BuildGrammarEdges wires word<->lemma bidirectional translation edges
// (weighted by lemma letter count) and lemma<->root bidirectional meaning
// edges (Beta(4, 2), a positive skew toward high weight).
func (b *Builder) BuildGrammarEdges() (int, error) {
	if b.compiled {
		return 0, pkgerrors.State("cannot build edges: knowledge graph already compiled")
	}
	before := b.stats.Grammar

	for _, wordID := range b.nm.NodesByType(graph.TypeWord) {
		for _, lemmaID := range b.nm.Related(wordID, graph.TypeLemma, graph.Dependency) {
			decoded, err := ids.Decode(lemmaID)
			if err != nil {
				return 0, err
			}
			lemmaLen := len([]rune(decoded.Payload))

			if err := b.km.AddBidirectionalKnowledgeEdge(
				wordID+":translation", lemmaID+":translation",
				knowledge.AutoWeight(float64(lemmaLen)),
			); err != nil {
				return 0, err
			}
			b.stats.Grammar += 2

			for _, rootID := range b.nm.Related(lemmaID, graph.TypeRoot, graph.Dependency) {
				if err := b.km.AddBidirectionalKnowledgeEdge(
					lemmaID+":translation", rootID+":meaning", knowledge.Beta(4, 2),
				); err != nil {
					return 0, err
				}
				b.stats.Grammar += 2
			}
		}
	}

	return b.stats.Grammar - before, nil
}

// BuildDeepUnderstandingEdges wires translation->tafsir edges for verses
// flagged has_tafsir, and root-meaning->lemma-translation edges discovered
// by a bounded graph walk.
func (b *Builder) BuildDeepUnderstandingEdges() (int, error) {
	if b.compiled {
		return 0, pkgerrors.State("cannot build edges: knowledge graph already compiled")
	}
	before := b.stats.DeepUnderstanding

	for _, verseID := range b.nm.NodesByType(graph.TypeVerse) {
		if !b.hasTafsir(verseID) {
			continue
		}
		if err := b.km.AddKnowledgeEdge(
			verseID+":translation", verseID+":tafsir", knowledge.Normal(0.3, 0.1),
		); err != nil {
			return 0, err
		}
		b.stats.DeepUnderstanding++
	}

	for _, lemmaID := range b.nm.NodesByType(graph.TypeLemma) {
		rootID, ok := b.wordRoot(lemmaID, 3)
		if !ok {
			continue
		}
		if err := b.km.AddKnowledgeEdge(
			rootID+":meaning", lemmaID+":translation", knowledge.Beta(4, 2),
		); err != nil {
			return 0, err
		}
		b.stats.DeepUnderstanding++
	}

	return b.stats.DeepUnderstanding - before, nil
}

func (b *Builder) hasTafsir(verseID string) bool {
	n, ok := b.g.Node(verseID)
	if !ok {
		return false
	}
	v, _ := n.Attrs["has_tafsir"].(bool)
	return v
}

// wordRoot performs a breadth-first walk of up to cutoff hops along any
// outgoing edge from nodeID, returning the first root-type node reached in
// traversal order, grounded on original_source's all_simple_paths-with-cutoff
// shortcut (spec.md §9's resolved open question: first root found wins).
func (b *Builder) wordRoot(nodeID string, cutoff int) (string, bool) {
	visited := map[string]struct{}{nodeID: {}}
	frontier := []string{nodeID}
	for depth := 0; depth < cutoff; depth++ {
		var next []string
		for _, id := range frontier {
			for _, e := range b.g.Out(id) {
				if _, seen := visited[e.To]; seen {
					continue
				}
				visited[e.To] = struct{}{}
				if n, ok := b.g.Node(e.To); ok && n.Type == graph.TypeRoot {
					return e.To, true
				}
				next = append(next, e.To)
			}
		}
		frontier = next
	}
	return "", false
}

// Families toggles each of the five edge families; its fields mirror
// pkg/config's EdgeFamilies so callers can pass that struct directly.
type Families struct {
	Memorization      bool
	Tajweed           bool
	Translation       bool
	Grammar           bool
	DeepUnderstanding bool
}

// BuildAll runs the requested edge families in original_source's fixed order:
// memorization, tajweed, translation, grammar, deep understanding.
func (b *Builder) BuildAll(families Families) error {
	if b.compiled {
		return pkgerrors.State("cannot build edges: knowledge graph already compiled")
	}
	if families.Memorization {
		if _, err := b.BuildMemorizationEdges(); err != nil {
			return err
		}
	}
	if families.Tajweed {
		if _, err := b.BuildTajweedEdges(); err != nil {
			return err
		}
	}
	if families.Translation {
		if _, err := b.BuildTranslationEdges(); err != nil {
			return err
		}
	}
	if families.Grammar {
		if _, err := b.BuildGrammarEdges(); err != nil {
			return err
		}
	}
	if families.DeepUnderstanding {
		if _, err := b.BuildDeepUnderstandingEdges(); err != nil {
			return err
		}
	}
	return nil
}

// Compile resolves all pending auto weights (via C6) and validates that
// every non-dependency edge in the graph carries a distribution
// descriptor, matching original_source's _validate_compiled_graph.
func (b *Builder) Compile(strict bool) error {
	if b.compiled {
		return pkgerrors.State("knowledge graph already compiled")
	}
	if err := b.km.Compile(strict); err != nil {
		return err
	}
	for _, e := range b.g.Edges() {
		if e.Type == graph.Dependency {
			continue
		}
		if _, ok := e.Attrs["dist"]; !ok {
			return pkgerrors.Invariant("edge %s->%s missing weight distribution after compilation", e.From, e.To)
		}
	}
	b.compiled = true
	return nil
}

// IsCompiled reports whether Compile has succeeded.
func (b *Builder) IsCompiled() bool { return b.compiled }
