// Package depgraph builds the dependency graph over the Quran's
// compositional hierarchy (spec.md §4.4), grounded on
// original_source's graph/builder.py (NodeRegistry/EdgeRegistry/
// QuranGraphBuilder).
package depgraph

import (
	"github.com/iqrah/graphkg/internal/graph"
	"github.com/iqrah/graphkg/internal/ids"
	"github.com/iqrah/graphkg/internal/morphology"
	"github.com/iqrah/graphkg/internal/quran"
)

// Build produces a graph containing only dependency edges, in a single
// pass over chapters -> verses -> words, per spec.md §4.4 steps 1-2.
func Build(q quran.Quran, corpus *morphology.Corpus) (*graph.Graph, error) {
	g := graph.New()

	for _, chapter := range q.Chapters {
		chapterID := ids.ChapterID(chapter.Number)
		if _, err := g.AddNode(chapterID, graph.TypeChapter, map[string]any{
			"chapter_number": chapter.Number,
		}); err != nil {
			return nil, err
		}

		var prevVerseID string
		for vi, verse := range chapter.Verses {
			verseID := ids.VerseID(verse.ChapterNumber, verse.VerseNumber)
			if _, err := g.AddNode(verseID, graph.TypeVerse, map[string]any{
				"verse_key":      verse.VerseKey,
				"chapter_number": verse.ChapterNumber,
				"verse_number":   verse.VerseNumber,
				"has_tafsir":     verse.HasTafsir,
			}); err != nil {
				return nil, err
			}
			if _, err := g.AddEdge(chapterID, verseID, graph.Dependency, nil); err != nil {
				return nil, err
			}
			if vi > 0 {
				if _, err := g.AddEdge(verseID, prevVerseID, graph.Dependency, nil); err != nil {
					return nil, err
				}
			}
			prevVerseID = verseID

			if err := processWords(g, corpus, chapter.Number, verse, verseID); err != nil {
				return nil, err
			}
		}
	}

	return g, nil
}

func processWords(g *graph.Graph, corpus *morphology.Corpus, chapterNumber int, verse quran.Verse, verseID string) error {
	var prevWordInstanceID string
	processedAny := false

	for _, word := range verse.Words {
		if word.IsEnd() {
			continue
		}

		wordInstanceID := ids.WordInstanceID(chapterNumber, verse.VerseNumber, word.Position)
		if _, err := g.AddNode(wordInstanceID, graph.TypeWordInstance, map[string]any{
			"verse_key": verse.VerseKey,
			"position":  word.Position,
		}); err != nil {
			return err
		}
		if _, err := g.AddEdge(verseID, wordInstanceID, graph.Dependency, nil); err != nil {
			return err
		}
		if processedAny {
			if _, err := g.AddEdge(wordInstanceID, prevWordInstanceID, graph.Dependency, nil); err != nil {
				return err
			}
		}
		prevWordInstanceID = wordInstanceID
		processedAny = true

		wordID := ids.WordID(word.TextUthmani)
		if _, err := g.AddNode(wordID, graph.TypeWord, map[string]any{
			"word_key": word.TextUthmani,
		}); err != nil {
			return err
		}
		if _, err := g.AddEdge(wordInstanceID, wordID, graph.Dependency, nil); err != nil {
			return err
		}

		segments := corpus.Word(chapterNumber, verse.VerseNumber, word.Position)
		for _, seg := range segments {
			if seg.Lemma == "" {
				continue
			}
			lemmaID := ids.LemmaID(seg.Lemma)
			if _, err := g.AddNode(lemmaID, graph.TypeLemma, nil); err != nil {
				return err
			}
			if _, err := g.AddEdge(wordID, lemmaID, graph.Dependency, nil); err != nil {
				return err
			}

			if seg.Root != "" {
				rootID := ids.RootID(seg.Root)
				if _, err := g.AddNode(rootID, graph.TypeRoot, nil); err != nil {
					return err
				}
				if _, err := g.AddEdge(lemmaID, rootID, graph.Dependency, nil); err != nil {
					return err
				}
			}
		}
	}
	return nil
}
