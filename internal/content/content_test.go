package content

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iqrah/graphkg/internal/ids"
	"github.com/iqrah/graphkg/internal/morphology"
	"github.com/iqrah/graphkg/internal/quran"
)

func sampleQuran() quran.Quran {
	return quran.Quran{
		Chapters: []quran.Chapter{
			{
				Number: 1, NameArabic: "الفاتحة", NameSimple: "Al-Fatihah", NameComplex: "Al-Fātiḥah",
				RevelationPlace: "makkah", RevelationOrder: 5, BismillahPre: true, VersesCount: 1,
				Verses: []quran.Verse{
					{
						ChapterNumber: 1, VerseNumber: 1, VerseKey: "1:1", JuzNumber: 1, HizbNumber: 1,
						Words: []quran.Word{
							{Position: 1, TextUthmani: "بِسْمِ", Translation: "In the name", Transliteration: "bismi"},
							{Position: 2, TextUthmani: "اللَّهِ", Translation: "of Allah", Transliteration: "allahi"},
						},
					},
				},
			},
		},
	}
}

func sampleCorpus() *morphology.Corpus {
	lines := []string{
		"LOCATION\tFORM\tTAG\tFEATURES",
		"1:1:1:1\tبِ\tP\tPREF",
		"1:1:1:2\tسْمِ\tN\tSTEM|LEM:اسم|ROOT:سمو",
		"1:1:2:1\tاللَّهِ\tPN\tROOT:اله|LEM:الله",
	}
	c, err := morphology.Load(strings.NewReader(strings.Join(lines, "\n") + "\n"))
	if err != nil {
		panic(err)
	}
	return c
}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "content.db")
	s, err := Create(path)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestCreateBuildsSchema(t *testing.T) {
	s := newTestStore(t)
	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = 'chapters'`).Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestOpenRejectsMissingFile(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "does-not-exist.db"))
	require.Error(t, err)
}

func TestBuildIngestsChaptersVersesAndWords(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, Build(s, sampleQuran(), nil))

	chapter, err := s.GetChapterByNumber(1)
	require.NoError(t, err)
	require.NotNil(t, chapter)
	assert.Equal(t, ids.ChapterID(1), chapter.NodeID)
	assert.Equal(t, "Al-Fatihah", chapter.NameSimple)

	verse, err := s.GetVerseByKey("1:1")
	require.NoError(t, err)
	require.NotNil(t, verse)
	assert.Equal(t, 2, verse.WordsCount)

	words, err := s.GetWordsForVerse("1:1")
	require.NoError(t, err)
	require.Len(t, words, 2)
	assert.Equal(t, "بِسْمِ", words[0].TextUthmani)
}

func TestBuildIngestsWordTranslationsAndTransliterations(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, Build(s, sampleQuran(), nil))

	wordID := ids.WordInstanceID(1, 1, 1)
	word, err := s.GetWordWithTranslations(wordID)
	require.NoError(t, err)
	require.NotNil(t, word)
	assert.Equal(t, "In the name", word.Translations["en"])
	assert.Equal(t, "bismi", word.Transliterations["en"])
}

func TestBuildIngestsMorphologyWithLemmaAndRootLookup(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, Build(s, sampleQuran(), sampleCorpus()))

	segs, err := s.GetMorphologyForWord("1:1", 1)
	require.NoError(t, err)
	require.Len(t, segs, 2)

	lemma, err := s.GetLemmaByArabic("اسم")
	require.NoError(t, err)
	require.NotNil(t, lemma)
	assert.Equal(t, 1, lemma.OccurrencesCount)

	root, err := s.GetRootByArabic("سمو")
	require.NoError(t, err)
	require.NotNil(t, root)
}

func TestGetMissingRowsReturnNilNotError(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, Build(s, sampleQuran(), nil))

	chapter, err := s.GetChapterByNumber(99)
	require.NoError(t, err)
	assert.Nil(t, chapter)

	verse, err := s.GetVerseByKey("99:1")
	require.NoError(t, err)
	assert.Nil(t, verse)

	lemma, err := s.GetLemmaByArabic("نونو")
	require.NoError(t, err)
	assert.Nil(t, lemma)
}

func TestGetContentForNodesGroupsByKind(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, Build(s, sampleQuran(), sampleCorpus()))

	bundle, err := s.GetContentForNodes([]string{
		ids.ChapterID(1),
		ids.VerseIDFromKey("1:1"),
		ids.WordInstanceID(1, 1, 1),
		ids.LemmaID("اسم"),
	})
	require.NoError(t, err)
	assert.Len(t, bundle.Chapters, 1)
	assert.Len(t, bundle.Verses, 1)
	assert.Len(t, bundle.Words, 1)
	assert.Len(t, bundle.Lemmas, 1)
}

func TestEnsurePackageIsIdempotentOnPackageID(t *testing.T) {
	s := newTestStore(t)
	tx, err := s.db.Begin()
	require.NoError(t, err)
	defer tx.Rollback()

	id1, err := EnsurePackage(tx, Package{Type: PackageTranslation, DisplayName: "Sahih International", LanguageCode: "en", Version: "1"})
	require.NoError(t, err)
	id2, err := EnsurePackage(tx, Package{Type: PackageTranslation, DisplayName: "Sahih International (rev.)", LanguageCode: "en", Version: "1"})
	require.NoError(t, err)
	assert.Equal(t, id1, id2)

	var count int
	require.NoError(t, tx.QueryRow(`SELECT COUNT(*) FROM content_packages`).Scan(&count))
	assert.Equal(t, 1, count)
}

func TestFinalizeRunsOutsideTransaction(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, Build(s, sampleQuran(), nil))
	require.NoError(t, s.Finalize())
}
