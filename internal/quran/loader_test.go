package quran

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/iqrah/graphkg/pkg/errors"
)

func writeJSON(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func buildMinimalBundle(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	writeJSON(t, filepath.Join(dir, "structural-metadata", "surah-info-en.json"), `{
		"1": {"name_arabic": "الفاتحة", "name_simple": "Al-Fatihah", "name_complex": "Al-Fātiĥah",
		      "revelation_place": "makkah", "revelation_order": 5, "verses_count": 1}
	}`)

	writeJSON(t, filepath.Join(dir, "structural-metadata", "quran-metadata-ayah.json"), `{
		"1:1": {"juz_number": 1, "hizb_number": 1, "rub_el_hizb_number": 1,
		        "manzil_number": 1, "ruku_number": 1, "page_number": 1, "words_count": 2}
	}`)

	writeJSON(t, filepath.Join(dir, "text", "wbw", "uthmani.json"), `{
		"1:1:1": {"text": "بِسْمِ"},
		"1:1:2": {"text": "۝"}
	}`)

	return dir
}

func TestLoadFullQuranMinimalBundle(t *testing.T) {
	dir := buildMinimalBundle(t)
	q, err := NewLoader(dir).LoadFullQuran()
	require.NoError(t, err)

	require.Len(t, q.Chapters, 1)
	ch := q.Chapters[0]
	assert.Equal(t, 1, ch.Number)
	assert.True(t, ch.BismillahPre)
	require.Len(t, ch.Verses, 1)

	v := ch.Verses[0]
	assert.Equal(t, "1:1", v.VerseKey)
	require.Len(t, v.Words, 2)
	assert.False(t, v.Words[0].IsEnd())
	assert.True(t, v.Words[1].IsEnd())
	assert.Equal(t, 1, v.WordsCount())
	assert.Equal(t, "بِسْمِ ۝", v.TextUthmani())
}

func TestChapterNineBismillahDefaultsFalse(t *testing.T) {
	dir := t.TempDir()
	writeJSON(t, filepath.Join(dir, "structural-metadata", "surah-info-en.json"), `{
		"9": {"name_arabic": "التوبة", "name_simple": "At-Tawbah", "name_complex": "At-Tawbah",
		      "revelation_place": "madinah", "revelation_order": 113, "verses_count": 1}
	}`)
	writeJSON(t, filepath.Join(dir, "structural-metadata", "quran-metadata-ayah.json"), `{
		"9:1": {"juz_number": 10, "hizb_number": 19, "rub_el_hizb_number": 1,
		        "manzil_number": 2, "ruku_number": 1, "page_number": 187, "words_count": 1}
	}`)
	writeJSON(t, filepath.Join(dir, "text", "wbw", "uthmani.json"), `{"9:1:1": {"text": "بَرَاءَةٌ"}}`)

	q, err := NewLoader(dir).LoadFullQuran()
	require.NoError(t, err)
	assert.False(t, q.Chapters[0].BismillahPre)
}

func TestMissingRequiredFileIsTypedError(t *testing.T) {
	dir := t.TempDir()
	_, err := NewLoader(dir).LoadFullQuran()
	require.Error(t, err)
	assert.True(t, pkgerrors.IsMissing(err))
}

func TestMissingTransliterationDefaultsToAbsent(t *testing.T) {
	dir := buildMinimalBundle(t)
	translit, err := NewLoader(dir).LoadTransliteration()
	require.NoError(t, err)
	assert.Empty(t, translit)
}
