package quran

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	pkgerrors "github.com/iqrah/graphkg/pkg/errors"
)

// Loader materializes a Quran aggregate from an offline bundle directory
// (spec.md §6.1), caching parsed JSON files for the duration of one run.
type Loader struct {
	bundleDir string
	cache     map[string]any
}

// NewLoader constructs a Loader rooted at bundleDir.
func NewLoader(bundleDir string) *Loader {
	return &Loader{bundleDir: bundleDir, cache: make(map[string]any)}
}

func (l *Loader) path(parts ...string) string {
	return filepath.Join(append([]string{l.bundleDir}, parts...)...)
}

func (l *Loader) loadJSON(relPath string, out any) error {
	if cached, ok := l.cache[relPath]; ok {
		data, _ := json.Marshal(cached)
		return json.Unmarshal(data, out)
	}
	full := l.path(relPath)
	data, err := os.ReadFile(full)
	if err != nil {
		if os.IsNotExist(err) {
			return pkgerrors.Missing("bundle file not found: %s", relPath)
		}
		return pkgerrors.IO(fmt.Sprintf("reading bundle file %s", relPath), err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return pkgerrors.Malformed("invalid JSON in %s: %v", relPath, err)
	}
	var cacheCopy any
	_ = json.Unmarshal(data, &cacheCopy)
	l.cache[relPath] = cacheCopy
	return nil
}

type surahInfoEntry struct {
	NameArabic      string `json:"name_arabic"`
	NameSimple      string `json:"name_simple"`
	NameComplex     string `json:"name_complex"`
	RevelationPlace string `json:"revelation_place"`
	RevelationOrder int    `json:"revelation_order"`
	VersesCount     int    `json:"verses_count"`
	BismillahPre    *bool  `json:"bismillah_pre,omitempty"`
}

type ayahMetaEntry struct {
	JuzNumber    int    `json:"juz_number"`
	HizbNumber   int    `json:"hizb_number"`
	RubNumber    int    `json:"rub_el_hizb_number"`
	ManzilNumber int    `json:"manzil_number"`
	RukuNumber   int    `json:"ruku_number"`
	PageNumber   int    `json:"page_number"`
	SajdahType   string `json:"sajdah_type,omitempty"`
	SajdahNumber int    `json:"sajdah_number,omitempty"`
	WordsCount   int    `json:"words_count"`
	HasTafsir    bool   `json:"has_tafsir,omitempty"`
	HasTajweed   bool   `json:"has_tajweed,omitempty"`
}

type wbwTextEntry struct {
	Text string `json:"text"`
}

type translationEntry struct {
	T string `json:"t"`
}

// LoadChapterMetadata loads structural-metadata/surah-info-en.json, a
// required input.
func (l *Loader) LoadChapterMetadata() (map[int]surahInfoEntry, error) {
	var raw map[string]surahInfoEntry
	if err := l.loadJSON(filepath.Join("structural-metadata", "surah-info-en.json"), &raw); err != nil {
		return nil, err
	}
	out := make(map[int]surahInfoEntry, len(raw))
	for k, v := range raw {
		n, err := strconv.Atoi(k)
		if err != nil {
			return nil, pkgerrors.Malformed("invalid chapter key %q in surah-info-en.json", k)
		}
		out[n] = v
	}
	return out, nil
}

// LoadVerseMetadata loads structural-metadata/quran-metadata-ayah.json, a
// required input, keyed by verse key "chapter:verse".
func (l *Loader) LoadVerseMetadata() (map[string]ayahMetaEntry, error) {
	var raw map[string]ayahMetaEntry
	if err := l.loadJSON(filepath.Join("structural-metadata", "quran-metadata-ayah.json"), &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

// LoadWordText loads one of the three word-by-word text maps
// (text/wbw/{uthmani,uthmani-simple,imlaei}.json), keyed by
// "chapter:verse:position". LoadFullQuran requires only uthmani; the
// other two are optional there.
func (l *Loader) LoadWordText(variant string) (map[string]string, error) {
	var raw map[string]wbwTextEntry
	if err := l.loadJSON(filepath.Join("text", "wbw", variant+".json"), &raw); err != nil {
		return nil, err
	}
	out := make(map[string]string, len(raw))
	for k, v := range raw {
		out[k] = v.Text
	}
	return out, nil
}

// LoadTransliteration loads the optional word-level transliteration map; a
// missing file is not an error — the loader defaults to absent.
func (l *Loader) LoadTransliteration() (map[string]string, error) {
	var raw map[string]string
	err := l.loadJSON(filepath.Join("transliterations", "english-wbw-transliteration.json"), &raw)
	if err != nil {
		if pkgerrors.IsMissing(err) {
			return map[string]string{}, nil
		}
		return nil, err
	}
	return raw, nil
}

// LoadTranslation loads an optional verse-level translation map for the
// given language prefix and resource key; a missing file is not an error.
func (l *Loader) LoadTranslation(langPrefix, key string) (map[string]string, error) {
	var raw map[string]translationEntry
	err := l.loadJSON(filepath.Join("translations", langPrefix, key+".json"), &raw)
	if err != nil {
		if pkgerrors.IsMissing(err) {
			return map[string]string{}, nil
		}
		return nil, err
	}
	out := make(map[string]string, len(raw))
	for k, v := range raw {
		out[k] = v.T
	}
	return out, nil
}

// LoadFullQuran assembles the complete Quran aggregate from the bundle,
// deterministically and without network access.
func (l *Loader) LoadFullQuran() (Quran, error) {
	chapterMeta, err := l.LoadChapterMetadata()
	if err != nil {
		return Quran{}, err
	}
	verseMeta, err := l.LoadVerseMetadata()
	if err != nil {
		return Quran{}, err
	}
	uthmani, err := l.LoadWordText("uthmani")
	if err != nil {
		return Quran{}, err
	}
	uthmaniSimple, _ := l.LoadWordText("uthmani-simple")
	imlaei, _ := l.LoadWordText("imlaei")
	translit, err := l.LoadTransliteration()
	if err != nil {
		return Quran{}, err
	}

	chapterNumbers := make([]int, 0, len(chapterMeta))
	for n := range chapterMeta {
		chapterNumbers = append(chapterNumbers, n)
	}
	sort.Ints(chapterNumbers)

	versesByChapter := make(map[int][]string)
	for key := range verseMeta {
		chStr, _, ok := strings.Cut(key, ":")
		if !ok {
			continue
		}
		ch, err := strconv.Atoi(chStr)
		if err != nil {
			continue
		}
		versesByChapter[ch] = append(versesByChapter[ch], key)
	}
	for ch := range versesByChapter {
		sort.Slice(versesByChapter[ch], func(i, j int) bool {
			return verseOrdinal(versesByChapter[ch][i]) < verseOrdinal(versesByChapter[ch][j])
		})
	}

	chapters := make([]Chapter, 0, len(chapterNumbers))
	for _, num := range chapterNumbers {
		meta := chapterMeta[num]
		bismillahPre := num != 9
		if meta.BismillahPre != nil {
			bismillahPre = *meta.BismillahPre
		}

		verses := make([]Verse, 0, len(versesByChapter[num]))
		for _, vkey := range versesByChapter[num] {
			vMeta := verseMeta[vkey]
			_, verseNumStr, _ := strings.Cut(vkey, ":")
			verseNum, _ := strconv.Atoi(verseNumStr)

			words := make([]Word, 0, vMeta.WordsCount)
			for pos := 1; pos <= vMeta.WordsCount; pos++ {
				wkey := fmt.Sprintf("%s:%d", vkey, pos)
				w := Word{
					Position:          pos,
					TextUthmani:       uthmani[wkey],
					TextUthmaniSimple: uthmaniSimple[wkey],
					TextImlaei:        imlaei[wkey],
					Transliteration:   translit[wkey],
				}
				if pos == vMeta.WordsCount {
					w.CharTypeName = "end"
				} else {
					w.CharTypeName = "word"
				}
				words = append(words, w)
			}

			verses = append(verses, Verse{
				ChapterNumber: num,
				VerseNumber:   verseNum,
				VerseKey:      vkey,
				JuzNumber:     vMeta.JuzNumber,
				HizbNumber:    vMeta.HizbNumber,
				RubNumber:     vMeta.RubNumber,
				ManzilNumber:  vMeta.ManzilNumber,
				RukuNumber:    vMeta.RukuNumber,
				PageNumber:    vMeta.PageNumber,
				SajdahType:    vMeta.SajdahType,
				SajdahNumber:  vMeta.SajdahNumber,
				Words:         words,
				HasTafsir:     vMeta.HasTafsir,
				HasTajweed:    vMeta.HasTajweed,
			})
		}

		chapters = append(chapters, Chapter{
			Number:          num,
			NameArabic:      meta.NameArabic,
			NameSimple:      meta.NameSimple,
			NameComplex:     meta.NameComplex,
			RevelationPlace: meta.RevelationPlace,
			RevelationOrder: meta.RevelationOrder,
			BismillahPre:    bismillahPre,
			VersesCount:     meta.VersesCount,
			Verses:          verses,
		})
	}

	return Quran{Chapters: chapters}, nil
}

func verseOrdinal(key string) int {
	_, v, ok := strings.Cut(key, ":")
	if !ok {
		return 0
	}
	n, _ := strconv.Atoi(v)
	return n
}
