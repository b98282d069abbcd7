// Package quran models the Quran aggregate (spec.md §3.3) and loads it from
// an offline data bundle (spec.md §4.3), grounded on original_source's
// quran_api/models.py (aggregate shape) and quran_offline/loader.py
// (assembly rules).
package quran

// Word owns its position within a verse and its surface forms. CharTypeName
// carries the sentinel value "end" for ayah-terminator glyphs.
type Word struct {
	Position          int
	TextUthmani       string
	TextUthmaniSimple string
	TextImlaei        string
	Transliteration   string
	Translation       string
	CharTypeName      string
}

// IsEnd reports whether this word is an ayah-terminator glyph.
func (w Word) IsEnd() bool { return w.CharTypeName == "end" }

// text picks the first available surface form, mirroring the Python
// _any_text preference order (uthmani, uthmani-simple, imlaei).
func (w Word) text() string {
	for _, t := range []string{w.TextUthmani, w.TextUthmaniSimple, w.TextImlaei} {
		if t != "" {
			return t
		}
	}
	return ""
}

// LettersCount returns the rune length of the word's surface text.
func (w Word) LettersCount() int { return len([]rune(w.text())) }

// Verse owns its words and structural metadata.
type Verse struct {
	ChapterNumber int
	VerseNumber   int
	VerseKey      string
	JuzNumber     int
	HizbNumber    int
	RubNumber     int
	ManzilNumber  int
	RukuNumber    int
	PageNumber    int
	SajdahType    string
	SajdahNumber  int
	Words         []Word

	// HasTafsir / HasTajweed are read-only bundle-supplied attributes; the
	// pipeline never sets them itself (spec.md §9 open question).
	HasTafsir  bool
	HasTajweed bool
}

// TextUthmani reconstructs verse text by joining word texts with a single
// space, inventing no whitespace or diacritics beyond what the source words
// carry.
func (v Verse) TextUthmani() string {
	return joinWords(v.Words, func(w Word) string { return w.TextUthmani })
}

// TextUthmaniSimple is the simplified-script counterpart of TextUthmani,
// used for duplicate-verse detection in C7's translation edge family.
func (v Verse) TextUthmaniSimple() string {
	return joinWords(v.Words, func(w Word) string { return w.TextUthmaniSimple })
}

func joinWords(words []Word, pick func(Word) string) string {
	out := ""
	for i, w := range words {
		t := pick(w)
		if t == "" {
			continue
		}
		if i > 0 && out != "" {
			out += " "
		}
		out += t
	}
	return out
}

// WordsCount excludes the terminal "end" marker, matching
// Verse.get_words_count in the original implementation.
func (v Verse) WordsCount() int {
	n := len(v.Words)
	if n > 0 && v.Words[n-1].IsEnd() {
		n--
	}
	return n
}

// LettersCount is the rune length of the reconstructed Uthmani verse text.
func (v Verse) LettersCount() int { return len([]rune(v.TextUthmani())) }

// Chapter owns its verses and structural/revelation metadata.
type Chapter struct {
	Number          int
	NameArabic      string
	NameSimple      string
	NameComplex     string
	RevelationPlace string // "makkah" | "madinah"
	RevelationOrder int
	// BismillahPre is true for all chapters except chapter 9 by default
	// (spec.md §3.3); the loader honors an explicit bundle override when
	// present.
	BismillahPre bool
	VersesCount  int
	Verses       []Verse
}

// Quran owns an ordered sequence of chapters.
type Quran struct {
	Chapters []Chapter
}

// Chapter looks a chapter up by its 1-based number.
func (q Quran) Chapter(number int) (Chapter, bool) {
	for _, c := range q.Chapters {
		if c.Number == number {
			return c, true
		}
	}
	return Chapter{}, false
}

// TotalVerses sums verse counts across all chapters.
func (q Quran) TotalVerses() int {
	n := 0
	for _, c := range q.Chapters {
		n += len(c.Verses)
	}
	return n
}
