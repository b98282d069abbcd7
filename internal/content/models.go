package content

import "database/sql"

// Chapter is a row of the chapters table.
type Chapter struct {
	NodeID             string
	ChapterNumber      int
	NameArabic         string
	NameSimple         string
	NameComplex        string
	NameTransliterated sql.NullString
	RevelationPlace    sql.NullString
	RevelationOrder    sql.NullInt64
	BismillahPre       bool
	VersesCount        int
	Pages              sql.NullString
}

// Verse is a row of the verses table.
type Verse struct {
	NodeID        string
	VerseKey      string
	ChapterNumber int
	VerseNumber   int
	TextUthmani   string
	JuzNumber     sql.NullInt64
	HizbNumber    sql.NullInt64
	RubNumber     sql.NullInt64
	ManzilNumber  sql.NullInt64
	RukuNumber    sql.NullInt64
	PageNumber    sql.NullInt64
	SajdahType    sql.NullString
	SajdahNumber  sql.NullInt64
	WordsCount    int
}

// Word is a row of the words table.
type Word struct {
	NodeID       string
	VerseKey     string
	Position     int
	TextUthmani  string
	CharTypeName sql.NullString
	PageNumber   sql.NullInt64
	LineNumber   sql.NullInt64

	Translations     map[string]string
	Transliterations map[string]string
}

// MorphologySegment is a row of the morphology_segments table.
type MorphologySegment struct {
	VerseKey     string
	WordPosition int
	SegmentIndex int
	SegmentText  string
	SegmentType  sql.NullString
	LemmaID      sql.NullString
	RootID       sql.NullString
	StemID       sql.NullString
	POSTag       sql.NullString
	FeaturesJSON sql.NullString
}

// Lemma is a row of the lemmas table.
type Lemma struct {
	NodeID           string
	Arabic           string
	Transliteration  sql.NullString
	MeaningEn        sql.NullString
	OccurrencesCount int
}

// Root is a row of the roots table.
type Root struct {
	NodeID           string
	Arabic           string
	Transliteration  sql.NullString
	MeaningEn        sql.NullString
	RootType         sql.NullString
	OccurrencesCount int
}
