// Package morphology parses the tab-delimited Quranic morphology dump into
// segment records and exposes multi-dimensional slice queries over it,
// grounded on original_source's morphology/corpus.py, models.py, enums.py.
package morphology

import "fmt"

// SegmentType classifies a morphological segment.
type SegmentType string

const (
	Prefix  SegmentType = "PREFIX"
	Suffix  SegmentType = "SUFFIX"
	RootSeg SegmentType = "ROOT"
	LemmaSeg SegmentType = "LEMMA"
	Pronoun SegmentType = "PRONOUN"
	Inlaid  SegmentType = "INLAID"
	Unknown SegmentType = "UNKNOWN"
)

// PartOfSpeech is the closed vocabulary of POS codes in the corpus.
type PartOfSpeech string

const (
	Noun          PartOfSpeech = "N"
	Verb          PartOfSpeech = "V"
	Adjective     PartOfSpeech = "ADJ"
	Adverb        PartOfSpeech = "ADV"
	Particle      PartOfSpeech = "PARTICLE"
	POSPronoun    PartOfSpeech = "PRON"
	Preposition   PartOfSpeech = "PREP"
	Conjunction   PartOfSpeech = "CONJ"
	Interjection  PartOfSpeech = "INTERJ"
	UnknownPOS    PartOfSpeech = "UNKNOWN"
)

var validPOS = map[string]PartOfSpeech{
	"N":       Noun,
	"V":       Verb,
	"ADJ":     Adjective,
	"ADV":     Adverb,
	"PARTICLE": Particle,
	"PRON":    POSPronoun,
	"PREP":    Preposition,
	"CONJ":    Conjunction,
	"INTERJ":  Interjection,
}

func parsePOS(code string) PartOfSpeech {
	if pos, ok := validPOS[code]; ok {
		return pos
	}
	return UnknownPOS
}

// GrammaticalFeature is a closed vocabulary of person/number/gender/case/
// mood/aspect/voice/state/modality tags.
type GrammaticalFeature string

const (
	FirstPerson   GrammaticalFeature = "FIRST_PERSON"
	SecondPerson  GrammaticalFeature = "SECOND_PERSON"
	ThirdPerson   GrammaticalFeature = "THIRD_PERSON"
	Singular      GrammaticalFeature = "SINGULAR"
	Dual          GrammaticalFeature = "DUAL"
	Plural        GrammaticalFeature = "PLURAL"
	Masculine     GrammaticalFeature = "MASCULINE"
	Feminine      GrammaticalFeature = "FEMININE"
	Nominative    GrammaticalFeature = "NOMINATIVE"
	Accusative    GrammaticalFeature = "ACCUSATIVE"
	Genitive      GrammaticalFeature = "GENITIVE"
	Indicative    GrammaticalFeature = "INDICATIVE"
	Subjunctive   GrammaticalFeature = "SUBJUNCTIVE"
	Jussive       GrammaticalFeature = "JUSSIVE"
	Imperative    GrammaticalFeature = "IMPERATIVE"
	Perfect       GrammaticalFeature = "PERFECT"
	Imperfect     GrammaticalFeature = "IMPERFECT"
	Active        GrammaticalFeature = "ACTIVE"
	Passive       GrammaticalFeature = "PASSIVE"
	Definite      GrammaticalFeature = "DEFINITE"
	Indefinite    GrammaticalFeature = "INDEFINITE"
	Emphatic      GrammaticalFeature = "EMPHATIC"
	Conditional   GrammaticalFeature = "CONDITIONAL"
	Interrogative GrammaticalFeature = "INTERROGATIVE"
	Negative      GrammaticalFeature = "NEGATIVE"
)

// featureMapping mirrors the Python implementation's feature_mapping dict
// exactly. The ACTIVE default (added when PASS is absent) is applied
// separately, not through this map.
var featureMapping = map[string]GrammaticalFeature{
	"1":     FirstPerson,
	"2":     SecondPerson,
	"3":     ThirdPerson,
	"S":     Singular,
	"D":     Dual,
	"P":     Plural,
	"M":     Masculine,
	"F":     Feminine,
	"NOM":   Nominative,
	"ACC":   Accusative,
	"GEN":   Genitive,
	"IND":   Indicative,
	"SUBJ":  Subjunctive,
	"JUS":   Jussive,
	"IMP":   Imperative,
	"PERF":  Perfect,
	"IMPF":  Imperfect,
	"PASS":  Passive,
	"DEF":   Definite,
	"INDEF": Indefinite,
	"EMPH":  Emphatic,
	"COND":  Conditional,
	"INTG":  Interrogative,
	"NEG":   Negative,
}

// Location is the 4-tuple (chapter, verse, word, segment), all >= 1.
type Location [4]int

func (l Location) String() string {
	return fmt.Sprintf("%d:%d:%d:%d", l[0], l[1], l[2], l[3])
}

// Segment is an immutable morphological segment record.
type Segment struct {
	Location            Location
	Text                string
	SegmentType         SegmentType
	POS                 PartOfSpeech
	Root                string
	Lemma               string
	GrammaticalFeatures map[GrammaticalFeature]struct{}
}

// HasFeature reports whether the segment carries the given grammatical
// feature.
func (s Segment) HasFeature(f GrammaticalFeature) bool {
	_, ok := s.GrammaticalFeatures[f]
	return ok
}
