package content

import (
	"database/sql"
	"strings"

	"github.com/iqrah/graphkg/internal/ids"
	pkgerrors "github.com/iqrah/graphkg/pkg/errors"
)

// All reads here return a nil pointer/slice on a missing row rather than an
// error: a missing content row is an ordinary lookup-miss, not a failure,
// per spec.md §4.11 ("All reads return plain records; missing rows return
// nil, never throw").

// GetChapter fetches a chapter by its node id.
func (s *Store) GetChapter(nodeID string) (*Chapter, error) {
	return s.scanChapter(`
		SELECT node_id, chapter_number, name_arabic, name_simple, name_complex,
		       name_transliterated, revelation_place, revelation_order,
		       bismillah_pre, verses_count, pages
		FROM chapters WHERE node_id = ?`, nodeID)
}

// GetChapterByNumber fetches a chapter by its 1-based number.
func (s *Store) GetChapterByNumber(number int) (*Chapter, error) {
	return s.scanChapter(`
		SELECT node_id, chapter_number, name_arabic, name_simple, name_complex,
		       name_transliterated, revelation_place, revelation_order,
		       bismillah_pre, verses_count, pages
		FROM chapters WHERE chapter_number = ?`, number)
}

func (s *Store) scanChapter(query string, arg any) (*Chapter, error) {
	var c Chapter
	err := s.db.QueryRow(query, arg).Scan(
		&c.NodeID, &c.ChapterNumber, &c.NameArabic, &c.NameSimple, &c.NameComplex,
		&c.NameTransliterated, &c.RevelationPlace, &c.RevelationOrder,
		&c.BismillahPre, &c.VersesCount, &c.Pages,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, pkgerrors.IO("querying chapter", err)
	}
	return &c, nil
}

// GetVerse fetches a verse by its node id.
func (s *Store) GetVerse(nodeID string) (*Verse, error) {
	return s.scanVerse(`
		SELECT node_id, verse_key, chapter_number, verse_number, text_uthmani,
		       juz_number, hizb_number, rub_number, manzil_number, ruku_number,
		       page_number, sajdah_type, sajdah_number, words_count
		FROM verses WHERE node_id = ?`, nodeID)
}

// GetVerseByKey fetches a verse by its "chapter:verse" key.
func (s *Store) GetVerseByKey(key string) (*Verse, error) {
	return s.scanVerse(`
		SELECT node_id, verse_key, chapter_number, verse_number, text_uthmani,
		       juz_number, hizb_number, rub_number, manzil_number, ruku_number,
		       page_number, sajdah_type, sajdah_number, words_count
		FROM verses WHERE verse_key = ?`, key)
}

func (s *Store) scanVerse(query string, arg any) (*Verse, error) {
	var v Verse
	err := s.db.QueryRow(query, arg).Scan(
		&v.NodeID, &v.VerseKey, &v.ChapterNumber, &v.VerseNumber, &v.TextUthmani,
		&v.JuzNumber, &v.HizbNumber, &v.RubNumber, &v.ManzilNumber, &v.RukuNumber,
		&v.PageNumber, &v.SajdahType, &v.SajdahNumber, &v.WordsCount,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, pkgerrors.IO("querying verse", err)
	}
	return &v, nil
}

// GetVersesForChapter fetches every verse of a chapter, ordered by verse
// number.
func (s *Store) GetVersesForChapter(chapterNumber int) ([]Verse, error) {
	rows, err := s.db.Query(`
		SELECT node_id, verse_key, chapter_number, verse_number, text_uthmani,
		       juz_number, hizb_number, rub_number, manzil_number, ruku_number,
		       page_number, sajdah_type, sajdah_number, words_count
		FROM verses WHERE chapter_number = ? ORDER BY verse_number`, chapterNumber)
	if err != nil {
		return nil, pkgerrors.IO("querying verses for chapter", err)
	}
	defer rows.Close()

	var out []Verse
	for rows.Next() {
		var v Verse
		if err := rows.Scan(
			&v.NodeID, &v.VerseKey, &v.ChapterNumber, &v.VerseNumber, &v.TextUthmani,
			&v.JuzNumber, &v.HizbNumber, &v.RubNumber, &v.ManzilNumber, &v.RukuNumber,
			&v.PageNumber, &v.SajdahType, &v.SajdahNumber, &v.WordsCount,
		); err != nil {
			return nil, pkgerrors.IO("scanning verse row", err)
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// GetWord fetches a word by its node id, without translations/transliterations.
func (s *Store) GetWord(nodeID string) (*Word, error) {
	var w Word
	err := s.db.QueryRow(`
		SELECT node_id, verse_key, position, text_uthmani, char_type_name,
		       page_number, line_number
		FROM words WHERE node_id = ?`, nodeID,
	).Scan(&w.NodeID, &w.VerseKey, &w.Position, &w.TextUthmani, &w.CharTypeName,
		&w.PageNumber, &w.LineNumber)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, pkgerrors.IO("querying word", err)
	}
	return &w, nil
}

// GetWordsForVerse fetches every word of a verse, ordered by position.
func (s *Store) GetWordsForVerse(verseKey string) ([]Word, error) {
	rows, err := s.db.Query(`
		SELECT node_id, verse_key, position, text_uthmani, char_type_name,
		       page_number, line_number
		FROM words WHERE verse_key = ? ORDER BY position`, verseKey)
	if err != nil {
		return nil, pkgerrors.IO("querying words for verse", err)
	}
	defer rows.Close()

	var out []Word
	for rows.Next() {
		var w Word
		if err := rows.Scan(&w.NodeID, &w.VerseKey, &w.Position, &w.TextUthmani,
			&w.CharTypeName, &w.PageNumber, &w.LineNumber); err != nil {
			return nil, pkgerrors.IO("scanning word row", err)
		}
		out = append(out, w)
	}
	return out, rows.Err()
}

// GetWordWithTranslations fetches a word plus every translation and
// transliteration installed for it, keyed by the installed package's
// language code.
func (s *Store) GetWordWithTranslations(nodeID string) (*Word, error) {
	w, err := s.GetWord(nodeID)
	if err != nil || w == nil {
		return w, err
	}

	w.Translations, err = s.wordTextsByLanguage("word_translations", nodeID)
	if err != nil {
		return nil, err
	}
	w.Transliterations, err = s.wordTextsByLanguage("word_transliterations", nodeID)
	if err != nil {
		return nil, err
	}
	return w, nil
}

func (s *Store) wordTextsByLanguage(table, wordID string) (map[string]string, error) {
	rows, err := s.db.Query(`
		SELECT p.language_code, t.text
		FROM `+table+` t JOIN content_packages p ON p.package_id = t.package_id
		WHERE t.word_id = ?`, wordID)
	if err != nil {
		return nil, pkgerrors.IO("querying "+table, err)
	}
	defer rows.Close()

	out := map[string]string{}
	for rows.Next() {
		var lang sql.NullString
		var text string
		if err := rows.Scan(&lang, &text); err != nil {
			return nil, pkgerrors.IO("scanning "+table+" row", err)
		}
		if lang.Valid {
			out[lang.String] = text
		}
	}
	return out, rows.Err()
}

// GetMorphologyForWord fetches every segment of a single word, ordered by
// segment index.
func (s *Store) GetMorphologyForWord(verseKey string, wordPosition int) ([]MorphologySegment, error) {
	return s.queryMorphology(`
		SELECT verse_key, word_position, segment_index, segment_text, segment_type,
		       lemma_id, root_id, stem_id, pos_tag, features_json
		FROM morphology_segments
		WHERE verse_key = ? AND word_position = ?
		ORDER BY segment_index`, verseKey, wordPosition)
}

// GetMorphologyForVerse fetches every segment of every word in a verse,
// ordered by word position then segment index.
func (s *Store) GetMorphologyForVerse(verseKey string) ([]MorphologySegment, error) {
	return s.queryMorphology(`
		SELECT verse_key, word_position, segment_index, segment_text, segment_type,
		       lemma_id, root_id, stem_id, pos_tag, features_json
		FROM morphology_segments
		WHERE verse_key = ?
		ORDER BY word_position, segment_index`, verseKey)
}

func (s *Store) queryMorphology(query string, args ...any) ([]MorphologySegment, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, pkgerrors.IO("querying morphology segments", err)
	}
	defer rows.Close()

	var out []MorphologySegment
	for rows.Next() {
		var m MorphologySegment
		if err := rows.Scan(&m.VerseKey, &m.WordPosition, &m.SegmentIndex, &m.SegmentText,
			&m.SegmentType, &m.LemmaID, &m.RootID, &m.StemID, &m.POSTag, &m.FeaturesJSON); err != nil {
			return nil, pkgerrors.IO("scanning morphology segment row", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// GetLemma fetches a lemma by its node id.
func (s *Store) GetLemma(nodeID string) (*Lemma, error) {
	return s.scanLemma(`
		SELECT node_id, arabic, transliteration, meaning_en, occurrences_count
		FROM lemmas WHERE node_id = ?`, nodeID)
}

// GetLemmaByArabic fetches a lemma by its exact Arabic surface form.
func (s *Store) GetLemmaByArabic(arabic string) (*Lemma, error) {
	return s.scanLemma(`
		SELECT node_id, arabic, transliteration, meaning_en, occurrences_count
		FROM lemmas WHERE arabic = ?`, arabic)
}

func (s *Store) scanLemma(query string, arg any) (*Lemma, error) {
	var l Lemma
	err := s.db.QueryRow(query, arg).Scan(
		&l.NodeID, &l.Arabic, &l.Transliteration, &l.MeaningEn, &l.OccurrencesCount)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, pkgerrors.IO("querying lemma", err)
	}
	return &l, nil
}

// GetRoot fetches a root by its node id.
func (s *Store) GetRoot(nodeID string) (*Root, error) {
	return s.scanRoot(`
		SELECT node_id, arabic, transliteration, meaning_en, root_type, occurrences_count
		FROM roots WHERE node_id = ?`, nodeID)
}

// GetRootByArabic fetches a root by its exact Arabic surface form.
func (s *Store) GetRootByArabic(arabic string) (*Root, error) {
	return s.scanRoot(`
		SELECT node_id, arabic, transliteration, meaning_en, root_type, occurrences_count
		FROM roots WHERE arabic = ?`, arabic)
}

func (s *Store) scanRoot(query string, arg any) (*Root, error) {
	var r Root
	err := s.db.QueryRow(query, arg).Scan(
		&r.NodeID, &r.Arabic, &r.Transliteration, &r.MeaningEn, &r.RootType, &r.OccurrencesCount)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, pkgerrors.IO("querying root", err)
	}
	return &r, nil
}

// ContentBundle groups heterogeneous content rows fetched for one batch of
// graph node ids, one slice per content kind.
type ContentBundle struct {
	Chapters []Chapter
	Verses   []Verse
	Words    []Word
	Lemmas   []Lemma
	Roots    []Root
}

// GetContentForNodes resolves a mixed batch of node ids (as minted by the
// ids package) into their content rows, grouping by id prefix so each kind
// is fetched with a single IN (...) query rather than one query per id.
func (s *Store) GetContentForNodes(nodeIDs []string) (*ContentBundle, error) {
	byKind := map[ids.Kind][]string{}
	for _, id := range nodeIDs {
		d, err := ids.Decode(id)
		if err != nil {
			return nil, pkgerrors.Wrap(err, "decoding node id")
		}
		byKind[d.Kind] = append(byKind[d.Kind], id)
	}

	bundle := &ContentBundle{}
	var err error

	if chapterIDs := byKind[ids.Chapter]; len(chapterIDs) > 0 {
		if bundle.Chapters, err = s.chaptersByIDs(chapterIDs); err != nil {
			return nil, err
		}
	}
	if verseIDs := byKind[ids.Verse]; len(verseIDs) > 0 {
		if bundle.Verses, err = s.versesByIDs(verseIDs); err != nil {
			return nil, err
		}
	}
	if wordIDs := byKind[ids.WordInstance]; len(wordIDs) > 0 {
		if bundle.Words, err = s.wordsByIDs(wordIDs); err != nil {
			return nil, err
		}
	}
	if lemmaIDs := byKind[ids.Lemma]; len(lemmaIDs) > 0 {
		if bundle.Lemmas, err = s.lemmasByIDs(lemmaIDs); err != nil {
			return nil, err
		}
	}
	if rootIDs := byKind[ids.Root]; len(rootIDs) > 0 {
		if bundle.Roots, err = s.rootsByIDs(rootIDs); err != nil {
			return nil, err
		}
	}
	return bundle, nil
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

func toArgs(nodeIDs []string) []any {
	args := make([]any, len(nodeIDs))
	for i, id := range nodeIDs {
		args[i] = id
	}
	return args
}

func (s *Store) chaptersByIDs(nodeIDs []string) ([]Chapter, error) {
	rows, err := s.db.Query(`
		SELECT node_id, chapter_number, name_arabic, name_simple, name_complex,
		       name_transliterated, revelation_place, revelation_order,
		       bismillah_pre, verses_count, pages
		FROM chapters WHERE node_id IN (`+placeholders(len(nodeIDs))+`)`, toArgs(nodeIDs)...)
	if err != nil {
		return nil, pkgerrors.IO("querying chapters by id", err)
	}
	defer rows.Close()

	var out []Chapter
	for rows.Next() {
		var c Chapter
		if err := rows.Scan(&c.NodeID, &c.ChapterNumber, &c.NameArabic, &c.NameSimple, &c.NameComplex,
			&c.NameTransliterated, &c.RevelationPlace, &c.RevelationOrder,
			&c.BismillahPre, &c.VersesCount, &c.Pages); err != nil {
			return nil, pkgerrors.IO("scanning chapter row", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *Store) versesByIDs(nodeIDs []string) ([]Verse, error) {
	rows, err := s.db.Query(`
		SELECT node_id, verse_key, chapter_number, verse_number, text_uthmani,
		       juz_number, hizb_number, rub_number, manzil_number, ruku_number,
		       page_number, sajdah_type, sajdah_number, words_count
		FROM verses WHERE node_id IN (`+placeholders(len(nodeIDs))+`)`, toArgs(nodeIDs)...)
	if err != nil {
		return nil, pkgerrors.IO("querying verses by id", err)
	}
	defer rows.Close()

	var out []Verse
	for rows.Next() {
		var v Verse
		if err := rows.Scan(&v.NodeID, &v.VerseKey, &v.ChapterNumber, &v.VerseNumber, &v.TextUthmani,
			&v.JuzNumber, &v.HizbNumber, &v.RubNumber, &v.ManzilNumber, &v.RukuNumber,
			&v.PageNumber, &v.SajdahType, &v.SajdahNumber, &v.WordsCount); err != nil {
			return nil, pkgerrors.IO("scanning verse row", err)
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func (s *Store) wordsByIDs(nodeIDs []string) ([]Word, error) {
	rows, err := s.db.Query(`
		SELECT node_id, verse_key, position, text_uthmani, char_type_name,
		       page_number, line_number
		FROM words WHERE node_id IN (`+placeholders(len(nodeIDs))+`)`, toArgs(nodeIDs)...)
	if err != nil {
		return nil, pkgerrors.IO("querying words by id", err)
	}
	defer rows.Close()

	var out []Word
	for rows.Next() {
		var w Word
		if err := rows.Scan(&w.NodeID, &w.VerseKey, &w.Position, &w.TextUthmani,
			&w.CharTypeName, &w.PageNumber, &w.LineNumber); err != nil {
			return nil, pkgerrors.IO("scanning word row", err)
		}
		out = append(out, w)
	}
	return out, rows.Err()
}

func (s *Store) lemmasByIDs(nodeIDs []string) ([]Lemma, error) {
	rows, err := s.db.Query(`
		SELECT node_id, arabic, transliteration, meaning_en, occurrences_count
		FROM lemmas WHERE node_id IN (`+placeholders(len(nodeIDs))+`)`, toArgs(nodeIDs)...)
	if err != nil {
		return nil, pkgerrors.IO("querying lemmas by id", err)
	}
	defer rows.Close()

	var out []Lemma
	for rows.Next() {
		var l Lemma
		if err := rows.Scan(&l.NodeID, &l.Arabic, &l.Transliteration, &l.MeaningEn, &l.OccurrencesCount); err != nil {
			return nil, pkgerrors.IO("scanning lemma row", err)
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (s *Store) rootsByIDs(nodeIDs []string) ([]Root, error) {
	rows, err := s.db.Query(`
		SELECT node_id, arabic, transliteration, meaning_en, root_type, occurrences_count
		FROM roots WHERE node_id IN (`+placeholders(len(nodeIDs))+`)`, toArgs(nodeIDs)...)
	if err != nil {
		return nil, pkgerrors.IO("querying roots by id", err)
	}
	defer rows.Close()

	var out []Root
	for rows.Next() {
		var r Root
		if err := rows.Scan(&r.NodeID, &r.Arabic, &r.Transliteration, &r.MeaningEn, &r.RootType, &r.OccurrencesCount); err != nil {
			return nil, pkgerrors.IO("scanning root row", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
