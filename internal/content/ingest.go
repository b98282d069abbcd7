package content

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/iqrah/graphkg/internal/ids"
	"github.com/iqrah/graphkg/internal/morphology"
	"github.com/iqrah/graphkg/internal/quran"
	pkgerrors "github.com/iqrah/graphkg/pkg/errors"
)

// Build populates s from q and corpus inside one transaction, in the
// dependency order spec.md §4.11 requires: chapters, verses, words, lemmas,
// roots, stems, morphology_segments, then optional flexible packages. The
// stems table stays empty: morphology.Segment exposes only Root and Lemma
// (a bare STEM token in the TSV features carries no stem text), so there is
// no source of stem text to ingest.
func Build(s *Store, q quran.Quran, corpus *morphology.Corpus) error {
	tx, err := s.db.Begin()
	if err != nil {
		return pkgerrors.IO("beginning ingest transaction", err)
	}
	committed := false
	defer func() {
		if !committed {
			tx.Rollback()
		}
	}()

	if err := ingestChapters(tx, q); err != nil {
		return pkgerrors.Wrap(err, "ingesting chapters")
	}
	if err := ingestVersesAndWords(tx, q); err != nil {
		return pkgerrors.Wrap(err, "ingesting verses and words")
	}
	if err := ingestMorphology(tx, corpus); err != nil {
		return pkgerrors.Wrap(err, "ingesting morphology")
	}
	if err := ingestWordContent(tx, q); err != nil {
		return pkgerrors.Wrap(err, "ingesting word translations/transliterations")
	}

	if err := tx.Commit(); err != nil {
		return pkgerrors.IO("committing ingest transaction", err)
	}
	committed = true
	return nil
}

func ingestChapters(tx *sql.Tx, q quran.Quran) error {
	stmt, err := tx.Prepare(`
		INSERT OR IGNORE INTO chapters
			(node_id, chapter_number, name_arabic, name_simple, name_complex,
			 revelation_place, revelation_order, bismillah_pre, verses_count)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, c := range q.Chapters {
		_, err := stmt.Exec(
			ids.ChapterID(c.Number), c.Number, c.NameArabic, c.NameSimple, c.NameComplex,
			nullIfEmpty(c.RevelationPlace), c.RevelationOrder, c.BismillahPre, c.VersesCount,
		)
		if err != nil {
			return fmt.Errorf("chapter %d: %w", c.Number, err)
		}
	}
	return nil
}

func ingestVersesAndWords(tx *sql.Tx, q quran.Quran) error {
	verseStmt, err := tx.Prepare(`
		INSERT OR IGNORE INTO verses
			(node_id, verse_key, chapter_number, verse_number, text_uthmani,
			 juz_number, hizb_number, rub_number, manzil_number, ruku_number,
			 page_number, sajdah_type, sajdah_number, words_count)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer verseStmt.Close()

	wordStmt, err := tx.Prepare(`
		INSERT OR IGNORE INTO words (node_id, verse_key, position, text_uthmani, char_type_name)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer wordStmt.Close()

	for _, c := range q.Chapters {
		for _, v := range c.Verses {
			_, err := verseStmt.Exec(
				ids.VerseIDFromKey(v.VerseKey), v.VerseKey, v.ChapterNumber, v.VerseNumber, v.TextUthmani(),
				nullIfZero(v.JuzNumber), nullIfZero(v.HizbNumber), nullIfZero(v.RubNumber),
				nullIfZero(v.ManzilNumber), nullIfZero(v.RukuNumber), nullIfZero(v.PageNumber),
				nullIfEmpty(v.SajdahType), nullIfZero(v.SajdahNumber), v.WordsCount(),
			)
			if err != nil {
				return fmt.Errorf("verse %s: %w", v.VerseKey, err)
			}

			for _, w := range v.Words {
				_, err := wordStmt.Exec(
					ids.WordInstanceID(v.ChapterNumber, v.VerseNumber, w.Position),
					v.VerseKey, w.Position, w.TextUthmani, nullIfEmpty(w.CharTypeName),
				)
				if err != nil {
					return fmt.Errorf("word %s:%d: %w", v.VerseKey, w.Position, err)
				}
			}
		}
	}
	return nil
}

func ingestMorphology(tx *sql.Tx, corpus *morphology.Corpus) error {
	if corpus == nil {
		return nil
	}

	lemmaCounts := map[string]int{}
	rootCounts := map[string]int{}
	for _, seg := range corpus.Segments() {
		if seg.Lemma != "" {
			lemmaCounts[seg.Lemma]++
		}
		if seg.Root != "" {
			rootCounts[seg.Root]++
		}
	}

	lemmaStmt, err := tx.Prepare(`
		INSERT INTO lemmas (node_id, arabic, occurrences_count) VALUES (?, ?, ?)
		ON CONFLICT(node_id) DO UPDATE SET occurrences_count = excluded.occurrences_count
	`)
	if err != nil {
		return err
	}
	defer lemmaStmt.Close()
	for arabic, count := range lemmaCounts {
		if _, err := lemmaStmt.Exec(ids.LemmaID(arabic), arabic, count); err != nil {
			return fmt.Errorf("lemma %s: %w", arabic, err)
		}
	}

	rootStmt, err := tx.Prepare(`
		INSERT INTO roots (node_id, arabic, occurrences_count) VALUES (?, ?, ?)
		ON CONFLICT(node_id) DO UPDATE SET occurrences_count = excluded.occurrences_count
	`)
	if err != nil {
		return err
	}
	defer rootStmt.Close()
	for arabic, count := range rootCounts {
		if _, err := rootStmt.Exec(ids.RootID(arabic), arabic, count); err != nil {
			return fmt.Errorf("root %s: %w", arabic, err)
		}
	}

	segStmt, err := tx.Prepare(`
		INSERT OR IGNORE INTO morphology_segments
			(verse_key, word_position, segment_index, segment_text, segment_type,
			 lemma_id, root_id, pos_tag, features_json)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer segStmt.Close()

	for _, seg := range corpus.Segments() {
		loc := seg.Location
		verseKey := fmt.Sprintf("%d:%d", loc[0], loc[1])

		var lemmaID, rootID sql.NullString
		if seg.Lemma != "" {
			lemmaID = sql.NullString{String: ids.LemmaID(seg.Lemma), Valid: true}
		}
		if seg.Root != "" {
			rootID = sql.NullString{String: ids.RootID(seg.Root), Valid: true}
		}

		featuresJSON, err := marshalFeatures(seg)
		if err != nil {
			return fmt.Errorf("segment %s: %w", loc, err)
		}

		_, err = segStmt.Exec(
			verseKey, loc[2], loc[3], seg.Text, nullIfEmpty(string(seg.SegmentType)),
			lemmaID, rootID, nullIfEmpty(string(seg.POS)), featuresJSON,
		)
		if err != nil {
			return fmt.Errorf("segment %s: %w", loc, err)
		}
	}
	return nil
}

func marshalFeatures(seg morphology.Segment) (sql.NullString, error) {
	if len(seg.GrammaticalFeatures) == 0 {
		return sql.NullString{}, nil
	}
	names := make([]string, 0, len(seg.GrammaticalFeatures))
	for f := range seg.GrammaticalFeatures {
		names = append(names, string(f))
	}
	data, err := json.Marshal(names)
	if err != nil {
		return sql.NullString{}, err
	}
	return sql.NullString{String: string(data), Valid: true}, nil
}

// ingestWordContent writes the builtin translation/transliteration packages
// carried directly on quran.Word, when present. C3's LoadFullQuran fills
// Transliteration from the bundle's transliterations/ tree and does not set
// Translation.
func ingestWordContent(tx *sql.Tx, q quran.Quran) error {
	hasTranslation, hasTransliteration := false, false
	for _, c := range q.Chapters {
		for _, v := range c.Verses {
			for _, w := range v.Words {
				if w.Translation != "" {
					hasTranslation = true
				}
				if w.Transliteration != "" {
					hasTransliteration = true
				}
			}
		}
	}

	var translationPkg, transliterationPkg string
	var err error
	if hasTranslation {
		translationPkg, err = EnsurePackage(tx, Package{
			Type: PackageWordTranslation, DisplayName: "Default word translation",
			LanguageCode: "en", Version: "1", IsBuiltin: true,
		})
		if err != nil {
			return err
		}
	}
	if hasTransliteration {
		transliterationPkg, err = EnsurePackage(tx, Package{
			Type: PackageTransliteration, DisplayName: "Default word transliteration",
			LanguageCode: "en", Version: "1", IsBuiltin: true,
		})
		if err != nil {
			return err
		}
	}
	if !hasTranslation && !hasTransliteration {
		return nil
	}

	translationStmt, err := tx.Prepare(`
		INSERT OR IGNORE INTO word_translations (package_id, word_id, text) VALUES (?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer translationStmt.Close()

	transliterationStmt, err := tx.Prepare(`
		INSERT OR IGNORE INTO word_transliterations (package_id, word_id, text) VALUES (?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer transliterationStmt.Close()

	for _, c := range q.Chapters {
		for _, v := range c.Verses {
			for _, w := range v.Words {
				wordID := ids.WordInstanceID(v.ChapterNumber, v.VerseNumber, w.Position)
				if hasTranslation && w.Translation != "" {
					if _, err := translationStmt.Exec(translationPkg, wordID, w.Translation); err != nil {
						return fmt.Errorf("word translation %s: %w", wordID, err)
					}
				}
				if hasTransliteration && w.Transliteration != "" {
					if _, err := transliterationStmt.Exec(transliterationPkg, wordID, w.Transliteration); err != nil {
						return fmt.Errorf("word transliteration %s: %w", wordID, err)
					}
				}
			}
		}
	}
	return nil
}

func nullIfZero(n int) sql.NullInt64 {
	if n == 0 {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(n), Valid: true}
}
