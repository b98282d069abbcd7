// Package content implements the SQLite-backed content store (spec.md
// §3.5/§4.11, supplemented by SPEC_FULL.md §3.6), grounded on
// original_source's content/schema.py (DDL) and content/database.py (query
// shape), with the database/sql + mattn/go-sqlite3 idiom itself grounded on
// theRebelliousNerd-codenerd's internal/northstar/store.go.
package content

import "database/sql"

// schemaVersion is written into the schema_version table on creation.
const schemaVersion = "2.0.0"

// createTableStatements are applied in dependency order: metadata tables,
// then inflexible (always-included) tables, then flexible (downloadable)
// tables. Ported 1:1 from ContentDatabaseSchema.get_all_schemas.
var createTableStatements = []string{
	`CREATE TABLE IF NOT EXISTS schema_version (
		version TEXT PRIMARY KEY,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);`,
	`CREATE TABLE IF NOT EXISTS content_packages (
		package_id TEXT PRIMARY KEY,
		package_type TEXT NOT NULL,
		display_name TEXT NOT NULL,
		language_code TEXT,
		source_url TEXT,
		checksum TEXT,
		version TEXT NOT NULL,
		size_bytes INTEGER,
		is_builtin BOOLEAN DEFAULT 0,
		metadata_json TEXT,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		CHECK (package_type IN ('text_variant', 'translation', 'word_translation',
		                         'transliteration', 'reciter'))
	);`,
	`CREATE TABLE IF NOT EXISTS installed_packages (
		package_id TEXT PRIMARY KEY,
		installed_version TEXT NOT NULL,
		installed_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (package_id) REFERENCES content_packages(package_id)
	);`,
	`CREATE TABLE IF NOT EXISTS chapters (
		node_id TEXT PRIMARY KEY,
		chapter_number INTEGER NOT NULL UNIQUE,
		name_arabic TEXT NOT NULL,
		name_simple TEXT NOT NULL,
		name_complex TEXT NOT NULL,
		name_transliterated TEXT,
		revelation_place TEXT,
		revelation_order INTEGER,
		bismillah_pre BOOLEAN DEFAULT 1,
		verses_count INTEGER NOT NULL,
		pages TEXT,
		CHECK (chapter_number BETWEEN 1 AND 114),
		CHECK (revelation_place IN ('makkah', 'madinah', NULL))
	);`,
	`CREATE TABLE IF NOT EXISTS verses (
		node_id TEXT PRIMARY KEY,
		verse_key TEXT NOT NULL UNIQUE,
		chapter_number INTEGER NOT NULL,
		verse_number INTEGER NOT NULL,
		text_uthmani TEXT NOT NULL,
		juz_number INTEGER,
		hizb_number INTEGER,
		rub_number INTEGER,
		manzil_number INTEGER,
		ruku_number INTEGER,
		page_number INTEGER,
		sajdah_type TEXT,
		sajdah_number INTEGER,
		words_count INTEGER NOT NULL,
		FOREIGN KEY (chapter_number) REFERENCES chapters(chapter_number),
		CHECK (juz_number BETWEEN 1 AND 30 OR juz_number IS NULL),
		CHECK (hizb_number BETWEEN 1 AND 60 OR hizb_number IS NULL),
		CHECK (page_number BETWEEN 1 AND 604 OR page_number IS NULL),
		CHECK (sajdah_type IN ('recommended', 'obligatory', NULL)),
		CHECK (words_count > 0)
	);`,
	`CREATE TABLE IF NOT EXISTS words (
		node_id TEXT PRIMARY KEY,
		verse_key TEXT NOT NULL,
		position INTEGER NOT NULL,
		text_uthmani TEXT NOT NULL,
		char_type_name TEXT,
		page_number INTEGER,
		line_number INTEGER,
		UNIQUE(verse_key, position),
		FOREIGN KEY (verse_key) REFERENCES verses(verse_key),
		CHECK (position > 0)
	);`,
	`CREATE TABLE IF NOT EXISTS lemmas (
		node_id TEXT PRIMARY KEY,
		arabic TEXT NOT NULL UNIQUE,
		transliteration TEXT,
		meaning_en TEXT,
		occurrences_count INTEGER DEFAULT 0,
		CHECK (occurrences_count >= 0)
	);`,
	`CREATE TABLE IF NOT EXISTS roots (
		node_id TEXT PRIMARY KEY,
		arabic TEXT NOT NULL UNIQUE,
		transliteration TEXT,
		meaning_en TEXT,
		root_type TEXT,
		occurrences_count INTEGER DEFAULT 0,
		CHECK (occurrences_count >= 0),
		CHECK (root_type IN ('triliteral', 'quadriliteral', NULL))
	);`,
	`CREATE TABLE IF NOT EXISTS stems (
		node_id TEXT PRIMARY KEY,
		arabic TEXT NOT NULL UNIQUE,
		transliteration TEXT,
		pattern TEXT,
		occurrences_count INTEGER DEFAULT 0,
		CHECK (occurrences_count >= 0)
	);`,
	`CREATE TABLE IF NOT EXISTS morphology_segments (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		verse_key TEXT NOT NULL,
		word_position INTEGER NOT NULL,
		segment_index INTEGER NOT NULL,
		segment_text TEXT NOT NULL,
		segment_type TEXT,
		lemma_id TEXT,
		root_id TEXT,
		stem_id TEXT,
		pos_tag TEXT,
		features_json TEXT,
		UNIQUE(verse_key, word_position, segment_index),
		FOREIGN KEY (verse_key) REFERENCES verses(verse_key),
		FOREIGN KEY (lemma_id) REFERENCES lemmas(node_id),
		FOREIGN KEY (root_id) REFERENCES roots(node_id),
		FOREIGN KEY (stem_id) REFERENCES stems(node_id),
		CHECK (word_position > 0),
		CHECK (segment_index > 0)
	);`,
	`CREATE TABLE IF NOT EXISTS text_variants (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		package_id TEXT NOT NULL,
		verse_key TEXT,
		word_id TEXT,
		text TEXT NOT NULL,
		FOREIGN KEY (package_id) REFERENCES content_packages(package_id),
		FOREIGN KEY (verse_key) REFERENCES verses(verse_key),
		FOREIGN KEY (word_id) REFERENCES words(node_id),
		CHECK ((verse_key IS NOT NULL AND word_id IS NULL) OR
		       (verse_key IS NULL AND word_id IS NOT NULL))
	);`,
	`CREATE TABLE IF NOT EXISTS verse_translations (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		package_id TEXT NOT NULL,
		verse_key TEXT NOT NULL,
		text TEXT NOT NULL,
		footnotes_json TEXT,
		UNIQUE(package_id, verse_key),
		FOREIGN KEY (package_id) REFERENCES content_packages(package_id),
		FOREIGN KEY (verse_key) REFERENCES verses(verse_key)
	);`,
	`CREATE TABLE IF NOT EXISTS word_translations (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		package_id TEXT NOT NULL,
		word_id TEXT NOT NULL,
		text TEXT NOT NULL,
		UNIQUE(package_id, word_id),
		FOREIGN KEY (package_id) REFERENCES content_packages(package_id),
		FOREIGN KEY (word_id) REFERENCES words(node_id)
	);`,
	`CREATE TABLE IF NOT EXISTS word_transliterations (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		package_id TEXT NOT NULL,
		word_id TEXT NOT NULL,
		text TEXT NOT NULL,
		UNIQUE(package_id, word_id),
		FOREIGN KEY (package_id) REFERENCES content_packages(package_id),
		FOREIGN KEY (word_id) REFERENCES words(node_id)
	);`,
	`CREATE TABLE IF NOT EXISTS reciters (
		reciter_id TEXT PRIMARY KEY,
		package_id TEXT NOT NULL UNIQUE,
		name_arabic TEXT,
		name_english TEXT NOT NULL,
		style TEXT,
		FOREIGN KEY (package_id) REFERENCES content_packages(package_id),
		CHECK (style IN ('murattal', 'mujawwad', 'muallim', NULL))
	);`,
	`CREATE TABLE IF NOT EXISTS verse_recitations (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		reciter_id TEXT NOT NULL,
		verse_key TEXT NOT NULL,
		audio_url TEXT NOT NULL,
		duration_ms INTEGER,
		segments_json TEXT,
		UNIQUE(reciter_id, verse_key),
		FOREIGN KEY (reciter_id) REFERENCES reciters(reciter_id),
		FOREIGN KEY (verse_key) REFERENCES verses(verse_key)
	);`,
	`CREATE TABLE IF NOT EXISTS word_audio (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		word_id TEXT NOT NULL UNIQUE,
		audio_url TEXT NOT NULL,
		duration_ms INTEGER,
		FOREIGN KEY (word_id) REFERENCES words(node_id)
	);`,
}

// createIndexStatements mirrors ContentDatabaseSchema.get_all_indexes.
var createIndexStatements = []string{
	"CREATE INDEX IF NOT EXISTS idx_chapters_number ON chapters(chapter_number);",
	"CREATE INDEX IF NOT EXISTS idx_verses_verse_key ON verses(verse_key);",
	"CREATE INDEX IF NOT EXISTS idx_verses_chapter ON verses(chapter_number);",
	"CREATE INDEX IF NOT EXISTS idx_verses_juz ON verses(juz_number);",
	"CREATE INDEX IF NOT EXISTS idx_verses_hizb ON verses(hizb_number);",
	"CREATE INDEX IF NOT EXISTS idx_verses_page ON verses(page_number);",
	"CREATE INDEX IF NOT EXISTS idx_verses_rub ON verses(rub_number);",
	"CREATE INDEX IF NOT EXISTS idx_words_verse_key ON words(verse_key);",
	"CREATE INDEX IF NOT EXISTS idx_words_position ON words(verse_key, position);",
	"CREATE INDEX IF NOT EXISTS idx_morphology_verse_key ON morphology_segments(verse_key);",
	"CREATE INDEX IF NOT EXISTS idx_morphology_word_pos ON morphology_segments(verse_key, word_position);",
	"CREATE INDEX IF NOT EXISTS idx_morphology_lemma ON morphology_segments(lemma_id);",
	"CREATE INDEX IF NOT EXISTS idx_morphology_root ON morphology_segments(root_id);",
	"CREATE INDEX IF NOT EXISTS idx_morphology_stem ON morphology_segments(stem_id);",
	"CREATE INDEX IF NOT EXISTS idx_morphology_pos_tag ON morphology_segments(pos_tag);",
	"CREATE INDEX IF NOT EXISTS idx_lemmas_arabic ON lemmas(arabic);",
	"CREATE INDEX IF NOT EXISTS idx_roots_arabic ON roots(arabic);",
	"CREATE INDEX IF NOT EXISTS idx_stems_arabic ON stems(arabic);",
	"CREATE INDEX IF NOT EXISTS idx_text_variants_package ON text_variants(package_id);",
	"CREATE INDEX IF NOT EXISTS idx_text_variants_verse ON text_variants(verse_key);",
	"CREATE INDEX IF NOT EXISTS idx_text_variants_word ON text_variants(word_id);",
	"CREATE INDEX IF NOT EXISTS idx_verse_trans_package ON verse_translations(package_id);",
	"CREATE INDEX IF NOT EXISTS idx_verse_trans_verse ON verse_translations(verse_key);",
	"CREATE INDEX IF NOT EXISTS idx_word_trans_package ON word_translations(package_id);",
	"CREATE INDEX IF NOT EXISTS idx_word_trans_word ON word_translations(word_id);",
	"CREATE INDEX IF NOT EXISTS idx_word_translit_package ON word_transliterations(package_id);",
	"CREATE INDEX IF NOT EXISTS idx_word_translit_word ON word_transliterations(word_id);",
	"CREATE INDEX IF NOT EXISTS idx_verse_recit_reciter ON verse_recitations(reciter_id);",
	"CREATE INDEX IF NOT EXISTS idx_verse_recit_verse ON verse_recitations(verse_key);",
	"CREATE INDEX IF NOT EXISTS idx_word_audio_word ON word_audio(word_id);",
}

// createSchema runs every CREATE TABLE / CREATE INDEX statement plus the
// schema_version seed row inside a single transaction, per spec.md §4.11.
func createSchema(tx *sql.Tx) error {
	for _, stmt := range createTableStatements {
		if _, err := tx.Exec(stmt); err != nil {
			return err
		}
	}
	for _, stmt := range createIndexStatements {
		if _, err := tx.Exec(stmt); err != nil {
			return err
		}
	}
	_, err := tx.Exec(`INSERT OR IGNORE INTO schema_version (version) VALUES (?)`, schemaVersion)
	return err
}
