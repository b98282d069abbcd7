package content

import (
	"database/sql"
	"os"

	_ "github.com/mattn/go-sqlite3"

	pkgerrors "github.com/iqrah/graphkg/pkg/errors"
)

// Store owns a SQLite connection to a content database, either the writable
// connection held exclusively by the builder during ingest or a read-only
// connection safely shared across query goroutines at runtime (spec.md §5's
// shared-resource policy).
type Store struct {
	db *sql.DB
}

// Create opens (and creates if absent) a writable content database at path,
// sets the pragmas spec.md §4.11 requires, and builds the schema inside a
// single transaction.
func Create(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_synchronous=NORMAL&_foreign_keys=on")
	if err != nil {
		return nil, pkgerrors.IO("opening content database "+path, err)
	}

	tx, err := db.Begin()
	if err != nil {
		db.Close()
		return nil, pkgerrors.IO("beginning schema transaction", err)
	}
	if err := createSchema(tx); err != nil {
		tx.Rollback()
		db.Close()
		return nil, pkgerrors.IO("creating content schema", err)
	}
	if err := tx.Commit(); err != nil {
		db.Close()
		return nil, pkgerrors.IO("committing schema transaction", err)
	}

	return &Store{db: db}, nil
}

// Open connects to an existing read-only content database at path for
// runtime queries (`PRAGMA query_only = true`, shareable across goroutines).
func Open(path string) (*Store, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, pkgerrors.Missing("content database not found: %s", path)
		}
		return nil, pkgerrors.IO("stat content database "+path, err)
	}

	db, err := sql.Open("sqlite3", path+"?mode=ro&_query_only=true")
	if err != nil {
		return nil, pkgerrors.IO("opening content database "+path, err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Finalize runs VACUUM and ANALYZE outside any transaction, per spec.md
// §4.11's build-time finalization step. SQLite rejects VACUUM inside a
// transaction, so this must run after the ingest transaction commits.
func (s *Store) Finalize() error {
	if _, err := s.db.Exec("VACUUM;"); err != nil {
		return pkgerrors.IO("vacuuming content database", err)
	}
	if _, err := s.db.Exec("ANALYZE;"); err != nil {
		return pkgerrors.IO("analyzing content database", err)
	}
	return nil
}
