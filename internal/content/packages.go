package content

import (
	"database/sql"
	"encoding/json"

	"github.com/google/uuid"

	pkgerrors "github.com/iqrah/graphkg/pkg/errors"
)

// PackageType is the closed vocabulary of downloadable content kinds
// (spec.md §3.5 / SPEC_FULL.md §3.6).
type PackageType string

const (
	PackageTextVariant     PackageType = "text_variant"
	PackageTranslation     PackageType = "translation"
	PackageWordTranslation PackageType = "word_translation"
	PackageTransliteration PackageType = "transliteration"
	PackageReciter         PackageType = "reciter"
)

// packageNamespace is the fixed UUID v5 namespace all package identities are
// derived from, so re-ingesting the same (type, language, version) always
// produces the same package_id.
var packageNamespace = uuid.NewSHA1(uuid.NameSpaceOID, []byte("iqrah-content-packages"))

// PackageID deterministically derives a package_id from its identifying
// triple, per SPEC_FULL.md §3.6.
func PackageID(packageType PackageType, languageCode, version string) string {
	name := string(packageType) + ":" + languageCode + ":" + version
	return uuid.NewSHA1(packageNamespace, []byte(name)).String()
}

// Package describes a row to upsert into content_packages.
type Package struct {
	Type         PackageType
	DisplayName  string
	LanguageCode string
	SourceURL    string
	Checksum     string
	Version      string
	SizeBytes    int64
	IsBuiltin    bool
	Metadata     map[string]any
}

// EnsurePackage registers p in content_packages (idempotent on package_id)
// and records it in installed_packages, returning the derived package_id.
func EnsurePackage(tx *sql.Tx, p Package) (string, error) {
	id := PackageID(p.Type, p.LanguageCode, p.Version)

	var metaJSON []byte
	if len(p.Metadata) > 0 {
		var err error
		metaJSON, err = json.Marshal(p.Metadata)
		if err != nil {
			return "", pkgerrors.Malformed("marshaling package metadata: %v", err)
		}
	}

	_, err := tx.Exec(`
		INSERT INTO content_packages
			(package_id, package_type, display_name, language_code, source_url,
			 checksum, version, size_bytes, is_builtin, metadata_json)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(package_id) DO UPDATE SET
			display_name = excluded.display_name,
			source_url   = excluded.source_url,
			checksum     = excluded.checksum,
			size_bytes   = excluded.size_bytes,
			metadata_json = excluded.metadata_json
	`, id, string(p.Type), p.DisplayName, nullIfEmpty(p.LanguageCode), nullIfEmpty(p.SourceURL),
		nullIfEmpty(p.Checksum), p.Version, p.SizeBytes, p.IsBuiltin, string(metaJSON))
	if err != nil {
		return "", pkgerrors.IO("upserting content package "+id, err)
	}

	_, err = tx.Exec(`
		INSERT INTO installed_packages (package_id, installed_version)
		VALUES (?, ?)
		ON CONFLICT(package_id) DO UPDATE SET installed_version = excluded.installed_version
	`, id, p.Version)
	if err != nil {
		return "", pkgerrors.IO("recording installed package "+id, err)
	}

	return id, nil
}

func nullIfEmpty(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
