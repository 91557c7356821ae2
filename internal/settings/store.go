// Package settings persists per-conversation translation configuration in a
// sqlite database, one row per (context_id, context_type).
package settings

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// Setting is one conversation's translation configuration. Empty language
// fields mean "not set".
type Setting struct {
	ContextID      string
	ContextType    string
	PrimaryLangA   string
	PrimaryLangB   string
	SecondaryLangC string
	IsTranslating  bool
	UpdatedAt      time.Time
}

// Field names one of the three language slots for SetField.
type Field string

const (
	FieldPrimaryA   Field = "primary_lang_a"
	FieldPrimaryB   Field = "primary_lang_b"
	FieldSecondaryC Field = "secondary_lang_c"
)

// StorageError wraps a failed read or write against the settings database.
// Callers must not assume a write happened unless the call returned nil.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string { return fmt.Sprintf("settings %s: %v", e.Op, e.Err) }
func (e *StorageError) Unwrap() error { return e.Err }

func storageErr(op string, err error) error {
	return &StorageError{Op: op, Err: err}
}

// Store provides access to the language_settings table.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the settings database at dbPath.
func Open(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("failed to migrate: %w", err)
	}
	return s, nil
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS language_settings (
		context_id TEXT NOT NULL,
		context_type TEXT NOT NULL,
		primary_lang_a TEXT NOT NULL DEFAULT '',
		primary_lang_b TEXT NOT NULL DEFAULT '',
		secondary_lang_c TEXT NOT NULL DEFAULT '',
		is_translating BOOLEAN NOT NULL DEFAULT TRUE,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		UNIQUE(context_id, context_type)
	);

	CREATE INDEX IF NOT EXISTS idx_settings_context ON language_settings(context_id, context_type);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Get returns the configuration for a context, or nil (with no error) when
// none has been stored yet.
func (s *Store) Get(ctx context.Context, contextID, contextType string) (*Setting, error) {
	var set Setting
	err := s.db.QueryRowContext(ctx,
		`SELECT context_id, context_type, primary_lang_a, primary_lang_b, secondary_lang_c, is_translating, updated_at
		 FROM language_settings WHERE context_id = ? AND context_type = ?`,
		contextID, contextType).Scan(
		&set.ContextID, &set.ContextType,
		&set.PrimaryLangA, &set.PrimaryLangB, &set.SecondaryLangC,
		&set.IsTranslating, &set.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, storageErr("get", err)
	}
	return &set, nil
}

// Upsert inserts or updates a configuration row. Language fields left empty in
// set keep their previously stored values; is_translating is always taken from
// set.
func (s *Store) Upsert(ctx context.Context, set Setting) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO language_settings (context_id, context_type, primary_lang_a, primary_lang_b, secondary_lang_c, is_translating, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(context_id, context_type) DO UPDATE SET
			primary_lang_a = CASE WHEN excluded.primary_lang_a != '' THEN excluded.primary_lang_a ELSE language_settings.primary_lang_a END,
			primary_lang_b = CASE WHEN excluded.primary_lang_b != '' THEN excluded.primary_lang_b ELSE language_settings.primary_lang_b END,
			secondary_lang_c = CASE WHEN excluded.secondary_lang_c != '' THEN excluded.secondary_lang_c ELSE language_settings.secondary_lang_c END,
			is_translating = excluded.is_translating,
			updated_at = CURRENT_TIMESTAMP`,
		set.ContextID, set.ContextType,
		set.PrimaryLangA, set.PrimaryLangB, set.SecondaryLangC,
		set.IsTranslating)
	if err != nil {
		return storageErr("upsert", err)
	}
	return nil
}

// SetField updates a single language slot with one conditional UPDATE so two
// concurrent deliveries cannot clobber each other's slots. When no row exists
// yet one is created with the other slots unset and translation enabled.
func (s *Store) SetField(ctx context.Context, contextID, contextType string, field Field, lang string) error {
	var column string
	switch field {
	case FieldPrimaryA:
		column = "primary_lang_a"
	case FieldPrimaryB:
		column = "primary_lang_b"
	case FieldSecondaryC:
		column = "secondary_lang_c"
	default:
		return storageErr("set_field", fmt.Errorf("unknown field %q", field))
	}

	res, err := s.db.ExecContext(ctx,
		fmt.Sprintf(`UPDATE language_settings SET %s = ?, updated_at = CURRENT_TIMESTAMP
			WHERE context_id = ? AND context_type = ?`, column),
		lang, contextID, contextType)
	if err != nil {
		return storageErr("set_field", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return storageErr("set_field", err)
	}
	if affected > 0 {
		return nil
	}

	_, err = s.db.ExecContext(ctx,
		fmt.Sprintf(`INSERT INTO language_settings (context_id, context_type, %s, is_translating)
			VALUES (?, ?, ?, TRUE)
			ON CONFLICT(context_id, context_type) DO UPDATE SET %s = excluded.%s, updated_at = CURRENT_TIMESTAMP`,
			column, column, column),
		contextID, contextType, lang)
	if err != nil {
		return storageErr("set_field", err)
	}
	return nil
}

// SetTranslating sets the enabled flag explicitly, creating the row when
// missing.
func (s *Store) SetTranslating(ctx context.Context, contextID, contextType string, enabled bool) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO language_settings (context_id, context_type, is_translating)
		VALUES (?, ?, ?)
		ON CONFLICT(context_id, context_type) DO UPDATE SET
			is_translating = excluded.is_translating,
			updated_at = CURRENT_TIMESTAMP`,
		contextID, contextType, enabled)
	if err != nil {
		return storageErr("set_translating", err)
	}
	return nil
}

// Toggle flips the enabled flag atomically and returns the new value. With no
// stored row a fresh enabled row is created and true returned.
func (s *Store) Toggle(ctx context.Context, contextID, contextType string) (bool, error) {
	var enabled bool
	err := s.db.QueryRowContext(ctx, `
		UPDATE language_settings
		SET is_translating = NOT is_translating, updated_at = CURRENT_TIMESTAMP
		WHERE context_id = ? AND context_type = ?
		RETURNING is_translating`,
		contextID, contextType).Scan(&enabled)
	if errors.Is(err, sql.ErrNoRows) {
		if err := s.SetTranslating(ctx, contextID, contextType, true); err != nil {
			return false, err
		}
		return true, nil
	}
	if err != nil {
		return false, storageErr("toggle", err)
	}
	return enabled, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
