package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/langexch/langexch/internal/config"
	"github.com/langexch/langexch/internal/language"
)

// ProviderSQLite is the registered name of the SQLite provider
const ProviderSQLite = "sqlite"

// SQLite stores languages in a local database file
type SQLite struct {
	path     string
	maxConns int
	db       *sql.DB
}

// NewSQLite creates an unconnected SQLite provider for cfg.Path
func NewSQLite(cfg config.DatabaseConfig) Provider {
	return &SQLite{path: cfg.Path, maxConns: cfg.MaxConns}
}

// Name returns the provider name
func (s *SQLite) Name() string {
	return ProviderSQLite
}

// Connect opens the database file
func (s *SQLite) Connect(ctx context.Context) error {
	// WAL mode allows concurrent readers while writes serialize
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)", s.path)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return &ConnectionError{Provider: ProviderSQLite, Err: fmt.Errorf("failed to open database: %w", err)}
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return &ConnectionError{Provider: ProviderSQLite, Err: fmt.Errorf("failed to ping database: %w", err)}
	}

	maxConns := s.maxConns
	if maxConns <= 0 {
		maxConns = 10
	}
	db.SetMaxOpenConns(maxConns)
	db.SetMaxIdleConns(max(maxConns/2, 1))

	s.db = db

	log.Debug().Str("path", s.path).Msg("SQLITE: Database connection established")
	return nil
}

// Ping checks the database is reachable
func (s *SQLite) Ping(ctx context.Context) error {
	if s.db == nil {
		return ErrNotConnected
	}
	return s.db.PingContext(ctx)
}

// Close closes the database
func (s *SQLite) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// EnsureSchema creates the languages table when missing
func (s *SQLite) EnsureSchema(ctx context.Context) error {
	if s.db == nil {
		return ErrNotConnected
	}

	err := s.transaction(ctx, func(tx *sql.Tx) error {
		for i, stmt := range splitSQLStatements(sqliteSchema) {
			if _, err := tx.ExecContext(ctx, stmt); err != nil {
				return fmt.Errorf("schema statement %d failed: %w", i+1, err)
			}
		}
		return nil
	})
	if err != nil {
		return s.storageError("ensure schema", err)
	}
	return nil
}

// AddLanguage inserts a new language and returns its generated id
func (s *SQLite) AddLanguage(ctx context.Context, name string) (int64, error) {
	if s.db == nil {
		return 0, ErrNotConnected
	}

	log.Info().Str("lang_name", name).Msg("SQLITE: Inserting a new language")

	var id int64
	err := s.transaction(ctx, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx, `INSERT INTO languages (lang_name) VALUES (?)`, name)
		if err != nil {
			return err
		}
		id, err = result.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to get language id: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, s.storageError("add language", err)
	}

	log.Info().Str("lang_name", name).Int64("lang_id", id).Msg("SQLITE: Language added")
	return id, nil
}

// UpdateLanguage renames a language. Zero matching rows is not an error.
func (s *SQLite) UpdateLanguage(ctx context.Context, id int64, name string) error {
	if s.db == nil {
		return ErrNotConnected
	}

	log.Info().Int64("lang_id", id).Str("lang_name", name).Msg("SQLITE: Updating language")

	err := s.transaction(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `UPDATE languages SET lang_name = ? WHERE lang_id = ?`, name, id)
		return err
	})
	if err != nil {
		return s.storageError("update language", err)
	}
	return nil
}

// DeleteLanguage removes a language. Zero matching rows is not an error.
func (s *SQLite) DeleteLanguage(ctx context.Context, id int64) error {
	if s.db == nil {
		return ErrNotConnected
	}

	log.Info().Int64("lang_id", id).Msg("SQLITE: Deleting language")

	err := s.transaction(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `DELETE FROM languages WHERE lang_id = ?`, id)
		return err
	})
	if err != nil {
		return s.storageError("delete language", err)
	}
	return nil
}

// GetLanguage returns the name stored for id, or language.ErrNotFound
func (s *SQLite) GetLanguage(ctx context.Context, id int64) (string, error) {
	if s.db == nil {
		return "", ErrNotConnected
	}

	var name string
	err := s.db.QueryRowContext(ctx, `SELECT lang_name FROM languages WHERE lang_id = ?`, id).Scan(&name)
	if err == sql.ErrNoRows {
		return "", language.ErrNotFound
	}
	if err != nil {
		return "", s.storageError("get language", err)
	}

	return strings.TrimSpace(name), nil
}

// GetLanguages returns every stored language keyed by id
func (s *SQLite) GetLanguages(ctx context.Context) (map[int64]string, error) {
	if s.db == nil {
		return nil, ErrNotConnected
	}

	rows, err := s.db.QueryContext(ctx, `SELECT lang_id, lang_name FROM languages`)
	if err != nil {
		return nil, s.storageError("get languages", err)
	}
	defer rows.Close()

	languages := make(map[int64]string)
	for rows.Next() {
		var id int64
		var name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, s.storageError("get languages", err)
		}
		languages[id] = strings.TrimSpace(name)
	}
	if err := rows.Err(); err != nil {
		return nil, s.storageError("get languages", err)
	}

	return languages, nil
}

// transaction wraps a function in a database transaction
func (s *SQLite) transaction(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			log.Error().Err(rbErr).Msg("SQLITE: Failed to rollback transaction")
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// storageError wraps a driver error, tagging unique violations as conflicts
func (s *SQLite) storageError(op string, err error) error {
	log.Error().Err(err).Str("op", op).Msg("SQLITE: Statement failed")

	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) && sqliteErr.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE {
		err = errors.Join(language.ErrConflict, err)
	}
	return &StorageError{Provider: ProviderSQLite, Op: op, Err: err}
}
