package database

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"

	"github.com/langexch/langexch/internal/config"
	"github.com/langexch/langexch/internal/language"
)

// ProviderPostgres is the registered name of the PostgreSQL provider
const ProviderPostgres = "postgres"

// Postgres stores languages in lang_exch.languages through a pgx connection pool
type Postgres struct {
	cfg   config.DatabaseConfig
	pool  *pgxpool.Pool
	table string
}

// NewPostgres creates an unconnected PostgreSQL provider
func NewPostgres(cfg config.DatabaseConfig) Provider {
	return &Postgres{
		cfg:   cfg,
		table: pgx.Identifier{postgresSchemaName, "languages"}.Sanitize(),
	}
}

// Name returns the provider name
func (p *Postgres) Name() string {
	return ProviderPostgres
}

// connString builds a postgres:// URL so credentials are escaped properly
func (p *Postgres) connString() string {
	u := url.URL{
		Scheme: "postgres",
		Host:   net.JoinHostPort(p.cfg.Host, strconv.Itoa(p.cfg.Port)),
		Path:   "/" + p.cfg.Database,
	}
	if p.cfg.Password != "" {
		u.User = url.UserPassword(p.cfg.Username, p.cfg.Password)
	} else if p.cfg.Username != "" {
		u.User = url.User(p.cfg.Username)
	}
	if p.cfg.SSLMode != "" {
		u.RawQuery = url.Values{"sslmode": []string{p.cfg.SSLMode}}.Encode()
	}
	return u.String()
}

// Connect opens the pool and verifies the server is reachable
func (p *Postgres) Connect(ctx context.Context) error {
	poolConfig, err := pgxpool.ParseConfig(p.connString())
	if err != nil {
		return &ConnectionError{Provider: ProviderPostgres, Err: err}
	}
	if p.cfg.MaxConns > 0 {
		poolConfig.MaxConns = int32(p.cfg.MaxConns)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		log.Error().Err(err).Str("host", p.cfg.Host).Msg("POSTGRES: Failed to create connection pool")
		return &ConnectionError{Provider: ProviderPostgres, Err: err}
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		log.Error().Err(err).Str("host", p.cfg.Host).Msg("POSTGRES: Failed to connect to postgres database")
		return &ConnectionError{Provider: ProviderPostgres, Err: err}
	}

	p.pool = pool

	log.Debug().
		Str("host", p.cfg.Host).
		Int("port", p.cfg.Port).
		Str("username", p.cfg.Username).
		Str("database", p.cfg.Database).
		Int32("max_conns", poolConfig.MaxConns).
		Msg("POSTGRES: Connection pool established")

	return nil
}

// Ping checks the pool can reach the server
func (p *Postgres) Ping(ctx context.Context) error {
	if p.pool == nil {
		return ErrNotConnected
	}
	return p.pool.Ping(ctx)
}

// Close releases the pool
func (p *Postgres) Close() error {
	if p.pool != nil {
		p.pool.Close()
		p.pool = nil
	}
	return nil
}

// EnsureSchema creates the lang_exch schema and languages table when missing
func (p *Postgres) EnsureSchema(ctx context.Context) error {
	if p.pool == nil {
		return ErrNotConnected
	}

	err := p.transaction(ctx, func(tx pgx.Tx) error {
		for i, stmt := range splitSQLStatements(postgresSchema) {
			if _, err := tx.Exec(ctx, stmt); err != nil {
				return fmt.Errorf("schema statement %d failed: %w", i+1, err)
			}
		}
		return nil
	})
	if err != nil {
		return p.storageError("ensure schema", err)
	}

	log.Debug().Str("table", p.table).Msg("POSTGRES: Schema ready")
	return nil
}

// AddLanguage inserts a new language and returns its generated id
func (p *Postgres) AddLanguage(ctx context.Context, name string) (int64, error) {
	if p.pool == nil {
		return 0, ErrNotConnected
	}

	log.Info().Str("lang_name", name).Msg("POSTGRES: Inserting a new language")

	var id int64
	err := p.transaction(ctx, func(tx pgx.Tx) error {
		return tx.QueryRow(ctx,
			`INSERT INTO `+p.table+` (lang_name) VALUES ($1) RETURNING lang_id`,
			name,
		).Scan(&id)
	})
	if err != nil {
		return 0, p.storageError("add language", err)
	}

	log.Info().Str("lang_name", name).Int64("lang_id", id).Msg("POSTGRES: Language added")
	return id, nil
}

// UpdateLanguage renames a language. Zero matching rows is not an error.
func (p *Postgres) UpdateLanguage(ctx context.Context, id int64, name string) error {
	if p.pool == nil {
		return ErrNotConnected
	}

	log.Info().Int64("lang_id", id).Str("lang_name", name).Msg("POSTGRES: Updating language")

	var affected int64
	err := p.transaction(ctx, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx,
			`UPDATE `+p.table+` SET lang_name = $1 WHERE lang_id = $2`,
			name, id,
		)
		affected = tag.RowsAffected()
		return err
	})
	if err != nil {
		return p.storageError("update language", err)
	}

	log.Debug().Int64("lang_id", id).Int64("rows", affected).Msg("POSTGRES: Language updated")
	return nil
}

// DeleteLanguage removes a language. Zero matching rows is not an error.
func (p *Postgres) DeleteLanguage(ctx context.Context, id int64) error {
	if p.pool == nil {
		return ErrNotConnected
	}

	log.Info().Int64("lang_id", id).Msg("POSTGRES: Deleting language")

	var affected int64
	err := p.transaction(ctx, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `DELETE FROM `+p.table+` WHERE lang_id = $1`, id)
		affected = tag.RowsAffected()
		return err
	})
	if err != nil {
		return p.storageError("delete language", err)
	}

	log.Debug().Int64("lang_id", id).Int64("rows", affected).Msg("POSTGRES: Language deleted")
	return nil
}

// GetLanguage returns the name stored for id, or language.ErrNotFound
func (p *Postgres) GetLanguage(ctx context.Context, id int64) (string, error) {
	if p.pool == nil {
		return "", ErrNotConnected
	}

	var name string
	err := p.pool.QueryRow(ctx,
		`SELECT lang_name FROM `+p.table+` WHERE lang_id = $1`,
		id,
	).Scan(&name)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", language.ErrNotFound
	}
	if err != nil {
		return "", p.storageError("get language", err)
	}

	return strings.TrimSpace(name), nil
}

// GetLanguages returns every stored language keyed by id
func (p *Postgres) GetLanguages(ctx context.Context) (map[int64]string, error) {
	if p.pool == nil {
		return nil, ErrNotConnected
	}

	rows, err := p.pool.Query(ctx, `SELECT lang_id, lang_name FROM `+p.table)
	if err != nil {
		return nil, p.storageError("get languages", err)
	}
	defer rows.Close()

	languages := make(map[int64]string)
	for rows.Next() {
		var id int64
		var name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, p.storageError("get languages", err)
		}
		languages[id] = strings.TrimSpace(name)
	}
	if err := rows.Err(); err != nil {
		return nil, p.storageError("get languages", err)
	}

	log.Debug().Int("count", len(languages)).Msg("POSTGRES: Languages fetched")
	return languages, nil
}

// transaction runs fn in a transaction, committing on success and rolling back otherwise
func (p *Postgres) transaction(ctx context.Context, fn func(pgx.Tx) error) error {
	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			log.Error().Err(rbErr).Msg("POSTGRES: Failed to rollback transaction")
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// storageError wraps a driver error, tagging unique violations as conflicts
func (p *Postgres) storageError(op string, err error) error {
	log.Error().Err(err).Str("op", op).Msg("POSTGRES: Statement failed")

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		err = errors.Join(language.ErrConflict, err)
	}
	return &StorageError{Provider: ProviderPostgres, Op: op, Err: err}
}
