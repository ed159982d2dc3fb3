package database

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mtlprog/dbprobe/internal/domain"
)

// psql is the Squirrel statement builder configured for PostgreSQL dollar placeholders.
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// Postgres wraps a pgxpool.Pool.
type Postgres struct {
	pool *pgxpool.Pool
}

// OpenPostgres creates a connection pool for databaseURL and pings it.
// name is used only when the URL does not select a database itself.
func OpenPostgres(ctx context.Context, databaseURL, name string) (*Postgres, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}

	if config.ConnConfig.Database == "" {
		config.ConnConfig.Database = name
	}
	config.MaxConns = 4
	config.MinConns = 0

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("%w: ping postgres: %w", domain.ErrDatabaseUnavailable, err)
	}

	slog.Info("database connected", "driver", "postgres", "database", config.ConnConfig.Database)

	return &Postgres{pool: pool}, nil
}

// Name returns the database the pool is connected to.
func (p *Postgres) Name() string {
	return p.pool.Config().ConnConfig.Database
}

// listDatabasesQuery selects every non-template database, ordered by name.
func listDatabasesQuery() (string, []any, error) {
	return psql.Select("datname").
		From("pg_database").
		Where(sq.Eq{"datistemplate": false}).
		OrderBy("datname").
		ToSql()
}

// ListDatabaseNames returns the non-template databases on the server.
func (p *Postgres) ListDatabaseNames(ctx context.Context) ([]string, error) {
	query, args, err := listDatabasesQuery()
	if err != nil {
		return nil, fmt.Errorf("build list databases query: %w", err)
	}

	rows, err := p.pool.Query(ctx, query, args...)
	if err != nil {
		var connErr *pgconn.ConnectError
		if errors.As(err, &connErr) {
			return nil, fmt.Errorf("query databases: %w: %w", domain.ErrDatabaseUnavailable, err)
		}
		return nil, fmt.Errorf("query databases: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan database name: %w", err)
		}
		names = append(names, name)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate database rows: %w", err)
	}

	return names, nil
}

// Ping checks that the server is reachable.
func (p *Postgres) Ping(ctx context.Context) error {
	if err := p.pool.Ping(ctx); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrDatabaseUnavailable, err)
	}
	return nil
}

// Close closes the connection pool.
func (p *Postgres) Close(_ context.Context) error {
	p.pool.Close()
	slog.Info("database connection closed", "driver", "postgres")
	return nil
}
