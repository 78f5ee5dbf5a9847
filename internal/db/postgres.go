package db

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var postgresDialect = Dialect{
	Name:     "PostgreSQL",
	Liveness: "SELECT NOW()",
	CreateTasksTable: `CREATE TABLE IF NOT EXISTS tasks (
    id SERIAL PRIMARY KEY,
    title VARCHAR(255) NOT NULL,
    description TEXT,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
)`,
}

// PgxPool is the subset of *pgxpool.Pool used by the handle. pgxmock pools
// satisfy it as well.
type PgxPool interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Close()
}

type PostgresHandle struct {
	pool PgxPool
}

var _ Handle = (*PostgresHandle)(nil)

func NewPostgresHandle(pool PgxPool) *PostgresHandle {
	return &PostgresHandle{pool: pool}
}

// OpenPostgres creates a pgx pool for p.
func OpenPostgres(ctx context.Context, p Params) (*PostgresHandle, error) {
	config, err := pgxpool.ParseConfig(PostgresDSN(p))
	if err != nil {
		return nil, fmt.Errorf("parsing connection string: %w", err)
	}

	config.MaxConns = 10
	config.MinConns = 0
	config.HealthCheckPeriod = 30 * time.Second
	config.ConnConfig.ConnectTimeout = 5 * time.Second

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("creating pool: %w", err)
	}
	return NewPostgresHandle(pool), nil
}

// PostgresDSN renders p as a postgres:// URL.
func PostgresDSN(p Params) string {
	port := p.Port
	if port == "" {
		port = "5432"
	}
	sslmode := p.SSLMode
	if sslmode == "" {
		sslmode = "disable"
	}
	u := url.URL{
		Scheme:   "postgres",
		Host:     net.JoinHostPort(p.Host, port),
		Path:     "/" + p.Name,
		RawQuery: url.Values{"sslmode": {sslmode}}.Encode(),
	}
	if p.User != "" {
		u.User = url.UserPassword(p.User, p.Password)
	}
	return u.String()
}

func (h *PostgresHandle) Select(ctx context.Context, dst any, query string, args ...any) error {
	q, err := rebind(query)
	if err != nil {
		return err
	}
	return pgxscan.Select(ctx, h.pool, dst, q, args...)
}

func (h *PostgresHandle) Get(ctx context.Context, dst any, query string, args ...any) error {
	q, err := rebind(query)
	if err != nil {
		return err
	}
	return pgxscan.Get(ctx, h.pool, dst, q, args...)
}

func (h *PostgresHandle) Exec(ctx context.Context, query string, args ...any) (int64, error) {
	q, err := rebind(query)
	if err != nil {
		return 0, err
	}
	tag, err := h.pool.Exec(ctx, q, args...)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (h *PostgresHandle) Ping(ctx context.Context) error {
	_, err := h.pool.Exec(ctx, postgresDialect.Liveness)
	return err
}

func (h *PostgresHandle) Dialect() Dialect { return postgresDialect }

func (h *PostgresHandle) Close() { h.pool.Close() }

// rebind turns '?' placeholders into PostgreSQL's $n form.
func rebind(query string) (string, error) {
	q, err := squirrel.Dollar.ReplacePlaceholders(query)
	if err != nil {
		return "", fmt.Errorf("rebinding placeholders: %w", err)
	}
	return q, nil
}
