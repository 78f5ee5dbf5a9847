package db

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"time"

	"github.com/georgysavva/scany/v2/sqlscan"
	"github.com/go-sql-driver/mysql"
)

var mysqlDialect = Dialect{
	Name:     "MySQL",
	Liveness: "SELECT 1",
	CreateTasksTable: `CREATE TABLE IF NOT EXISTS tasks (
    id INT AUTO_INCREMENT PRIMARY KEY,
    title VARCHAR(255) NOT NULL,
    description TEXT,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
)`,
}

type MySQLHandle struct {
	db *sql.DB
}

var _ Handle = (*MySQLHandle)(nil)

func NewMySQLHandle(db *sql.DB) *MySQLHandle {
	return &MySQLHandle{db: db}
}

// OpenMySQL creates a database/sql pool backed by go-sql-driver/mysql.
func OpenMySQL(p Params) (*MySQLHandle, error) {
	db, err := sql.Open("mysql", MySQLDSN(p))
	if err != nil {
		return nil, fmt.Errorf("opening mysql: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)
	return NewMySQLHandle(db), nil
}

// MySQLDSN renders p in go-sql-driver/mysql DSN form. parseTime is always
// enabled so TIMESTAMP columns scan into time.Time, and the session runs in
// UTC to match Loc.
func MySQLDSN(p Params) string {
	port := p.Port
	if port == "" {
		port = "3306"
	}
	cfg := mysql.NewConfig()
	cfg.User = p.User
	cfg.Passwd = p.Password
	cfg.Net = "tcp"
	cfg.Addr = net.JoinHostPort(p.Host, port)
	cfg.DBName = p.Name
	cfg.ParseTime = true
	cfg.Loc = time.UTC
	cfg.Params = map[string]string{"time_zone": "'+00:00'"}
	cfg.Timeout = 5 * time.Second
	return cfg.FormatDSN()
}

func (h *MySQLHandle) Select(ctx context.Context, dst any, query string, args ...any) error {
	return sqlscan.Select(ctx, h.db, dst, query, args...)
}

func (h *MySQLHandle) Get(ctx context.Context, dst any, query string, args ...any) error {
	return sqlscan.Get(ctx, h.db, dst, query, args...)
}

func (h *MySQLHandle) Exec(ctx context.Context, query string, args ...any) (int64, error) {
	res, err := h.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("reading affected rows: %w", err)
	}
	return n, nil
}

func (h *MySQLHandle) Ping(ctx context.Context) error {
	_, err := h.db.ExecContext(ctx, mysqlDialect.Liveness)
	return err
}

func (h *MySQLHandle) Dialect() Dialect { return mysqlDialect }

func (h *MySQLHandle) Close() { _ = h.db.Close() }
