// Package db selects the relational backend for the deployment mode and
// exposes it through a single query handle.
package db

import (
	"context"
	"fmt"
)

type Backend string

const (
	Postgres Backend = "postgres"
	MySQL    Backend = "mysql"
)

// BackendFor maps the deployment mode to a backend. A non-empty override
// ("postgres" or "mysql") takes precedence.
func BackendFor(env, override string) (Backend, error) {
	switch override {
	case "":
	case string(Postgres), "postgresql", "pg":
		return Postgres, nil
	case string(MySQL):
		return MySQL, nil
	default:
		return "", fmt.Errorf("unknown database driver %q", override)
	}
	if env == "production" {
		return Postgres, nil
	}
	return MySQL, nil
}

// Params are the connection parameters shared by both backends.
type Params struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

// Dialect carries the engine-specific statements the rest of the program
// needs without branching on the backend.
type Dialect struct {
	Name             string
	Liveness         string
	CreateTasksTable string
}

// Handle is the query handle used for the lifetime of the process.
// Statements use '?' placeholders regardless of the engine.
type Handle interface {
	// Select scans every returned row into dst, a pointer to a slice.
	Select(ctx context.Context, dst any, query string, args ...any) error
	// Get scans a single row into dst, a pointer to a struct or scalar.
	Get(ctx context.Context, dst any, query string, args ...any) error
	// Exec runs a statement and returns the number of affected rows.
	Exec(ctx context.Context, query string, args ...any) (int64, error)
	// Ping runs the dialect's liveness statement.
	Ping(ctx context.Context) error
	Dialect() Dialect
	Close()
}

// Connect selects the backend for env (or override) and opens its handle.
func Connect(ctx context.Context, env, override string, p Params) (Handle, error) {
	backend, err := BackendFor(env, override)
	if err != nil {
		return nil, err
	}
	return Open(ctx, backend, p)
}

// Open builds the handle for the given backend. The pool is created
// eagerly, connections are acquired lazily, so an unreachable server is not
// an error here.
func Open(ctx context.Context, backend Backend, p Params) (Handle, error) {
	switch backend {
	case Postgres:
		h, err := OpenPostgres(ctx, p)
		if err != nil {
			return nil, err
		}
		return h, nil
	case MySQL:
		h, err := OpenMySQL(p)
		if err != nil {
			return nil, err
		}
		return h, nil
	default:
		return nil, fmt.Errorf("unsupported backend %q", backend)
	}
}
