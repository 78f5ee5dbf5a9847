package db

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type row struct {
	ID        int64     `db:"id"`
	Title     string    `db:"title"`
	Note      *string   `db:"note"`
	CreatedAt time.Time `db:"created_at"`
}

func TestBackendFor(t *testing.T) {
	cases := []struct {
		env, override string
		want          Backend
		wantErr       bool
	}{
		{env: "production", want: Postgres},
		{env: "development", want: MySQL},
		{env: "", want: MySQL},
		{env: "test", want: MySQL},
		{env: "development", override: "postgres", want: Postgres},
		{env: "development", override: "pg", want: Postgres},
		{env: "production", override: "mysql", want: MySQL},
		{env: "production", override: "sqlite", wantErr: true},
	}
	for _, tc := range cases {
		got, err := BackendFor(tc.env, tc.override)
		if tc.wantErr {
			assert.Error(t, err, "env=%q override=%q", tc.env, tc.override)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tc.want, got, "env=%q override=%q", tc.env, tc.override)
	}
}

func TestOpenUnknownBackend(t *testing.T) {
	_, err := Open(context.Background(), Backend("oracle"), Params{})
	assert.Error(t, err)
}

func TestOpenDoesNotRequireReachableServer(t *testing.T) {
	p := Params{Host: "127.0.0.1", Port: "1", User: "u", Password: "p", Name: "tasks"}

	pg, err := Open(context.Background(), Postgres, p)
	require.NoError(t, err)
	assert.Equal(t, "PostgreSQL", pg.Dialect().Name)
	pg.Close()

	my, err := Open(context.Background(), MySQL, p)
	require.NoError(t, err)
	assert.Equal(t, "MySQL", my.Dialect().Name)
	my.Close()
}

func TestPostgresDSN(t *testing.T) {
	dsn := PostgresDSN(Params{Host: "db", User: "app", Password: "p@ss word", Name: "tasks"})
	assert.True(t, strings.HasPrefix(dsn, "postgres://app:"), dsn)
	assert.Contains(t, dsn, "@db:5432/tasks")
	assert.Contains(t, dsn, "sslmode=disable")
	assert.NotContains(t, dsn, "p@ss word")

	dsn = PostgresDSN(Params{Host: "db", Port: "5433", Name: "x", SSLMode: "require"})
	assert.Equal(t, "postgres://db:5433/x?sslmode=require", dsn)
}

func TestMySQLDSN(t *testing.T) {
	dsn := MySQLDSN(Params{Host: "mysql", User: "root", Password: "secret", Name: "tasks"})
	assert.True(t, strings.HasPrefix(dsn, "root:secret@tcp(mysql:3306)/tasks?"), dsn)
	assert.Contains(t, dsn, "parseTime=true")

	cfg, err := mysql.ParseDSN(dsn)
	require.NoError(t, err)
	assert.Equal(t, time.UTC, cfg.Loc)
	assert.Equal(t, "'+00:00'", cfg.Params["time_zone"])
}

func TestDialectsCreateTasksTableIdempotently(t *testing.T) {
	for _, d := range []Dialect{postgresDialect, mysqlDialect} {
		assert.Contains(t, d.CreateTasksTable, "CREATE TABLE IF NOT EXISTS tasks", d.Name)
		assert.Contains(t, d.CreateTasksTable, "title VARCHAR(255) NOT NULL", d.Name)
		assert.Contains(t, d.CreateTasksTable, "created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP", d.Name)
	}
	assert.Contains(t, postgresDialect.CreateTasksTable, "SERIAL PRIMARY KEY")
	assert.Contains(t, mysqlDialect.CreateTasksTable, "AUTO_INCREMENT PRIMARY KEY")
}

func TestPostgresHandle(t *testing.T) {
	ctx := context.Background()

	t.Run("Should rewrite placeholders and scan rows", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()
		h := NewPostgresHandle(mock)
		now := time.Now()
		note := "2%"
		rows := mock.NewRows([]string{"id", "title", "note", "created_at"}).
			AddRow(int64(2), "Buy milk", &note, now).
			AddRow(int64(1), "Seed", (*string)(nil), now.Add(-time.Minute))
		mock.ExpectQuery(regexp.QuoteMeta("SELECT id, title, note, created_at FROM tasks WHERE id > $1 AND title <> $2")).
			WithArgs(int64(0), "").
			WillReturnRows(rows)

		var got []row
		err = h.Select(ctx, &got, "SELECT id, title, note, created_at FROM tasks WHERE id > ? AND title <> ?", int64(0), "")
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "Buy milk", got[0].Title)
		require.NotNil(t, got[0].Note)
		assert.Equal(t, "2%", *got[0].Note)
		assert.Nil(t, got[1].Note)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Should scan a scalar with Get", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()
		h := NewPostgresHandle(mock)
		mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM tasks")).
			WillReturnRows(mock.NewRows([]string{"count"}).AddRow(int64(3)))

		var n int64
		require.NoError(t, h.Get(ctx, &n, "SELECT COUNT(*) FROM tasks"))
		assert.Equal(t, int64(3), n)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Should report affected rows from Exec", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()
		h := NewPostgresHandle(mock)
		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO tasks (title,description) VALUES ($1,$2)")).
			WithArgs("Buy milk", "2%").
			WillReturnResult(pgxmock.NewResult("INSERT", 1))

		n, err := h.Exec(ctx, "INSERT INTO tasks (title,description) VALUES (?,?)", "Buy milk", "2%")
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Should ping with SELECT NOW()", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()
		h := NewPostgresHandle(mock)
		mock.ExpectExec(regexp.QuoteMeta("SELECT NOW()")).WillReturnResult(pgxmock.NewResult("SELECT", 1))
		mock.ExpectExec(regexp.QuoteMeta("SELECT NOW()")).WillReturnError(errors.New("connection refused"))

		assert.NoError(t, h.Ping(ctx))
		assert.EqualError(t, h.Ping(ctx), "connection refused")
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestMySQLHandle(t *testing.T) {
	ctx := context.Background()

	t.Run("Should keep question-mark placeholders and scan rows", func(t *testing.T) {
		sqlDB, mock, err := sqlmock.New()
		require.NoError(t, err)
		h := NewMySQLHandle(sqlDB)
		defer h.Close()
		now := time.Now().UTC()
		mock.ExpectQuery(regexp.QuoteMeta("SELECT id, title, note, created_at FROM tasks WHERE id > ?")).
			WithArgs(int64(0)).
			WillReturnRows(sqlmock.NewRows([]string{"id", "title", "note", "created_at"}).
				AddRow(int64(1), "Seed", nil, now))

		var got []row
		require.NoError(t, h.Select(ctx, &got, "SELECT id, title, note, created_at FROM tasks WHERE id > ?", int64(0)))
		require.Len(t, got, 1)
		assert.Equal(t, "Seed", got[0].Title)
		assert.Nil(t, got[0].Note)
		assert.True(t, now.Equal(got[0].CreatedAt))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Should scan a scalar with Get", func(t *testing.T) {
		sqlDB, mock, err := sqlmock.New()
		require.NoError(t, err)
		h := NewMySQLHandle(sqlDB)
		defer h.Close()
		mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM tasks")).
			WillReturnRows(sqlmock.NewRows([]string{"COUNT(*)"}).AddRow(int64(0)))

		n := int64(-1)
		require.NoError(t, h.Get(ctx, &n, "SELECT COUNT(*) FROM tasks"))
		assert.Equal(t, int64(0), n)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Should report affected rows and ping with SELECT 1", func(t *testing.T) {
		sqlDB, mock, err := sqlmock.New()
		require.NoError(t, err)
		h := NewMySQLHandle(sqlDB)
		defer h.Close()
		mock.ExpectExec(regexp.QuoteMeta("SELECT 1")).WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO tasks (title,description) VALUES (?,?)")).
			WithArgs("Buy milk", nil).
			WillReturnResult(sqlmock.NewResult(7, 1))

		require.NoError(t, h.Ping(ctx))
		n, err := h.Exec(ctx, "INSERT INTO tasks (title,description) VALUES (?,?)", "Buy milk", nil)
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
