// Package profiletest opens throwaway SQLite databases carrying the users
// schema, for tests that exercise profile.Store.
package profiletest

import (
	_ "embed"
	"testing"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sqlite.sql
var schema string

// NewDB returns an in-memory database closed at test cleanup. The pool holds
// a single connection so every checkout sees the same memory database.
func NewDB(t testing.TB) *sqlx.DB {
	t.Helper()
	db, err := sqlx.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	if _, err := db.Exec(schema); err != nil {
		t.Fatalf("apply schema: %v", err)
	}
	return db
}
