package testutil

import (
	"context"
	"database/sql"
	"testing"

	"coursesync-backend/pkg/migrations"
)

// OpenDB opens an in-memory database with `schema` applied, it is closed when
// the test finishes.
func OpenDB(t testing.TB, schema string) *sql.DB {
	t.Helper()
	database, err := migrations.OpenAndMigrateDB(context.Background(), schema, ":memory:")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		database.Close()
	})
	return database
}
