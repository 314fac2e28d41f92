package migrations

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const testSchema = `
-- people that have logged in
create table if not exists person (
    id integer primary key,
    name text not null -- display name
);

create index if not exists person_name on person(name);
`

func TestSplitStatements(t *testing.T) {
	stmts := splitStatements(testSchema)
	require.Len(t, stmts, 2)
	require.Contains(t, stmts[0], "create table if not exists person")
	require.NotContains(t, stmts[0], "display name")
	require.Equal(t, "create index if not exists person_name on person(name)", stmts[1])
}

func TestOpenAndMigrateDB(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "state.db")

	db, err := OpenAndMigrateDB(ctx, testSchema, path)
	require.NoError(t, err)

	_, err = db.Exec("insert into person(name) values ('ada')")
	require.NoError(t, err)
	require.NoError(t, db.Close())

	// migrating again must be a no-op
	db, err = OpenAndMigrateDB(ctx, testSchema, path)
	require.NoError(t, err)
	defer db.Close()

	var count int
	require.NoError(t, db.QueryRow("select count(*) from person").Scan(&count))
	require.Equal(t, 1, count)
}

func TestIsRemote(t *testing.T) {
	require.True(t, isRemote("libsql://archive.turso.io"))
	require.True(t, isRemote("http://127.0.0.1:8080"))
	require.False(t, isRemote("data/archive.db"))
	require.False(t, isRemote(":memory:"))
}
