package service

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/retrodev-essonne/retrobus-finance/internal/database"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	migrations, err := filepath.Abs("../database/migrations")
	require.NoError(t, err)

	db, err := database.Open(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, database.RunMigrationsWithDB(db, migrations))
	return db
}

// allowAll grants the finance-admin capability to a fixed set of actors.
type allowAll struct{ actors map[string]bool }

func (a allowAll) IsAdmin(actor string) bool { return a.actors[actor] }

func admins(actors ...string) allowAll {
	m := map[string]bool{}
	for _, a := range actors {
		m[a] = true
	}
	return allowAll{actors: m}
}
