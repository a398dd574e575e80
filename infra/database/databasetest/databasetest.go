// Package databasetest provides in-memory stores for tests of packages that
// sit on top of infra/database.
package databasetest

import (
	"catalog/infra/database"
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

// NewStore opens a fresh in-memory SQLite store with the schema applied.
func NewStore(t *testing.T, seed bool) *database.Store {
	t.Helper()

	store, err := database.Open(database.Options{Driver: database.DriverSQLite, DSN: ":memory:", Seed: seed})
	require.NoError(t, err)

	err = store.Initialize(context.Background())
	if err != nil {
		store.Close()
	}
	require.NoError(t, err)

	t.Cleanup(func() { store.Close() })

	return store
}
