package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T, seed bool) *Store {
	t.Helper()

	store, err := Open(Options{Driver: DriverSQLite, DSN: ":memory:", Seed: seed})
	require.NoError(t, err)
	require.NoError(t, store.Initialize(context.Background()))
	t.Cleanup(func() { store.Close() })

	return store
}
