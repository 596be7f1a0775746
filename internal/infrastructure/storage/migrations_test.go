package storage

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrations_RecordedOnce(t *testing.T) {
	store := openTestStorage(t)

	applied, err := store.getAppliedMigrations()
	require.NoError(t, err)

	assert.Len(t, applied, len(allMigrations))
	for _, m := range allMigrations {
		assert.True(t, applied[m.Version], "migration %d not applied", m.Version)
	}
}

func TestMigrations_ReopenIsIdempotent(t *testing.T) {
	tmpDB := createTempDB(t)
	defer os.Remove(tmpDB)

	store, err := NewStorage(tmpDB)
	require.NoError(t, err)

	expense := testExpense("user1", 100, "Shop", time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, store.SaveExpense(expense))
	require.NoError(t, store.Close())

	// Reopening runs the migration pass again; it must not touch data.
	store, err = NewStorage(tmpDB)
	require.NoError(t, err)
	defer store.Close()

	got, err := store.GetExpense(expense.ID)
	require.NoError(t, err)
	assert.Equal(t, "Shop", got.Merchant)
}
