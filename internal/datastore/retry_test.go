package datastore

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvirtanen/timesheet-go/internal/conf"
	"github.com/mvirtanen/timesheet-go/internal/errors"
)

func TestIsDatabaseLocked(t *testing.T) {
	assert.True(t, isDatabaseLocked(errors.NewStd("database is locked")))
	assert.True(t, isDatabaseLocked(errors.NewStd("database table is locked: dt_entry")))
	assert.True(t, isDatabaseLocked(errors.NewStd("sqlite_busy: cannot start transaction")))
	assert.False(t, isDatabaseLocked(nil))
	assert.False(t, isDatabaseLocked(errors.NewStd("UNIQUE constraint failed")))
}

func TestWithWriteRetryRetriesLockedErrors(t *testing.T) {
	attempts := 0
	err := withWriteRetry(func() error {
		attempts++
		if attempts < 3 {
			return errors.NewStd("database is locked")
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
}

func TestWithWriteRetryAbortsOnOtherErrors(t *testing.T) {
	attempts := 0
	err := withWriteRetry(func() error {
		attempts++
		return errors.NewStd("UNIQUE constraint failed: rt_company.name")
	})
	require.Error(t, err)
	assert.Equal(t, 1, attempts, "non-lock errors must not be retried")
}

func TestWithWriteRetryBudgetIsBounded(t *testing.T) {
	attempts := 0
	err := withWriteRetry(func() error {
		attempts++
		return errors.NewStd("database is locked")
	})
	require.Error(t, err)
	assert.True(t, isDatabaseLocked(err))
	assert.Equal(t, maxBusyRetries+1, attempts)
}

// A write arriving while another connection holds the write lock must be
// retried until the lock is released, not surfaced to the caller.
func TestWriteSucceedsWhileLockHeldBriefly(t *testing.T) {
	settings := &conf.Settings{}
	settings.Output.SQLite.Enabled = true
	settings.Output.SQLite.Path = filepath.Join(t.TempDir(), "busy.db")

	store, ok := New(settings).(*SQLiteStore)
	require.True(t, ok)
	require.NoError(t, store.Open())
	t.Cleanup(func() {
		require.NoError(t, store.Close())
	})

	locker, err := sql.Open("sqlite3", settings.Output.SQLite.Path)
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, locker.Close())
	})

	ctx := context.Background()
	conn, err := locker.Conn(ctx)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = conn.Close()
	})

	_, err = conn.ExecContext(ctx, "BEGIN IMMEDIATE")
	require.NoError(t, err)

	released := time.AfterFunc(150*time.Millisecond, func() {
		_, _ = conn.ExecContext(ctx, "COMMIT")
	})
	t.Cleanup(func() { released.Stop() })

	id, err := store.AddCategory(&Category{Code: "DEV"})
	require.NoError(t, err)
	assert.NotZero(t, id)
}
