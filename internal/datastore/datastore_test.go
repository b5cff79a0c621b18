// datastore_test.go: shared test fixtures for the datastore package.
package datastore

import (
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mvirtanen/timesheet-go/internal/conf"
)

var testDBCounter atomic.Int64

// newTestStore opens a fresh in-memory store. Each test gets its own
// shared-cache database so the connection pool sees one schema.
func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	settings := &conf.Settings{}
	settings.Output.SQLite.Enabled = true
	settings.Output.SQLite.Path = fmt.Sprintf("file:testdb%d?mode=memory&cache=shared", testDBCounter.Add(1))

	store, ok := New(settings).(*SQLiteStore)
	require.True(t, ok, "expected a SQLite store")
	require.NoError(t, store.Open())

	t.Cleanup(func() {
		require.NoError(t, store.Close())
	})
	return store
}

// seedCompany inserts a company and returns its id.
func seedCompany(t *testing.T, store *SQLiteStore, name string, payRate float64) uint {
	t.Helper()
	id, err := store.AddCompany(&Company{Name: name, PayRate: payRate})
	require.NoError(t, err)
	return id
}

// seedCategory inserts a category and returns its id.
func seedCategory(t *testing.T, store *SQLiteStore, code string) uint {
	t.Helper()
	id, err := store.AddCategory(&Category{Code: code})
	require.NoError(t, err)
	return id
}

// seedProject inserts a project and returns its id.
func seedProject(t *testing.T, store *SQLiteStore, code string, companyID *uint) uint {
	t.Helper()
	id, err := store.AddProject(&Project{Code: code, CompanyID: companyID})
	require.NoError(t, err)
	return id
}

// seedEntry inserts a minimal entry and returns it.
func seedEntry(t *testing.T, store *SQLiteStore, date, start string, minutes int, mutate ...func(*Entry)) *Entry {
	t.Helper()
	entry := &Entry{
		EntryDate:       date,
		StartTime:       start,
		DurationMinutes: minutes,
	}
	for _, m := range mutate {
		m(entry)
	}
	require.NoError(t, store.InsertEntry(entry))
	require.NotZero(t, entry.ID)
	return entry
}
