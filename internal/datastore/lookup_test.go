package datastore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRefreshCategoriesReturnsMap(t *testing.T) {
	store := newTestStore(t)
	dev := seedCategory(t, store, "DEV")

	lookup, err := store.RefreshCategories()
	require.NoError(t, err)
	assert.Equal(t, dev, lookup["DEV"])
	assert.Contains(t, lookup, SentinelCategoryCode)
}

func TestRefreshCompaniesAndProjects(t *testing.T) {
	store := newTestStore(t)
	acme := seedCompany(t, store, "Acme", 20)
	web := seedProject(t, store, "WEB", &acme)

	companies, err := store.RefreshCompanies()
	require.NoError(t, err)
	assert.Equal(t, map[string]uint{"Acme": acme}, companies)

	projects, err := store.RefreshProjects()
	require.NoError(t, err)
	assert.Equal(t, map[string]uint{"WEB": web}, projects)
}

// A reference-data write must invalidate the lookup maps so the next bulk
// ingest sees the new keys instead of stale sentinel fallbacks.
func TestLookupInvalidatedByReferenceDataWrites(t *testing.T) {
	store := newTestStore(t)

	// Warm the cache while QA does not exist: the row lands on the sentinel.
	n, err := store.InsertEntries([]BulkEntry{
		{EntryDate: "2026-08-01", StartTime: "09:00", DurationMinutes: 30, CategoryCode: "QA"},
	})
	require.NoError(t, err)
	require.Equal(t, 1, n)

	qa := seedCategory(t, store, "QA")

	n, err = store.InsertEntries([]BulkEntry{
		{EntryDate: "2026-08-02", StartTime: "09:00", DurationMinutes: 30, CategoryCode: "QA"},
	})
	require.NoError(t, err)
	require.Equal(t, 1, n)

	var sentinel Category
	require.NoError(t, store.DB.Where("code = ?", SentinelCategoryCode).First(&sentinel).Error)

	var first, second Entry
	require.NoError(t, store.DB.Where("entry_date = ?", "2026-08-01").First(&first).Error)
	require.NoError(t, store.DB.Where("entry_date = ?", "2026-08-02").First(&second).Error)

	require.NotNil(t, first.CategoryID)
	assert.Equal(t, sentinel.ID, *first.CategoryID)
	require.NotNil(t, second.CategoryID)
	assert.Equal(t, qa, *second.CategoryID)
}

func TestLookupInvalidatedByRemoval(t *testing.T) {
	store := newTestStore(t)
	seedCompany(t, store, "Acme", 20)

	// Warm the company map.
	n, err := store.InsertEntries([]BulkEntry{
		{EntryDate: "2026-08-01", StartTime: "09:00", DurationMinutes: 30, CompanyKey: "Acme"},
	})
	require.NoError(t, err)
	require.Equal(t, 1, n)

	// Drop the referencing entry, then the company itself.
	removed, err := store.DeleteEntry(EntryLocator{EntryDate: "2026-08-01", StartTime: "09:00"})
	require.NoError(t, err)
	require.True(t, removed)
	removed, err = store.RemoveCompany(Locator{Key: "Acme"})
	require.NoError(t, err)
	require.True(t, removed)

	// The stale id must not resurface from the cache.
	n, err = store.InsertEntries([]BulkEntry{
		{EntryDate: "2026-08-02", StartTime: "09:00", DurationMinutes: 30, CompanyKey: "Acme"},
	})
	require.NoError(t, err)
	require.Equal(t, 1, n)

	var got Entry
	require.NoError(t, store.DB.Where("entry_date = ?", "2026-08-02").First(&got).Error)
	assert.Nil(t, got.CompanyID)
}
