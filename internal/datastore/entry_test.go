package datastore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvirtanen/timesheet-go/internal/errors"
)

func TestInsertEntryValidation(t *testing.T) {
	store := newTestStore(t)

	cases := []struct {
		name  string
		entry Entry
	}{
		{"missing date", Entry{StartTime: "09:00", DurationMinutes: 30}},
		{"malformed date", Entry{EntryDate: "2026-13-40", StartTime: "09:00"}},
		{"missing start time", Entry{EntryDate: "2026-08-01", DurationMinutes: 30}},
		{"malformed start time", Entry{EntryDate: "2026-08-01", StartTime: "25:61"}},
		{"negative duration", Entry{EntryDate: "2026-08-01", StartTime: "09:00", DurationMinutes: -5}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := store.InsertEntry(&tc.entry)
			require.Error(t, err)
			assert.True(t, errors.IsValidation(err), "expected a validation error, got %v", err)
		})
	}
}

func TestInsertEntryRejectsUnknownForeignKey(t *testing.T) {
	store := newTestStore(t)

	missing := uint(9999)
	err := store.InsertEntry(&Entry{
		EntryDate:       "2026-08-01",
		StartTime:       "09:00",
		DurationMinutes: 60,
		CategoryID:      &missing,
	})
	require.Error(t, err)
	assert.True(t, errors.IsConflict(err), "expected a conflict error, got %v", err)
}

func TestUpdateEntryByID(t *testing.T) {
	store := newTestStore(t)
	entry := seedEntry(t, store, "2026-08-01", "09:00", 60)

	modified, err := store.UpdateEntry(EntryLocator{ID: entry.ID}, map[string]any{
		"description":      "standup",
		"duration_minutes": 90,
	})
	require.NoError(t, err)
	assert.True(t, modified)

	var got Entry
	require.NoError(t, store.DB.First(&got, entry.ID).Error)
	assert.Equal(t, "standup", got.Description)
	assert.Equal(t, 90, got.DurationMinutes)
}

func TestUpdateEntryEmptyPatchIsNoOp(t *testing.T) {
	store := newTestStore(t)
	entry := seedEntry(t, store, "2026-08-01", "09:00", 60)

	modified, err := store.UpdateEntry(EntryLocator{ID: entry.ID}, map[string]any{})
	require.NoError(t, err)
	assert.False(t, modified)

	// A patch made only of unrecognized fields is equally a no-op.
	modified, err = store.UpdateEntry(EntryLocator{ID: entry.ID}, map[string]any{"bogus": 1, "id": 42})
	require.NoError(t, err)
	assert.False(t, modified)
}

func TestUpdateEntryNotFound(t *testing.T) {
	store := newTestStore(t)

	modified, err := store.UpdateEntry(EntryLocator{ID: 4242}, map[string]any{"notes": "gone"})
	require.Error(t, err)
	assert.False(t, modified)
	assert.True(t, errors.IsNotFound(err), "expected a not-found error, got %v", err)
}

func TestUpdateEntryValidatesPatchValues(t *testing.T) {
	store := newTestStore(t)
	entry := seedEntry(t, store, "2026-08-01", "09:00", 60)

	_, err := store.UpdateEntry(EntryLocator{ID: entry.ID}, map[string]any{"duration_minutes": -10})
	require.Error(t, err)
	assert.True(t, errors.IsValidation(err))

	_, err = store.UpdateEntry(EntryLocator{ID: entry.ID}, map[string]any{"entry_date": "not-a-date"})
	require.Error(t, err)
	assert.True(t, errors.IsValidation(err))
}

func TestCompositeLocatorSingleMatch(t *testing.T) {
	store := newTestStore(t)
	seedEntry(t, store, "2026-08-01", "09:00", 60)

	loc := EntryLocator{EntryDate: "2026-08-01", StartTime: "09:00"}
	modified, err := store.UpdateEntry(loc, map[string]any{"billable": true})
	require.NoError(t, err)
	assert.True(t, modified)

	removed, err := store.DeleteEntry(loc)
	require.NoError(t, err)
	assert.True(t, removed)
}

func TestCompositeLocatorAmbiguityIsConflict(t *testing.T) {
	store := newTestStore(t)
	seedEntry(t, store, "2026-08-01", "09:00", 60)
	seedEntry(t, store, "2026-08-01", "09:00", 30)

	loc := EntryLocator{EntryDate: "2026-08-01", StartTime: "09:00"}

	modified, err := store.UpdateEntry(loc, map[string]any{"notes": "which one?"})
	require.Error(t, err)
	assert.False(t, modified)
	assert.True(t, errors.IsConflict(err), "expected a conflict error, got %v", err)

	removed, err := store.DeleteEntry(loc)
	require.Error(t, err)
	assert.False(t, removed)
	assert.True(t, errors.IsConflict(err))

	// Both rows must survive the refused mutations.
	var count int64
	require.NoError(t, store.DB.Model(&Entry{}).Count(&count).Error)
	assert.EqualValues(t, 2, count)
}

func TestDeleteEntryNotFound(t *testing.T) {
	store := newTestStore(t)

	removed, err := store.DeleteEntry(EntryLocator{ID: 777})
	require.Error(t, err)
	assert.False(t, removed)
	assert.True(t, errors.IsNotFound(err))
}

func TestBulkInsertResolvesNaturalKeys(t *testing.T) {
	store := newTestStore(t)
	companyID := seedCompany(t, store, "Acme", 20)
	categoryID := seedCategory(t, store, "DEV")
	projectID := seedProject(t, store, "WEB", &companyID)

	n, err := store.InsertEntries([]BulkEntry{
		{
			EntryDate:       "2026-08-03",
			StartTime:       "09:00",
			DurationMinutes: 60,
			CategoryCode:    "DEV",
			ProjectCode:     "WEB",
			CompanyKey:      "Acme",
			Billable:        true,
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	var got Entry
	require.NoError(t, store.DB.Where("entry_date = ?", "2026-08-03").First(&got).Error)
	require.NotNil(t, got.CategoryID)
	assert.Equal(t, categoryID, *got.CategoryID)
	require.NotNil(t, got.ProjectID)
	assert.Equal(t, projectID, *got.ProjectID)
	require.NotNil(t, got.CompanyID)
	assert.Equal(t, companyID, *got.CompanyID)
	assert.True(t, got.Billable)
}

func TestBulkInsertUnknownCategoryFallsBackToSentinel(t *testing.T) {
	store := newTestStore(t)

	n, err := store.InsertEntries([]BulkEntry{
		{
			EntryDate:       "2026-08-03",
			StartTime:       "10:00",
			DurationMinutes: 30,
			CategoryCode:    "NO-SUCH-CODE",
			ProjectCode:     "NO-SUCH-PROJECT",
			CompanyKey:      "No Such Company",
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	var sentinel Category
	require.NoError(t, store.DB.Where("code = ?", SentinelCategoryCode).First(&sentinel).Error)

	var got Entry
	require.NoError(t, store.DB.Where("entry_date = ?", "2026-08-03").First(&got).Error)
	require.NotNil(t, got.CategoryID)
	assert.Equal(t, sentinel.ID, *got.CategoryID)
	assert.Nil(t, got.ProjectID)
	assert.Nil(t, got.CompanyID)
}

func TestBulkInsertIsAtomic(t *testing.T) {
	store := newTestStore(t)

	n, err := store.InsertEntries([]BulkEntry{
		{EntryDate: "2026-08-03", StartTime: "09:00", DurationMinutes: 60},
		{EntryDate: "bad-date", StartTime: "10:00", DurationMinutes: 60},
	})
	require.Error(t, err)
	assert.Zero(t, n)
	assert.True(t, errors.IsValidation(err))

	var count int64
	require.NoError(t, store.DB.Model(&Entry{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestBulkInsertEmptyBatch(t *testing.T) {
	store := newTestStore(t)

	n, err := store.InsertEntries(nil)
	require.NoError(t, err)
	assert.Zero(t, n)
}
