package datastore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvirtanen/timesheet-go/internal/errors"
)

func TestReportBetweenIsInclusiveAndOrdered(t *testing.T) {
	store := newTestStore(t)
	seedEntry(t, store, "2026-08-31", "09:00", 60) // outside
	seedEntry(t, store, "2026-08-15", "14:00", 30)
	seedEntry(t, store, "2026-08-15", "09:00", 30)
	seedEntry(t, store, "2026-08-01", "10:00", 60) // start boundary
	seedEntry(t, store, "2026-08-20", "08:00", 45) // end boundary
	seedEntry(t, store, "2026-07-31", "09:00", 60) // outside

	rows, err := store.GetReportBetween("2026-08-01", "2026-08-20", nil)
	require.NoError(t, err)
	require.Len(t, rows, 4)

	assert.Equal(t, "2026-08-01", rows[0].EntryDate)
	assert.Equal(t, "2026-08-15", rows[1].EntryDate)
	assert.Equal(t, "09:00", rows[1].StartTime)
	assert.Equal(t, "2026-08-15", rows[2].EntryDate)
	assert.Equal(t, "14:00", rows[2].StartTime)
	assert.Equal(t, "2026-08-20", rows[3].EntryDate)
}

func TestReportBetweenRejectsMalformedDates(t *testing.T) {
	store := newTestStore(t)

	_, err := store.GetReportBetween("yesterday", "2026-08-20", nil)
	require.Error(t, err)
	assert.True(t, errors.IsValidation(err))
}

func TestReportEndTimeWrapsAcrossMidnight(t *testing.T) {
	store := newTestStore(t)
	seedEntry(t, store, "2026-08-01", "23:30", 60)

	rows, err := store.GetReportBetween("2026-08-01", "2026-08-01", nil)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	// SQLite's time() wraps modulo 24h; the entry keeps its date.
	assert.Equal(t, "00:30:00", rows[0].EndTime)
	assert.Equal(t, "2026-08-01", rows[0].EntryDate)
}

func TestReportCarriesDenormalizedLabels(t *testing.T) {
	store := newTestStore(t)
	companyID := seedCompany(t, store, "Acme", 20)
	categoryID := seedCategory(t, store, "DEV")
	projectID := seedProject(t, store, "WEB", &companyID)

	seedEntry(t, store, "2026-08-01", "09:00", 60, func(e *Entry) {
		e.CategoryID = &categoryID
		e.ProjectID = &projectID
		e.CompanyID = &companyID
	})
	seedEntry(t, store, "2026-08-01", "11:00", 30) // no references at all

	rows, err := store.GetReportBetween("2026-08-01", "2026-08-01", nil)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	require.NotNil(t, rows[0].CategoryCode)
	assert.Equal(t, "DEV", *rows[0].CategoryCode)
	require.NotNil(t, rows[0].ProjectCode)
	assert.Equal(t, "WEB", *rows[0].ProjectCode)
	require.NotNil(t, rows[0].CompanyName)
	assert.Equal(t, "Acme", *rows[0].CompanyName)

	assert.Nil(t, rows[1].CategoryCode)
	assert.Nil(t, rows[1].ProjectCode)
	assert.Nil(t, rows[1].CompanyName)
}

func TestReportFilterByIDAndByNaturalKeyAgree(t *testing.T) {
	store := newTestStore(t)
	acme := seedCompany(t, store, "Acme", 20)
	globex := seedCompany(t, store, "Globex", 35)
	dev := seedCategory(t, store, "DEV")

	seedEntry(t, store, "2026-08-01", "09:00", 60, func(e *Entry) {
		e.CompanyID = &acme
		e.CategoryID = &dev
	})
	seedEntry(t, store, "2026-08-02", "09:00", 60, func(e *Entry) {
		e.CompanyID = &globex
	})

	byID, err := store.GetReportBetween("2026-08-01", "2026-08-31", &ReportFilter{CompanyID: &acme})
	require.NoError(t, err)
	byName, err := store.GetReportBetween("2026-08-01", "2026-08-31", &ReportFilter{CompanyName: "Acme"})
	require.NoError(t, err)

	require.Len(t, byID, 1)
	assert.Equal(t, byID, byName)
	assert.Equal(t, "2026-08-01", byID[0].EntryDate)

	// Filters on different dimensions combine with AND.
	both, err := store.GetReportBetween("2026-08-01", "2026-08-31",
		&ReportFilter{CompanyName: "Acme", CategoryCode: "DEV"})
	require.NoError(t, err)
	require.Len(t, both, 1)

	none, err := store.GetReportBetween("2026-08-01", "2026-08-31",
		&ReportFilter{CompanyName: "Globex", CategoryCode: "DEV"})
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestReportFilterIDWinsOverKey(t *testing.T) {
	store := newTestStore(t)
	acme := seedCompany(t, store, "Acme", 20)
	globex := seedCompany(t, store, "Globex", 35)

	seedEntry(t, store, "2026-08-01", "09:00", 60, func(e *Entry) { e.CompanyID = &acme })
	seedEntry(t, store, "2026-08-02", "09:00", 60, func(e *Entry) { e.CompanyID = &globex })

	rows, err := store.GetReportBetween("2026-08-01", "2026-08-31",
		&ReportFilter{CompanyID: &acme, CompanyName: "Globex"})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "2026-08-01", rows[0].EntryDate)
}

func TestGetReportAll(t *testing.T) {
	store := newTestStore(t)
	seedEntry(t, store, "2026-08-02", "09:00", 60)
	seedEntry(t, store, "2026-08-01", "09:00", 60)

	rows, err := store.GetReportAll(nil)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "2026-08-01", rows[0].EntryDate)
	assert.Equal(t, "2026-08-02", rows[1].EntryDate)
}

func TestGetReportAllHonorsFilter(t *testing.T) {
	store := newTestStore(t)
	acme := seedCompany(t, store, "Acme", 20)
	globex := seedCompany(t, store, "Globex", 35)
	seedEntry(t, store, "2026-08-01", "09:00", 60, func(e *Entry) { e.CompanyID = &acme })
	seedEntry(t, store, "2026-08-02", "09:00", 60, func(e *Entry) { e.CompanyID = &globex })

	rows, err := store.GetReportAll(&ReportFilter{CompanyName: "Acme"})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "2026-08-01", rows[0].EntryDate)
}

func TestHoursAndPay(t *testing.T) {
	store := newTestStore(t)
	acme := seedCompany(t, store, "Acme", 20)
	dev := seedCategory(t, store, "DEV")

	seedEntry(t, store, "2026-08-03", "09:00", 120, func(e *Entry) {
		e.CompanyID = &acme
		e.CategoryID = &dev
	})

	hp, err := store.GetHoursAndPay("2026-08-01", "2026-08-31", acme, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 2.0, hp.Hours)
	assert.Equal(t, 40.0, hp.Pay)
}

func TestHoursAndPayNarrowedByCategoryAndProject(t *testing.T) {
	store := newTestStore(t)
	acme := seedCompany(t, store, "Acme", 10)
	dev := seedCategory(t, store, "DEV")
	meet := seedCategory(t, store, "MEET")
	web := seedProject(t, store, "WEB", &acme)

	seedEntry(t, store, "2026-08-03", "09:00", 60, func(e *Entry) {
		e.CompanyID = &acme
		e.CategoryID = &dev
		e.ProjectID = &web
	})
	seedEntry(t, store, "2026-08-03", "13:00", 30, func(e *Entry) {
		e.CompanyID = &acme
		e.CategoryID = &meet
	})

	hp, err := store.GetHoursAndPay("2026-08-01", "2026-08-31", acme, &dev, nil)
	require.NoError(t, err)
	assert.Equal(t, 1.0, hp.Hours)
	assert.Equal(t, 10.0, hp.Pay)

	hp, err = store.GetHoursAndPay("2026-08-01", "2026-08-31", acme, nil, &web)
	require.NoError(t, err)
	assert.Equal(t, 1.0, hp.Hours)
}

func TestHoursAndPayNoMatchesReturnsZeros(t *testing.T) {
	store := newTestStore(t)
	acme := seedCompany(t, store, "Acme", 20)

	hp, err := store.GetHoursAndPay("2026-08-01", "2026-08-31", acme, nil, nil)
	require.NoError(t, err)
	assert.Zero(t, hp.Hours)
	assert.Zero(t, hp.Pay)
}

func TestHoursAndPayRequiresCompany(t *testing.T) {
	store := newTestStore(t)

	_, err := store.GetHoursAndPay("2026-08-01", "2026-08-31", 0, nil, nil)
	require.Error(t, err)
	assert.True(t, errors.IsValidation(err))
}

func TestHoursByCategory(t *testing.T) {
	store := newTestStore(t)
	dev := seedCategory(t, store, "DEV")
	meet := seedCategory(t, store, "MEET")

	seedEntry(t, store, "2026-08-03", "09:00", 90, func(e *Entry) { e.CategoryID = &dev })
	seedEntry(t, store, "2026-08-04", "09:00", 30, func(e *Entry) { e.CategoryID = &dev })
	seedEntry(t, store, "2026-08-04", "13:00", 60, func(e *Entry) { e.CategoryID = &meet })
	seedEntry(t, store, "2026-08-05", "09:00", 60) // uncategorized, excluded

	hours, err := store.GetHoursByCategory("2026-08-01", "2026-08-31")
	require.NoError(t, err)
	require.Len(t, hours, 2)
	assert.Equal(t, CategoryHours{CategoryCode: "DEV", Hours: 2.0}, hours[0])
	assert.Equal(t, CategoryHours{CategoryCode: "MEET", Hours: 1.0}, hours[1])
}
