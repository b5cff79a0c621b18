// internal/api/entries.go
package api

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/mvirtanen/timesheet-go/internal/datastore"
	"github.com/mvirtanen/timesheet-go/internal/errors"
)

// initEntryRoutes registers the timesheet entry endpoints
func (c *Controller) initEntryRoutes() {
	c.Group.POST("/entries", c.CreateEntry)
	c.Group.POST("/entries/bulk", c.CreateEntriesBulk)
	c.Group.PATCH("/entries/:id", c.UpdateEntryByID)
	c.Group.PATCH("/entries", c.UpdateEntryByTime)
	c.Group.DELETE("/entries/:id", c.DeleteEntryByID)
	c.Group.DELETE("/entries", c.DeleteEntryByTime)
}

// CreateEntry handles POST /api/v1/entries
func (c *Controller) CreateEntry(ctx echo.Context) error {
	var entry datastore.Entry
	if err := ctx.Bind(&entry); err != nil {
		return c.HandleError(ctx, err, "Invalid entry payload", http.StatusBadRequest)
	}

	if err := c.DS.InsertEntry(&entry); err != nil {
		return c.handleStoreError(ctx, err, "Failed to insert entry")
	}

	c.Debug("entry created: id=%d date=%s", entry.ID, entry.EntryDate)
	return ctx.JSON(http.StatusCreated, entry)
}

// CreateEntriesBulk handles POST /api/v1/entries/bulk. Rows carry natural
// keys (category code, project code, company name) which are resolved
// against the lookup cache; the whole batch is inserted in one transaction.
func (c *Controller) CreateEntriesBulk(ctx echo.Context) error {
	var rows []datastore.BulkEntry
	if err := ctx.Bind(&rows); err != nil {
		return c.HandleError(ctx, err, "Invalid bulk payload", http.StatusBadRequest)
	}
	if len(rows) == 0 {
		return c.HandleError(ctx, nil, "Bulk payload is empty", http.StatusBadRequest)
	}

	inserted, err := c.DS.InsertEntries(rows)
	if err != nil {
		return c.handleStoreError(ctx, err, "Failed to insert entries")
	}

	return ctx.JSON(http.StatusCreated, map[string]int{"inserted": inserted})
}

// UpdateEntryByID handles PATCH /api/v1/entries/:id
func (c *Controller) UpdateEntryByID(ctx echo.Context) error {
	loc, err := entryLocatorFromID(ctx)
	if err != nil {
		return c.HandleError(ctx, err, "Invalid entry id", http.StatusBadRequest)
	}
	return c.updateEntry(ctx, loc)
}

// UpdateEntryByTime handles PATCH /api/v1/entries addressed by the
// entry_date + start_time query parameters.
func (c *Controller) UpdateEntryByTime(ctx echo.Context) error {
	loc, err := entryLocatorFromTime(ctx)
	if err != nil {
		return c.HandleError(ctx, err, "Missing entry locator", http.StatusBadRequest)
	}
	return c.updateEntry(ctx, loc)
}

func (c *Controller) updateEntry(ctx echo.Context, loc datastore.EntryLocator) error {
	fields := map[string]any{}
	if err := ctx.Bind(&fields); err != nil {
		return c.HandleError(ctx, err, "Invalid update payload", http.StatusBadRequest)
	}

	modified, err := c.DS.UpdateEntry(loc, fields)
	if err != nil {
		return c.handleStoreError(ctx, err, "Failed to update entry")
	}

	return ctx.JSON(http.StatusOK, map[string]bool{"updated": modified})
}

// DeleteEntryByID handles DELETE /api/v1/entries/:id
func (c *Controller) DeleteEntryByID(ctx echo.Context) error {
	loc, err := entryLocatorFromID(ctx)
	if err != nil {
		return c.HandleError(ctx, err, "Invalid entry id", http.StatusBadRequest)
	}
	return c.deleteEntry(ctx, loc)
}

// DeleteEntryByTime handles DELETE /api/v1/entries addressed by the
// entry_date + start_time query parameters.
func (c *Controller) DeleteEntryByTime(ctx echo.Context) error {
	loc, err := entryLocatorFromTime(ctx)
	if err != nil {
		return c.HandleError(ctx, err, "Missing entry locator", http.StatusBadRequest)
	}
	return c.deleteEntry(ctx, loc)
}

func (c *Controller) deleteEntry(ctx echo.Context, loc datastore.EntryLocator) error {
	removed, err := c.DS.DeleteEntry(loc)
	if err != nil {
		return c.handleStoreError(ctx, err, "Failed to delete entry")
	}

	return ctx.JSON(http.StatusOK, map[string]bool{"deleted": removed})
}

func entryLocatorFromID(ctx echo.Context) (datastore.EntryLocator, error) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		return datastore.EntryLocator{}, errors.Newf("invalid entry id %q", ctx.Param("id")).
			Component("api").
			Category(errors.CategoryValidation).
			Build()
	}
	return datastore.EntryLocator{ID: uint(id)}, nil
}

func entryLocatorFromTime(ctx echo.Context) (datastore.EntryLocator, error) {
	date := ctx.QueryParam("entry_date")
	start := ctx.QueryParam("start_time")
	if date == "" || start == "" {
		return datastore.EntryLocator{}, errors.Newf("entry_date and start_time are required").
			Component("api").
			Category(errors.CategoryValidation).
			Build()
	}
	return datastore.EntryLocator{EntryDate: date, StartTime: start}, nil
}
