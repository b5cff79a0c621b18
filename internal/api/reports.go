// internal/api/reports.go
package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/mvirtanen/timesheet-go/internal/conf"
	"github.com/mvirtanen/timesheet-go/internal/datastore"
	"github.com/mvirtanen/timesheet-go/internal/errors"
)

// initReportRoutes registers the reporting endpoints
func (c *Controller) initReportRoutes() {
	c.Group.GET("/reports", c.GetReport)
	c.Group.GET("/reports/hours", c.GetHoursAndPay)
	c.Group.GET("/reports/categories", c.GetHoursByCategory)
}

// ReportResponse wraps a list of reporting view rows.
type ReportResponse struct {
	Count   int                      `json:"count"`
	Entries []datastore.EntryWithEnd `json:"entries"`
}

// GetReport handles GET /api/v1/reports. With start+end (or period=month)
// it returns the inclusive range, without a date range every entry. Either
// way the result is optionally filtered by company, category and project,
// interpreted as surrogate ids or natural keys depending on the configured
// filter mode.
func (c *Controller) GetReport(ctx echo.Context) error {
	start, end, err := c.dateRange(ctx)
	if err != nil {
		return c.HandleError(ctx, err, "Invalid date range", http.StatusBadRequest)
	}

	filter, err := c.reportFilter(ctx)
	if err != nil {
		return c.HandleError(ctx, err, "Invalid report filter", http.StatusBadRequest)
	}

	if start == "" && end == "" {
		rows, err := c.DS.GetReportAll(filter)
		if err != nil {
			return c.handleStoreError(ctx, err, "Failed to generate report")
		}
		return ctx.JSON(http.StatusOK, &ReportResponse{Count: len(rows), Entries: rows})
	}

	rows, err := c.DS.GetReportBetween(start, end, filter)
	if err != nil {
		return c.handleStoreError(ctx, err, "Failed to generate report")
	}
	return ctx.JSON(http.StatusOK, &ReportResponse{Count: len(rows), Entries: rows})
}

// GetHoursAndPay handles GET /api/v1/reports/hours. A company is required
// because pay is computed from the company's hourly rate.
func (c *Controller) GetHoursAndPay(ctx echo.Context) error {
	start, end, err := c.dateRange(ctx)
	if err != nil {
		return c.HandleError(ctx, err, "Invalid date range", http.StatusBadRequest)
	}
	if start == "" || end == "" {
		return c.HandleError(ctx, nil, "start and end are required", http.StatusBadRequest)
	}

	companyID, err := c.resolveFilterID(ctx.QueryParam("company"), "company", c.DS.RefreshCompanies)
	if err != nil {
		return c.handleStoreError(ctx, err, "Invalid company filter")
	}
	if companyID == nil {
		return c.HandleError(ctx, nil, "company is required", http.StatusBadRequest)
	}

	categoryID, err := c.resolveFilterID(ctx.QueryParam("category"), "category", c.DS.RefreshCategories)
	if err != nil {
		return c.handleStoreError(ctx, err, "Invalid category filter")
	}
	projectID, err := c.resolveFilterID(ctx.QueryParam("project"), "project", c.DS.RefreshProjects)
	if err != nil {
		return c.handleStoreError(ctx, err, "Invalid project filter")
	}

	hp, err := c.DS.GetHoursAndPay(start, end, *companyID, categoryID, projectID)
	if err != nil {
		return c.handleStoreError(ctx, err, "Failed to compute hours and pay")
	}
	return ctx.JSON(http.StatusOK, hp)
}

// GetHoursByCategory handles GET /api/v1/reports/categories
func (c *Controller) GetHoursByCategory(ctx echo.Context) error {
	start, end, err := c.dateRange(ctx)
	if err != nil {
		return c.HandleError(ctx, err, "Invalid date range", http.StatusBadRequest)
	}
	if start == "" || end == "" {
		return c.HandleError(ctx, nil, "start and end are required", http.StatusBadRequest)
	}

	rows, err := c.DS.GetHoursByCategory(start, end)
	if err != nil {
		return c.handleStoreError(ctx, err, "Failed to compute category hours")
	}
	return ctx.JSON(http.StatusOK, rows)
}

// dateRange extracts the start/end query parameters. period=month expands
// to the first and last day of the current month.
func (c *Controller) dateRange(ctx echo.Context) (start, end string, err error) {
	if ctx.QueryParam("period") == "month" {
		now := time.Now()
		first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		last := first.AddDate(0, 1, -1)
		return first.Format("2006-01-02"), last.Format("2006-01-02"), nil
	}

	start = ctx.QueryParam("start")
	end = ctx.QueryParam("end")
	if (start == "") != (end == "") {
		return "", "", errors.Newf("start and end must be supplied together").
			Component("api").
			Category(errors.CategoryValidation).
			Build()
	}
	return start, end, nil
}

// reportFilter builds a ReportFilter from the company/category/project
// query parameters, honoring the configured filter mode.
func (c *Controller) reportFilter(ctx echo.Context) (*datastore.ReportFilter, error) {
	company := ctx.QueryParam("company")
	category := ctx.QueryParam("category")
	project := ctx.QueryParam("project")
	if company == "" && category == "" && project == "" {
		return nil, nil
	}

	filter := &datastore.ReportFilter{}
	if c.Settings.Reports.FilterMode == conf.FilterModeNatural {
		filter.CompanyName = company
		filter.CategoryCode = category
		filter.ProjectCode = project
		return filter, nil
	}

	var err error
	if filter.CompanyID, err = parseOptionalID(company, "company"); err != nil {
		return nil, err
	}
	if filter.CategoryID, err = parseOptionalID(category, "category"); err != nil {
		return nil, err
	}
	if filter.ProjectID, err = parseOptionalID(project, "project"); err != nil {
		return nil, err
	}
	return filter, nil
}

// resolveFilterID turns a filter parameter into a surrogate id. In id mode
// the value is parsed as a number; in natural mode it is resolved through
// the given lookup refresher.
func (c *Controller) resolveFilterID(value, name string, refresh func() (map[string]uint, error)) (*uint, error) {
	if value == "" {
		return nil, nil
	}

	if c.Settings.Reports.FilterMode != conf.FilterModeNatural {
		return parseOptionalID(value, name)
	}

	lookup, err := refresh()
	if err != nil {
		return nil, err
	}
	id, ok := lookup[value]
	if !ok {
		return nil, errors.Newf("unknown %s %q", name, value).
			Component("api").
			Category(errors.CategoryNotFound).
			Build()
	}
	return &id, nil
}

func parseOptionalID(value, name string) (*uint, error) {
	if value == "" {
		return nil, nil
	}
	parsed, err := strconv.ParseUint(value, 10, 32)
	if err != nil {
		return nil, errors.Newf("invalid %s id %q", name, value).
			Component("api").
			Category(errors.CategoryValidation).
			Build()
	}
	id := uint(parsed)
	return &id, nil
}
