// internal/api/companies.go
package api

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/mvirtanen/timesheet-go/internal/datastore"
)

// initCompanyRoutes registers the company reference-data endpoints
func (c *Controller) initCompanyRoutes() {
	c.Group.GET("/companies", c.GetCompanies)
	c.Group.POST("/companies", c.CreateCompany)
	c.Group.PATCH("/companies/:key", c.UpdateCompany)
	c.Group.DELETE("/companies/:key", c.DeleteCompany)
}

// GetCompanies handles GET /api/v1/companies
func (c *Controller) GetCompanies(ctx echo.Context) error {
	companies, err := c.DS.GetCompanies()
	if err != nil {
		return c.handleStoreError(ctx, err, "Failed to list companies")
	}
	return ctx.JSON(http.StatusOK, map[string]any{
		"count":     len(companies),
		"companies": companies,
	})
}

// CreateCompany handles POST /api/v1/companies
func (c *Controller) CreateCompany(ctx echo.Context) error {
	var company datastore.Company
	if err := ctx.Bind(&company); err != nil {
		return c.HandleError(ctx, err, "Invalid company payload", http.StatusBadRequest)
	}

	id, err := c.DS.AddCompany(&company)
	if err != nil {
		return c.handleStoreError(ctx, err, "Failed to add company")
	}

	company.ID = id
	return ctx.JSON(http.StatusCreated, company)
}

// UpdateCompany handles PATCH /api/v1/companies/:key where :key is the
// numeric id or the company name.
func (c *Controller) UpdateCompany(ctx echo.Context) error {
	fields := map[string]any{}
	if err := ctx.Bind(&fields); err != nil {
		return c.HandleError(ctx, err, "Invalid update payload", http.StatusBadRequest)
	}

	modified, err := c.DS.UpdateCompany(locatorFromParam(ctx), fields)
	if err != nil {
		return c.handleStoreError(ctx, err, "Failed to update company")
	}
	return ctx.JSON(http.StatusOK, map[string]bool{"updated": modified})
}

// DeleteCompany handles DELETE /api/v1/companies/:key. The delete is
// rejected with a conflict when entries or projects still reference the
// company.
func (c *Controller) DeleteCompany(ctx echo.Context) error {
	removed, err := c.DS.RemoveCompany(locatorFromParam(ctx))
	if err != nil {
		return c.handleStoreError(ctx, err, "Failed to delete company")
	}
	return ctx.JSON(http.StatusOK, map[string]bool{"deleted": removed})
}

// locatorFromParam builds a Locator from the :key path parameter. Numeric
// values address by surrogate id, anything else by natural key.
func locatorFromParam(ctx echo.Context) datastore.Locator {
	key := ctx.Param("key")
	if id, err := strconv.ParseUint(key, 10, 32); err == nil {
		return datastore.Locator{ID: uint(id)}
	}
	return datastore.Locator{Key: key}
}
