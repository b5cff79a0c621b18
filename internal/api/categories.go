// internal/api/categories.go
package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/mvirtanen/timesheet-go/internal/datastore"
)

// initCategoryRoutes registers the category reference-data endpoints
func (c *Controller) initCategoryRoutes() {
	c.Group.GET("/categories", c.GetCategories)
	c.Group.POST("/categories", c.CreateCategory)
	c.Group.PATCH("/categories/:key", c.UpdateCategory)
	c.Group.DELETE("/categories/:key", c.DeleteCategory)
}

// GetCategories handles GET /api/v1/categories
func (c *Controller) GetCategories(ctx echo.Context) error {
	categories, err := c.DS.GetCategories()
	if err != nil {
		return c.handleStoreError(ctx, err, "Failed to list categories")
	}
	return ctx.JSON(http.StatusOK, map[string]any{
		"count":      len(categories),
		"categories": categories,
	})
}

// CreateCategory handles POST /api/v1/categories
func (c *Controller) CreateCategory(ctx echo.Context) error {
	var category datastore.Category
	if err := ctx.Bind(&category); err != nil {
		return c.HandleError(ctx, err, "Invalid category payload", http.StatusBadRequest)
	}

	id, err := c.DS.AddCategory(&category)
	if err != nil {
		return c.handleStoreError(ctx, err, "Failed to add category")
	}

	category.ID = id
	return ctx.JSON(http.StatusCreated, category)
}

// UpdateCategory handles PATCH /api/v1/categories/:key where :key is the
// numeric id or the category code.
func (c *Controller) UpdateCategory(ctx echo.Context) error {
	fields := map[string]any{}
	if err := ctx.Bind(&fields); err != nil {
		return c.HandleError(ctx, err, "Invalid update payload", http.StatusBadRequest)
	}

	modified, err := c.DS.UpdateCategory(locatorFromParam(ctx), fields)
	if err != nil {
		return c.handleStoreError(ctx, err, "Failed to update category")
	}
	return ctx.JSON(http.StatusOK, map[string]bool{"updated": modified})
}

// DeleteCategory handles DELETE /api/v1/categories/:key
func (c *Controller) DeleteCategory(ctx echo.Context) error {
	removed, err := c.DS.RemoveCategory(locatorFromParam(ctx))
	if err != nil {
		return c.handleStoreError(ctx, err, "Failed to delete category")
	}
	return ctx.JSON(http.StatusOK, map[string]bool{"deleted": removed})
}
