// internal/api/projects.go
package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/mvirtanen/timesheet-go/internal/datastore"
)

// initProjectRoutes registers the project reference-data endpoints
func (c *Controller) initProjectRoutes() {
	c.Group.GET("/projects", c.GetProjects)
	c.Group.POST("/projects", c.CreateProject)
	c.Group.PATCH("/projects/:key", c.UpdateProject)
	c.Group.DELETE("/projects/:key", c.DeleteProject)
}

// GetProjects handles GET /api/v1/projects. An optional company query
// parameter limits the listing to projects owned by that company name.
func (c *Controller) GetProjects(ctx echo.Context) error {
	projects, err := c.DS.GetProjects(ctx.QueryParam("company"))
	if err != nil {
		return c.handleStoreError(ctx, err, "Failed to list projects")
	}
	return ctx.JSON(http.StatusOK, map[string]any{
		"count":    len(projects),
		"projects": projects,
	})
}

// CreateProject handles POST /api/v1/projects
func (c *Controller) CreateProject(ctx echo.Context) error {
	var project datastore.Project
	if err := ctx.Bind(&project); err != nil {
		return c.HandleError(ctx, err, "Invalid project payload", http.StatusBadRequest)
	}

	id, err := c.DS.AddProject(&project)
	if err != nil {
		return c.handleStoreError(ctx, err, "Failed to add project")
	}

	project.ID = id
	return ctx.JSON(http.StatusCreated, project)
}

// UpdateProject handles PATCH /api/v1/projects/:key where :key is the
// numeric id or the project code.
func (c *Controller) UpdateProject(ctx echo.Context) error {
	fields := map[string]any{}
	if err := ctx.Bind(&fields); err != nil {
		return c.HandleError(ctx, err, "Invalid update payload", http.StatusBadRequest)
	}

	modified, err := c.DS.UpdateProject(locatorFromParam(ctx), fields)
	if err != nil {
		return c.handleStoreError(ctx, err, "Failed to update project")
	}
	return ctx.JSON(http.StatusOK, map[string]bool{"updated": modified})
}

// DeleteProject handles DELETE /api/v1/projects/:key
func (c *Controller) DeleteProject(ctx echo.Context) error {
	removed, err := c.DS.RemoveProject(locatorFromParam(ctx))
	if err != nil {
		return c.handleStoreError(ctx, err, "Failed to delete project")
	}
	return ctx.JSON(http.StatusOK, map[string]bool{"deleted": removed})
}
