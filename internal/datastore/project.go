// project.go: reference-data repository for projects.
package datastore

import (
	"github.com/mvirtanen/timesheet-go/internal/errors"
)

var projectColumns = []string{"code", "name", "due_date", "company_id", "description"}

// AddProject inserts a new project and returns its id. A duplicate code
// reports a conflict; a CompanyID pointing nowhere is refused by the store
// and also reports a conflict.
func (ds *DataStore) AddProject(project *Project) (uint, error) {
	if project.Code == "" {
		return 0, validationError("code is required", "code", project.Code)
	}
	if project.DueDate != nil {
		if err := validateDate(*project.DueDate, "due_date"); err != nil {
			return 0, err
		}
	}

	err := withWriteRetry(func() error {
		return ds.DB.Create(project).Error
	})
	if err != nil {
		if isConstraintViolation(err) {
			return 0, conflictError(err, "add_project", "duplicate_code_or_missing_company")
		}
		return 0, dbError(err, "add_project", errors.PriorityMedium, "code", project.Code)
	}

	ds.invalidateLookups()
	return project.ID, nil
}

// RemoveProject deletes a project by id or code. A project still
// referenced by entries reports a conflict; true iff removed.
func (ds *DataStore) RemoveProject(loc Locator) (bool, error) {
	if err := loc.validate("project"); err != nil {
		return false, err
	}

	var rows int64
	err := withWriteRetry(func() error {
		res := loc.apply(ds.DB, "code").Delete(&Project{})
		rows = res.RowsAffected
		return res.Error
	})
	if err != nil {
		if isConstraintViolation(err) {
			return false, conflictError(err, "remove_project", "referenced")
		}
		return false, dbError(err, "remove_project", errors.PriorityMedium)
	}
	if rows == 0 {
		return false, notFoundError("project", loc.describe())
	}

	ds.invalidateLookups()
	return true, nil
}

// UpdateProject applies a partial patch (code, name, due_date, company_id,
// description) to the project addressed by loc. True iff a row was
// modified.
func (ds *DataStore) UpdateProject(loc Locator, fields map[string]any) (bool, error) {
	if err := loc.validate("project"); err != nil {
		return false, err
	}

	patch := filterAllowedFields(fields, projectColumns)
	if len(patch) == 0 {
		return false, nil
	}
	if v, ok := patch["due_date"]; ok && v != nil {
		s, isString := v.(string)
		if !isString {
			return false, validationError("due_date must be a string", "due_date", v)
		}
		if err := validateDate(s, "due_date"); err != nil {
			return false, err
		}
	}

	var rows int64
	err := withWriteRetry(func() error {
		res := loc.apply(ds.DB.Model(&Project{}), "code").Updates(patch)
		rows = res.RowsAffected
		return res.Error
	})
	if err != nil {
		if isConstraintViolation(err) {
			return false, conflictError(err, "update_project", "duplicate_code_or_missing_company")
		}
		return false, dbError(err, "update_project", errors.PriorityMedium)
	}
	if rows == 0 {
		return false, notFoundError("project", loc.describe())
	}

	ds.invalidateLookups()
	return true, nil
}

// GetProjects returns projects left-joined with their owning company,
// ordered by project code ascending. When companyName is non-empty only
// that company's projects are returned; company_name is null for projects
// without a company.
func (ds *DataStore) GetProjects(companyName string) ([]ProjectInfo, error) {
	query := ds.DB.Table("rt_project p").
		Select("p.id, p.code, p.name, p.due_date, p.company_id, c.name AS company_name, p.description").
		Joins("LEFT JOIN rt_company c ON p.company_id = c.id").
		Order("p.code ASC")

	if companyName != "" {
		query = query.Where("c.name = ?", companyName)
	}

	var projects []ProjectInfo
	if err := query.Scan(&projects).Error; err != nil {
		return nil, dbError(err, "get_projects", "", "company", companyName)
	}
	return projects, nil
}
