// category.go: reference-data repository for categories.
package datastore

import (
	"github.com/mvirtanen/timesheet-go/internal/errors"
)

var categoryColumns = []string{"code", "description"}

// AddCategory inserts a new category and returns its id. A duplicate code
// reports a conflict.
func (ds *DataStore) AddCategory(category *Category) (uint, error) {
	if category.Code == "" {
		return 0, validationError("code is required", "code", category.Code)
	}

	err := withWriteRetry(func() error {
		return ds.DB.Create(category).Error
	})
	if err != nil {
		if isUniqueViolation(err) {
			return 0, conflictError(err, "add_category", "duplicate_code")
		}
		return 0, dbError(err, "add_category", errors.PriorityMedium, "code", category.Code)
	}

	ds.invalidateLookups()
	return category.ID, nil
}

// RemoveCategory deletes a category by id or code. A category still
// referenced by entries reports a conflict; true iff removed.
func (ds *DataStore) RemoveCategory(loc Locator) (bool, error) {
	if err := loc.validate("category"); err != nil {
		return false, err
	}

	var rows int64
	err := withWriteRetry(func() error {
		res := loc.apply(ds.DB, "code").Delete(&Category{})
		rows = res.RowsAffected
		return res.Error
	})
	if err != nil {
		if isConstraintViolation(err) {
			return false, conflictError(err, "remove_category", "referenced")
		}
		return false, dbError(err, "remove_category", errors.PriorityMedium)
	}
	if rows == 0 {
		return false, notFoundError("category", loc.describe())
	}

	ds.invalidateLookups()
	return true, nil
}

// UpdateCategory applies a partial patch (code, description) to the
// category addressed by loc. True iff a row was modified.
func (ds *DataStore) UpdateCategory(loc Locator, fields map[string]any) (bool, error) {
	if err := loc.validate("category"); err != nil {
		return false, err
	}

	patch := filterAllowedFields(fields, categoryColumns)
	if len(patch) == 0 {
		return false, nil
	}

	var rows int64
	err := withWriteRetry(func() error {
		res := loc.apply(ds.DB.Model(&Category{}), "code").Updates(patch)
		rows = res.RowsAffected
		return res.Error
	})
	if err != nil {
		if isUniqueViolation(err) {
			return false, conflictError(err, "update_category", "duplicate_code")
		}
		return false, dbError(err, "update_category", errors.PriorityMedium)
	}
	if rows == 0 {
		return false, notFoundError("category", loc.describe())
	}

	ds.invalidateLookups()
	return true, nil
}

// GetCategories returns all categories ordered by code ascending.
func (ds *DataStore) GetCategories() ([]Category, error) {
	var categories []Category
	if err := ds.DB.Order("code ASC").Find(&categories).Error; err != nil {
		return nil, dbError(err, "get_categories", "")
	}
	return categories, nil
}
