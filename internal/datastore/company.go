// company.go: reference-data repository for companies.
package datastore

import (
	"github.com/mvirtanen/timesheet-go/internal/errors"
)

var companyColumns = []string{"name", "description", "pay_rate"}

// AddCompany inserts a new company and returns its id. A duplicate name
// reports a conflict; PayRate must be non-negative.
func (ds *DataStore) AddCompany(company *Company) (uint, error) {
	if company.Name == "" {
		return 0, validationError("name is required", "name", company.Name)
	}
	if company.PayRate < 0 {
		return 0, validationError("pay_rate must be non-negative", "pay_rate", company.PayRate)
	}

	err := withWriteRetry(func() error {
		return ds.DB.Create(company).Error
	})
	if err != nil {
		if isUniqueViolation(err) {
			return 0, conflictError(err, "add_company", "duplicate_name")
		}
		return 0, dbError(err, "add_company", errors.PriorityMedium, "name", company.Name)
	}

	ds.invalidateLookups()
	return company.ID, nil
}

// RemoveCompany deletes a company by id or name. A company still
// referenced by entries or projects reports a conflict; true iff removed.
func (ds *DataStore) RemoveCompany(loc Locator) (bool, error) {
	if err := loc.validate("company"); err != nil {
		return false, err
	}

	var rows int64
	err := withWriteRetry(func() error {
		res := loc.apply(ds.DB, "name").Delete(&Company{})
		rows = res.RowsAffected
		return res.Error
	})
	if err != nil {
		if isConstraintViolation(err) {
			return false, conflictError(err, "remove_company", "referenced")
		}
		return false, dbError(err, "remove_company", errors.PriorityMedium)
	}
	if rows == 0 {
		return false, notFoundError("company", loc.describe())
	}

	ds.invalidateLookups()
	return true, nil
}

// UpdateCompany applies a partial patch (name, description, pay_rate) to
// the company addressed by loc. True iff a row was modified; an empty or
// all-unrecognized patch is a no-op.
func (ds *DataStore) UpdateCompany(loc Locator, fields map[string]any) (bool, error) {
	if err := loc.validate("company"); err != nil {
		return false, err
	}

	patch := filterAllowedFields(fields, companyColumns)
	if len(patch) == 0 {
		return false, nil
	}
	if v, ok := patch["pay_rate"]; ok {
		rate, isNumber := toFloat(v)
		if !isNumber {
			return false, validationError("pay_rate must be a number", "pay_rate", v)
		}
		if rate < 0 {
			return false, validationError("pay_rate must be non-negative", "pay_rate", rate)
		}
		patch["pay_rate"] = rate
	}

	var rows int64
	err := withWriteRetry(func() error {
		res := loc.apply(ds.DB.Model(&Company{}), "name").Updates(patch)
		rows = res.RowsAffected
		return res.Error
	})
	if err != nil {
		if isUniqueViolation(err) {
			return false, conflictError(err, "update_company", "duplicate_name")
		}
		return false, dbError(err, "update_company", errors.PriorityMedium)
	}
	if rows == 0 {
		return false, notFoundError("company", loc.describe())
	}

	ds.invalidateLookups()
	return true, nil
}

// GetCompanies returns all companies ordered by name ascending.
func (ds *DataStore) GetCompanies() ([]Company, error) {
	var companies []Company
	if err := ds.DB.Order("name ASC").Find(&companies).Error; err != nil {
		return nil, dbError(err, "get_companies", "")
	}
	return companies, nil
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}
