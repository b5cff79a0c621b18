// entry.go: single and bulk entry writes plus the update/delete contract.
package datastore

import (
	"time"

	"gorm.io/gorm"

	"github.com/mvirtanen/timesheet-go/internal/errors"
)

// entryColumns is the set of columns a partial entry patch may touch.
var entryColumns = []string{
	"entry_date", "start_time", "duration_minutes", "description", "notes",
	"category_id", "project_id", "company_id", "billable",
}

// validateEntry rejects an entry before the store is touched.
func validateEntry(entry *Entry) error {
	if entry.EntryDate == "" {
		return validationError("entry_date is required", "entry_date", entry.EntryDate)
	}
	if err := validateDate(entry.EntryDate, "entry_date"); err != nil {
		return err
	}
	if entry.StartTime == "" {
		return validationError("start_time is required", "start_time", entry.StartTime)
	}
	if err := validateTimeOfDay(entry.StartTime, "start_time"); err != nil {
		return err
	}
	if entry.DurationMinutes < 0 {
		return validationError("duration_minutes must be non-negative", "duration_minutes", entry.DurationMinutes)
	}
	return nil
}

// InsertEntry stores a single entry whose foreign-key ids are already
// resolved. Store failures propagate; a refused foreign key reports a
// conflict.
func (ds *DataStore) InsertEntry(entry *Entry) (err error) {
	defer ds.recordOp("insert_entry", "dt_entry", time.Now(), &err)

	if err := validateEntry(entry); err != nil {
		return err
	}

	err = withWriteRetry(func() error {
		return ds.DB.Create(entry).Error
	})
	if err != nil {
		if isConstraintViolation(err) {
			return conflictError(err, "insert_entry", "foreign_key")
		}
		return dbError(err, "insert_entry", errors.PriorityMedium)
	}

	getLogger().Debug("entry inserted",
		"entry_id", entry.ID,
		"entry_date", entry.EntryDate,
		"start_time", entry.StartTime)
	return nil
}

// InsertEntries stores a batch of rows addressed by natural keys. Category
// codes fall back to the sentinel category when unresolvable; project and
// company keys resolve to null instead. The whole batch is one write: any
// failure inserts nothing.
func (ds *DataStore) InsertEntries(rows []BulkEntry) (n int, err error) {
	defer ds.recordOp("insert_entries", "dt_entry", time.Now(), &err)

	if len(rows) == 0 {
		return 0, nil
	}

	entries := make([]Entry, 0, len(rows))
	for i := range rows {
		row := &rows[i]
		entry := Entry{
			EntryDate:       row.EntryDate,
			StartTime:       row.StartTime,
			DurationMinutes: row.DurationMinutes,
			Description:     row.Description,
			Notes:           row.Notes,
			Billable:        row.Billable,
		}
		if err := validateEntry(&entry); err != nil {
			return 0, err
		}
		entries = append(entries, entry)
	}

	if err := ds.ensureLookupsWarm(); err != nil {
		return 0, err
	}
	for i := range entries {
		entries[i].CategoryID = ds.resolveCategoryID(rows[i].CategoryCode)
		entries[i].ProjectID = ds.resolveProjectID(rows[i].ProjectCode)
		entries[i].CompanyID = ds.resolveCompanyID(rows[i].CompanyKey)
	}

	err = withWriteRetry(func() error {
		return ds.DB.Transaction(func(tx *gorm.DB) error {
			return tx.Create(&entries).Error
		})
	})
	if err != nil {
		if isConstraintViolation(err) {
			return 0, conflictError(err, "insert_entries", "foreign_key")
		}
		return 0, dbError(err, "insert_entries", errors.PriorityMedium, "rows", len(rows))
	}

	getLogger().Info("bulk insert completed", "rows", len(entries))
	return len(entries), nil
}

// normalizeEntryFields filters a patch down to recognized entry columns
// and validates/coerces the values that carry invariants.
func normalizeEntryFields(fields map[string]any) (map[string]any, error) {
	patch := filterAllowedFields(fields, entryColumns)

	if v, ok := patch["entry_date"]; ok {
		s, isString := v.(string)
		if !isString {
			return nil, validationError("entry_date must be a string", "entry_date", v)
		}
		if err := validateDate(s, "entry_date"); err != nil {
			return nil, err
		}
	}
	if v, ok := patch["start_time"]; ok {
		s, isString := v.(string)
		if !isString {
			return nil, validationError("start_time must be a string", "start_time", v)
		}
		if err := validateTimeOfDay(s, "start_time"); err != nil {
			return nil, err
		}
	}
	if v, ok := patch["duration_minutes"]; ok {
		minutes, err := coerceInt(v, "duration_minutes")
		if err != nil {
			return nil, err
		}
		if minutes < 0 {
			return nil, validationError("duration_minutes must be non-negative", "duration_minutes", minutes)
		}
		patch["duration_minutes"] = minutes
	}
	if v, ok := patch["billable"]; ok {
		billable, err := coerceBool(v, "billable")
		if err != nil {
			return nil, err
		}
		patch["billable"] = billable
	}

	return patch, nil
}

// coerceInt accepts the integer representations JSON decoding can produce.
func coerceInt(v any, field string) (int, error) {
	switch n := v.(type) {
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case uint:
		return int(n), nil
	case float64:
		if n != float64(int(n)) {
			return 0, validationError("value must be an integer", field, v)
		}
		return int(n), nil
	default:
		return 0, validationError("value must be an integer", field, v)
	}
}

// coerceBool accepts booleans and the 0/1 integers the original wire
// format used for billable.
func coerceBool(v any, field string) (bool, error) {
	switch b := v.(type) {
	case bool:
		return b, nil
	case int:
		return b != 0, nil
	case float64:
		return b != 0, nil
	default:
		return false, validationError("value must be a boolean", field, v)
	}
}

// countEntryMatches reports how many rows a locator addresses. Used to
// refuse composite-locator mutations that would touch several rows.
func countEntryMatches(tx *gorm.DB, loc *EntryLocator) (int64, error) {
	var count int64
	err := loc.apply(tx.Model(&Entry{})).Count(&count).Error
	return count, err
}

// UpdateEntry applies a partial patch to the entry addressed by loc.
// Returns true iff a row was modified. An empty or all-unrecognized patch
// is a no-op returning false without error.
func (ds *DataStore) UpdateEntry(loc EntryLocator, fields map[string]any) (modified bool, err error) {
	defer ds.recordOp("update_entry", "dt_entry", time.Now(), &err)

	if err := loc.validate(); err != nil {
		return false, err
	}

	patch, err := normalizeEntryFields(fields)
	if err != nil {
		return false, err
	}
	if len(patch) == 0 {
		return false, nil
	}

	err = withWriteRetry(func() error {
		return ds.DB.Transaction(func(tx *gorm.DB) error {
			if loc.ID == 0 {
				count, err := countEntryMatches(tx, &loc)
				if err != nil {
					return err
				}
				if count > 1 {
					return conflictError(
						errors.Newf("%d entries share date %s and start time %s", count, loc.EntryDate, loc.StartTime).Build(),
						"update_entry", "ambiguous_locator")
				}
			}
			result := loc.apply(tx.Model(&Entry{})).Updates(patch)
			if result.Error != nil {
				return result.Error
			}
			modified = result.RowsAffected > 0
			return nil
		})
	})
	if err != nil {
		if errors.IsConflict(err) {
			return false, err
		}
		if isConstraintViolation(err) {
			return false, conflictError(err, "update_entry", "foreign_key")
		}
		return false, dbError(err, "update_entry", errors.PriorityMedium)
	}
	if !modified {
		return false, notFoundError("entry", loc.describe())
	}
	return true, nil
}

// DeleteEntry removes the entry addressed by loc. Returns true iff a row
// was removed.
func (ds *DataStore) DeleteEntry(loc EntryLocator) (removed bool, err error) {
	defer ds.recordOp("delete_entry", "dt_entry", time.Now(), &err)

	if err := loc.validate(); err != nil {
		return false, err
	}

	err = withWriteRetry(func() error {
		return ds.DB.Transaction(func(tx *gorm.DB) error {
			if loc.ID == 0 {
				count, err := countEntryMatches(tx, &loc)
				if err != nil {
					return err
				}
				if count > 1 {
					return conflictError(
						errors.Newf("%d entries share date %s and start time %s", count, loc.EntryDate, loc.StartTime).Build(),
						"delete_entry", "ambiguous_locator")
				}
			}
			result := loc.apply(tx).Delete(&Entry{})
			if result.Error != nil {
				return result.Error
			}
			removed = result.RowsAffected > 0
			return nil
		})
	})
	if err != nil {
		if errors.IsConflict(err) {
			return false, err
		}
		return false, dbError(err, "delete_entry", errors.PriorityMedium)
	}
	if !removed {
		return false, notFoundError("entry", loc.describe())
	}
	return true, nil
}
