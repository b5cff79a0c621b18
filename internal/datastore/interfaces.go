// interfaces.go: this code defines the interface for the database operations
package datastore

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/mvirtanen/timesheet-go/internal/conf"
	"github.com/mvirtanen/timesheet-go/internal/observability/metrics"
)

// Interface abstracts the underlying database implementation and defines
// the operations of the timesheet store.
type Interface interface {
	Open() error
	Close() error

	// Entry repository
	InsertEntry(entry *Entry) error
	InsertEntries(rows []BulkEntry) (int, error)
	UpdateEntry(loc EntryLocator, fields map[string]any) (bool, error)
	DeleteEntry(loc EntryLocator) (bool, error)

	// Reference data: companies
	AddCompany(company *Company) (uint, error)
	RemoveCompany(loc Locator) (bool, error)
	UpdateCompany(loc Locator, fields map[string]any) (bool, error)
	GetCompanies() ([]Company, error)

	// Reference data: categories
	AddCategory(category *Category) (uint, error)
	RemoveCategory(loc Locator) (bool, error)
	UpdateCategory(loc Locator, fields map[string]any) (bool, error)
	GetCategories() ([]Category, error)

	// Reference data: projects
	AddProject(project *Project) (uint, error)
	RemoveProject(loc Locator) (bool, error)
	UpdateProject(loc Locator, fields map[string]any) (bool, error)
	GetProjects(companyName string) ([]ProjectInfo, error)

	// Lookup cache
	RefreshCategories() (map[string]uint, error)
	RefreshProjects() (map[string]uint, error)
	RefreshCompanies() (map[string]uint, error)

	// Reporting engine
	GetReportBetween(start, end string, filter *ReportFilter) ([]EntryWithEnd, error)
	GetReportAll(filter *ReportFilter) ([]EntryWithEnd, error)
	GetHoursAndPay(start, end string, companyID uint, categoryID, projectID *uint) (HoursAndPay, error)
	GetHoursByCategory(start, end string) ([]CategoryHours, error)
}

// DataStore implements Interface using a GORM database.
type DataStore struct {
	DB      *gorm.DB
	lookup  *lookupCache
	metrics *metrics.DatastoreMetrics
}

// New creates a new datastore instance based on the provided configuration.
func New(settings *conf.Settings) Interface {
	switch {
	case settings.Output.SQLite.Enabled:
		return &SQLiteStore{
			Settings: settings,
		}
	default:
		return nil
	}
}

// Locator identifies a reference-data row either by surrogate id or by its
// natural key (company name, category code, project code). Exactly one of
// the two should be set; ID wins when both are.
type Locator struct {
	ID  uint
	Key string
}

func (l *Locator) validate(entity string) error {
	if l.ID == 0 && l.Key == "" {
		return validationError("no identification criteria supplied", "locator", entity)
	}
	return nil
}

// apply narrows the query to the located row.
func (l *Locator) apply(tx *gorm.DB, keyColumn string) *gorm.DB {
	if l.ID != 0 {
		return tx.Where("id = ?", l.ID)
	}
	return tx.Where(keyColumn+" = ?", l.Key)
}

func (l *Locator) describe() string {
	if l.ID != 0 {
		return fmt.Sprintf("id=%d", l.ID)
	}
	return l.Key
}

// EntryLocator identifies an entry by id or by the (entry_date, start_time)
// composite. The composite is a de-facto natural key only; when it matches
// more than one row the mutating operations report a conflict instead of
// touching several rows.
type EntryLocator struct {
	ID        uint
	EntryDate string
	StartTime string
}

func (l *EntryLocator) validate() error {
	if l.ID != 0 {
		return nil
	}
	if l.EntryDate == "" || l.StartTime == "" {
		return validationError("no identification criteria supplied", "locator", "entry")
	}
	if err := validateDate(l.EntryDate, "entry_date"); err != nil {
		return err
	}
	return validateTimeOfDay(l.StartTime, "start_time")
}

func (l *EntryLocator) apply(tx *gorm.DB) *gorm.DB {
	if l.ID != 0 {
		return tx.Where("id = ?", l.ID)
	}
	return tx.Where("entry_date = ? AND start_time = ?", l.EntryDate, l.StartTime)
}

func (l *EntryLocator) describe() string {
	if l.ID != 0 {
		return fmt.Sprintf("id=%d", l.ID)
	}
	return l.EntryDate + " " + l.StartTime
}

const (
	dateLayout = "2006-01-02"

	timeLayoutShort = "15:04"
	timeLayoutLong  = "15:04:05"
)

// validateDate checks an ISO calendar date (YYYY-MM-DD).
func validateDate(value, field string) error {
	if _, err := time.Parse(dateLayout, value); err != nil {
		return validationError("malformed date, want YYYY-MM-DD", field, value)
	}
	return nil
}

// validateTimeOfDay checks a time of day as HH:MM or HH:MM:SS.
func validateTimeOfDay(value, field string) error {
	if _, err := time.Parse(timeLayoutShort, value); err == nil {
		return nil
	}
	if _, err := time.Parse(timeLayoutLong, value); err == nil {
		return nil
	}
	return validationError("malformed time, want HH:MM or HH:MM:SS", field, value)
}

// filterAllowedFields keeps only recognized column keys from a partial
// field patch. Unrecognized keys are ignored, not errors.
func filterAllowedFields(fields map[string]any, allowed []string) map[string]any {
	out := make(map[string]any, len(fields))
	for _, col := range allowed {
		if v, ok := fields[col]; ok {
			out[col] = v
		}
	}
	return out
}

