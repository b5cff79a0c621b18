// model.go this code defines the data model for the timesheet store
package datastore

import "time"

// Company represents a client company entries are billed against.
// Table name kept from the original schema.
type Company struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"uniqueIndex;not null" json:"name"`
	Description string `json:"description,omitempty"`
	// PayRate is the hourly rate used by the hours-and-pay aggregation.
	PayRate float64 `gorm:"not null;default:0" json:"pay_rate"`
}

// TableName overrides the table name used by Company
func (Company) TableName() string { return "rt_company" }

// Category is a short work-type label, e.g. "DEV".
type Category struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Code        string `gorm:"uniqueIndex;not null" json:"code"`
	Description string `json:"description,omitempty"`
}

// TableName overrides the table name used by Category
func (Category) TableName() string { return "rt_category" }

// SentinelCategoryCode is the reserved default category assigned to
// bulk-imported rows whose category code cannot be resolved.
const SentinelCategoryCode = "NONE"

// Project groups entries under an optional owning company.
type Project struct {
	ID          uint    `gorm:"primaryKey" json:"id"`
	Code        string  `gorm:"uniqueIndex;not null" json:"code"`
	Name        string  `json:"name,omitempty"`
	DueDate     *string `json:"due_date,omitempty"` // YYYY-MM-DD
	CompanyID   *uint   `gorm:"index" json:"company_id,omitempty"`
	Description string  `json:"description,omitempty"`

	Company *Company `gorm:"foreignKey:CompanyID;constraint:OnDelete:RESTRICT" json:"-"`
}

// TableName overrides the table name used by Project
func (Project) TableName() string { return "rt_project" }

// ProjectInfo is a Project row joined with its owning company name for
// listing. CompanyName is nil when the project has no company.
type ProjectInfo struct {
	ID          uint    `json:"id"`
	Code        string  `json:"code"`
	Name        string  `json:"name,omitempty"`
	DueDate     *string `json:"due_date,omitempty"`
	CompanyID   *uint   `json:"company_id,omitempty"`
	CompanyName *string `json:"company_name,omitempty"`
	Description string  `json:"description,omitempty"`
}

// Entry represents a single timesheet entry. Dates and times of day are
// stored as strings in the wire formats (YYYY-MM-DD, HH:MM[:SS]) like the
// rest of the schema. An entry is addressed either by ID or by the
// (EntryDate, StartTime) composite; the composite is not declared unique.
type Entry struct {
	ID              uint   `gorm:"primaryKey" json:"id"`
	EntryDate       string `gorm:"index:idx_entry_date;not null" json:"entry_date"`
	StartTime       string `gorm:"not null" json:"start_time"`
	DurationMinutes int    `gorm:"not null;default:0" json:"duration_minutes"`
	Description     string `json:"description,omitempty"`
	Notes           string `json:"notes,omitempty"`
	CategoryID      *uint  `gorm:"index" json:"category_id,omitempty"`
	ProjectID       *uint  `gorm:"index" json:"project_id,omitempty"`
	CompanyID       *uint  `gorm:"index" json:"company_id,omitempty"`
	Billable        bool   `gorm:"not null;default:false" json:"billable"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`

	Category *Category `gorm:"foreignKey:CategoryID;constraint:OnDelete:RESTRICT" json:"-"`
	Project  *Project  `gorm:"foreignKey:ProjectID;constraint:OnDelete:RESTRICT" json:"-"`
	Company  *Company  `gorm:"foreignKey:CompanyID;constraint:OnDelete:RESTRICT" json:"-"`
}

// TableName overrides the table name used by Entry
func (Entry) TableName() string { return "dt_entry" }

// BulkEntry is an entry supplied with natural keys instead of resolved
// foreign-key ids, used by the bulk-ingest path.
type BulkEntry struct {
	EntryDate       string `json:"entry_date"`
	StartTime       string `json:"start_time"`
	DurationMinutes int    `json:"duration_minutes"`
	Description     string `json:"description,omitempty"`
	Notes           string `json:"notes,omitempty"`
	CategoryCode    string `json:"category_code,omitempty"`
	ProjectCode     string `json:"project_code,omitempty"`
	CompanyKey      string `json:"company_key,omitempty"` // company name
	Billable        bool   `json:"billable"`
}

// EntryWithEnd is a row of the vt_entry_with_end reporting view: entry
// fields denormalized with their labels plus the computed end time.
type EntryWithEnd struct {
	ID                  uint    `json:"id"`
	EntryDate           string  `json:"entry_date"`
	StartTime           string  `json:"start_time"`
	DurationMinutes     int     `json:"duration_minutes"`
	EndTime             string  `json:"end_time"`
	Description         string  `json:"description,omitempty"`
	Notes               string  `json:"notes,omitempty"`
	Billable            bool    `json:"billable"`
	CategoryID          *uint   `json:"category_id,omitempty"`
	CategoryCode        *string `json:"category_code,omitempty"`
	CategoryDescription *string `json:"category_description,omitempty"`
	ProjectID           *uint   `json:"project_id,omitempty"`
	ProjectCode         *string `json:"project_code,omitempty"`
	ProjectName         *string `json:"project_name,omitempty"`
	CompanyID           *uint   `json:"company_id,omitempty"`
	CompanyName         *string `json:"company_name,omitempty"`
}

// HoursAndPay is the result of the hours-and-pay aggregation.
type HoursAndPay struct {
	Hours float64 `json:"hours"`
	Pay   float64 `json:"pay"`
}

// CategoryHours is the per-category hours aggregation result.
type CategoryHours struct {
	CategoryCode string  `json:"category_code"`
	Hours        float64 `json:"hours"`
}
