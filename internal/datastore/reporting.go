// reporting.go: date-range queries and hours/pay aggregation over the
// vt_entry_with_end view.
package datastore

import (
	"time"

	"gorm.io/gorm"

	"github.com/mvirtanen/timesheet-go/internal/errors"
)

const reportingView = "vt_entry_with_end"

// ReportFilter narrows a report to a company, category and/or project.
// Each dimension is addressable either by surrogate id or by natural key;
// both modes are served by the one engine and combine with AND. When both
// an id and a key are set for the same dimension the id wins.
type ReportFilter struct {
	CompanyID  *uint
	CategoryID *uint
	ProjectID  *uint

	CompanyName  string
	CategoryCode string
	ProjectCode  string
}

// apply adds the filter conditions to a query over the reporting view.
func (f *ReportFilter) apply(query *gorm.DB) *gorm.DB {
	if f == nil {
		return query
	}
	switch {
	case f.CompanyID != nil:
		query = query.Where("company_id = ?", *f.CompanyID)
	case f.CompanyName != "":
		query = query.Where("company_name = ?", f.CompanyName)
	}
	switch {
	case f.CategoryID != nil:
		query = query.Where("category_id = ?", *f.CategoryID)
	case f.CategoryCode != "":
		query = query.Where("category_code = ?", f.CategoryCode)
	}
	switch {
	case f.ProjectID != nil:
		query = query.Where("project_id = ?", *f.ProjectID)
	case f.ProjectCode != "":
		query = query.Where("project_code = ?", f.ProjectCode)
	}
	return query
}

// GetReportBetween returns denormalized entry rows between start and end,
// inclusive on both bounds, ordered by entry_date then start_time.
func (ds *DataStore) GetReportBetween(start, end string, filter *ReportFilter) (rows []EntryWithEnd, err error) {
	defer ds.recordOp("get_report_between", reportingView, time.Now(), &err)

	if err := validateDate(start, "start"); err != nil {
		return nil, err
	}
	if err := validateDate(end, "end"); err != nil {
		return nil, err
	}

	query := ds.DB.Table(reportingView).
		Where("entry_date BETWEEN ? AND ?", start, end).
		Order("entry_date ASC, start_time ASC")
	query = filter.apply(query)

	if err := query.Scan(&rows).Error; err != nil {
		return nil, dbError(err, "get_report_between", "", "start", start, "end", end)
	}
	return rows, nil
}

// GetReportAll returns every entry row from the reporting view matching
// the filter, ordered by entry_date then start_time.
func (ds *DataStore) GetReportAll(filter *ReportFilter) ([]EntryWithEnd, error) {
	var rows []EntryWithEnd
	query := ds.DB.Table(reportingView).
		Order("entry_date ASC, start_time ASC")
	err := filter.apply(query).Scan(&rows).Error
	if err != nil {
		return nil, dbError(err, "get_report_all", "")
	}
	return rows, nil
}

// GetHoursAndPay sums hours for one company between start and end,
// inclusive, optionally narrowed by category and/or project, and converts
// them to pay using the company's hourly rate. Returns zeros when no
// entries match.
func (ds *DataStore) GetHoursAndPay(start, end string, companyID uint, categoryID, projectID *uint) (hp HoursAndPay, err error) {
	defer ds.recordOp("get_hours_and_pay", "dt_entry", time.Now(), &err)

	if companyID == 0 {
		return HoursAndPay{}, validationError("company is required", "company_id", companyID)
	}
	if err := validateDate(start, "start"); err != nil {
		return HoursAndPay{}, err
	}
	if err := validateDate(end, "end"); err != nil {
		return HoursAndPay{}, err
	}

	query := ds.DB.Table("dt_entry e").
		Select("SUM(e.duration_minutes) AS total_minutes, co.pay_rate AS pay_rate").
		Joins("LEFT JOIN rt_company co ON e.company_id = co.id").
		Where("e.entry_date BETWEEN ? AND ?", start, end).
		Where("e.company_id = ?", companyID).
		Group("e.company_id")

	if categoryID != nil {
		query = query.Where("e.category_id = ?", *categoryID)
	}
	if projectID != nil {
		query = query.Where("e.project_id = ?", *projectID)
	}

	var row struct {
		TotalMinutes *int64
		PayRate      float64
	}
	result := query.Scan(&row)
	if result.Error != nil {
		return HoursAndPay{}, dbError(result.Error, "get_hours_and_pay", errors.PriorityMedium,
			"company_id", companyID)
	}
	if result.RowsAffected == 0 || row.TotalMinutes == nil {
		return HoursAndPay{}, nil
	}

	hours := float64(*row.TotalMinutes) / 60.0
	return HoursAndPay{
		Hours: hours,
		Pay:   hours * row.PayRate,
	}, nil
}

// GetHoursByCategory sums hours grouped by category code between start and
// end, inclusive, across all companies. Categories with no matching
// entries are absent from the result.
func (ds *DataStore) GetHoursByCategory(start, end string) ([]CategoryHours, error) {
	if err := validateDate(start, "start"); err != nil {
		return nil, err
	}
	if err := validateDate(end, "end"); err != nil {
		return nil, err
	}

	var results []struct {
		CategoryCode string
		TotalMinutes int64
	}
	err := ds.DB.Table("dt_entry e").
		Select("c.code AS category_code, SUM(e.duration_minutes) AS total_minutes").
		Joins("INNER JOIN rt_category c ON e.category_id = c.id").
		Where("e.entry_date BETWEEN ? AND ?", start, end).
		Group("c.code").
		Order("c.code ASC").
		Scan(&results).Error
	if err != nil {
		return nil, dbError(err, "get_hours_by_category", "", "start", start, "end", end)
	}

	hours := make([]CategoryHours, 0, len(results))
	for _, r := range results {
		hours = append(hours, CategoryHours{
			CategoryCode: r.CategoryCode,
			Hours:        float64(r.TotalMinutes) / 60.0,
		})
	}
	return hours, nil
}
