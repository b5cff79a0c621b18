// metrics.go: optional prometheus instrumentation for store operations.
package datastore

import (
	"time"

	"github.com/mvirtanen/timesheet-go/internal/observability/metrics"
)

// SetMetrics attaches a metrics collector to the store. Safe to leave
// unset; operations then run uninstrumented.
func (ds *DataStore) SetMetrics(m *metrics.DatastoreMetrics) {
	ds.metrics = m
}

// recordOp reports one finished store operation. Meant to be deferred:
//
//	defer ds.recordOp("insert_entry", "dt_entry", time.Now(), &err)
func (ds *DataStore) recordOp(operation, table string, start time.Time, errp *error) {
	if ds.metrics == nil {
		return
	}
	status := "success"
	if errp != nil && *errp != nil {
		status = "error"
	}
	ds.metrics.RecordDbOperation(operation, table, status)
	ds.metrics.RecordDbOperationDuration(operation, table, time.Since(start).Seconds())
}
