package datastore

import (
	"time"

	"github.com/cenkalti/backoff/v4"
)

const maxBusyRetries = 5

// withWriteRetry runs a mutating operation with bounded retry and
// exponential backoff when the engine reports a held write lock. Any other
// error aborts immediately.
func withWriteRetry(operation func() error) error {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 25 * time.Millisecond
	bo.MaxInterval = 500 * time.Millisecond

	return backoff.Retry(func() error {
		err := operation()
		if err != nil && !isDatabaseLocked(err) {
			return backoff.Permanent(err)
		}
		return err
	}, backoff.WithMaxRetries(bo, maxBusyRetries))
}
