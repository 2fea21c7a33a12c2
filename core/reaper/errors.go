package reaper

import "errors"

var (
	// ErrStoreNil is returned when the reaper is created without a store.
	ErrStoreNil = errors.New("reaper: store is nil")

	// ErrSweepFailed is returned when a sweep could not delete expired rows.
	ErrSweepFailed = errors.New("reaper: sweep failed")

	// ErrHealthcheckFailed wraps health probe failures.
	ErrHealthcheckFailed = errors.New("reaper: healthcheck failed")

	// ErrNotRunning indicates the sweep loop is not active.
	ErrNotRunning = errors.New("reaper: not running")

	// ErrSweepOverdue indicates no sweep has completed within two intervals.
	ErrSweepOverdue = errors.New("reaper: sweep overdue")
)
