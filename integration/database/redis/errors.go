package redis

import "errors"

// Connection and readiness failures surfaced by Connect and Healthcheck.
// Classify with errors.Is; the cart cache layer treats all of them as a
// degraded cache, never a failed request.
var (
	ErrFailedToParseRedisConnString = errors.New("failed to parse redis connection string")
	ErrRedisNotReady                = errors.New("redis did not become ready within the given time period")
	ErrEmptyConnectionURL           = errors.New("empty redis connection URL")
	ErrHealthcheckFailed            = errors.New("redis healthcheck failed")
)
