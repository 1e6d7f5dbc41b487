package utils

import "time"

// =============================================================================
// Time Format Constants
// =============================================================================

const (
	// DateFormat is the date layout used by the HTTP API and the weather cache
	DateFormat = "2006-01-02"

	// DatasetDateFormat is the date layout of the historical dataset's Date column
	DatasetDateFormat = "02/01/2006"
)

// =============================================================================
// Series Constants
// =============================================================================

const (
	// HoursPerDay is the number of hourly records in a complete day
	HoursPerDay = 24

	// EndOfDayHour is the hour of a date's final record
	EndOfDayHour = 23

	// LagDepth is the number of lag features carried by each record
	LagDepth = 3
)

// =============================================================================
// Timeout Constants
// =============================================================================

const (
	// DefaultRequestTimeout is the default timeout for HTTP requests
	DefaultRequestTimeout = 30 * time.Second

	// ShutdownTimeout is the grace period for server shutdown
	ShutdownTimeout = 10 * time.Second
)

// =============================================================================
// Retry and Backoff Constants
// =============================================================================

const (
	// DefaultMaxRetries is the default number of retry attempts
	DefaultMaxRetries = 3

	// DefaultRetryBackoff is the default backoff duration between retries
	DefaultRetryBackoff = 500 * time.Millisecond

	// MaxRetryBackoff is the maximum backoff duration
	MaxRetryBackoff = 5 * time.Second
)
