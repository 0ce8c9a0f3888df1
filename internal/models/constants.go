package models

// ============================================================================
// RESERVED STATES
// ============================================================================

const (
	// StateArchived blocks new comments on an issue.
	StateArchived = "archived"

	// StateClosed stamps the issue's close date when entered.
	StateClosed = "closed"
)

// ============================================================================
// PAGINATION DEFAULTS
// ============================================================================

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)
