package config

import "time"

// Validation limits
const (
	MaxReferenceIDLength = 64
	MaxTitleLength       = 200
	MaxCategoryLength    = 100
	MaxDescriptionLength = 5000
)

// Default SLA policy values, used when ledger initialization supplies no
// policy of its own. Resolution deadlines are per priority; the escalation
// deadline is the grace period past the resolution deadline before a case
// becomes due for escalation.
const (
	DefaultDeadlineLow      = 14 * 24 * time.Hour
	DefaultDeadlineMedium   = 7 * 24 * time.Hour
	DefaultDeadlineHigh     = 3 * 24 * time.Hour
	DefaultDeadlineCritical = 24 * time.Hour

	DefaultEscalationDeadline = 2 * 24 * time.Hour

	DefaultPenaltyAmount = 100
)
