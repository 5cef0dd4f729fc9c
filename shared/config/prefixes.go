package config

// World-state key prefixes. Every ledger key is built from one of these so
// entity families never collide.
const (
	// Grievance domain prefixes
	GrievancePrefix    = "GRV"
	GrievanceRefPrefix = "GRVREF"
	OfficerPrefix      = "OFFICER"

	// Shared prefixes
	HistoryPrefix = "HIST"
)

// Singleton keys.
const (
	OwnerKey          = "LEDGER_OWNER"
	SLAPolicyKey      = "SLA_POLICY"
	GrievanceCountKey = "GRIEVANCE_COUNT"
)

// Composite-key object types for index queries.
const (
	SubmitterIndexObjectType = "SUBMITTER_GRV"
	HistoryObjectType        = "HISTORY"
)
