package domain

import (
	"github.com/civic-grievance-platform/fabric-chaincode/shared/validation"
)

// Grievance is the canonical ledger row for one submitted grievance.
//
// ID, ReferenceID, Submitter, Title, Description, Category, Priority,
// SubmissionTime and Deadline are frozen at creation. Only Status,
// ResolutionTime, IsResolved, IsEscalated and EscalationLevel ever change,
// and only through the status update path. Timestamps are Unix epoch
// seconds.
type Grievance struct {
	ID              uint64                       `json:"id"`
	ReferenceID     string                       `json:"referenceId"`
	Submitter       string                       `json:"submitter"`
	Title           string                       `json:"title"`
	Description     string                       `json:"description"`
	Category        string                       `json:"category"`
	Priority        validation.GrievancePriority `json:"priority"`
	SubmissionTime  int64                        `json:"submissionTime"`
	Deadline        int64                        `json:"deadline"`
	Status          validation.GrievanceStatus   `json:"status"`
	ResolutionTime  *int64                       `json:"resolutionTime,omitempty"`
	IsResolved      bool                         `json:"isResolved"`
	IsEscalated     bool                         `json:"isEscalated"`
	EscalationLevel uint32                       `json:"escalationLevel"`
}

// SubmitGrievanceRequest carries a new grievance submission.
type SubmitGrievanceRequest struct {
	ReferenceID string `json:"referenceId"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Priority    string `json:"priority"`
	ActorID     string `json:"actorID"`
}

// StatusUpdateRequest carries a requested status transition.
type StatusUpdateRequest struct {
	ID        uint64 `json:"id"`
	NewStatus string `json:"newStatus"`
	ActorID   string `json:"actorID"`
}

// OfficerAuthorizationRequest grants or revokes officer rights.
type OfficerAuthorizationRequest struct {
	Identity string `json:"identity"`
	Enabled  bool   `json:"enabled"`
	ActorID  string `json:"actorID"`
}

// SLAConfigUpdateRequest replaces the SLA policy.
type SLAConfigUpdateRequest struct {
	Policy  SLAPolicy `json:"policy"`
	ActorID string    `json:"actorID"`
}

// OfficerRecord is the stored ACL entry for one identity.
type OfficerRecord struct {
	Identity   string `json:"identity"`
	Authorized bool   `json:"authorized"`
	UpdatedBy  string `json:"updatedBy"`
	UpdatedAt  int64  `json:"updatedAt"`
}

// OfficerStatusResult answers an authorization query.
type OfficerStatusResult struct {
	Identity   string `json:"identity"`
	Authorized bool   `json:"authorized"`
}

// SLACheckResult answers a CheckSLAMet query. For resolved grievances SLAMet
// compares the resolution time against the deadline; otherwise it compares
// the transaction time.
type SLACheckResult struct {
	ID        uint64 `json:"id"`
	SLAMet    bool   `json:"slaMet"`
	Deadline  int64  `json:"deadline"`
	CheckedAt int64  `json:"checkedAt"`
}

// EscalationDueResult answers a CheckEscalationDue query. EligibleAt is the
// deadline plus the policy's escalation grace period.
type EscalationDueResult struct {
	ID            uint64 `json:"id"`
	EscalationDue bool   `json:"escalationDue"`
	EligibleAt    int64  `json:"eligibleAt"`
	CheckedAt     int64  `json:"checkedAt"`
}

// TotalResult reports how many grievances were ever created.
type TotalResult struct {
	Total uint64 `json:"total"`
}

// HistoryEntry records one mutation applied to a grievance.
type HistoryEntry struct {
	HistoryID     string `json:"historyID"`
	GrievanceID   uint64 `json:"grievanceID"`
	ChangeType    string `json:"changeType"`
	FieldName     string `json:"fieldName"`
	PreviousValue string `json:"previousValue"`
	NewValue      string `json:"newValue"`
	ActorID       string `json:"actorID"`
	TransactionID string `json:"transactionID"`
	Timestamp     int64  `json:"timestamp"`
}
