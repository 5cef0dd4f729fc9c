package validation

import "fmt"

// ============================================================================
// GRIEVANCE ENUMERATIONS
// ============================================================================

// GrievancePriority is the closed set of priority levels. The string values
// are the wire form and must round-trip losslessly through the wrapper.
type GrievancePriority string

const (
	PriorityLow      GrievancePriority = "Low"
	PriorityMedium   GrievancePriority = "Medium"
	PriorityHigh     GrievancePriority = "High"
	PriorityCritical GrievancePriority = "Critical"
)

// AllPriorities returns every priority level in severity order.
func AllPriorities() []GrievancePriority {
	return []GrievancePriority{PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical}
}

// ParsePriority converts the wire form into a GrievancePriority.
func ParsePriority(value string) (GrievancePriority, error) {
	for _, p := range AllPriorities() {
		if GrievancePriority(value) == p {
			return p, nil
		}
	}
	return "", fmt.Errorf("unknown priority '%s', allowed values: %v", value, AllPriorities())
}

// GrievanceStatus is the closed set of lifecycle states.
type GrievanceStatus string

const (
	StatusSubmitted   GrievanceStatus = "Submitted"
	StatusUnderReview GrievanceStatus = "UnderReview"
	StatusInProgress  GrievanceStatus = "InProgress"
	StatusResolved    GrievanceStatus = "Resolved"
	StatusEscalated   GrievanceStatus = "Escalated"
	StatusClosed      GrievanceStatus = "Closed"
)

// AllStatuses returns every lifecycle state.
func AllStatuses() []GrievanceStatus {
	return []GrievanceStatus{
		StatusSubmitted, StatusUnderReview, StatusInProgress,
		StatusResolved, StatusEscalated, StatusClosed,
	}
}

// ParseStatus converts the wire form into a GrievanceStatus.
func ParseStatus(value string) (GrievanceStatus, error) {
	for _, s := range AllStatuses() {
		if GrievanceStatus(value) == s {
			return s, nil
		}
	}
	return "", fmt.Errorf("unknown status '%s', allowed values: %v", value, AllStatuses())
}

// ============================================================================
// STATUS TRANSITION RULES
// ============================================================================

// InvalidTransitionError reports a status change outside the allowed table.
// The stored status is left untouched whenever this error is returned.
type InvalidTransitionError struct {
	From GrievanceStatus
	To   GrievanceStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("INVALID_TRANSITION: status change from %s to %s is not permitted", e.From, e.To)
}

// statusTransitions is the full transition table. Escalation stays reachable
// from every working state, and escalated cases remain workable; Closed is
// the only terminal state.
var statusTransitions = map[GrievanceStatus][]GrievanceStatus{
	StatusSubmitted:   {StatusUnderReview, StatusEscalated},
	StatusUnderReview: {StatusInProgress, StatusEscalated},
	StatusInProgress:  {StatusResolved, StatusEscalated},
	StatusResolved:    {StatusClosed},
	StatusEscalated:   {StatusInProgress, StatusResolved, StatusClosed},
	StatusClosed:      {},
}

// AllowedTransitions returns the permitted target states for a source state.
func AllowedTransitions(from GrievanceStatus) []GrievanceStatus {
	targets := statusTransitions[from]
	out := make([]GrievanceStatus, len(targets))
	copy(out, targets)
	return out
}

// ValidateStatusTransition checks a status change against the transition
// table and returns an InvalidTransitionError carrying both states when the
// change is not permitted.
func ValidateStatusTransition(current, next GrievanceStatus) error {
	for _, allowed := range statusTransitions[current] {
		if next == allowed {
			return nil
		}
	}
	return &InvalidTransitionError{From: current, To: next}
}

// ============================================================================
// FIELD VALIDATION
// ============================================================================

// ValidateRequired checks that every listed field carries a value.
func ValidateRequired(fields map[string]string) error {
	for fieldName, value := range fields {
		if value == "" {
			return fmt.Errorf("required field '%s' is empty", fieldName)
		}
	}
	return nil
}

// ValidateStringLength checks that a field does not exceed its limit.
func ValidateStringLength(value string, maxLength int, fieldName string) error {
	if len(value) > maxLength {
		return fmt.Errorf("%s must be at most %d characters long", fieldName, maxLength)
	}
	return nil
}
