package domain

import (
	"fmt"
	"time"

	"github.com/civic-grievance-platform/fabric-chaincode/shared/config"
	"github.com/civic-grievance-platform/fabric-chaincode/shared/validation"
)

// SLAPolicy is the singleton configuration driving deadline computation.
// All durations are seconds. Editing the policy never recomputes deadlines
// already frozen on existing grievances.
type SLAPolicy struct {
	DeadlineByPriority map[validation.GrievancePriority]int64 `json:"deadlineByPriority"`
	EscalationDeadline int64                                  `json:"escalationDeadline"`
	PenaltyAmount      uint64                                 `json:"penaltyAmount"`
}

// DefaultSLAPolicy returns the compiled-in policy used when initialization
// supplies none.
func DefaultSLAPolicy() SLAPolicy {
	return SLAPolicy{
		DeadlineByPriority: map[validation.GrievancePriority]int64{
			validation.PriorityLow:      int64(config.DefaultDeadlineLow / time.Second),
			validation.PriorityMedium:   int64(config.DefaultDeadlineMedium / time.Second),
			validation.PriorityHigh:     int64(config.DefaultDeadlineHigh / time.Second),
			validation.PriorityCritical: int64(config.DefaultDeadlineCritical / time.Second),
		},
		EscalationDeadline: int64(config.DefaultEscalationDeadline / time.Second),
		PenaltyAmount:      config.DefaultPenaltyAmount,
	}
}

// Validate checks that the policy covers every priority with a positive
// deadline.
func (p SLAPolicy) Validate() error {
	for _, priority := range validation.AllPriorities() {
		deadline, ok := p.DeadlineByPriority[priority]
		if !ok {
			return fmt.Errorf("missing resolution deadline for priority %s", priority)
		}
		if deadline <= 0 {
			return fmt.Errorf("resolution deadline for priority %s must be positive, got %d", priority, deadline)
		}
	}
	if p.EscalationDeadline < 0 {
		return fmt.Errorf("escalation deadline must not be negative, got %d", p.EscalationDeadline)
	}
	return nil
}

// DeadlineFor returns the resolution deadline duration for a priority.
func (p SLAPolicy) DeadlineFor(priority validation.GrievancePriority) (int64, error) {
	deadline, ok := p.DeadlineByPriority[priority]
	if !ok {
		return 0, fmt.Errorf("no resolution deadline configured for priority %s", priority)
	}
	return deadline, nil
}
