package domain

import (
	"testing"

	"github.com/civic-grievance-platform/fabric-chaincode/shared/validation"
)

func TestDefaultSLAPolicy(t *testing.T) {
	policy := DefaultSLAPolicy()

	if err := policy.Validate(); err != nil {
		t.Fatalf("default policy should be valid: %v", err)
	}

	expected := map[validation.GrievancePriority]int64{
		validation.PriorityLow:      14 * 24 * 3600,
		validation.PriorityMedium:   7 * 24 * 3600,
		validation.PriorityHigh:     3 * 24 * 3600,
		validation.PriorityCritical: 24 * 3600,
	}
	for priority, want := range expected {
		got, err := policy.DeadlineFor(priority)
		if err != nil {
			t.Errorf("DeadlineFor(%s) failed: %v", priority, err)
			continue
		}
		if got != want {
			t.Errorf("DeadlineFor(%s) = %d, want %d", priority, got, want)
		}
	}

	if policy.EscalationDeadline != 2*24*3600 {
		t.Errorf("escalation deadline = %d, want %d", policy.EscalationDeadline, 2*24*3600)
	}
	if policy.PenaltyAmount != 100 {
		t.Errorf("penalty amount = %d, want 100", policy.PenaltyAmount)
	}
}

func TestSLAPolicyValidate_MissingPriority(t *testing.T) {
	policy := DefaultSLAPolicy()
	delete(policy.DeadlineByPriority, validation.PriorityHigh)

	if err := policy.Validate(); err == nil {
		t.Error("policy missing a priority should be invalid")
	}
}

func TestSLAPolicyValidate_NonPositiveDeadline(t *testing.T) {
	policy := DefaultSLAPolicy()
	policy.DeadlineByPriority[validation.PriorityLow] = 0

	if err := policy.Validate(); err == nil {
		t.Error("zero deadline should be invalid")
	}

	policy.DeadlineByPriority[validation.PriorityLow] = -60
	if err := policy.Validate(); err == nil {
		t.Error("negative deadline should be invalid")
	}
}

func TestSLAPolicyValidate_NegativeEscalationDeadline(t *testing.T) {
	policy := DefaultSLAPolicy()
	policy.EscalationDeadline = -1

	if err := policy.Validate(); err == nil {
		t.Error("negative escalation deadline should be invalid")
	}

	// Zero grace is allowed: escalation becomes due right at the deadline.
	policy.EscalationDeadline = 0
	if err := policy.Validate(); err != nil {
		t.Errorf("zero escalation deadline should be valid: %v", err)
	}
}

func TestDeadlineFor_UnknownPriority(t *testing.T) {
	policy := SLAPolicy{DeadlineByPriority: map[validation.GrievancePriority]int64{}}

	if _, err := policy.DeadlineFor(validation.PriorityCritical); err == nil {
		t.Error("expected error for unconfigured priority")
	}
}
