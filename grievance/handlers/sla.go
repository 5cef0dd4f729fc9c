package handlers

import (
	"encoding/json"
	"fmt"

	"github.com/hyperledger/fabric-chaincode-go/shim"

	"github.com/civic-grievance-platform/fabric-chaincode/grievance/domain"
	grievanceServices "github.com/civic-grievance-platform/fabric-chaincode/grievance/services"
	"github.com/civic-grievance-platform/fabric-chaincode/shared/config"
	"github.com/civic-grievance-platform/fabric-chaincode/shared/services"
	"github.com/civic-grievance-platform/fabric-chaincode/shared/utils"
	"github.com/civic-grievance-platform/fabric-chaincode/shared/validation"
)

// SLAHandler answers SLA queries and manages the policy singleton.
type SLAHandler struct {
	persistenceService *services.PersistenceService
	eventService       *grievanceServices.EventService
}

// NewSLAHandler creates a new SLA handler.
func NewSLAHandler() *SLAHandler {
	return &SLAHandler{
		persistenceService: services.NewPersistenceService(),
		eventService:       grievanceServices.NewEventService(),
	}
}

// CheckSLAMet reports whether a grievance met its frozen deadline. A
// resolved grievance is judged by its resolution time; an open one by the
// transaction time, so the verdict can flip from met to missed while it
// stays open, never back.
func (h *SLAHandler) CheckSLAMet(stub shim.ChaincodeStubInterface, args []string) ([]byte, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("incorrect number of arguments. Expected 1, got %d", len(args))
	}

	id, err := parseGrievanceID(args[0])
	if err != nil {
		return nil, err
	}

	grievance, err := loadGrievance(stub, id)
	if err != nil {
		return nil, err
	}

	now := utils.TxUnix(stub)
	observed := now
	if grievance.ResolutionTime != nil {
		observed = *grievance.ResolutionTime
	}

	return json.Marshal(domain.SLACheckResult{
		ID:        id,
		SLAMet:    observed <= grievance.Deadline,
		Deadline:  grievance.Deadline,
		CheckedAt: now,
	})
}

// CheckEscalationDue reports whether a grievance has sat unresolved past its
// deadline plus the escalation grace period. Escalation itself is a status
// transition a caller must request; this is the advisory read feeding it.
func (h *SLAHandler) CheckEscalationDue(stub shim.ChaincodeStubInterface, args []string) ([]byte, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("incorrect number of arguments. Expected 1, got %d", len(args))
	}

	id, err := parseGrievanceID(args[0])
	if err != nil {
		return nil, err
	}

	grievance, err := loadGrievance(stub, id)
	if err != nil {
		return nil, err
	}

	policy, err := loadSLAPolicy(stub, h.persistenceService)
	if err != nil {
		return nil, err
	}

	now := utils.TxUnix(stub)
	eligibleAt := grievance.Deadline + policy.EscalationDeadline

	// Terminal or already-escalated grievances have nothing left to escalate.
	due := now > eligibleAt &&
		!grievance.IsResolved &&
		grievance.Status != validation.StatusClosed &&
		grievance.Status != validation.StatusEscalated

	return json.Marshal(domain.EscalationDueResult{
		ID:            id,
		EscalationDue: due,
		EligibleAt:    eligibleAt,
		CheckedAt:     now,
	})
}

// GetSLAConfig returns the active policy.
func (h *SLAHandler) GetSLAConfig(stub shim.ChaincodeStubInterface, args []string) ([]byte, error) {
	if len(args) != 0 {
		return nil, fmt.Errorf("incorrect number of arguments. Expected 0, got %d", len(args))
	}

	policy, err := loadSLAPolicy(stub, h.persistenceService)
	if err != nil {
		return nil, err
	}

	return json.Marshal(policy)
}

// SetSLAConfig replaces the policy. Owner-only. Deadlines already frozen on
// existing grievances are untouched; only future submissions see the new
// values.
func (h *SLAHandler) SetSLAConfig(stub shim.ChaincodeStubInterface, args []string) ([]byte, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("incorrect number of arguments. Expected 1, got %d", len(args))
	}

	var req domain.SLAConfigUpdateRequest
	if err := json.Unmarshal([]byte(args[0]), &req); err != nil {
		return nil, fmt.Errorf("%w: failed to parse SLA config request: %v", domain.ErrInvalidInput, err)
	}

	if err := requireOwner(stub, req.ActorID); err != nil {
		return nil, err
	}
	if err := req.Policy.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}

	if err := h.persistenceService.Put(stub, config.SLAPolicyKey, req.Policy); err != nil {
		return nil, fmt.Errorf("failed to store SLA policy: %v", err)
	}

	now := utils.TxUnix(stub)
	if err := h.eventService.EmitSLAConfigUpdated(stub, &req.Policy, req.ActorID, now); err != nil {
		return nil, fmt.Errorf("failed to emit event: %v", err)
	}

	return json.Marshal(req.Policy)
}
