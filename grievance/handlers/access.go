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
)

// AccessHandler manages the ledger owner and the officer ACL.
type AccessHandler struct {
	persistenceService *services.PersistenceService
	eventService       *grievanceServices.EventService
}

// NewAccessHandler creates a new access handler.
func NewAccessHandler() *AccessHandler {
	return &AccessHandler{
		persistenceService: services.NewPersistenceService(),
		eventService:       grievanceServices.NewEventService(),
	}
}

// InitializeLedger records the owner identity and the initial SLA policy.
// Called from the contract Init hook with [ownerIdentity] or
// [ownerIdentity, policyJSON]. The owner is fixed for the lifetime of the
// ledger; a second initialization is rejected.
func (h *AccessHandler) InitializeLedger(stub shim.ChaincodeStubInterface, args []string) error {
	if len(args) < 1 || args[0] == "" {
		return fmt.Errorf("%w: owner identity is required at initialization", domain.ErrInvalidInput)
	}

	existing, err := stub.GetState(config.OwnerKey)
	if err != nil {
		return fmt.Errorf("failed to read ledger owner: %v", err)
	}
	if existing != nil {
		return fmt.Errorf("%w: ledger owner is already recorded", domain.ErrInvalidInput)
	}

	policy := domain.DefaultSLAPolicy()
	if len(args) >= 2 && args[1] != "" {
		if err := json.Unmarshal([]byte(args[1]), &policy); err != nil {
			return fmt.Errorf("%w: failed to parse SLA policy: %v", domain.ErrInvalidInput, err)
		}
	}
	if err := policy.Validate(); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}

	if err := stub.PutState(config.OwnerKey, []byte(args[0])); err != nil {
		return fmt.Errorf("failed to record ledger owner: %v", err)
	}
	if err := h.persistenceService.Put(stub, config.SLAPolicyKey, policy); err != nil {
		return fmt.Errorf("failed to store SLA policy: %v", err)
	}

	return nil
}

// SetOfficerAuthorization grants or revokes officer rights for an identity.
// Owner-only; setting the same value twice is a no-op, not an error.
func (h *AccessHandler) SetOfficerAuthorization(stub shim.ChaincodeStubInterface, args []string) ([]byte, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("incorrect number of arguments. Expected 1, got %d", len(args))
	}

	var req domain.OfficerAuthorizationRequest
	if err := json.Unmarshal([]byte(args[0]), &req); err != nil {
		return nil, fmt.Errorf("%w: failed to parse officer authorization request: %v", domain.ErrInvalidInput, err)
	}
	if req.Identity == "" {
		return nil, fmt.Errorf("%w: officer identity is required", domain.ErrInvalidInput)
	}

	if err := requireOwner(stub, req.ActorID); err != nil {
		return nil, err
	}

	now := utils.TxUnix(stub)
	record := domain.OfficerRecord{
		Identity:   req.Identity,
		Authorized: req.Enabled,
		UpdatedBy:  req.ActorID,
		UpdatedAt:  now,
	}

	officerKey := fmt.Sprintf("%s_%s", config.OfficerPrefix, req.Identity)
	if err := h.persistenceService.Put(stub, officerKey, record); err != nil {
		return nil, fmt.Errorf("failed to store officer record: %v", err)
	}

	if err := h.eventService.EmitOfficerAuthorizationChanged(stub, &record, req.ActorID, now); err != nil {
		return nil, fmt.Errorf("failed to emit event: %v", err)
	}

	return json.Marshal(record)
}

// IsAuthorizedOfficer reports whether an identity currently holds officer
// rights. Public read.
func (h *AccessHandler) IsAuthorizedOfficer(stub shim.ChaincodeStubInterface, args []string) ([]byte, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("incorrect number of arguments. Expected 1, got %d", len(args))
	}

	authorized, err := isAuthorizedOfficer(stub, args[0])
	if err != nil {
		return nil, err
	}

	return json.Marshal(domain.OfficerStatusResult{
		Identity:   args[0],
		Authorized: authorized,
	})
}

// ledgerOwner loads the owner identity recorded at initialization.
func ledgerOwner(stub shim.ChaincodeStubInterface) (string, error) {
	data, err := stub.GetState(config.OwnerKey)
	if err != nil {
		return "", fmt.Errorf("failed to read ledger owner: %v", err)
	}
	if data == nil {
		return "", fmt.Errorf("%w: ledger owner has not been initialized", domain.ErrNotFound)
	}
	return string(data), nil
}

// requireOwner rejects configuration changes from anyone but the owner.
func requireOwner(stub shim.ChaincodeStubInterface, actorID string) error {
	owner, err := ledgerOwner(stub)
	if err != nil {
		return err
	}
	if actorID == "" || actorID != owner {
		return fmt.Errorf("%w: only the ledger owner may perform this operation", domain.ErrNotOwner)
	}
	return nil
}

// isAuthorizedOfficer checks the ACL entry for an identity. Absent entries
// mean not authorized.
func isAuthorizedOfficer(stub shim.ChaincodeStubInterface, identity string) (bool, error) {
	officerKey := fmt.Sprintf("%s_%s", config.OfficerPrefix, identity)
	data, err := stub.GetState(officerKey)
	if err != nil {
		return false, fmt.Errorf("failed to read officer record for %s: %v", identity, err)
	}
	if data == nil {
		return false, nil
	}

	var record domain.OfficerRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return false, fmt.Errorf("failed to unmarshal officer record for %s: %v", identity, err)
	}
	return record.Authorized, nil
}

// requireTransitionAuthority gates status transitions: the owner is always
// permitted, independent of the ACL contents; everyone else needs an
// authorized officer record.
func requireTransitionAuthority(stub shim.ChaincodeStubInterface, actorID string) error {
	if actorID == "" {
		return fmt.Errorf("%w: caller identity is required", domain.ErrUnauthorized)
	}

	owner, err := ledgerOwner(stub)
	if err != nil {
		return err
	}
	if actorID == owner {
		return nil
	}

	authorized, err := isAuthorizedOfficer(stub, actorID)
	if err != nil {
		return err
	}
	if !authorized {
		return fmt.Errorf("%w: %s is not an authorized officer", domain.ErrUnauthorized, actorID)
	}
	return nil
}
