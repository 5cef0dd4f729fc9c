package handlers

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/hyperledger/fabric-chaincode-go/shim"

	"github.com/civic-grievance-platform/fabric-chaincode/grievance/domain"
	grievanceServices "github.com/civic-grievance-platform/fabric-chaincode/grievance/services"
	"github.com/civic-grievance-platform/fabric-chaincode/shared/config"
	"github.com/civic-grievance-platform/fabric-chaincode/shared/services"
	"github.com/civic-grievance-platform/fabric-chaincode/shared/utils"
	"github.com/civic-grievance-platform/fabric-chaincode/shared/validation"
)

// GrievanceHandler handles grievance submission, status transitions and the
// read surface over the store.
type GrievanceHandler struct {
	persistenceService *services.PersistenceService
	eventService       *grievanceServices.EventService
}

// NewGrievanceHandler creates a new grievance handler.
func NewGrievanceHandler() *GrievanceHandler {
	return &GrievanceHandler{
		persistenceService: services.NewPersistenceService(),
		eventService:       grievanceServices.NewEventService(),
	}
}

// SubmitGrievance creates a new grievance. The sequential id is allocated
// here, the deadline is computed from the active policy and frozen, and the
// row lands in the id index, the reference-id index and the submitter index
// in the same transaction.
func (h *GrievanceHandler) SubmitGrievance(stub shim.ChaincodeStubInterface, args []string) ([]byte, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("incorrect number of arguments. Expected 1, got %d", len(args))
	}

	var req domain.SubmitGrievanceRequest
	if err := json.Unmarshal([]byte(args[0]), &req); err != nil {
		return nil, fmt.Errorf("%w: failed to parse submission request: %v", domain.ErrInvalidInput, err)
	}

	if err := validation.ValidateRequired(map[string]string{
		"referenceId": req.ReferenceID,
		"title":       req.Title,
		"description": req.Description,
		"category":    req.Category,
		"actorID":     req.ActorID,
	}); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}

	for _, check := range []struct {
		value string
		max   int
		field string
	}{
		{req.ReferenceID, config.MaxReferenceIDLength, "referenceId"},
		{req.Title, config.MaxTitleLength, "title"},
		{req.Description, config.MaxDescriptionLength, "description"},
		{req.Category, config.MaxCategoryLength, "category"},
	} {
		if err := validation.ValidateStringLength(check.value, check.max, check.field); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
		}
	}

	priority, err := validation.ParsePriority(req.Priority)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}

	refKey := fmt.Sprintf("%s_%s", config.GrievanceRefPrefix, req.ReferenceID)
	taken, err := h.persistenceService.Exists(stub, refKey)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, fmt.Errorf("%w: reference id %s is already in use", domain.ErrDuplicateReferenceID, req.ReferenceID)
	}

	policy, err := loadSLAPolicy(stub, h.persistenceService)
	if err != nil {
		return nil, err
	}
	deadlineSeconds, err := policy.DeadlineFor(priority)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}

	total, err := grievanceCount(stub)
	if err != nil {
		return nil, err
	}
	id := total + 1
	now := utils.TxUnix(stub)

	grievance := domain.Grievance{
		ID:             id,
		ReferenceID:    req.ReferenceID,
		Submitter:      req.ActorID,
		Title:          req.Title,
		Description:    req.Description,
		Category:       req.Category,
		Priority:       priority,
		SubmissionTime: now,
		Deadline:       now + deadlineSeconds,
		Status:         validation.StatusSubmitted,
	}

	if err := h.persistenceService.Put(stub, grievanceKey(id), &grievance); err != nil {
		return nil, fmt.Errorf("failed to store grievance: %v", err)
	}
	if err := stub.PutState(refKey, []byte(strconv.FormatUint(id, 10))); err != nil {
		return nil, fmt.Errorf("failed to create reference id index: %v", err)
	}

	submitterKey, err := h.persistenceService.CreateCompositeKey(stub, config.SubmitterIndexObjectType, []string{req.ActorID, paddedID(id)})
	if err != nil {
		return nil, fmt.Errorf("failed to create submitter index key: %v", err)
	}
	if err := stub.PutState(submitterKey, []byte(strconv.FormatUint(id, 10))); err != nil {
		return nil, fmt.Errorf("failed to create submitter index: %v", err)
	}

	if err := stub.PutState(config.GrievanceCountKey, []byte(strconv.FormatUint(id, 10))); err != nil {
		return nil, fmt.Errorf("failed to update grievance count: %v", err)
	}

	grievanceJSON, err := utils.MarshalJSONString(&grievance)
	if err != nil {
		return nil, err
	}
	if err := h.recordGrievanceHistory(stub, id, 0, "CREATE", "grievance", "", grievanceJSON, req.ActorID); err != nil {
		return nil, err
	}

	if err := h.eventService.EmitGrievanceSubmitted(stub, &grievance, req.ActorID, now); err != nil {
		return nil, fmt.Errorf("failed to emit event: %v", err)
	}

	return json.Marshal(&grievance)
}

// UpdateGrievanceStatus applies one transition from the allowed table. Only
// the owner or an authorized officer may call it. Resolving stamps the
// resolution time exactly once; escalating raises the escalation level and
// reports a breach when the deadline has already passed.
func (h *GrievanceHandler) UpdateGrievanceStatus(stub shim.ChaincodeStubInterface, args []string) ([]byte, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("incorrect number of arguments. Expected 1, got %d", len(args))
	}

	var req domain.StatusUpdateRequest
	if err := json.Unmarshal([]byte(args[0]), &req); err != nil {
		return nil, fmt.Errorf("%w: failed to parse status update request: %v", domain.ErrInvalidInput, err)
	}

	if err := requireTransitionAuthority(stub, req.ActorID); err != nil {
		return nil, err
	}

	grievance, err := loadGrievance(stub, req.ID)
	if err != nil {
		return nil, err
	}

	newStatus, err := validation.ParseStatus(req.NewStatus)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	if err := validation.ValidateStatusTransition(grievance.Status, newStatus); err != nil {
		return nil, err
	}

	now := utils.TxUnix(stub)
	previousStatus := grievance.Status
	grievance.Status = newStatus

	seq := 0
	switch newStatus {
	case validation.StatusResolved:
		grievance.IsResolved = true
		if grievance.ResolutionTime == nil {
			resolvedAt := now
			grievance.ResolutionTime = &resolvedAt
			seq++
			if err := h.recordGrievanceHistory(stub, req.ID, seq, "RESOLVE", "resolutionTime", "", strconv.FormatInt(resolvedAt, 10), req.ActorID); err != nil {
				return nil, err
			}
		}
	case validation.StatusEscalated:
		grievance.IsEscalated = true
		grievance.EscalationLevel++
	}

	if err := h.persistenceService.Put(stub, grievanceKey(req.ID), grievance); err != nil {
		return nil, fmt.Errorf("failed to update grievance: %v", err)
	}

	if err := h.recordGrievanceHistory(stub, req.ID, 0, "STATUS_UPDATE", "status", string(previousStatus), string(newStatus), req.ActorID); err != nil {
		return nil, err
	}

	if err := h.eventService.EmitStatusUpdated(stub, grievance, previousStatus, req.ActorID, now); err != nil {
		return nil, fmt.Errorf("failed to emit event: %v", err)
	}

	switch newStatus {
	case validation.StatusResolved:
		if err := h.eventService.EmitGrievanceResolved(stub, grievance, req.ActorID, now); err != nil {
			return nil, fmt.Errorf("failed to emit resolved event: %v", err)
		}
	case validation.StatusEscalated:
		if err := h.eventService.EmitGrievanceEscalated(stub, grievance, req.ActorID, now); err != nil {
			return nil, fmt.Errorf("failed to emit escalated event: %v", err)
		}
		if now > grievance.Deadline {
			policy, err := loadSLAPolicy(stub, h.persistenceService)
			if err != nil {
				return nil, err
			}
			if err := h.eventService.EmitSLABreached(stub, grievance, policy.PenaltyAmount, req.ActorID, now); err != nil {
				return nil, fmt.Errorf("failed to emit breach event: %v", err)
			}
		}
	}

	return json.Marshal(grievance)
}

// GetGrievance retrieves a grievance by its sequential id.
func (h *GrievanceHandler) GetGrievance(stub shim.ChaincodeStubInterface, args []string) ([]byte, error) {
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

	return json.Marshal(grievance)
}

// GetGrievanceByReferenceID retrieves a grievance by its caller-chosen
// reference id. The reference index stores only the sequential id, so both
// lookups always serve the same row.
func (h *GrievanceHandler) GetGrievanceByReferenceID(stub shim.ChaincodeStubInterface, args []string) ([]byte, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("incorrect number of arguments. Expected 1, got %d", len(args))
	}

	refKey := fmt.Sprintf("%s_%s", config.GrievanceRefPrefix, args[0])
	data, err := stub.GetState(refKey)
	if err != nil {
		return nil, fmt.Errorf("failed to read reference id index: %v", err)
	}
	if data == nil {
		return nil, fmt.Errorf("%w: no grievance with reference id %s", domain.ErrNotFound, args[0])
	}

	id, err := strconv.ParseUint(string(data), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("corrupt reference id index entry for %s: %v", args[0], err)
	}

	grievance, err := loadGrievance(stub, id)
	if err != nil {
		return nil, err
	}

	return json.Marshal(grievance)
}

// GetUserGrievances lists the ids of every grievance an identity ever
// filed, in submission order. The enumeration is stateless.
func (h *GrievanceHandler) GetUserGrievances(stub shim.ChaincodeStubInterface, args []string) ([]byte, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("incorrect number of arguments. Expected 1, got %d", len(args))
	}

	values, err := h.persistenceService.GetByPartialCompositeKey(stub, config.SubmitterIndexObjectType, []string{args[0]})
	if err != nil {
		return nil, err
	}

	ids := make([]uint64, 0, len(values))
	for _, value := range values {
		id, err := strconv.ParseUint(string(value), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("corrupt submitter index entry: %v", err)
		}
		ids = append(ids, id)
	}

	return json.Marshal(ids)
}

// GetTotalGrievances reports how many grievances were ever created. The
// count never decreases; rows are never deleted.
func (h *GrievanceHandler) GetTotalGrievances(stub shim.ChaincodeStubInterface, args []string) ([]byte, error) {
	if len(args) != 0 {
		return nil, fmt.Errorf("incorrect number of arguments. Expected 0, got %d", len(args))
	}

	total, err := grievanceCount(stub)
	if err != nil {
		return nil, err
	}

	return json.Marshal(domain.TotalResult{Total: total})
}

// GetGrievanceHistory lists every recorded mutation of a grievance.
func (h *GrievanceHandler) GetGrievanceHistory(stub shim.ChaincodeStubInterface, args []string) ([]byte, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("incorrect number of arguments. Expected 1, got %d", len(args))
	}

	id, err := parseGrievanceID(args[0])
	if err != nil {
		return nil, err
	}
	if _, err := loadGrievance(stub, id); err != nil {
		return nil, err
	}

	values, err := h.persistenceService.GetByPartialCompositeKey(stub, config.HistoryObjectType, []string{strconv.FormatUint(id, 10)})
	if err != nil {
		return nil, err
	}

	history := make([]domain.HistoryEntry, 0, len(values))
	for _, value := range values {
		var entry domain.HistoryEntry
		if err := json.Unmarshal(value, &entry); err != nil {
			return nil, fmt.Errorf("failed to unmarshal history entry: %v", err)
		}
		history = append(history, entry)
	}

	return json.Marshal(history)
}

// recordGrievanceHistory appends one history entry for a mutation applied in
// the current transaction.
func (h *GrievanceHandler) recordGrievanceHistory(stub shim.ChaincodeStubInterface, id uint64, seq int, changeType, fieldName, previousValue, newValue, actorID string) error {
	historyID := utils.HistoryEntryID(config.HistoryPrefix, stub.GetTxID(), seq)

	entry := domain.HistoryEntry{
		HistoryID:     historyID,
		GrievanceID:   id,
		ChangeType:    changeType,
		FieldName:     fieldName,
		PreviousValue: previousValue,
		NewValue:      newValue,
		ActorID:       actorID,
		TransactionID: stub.GetTxID(),
		Timestamp:     utils.TxUnix(stub),
	}

	compositeKey, err := h.persistenceService.CreateCompositeKey(stub, config.HistoryObjectType, []string{strconv.FormatUint(id, 10), historyID})
	if err != nil {
		return fmt.Errorf("failed to create history key: %v", err)
	}

	return h.persistenceService.Put(stub, compositeKey, entry)
}

// Helpers shared across the handler package.

func grievanceKey(id uint64) string {
	return fmt.Sprintf("%s_%d", config.GrievancePrefix, id)
}

// paddedID zero-pads the id so lexical composite-key order matches numeric
// submission order.
func paddedID(id uint64) string {
	return fmt.Sprintf("%020d", id)
}

func parseGrievanceID(value string) (uint64, error) {
	id, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid grievance id '%s'", domain.ErrInvalidInput, value)
	}
	return id, nil
}

func grievanceCount(stub shim.ChaincodeStubInterface) (uint64, error) {
	data, err := stub.GetState(config.GrievanceCountKey)
	if err != nil {
		return 0, fmt.Errorf("failed to read grievance count: %v", err)
	}
	if data == nil {
		return 0, nil
	}
	count, err := strconv.ParseUint(string(data), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("corrupt grievance count: %v", err)
	}
	return count, nil
}

func loadGrievance(stub shim.ChaincodeStubInterface, id uint64) (*domain.Grievance, error) {
	data, err := stub.GetState(grievanceKey(id))
	if err != nil {
		return nil, fmt.Errorf("failed to read grievance %d: %v", id, err)
	}
	if data == nil {
		return nil, fmt.Errorf("%w: grievance %d does not exist", domain.ErrNotFound, id)
	}

	var grievance domain.Grievance
	if err := json.Unmarshal(data, &grievance); err != nil {
		return nil, fmt.Errorf("failed to unmarshal grievance %d: %v", id, err)
	}
	return &grievance, nil
}

func loadSLAPolicy(stub shim.ChaincodeStubInterface, ps *services.PersistenceService) (*domain.SLAPolicy, error) {
	var policy domain.SLAPolicy
	if err := ps.Get(stub, config.SLAPolicyKey, &policy); err != nil {
		return nil, fmt.Errorf("failed to load SLA policy: %v", err)
	}
	return &policy, nil
}
