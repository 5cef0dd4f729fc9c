package services

import (
	"strconv"

	"github.com/hyperledger/fabric-chaincode-go/shim"

	"github.com/civic-grievance-platform/fabric-chaincode/grievance/domain"
	"github.com/civic-grievance-platform/fabric-chaincode/shared/config"
	"github.com/civic-grievance-platform/fabric-chaincode/shared/services"
	"github.com/civic-grievance-platform/fabric-chaincode/shared/utils"
	"github.com/civic-grievance-platform/fabric-chaincode/shared/validation"
)

const entityTypeGrievance = "Grievance"

// EventService handles event emission for grievance ledger operations. The
// `at` argument is the transaction time in epoch seconds, supplied by the
// handler that already read it.
type EventService struct {
	*services.BaseEventService
}

// NewEventService creates a new event service.
func NewEventService() *EventService {
	return &EventService{
		BaseEventService: services.NewBaseEventService(),
	}
}

// EmitGrievanceSubmitted emits the creation event for a new grievance.
func (es *EventService) EmitGrievanceSubmitted(stub shim.ChaincodeStubInterface, g *domain.Grievance, actorID string, at int64) error {
	metadata := map[string]string{
		"referenceId": g.ReferenceID,
		"priority":    string(g.Priority),
		"deadline":    strconv.FormatInt(g.Deadline, 10),
	}

	payload := es.CreateEventPayloadWithMetadata(
		config.EventGrievanceSubmitted,
		strconv.FormatUint(g.ID, 10),
		entityTypeGrievance,
		actorID,
		utils.FormatUnix(at),
		g,
		metadata,
	)

	return es.EmitEvent(stub, config.EventGrievanceSubmitted, payload)
}

// EmitStatusUpdated emits the generic status change event.
func (es *EventService) EmitStatusUpdated(stub shim.ChaincodeStubInterface, g *domain.Grievance, previous validation.GrievanceStatus, actorID string, at int64) error {
	metadata := map[string]string{
		"previousStatus": string(previous),
		"newStatus":      string(g.Status),
	}

	payload := es.CreateEventPayloadWithMetadata(
		config.EventGrievanceStatusUpdated,
		strconv.FormatUint(g.ID, 10),
		entityTypeGrievance,
		actorID,
		utils.FormatUnix(at),
		g,
		metadata,
	)

	return es.EmitEvent(stub, config.EventGrievanceStatusUpdated, payload)
}

// EmitGrievanceResolved emits the resolution event.
func (es *EventService) EmitGrievanceResolved(stub shim.ChaincodeStubInterface, g *domain.Grievance, actorID string, at int64) error {
	metadata := map[string]string{
		"referenceId": g.ReferenceID,
		"deadline":    strconv.FormatInt(g.Deadline, 10),
	}
	if g.ResolutionTime != nil {
		metadata["resolutionTime"] = strconv.FormatInt(*g.ResolutionTime, 10)
	}

	payload := es.CreateEventPayloadWithMetadata(
		config.EventGrievanceResolved,
		strconv.FormatUint(g.ID, 10),
		entityTypeGrievance,
		actorID,
		utils.FormatUnix(at),
		g,
		metadata,
	)

	return es.EmitEvent(stub, config.EventGrievanceResolved, payload)
}

// EmitGrievanceEscalated emits the escalation event.
func (es *EventService) EmitGrievanceEscalated(stub shim.ChaincodeStubInterface, g *domain.Grievance, actorID string, at int64) error {
	metadata := map[string]string{
		"referenceId":     g.ReferenceID,
		"escalationLevel": strconv.FormatUint(uint64(g.EscalationLevel), 10),
	}

	payload := es.CreateEventPayloadWithMetadata(
		config.EventGrievanceEscalated,
		strconv.FormatUint(g.ID, 10),
		entityTypeGrievance,
		actorID,
		utils.FormatUnix(at),
		g,
		metadata,
	)

	return es.EmitEvent(stub, config.EventGrievanceEscalated, payload)
}

// EmitSLABreached reports a deadline breach together with the penalty unit
// from the active policy. The ledger records the amount without interpreting
// it.
func (es *EventService) EmitSLABreached(stub shim.ChaincodeStubInterface, g *domain.Grievance, penaltyAmount uint64, actorID string, at int64) error {
	metadata := map[string]string{
		"referenceId":   g.ReferenceID,
		"deadline":      strconv.FormatInt(g.Deadline, 10),
		"penaltyAmount": strconv.FormatUint(penaltyAmount, 10),
	}

	payload := es.CreateEventPayloadWithMetadata(
		config.EventGrievanceSLABreached,
		strconv.FormatUint(g.ID, 10),
		entityTypeGrievance,
		actorID,
		utils.FormatUnix(at),
		g,
		metadata,
	)

	return es.EmitEvent(stub, config.EventGrievanceSLABreached, payload)
}

// EmitSLAConfigUpdated announces a policy replacement.
func (es *EventService) EmitSLAConfigUpdated(stub shim.ChaincodeStubInterface, policy *domain.SLAPolicy, actorID string, at int64) error {
	payload := es.CreateEventPayload(
		config.EventSLAConfigUpdated,
		config.SLAPolicyKey,
		"SLAPolicy",
		actorID,
		utils.FormatUnix(at),
		policy,
	)

	return es.EmitEvent(stub, config.EventSLAConfigUpdated, payload)
}

// EmitOfficerAuthorizationChanged announces an ACL change.
func (es *EventService) EmitOfficerAuthorizationChanged(stub shim.ChaincodeStubInterface, record *domain.OfficerRecord, actorID string, at int64) error {
	payload := es.CreateEventPayload(
		config.EventOfficerAuthorizationChanged,
		record.Identity,
		"Officer",
		actorID,
		utils.FormatUnix(at),
		record,
	)

	return es.EmitEvent(stub, config.EventOfficerAuthorizationChanged, payload)
}
