package interfaces

import "github.com/hyperledger/fabric-chaincode-go/shim"

// EventPayload is the envelope for every chaincode event.
type EventPayload struct {
	EventType  string            `json:"eventType"`
	EntityID   string            `json:"entityID"`
	EntityType string            `json:"entityType"`
	ActorID    string            `json:"actorID"`
	Timestamp  string            `json:"timestamp"`
	Data       interface{}       `json:"data"`
	Metadata   map[string]string `json:"metadata,omitempty"`
}

// EventEmitter emits chaincode events for the wrapper service to consume.
type EventEmitter interface {
	EmitEvent(stub shim.ChaincodeStubInterface, eventName string, payload EventPayload) error
}
