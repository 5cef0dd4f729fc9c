package interfaces

import "github.com/hyperledger/fabric-chaincode-go/shim"

// PersistenceService defines the state operations handlers depend on.
type PersistenceService interface {
	// Get retrieves and unmarshals JSON state; missing keys are an error.
	Get(stub shim.ChaincodeStubInterface, key string, result interface{}) error

	// Put marshals and stores JSON state.
	Put(stub shim.ChaincodeStubInterface, key string, value interface{}) error

	// Exists reports whether a key holds state.
	Exists(stub shim.ChaincodeStubInterface, key string) (bool, error)

	// GetByPartialCompositeKey returns the raw values stored under a
	// composite-key prefix, in key order.
	GetByPartialCompositeKey(stub shim.ChaincodeStubInterface, objectType string, attributes []string) ([][]byte, error)

	// CreateCompositeKey builds a composite key for index entries.
	CreateCompositeKey(stub shim.ChaincodeStubInterface, objectType string, attributes []string) (string, error)
}
