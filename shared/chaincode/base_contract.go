package chaincode

import (
	"fmt"

	"github.com/hyperledger/fabric-chaincode-go/shim"
	"github.com/hyperledger/fabric-protos-go/peer"
)

// BaseContract provides common chaincode functionality.
type BaseContract struct {
	Name string
}

// Init is a no-op by default; contracts that need bootstrap state override it.
func (bc *BaseContract) Init(stub shim.ChaincodeStubInterface) peer.Response {
	return shim.Success(nil)
}

// Router dispatches an invocation to the handler registered for its function
// name.
type Router interface {
	Route(stub shim.ChaincodeStubInterface, function string, args []string) ([]byte, error)
}

// InvokeWithRouter resolves the invoked function and hands it to the router.
// Handler errors are surfaced verbatim, prefixed with the function name, so
// callers can distinguish the error kind.
func (bc *BaseContract) InvokeWithRouter(stub shim.ChaincodeStubInterface, router Router) peer.Response {
	function, args := stub.GetFunctionAndParameters()

	response, err := router.Route(stub, function, args)
	if err != nil {
		return shim.Error(fmt.Sprintf("%s: %v", function, err))
	}

	return shim.Success(response)
}
