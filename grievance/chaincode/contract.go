package chaincode

import (
	"fmt"

	"github.com/hyperledger/fabric-chaincode-go/shim"
	"github.com/hyperledger/fabric-protos-go/peer"

	"github.com/civic-grievance-platform/fabric-chaincode/grievance/handlers"
	"github.com/civic-grievance-platform/fabric-chaincode/shared/chaincode"
)

// GrievanceContract implements the chaincode interface
type GrievanceContract struct {
	chaincode.BaseContract
}

// NewGrievanceContract creates a new grievance contract
func NewGrievanceContract() *GrievanceContract {
	return &GrievanceContract{
		BaseContract: chaincode.BaseContract{Name: "grievance"},
	}
}

// Init bootstraps the ledger: records the owner identity and the initial SLA
// policy. Expects [ownerIdentity] or [ownerIdentity, policyJSON].
func (cc *GrievanceContract) Init(stub shim.ChaincodeStubInterface) peer.Response {
	_, args := stub.GetFunctionAndParameters()

	accessHandler := handlers.NewAccessHandler()
	if err := accessHandler.InitializeLedger(stub, args); err != nil {
		return shim.Error(fmt.Sprintf("initialization failed: %v", err))
	}

	return shim.Success(nil)
}

// Invoke handles chaincode invocations
func (cc *GrievanceContract) Invoke(stub shim.ChaincodeStubInterface) peer.Response {
	router := NewRouter()
	return cc.InvokeWithRouter(stub, router)
}
