package chaincode

import (
	"fmt"

	"github.com/hyperledger/fabric-chaincode-go/shim"

	"github.com/civic-grievance-platform/fabric-chaincode/grievance/handlers"
)

// Router handles function routing for the grievance chaincode
type Router struct {
	handlers map[string]func(shim.ChaincodeStubInterface, []string) ([]byte, error)
}

// NewRouter creates a new router with all handler mappings
func NewRouter() *Router {
	grievanceHandler := handlers.NewGrievanceHandler()
	slaHandler := handlers.NewSLAHandler()
	accessHandler := handlers.NewAccessHandler()

	return &Router{
		handlers: map[string]func(shim.ChaincodeStubInterface, []string) ([]byte, error){
			// Grievance functions
			"SubmitGrievance":          grievanceHandler.SubmitGrievance,
			"UpdateGrievanceStatus":    grievanceHandler.UpdateGrievanceStatus,
			"GetGrievance":             grievanceHandler.GetGrievance,
			"GetGrievanceByReferenceID": grievanceHandler.GetGrievanceByReferenceID,
			"GetUserGrievances":        grievanceHandler.GetUserGrievances,
			"GetTotalGrievances":       grievanceHandler.GetTotalGrievances,
			"GetGrievanceHistory":      grievanceHandler.GetGrievanceHistory,

			// SLA functions
			"CheckSLAMet":        slaHandler.CheckSLAMet,
			"CheckEscalationDue": slaHandler.CheckEscalationDue,
			"GetSLAConfig":       slaHandler.GetSLAConfig,
			"SetSLAConfig":       slaHandler.SetSLAConfig,

			// Access control functions
			"SetOfficerAuthorization": accessHandler.SetOfficerAuthorization,
			"IsAuthorizedOfficer":     accessHandler.IsAuthorizedOfficer,

			// Health check
			"Ping": func(shim.ChaincodeStubInterface, []string) ([]byte, error) {
				return []byte("pong"), nil
			},
		},
	}
}

// Route routes the function call to the appropriate handler
func (r *Router) Route(stub shim.ChaincodeStubInterface, function string, args []string) ([]byte, error) {
	handler, exists := r.handlers[function]
	if !exists {
		return nil, fmt.Errorf("function %s not found", function)
	}

	return handler(stub, args)
}
