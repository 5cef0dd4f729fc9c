package main

import (
	"log"

	"github.com/hyperledger/fabric-chaincode-go/shim"

	"github.com/civic-grievance-platform/fabric-chaincode/grievance/chaincode"
)

func main() {
	grievanceChaincode := chaincode.NewGrievanceContract()

	if err := shim.Start(grievanceChaincode); err != nil {
		log.Fatalf("Error starting Grievance chaincode: %v", err)
	}
}
