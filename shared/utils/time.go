package utils

import (
	"time"

	"github.com/hyperledger/fabric-chaincode-go/shim"
)

// TimeFormat is the standard string form for timestamps in event payloads.
const TimeFormat = time.RFC3339

// TxTime returns the transaction timestamp as a UTC time.Time. Every clock
// reading must come from the transaction itself so all endorsers compute
// identical state; wall clock is used only when the stub carries no
// timestamp at all.
func TxTime(stub shim.ChaincodeStubInterface) time.Time {
	ts, err := stub.GetTxTimestamp()
	if err != nil || ts == nil {
		return time.Now().UTC()
	}
	return time.Unix(ts.Seconds, int64(ts.Nanos)).UTC()
}

// TxUnix returns the transaction timestamp as Unix epoch seconds.
func TxUnix(stub shim.ChaincodeStubInterface) int64 {
	return TxTime(stub).Unix()
}

// FormatUnix renders epoch seconds in the standard string form.
func FormatUnix(sec int64) string {
	return time.Unix(sec, 0).UTC().Format(TimeFormat)
}
