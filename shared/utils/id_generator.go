package utils

import "fmt"

// HistoryEntryID builds a per-transaction identifier for a history entry.
// The id is derived from the transaction id and a sequence number rather
// than from randomness, so every endorser produces the same write set.
func HistoryEntryID(prefix, txID string, seq int) string {
	return fmt.Sprintf("%s_%s_%04d", prefix, txID, seq)
}
