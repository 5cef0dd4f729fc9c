package tests

import (
	"encoding/json"
	"strconv"
	"testing"

	"github.com/golang/protobuf/ptypes/timestamp"
	"github.com/hyperledger/fabric-chaincode-go/shimtest"
	"github.com/hyperledger/fabric-protos-go/peer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/civic-grievance-platform/fabric-chaincode/grievance/domain"
	"github.com/civic-grievance-platform/fabric-chaincode/grievance/handlers"
	"github.com/civic-grievance-platform/fabric-chaincode/shared/interfaces"
	"github.com/civic-grievance-platform/fabric-chaincode/shared/validation"
)

// Epoch-second base for time-controlled tests.
const baseTime int64 = 1_700_000_000

const (
	criticalDeadline int64 = 24 * 3600
	mediumDeadline   int64 = 7 * 24 * 3600
	escalationGrace  int64 = 2 * 24 * 3600
)

// withTxTime runs fn inside a mock transaction whose timestamp is pinned to
// a chosen instant. MockInvoke always stamps the wall clock, so handlers are
// called directly here.
func withTxTime(stub *shimtest.MockStub, txid string, at int64, fn func()) {
	stub.MockTransactionStart(txid)
	stub.TxTimestamp = &timestamp.Timestamp{Seconds: at}
	fn()
	stub.MockTransactionEnd(txid)
}

func submitAt(t *testing.T, stub *shimtest.MockStub, txid, referenceID, priority string, at int64) domain.Grievance {
	t.Helper()
	req := domain.SubmitGrievanceRequest{
		ReferenceID: referenceID,
		Title:       "Water supply disruption in Ward 12",
		Description: "No water supply since Monday morning across the entire ward.",
		Category:    "Utilities",
		Priority:    priority,
		ActorID:     citizenIdentity,
	}
	reqBytes, err := json.Marshal(req)
	require.NoError(t, err)

	handler := handlers.NewGrievanceHandler()
	var payload []byte
	withTxTime(stub, txid, at, func() {
		payload, err = handler.SubmitGrievance(stub, []string{string(reqBytes)})
	})
	require.NoError(t, err)

	var grievance domain.Grievance
	require.NoError(t, json.Unmarshal(payload, &grievance))
	return grievance
}

func updateStatusAt(t *testing.T, stub *shimtest.MockStub, txid string, id uint64, newStatus string, at int64) (domain.Grievance, error) {
	t.Helper()
	req := domain.StatusUpdateRequest{ID: id, NewStatus: newStatus, ActorID: ownerIdentity}
	reqBytes, err := json.Marshal(req)
	require.NoError(t, err)

	handler := handlers.NewGrievanceHandler()
	var payload []byte
	var callErr error
	withTxTime(stub, txid, at, func() {
		payload, callErr = handler.UpdateGrievanceStatus(stub, []string{string(reqBytes)})
	})
	if callErr != nil {
		return domain.Grievance{}, callErr
	}

	var grievance domain.Grievance
	require.NoError(t, json.Unmarshal(payload, &grievance))
	return grievance, nil
}

func checkSLAMetAt(t *testing.T, stub *shimtest.MockStub, txid string, id uint64, at int64) domain.SLACheckResult {
	t.Helper()
	handler := handlers.NewSLAHandler()
	var payload []byte
	var callErr error
	withTxTime(stub, txid, at, func() {
		payload, callErr = handler.CheckSLAMet(stub, []string{strconv.FormatUint(id, 10)})
	})
	require.NoError(t, callErr)

	var result domain.SLACheckResult
	require.NoError(t, json.Unmarshal(payload, &result))
	return result
}

func checkEscalationDueAt(t *testing.T, stub *shimtest.MockStub, txid string, id uint64, at int64) domain.EscalationDueResult {
	t.Helper()
	handler := handlers.NewSLAHandler()
	var payload []byte
	var callErr error
	withTxTime(stub, txid, at, func() {
		payload, callErr = handler.CheckEscalationDue(stub, []string{strconv.FormatUint(id, 10)})
	})
	require.NoError(t, callErr)

	var result domain.EscalationDueResult
	require.NoError(t, json.Unmarshal(payload, &result))
	return result
}

func drainEvents(stub *shimtest.MockStub) []*peer.ChaincodeEvent {
	var events []*peer.ChaincodeEvent
	for {
		select {
		case event := <-stub.ChaincodeEventsChannel:
			events = append(events, event)
		default:
			return events
		}
	}
}

func eventNames(events []*peer.ChaincodeEvent) []string {
	names := make([]string, 0, len(events))
	for _, event := range events {
		names = append(names, event.EventName)
	}
	return names
}

func TestDeadlineComputedFromPriority(t *testing.T) {
	stub := newLedgerStub(t)

	critical := submitAt(t, stub, "x1", "REF-CRIT", "Critical", baseTime)
	assert.Equal(t, baseTime, critical.SubmissionTime)
	assert.Equal(t, baseTime+criticalDeadline, critical.Deadline)

	medium := submitAt(t, stub, "x2", "REF-MED", "Medium", baseTime)
	assert.Equal(t, baseTime+mediumDeadline, medium.Deadline)
}

func TestDeadlineFrozenWhenPolicyChanges(t *testing.T) {
	stub := newLedgerStub(t)
	before := submitAt(t, stub, "x1", "REF-BEFORE", "Critical", baseTime)

	// Tighten the Critical deadline to one hour.
	updated := domain.DefaultSLAPolicy()
	updated.DeadlineByPriority[validation.PriorityCritical] = 3600
	configReq := domain.SLAConfigUpdateRequest{Policy: updated, ActorID: ownerIdentity}
	configBytes, err := json.Marshal(configReq)
	require.NoError(t, err)

	slaHandler := handlers.NewSLAHandler()
	withTxTime(stub, "x2", baseTime+100, func() {
		_, err = slaHandler.SetSLAConfig(stub, []string{string(configBytes)})
	})
	require.NoError(t, err)

	// The existing grievance keeps its frozen deadline.
	result := checkSLAMetAt(t, stub, "x3", before.ID, baseTime+200)
	assert.Equal(t, before.Deadline, result.Deadline)

	// New submissions see the new policy.
	after := submitAt(t, stub, "x4", "REF-AFTER", "Critical", baseTime+300)
	assert.Equal(t, baseTime+300+3600, after.Deadline)
}

func TestCheckSLAMet_OpenGrievance(t *testing.T) {
	stub := newLedgerStub(t)
	grievance := submitAt(t, stub, "x1", "REF-OPEN", "Medium", baseTime)

	early := checkSLAMetAt(t, stub, "x2", grievance.ID, baseTime+100)
	assert.True(t, early.SLAMet)
	assert.Equal(t, grievance.Deadline, early.Deadline)
	assert.Equal(t, baseTime+100, early.CheckedAt)

	// The deadline instant itself still counts as met.
	atDeadline := checkSLAMetAt(t, stub, "x3", grievance.ID, grievance.Deadline)
	assert.True(t, atDeadline.SLAMet)

	late := checkSLAMetAt(t, stub, "x4", grievance.ID, grievance.Deadline+1)
	assert.False(t, late.SLAMet)
}

func TestCheckSLAMet_ResolvedBeforeDeadline(t *testing.T) {
	stub := newLedgerStub(t)
	grievance := submitAt(t, stub, "x1", "REF-RES", "Critical", baseTime)

	_, err := updateStatusAt(t, stub, "x2", grievance.ID, "UnderReview", baseTime+100)
	require.NoError(t, err)
	_, err = updateStatusAt(t, stub, "x3", grievance.ID, "InProgress", baseTime+200)
	require.NoError(t, err)
	resolved, err := updateStatusAt(t, stub, "x4", grievance.ID, "Resolved", baseTime+300)
	require.NoError(t, err)

	require.NotNil(t, resolved.ResolutionTime)
	assert.Equal(t, baseTime+300, *resolved.ResolutionTime)

	// Resolved grievances are judged by resolution time, so the verdict
	// holds no matter how late the check runs.
	result := checkSLAMetAt(t, stub, "x5", grievance.ID, grievance.Deadline+999_999)
	assert.True(t, result.SLAMet)
}

func TestCheckSLAMet_ResolvedAfterDeadline(t *testing.T) {
	stub := newLedgerStub(t)
	grievance := submitAt(t, stub, "x1", "REF-LATE", "Critical", baseTime)

	lateResolve := grievance.Deadline + 500
	_, err := updateStatusAt(t, stub, "x2", grievance.ID, "UnderReview", baseTime+100)
	require.NoError(t, err)
	_, err = updateStatusAt(t, stub, "x3", grievance.ID, "InProgress", baseTime+200)
	require.NoError(t, err)
	_, err = updateStatusAt(t, stub, "x4", grievance.ID, "Resolved", lateResolve)
	require.NoError(t, err)

	result := checkSLAMetAt(t, stub, "x5", grievance.ID, lateResolve+1)
	assert.False(t, result.SLAMet)
}

func TestCheckEscalationDue(t *testing.T) {
	stub := newLedgerStub(t)
	grievance := submitAt(t, stub, "x1", "REF-DUE", "Critical", baseTime)
	eligibleAt := grievance.Deadline + escalationGrace

	before := checkEscalationDueAt(t, stub, "x2", grievance.ID, baseTime+100)
	assert.False(t, before.EscalationDue)
	assert.Equal(t, eligibleAt, before.EligibleAt)

	// The eligibility instant itself is still within grace.
	atEligible := checkEscalationDueAt(t, stub, "x3", grievance.ID, eligibleAt)
	assert.False(t, atEligible.EscalationDue)

	overdue := checkEscalationDueAt(t, stub, "x4", grievance.ID, eligibleAt+1)
	assert.True(t, overdue.EscalationDue)
	assert.Equal(t, eligibleAt+1, overdue.CheckedAt)
}

func TestCheckEscalationDue_NotDueOnceEscalated(t *testing.T) {
	stub := newLedgerStub(t)
	grievance := submitAt(t, stub, "x1", "REF-ESC2", "Critical", baseTime)
	eligibleAt := grievance.Deadline + escalationGrace

	_, err := updateStatusAt(t, stub, "x2", grievance.ID, "Escalated", eligibleAt+10)
	require.NoError(t, err)

	result := checkEscalationDueAt(t, stub, "x3", grievance.ID, eligibleAt+20)
	assert.False(t, result.EscalationDue)
}

func TestCheckEscalationDue_NotDueOnceResolved(t *testing.T) {
	stub := newLedgerStub(t)
	grievance := submitAt(t, stub, "x1", "REF-ESC3", "Critical", baseTime)

	_, err := updateStatusAt(t, stub, "x2", grievance.ID, "UnderReview", baseTime+100)
	require.NoError(t, err)
	_, err = updateStatusAt(t, stub, "x3", grievance.ID, "InProgress", baseTime+200)
	require.NoError(t, err)
	_, err = updateStatusAt(t, stub, "x4", grievance.ID, "Resolved", baseTime+300)
	require.NoError(t, err)

	// Long past the grace window, but the case is resolved.
	result := checkEscalationDueAt(t, stub, "x5", grievance.ID, grievance.Deadline+escalationGrace+999)
	assert.False(t, result.EscalationDue)
}

func TestEscalationPastDeadlineEmitsBreach(t *testing.T) {
	stub := newLedgerStub(t)
	grievance := submitAt(t, stub, "x1", "REF-BREACH", "Critical", baseTime)
	drainEvents(stub)

	escalated, err := updateStatusAt(t, stub, "x2", grievance.ID, "Escalated", grievance.Deadline+10)
	require.NoError(t, err)
	assert.True(t, escalated.IsEscalated)
	assert.Equal(t, uint32(1), escalated.EscalationLevel)

	events := drainEvents(stub)
	names := eventNames(events)
	assert.Contains(t, names, "GrievanceStatusUpdated")
	assert.Contains(t, names, "GrievanceEscalated")
	assert.Contains(t, names, "GrievanceSLABreached")

	for _, event := range events {
		if event.EventName != "GrievanceSLABreached" {
			continue
		}
		var payload interfaces.EventPayload
		require.NoError(t, json.Unmarshal(event.Payload, &payload))
		assert.Equal(t, "1", payload.EntityID)
		assert.Equal(t, "100", payload.Metadata["penaltyAmount"])
	}
}

func TestEscalationBeforeDeadlineEmitsNoBreach(t *testing.T) {
	stub := newLedgerStub(t)
	grievance := submitAt(t, stub, "x1", "REF-NOBRCH", "Critical", baseTime)
	drainEvents(stub)

	_, err := updateStatusAt(t, stub, "x2", grievance.ID, "Escalated", baseTime+10)
	require.NoError(t, err)

	names := eventNames(drainEvents(stub))
	assert.Contains(t, names, "GrievanceEscalated")
	assert.NotContains(t, names, "GrievanceSLABreached")
}

func TestRepeatedEscalationRaisesLevel(t *testing.T) {
	stub := newLedgerStub(t)
	grievance := submitAt(t, stub, "x1", "REF-TWICE", "Critical", baseTime)

	_, err := updateStatusAt(t, stub, "x2", grievance.ID, "Escalated", baseTime+10)
	require.NoError(t, err)
	_, err = updateStatusAt(t, stub, "x3", grievance.ID, "InProgress", baseTime+20)
	require.NoError(t, err)
	second, err := updateStatusAt(t, stub, "x4", grievance.ID, "Escalated", baseTime+30)
	require.NoError(t, err)

	assert.Equal(t, uint32(2), second.EscalationLevel)
	assert.True(t, second.IsEscalated)
}
