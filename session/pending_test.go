package session_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sessionstore/session"
)

const pendingRoom = "!room:example.org"

func TestPendingEvents_RoundTrip(t *testing.T) {
	s, _ := newStore(t)

	events := []session.PendingEvent{
		{
			TxnID: session.NewTransactionID(),
			Fields: map[string]json.RawMessage{
				"type":    json.RawMessage(`"m.room.message"`),
				"content": json.RawMessage(`{"body":"first"}`),
			},
		},
		{
			TxnID: session.NewTransactionID(),
			Fields: map[string]json.RawMessage{
				"type":    json.RawMessage(`"m.room.message"`),
				"content": json.RawMessage(`{"body":"second"}`),
			},
		},
		{
			// No transaction id among the base fields; the explicit TxnID
			// must still round-trip.
			TxnID: "m1700000000.3",
			Fields: map[string]json.RawMessage{
				"type": json.RawMessage(`"m.room.message"`),
			},
		},
	}

	require.NoError(t, s.SetPendingEvents(pendingRoom, events))

	got, err := s.GetPendingEvents(pendingRoom)
	require.NoError(t, err)
	require.Len(t, got, 3)
	for i := range events {
		assert.Equal(t, events[i].TxnID, got[i].TxnID)
		assert.NotContains(t, got[i].Fields, "txn_id")
		assert.JSONEq(t, string(events[i].Fields["type"]), string(got[i].Fields["type"]))
	}
	assert.JSONEq(t, `{"body":"second"}`, string(got[1].Fields["content"]))
}

func TestPendingEvents_TxnIDExtractedFromStoredForm(t *testing.T) {
	s, backing := newStore(t)

	stored := `[{"type":"m.room.message","content":{"body":"hi"},"txn_id":"m123.0"}]`
	require.NoError(t, backing.Set("mx_pending_events_"+pendingRoom, stored))

	got, err := s.GetPendingEvents(pendingRoom)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "m123.0", got[0].TxnID)
	assert.NotContains(t, got[0].Fields, "txn_id")
	assert.JSONEq(t, `{"body":"hi"}`, string(got[0].Fields["content"]))
}

func TestPendingEvents_MissingQueueIsEmpty(t *testing.T) {
	s, _ := newStore(t)

	got, err := s.GetPendingEvents(pendingRoom)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestPendingEvents_MalformedQueueIsEmpty(t *testing.T) {
	s, backing := newStore(t)

	require.NoError(t, backing.Set("mx_pending_events_"+pendingRoom, "not-json"))

	got, err := s.GetPendingEvents(pendingRoom)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestPendingEvents_Remove(t *testing.T) {
	s, _ := newStore(t)

	require.NoError(t, s.SetPendingEvents(pendingRoom, []session.PendingEvent{
		{TxnID: "m1.0", Fields: map[string]json.RawMessage{"type": json.RawMessage(`"m.room.message"`)}},
	}))
	require.NoError(t, s.RemovePendingEvents(pendingRoom))

	got, err := s.GetPendingEvents(pendingRoom)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestNewTransactionID_Unique(t *testing.T) {
	a := session.NewTransactionID()
	b := session.NewTransactionID()
	assert.NotEmpty(t, a)
	assert.NotEqual(t, a, b)
}
