package session

import (
	"encoding/json"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// txnIDField is the member holding the transaction id in the flattened
// on-store form of a queued event.
const txnIDField = "txn_id"

// PendingEvent is a locally queued outgoing event that the server has not
// yet confirmed. Fields carries the event body verbatim and is opaque to
// this layer; TxnID is the client-generated transaction id used to
// re-associate the queued event with its eventual server-confirmed copy.
type PendingEvent struct {
	TxnID  string
	Fields map[string]json.RawMessage
}

// NewTransactionID returns a fresh client-generated transaction id.
func NewTransactionID() string {
	return "go." + uuid.NewString()
}

// GetPendingEvents returns the queued outgoing events for roomID, in send
// order. A missing queue is empty. A queue that fails to decode is also
// returned as empty, but logged at warning level: dropping queued outgoing
// messages is user-visible, unlike the silent decode fallbacks elsewhere in
// this store.
func (s *Store) GetPendingEvents(roomID string) ([]PendingEvent, error) {
	key := partPendingEvents.key(roomID)
	raw, ok, err := s.backing.Get(key)
	if err != nil {
		return nil, errors.Wrapf(err, "get %q", key)
	}
	if !ok {
		return nil, nil
	}

	var flat []map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &flat); err != nil {
		s.log.Warn("discarding malformed pending event queue",
			zap.String("room_id", roomID), zap.Error(err))
		return nil, nil
	}

	events := make([]PendingEvent, 0, len(flat))
	for _, fields := range flat {
		var ev PendingEvent
		if txn, ok := fields[txnIDField]; ok {
			// A non-string transaction id decodes to "".
			_ = json.Unmarshal(txn, &ev.TxnID)
			delete(fields, txnIDField)
		}
		ev.Fields = fields
		events = append(events, ev)
	}
	return events, nil
}

// SetPendingEvents replaces the queued events for roomID. Each event is
// flattened to its base fields merged with an explicit transaction id
// member, and the whole array is written as one value: the array, not the
// entry, is the unit of storage.
func (s *Store) SetPendingEvents(roomID string, events []PendingEvent) error {
	flat := make([]map[string]json.RawMessage, 0, len(events))
	for _, ev := range events {
		fields := make(map[string]json.RawMessage, len(ev.Fields)+1)
		for k, v := range ev.Fields {
			fields[k] = v
		}
		txn, err := json.Marshal(ev.TxnID)
		if err != nil {
			return errors.Wrap(err, "encode transaction id")
		}
		fields[txnIDField] = txn
		flat = append(flat, fields)
	}
	return s.setJSON(partPendingEvents.key(roomID), flat)
}

// RemovePendingEvents deletes the queued events for roomID.
func (s *Store) RemovePendingEvents(roomID string) error {
	return s.backing.Remove(partPendingEvents.key(roomID))
}
