package session

import (
	"encoding/json"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"sessionstore/store"
)

// Store is the namespacing and codec layer over a flat backing store. All
// methods are synchronous and touch nothing beyond the backing store.
type Store struct {
	backing store.Store
	log     *zap.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for decode diagnostics. The default is a
// nop logger.
func WithLogger(log *zap.Logger) Option {
	return func(s *Store) { s.log = log }
}

// New wraps backing. A nil backing store is a configuration error and is
// rejected immediately.
func New(backing store.Store, opts ...Option) (*Store, error) {
	if backing == nil {
		return nil, errors.New("session: nil backing store")
	}
	s := &Store{backing: backing, log: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// ---------- Legacy account ----------

// GetEndToEndAccount returns the legacy account pickle.
func (s *Store) GetEndToEndAccount() (string, bool, error) {
	return s.backing.Get(keyEndToEndAccount)
}

// StoreEndToEndAccount stores the legacy account pickle.
func (s *Store) StoreEndToEndAccount(pickle string) error {
	return s.backing.Set(keyEndToEndAccount, pickle)
}

// RemoveEndToEndAccount deletes the legacy account pickle.
func (s *Store) RemoveEndToEndAccount() error {
	return s.backing.Remove(keyEndToEndAccount)
}

// ---------- Device lists ----------

// GetAllEndToEndDevices returns the stored device map for every user, keyed
// by user id and then device id. Users whose stored value cannot be decoded
// are omitted.
func (s *Store) GetAllEndToEndDevices() (map[string]map[string]json.RawMessage, error) {
	out := map[string]map[string]json.RawMessage{}
	for _, key := range s.keysWithPrefix(string(partDevices)) {
		devices := map[string]json.RawMessage{}
		ok, err := s.getJSON(key, &devices)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		out[partDevices.id(key)] = devices
	}
	return out, nil
}

// StoreEndToEndDevicesForUser replaces the stored device map for userID.
func (s *Store) StoreEndToEndDevicesForUser(userID string, devices map[string]json.RawMessage) error {
	return s.setJSON(partDevices.key(userID), devices)
}

// GetEndToEndDeviceTrackingStatus returns the device-list tracking status
// per user id, or nil when absent.
func (s *Store) GetEndToEndDeviceTrackingStatus() (map[string]int, error) {
	status := map[string]int{}
	ok, err := s.getJSON(keyDeviceTrackingStatus, &status)
	if err != nil || !ok {
		return nil, err
	}
	return status, nil
}

// StoreEndToEndDeviceTrackingStatus replaces the device-list tracking status.
func (s *Store) StoreEndToEndDeviceTrackingStatus(status map[string]int) error {
	return s.setJSON(keyDeviceTrackingStatus, status)
}

// RemoveEndToEndDeviceTrackingStatus deletes the device-list tracking status.
func (s *Store) RemoveEndToEndDeviceTrackingStatus() error {
	return s.backing.Remove(keyDeviceTrackingStatus)
}

// GetEndToEndDeviceSyncToken returns the device-list sync token. The token
// is decoded as a JSON string; legacy values of any other JSON shape are
// treated as absent, like any other undecodable value.
func (s *Store) GetEndToEndDeviceSyncToken() (string, bool, error) {
	var token string
	ok, err := s.getJSON(keyDeviceSyncToken, &token)
	return token, ok, err
}

// StoreEndToEndDeviceSyncToken stores the device-list sync token.
func (s *Store) StoreEndToEndDeviceSyncToken(token string) error {
	return s.setJSON(keyDeviceSyncToken, token)
}

// RemoveEndToEndDeviceSyncToken deletes the device-list sync token.
func (s *Store) RemoveEndToEndDeviceSyncToken() error {
	return s.backing.Remove(keyDeviceSyncToken)
}

// RemoveEndToEndDeviceData deletes all device-list state: every per-user
// device map, the tracking status and the sync token.
func (s *Store) RemoveEndToEndDeviceData() error {
	var errs *multierror.Error
	errs = multierror.Append(errs, s.removeByPrefix(string(partDevices)))
	errs = multierror.Append(errs, s.backing.Remove(keyDeviceTrackingStatus))
	errs = multierror.Append(errs, s.backing.Remove(keyDeviceSyncToken))
	return errs.ErrorOrNil()
}

// ---------- Pairwise sessions ----------

// GetEndToEndSessions returns the pickled sessions with deviceKey, keyed by
// session id. The map is empty, never nil, when nothing is stored.
func (s *Store) GetEndToEndSessions(deviceKey string) (map[string]string, error) {
	sessions := map[string]string{}
	if _, err := s.getJSON(partSessions.key(deviceKey), &sessions); err != nil {
		return nil, err
	}
	return sessions, nil
}

// StoreEndToEndSessions replaces the stored sessions with deviceKey.
func (s *Store) StoreEndToEndSessions(deviceKey string, sessions map[string]string) error {
	return s.setJSON(partSessions.key(deviceKey), sessions)
}

// GetAllEndToEndSessions returns every stored session, keyed by device key
// and then session id.
func (s *Store) GetAllEndToEndSessions() (map[string]map[string]string, error) {
	out := map[string]map[string]string{}
	for _, key := range s.keysWithPrefix(string(partSessions)) {
		sessions := map[string]string{}
		ok, err := s.getJSON(key, &sessions)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		out[partSessions.id(key)] = sessions
	}
	return out, nil
}

// RemoveAllEndToEndSessions deletes every stored pairwise session.
func (s *Store) RemoveAllEndToEndSessions() error {
	return s.removeByPrefix(string(partSessions))
}

// ---------- Inbound group sessions ----------

// InboundGroupSessionKey identifies one inbound group session.
type InboundGroupSessionKey struct {
	SenderKey string
	SessionID string
}

// GetAllEndToEndInboundGroupSessionKeys lists the identifiers of every
// stored inbound group session. Keys that do not parse are skipped.
func (s *Store) GetAllEndToEndInboundGroupSessionKeys() []InboundGroupSessionKey {
	var out []InboundGroupSessionKey
	for _, key := range s.keysWithPrefix(string(partInboundGroupSessions)) {
		senderKey, sessionID, ok := splitInboundGroupSessionKey(key)
		if !ok {
			s.log.Debug("skipping malformed inbound group session key",
				zap.String("key", key))
			continue
		}
		out = append(out, InboundGroupSessionKey{SenderKey: senderKey, SessionID: sessionID})
	}
	return out
}

// GetEndToEndInboundGroupSession returns one inbound group session pickle.
func (s *Store) GetEndToEndInboundGroupSession(senderKey, sessionID string) (string, bool, error) {
	return s.backing.Get(inboundGroupSessionKey(senderKey, sessionID))
}

// StoreEndToEndInboundGroupSession stores one inbound group session pickle.
func (s *Store) StoreEndToEndInboundGroupSession(senderKey, sessionID, pickle string) error {
	return s.backing.Set(inboundGroupSessionKey(senderKey, sessionID), pickle)
}

// RemoveAllEndToEndInboundGroupSessions deletes every stored inbound group
// session.
func (s *Store) RemoveAllEndToEndInboundGroupSessions() error {
	return s.removeByPrefix(string(partInboundGroupSessions))
}

// ---------- Room crypto state ----------

// GetEndToEndRoom returns the crypto state stored for roomID.
func (s *Store) GetEndToEndRoom(roomID string) (json.RawMessage, bool, error) {
	var state json.RawMessage
	ok, err := s.getJSON(partRooms.key(roomID), &state)
	if err != nil || !ok {
		return nil, false, err
	}
	return state, true, nil
}

// StoreEndToEndRoom replaces the crypto state stored for roomID.
func (s *Store) StoreEndToEndRoom(roomID string, state json.RawMessage) error {
	return s.setJSON(partRooms.key(roomID), state)
}

// GetAllEndToEndRooms returns the crypto state of every room, keyed by room
// id. The map is empty, never nil, when nothing is stored.
func (s *Store) GetAllEndToEndRooms() (map[string]json.RawMessage, error) {
	out := map[string]json.RawMessage{}
	for _, key := range s.keysWithPrefix(string(partRooms)) {
		var state json.RawMessage
		ok, err := s.getJSON(key, &state)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		out[partRooms.id(key)] = state
	}
	return out, nil
}

// RemoveAllEndToEndRooms deletes the crypto state of every room.
func (s *Store) RemoveAllEndToEndRooms() error {
	return s.removeByPrefix(string(partRooms))
}

// ---------- Trusted backup key ----------

// GetLocalTrustedBackupPubKey returns the trusted backup public key.
func (s *Store) GetLocalTrustedBackupPubKey() (string, bool, error) {
	return s.backing.Get(keyTrustedBackupPubKey)
}

// SetLocalTrustedBackupPubKey stores the trusted backup public key.
func (s *Store) SetLocalTrustedBackupPubKey(pubKey string) error {
	return s.backing.Set(keyTrustedBackupPubKey, pubKey)
}
