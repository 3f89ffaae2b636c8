package session_test

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sessionstore/session"
	"sessionstore/store/mem"
)

func newStore(t *testing.T) (*session.Store, *mem.Store) {
	t.Helper()
	backing := mem.New()
	s, err := session.New(backing)
	require.NoError(t, err)
	return s, backing
}

// testSenderKey returns an unpadded base64 Curve25519-sized public key,
// which is always 43 characters.
func testSenderKey(t *testing.T) string {
	t.Helper()
	raw := make([]byte, 32)
	_, err := rand.Read(raw)
	require.NoError(t, err)
	key := base64.RawStdEncoding.EncodeToString(raw)
	require.Len(t, key, 43)
	return key
}

func TestNew_NilBackingStore(t *testing.T) {
	_, err := session.New(nil)
	require.Error(t, err)
}

func TestAccount_RoundTrip(t *testing.T) {
	s, _ := newStore(t)

	_, ok, err := s.GetEndToEndAccount()
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, s.StoreEndToEndAccount("account-pickle"))

	got, ok, err := s.GetEndToEndAccount()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "account-pickle", got)

	require.NoError(t, s.RemoveEndToEndAccount())
	_, ok, err = s.GetEndToEndAccount()
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDevices_RoundTrip(t *testing.T) {
	s, _ := newStore(t)

	alice := map[string]json.RawMessage{
		"DEVA": json.RawMessage(`{"keys":{"curve25519:DEVA":"k1"}}`),
		"DEVB": json.RawMessage(`{"keys":{"curve25519:DEVB":"k2"}}`),
	}
	bob := map[string]json.RawMessage{
		"DEVC": json.RawMessage(`{"keys":{"curve25519:DEVC":"k3"}}`),
	}
	require.NoError(t, s.StoreEndToEndDevicesForUser("@alice:example.org", alice))
	require.NoError(t, s.StoreEndToEndDevicesForUser("@bob:example.org", bob))

	all, err := s.GetAllEndToEndDevices()
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.JSONEq(t, string(alice["DEVA"]), string(all["@alice:example.org"]["DEVA"]))
	assert.JSONEq(t, string(bob["DEVC"]), string(all["@bob:example.org"]["DEVC"]))
}

func TestDeviceTrackingStatusAndSyncToken_RoundTrip(t *testing.T) {
	s, _ := newStore(t)

	status, err := s.GetEndToEndDeviceTrackingStatus()
	require.NoError(t, err)
	assert.Nil(t, status)

	want := map[string]int{"@alice:example.org": 3, "@bob:example.org": 1}
	require.NoError(t, s.StoreEndToEndDeviceTrackingStatus(want))
	status, err = s.GetEndToEndDeviceTrackingStatus()
	require.NoError(t, err)
	assert.Equal(t, want, status)

	require.NoError(t, s.StoreEndToEndDeviceSyncToken("token-123"))
	token, ok, err := s.GetEndToEndDeviceSyncToken()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "token-123", token)

	require.NoError(t, s.RemoveEndToEndDeviceTrackingStatus())
	require.NoError(t, s.RemoveEndToEndDeviceSyncToken())
	status, err = s.GetEndToEndDeviceTrackingStatus()
	require.NoError(t, err)
	assert.Nil(t, status)
	_, ok, err = s.GetEndToEndDeviceSyncToken()
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRemoveEndToEndDeviceData(t *testing.T) {
	s, _ := newStore(t)

	require.NoError(t, s.StoreEndToEndDevicesForUser("@alice:example.org",
		map[string]json.RawMessage{"DEVA": json.RawMessage(`{}`)}))
	require.NoError(t, s.StoreEndToEndDeviceTrackingStatus(map[string]int{"@alice:example.org": 1}))
	require.NoError(t, s.StoreEndToEndDeviceSyncToken("tok"))
	// Unrelated partitions must survive the bulk removal.
	require.NoError(t, s.StoreEndToEndSessions("devkey", map[string]string{"sid": "pickle"}))
	require.NoError(t, s.StoreEndToEndAccount("acct"))

	require.NoError(t, s.RemoveEndToEndDeviceData())

	all, err := s.GetAllEndToEndDevices()
	require.NoError(t, err)
	assert.Empty(t, all)
	status, err := s.GetEndToEndDeviceTrackingStatus()
	require.NoError(t, err)
	assert.Nil(t, status)
	_, ok, err := s.GetEndToEndDeviceSyncToken()
	require.NoError(t, err)
	assert.False(t, ok)

	sessionsLeft, err := s.GetEndToEndSessions("devkey")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"sid": "pickle"}, sessionsLeft)
	_, ok, err = s.GetEndToEndAccount()
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestSessions_RoundTrip(t *testing.T) {
	s, _ := newStore(t)

	empty, err := s.GetEndToEndSessions("unknown")
	require.NoError(t, err)
	require.NotNil(t, empty)
	assert.Empty(t, empty)

	want := map[string]string{"sid1": "pickle1", "sid2": "pickle2"}
	require.NoError(t, s.StoreEndToEndSessions("devkey1", want))
	require.NoError(t, s.StoreEndToEndSessions("devkey2", map[string]string{"sid3": "pickle3"}))

	got, err := s.GetEndToEndSessions("devkey1")
	require.NoError(t, err)
	assert.Equal(t, want, got)

	all, err := s.GetAllEndToEndSessions()
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, want, all["devkey1"])
	assert.Equal(t, "pickle3", all["devkey2"]["sid3"])
}

func TestRemoveAllEndToEndSessions_LeavesOtherPrefixes(t *testing.T) {
	s, backing := newStore(t)

	require.NoError(t, s.StoreEndToEndSessions("devkey1", map[string]string{"sid": "p"}))
	require.NoError(t, s.StoreEndToEndSessions("devkey2", map[string]string{"sid": "p"}))
	require.NoError(t, s.StoreEndToEndInboundGroupSession(testSenderKey(t), "sid", "pickle"))
	// A key sharing a shorter prefix than the sessions partition.
	require.NoError(t, backing.Set("session.e2e.sessions", "bare"))

	require.NoError(t, s.RemoveAllEndToEndSessions())

	all, err := s.GetAllEndToEndSessions()
	require.NoError(t, err)
	assert.Empty(t, all)
	assert.Len(t, s.GetAllEndToEndInboundGroupSessionKeys(), 1)
	_, ok, err := backing.Get("session.e2e.sessions")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestInboundGroupSessions_RoundTrip(t *testing.T) {
	s, _ := newStore(t)

	senderKey := testSenderKey(t)
	sessionID := "megolm/session/id"

	_, ok, err := s.GetEndToEndInboundGroupSession(senderKey, sessionID)
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, s.StoreEndToEndInboundGroupSession(senderKey, sessionID, "pickle"))

	got, ok, err := s.GetEndToEndInboundGroupSession(senderKey, sessionID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "pickle", got)

	keys := s.GetAllEndToEndInboundGroupSessionKeys()
	require.Len(t, keys, 1)
	assert.Equal(t, senderKey, keys[0].SenderKey)
	assert.Equal(t, sessionID, keys[0].SessionID)

	require.NoError(t, s.RemoveAllEndToEndInboundGroupSessions())
	assert.Empty(t, s.GetAllEndToEndInboundGroupSessionKeys())
}

func TestRooms_RoundTrip(t *testing.T) {
	s, _ := newStore(t)

	all, err := s.GetAllEndToEndRooms()
	require.NoError(t, err)
	require.NotNil(t, all)
	assert.Empty(t, all)

	state := json.RawMessage(`{"algorithm":"m.megolm.v1.aes-sha2","rotation_period_ms":604800000}`)
	require.NoError(t, s.StoreEndToEndRoom("!room:example.org", state))

	got, ok, err := s.GetEndToEndRoom("!room:example.org")
	require.NoError(t, err)
	require.True(t, ok)
	assert.JSONEq(t, string(state), string(got))

	all, err = s.GetAllEndToEndRooms()
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.JSONEq(t, string(state), string(all["!room:example.org"]))

	require.NoError(t, s.RemoveAllEndToEndRooms())
	all, err = s.GetAllEndToEndRooms()
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestTrustedBackupPubKey_RoundTrip(t *testing.T) {
	s, _ := newStore(t)

	_, ok, err := s.GetLocalTrustedBackupPubKey()
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, s.SetLocalTrustedBackupPubKey("backup-pub-key"))
	got, ok, err := s.GetLocalTrustedBackupPubKey()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "backup-pub-key", got)
}

func TestUndecodableValue_TreatedAsAbsent(t *testing.T) {
	s, backing := newStore(t)

	require.NoError(t, backing.Set("session.e2e.device_tracking_status", "not-json"))
	status, err := s.GetEndToEndDeviceTrackingStatus()
	require.NoError(t, err)
	assert.Nil(t, status)

	// A legacy object-valued sync token is not a JSON string and degrades
	// to absent.
	require.NoError(t, backing.Set("session.e2e.device_sync_token", `{"token":"t1"}`))
	_, ok, err := s.GetEndToEndDeviceSyncToken()
	require.NoError(t, err)
	assert.False(t, ok)

	// Users with corrupt device maps are skipped, not fatal.
	require.NoError(t, backing.Set("session.e2e.devices/@mallory:example.org", "not-json"))
	require.NoError(t, s.StoreEndToEndDevicesForUser("@alice:example.org",
		map[string]json.RawMessage{"DEVA": json.RawMessage(`{}`)}))
	all, err := s.GetAllEndToEndDevices()
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Contains(t, all, "@alice:example.org")
}

func TestRemoveNeverSetKeys_NoOp(t *testing.T) {
	s, _ := newStore(t)

	require.NoError(t, s.RemoveEndToEndAccount())
	require.NoError(t, s.RemoveEndToEndDeviceData())
	require.NoError(t, s.RemoveAllEndToEndSessions())
	require.NoError(t, s.RemoveAllEndToEndInboundGroupSessions())
	require.NoError(t, s.RemoveAllEndToEndRooms())
	require.NoError(t, s.RemovePendingEvents("!room:example.org"))
}
