package session

import "strings"

// e2ePrefix namespaces every end-to-end record except pending event queues,
// which predate it.
const e2ePrefix = "session.e2e."

// Fixed single-record keys.
const (
	keyEndToEndAccount      = e2ePrefix + "account"
	keyDeviceSyncToken      = e2ePrefix + "device_sync_token"
	keyDeviceTrackingStatus = e2ePrefix + "device_tracking_status"
	keyTrustedBackupPubKey  = e2ePrefix + "trusted_backup_pub_key"
)

// partition is a key-prefix record category. The set of partitions below is
// closed: every multi-record category owns exactly one prefix, and its
// accessors never touch a key outside it.
type partition string

const (
	partDevices              partition = e2ePrefix + "devices/"
	partSessions             partition = e2ePrefix + "sessions/"
	partInboundGroupSessions partition = e2ePrefix + "inboundgroupsessions/"
	partRooms                partition = e2ePrefix + "rooms/"
	partPendingEvents        partition = "mx_pending_events_"
)

// key builds the flat store key for id. The identifier is embedded verbatim,
// so for every partition except inbound group sessions it must not itself
// contain the separator.
func (p partition) key(id string) string { return string(p) + id }

// id strips the partition prefix from key.
func (p partition) id(key string) string { return strings.TrimPrefix(key, string(p)) }

// senderKeyLength is the length of an unpadded base64 Curve25519 public key.
// Inbound group session keys are split at this fixed width rather than on
// the separator, because both the sender key and the session id may contain
// '/' characters. A sender key of any other length would misparse; no such
// scheme is known, but the assumption is load-bearing.
const senderKeyLength = 43

func inboundGroupSessionKey(senderKey, sessionID string) string {
	return partInboundGroupSessions.key(senderKey + "/" + sessionID)
}

// splitInboundGroupSessionKey recovers the sender key and session id from a
// flat store key. ok is false when key is not a well-formed member of the
// inbound group session partition.
func splitInboundGroupSessionKey(key string) (senderKey, sessionID string, ok bool) {
	if !strings.HasPrefix(key, string(partInboundGroupSessions)) {
		return "", "", false
	}
	id := partInboundGroupSessions.id(key)
	if len(id) <= senderKeyLength || id[senderKeyLength] != '/' {
		return "", "", false
	}
	return id[:senderKeyLength], id[senderKeyLength+1:], true
}
