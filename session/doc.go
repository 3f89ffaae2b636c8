// Package session persists client-side end-to-end encryption state inside a
// flat, string-keyed backing store.
//
// The backing store has no tables, indexes or typed values, so record
// categories are partitioned by string key prefixes and structured values
// are stored as JSON. All access goes through typed accessors on Store.
//
// The package covers:
//   - The legacy account pickle
//   - Per-user device lists, plus tracking status and sync token
//   - Pairwise sessions, keyed by peer device key
//   - Inbound group sessions, keyed by sender key and session id
//   - Per-room crypto state
//   - The trusted backup public key
//   - Per-room pending outgoing event queues
//
// Cryptographic payloads (pickles) are opaque strings to this layer. The
// persisted key layout is the durable contract and must stay byte-stable
// across versions, or previously written data is orphaned.
package session
